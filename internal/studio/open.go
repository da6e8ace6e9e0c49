package studio

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/config"
	"github.com/Faultbox/voxelforge/internal/controller"
	"github.com/Faultbox/voxelforge/internal/generation"
	"github.com/Faultbox/voxelforge/internal/history"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/physics"
	"github.com/Faultbox/voxelforge/internal/preset"
)

// Open wires a studio from configuration and selects the start preset.
func Open(ctx context.Context, cfg *config.Config) (*Studio, error) {
	seed := cfg.Animation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	engine := physics.NewEngine(cfg.Physics, physics.WithSeed(seed))
	ctrl := controller.New(engine, controller.WithAssembleDelay(cfg.Animation.AssembleDelay.Seconds()))

	var gw generation.Gateway = generation.Procedural{}
	if cfg.Generation.Endpoint != "" {
		gw = generation.NewHTTPGateway(cfg.Generation.Endpoint, cfg.Generation.APIKey, cfg.Generation.Timeout)
		logger.Info("using remote generator", zap.String("endpoint", cfg.Generation.Endpoint))
	} else {
		logger.Info("using procedural generator")
	}

	hist, err := openHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	presets := preset.Builtin()
	if cfg.Presets.Dir != "" {
		if _, err := presets.LoadDir(cfg.Presets.Dir); err != nil {
			logger.Warn("custom presets unavailable", zap.Error(err))
		}
	}

	s := New(ctrl, gw, hist, presets)
	if name := cfg.Animation.StartPreset; name != "" {
		if err := s.SelectPreset(name); err != nil {
			logger.Warn("start preset unavailable", zap.String("preset", name), zap.Error(err))
		}
	}
	return s, nil
}

func openHistory(ctx context.Context, cfg *config.Config) (history.Log, error) {
	if cfg.History.Path == history.MemoryPath {
		return history.NewMemory(cfg.History.MaxEntries), nil
	}
	path := cfg.HistoryPath()
	log, err := history.OpenSQLite(ctx, path, cfg.History.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	logger.Info("history opened", zap.String("path", path))
	return log, nil
}
