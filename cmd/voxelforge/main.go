// Package main is the entry point for the VoxelForge viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/api"
	"github.com/Faultbox/voxelforge/internal/config"
	"github.com/Faultbox/voxelforge/internal/game"
	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/studio"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== VoxelForge ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("voxelforge failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("closed normally")
}

func run(cfg *config.Config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := studio.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()

	if cfg.Server.Enabled {
		srv := api.New(st, api.Options{
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			AccessLog:    cfg.Logging.Level == "debug",
		})
		go func() {
			if err := srv.Listen(cfg.Server.Addr); err != nil {
				logger.Error("api server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = multierr.Append(err, srv.Shutdown(shutdownCtx))
		}()
	}

	if cfg.Window.Headless {
		return game.RunHeadless(ctx, st, cfg.Animation.TickRate)
	}

	g, err := game.New(cfg, st)
	if err != nil {
		return err
	}
	defer g.Close()

	// The viewer loop owns the main thread; a signal closes it via ctx.
	go func() {
		<-ctx.Done()
		g.Stop()
	}()
	return g.Run()
}
