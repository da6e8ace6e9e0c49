package game

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/logger"
	"github.com/Faultbox/voxelforge/internal/studio"
)

// RunHeadless advances st at tickRate frames per second until ctx is done.
func RunHeadless(ctx context.Context, st *studio.Studio, tickRate int) error {
	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("running headless", zap.Int("tick_rate", tickRate))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			st.Update(now.Sub(last).Seconds())
			last = now
		}
	}
}
