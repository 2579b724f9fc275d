// Package refresher runs the presence simulation in the background on a
// cron schedule, so the member list keeps looking alive while playback
// runs.
package refresher

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"chatsim/pkg/config"
	"chatsim/pkg/directory"
	"chatsim/pkg/logger"
)

// Start starts the presence refresher if a cron expression is configured.
// Returns a cancel func; with an empty expression the cancel is a no-op.
func Start(ctx context.Context, cfg config.DirectoryConfig, dir *directory.Directory) (context.CancelFunc, error) {
	if cfg.PresenceCron == "" {
		logger.Info("presence_refresher_disabled")
		return func() {}, nil
	}
	if !gronx.IsValid(cfg.PresenceCron) {
		logger.Error("presence_invalid_cron", "cron", cfg.PresenceCron)
		return nil, fmt.Errorf("invalid presence cron expression: %s", cfg.PresenceCron)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go run(ctx2, cfg, dir)
	logger.Info("presence_refresher_started", "cron", cfg.PresenceCron, "percent", cfg.PresencePercent)
	return cancel, nil
}

// run computes the next tick for the cron expression with gronx and sleeps
// until then, touching a slice of the directory on each tick.
func run(ctx context.Context, cfg config.DirectoryConfig, dir *directory.Directory) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("presence_refresher_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cfg.PresenceCron, now, false)
		if err != nil {
			logger.Error("presence_nexttick_failed", "cron", cfg.PresenceCron, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("presence_refresher_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			touched := dir.SimulatePresenceStep(cfg.PresencePercent)
			logger.Debug("presence_refreshed", "touched", touched)
		case <-ctx.Done():
			logger.Info("presence_refresher_stopping")
			return
		}
	}
}
