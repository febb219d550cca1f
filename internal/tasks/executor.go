package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
	"golang.org/x/time/rate"
)

// Executor carries out a plan against the subscription service.
//
// Mutating calls are paced by a rate limiter so consecutive subscribes are
// at least the configured delay apart, with no trailing wait after the last
// one. In dry-run mode the writer is never touched and no pacing happens.
type Executor struct {
	writer  services.SubscriptionWriter
	limiter *rate.Limiter
	dryRun  bool
	logger  *log.Logger
}

// NewExecutor creates an executor. A non-positive delay disables pacing.
func NewExecutor(writer services.SubscriptionWriter, delay time.Duration, dryRun bool, logger *log.Logger) *Executor {
	var limiter *rate.Limiter
	if delay > 0 {
		// Burst 1 lets the first call through immediately; every later
		// call waits out the interval.
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	return &Executor{
		writer:  writer,
		limiter: limiter,
		dryRun:  dryRun,
		logger:  logger,
	}
}

// Execute walks the plan in order and records an outcome for every action.
//
// A failed subscribe is recorded and execution continues with the remaining
// actions; only context cancellation stops the run early. The returned
// result is complete whenever the error is nil.
func (e *Executor) Execute(ctx context.Context, plan []models.SyncAction, progress chan<- ProgressUpdate) (*models.SyncResult, error) {
	result := &models.SyncResult{DryRun: e.dryRun}
	total := len(plan)

	for i, action := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome := models.ActionOutcome{Action: action}

		if action.Type == models.ActionSubscribe {
			if e.dryRun {
				e.logger.Info("would subscribe", "artist", action.Resolved.Name, "channel", action.Resolved.ChannelID)
			} else {
				if e.limiter != nil {
					if err := e.limiter.Wait(ctx); err != nil {
						return nil, err
					}
				}
				if err := e.writer.Subscribe(ctx, action.Resolved.ChannelID); err != nil {
					e.logger.Error("subscribe failed", "artist", action.Resolved.Name, "error", err)
					outcome.Err = err
				} else {
					e.logger.Info("subscribed", "artist", action.Resolved.Name, "channel", action.Resolved.ChannelID)
				}
			}
		}

		result.Record(outcome)
		sendProgress(progress, executedUpdate(i+1, total, outcome))
	}

	return result, nil
}
