package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
)

// RunRecorder persists finished runs. Implemented by
// repositories.SyncRunRepository.
type RunRecorder interface {
	Create(run *models.SyncRun) error
}

// SyncOptions configure one sync run.
type SyncOptions struct {
	// DryRun reports what would change without touching the account.
	// This is the default; live mode is opt-in at the CLI.
	DryRun bool

	// Delay paces consecutive subscribe calls in live mode.
	Delay time.Duration

	// ForceRefresh bypasses cache reads so every target hits the remote
	// service.
	ForceRefresh bool
}

// SyncEngine orchestrates a full run: snapshot, plan, execute, record.
type SyncEngine struct {
	service  services.Service
	resolver *CachedResolver
	runs     RunRecorder
	logger   *log.Logger
}

// NewSyncEngine creates an engine. The run recorder may be nil, in which
// case history is not kept.
func NewSyncEngine(service services.Service, resolver *CachedResolver, runs RunRecorder, logger *log.Logger) *SyncEngine {
	return &SyncEngine{
		service:  service,
		resolver: resolver,
		runs:     runs,
		logger:   logger,
	}
}

// Snapshot reads the account's current subscriptions.
//
// A failed read degrades to an empty set with a warning instead of aborting:
// the worst case is a subscribe attempt for a channel the account already
// follows, which the plan is expected to tolerate.
func (e *SyncEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) models.SubscriptionSet {
	sendProgress(progress, snapshotUpdate())

	subs, err := e.service.ListSubscriptions(ctx)
	if err != nil {
		e.logger.Warn("failed to read subscriptions, proceeding with empty snapshot", "error", err)
		return models.NewSubscriptionSet()
	}

	e.logger.Debug("subscription snapshot", "channels", subs.Len())
	return subs
}

// Plan resolves every target and classifies it against a fresh subscription
// snapshot, without executing anything.
func (e *SyncEngine) Plan(ctx context.Context, targets []models.ArtistTarget, forceRefresh bool, progress chan<- ProgressUpdate) ([]models.SyncAction, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.resolver.SetForceRefresh(forceRefresh)
	subs := e.Snapshot(ctx, progress)

	plan, err := BuildPlan(ctx, e.resolver, subs, targets, progress)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Sync runs the full pipeline for the given targets.
//
// The returned result is complete whenever the error is nil; individual
// action failures live in the result, not the error.
func (e *SyncEngine) Sync(ctx context.Context, targets []models.ArtistTarget, opts SyncOptions, progress chan<- ProgressUpdate) (*models.SyncResult, error) {
	startedAt := time.Now().UTC()

	plan, err := e.Plan(ctx, targets, opts.ForceRefresh, progress)
	if err != nil {
		return nil, err
	}

	return e.ExecutePlan(ctx, plan, opts, startedAt, progress)
}

// ExecutePlan carries out an already-built plan and records the run. Split
// from Sync so the interactive flow can show the plan for review first.
func (e *SyncEngine) ExecutePlan(ctx context.Context, plan []models.SyncAction, opts SyncOptions, startedAt time.Time, progress chan<- ProgressUpdate) (*models.SyncResult, error) {
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	executor := NewExecutor(e.service, opts.Delay, opts.DryRun, e.logger)
	result, err := executor.Execute(ctx, plan, progress)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, doneUpdate(result))

	if e.runs != nil {
		run := models.NewSyncRun(len(plan), result, startedAt, time.Now().UTC())
		if err := e.runs.Create(run); err != nil {
			// History is best-effort; the sync itself already happened.
			e.logger.Warn("failed to record sync run", "error", err)
		}
	}

	return result, nil
}
