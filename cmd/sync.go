package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync plans and executes subscriptions for every target in the artists file.
//
// Dry-run is the default; --apply performs the plan against the account.
// A run with action failures returns an error wrapping
// [shared.ErrPartialFailure] so main can map it to exit code 1.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	targets, err := r.loadTargets(cmd.String("artists-file"))
	if err != nil {
		return err
	}

	opts := r.syncOptions(cmd)
	if cmd.Bool("interactive") {
		return r.runInteractive(ctx, targets, opts)
	}

	engine, db, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if !opts.DryRun && r.service.Mode() != services.AuthOAuth {
		return fmt.Errorf("%w: live sync requires OAuth, run `ytsync auth login`", shared.ErrNotAuthenticated)
	}

	r.logger.Info("starting sync", "targets", len(targets), "dry_run", opts.DryRun, "delay", opts.Delay)

	startedAt := time.Now().UTC()
	plan, err := engine.Plan(ctx, targets, opts.ForceRefresh, nil)
	if err != nil {
		return err
	}

	useJSON := cmd.Bool("json")
	if !useJSON {
		if _, err := r.output.Write(formatter.FormatPlan(plan)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	result, err := engine.ExecutePlan(ctx, plan, opts, startedAt, nil)
	if err != nil {
		return err
	}

	if useJSON {
		if opts.DryRun {
			data, err := formatter.PlanToJSON(plan)
			if err != nil {
				return err
			}
			if err := r.writePlain("%s\n", data); err != nil {
				return err
			}
		} else {
			data, err := formatter.ResultToJSON(result)
			if err != nil {
				return err
			}
			if err := r.writePlain("%s\n", data); err != nil {
				return err
			}
		}
	} else {
		if _, err := r.output.Write(formatter.FormatResult(result)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if !result.Succeeded() {
		return fmt.Errorf("%w: %d of %d actions failed", shared.ErrPartialFailure, result.Failed, len(result.Outcomes))
	}

	return nil
}

// syncOptions derives run options from flags, falling back to config values.
func (r *Runner) syncOptions(cmd *cli.Command) tasks.SyncOptions {
	delay := cmd.Duration("delay")
	if delay <= 0 {
		delay = r.config.Sync.Delay()
	}

	return tasks.SyncOptions{
		DryRun:       cmd.Bool("dry-run") && !cmd.Bool("apply"),
		Delay:        delay,
		ForceRefresh: cmd.Bool("force-refresh"),
	}
}

// loadTargets reads the artists file named by the flag or by config.
func (r *Runner) loadTargets(path string) ([]models.ArtistTarget, error) {
	if path == "" {
		path = r.config.Sync.ArtistsFile
	}
	if path == "" {
		return nil, fmt.Errorf("%w: pass --artists-file or set sync.artists_file in config", shared.ErrMissingArgument)
	}

	targets, err := tasks.LoadTargetsFile(path)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("loaded targets", "count", len(targets), "file", path)
	return targets, nil
}
