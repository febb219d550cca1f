package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/desertthunder/ytsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for plan review and execution.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	targets, err := r.loadTargets(cmd.String("artists-file"))
	if err != nil {
		return err
	}

	return r.runInteractive(ctx, targets, r.syncOptions(cmd))
}

func (r *Runner) runInteractive(ctx context.Context, targets []models.ArtistTarget, opts tasks.SyncOptions) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ytsync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, db, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	model := ui.NewModel(ctx, engine, targets, opts)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if model.Err() != nil {
		return model.Err()
	}

	if result := model.Result(); result != nil {
		if _, err := r.output.Write(formatter.FormatResult(result)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !result.Succeeded() {
			return fmt.Errorf("%w: %d actions failed", shared.ErrPartialFailure, result.Failed)
		}
	}

	return nil
}
