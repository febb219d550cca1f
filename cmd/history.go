package main

import (
	"context"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History prints recorded sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSyncRunRepository(db)
	runs, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No sync runs recorded yet\n")
	}

	_, err = r.output.Write(formatter.FormatRuns(runs))
	return err
}
