package main

import (
	"context"
	"time"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheStats prints entry counts and freshness for the artist cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewArtistCacheRepository(db)
	stats, err := repo.Stats(time.Now().UTC(), r.config.Cache.Expiry())
	if err != nil {
		return err
	}

	_, err = r.output.Write(formatter.FormatCacheStats(stats))
	return err
}

// CacheTop prints cached artists ordered by subscriber count.
func (r *Runner) CacheTop(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewArtistCacheRepository(db)
	entries, err := repo.Top(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return r.writePlain("Cache is empty\n")
	}

	_, err = r.output.Write(formatter.FormatCacheEntries(entries))
	return err
}

// CacheClear deletes every cached artist entry.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewArtistCacheRepository(db)
	cleared, err := repo.Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cache cleared", "entries", cleared)
	return r.writePlain("✓ Cleared %d cached artists\n", cleared)
}
