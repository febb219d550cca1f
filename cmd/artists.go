package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// subscriptionLister is satisfied by services that can return titled
// subscription rows rather than just the channel-ID set.
type subscriptionLister interface {
	Subscriptions(ctx context.Context) ([]services.Subscription, error)
}

// List prints or exports the account's current subscriptions.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	svc, err := r.ensureService(ctx)
	if err != nil {
		return err
	}

	lister, ok := svc.(subscriptionLister)
	if !ok {
		return fmt.Errorf("%w: %s cannot list subscriptions", shared.ErrNotImplemented, svc.Name())
	}

	r.logger.Info("listing subscriptions")

	subs, err := lister.Subscriptions(ctx)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteSubscriptionsExport(subs, path, cmd.String("format")); err != nil {
			return err
		}
		r.logger.Info("subscriptions exported", "file", path, "count", len(subs))
		return r.writePlain("✓ %d subscriptions written to %s\n", len(subs), path)
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "json":
		if data, err = formatter.SubscriptionsToJSON(subs); err != nil {
			return err
		}
	case "csv":
		if data, err = formatter.SubscriptionsToCSV(subs); err != nil {
			return err
		}
	case "text", "":
		data = formatter.SubscriptionsToText(subs)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

type resolveView struct {
	Query           string `json:"query"`
	ResolvedName    string `json:"resolved_name,omitempty"`
	ChannelID       string `json:"channel_id,omitempty"`
	SubscriberCount int64  `json:"subscriber_count,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Resolve maps artist names to channels through the cache and prints each
// outcome. Lookup failures are reported per name; cache storage failures
// abort the command.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one artist name is required", shared.ErrMissingArgument)
	}

	svc, err := r.ensureService(ctx)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cache := repositories.NewArtistCacheRepository(db)
	resolver := tasks.NewCachedResolver(svc, cache, r.config.Cache.Expiry(), r.logger)
	resolver.SetForceRefresh(cmd.Bool("force-refresh"))

	views := make([]resolveView, 0, len(names))
	for _, name := range names {
		artist, err := resolver.Resolve(ctx, name)
		if err != nil {
			if errors.Is(err, shared.ErrCacheUnavailable) {
				return err
			}
			views = append(views, resolveView{Query: name, Error: err.Error()})
			continue
		}
		if artist == nil {
			views = append(views, resolveView{Query: name})
			continue
		}
		views = append(views, resolveView{
			Query:           name,
			ResolvedName:    artist.Name,
			ChannelID:       artist.ChannelID,
			SubscriberCount: artist.SubscriberCount,
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	for _, v := range views {
		switch {
		case v.Error != "":
			r.writePlain("✗ %s: %s\n", v.Query, v.Error)
		case v.ChannelID == "":
			r.writePlain("? %s: no matching channel found\n", v.Query)
		case v.SubscriberCount > 0:
			r.writePlain("✓ %s -> %s (%s, %s subscribers)\n", v.Query, v.ResolvedName, v.ChannelID, formatter.FormatCount(v.SubscriberCount))
		default:
			r.writePlain("✓ %s -> %s (%s)\n", v.Query, v.ResolvedName, v.ChannelID)
		}
	}

	return nil
}

// Validate parses an artists file and reports malformed lines without
// touching any remote service.
func (r *Runner) Validate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to an artists file is required", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open targets file: %w", err)
	}
	defer f.Close()

	targets, issues, err := tasks.ParseTargets(f)
	if err != nil {
		return err
	}

	r.writePlain("%s: %d valid targets\n", path, len(targets))
	for _, target := range targets {
		if len(target.Tags) > 0 {
			r.writePlain("  ✓ %s %v\n", target.Name, target.Tags)
		} else {
			r.writePlain("  ✓ %s\n", target.Name)
		}
	}

	if len(issues) > 0 {
		r.writePlain("%d invalid lines:\n", len(issues))
		for _, issue := range issues {
			r.writePlain("  ✗ %s\n", issue)
		}
		return fmt.Errorf("%w: %d invalid lines in %s", shared.ErrInvalidInput, len(issues), path)
	}

	return nil
}
