// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// syncFlags are shared between `sync` and `tui`.
func syncFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:    "artists-file",
			Aliases: []string{"f"},
			Usage:   "Path to the artists file, one name per line",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Report planned actions without subscribing",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "apply",
			Usage: "Perform subscriptions (overrides --dry-run)",
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "Pause between consecutive subscribe calls (e.g. 2s)",
		},
		&cli.BoolFlag{
			Name:  "force-refresh",
			Usage: "Bypass the artist cache and re-resolve every name",
		},
	}
}

// syncCommand runs the full plan-and-execute pipeline.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Subscribe to every artist in the targets file",
		Flags: append(syncFlags(),
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Review the plan in a TUI before executing",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		),
		Action: r.Sync,
	}
}

// listCommand prints or exports the account's current subscriptions.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List current channel subscriptions",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the list to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, csv, or json",
				Value: "text",
			},
		},
		Action: r.List,
	}
}

// resolveCommand resolves artist names to channels without planning a sync.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve artist names to channel IDs",
		ArgsUsage: "NAME [NAME...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force-refresh",
				Usage: "Bypass the artist cache",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.Resolve,
	}
}

// validateCommand checks an artists file without calling any remote service.
func validateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate an artists file and report malformed lines",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.Validate,
	}
}

// cacheCommand inspects and maintains the artist-resolution cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the artist cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show entry counts and freshness",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheStats,
			},
			{
				Name:  "top",
				Usage: "Show cached artists by subscriber count",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of artists to show",
						Value: 10,
					},
				},
				Action: r.CacheTop,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cached artist entry",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// historyCommand shows recorded sync runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past sync runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
		},
		Action: r.History,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage YouTube authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize with Google using OAuth2 and store the token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show stored token presence and expiry",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write a starter config file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive plan review.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Review and execute a sync plan interactively",
		Flags:   syncFlags(),
		Action:  r.TUI,
	}
}
