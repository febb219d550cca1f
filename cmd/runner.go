package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/server"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service is optional; when nil the runner builds one from credentials on
// first use.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, listCommand, resolveCommand, validateCommand, cacheCommand, historyCommand, authCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig swaps in the config file at path when it differs from the one
// the runner was constructed with.
func (r *Runner) reloadConfig(path string) error {
	if path == "" || path == r.configPath {
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	r.config = config
	r.configPath = path
	return nil
}

// openDatabase opens the configured SQLite database and brings its schema up
// to date. The caller owns closing it.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ensureService returns the injected service when present, otherwise builds
// one from config: OAuth when a stored token exists, API key as the
// search-only fallback.
func (r *Runner) ensureService(ctx context.Context) (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}

	creds := r.config.Credentials.YouTube
	store := server.NewTokenStore(creds.TokenPath)

	if token, err := store.Load(); err == nil {
		oauthConf := server.NewGoogleConfig(creds.ClientID, creds.ClientSecret, creds.RedirectURI)
		r.service = services.NewYouTubeOAuthService(oauthConf.Client(ctx, token))
		r.logger.Debug("using stored OAuth token", "path", store.Path())
		return r.service, nil
	}

	if creds.APIKey != "" {
		r.service = services.NewYouTubeService(creds.APIKey)
		r.logger.Debug("using API key credentials, search only")
		return r.service, nil
	}

	return nil, fmt.Errorf("%w: set credentials.youtube.api_key in config or run `ytsync auth login`", shared.ErrMissingCredentials)
}

// buildEngine wires the full sync pipeline. The caller owns closing the
// returned database.
func (r *Runner) buildEngine(ctx context.Context) (*tasks.SyncEngine, *sql.DB, error) {
	svc, err := r.ensureService(ctx)
	if err != nil {
		return nil, nil, err
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}

	cache := repositories.NewArtistCacheRepository(db)
	resolver := tasks.NewCachedResolver(svc, cache, r.config.Cache.Expiry(), r.logger)
	runs := repositories.NewSyncRunRepository(db)

	return tasks.NewSyncEngine(svc, resolver, runs, r.logger), db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
