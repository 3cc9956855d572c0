package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/geo-martino/syncify/internal/engine"
	"github.com/geo-martino/syncify/internal/formatter"
	"github.com/geo-martino/syncify/internal/repositories"
	"github.com/geo-martino/syncify/internal/services"
	"github.com/geo-martino/syncify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Collaborators left nil in RunnerOpts are constructed from the configuration
// file when a command needs them.
type Runner struct {
	config *shared.Config
	source services.CatalogSource
	sink   services.CatalogSink
	local  services.LocalMetadataSource
	store  engine.BaselineStore
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source services.CatalogSource
	Sink   services.CatalogSink
	Local  services.LocalMetadataSource
	Store  engine.BaselineStore
	Logger *log.Logger
	Output io.Writer
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

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		sink:   opts.Sink,
		local:  opts.Local,
		store:  opts.Store,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, syncCommand, checkCommand, artworkCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the config file named by the command's --config flag,
// falling back to the runner's current configuration.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using current settings", "path", path, "error", err)
		return r.config
	}
	r.config = config
	return config
}

// reconciler assembles the engine for one command invocation. The returned
// cleanup closes anything opened along the way and is safe to call always.
func (r *Runner) reconciler(cmd *cli.Command) (*engine.Reconciler, func(), error) {
	config := r.loadConfig(cmd)
	cleanup := func() {}

	source := r.source
	sink := r.sink
	if source == nil || sink == nil {
		catalog, err := services.NewSpotifyCatalog(config.Spotify)
		if err != nil {
			return nil, cleanup, err
		}
		if source == nil {
			source = catalog
		}
		if sink == nil {
			sink = catalog
		}
	}

	local := r.local
	if local == nil {
		local = services.NewFolderArtwork(config.Local.ArtworkDir)
	}

	store := r.store
	if store == nil {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, cleanup, fmt.Errorf("failed to run migrations: %w", err)
		}
		store = repositories.NewSnapshotRepository(db)
		cleanup = func() { db.Close() }
	}

	eng := engine.NewReconciler(source, sink, local, store, shared.WithLogger(r.logger, "component", "engine"), engine.Options{
		Workers:    config.Sync.Workers,
		RateLimit:  config.Sync.RateLimit,
		MaxRetries: config.Sync.MaxRetries,
	})
	return eng, cleanup, nil
}

// watchProgress prints progress updates until the channel closes. The
// returned channel closes once the last update has been written; callers must
// wait on it before touching the output writer again.
func (r *Runner) watchProgress(progressCh <-chan engine.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()
	return done
}

// writeReport emits a report as JSON or styled text, to a file when the
// command carries an --output path.
func (r *Runner) writeReport(cmd *cli.Command, report any, text []byte) error {
	out := text
	if cmd.Bool("json") {
		data, err := formatter.ToJSON(report, cmd.Bool("pretty"))
		if err != nil {
			return err
		}
		out = append(data, '\n')
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return r.writePlain("Report written to %s\n", path)
	}

	if _, err := r.output.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
