package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/labelgrid/internal/repositories"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/workspace"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, treeCommand, lsCommand, labelCommand, assignCommand, historyCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// LoadConfig reads the file named by --config before any command runs.
//
// A missing file is not an error: the embedded defaults are used instead.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if err := shared.ApplyLogLevel(r.logger, r.config.Log.Level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// session is an opened workspace plus the resources backing it.
type session struct {
	ws     *workspace.Workspace
	db     *sql.DB
	thumbs *workspace.Thumbnailer
}

func (s *session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// openWorkspace opens the configured workspace with the move journal attached.
//
// Thumbnails are only generated for the HTTP server, so the CLI and TUI skip them.
func (r *Runner) openWorkspace(withThumbnails bool) (*session, error) {
	s := &session{}
	opts := workspace.Options{
		Extensions: r.config.Workspace.Extensions,
		Logger:     shared.WithLogger(r.logger, "component", "workspace"),
	}

	if r.config.Database.Path != "" {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, err
		}
		s.db = db
		opts.Journal = repositories.NewJournalAdapter(db)
	}

	if withThumbnails {
		thumbs, err := workspace.NewThumbnailer(r.config.Thumbnails.Dir, r.config.Thumbnails.Size)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.thumbs = thumbs
		opts.Thumbnails = thumbs
	}

	ws, err := workspace.New(r.config.Workspace.Root, opts)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.ws = ws
	return s, nil
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
	return r.writePlain(format+"\n", args...)
}
