package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/repositories"
	"github.com/desertthunder/tapedeck/internal/server"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	auth       server.Authenticator
	playlists  server.PlaylistLister
	syncer     server.Syncer
	index      services.SearchIndex
	tracks     *repositories.TrackRepository
	runs       *repositories.SyncRunRepository
	session    *services.Session
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Auth       server.Authenticator
	Playlists  server.PlaylistLister
	Syncer     server.Syncer
	Index      services.SearchIndex
	Tracks     *repositories.TrackRepository
	Runs       *repositories.SyncRunRepository
	Session    *services.Session
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A nil session is built from the token stored in the config.
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
	if opts.Session == nil {
		opts.Session = services.NewSession(opts.Config.Credentials.Spotify.Token())
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		auth:       opts.Auth,
		playlists:  opts.Playlists,
		syncer:     opts.Syncer,
		index:      opts.Index,
		tracks:     opts.Tracks,
		runs:       opts.Runs,
		session:    opts.Session,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistsCommand, tracksCommand, syncCommand,
		searchCommand, downloadCommand, serveCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireSession fails fast when no Spotify token has been stored yet.
func (r *Runner) requireSession() error {
	if !r.session.Valid() {
		return fmt.Errorf("%w: run 'tapedeck auth' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// persistSession writes a refreshed session token back to the config file.
func (r *Runner) persistSession() {
	token := r.session.Token()
	if token == nil || r.configPath == "" {
		return
	}

	if token.AccessToken == r.config.Credentials.Spotify.AccessToken {
		return
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		r.logger.Warn("failed to update stored token", "error", err)
		return
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		r.logger.Warn("failed to save refreshed token", "error", err)
		return
	}
	r.logger.Debug("saved refreshed token", "path", r.configPath)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
