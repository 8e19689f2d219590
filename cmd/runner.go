package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/mpd"
	"github.com/theirix/dmix/internal/repositories"
	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *mpd.Client
	db         *sql.DB
	songs      *repositories.SongRepository
	playlists  *repositories.PlaylistRepository
	scans      *repositories.ScanRepository
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.QueueEngine
	logFile    *os.File
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *mpd.Client
	DB         *sql.DB
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

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	var cache tasks.SongCacher
	if opts.DB != nil {
		r.songs = repositories.NewSongRepository(opts.DB)
		r.playlists = repositories.NewPlaylistRepository(opts.DB)
		r.scans = repositories.NewScanRepository(opts.DB)
		cache = repositories.NewSongCacheAdapter(r.songs)
	}
	if opts.Client != nil {
		r.engine = tasks.NewQueueEngine(opts.Client, cache)
	}

	return r
}

// SetLogger swaps the runner's logger, used by the TUI to redirect logs away
// from the terminal it renders on.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the daemon connection and the library cache.
func (r *Runner) Close() {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.logger.Debug("closing daemon connection", "error", err)
		}
	}
	if r.db != nil {
		r.db.Close()
	}
	if r.logFile != nil {
		r.logFile.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, configCommand, statusCommand, queueCommand, playbackCommand, playlistCommand, libraryCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

// writeSongLine prints one numbered song entry the way every listing
// subcommand renders them.
func (r *Runner) writeSongLine(n int, song *models.Song) {
	r.writePlain("%3d. %s - %s", n, song.DisplayArtist(), song.DisplayTitle())
	if song.Duration > 0 {
		r.writePlain(" (%s)", shared.FormatDuration(song.Duration))
	}
	r.writePlain("\n")
}
