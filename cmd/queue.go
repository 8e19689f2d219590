package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "queue",
		Aliases: []string{"q"},
		Usage:   "Inspect and edit the daemon's play queue",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the queue through the local mirror",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "from",
						Aliases: []string{"f"},
						Usage:   "First position to list (inclusive)",
						Value:   -1,
					},
					&cli.IntFlag{
						Name:    "to",
						Aliases: []string{"t"},
						Usage:   "Position to stop at (exclusive)",
						Value:   -1,
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
					&cli.BoolFlag{
						Name:    "pretty",
						Aliases: []string{"p"},
						Usage:   "Pretty print JSON output",
					},
				},
				Action: r.QueueList,
			},
			{
				Name:      "add",
				Usage:     "Add a library URI to the queue",
				Arguments: []cli.Argument{&cli.StringArg{Name: "uri"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "play",
						Usage: "Start playing the added song",
					},
				},
				Action: r.QueueAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from the queue",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "pos",
						Aliases: []string{"p"},
						Usage:   "Queue position to remove",
						Value:   -1,
					},
					&cli.IntFlag{
						Name:    "id",
						Aliases: []string{"i"},
						Usage:   "Daemon song id to remove",
						Value:   -1,
					},
				},
				Action: r.QueueRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every song from the queue",
				Action: r.QueueClear,
			},
			{
				Name:      "save",
				Usage:     "Save the current queue as a stored playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.QueueSave,
			},
			{
				Name:   "current",
				Usage:  "Show the playing song resolved through the mirror",
				Action: r.QueueCurrent,
			},
			{
				Name:   "watch",
				Usage:  "Follow daemon changes and keep the mirror in sync",
				Action: r.QueueWatch,
			},
		},
	}
}

type queueReport struct {
	Version int64          `json:"version"`
	Length  int            `json:"length"`
	From    int            `json:"from"`
	Songs   []*models.Song `json:"songs"`
}

// QueueList synchronizes the local mirror and prints it, optionally
// windowed by --from/--to.
func (r *Runner) QueueList(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	refresh, err := r.engine.Refresh(ctx, nil)
	if err != nil {
		return err
	}

	mirror := r.engine.Mirror()
	from := int(cmd.Int("from"))
	to := int(cmd.Int("to"))

	var songs []*models.Song
	if from >= 0 || to >= 0 {
		if from < 0 {
			from = 0
		}
		if to < 0 {
			to = mirror.Len()
		}
		if songs, err = mirror.Slice(from, to); err != nil {
			return err
		}
	} else {
		from = 0
		songs = mirror.Songs()
	}

	if cmd.Bool("json") {
		report := queueReport{
			Version: r.engine.Version(),
			Length:  mirror.Len(),
			From:    from,
			Songs:   songs,
		}
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		r.writePlain("Queue is empty\n")
		return nil
	}

	playing, hasPlaying := r.engine.Current(refresh.Status)

	r.writePlainHeader(fmt.Sprintf("Queue (%d songs, version %d)", mirror.Len(), r.engine.Version()))
	for i, song := range songs {
		if song == nil {
			r.writePlain("  %3d. (not yet synchronized)\n", from+i)
			continue
		}
		marker := "  "
		if hasPlaying && playing == song {
			marker = "▶ "
		}
		r.writePlain("%s%3d. %s - %s", marker, from+i, song.DisplayArtist(), song.DisplayTitle())
		if song.Duration > 0 {
			r.writePlain(" (%s)", shared.FormatDuration(song.Duration))
		}
		r.writePlain("\n")
	}

	return nil
}

// QueueAdd appends a library URI to the queue, optionally starting playback.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.StringArg("uri")
	if uri == "" {
		return fmt.Errorf("%w: uri argument is required", shared.ErrMissingArgument)
	}

	// addid only accepts single songs; without --play the id is not needed,
	// so use add, which also enqueues directories recursively.
	if !cmd.Bool("play") {
		if err := r.client.Add(ctx, uri); err != nil {
			return err
		}
		r.writePlain("✓ Added %s\n", uri)
		return nil
	}

	id, err := r.client.AddID(ctx, uri)
	if err != nil {
		return err
	}
	if err := r.client.PlayID(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Added and playing %s (id %d)\n", uri, id)
	return nil
}

// QueueRemove deletes one song, addressed by queue position or daemon id.
func (r *Runner) QueueRemove(ctx context.Context, cmd *cli.Command) error {
	pos := int(cmd.Int("pos"))
	id := int(cmd.Int("id"))

	if pos < 0 && id < 0 {
		return fmt.Errorf("%w: either --pos or --id must be provided", shared.ErrMissingArgument)
	}
	if pos >= 0 && id >= 0 {
		return fmt.Errorf("%w: cannot specify both --pos and --id", shared.ErrInvalidArgument)
	}

	if id >= 0 {
		if err := r.client.DeleteID(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Removed song id %d\n", id)
		return nil
	}

	if err := r.client.DeletePosition(ctx, pos); err != nil {
		return err
	}
	r.writePlain("✓ Removed position %d\n", pos)
	return nil
}

// QueueClear empties the daemon's queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.ClearQueue(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Queue cleared\n")
	return nil
}

// QueueSave stores the current queue as a named playlist on the daemon.
func (r *Runner) QueueSave(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name argument is required", shared.ErrMissingArgument)
	}

	if err := r.client.Save(ctx, name); err != nil {
		return err
	}
	r.writePlain("✓ Queue saved as '%s'\n", name)
	return nil
}

// QueueCurrent resolves the playing song through the mirror, by daemon id
// when known and by position otherwise.
func (r *Runner) QueueCurrent(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	refresh, err := r.engine.Refresh(ctx, nil)
	if err != nil {
		return err
	}

	song, ok := r.engine.Current(refresh.Status)
	if !ok {
		r.writePlain("Nothing playing\n")
		return nil
	}

	r.writePlain("%s - %s\n", song.DisplayArtist(), song.DisplayTitle())
	if song.Album != "" {
		r.writePlain("Album:    %s\n", song.Album)
	}
	r.writePlain("Position: %d (id %d)\n", song.Pos, song.ID)
	if refresh.Status.Duration > 0 {
		r.writePlain("Elapsed:  %s / %s\n", shared.FormatDuration(int(refresh.Status.Elapsed)), shared.FormatDuration(int(refresh.Status.Duration)))
	}

	return nil
}

// QueueWatch follows idle notifications until interrupted, printing every
// subsystem event and mirror sync outcome.
func (r *Runner) QueueWatch(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan bool)

	go func() {
		for p := range progressCh {
			r.writePlain("  %s\n", p.Message)
		}
		done <- true
	}()

	r.writePlain("Watching daemon at %s (Ctrl-C to stop)\n", r.config.Server.Addr())
	err := r.engine.Watch(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil && ctx.Err() == nil {
		return err
	}

	r.writePlain("\nStopped watching\n")
	return nil
}
