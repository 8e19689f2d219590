package main

import (
	"context"
	"fmt"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Work with stored playlists on the daemon",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "sync",
						Aliases: []string{"s"},
						Usage:   "Mirror the listing into the library cache",
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
				Action: r.PlaylistList,
			},
			{
				Name:      "show",
				Usage:     "Show the songs of a stored playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
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
				Action: r.PlaylistShow,
			},
			{
				Name:      "load",
				Usage:     "Load a stored playlist into the queue",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "replace",
						Aliases: []string{"r"},
						Usage:   "Clear the queue before loading",
					},
				},
				Action: r.PlaylistLoad,
			},
			{
				Name:      "diff",
				Usage:     "Compare a stored playlist against the queue",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: r.PlaylistDiff,
			},
		},
	}
}

// PlaylistList prints the daemon's stored playlists, optionally mirroring
// them into the library cache.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.client.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("sync") {
		if r.playlists == nil {
			return fmt.Errorf("%w: library cache not initialized, run 'dmix setup' first", shared.ErrMissingConfig)
		}
		if err := r.playlists.Sync(playlists); err != nil {
			return fmt.Errorf("failed to sync playlists: %w", err)
		}
		r.logger.Info("playlists synced to cache", "count", len(playlists))
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		r.writePlain("No stored playlists\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Stored Playlists (%d)", len(playlists)))
	for _, playlist := range playlists {
		r.writePlain("%-30s", playlist.Name)
		if playlist.SongCount > 0 {
			r.writePlain("  %3d songs", playlist.SongCount)
		}
		if !playlist.LastModified.IsZero() {
			r.writePlain("  %s", playlist.LastModified.Format("2006-01-02"))
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistShow prints the full song listing of one stored playlist.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	songs, err := r.client.PlaylistSongs(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch playlist '%s': %v", shared.ErrPlaylistNotFound, name, err)
	}

	if cmd.Bool("json") {
		export := models.PlaylistExport{
			Playlist: models.Playlist{Name: name, SongCount: len(songs)},
			Songs:    songs,
		}
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	total := 0
	for _, song := range songs {
		total += song.Duration
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d songs, %s)", name, len(songs), shared.FormatDuration(total)))
	for i := range songs {
		r.writeSongLine(i+1, songs[i])
	}

	return nil
}

// PlaylistLoad loads a stored playlist into the queue. Appends by default;
// --replace clears the queue first.
func (r *Runner) PlaylistLoad(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan bool)

	go func() {
		for p := range progressCh {
			r.writePlain("  %s\n", p.Message)
		}
		done <- true
	}()

	result, err := r.engine.Load(ctx, progressCh, name, cmd.Bool("replace"))
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Playlist Loaded")
	r.writePlain("Playlist: %s\n", result.Playlist)
	if result.Replaced {
		r.writePlain("Mode:     replace\n")
	} else {
		r.writePlain("Mode:     append\n")
	}
	r.writePlain("Queued:   %d songs\n", result.Queued)

	return nil
}

// PlaylistDiff compares a stored playlist with the queue mirror and reports
// matched, missing and extra songs.
func (r *Runner) PlaylistDiff(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	result, err := r.engine.Diff(ctx, nil, name)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader(fmt.Sprintf("Diff: %s vs queue", result.Playlist))
	r.writePlain("Playlist: %d songs\n", result.PlaylistLen)
	r.writePlain("Queue:    %d songs\n", result.QueueLen)
	r.writePlain("Matched:  %d\n", result.MatchedCount)

	if len(result.MissingInQueue) > 0 {
		r.writePlainln("Missing from queue:")
		for i := range result.MissingInQueue {
			song := &result.MissingInQueue[i]
			r.writePlain("  - %s - %s\n", song.DisplayArtist(), song.DisplayTitle())
		}
	}

	if len(result.ExtraInQueue) > 0 {
		r.writePlainln("Extra in queue:")
		for i := range result.ExtraInQueue {
			song := &result.ExtraInQueue[i]
			r.writePlain("  + %s - %s\n", song.DisplayArtist(), song.DisplayTitle())
		}
	}

	if len(result.MissingInQueue) == 0 && len(result.ExtraInQueue) == 0 {
		r.writePlain("\n✓ Queue matches the playlist\n")
	}

	return nil
}
