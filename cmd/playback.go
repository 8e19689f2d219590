package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/theirix/dmix/internal/shared"
	"github.com/urfave/cli/v3"
)

func playbackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playback",
		Usage: "Control the daemon's player",
		Commands: []*cli.Command{
			{
				Name:      "play",
				Usage:     "Start playback, optionally at a queue position",
				Arguments: []cli.Argument{&cli.StringArg{Name: "pos"}},
				Action:    r.PlaybackPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlaybackPause,
			},
			{
				Name:   "resume",
				Usage:  "Resume paused playback",
				Action: r.PlaybackResume,
			},
			{
				Name:   "stop",
				Usage:  "Stop playback",
				Action: r.PlaybackStop,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next song",
				Action: r.PlaybackNext,
			},
			{
				Name:    "prev",
				Aliases: []string{"previous"},
				Usage:   "Step back to the previous song",
				Action:  r.PlaybackPrevious,
			},
			{
				Name:      "volume",
				Usage:     "Set the output volume (0-100)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "level"}},
				Action:    r.PlaybackVolume,
			},
			{
				Name:      "seek",
				Usage:     "Seek to a time in seconds within the current song",
				Arguments: []cli.Argument{&cli.StringArg{Name: "seconds"}},
				Action:    r.PlaybackSeek,
			},
		},
	}
}

// PlaybackPlay starts playback, at a specific queue position when given.
func (r *Runner) PlaybackPlay(ctx context.Context, cmd *cli.Command) error {
	pos := -1
	if arg := cmd.StringArg("pos"); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%w: position must be a non-negative integer, got %q", shared.ErrInvalidArgument, arg)
		}
		pos = parsed
	}

	if err := r.client.Play(ctx, pos); err != nil {
		return err
	}

	if pos >= 0 {
		r.writePlain("✓ Playing position %d\n", pos)
	} else {
		r.writePlain("✓ Playing\n")
	}
	return nil
}

// PlaybackPause pauses playback.
func (r *Runner) PlaybackPause(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Pause(ctx, true); err != nil {
		return err
	}
	r.writePlain("✓ Paused\n")
	return nil
}

// PlaybackResume resumes paused playback.
func (r *Runner) PlaybackResume(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Pause(ctx, false); err != nil {
		return err
	}
	r.writePlain("✓ Resumed\n")
	return nil
}

// PlaybackStop stops playback.
func (r *Runner) PlaybackStop(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Stop(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Stopped\n")
	return nil
}

// PlaybackNext skips to the next queue entry.
func (r *Runner) PlaybackNext(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Next(ctx); err != nil {
		return err
	}
	return r.showCurrent(ctx)
}

// PlaybackPrevious steps back to the previous queue entry.
func (r *Runner) PlaybackPrevious(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Previous(ctx); err != nil {
		return err
	}
	return r.showCurrent(ctx)
}

// PlaybackVolume sets the output volume.
func (r *Runner) PlaybackVolume(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("level")
	if arg == "" {
		return fmt.Errorf("%w: volume level is required", shared.ErrMissingArgument)
	}

	level, err := strconv.Atoi(arg)
	if err != nil || level < 0 || level > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100, got %q", shared.ErrInvalidArgument, arg)
	}

	if err := r.client.SetVolume(ctx, level); err != nil {
		return err
	}
	r.writePlain("✓ Volume set to %d%%\n", level)
	return nil
}

// PlaybackSeek seeks within the current song.
func (r *Runner) PlaybackSeek(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("seconds")
	if arg == "" {
		return fmt.Errorf("%w: seek time is required", shared.ErrMissingArgument)
	}

	seconds, err := strconv.ParseFloat(arg, 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("%w: seek time must be a non-negative number of seconds, got %q", shared.ErrInvalidArgument, arg)
	}

	if err := r.client.SeekCur(ctx, seconds); err != nil {
		return err
	}
	r.writePlain("✓ Seeked to %s\n", shared.FormatDuration(int(seconds)))
	return nil
}

// showCurrent prints the song the daemon switched to after a skip.
func (r *Runner) showCurrent(ctx context.Context) error {
	song, err := r.client.CurrentSong(ctx)
	if err != nil {
		return err
	}
	if song == nil {
		r.writePlain("Nothing playing\n")
		return nil
	}
	r.writePlain("▶ %s - %s\n", song.DisplayArtist(), song.DisplayTitle())
	return nil
}
