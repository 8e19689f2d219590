package main

import (
	"context"
	"strings"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"github.com/urfave/cli/v3"
)

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show daemon state, current song and queue summary",
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
		Action: r.Status,
	}
}

type statusReport struct {
	Protocol string         `json:"protocol"`
	Status   *models.Status `json:"status"`
	Song     *models.Song   `json:"song,omitempty"`
}

// Status reports the daemon's player state and the current song.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	status, err := r.client.Status(ctx)
	if err != nil {
		return err
	}

	song, err := r.client.CurrentSong(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		report := statusReport{Protocol: r.client.Version(), Status: status, Song: song}
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Daemon Status")
	r.writePlain("Daemon:   %s (protocol %s)\n", r.config.Server.Addr(), r.client.Version())
	r.writePlain("State:    %s\n", status.State)
	if status.Volume >= 0 {
		r.writePlain("Volume:   %d%%\n", status.Volume)
	}

	modes := []string{}
	if status.Repeat {
		modes = append(modes, "repeat")
	}
	if status.Random {
		modes = append(modes, "random")
	}
	if status.Single {
		modes = append(modes, "single")
	}
	if status.Consume {
		modes = append(modes, "consume")
	}
	if len(modes) > 0 {
		r.writePlain("Modes:    %s\n", strings.Join(modes, " "))
	}

	if song != nil {
		r.writePlain("Playing:  %s - %s", song.DisplayArtist(), song.DisplayTitle())
		if status.Duration > 0 {
			r.writePlain(" (%s / %s)", shared.FormatDuration(int(status.Elapsed)), shared.FormatDuration(int(status.Duration)))
		}
		r.writePlain("\n")
	}

	r.writePlain("Queue:    %d songs, version %d\n", status.QueueLength, status.QueueVersion)
	if status.Error != "" {
		r.writePlain("⚠ Daemon error: %s\n", status.Error)
	}

	return nil
}
