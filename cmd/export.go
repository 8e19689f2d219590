package main

import (
	"context"
	"fmt"

	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export stored playlists to files",
		Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "all",
				Aliases: []string{"a"},
				Usage:   "Export every stored playlist",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent export workers",
				Value:   5,
			},
		},
		Action: r.Export,
	}
}

// Export writes one or all stored playlists to disk in the chosen format,
// with a manifest summarizing the run.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}

	format := cmd.String("format")
	if format == "" {
		format = r.config.Export.Format
	}
	switch format {
	case "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unknown format %q (expected json, csv, markdown or txt)", shared.ErrInvalidFlag, format)
	}

	output := cmd.String("output")
	if output == "" {
		output = r.config.Export.Directory
	}

	var names []string
	if cmd.Bool("all") {
		playlists, err := r.client.ListPlaylists(ctx)
		if err != nil {
			return err
		}
		for _, playlist := range playlists {
			names = append(names, playlist.Name)
		}
		if len(names) == 0 {
			r.writePlain("No stored playlists to export\n")
			return nil
		}
	} else {
		name := cmd.StringArg("name")
		if name == "" {
			return fmt.Errorf("%w: playlist name or --all is required", shared.ErrMissingArgument)
		}
		names = []string{name}
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan bool)

	go func() {
		for p := range progressCh {
			r.writePlain("  %s\n", p.Message)
		}
		done <- true
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, names, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  output,
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Playlists:  %d\n", result.TotalPlaylists)
	r.writePlain("✓ Exported: %d\n", result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlain("⚠ Failed:   %d\n", result.FailedExports)
	}
	r.writePlain("Directory:  %s\n", result.OutputDirectory)
	r.writePlain("Manifest:   %s\n", result.ManifestPath)

	return nil
}
