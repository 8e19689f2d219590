package main

import (
	"context"
	"fmt"

	"github.com/theirix/dmix/internal/shared"
	"github.com/urfave/cli/v3"
)

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and create the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: r.ConfigShow,
			},
			{
				Name:  "init",
				Usage: "Write a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

// ConfigShow prints the effective configuration, after file loading and
// MPD_HOST/MPD_PORT overrides.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config, true)
	}

	source := r.configPath
	if source == "" {
		source = "(defaults)"
	}

	r.writePlainHeader("Configuration")
	r.writePlain("Source:   %s\n", source)
	r.writePlain("Daemon:   %s", r.config.Server.Addr())
	if r.config.Server.Password != "" {
		r.writePlain(" (password set)")
	}
	r.writePlain("\n")
	r.writePlain("Timeout:  %s\n", r.config.Server.Timeout())
	r.writePlain("Cache:    %s\n", r.config.Database.Path)
	r.writePlain("Exports:  %s (%s)\n", r.config.Export.Directory, r.config.Export.Format)

	return nil
}

// ConfigInit writes a fresh configuration file from the embedded template.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("✓ Config file created at %s\n", path)
	r.writePlain("Edit the [server] section to point at your daemon\n")

	return nil
}
