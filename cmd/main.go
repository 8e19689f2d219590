package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/theirix/dmix/internal/mpd"
	"github.com/theirix/dmix/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	// The client dials lazily, so commands that never talk to the daemon
	// (setup, config, cache-backed search) work with the daemon down.
	client := mpd.NewClient(config.Server)

	var db *sql.DB
	if _, err := os.Stat(config.Database.Path); err == nil {
		if opened, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(opened, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			db = opened
		} else {
			logger.Warn("library cache unavailable", "path", config.Database.Path, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Client:     client,
		DB:         db,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "dmix",
		Usage:    "Queue, playlist and library companion for the music player daemon",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrDaemonUnavailable) {
			logger.Fatalf("cannot reach the daemon at %s: %v", config.Server.Addr(), err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
