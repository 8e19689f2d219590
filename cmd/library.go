package main

import (
	"context"
	"fmt"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/repositories"
	"github.com/theirix/dmix/internal/shared"
	"github.com/theirix/dmix/internal/tasks"
	"github.com/urfave/cli/v3"
)

func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Scan, search and inspect the daemon's library",
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "Walk the library and fill the local song cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "uri",
						Aliases: []string{"u"},
						Usage:   "Library subtree to walk (default: whole library)",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent cache workers",
						Value:   4,
					},
					&cli.IntFlag{
						Name:  "rate",
						Usage: "Daemon requests per second",
						Value: 20,
					},
				},
				Action: r.LibraryScan,
			},
			{
				Name:      "search",
				Usage:     "Search the local song cache",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum results to return",
						Value:   20,
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: r.LibrarySearch,
			},
			{
				Name:  "stats",
				Usage: "Show daemon and cache statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: r.LibraryStats,
			},
			{
				Name:  "update",
				Usage: "Ask the daemon to rescan its music directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "uri",
						Aliases: []string{"u"},
						Usage:   "Subtree to rescan (default: everything)",
					},
				},
				Action: r.LibraryUpdate,
			},
		},
	}
}

// LibraryScan walks the daemon's library into the local cache, recording the
// run as a scan job.
func (r *Runner) LibraryScan(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: daemon client not configured", shared.ErrNotConnected)
	}
	if r.songs == nil {
		return fmt.Errorf("%w: library cache not initialized, run 'dmix setup' first", shared.ErrMissingConfig)
	}

	uri := cmd.String("uri")

	var job *models.ScanJob
	if r.scans != nil {
		seq, err := repositories.NextSequence(r.db, "scans")
		if err != nil {
			return fmt.Errorf("failed to allocate scan sequence: %w", err)
		}
		job = models.NewScanJob(seq, uri)
		if err := r.scans.Create(job); err != nil {
			return fmt.Errorf("failed to record scan job: %w", err)
		}
		job.Start()
		if err := r.scans.Update(job); err != nil {
			return fmt.Errorf("failed to start scan job: %w", err)
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 64)
	done := make(chan bool)

	go func() {
		for p := range progressCh {
			switch p.Phase {
			case tasks.WalkLibrary:
				r.writePlain("  %s\n", p.Message)
			case tasks.CacheSongs:
				// Song-level updates arrive per file, thin them out.
				if p.Step%100 == 0 {
					r.writePlain("  %s\n", p.Message)
				}
			default:
				r.writePlain("  %s\n", p.Message)
			}
		}
		done <- true
	}()

	result, err := r.engine.Scan(ctx, progressCh, tasks.ScanOpts{
		URI:        uri,
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  float64(cmd.Int("rate")),
	})
	close(progressCh)
	<-done

	if err != nil {
		if job != nil {
			job.Fail(err.Error())
			if uerr := r.scans.Update(job); uerr != nil {
				r.logger.Warn("failed to record scan failure", "error", uerr)
			}
		}
		return err
	}

	if job != nil {
		job.Complete(result.SongsSeen, result.SongsCached, result.SongsFailed)
		if err := r.scans.Update(job); err != nil {
			r.logger.Warn("failed to record scan completion", "error", err)
		}
	}

	scanned := result.URI
	if scanned == "" {
		scanned = "/"
	}

	r.writePlainHeader("Scan Complete")
	r.writePlain("Subtree:      %s\n", scanned)
	r.writePlain("Directories:  %d\n", result.Directories)
	r.writePlain("Songs seen:   %d\n", result.SongsSeen)
	r.writePlain("Songs cached: %d\n", result.SongsCached)
	if result.SongsFailed > 0 {
		r.writePlain("⚠ Failed:     %d\n", result.SongsFailed)
	}
	r.writePlain("Elapsed:      %s\n", result.Elapsed.Round(time.Millisecond))

	if total, err := r.songs.Count(); err == nil {
		r.writePlain("Cache total:  %d songs\n", total)
	}

	return nil
}

// LibrarySearch queries the local song cache by title, artist, album or file path.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.songs == nil {
		return fmt.Errorf("%w: library cache not initialized, run 'dmix setup' first", shared.ErrMissingConfig)
	}

	limit := int(cmd.Int("limit"))
	results, err := r.songs.Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		songs := make([]models.Song, 0, len(results))
		for _, persisted := range results {
			songs = append(songs, persisted.Song())
		}
		return r.writeJSON(songs, true)
	}

	if len(results) == 0 {
		r.writePlain("No songs match %q\n", query)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Search: %q (%d results)", query, len(results)))
	for i, persisted := range results {
		song := persisted.Song()
		r.writeSongLine(i+1, &song)
	}

	return nil
}

type libraryStatsReport struct {
	Daemon      *models.Stats `json:"daemon"`
	CachedSongs int           `json:"cached_songs"`
	LastScan    *scanSummary  `json:"last_scan,omitempty"`
}

type scanSummary struct {
	Status      string     `json:"status"`
	URI         string     `json:"uri,omitempty"`
	SongsSeen   int        `json:"songs_seen"`
	SongsCached int        `json:"songs_cached"`
	SongsFailed int        `json:"songs_failed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// LibraryStats reports daemon-wide counters next to the state of the local cache.
func (r *Runner) LibraryStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.client.Stats(ctx)
	if err != nil {
		return err
	}

	report := libraryStatsReport{Daemon: stats}
	if r.songs != nil {
		if count, err := r.songs.Count(); err == nil {
			report.CachedSongs = count
		}
	}
	if r.scans != nil {
		if job, err := r.scans.Latest(); err == nil && job != nil {
			report.LastScan = &scanSummary{
				Status:      job.Status(),
				URI:         job.URI(),
				SongsSeen:   job.SongsSeen(),
				SongsCached: job.SongsCached(),
				SongsFailed: job.SongsFailed(),
				CompletedAt: job.CompletedAt(),
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlainHeader("Library Statistics")
	r.writePlain("Artists:      %d\n", stats.Artists)
	r.writePlain("Albums:       %d\n", stats.Albums)
	r.writePlain("Songs:        %d\n", stats.Songs)
	r.writePlain("Play time:    %s\n", shared.FormatDuration(int(stats.DBPlayTime)))
	if !stats.DBUpdate.IsZero() {
		r.writePlain("Last update:  %s\n", stats.DBUpdate.Format("2006-01-02 15:04"))
	}

	if r.songs != nil {
		r.writePlainln("Local cache:")
		r.writePlain("Cached songs: %d\n", report.CachedSongs)
		if report.LastScan != nil {
			r.writePlain("Last scan:    %s (%d cached", report.LastScan.Status, report.LastScan.SongsCached)
			if report.LastScan.SongsFailed > 0 {
				r.writePlain(", %d failed", report.LastScan.SongsFailed)
			}
			r.writePlain(")")
			if report.LastScan.CompletedAt != nil {
				r.writePlain(" at %s", report.LastScan.CompletedAt.Format("2006-01-02 15:04"))
			}
			r.writePlain("\n")
		}
	}

	return nil
}

// LibraryUpdate asks the daemon to rescan its music directory.
func (r *Runner) LibraryUpdate(ctx context.Context, cmd *cli.Command) error {
	jobID, err := r.client.Update(ctx, cmd.String("uri"))
	if err != nil {
		return err
	}
	r.writePlain("✓ Database update started (job %d)\n", jobID)
	return nil
}
