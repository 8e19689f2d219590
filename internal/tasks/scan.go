package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"golang.org/x/time/rate"
)

// ScanOpts contains configuration for library scans.
type ScanOpts struct {
	URI        string  // Library subtree to walk (empty for the whole library)
	NumWorkers int     // Concurrent cache workers (default: 4)
	RateLimit  float64 // Daemon requests per second (default: 20)
}

// ScanResult contains counters from a completed library scan.
type ScanResult struct {
	URI         string        // Scanned subtree
	Directories int           // Directories visited
	SongsSeen   int           // Songs discovered
	SongsCached int           // Songs persisted to the cache
	SongsFailed int           // Songs that failed to persist
	Elapsed     time.Duration // Wall clock scan time
}

// walkSummary carries the walker's tallies back to the collector.
type walkSummary struct {
	directories int
	seen        int
	err         error
}

// Scan walks the daemon's library and persists every discovered song to the cache.
//
// Directory listings are fetched breadth-first over the daemon connection
// under a rate limit, while a worker pool writes songs to the cache. Partial
// cache failures are counted rather than aborting the walk.
func (e *QueueEngine) Scan(ctx context.Context, progress chan<- ProgressUpdate, opts ScanOpts) (*ScanResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("song cache not initialized")
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 20.0
	}

	start := time.Now()
	result := &ScanResult{URI: opts.URI}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.Song, 64)
	results := make(chan error, 64)
	walkDone := make(chan walkSummary, 1)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.cacheWorker(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)

		// Breadth-first walk, one listing per directory.
		summary := walkSummary{}
		defer func() { walkDone <- summary }()

		pending := []string{opts.URI}
		for len(pending) > 0 {
			dir := pending[0]
			pending = pending[1:]

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			summary.directories++
			e.sendProgress(progress, walkLibraryUpdate(dir, summary.directories))

			dirs, songs, err := e.client.ListInfo(ctx, dir)
			if err != nil {
				summary.err = fmt.Errorf("failed to list '%s': %w", dir, err)
				return
			}

			pending = append(pending, dirs...)

			for _, song := range songs {
				select {
				case jobs <- *song:
					summary.seen++
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	processed := 0
	for err := range results {
		processed++
		if err != nil {
			result.SongsFailed++
		} else {
			result.SongsCached++
		}
		e.sendProgress(progress, cacheSongsUpdate(result.SongsCached, processed))
	}

	summary := <-walkDone
	result.Directories = summary.directories
	result.SongsSeen = summary.seen
	result.Elapsed = time.Since(start)

	if summary.err != nil {
		return result, summary.err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// cacheWorker is a worker goroutine that persists songs from the jobs channel.
func (e *QueueEngine) cacheWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan models.Song, results chan<- error) {
	defer wg.Done()

	for song := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.cache.CacheSong(song)
	}
}
