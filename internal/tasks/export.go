package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/theirix/dmix/internal/formatter"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: mpd_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Daemon requests per second (default: 5)
}

// PlaylistExportJob carries one fetched playlist to the export workers.
type PlaylistExportJob struct {
	Name   string
	Export *models.PlaylistExport
}

// PlaylistExportResult records the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
}

// BulkExportResult aggregates the outcomes of a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

// BulkExport exports multiple stored playlists concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently export multiple playlists.
// It respects the daemon rate limit, handles partial failures gracefully, and generates a manifest file summarizing the export results.
func (e *QueueEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	names []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("mpd_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(names),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(names)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlaylistExportJob, len(names))
	results := make(chan PlaylistExportResult, len(names))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, name := range names {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			songs, err := e.client.PlaylistSongs(ctx, name)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistName: name,
					Success:      false,
					Error:        fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}

			jobs <- PlaylistExportJob{
				Name: name,
				Export: &models.PlaylistExport{
					Playlist: models.Playlist{Name: name, SongCount: len(songs)},
					Songs:    songs,
				},
			}

			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(names), name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(names),
				res.PlaylistName,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(names),
				res.PlaylistName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(e.buildManifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// buildManifest converts a bulk export result into its manifest form.
func (e *QueueEngine) buildManifest(result *BulkExportResult, format string) *formatter.ExportManifest {
	if format == "" {
		format = "json"
	}
	manifest := &formatter.ExportManifest{
		ExportedAt:      time.Now().UTC(),
		Format:          format,
		TotalPlaylists:  result.TotalPlaylists,
		Successful:      result.SuccessfulExports,
		Failed:          result.FailedExports,
		OutputDirectory: result.OutputDirectory,
	}
	for _, res := range result.Results {
		entry := formatter.ManifestEntry{
			Name:    res.PlaylistName,
			Success: res.Success,
			Files:   res.Files,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}
	return manifest
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *QueueEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSinglePlaylist(job, opts)
		results <- res
	}
}

// exportSinglePlaylist exports a single playlist to the appropriate format.
func (e *QueueEngine) exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistName: j.Name,
		Success:      false,
		Files:        []string{},
	}

	base := formatter.SafeFilename(j.Name)

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, base)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.SongsFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, base)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_songs.txt", base))
		path, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true
	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", base))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
