// package tasks implements queue synchronization and library operations against the music daemon.
//
// The core abstraction is QueueEngine, which keeps a local queue mirror in sync, loads playlists, and walks the library.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/queue"
	"github.com/theirix/dmix/internal/shared"
)

// Client defines the daemon operations the engine depends on.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type Client interface {
	Status(ctx context.Context) (*models.Status, error)
	Queue(ctx context.Context) ([]*models.Song, error)
	QueueChanges(ctx context.Context, version int64) ([]*models.Song, error)
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	PlaylistSongs(ctx context.Context, name string) ([]*models.Song, error)
	Load(ctx context.Context, name string) error
	ClearQueue(ctx context.Context) error
	ListInfo(ctx context.Context, uri string) ([]string, []*models.Song, error)
	Idle(ctx context.Context, subsystems ...string) ([]string, error)
}

// SongCacher persists songs discovered during library scans.
// Implementations must tolerate repeated calls for the same file.
type SongCacher interface {
	CacheSong(song models.Song) error
}

// RefreshResult contains the outcome of one queue synchronization.
type RefreshResult struct {
	Status  *models.Status // Daemon status at refresh time
	Changed int            // Songs added or repositioned
	Removed int            // Songs truncated from the tail
	Full    bool           // True when the whole queue was reloaded
	Version int64          // Queue version after the refresh
}

// LoadResult contains the outcome of loading a stored playlist into the queue.
type LoadResult struct {
	Playlist string         // Loaded playlist name
	Replaced bool           // True when the queue was cleared first
	Queued   int            // Queue length after loading
	Status   *models.Status // Daemon status after loading
}

// DiffResult contains the comparison between a stored playlist and the current queue.
type DiffResult struct {
	Playlist       string        // Compared playlist name
	PlaylistLen    int           // Songs in the stored playlist
	QueueLen       int           // Songs in the queue (placeholders excluded)
	MatchedCount   int           // Songs found in both
	MissingInQueue []models.Song // Playlist songs absent from the queue
	ExtraInQueue   []models.Song // Queue songs absent from the playlist
}

// QueueEngine keeps a local mirror of the daemon's play queue and exposes
// playlist, scan and export operations on top of it.
//
// The mirror is rebuilt wholesale when the queue version jumps past what
// incremental changes can explain, and patched in place otherwise. Songs
// applied incrementally are reachable by daemon id; songs loaded in bulk
// only by position.
type QueueEngine struct {
	client  Client
	cache   SongCacher
	mirror  *queue.List
	version int64
}

// NewQueueEngine creates a new QueueEngine with the provided client and cache.
// The cache may be nil when scan persistence is not needed.
func NewQueueEngine(client Client, cache SongCacher) *QueueEngine {
	return &QueueEngine{
		client: client,
		cache:  cache,
		mirror: queue.New(),
	}
}

// Mirror exposes the local queue mirror for read access.
func (e *QueueEngine) Mirror() *queue.List {
	return e.mirror
}

// Version returns the last synchronized queue version.
func (e *QueueEngine) Version() int64 {
	return e.version
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *QueueEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Refresh synchronizes the local mirror with the daemon's queue.
//
// When the daemon's queue version matches the last seen one, nothing is
// fetched beyond status. A first sync or a reconciliation failure reloads
// the full queue; otherwise only changed songs are transferred.
func (e *QueueEngine) Refresh(ctx context.Context, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}

	e.sendProgress(progress, fetchStatusUpdate(1, 2))

	status, err := e.client.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status: %w", err)
	}

	result := &RefreshResult{
		Status:  status,
		Version: status.QueueVersion,
	}

	if status.QueueVersion == e.version && e.version != 0 {
		return result, nil
	}

	if e.version == 0 || e.mirror.Len() == 0 {
		if err := e.reload(ctx, progress, result); err != nil {
			return nil, err
		}
		e.version = status.QueueVersion
		return result, nil
	}

	e.sendProgress(progress, fetchQueueUpdate(2, 2))

	changes, err := e.client.QueueChanges(ctx, e.version)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch queue changes: %w", err)
	}

	e.sendProgress(progress, applyChangesUpdate(len(changes)))

	for _, song := range changes {
		// A moved song is already indexed under its old position, so
		// drop the stale entry before placing it anew.
		e.mirror.RemoveByID(song.ID)
		if err := e.mirror.Add(song); err != nil {
			return nil, fmt.Errorf("failed to apply queue change: %w", err)
		}
	}
	result.Changed = len(changes)

	for e.mirror.Len() > status.QueueLength {
		before := e.mirror.Len()
		e.mirror.RemoveByPosition(before - 1)
		if e.mirror.Len() == before {
			// Tail slot is a placeholder the daemon never described.
			// Incremental state is unreliable, start over.
			if err := e.reload(ctx, progress, result); err != nil {
				return nil, err
			}
			break
		}
		result.Removed++
	}

	e.version = status.QueueVersion
	return result, nil
}

// reload replaces the whole mirror with the daemon's queue.
func (e *QueueEngine) reload(ctx context.Context, progress chan<- ProgressUpdate, result *RefreshResult) error {
	e.sendProgress(progress, fetchQueueUpdate(2, 2))

	songs, err := e.client.Queue(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch queue: %w", err)
	}

	e.mirror.Replace(songs)
	result.Full = true
	result.Changed = len(songs)
	result.Removed = 0
	return nil
}

// Load loads a stored playlist into the daemon's queue and resynchronizes the mirror.
// With replace set, the queue is cleared first.
func (e *QueueEngine) Load(ctx context.Context, progress chan<- ProgressUpdate, name string, replace bool) (*LoadResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}

	if replace {
		e.sendProgress(progress, clearQueueUpdate(1, 3))
		if err := e.client.ClearQueue(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear queue: %w", err)
		}
	}

	e.sendProgress(progress, loadPlaylistUpdate(2, 3, name))
	if err := e.client.Load(ctx, name); err != nil {
		return nil, fmt.Errorf("%w: failed to load playlist '%s': %v", shared.ErrPlaylistNotFound, name, err)
	}

	e.sendProgress(progress, fetchQueueUpdate(3, 3))
	refresh, err := e.Refresh(ctx, progress)
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Playlist: name,
		Replaced: replace,
		Queued:   e.mirror.Len(),
		Status:   refresh.Status,
	}, nil
}

// Diff compares a stored playlist against the current queue mirror.
//
// Songs are matched by file path first and by normalized title/artist as a
// fallback, so retagged files still pair up. Placeholder slots in the mirror
// are ignored.
func (e *QueueEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, name string) (*DiffResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}

	e.sendProgress(progress, fetchPlaylistUpdate(1, 2, name))

	playlistSongs, err := e.client.PlaylistSongs(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch playlist '%s': %v", shared.ErrPlaylistNotFound, name, err)
	}

	if _, err := e.Refresh(ctx, progress); err != nil {
		return nil, err
	}

	var queueSongs []*models.Song
	for _, song := range e.mirror.Songs() {
		if song != nil {
			queueSongs = append(queueSongs, song)
		}
	}

	result := &DiffResult{
		Playlist:    name,
		PlaylistLen: len(playlistSongs),
		QueueLen:    len(queueSongs),
	}

	e.sendProgress(progress, compareQueueUpdate(2, 2))

	queueFiles := make(map[string]*models.Song)
	queueKeys := make(map[string]*models.Song)
	for _, song := range queueSongs {
		queueFiles[song.File] = song
		queueKeys[shared.NormalizeSongKey(song.Title, song.Artist)] = song
	}

	for _, song := range playlistSongs {
		matched := false

		if _, found := queueFiles[song.File]; found {
			matched = true
		}

		if !matched {
			key := shared.NormalizeSongKey(song.Title, song.Artist)
			if _, found := queueKeys[key]; found {
				matched = true
			}
		}

		if matched {
			result.MatchedCount++
		} else {
			result.MissingInQueue = append(result.MissingInQueue, *song)
		}
	}

	playlistFiles := make(map[string]*models.Song)
	playlistKeys := make(map[string]*models.Song)
	for _, song := range playlistSongs {
		playlistFiles[song.File] = song
		playlistKeys[shared.NormalizeSongKey(song.Title, song.Artist)] = song
	}

	for _, song := range queueSongs {
		matched := false

		if _, found := playlistFiles[song.File]; found {
			matched = true
		}

		if !matched {
			key := shared.NormalizeSongKey(song.Title, song.Artist)
			if _, found := playlistKeys[key]; found {
				matched = true
			}
		}

		if !matched {
			result.ExtraInQueue = append(result.ExtraInQueue, *song)
		}
	}

	return result, nil
}

// Current resolves the playing song through the mirror.
//
// The daemon id is tried first and only hits for songs applied
// incrementally. Bulk loaded songs resolve through their position.
func (e *QueueEngine) Current(status *models.Status) (*models.Song, bool) {
	if status == nil {
		return nil, false
	}
	if status.SongID >= 0 {
		if song, ok := e.mirror.ByID(status.SongID); ok {
			return song, true
		}
	}
	if status.Song >= 0 {
		if song, ok := e.mirror.ByPosition(status.Song); ok {
			return song, true
		}
	}
	return nil, false
}

// Watch blocks on daemon idle notifications and resynchronizes the mirror
// whenever the queue or playback changes. Every event and refresh outcome is
// reported through the progress channel. Returns when ctx is cancelled.
func (e *QueueEngine) Watch(ctx context.Context, progress chan<- ProgressUpdate) error {
	if e.client == nil {
		return fmt.Errorf("%w: daemon client not initialized", shared.ErrNotConnected)
	}

	if _, err := e.Refresh(ctx, progress); err != nil {
		return err
	}

	for {
		changed, err := e.client.Idle(ctx, "playlist", "player", "mixer", "database")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("idle failed: %w", err)
		}

		resync := false
		for _, subsystem := range changed {
			e.sendProgress(progress, watchChangeUpdate(subsystem))
			if subsystem == "playlist" || subsystem == "player" {
				resync = true
			}
		}

		if resync {
			refresh, err := e.Refresh(ctx, progress)
			if err != nil {
				return err
			}
			e.sendProgress(progress, queueSyncedUpdate(refresh))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
