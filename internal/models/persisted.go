package models

import (
	"fmt"
	"time"
)

// PersistedSong is a library song cached in the local database. The cache is
// keyed by file path, which the daemon guarantees unique across the library.
type PersistedSong struct {
	id        string
	sequence  int
	song      Song
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedSong creates a cached song from its DTO with the given sequence.
// The ID is assigned by the repository on insert.
func NewPersistedSong(sequence int, song Song) *PersistedSong {
	now := time.Now()
	return &PersistedSong{
		sequence:  sequence,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *PersistedSong) ID() string { return s.id }

func (s *PersistedSong) Sequence() int { return s.sequence }

func (s *PersistedSong) CreatedAt() time.Time { return s.createdAt }

func (s *PersistedSong) UpdatedAt() time.Time { return s.updatedAt }

func (s *PersistedSong) DeletedAt() *time.Time { return s.deletedAt }

// Song returns the cached tag data as a DTO.
func (s *PersistedSong) Song() Song { return s.song }

func (s *PersistedSong) File() string { return s.song.File }

func (s *PersistedSong) Title() string { return s.song.Title }

func (s *PersistedSong) Artist() string { return s.song.Artist }

func (s *PersistedSong) Album() string { return s.song.Album }

func (s *PersistedSong) AlbumArtist() string { return s.song.AlbumArtist }

func (s *PersistedSong) Track() int { return s.song.Track }

func (s *PersistedSong) Genre() string { return s.song.Genre }

func (s *PersistedSong) Date() string { return s.song.Date }

func (s *PersistedSong) Duration() int { return s.song.Duration }

func (s *PersistedSong) LastModified() time.Time { return s.song.LastModified }

func (s *PersistedSong) SetID(id string) { s.id = id }

func (s *PersistedSong) SetCreatedAt(t time.Time) { s.createdAt = t }

func (s *PersistedSong) SetUpdatedAt(t time.Time) { s.updatedAt = t }

func (s *PersistedSong) SetDeletedAt(t *time.Time) { s.deletedAt = t }

func (s *PersistedSong) SetSong(song Song) { s.song = song }

// Validate checks that the song carries the file path the cache is keyed by.
func (s *PersistedSong) Validate() error {
	if s.song.File == "" {
		return fmt.Errorf("song file path is required")
	}
	return nil
}

// PersistedPlaylist is a stored playlist seen on the daemon, cached with the
// time it was last synced.
type PersistedPlaylist struct {
	id        string
	sequence  int
	playlist  Playlist
	syncedAt  *time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedPlaylist creates a cached playlist from its DTO with the given sequence.
func NewPersistedPlaylist(sequence int, playlist Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		sequence:  sequence,
		playlist:  playlist,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PersistedPlaylist) ID() string { return p.id }

func (p *PersistedPlaylist) Sequence() int { return p.sequence }

func (p *PersistedPlaylist) CreatedAt() time.Time { return p.createdAt }

func (p *PersistedPlaylist) UpdatedAt() time.Time { return p.updatedAt }

func (p *PersistedPlaylist) DeletedAt() *time.Time { return p.deletedAt }

func (p *PersistedPlaylist) SyncedAt() *time.Time { return p.syncedAt }

// Playlist returns the stored playlist metadata as a DTO.
func (p *PersistedPlaylist) Playlist() Playlist { return p.playlist }

func (p *PersistedPlaylist) Name() string { return p.playlist.Name }

func (p *PersistedPlaylist) SongCount() int { return p.playlist.SongCount }

func (p *PersistedPlaylist) LastModified() time.Time { return p.playlist.LastModified }

func (p *PersistedPlaylist) SetID(id string) { p.id = id }

func (p *PersistedPlaylist) SetCreatedAt(t time.Time) { p.createdAt = t }

func (p *PersistedPlaylist) SetUpdatedAt(t time.Time) { p.updatedAt = t }

func (p *PersistedPlaylist) SetDeletedAt(t *time.Time) { p.deletedAt = t }

func (p *PersistedPlaylist) SetSyncedAt(t *time.Time) { p.syncedAt = t }

func (p *PersistedPlaylist) SetPlaylist(pl Playlist) { p.playlist = pl }

// Validate checks that the playlist has the name the daemon addresses it by.
func (p *PersistedPlaylist) Validate() error {
	if p.playlist.Name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// Scan job statuses.
const (
	ScanStatusPending   = "pending"
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// ScanJob records one library scan: the subtree walked, progress counters
// and the outcome.
type ScanJob struct {
	id           string
	sequence     int
	uri          string
	status       string
	songsSeen    int
	songsCached  int
	songsFailed  int
	errorMessage string
	startedAt    *time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewScanJob creates a pending scan job for the given library subtree.
// An empty uri means the whole library.
func NewScanJob(sequence int, uri string) *ScanJob {
	now := time.Now()
	return &ScanJob{
		sequence:  sequence,
		uri:       uri,
		status:    ScanStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

func (j *ScanJob) ID() string { return j.id }

func (j *ScanJob) Sequence() int { return j.sequence }

func (j *ScanJob) URI() string { return j.uri }

func (j *ScanJob) Status() string { return j.status }

func (j *ScanJob) SongsSeen() int { return j.songsSeen }

func (j *ScanJob) SongsCached() int { return j.songsCached }

func (j *ScanJob) SongsFailed() int { return j.songsFailed }

func (j *ScanJob) ErrorMessage() string { return j.errorMessage }

func (j *ScanJob) StartedAt() *time.Time { return j.startedAt }

func (j *ScanJob) CompletedAt() *time.Time { return j.completedAt }

func (j *ScanJob) CreatedAt() time.Time { return j.createdAt }

func (j *ScanJob) UpdatedAt() time.Time { return j.updatedAt }

func (j *ScanJob) DeletedAt() *time.Time { return j.deletedAt }

func (j *ScanJob) SetID(id string) { j.id = id }

func (j *ScanJob) SetCreatedAt(t time.Time) { j.createdAt = t }

func (j *ScanJob) SetUpdatedAt(t time.Time) { j.updatedAt = t }

func (j *ScanJob) SetDeletedAt(t *time.Time) { j.deletedAt = t }

// Start marks the job running.
func (j *ScanJob) Start() {
	now := time.Now()
	j.status = ScanStatusRunning
	j.startedAt = &now
}

// Complete marks the job finished with its final counters.
func (j *ScanJob) Complete(seen, cached, failed int) {
	now := time.Now()
	j.status = ScanStatusCompleted
	j.songsSeen = seen
	j.songsCached = cached
	j.songsFailed = failed
	j.completedAt = &now
}

// Fail marks the job failed with the error that stopped it.
func (j *ScanJob) Fail(message string) {
	now := time.Now()
	j.status = ScanStatusFailed
	j.errorMessage = message
	j.completedAt = &now
}

// Restore rehydrates job state from storage. Only repositories call this.
func (j *ScanJob) Restore(status string, seen, cached, failed int, errorMessage string, startedAt, completedAt *time.Time) {
	j.status = status
	j.songsSeen = seen
	j.songsCached = cached
	j.songsFailed = failed
	j.errorMessage = errorMessage
	j.startedAt = startedAt
	j.completedAt = completedAt
}

// Validate checks that the job carries a known status.
func (j *ScanJob) Validate() error {
	switch j.status {
	case ScanStatusPending, ScanStatusRunning, ScanStatusCompleted, ScanStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid scan status: %q", j.status)
	}
}
