package repositories

import (
	"fmt"
	"strings"

	"github.com/theirix/dmix/internal/models"
)

// SongCacheAdapter implements tasks.SongCacher using SongRepository.
//
// Provides automatic song caching with deduplication via the file path
// constraint. Rescanned files refresh their tags in place.
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong caches a song discovered during a library scan.
// An already cached file has its metadata updated in place.
// Only returns errors for actual failures (not constraint violations).
func (a *SongCacheAdapter) CacheSong(song models.Song) error {
	existing, err := a.repo.GetByFile(song.File)
	if err == nil && existing != nil {
		existing.SetSong(song)
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached song: %w", err)
		}
		return nil
	}

	persisted := models.NewPersistedSong(0, song)

	err = a.repo.Create(persisted)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}
