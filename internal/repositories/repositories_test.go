package repositories

import (
	"database/sql"
	"testing"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// In-memory databases vanish per connection, so pin the pool to one.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestSongRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			File:   "music/artist/album/01-track.flac",
			Title:  "Test Song",
			Artist: "Test Artist",
		})

		err := repo.Create(song)
		if err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if song.ID() == "" {
			t.Error("song ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			File:     "music/artist/album/01-track.flac",
			Title:    "Test Song",
			Artist:   "Test Artist",
			Album:    "Test Album",
			Track:    1,
			Duration: 180,
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.ID() != song.ID() {
			t.Errorf("expected ID %s, got %s", song.ID(), retrieved.ID())
		}

		if retrieved.Title() != "Test Song" {
			t.Errorf("expected title 'Test Song', got %s", retrieved.Title())
		}

		if retrieved.Duration() != 180 {
			t.Errorf("expected duration 180, got %d", retrieved.Duration())
		}
	})

	t.Run("GetByFile", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			File:  "music/artist/album/01-track.flac",
			Title: "Test Song",
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.GetByFile("music/artist/album/01-track.flac")
		if err != nil {
			t.Fatalf("failed to get song by file: %v", err)
		}

		if retrieved.Title() != "Test Song" {
			t.Errorf("expected title 'Test Song', got %s", retrieved.Title())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			File:  "music/artist/album/01-track.flac",
			Title: "Old Title",
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		updated := retrieved.Song()
		updated.Title = "New Title"
		retrieved.SetSong(updated)

		if err := repo.Update(retrieved); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		refreshed, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get updated song: %v", err)
		}

		if refreshed.Title() != "New Title" {
			t.Errorf("expected title 'New Title', got %s", refreshed.Title())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, models.Song{
			File:  "music/artist/album/01-track.flac",
			Title: "Test Song",
		})

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		_, err := repo.Get(song.ID())
		if err == nil {
			t.Error("expected error when getting deleted song")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)

		songs := []*models.PersistedSong{
			models.NewPersistedSong(0, models.Song{File: "music/a/1.flac", Title: "One", Artist: "Alpha"}),
			models.NewPersistedSong(0, models.Song{File: "music/b/2.flac", Title: "Two", Artist: "Beta"}),
			models.NewPersistedSong(0, models.Song{File: "music/b/3.flac", Title: "Three", Artist: "Beta"}),
		}

		for _, song := range songs {
			if err := repo.Create(song); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		retrieved, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}

		if len(retrieved) != 3 {
			t.Errorf("expected 3 songs, got %d", len(retrieved))
		}

		filtered, err := repo.List(map[string]any{"artist": "Beta"})
		if err != nil {
			t.Fatalf("failed to list filtered songs: %v", err)
		}

		if len(filtered) != 2 {
			t.Errorf("expected 2 songs, got %d", len(filtered))
		}
	})

	t.Run("Search", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)

		songs := []*models.PersistedSong{
			models.NewPersistedSong(0, models.Song{File: "music/a/1.flac", Title: "Blue Train", Artist: "John Coltrane"}),
			models.NewPersistedSong(0, models.Song{File: "music/b/2.flac", Title: "So What", Artist: "Miles Davis"}),
			models.NewPersistedSong(0, models.Song{File: "music/b/3.flac", Title: "Blue in Green", Artist: "Miles Davis"}),
		}

		for _, song := range songs {
			if err := repo.Create(song); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		byTitle, err := repo.Search("blue", 0)
		if err != nil {
			t.Fatalf("failed to search songs: %v", err)
		}

		if len(byTitle) != 2 {
			t.Errorf("expected 2 matches for 'blue', got %d", len(byTitle))
		}

		byArtist, err := repo.Search("coltrane", 0)
		if err != nil {
			t.Fatalf("failed to search songs by artist: %v", err)
		}

		if len(byArtist) != 1 {
			t.Errorf("expected 1 match for 'coltrane', got %d", len(byArtist))
		}

		limited, err := repo.Search("blue", 1)
		if err != nil {
			t.Fatalf("failed to search songs with limit: %v", err)
		}

		if len(limited) != 1 {
			t.Errorf("expected limit of 1 match, got %d", len(limited))
		}
	})

	t.Run("Count", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)

		song := models.NewPersistedSong(0, models.Song{File: "music/a/1.flac", Title: "One"})
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if err := repo.Create(models.NewPersistedSong(0, models.Song{File: "music/b/2.flac", Title: "Two"})); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count songs: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 songs, got %d", count)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		count, err = repo.Count()
		if err != nil {
			t.Fatalf("failed to count songs after delete: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 song after delete, got %d", count)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := models.NewPersistedPlaylist(0, models.Playlist{
			Name:      "jazz favorites",
			SongCount: 12,
		})

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		retrieved, err := repo.GetByName("jazz favorites")
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		if retrieved.Name() != "jazz favorites" {
			t.Errorf("expected name 'jazz favorites', got %s", retrieved.Name())
		}

		if retrieved.SongCount() != 12 {
			t.Errorf("expected 12 songs, got %d", retrieved.SongCount())
		}
	})

	t.Run("Sync", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)

		err := repo.Sync([]models.Playlist{
			{Name: "jazz favorites", SongCount: 12},
			{Name: "morning", SongCount: 4},
		})
		if err != nil {
			t.Fatalf("failed to sync playlists: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}

		if len(all) != 2 {
			t.Errorf("expected 2 playlists, got %d", len(all))
		}

		for _, p := range all {
			if p.SyncedAt() == nil {
				t.Errorf("playlist %s should have synced_at set", p.Name())
			}
		}

		// A second sync updates in place instead of duplicating.
		err = repo.Sync([]models.Playlist{
			{Name: "jazz favorites", SongCount: 15},
		})
		if err != nil {
			t.Fatalf("failed to re-sync playlists: %v", err)
		}

		all, err = repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list playlists after re-sync: %v", err)
		}

		if len(all) != 2 {
			t.Errorf("expected 2 playlists after re-sync, got %d", len(all))
		}

		updated, err := repo.GetByName("jazz favorites")
		if err != nil {
			t.Fatalf("failed to get re-synced playlist: %v", err)
		}

		if updated.SongCount() != 15 {
			t.Errorf("expected 15 songs after re-sync, got %d", updated.SongCount())
		}
	})
}

func TestSongCacheAdapter_CacheSong(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSongRepository(db)
	adapter := NewSongCacheAdapter(repo)

	song := models.Song{
		File:     "music/artist/album/01-track.flac",
		Title:    "Test Song",
		Artist:   "Test Artist",
		Album:    "Test Album",
		Duration: 180,
	}

	if err := adapter.CacheSong(song); err != nil {
		t.Fatalf("failed to cache song: %v", err)
	}

	song.Title = "Remastered Title"
	if err := adapter.CacheSong(song); err != nil {
		t.Fatalf("caching the same file should not error: %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("failed to count songs: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 cached song, got %d", count)
	}

	retrieved, err := repo.GetByFile("music/artist/album/01-track.flac")
	if err != nil {
		t.Fatalf("failed to retrieve cached song: %v", err)
	}

	if retrieved.Title() != "Remastered Title" {
		t.Errorf("expected refreshed title 'Remastered Title', got %s", retrieved.Title())
	}
}

func TestScanRepository_CreateAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	scanRepo := NewScanRepository(db)
	job := models.NewScanJob(0, "music/")

	if err := scanRepo.Create(job); err != nil {
		t.Fatalf("failed to create scan: %v", err)
	}

	if job.Status() != models.ScanStatusPending {
		t.Errorf("expected status 'pending', got %s", job.Status())
	}

	job.Start()
	if err := scanRepo.Update(job); err != nil {
		t.Fatalf("failed to update running scan: %v", err)
	}

	job.Complete(10, 8, 2)
	if err := scanRepo.Update(job); err != nil {
		t.Fatalf("failed to update completed scan: %v", err)
	}

	retrieved, err := scanRepo.Get(job.ID())
	if err != nil {
		t.Fatalf("failed to get scan: %v", err)
	}

	if retrieved.Status() != models.ScanStatusCompleted {
		t.Errorf("expected status 'completed', got %s", retrieved.Status())
	}

	if retrieved.SongsSeen() != 10 {
		t.Errorf("expected 10 songs seen, got %d", retrieved.SongsSeen())
	}

	if retrieved.SongsCached() != 8 {
		t.Errorf("expected 8 songs cached, got %d", retrieved.SongsCached())
	}

	if retrieved.SongsFailed() != 2 {
		t.Errorf("expected 2 songs failed, got %d", retrieved.SongsFailed())
	}

	if retrieved.CompletedAt() == nil {
		t.Error("completed scan should have completed_at set")
	}
}

func TestScanRepository_Latest(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	scanRepo := NewScanRepository(db)

	first := models.NewScanJob(0, "music/old")
	if err := scanRepo.Create(first); err != nil {
		t.Fatalf("failed to create first scan: %v", err)
	}

	second := models.NewScanJob(0, "music/new")
	if err := scanRepo.Create(second); err != nil {
		t.Fatalf("failed to create second scan: %v", err)
	}

	latest, err := scanRepo.Latest()
	if err != nil {
		t.Fatalf("failed to get latest scan: %v", err)
	}

	if latest.URI() != "music/new" {
		t.Errorf("expected latest scan uri 'music/new', got %s", latest.URI())
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}

	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	// Get second sequence
	seq2, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}

	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	scanSeq, err := NextSequence(db, "scans")
	if err != nil {
		t.Fatalf("failed to get scan sequence: %v", err)
	}

	if scanSeq != 1 {
		t.Errorf("expected first scan sequence to be 1, got %d", scanSeq)
	}
}
