package models

import (
	"testing"
	"time"
)

func TestSongDisplayTitle(t *testing.T) {
	tc := []struct {
		name string
		song Song
		want string
	}{
		{
			name: "tagged song",
			song: Song{File: "music/a.flac", Title: "Paranoid Android"},
			want: "Paranoid Android",
		},
		{
			name: "untagged song falls back to file name",
			song: Song{File: "music/ok_computer/02_paranoid_android.flac"},
			want: "02_paranoid_android",
		},
		{
			name: "file without extension",
			song: Song{File: "stream/radio"},
			want: "radio",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.song.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSongDisplayArtist(t *testing.T) {
	tc := []struct {
		name string
		song Song
		want string
	}{
		{
			name: "artist tag",
			song: Song{Artist: "Radiohead"},
			want: "Radiohead",
		},
		{
			name: "album artist fallback",
			song: Song{AlbumArtist: "Various Artists"},
			want: "Various Artists",
		},
		{
			name: "no tags",
			song: Song{File: "a.mp3"},
			want: "Unknown Artist",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.song.DisplayArtist(); got != tt.want {
				t.Errorf("DisplayArtist() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusPlaying(t *testing.T) {
	if !(&Status{State: "play"}).Playing() {
		t.Error("expected play state to report playing")
	}
	if (&Status{State: "pause"}).Playing() {
		t.Error("expected pause state to not report playing")
	}
	if (&Status{State: "stop"}).Playing() {
		t.Error("expected stop state to not report playing")
	}
}

func TestPersistedSongValidate(t *testing.T) {
	valid := NewPersistedSong(1, Song{File: "music/a.flac", Title: "A"})
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid song, got %v", err)
	}

	invalid := NewPersistedSong(2, Song{Title: "No File"})
	if err := invalid.Validate(); err == nil {
		t.Error("expected validation error for missing file")
	}
}

func TestPersistedPlaylistValidate(t *testing.T) {
	valid := NewPersistedPlaylist(1, Playlist{Name: "morning", SongCount: 12})
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid playlist, got %v", err)
	}

	invalid := NewPersistedPlaylist(2, Playlist{})
	if err := invalid.Validate(); err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestScanJobLifecycle(t *testing.T) {
	job := NewScanJob(1, "music/jazz")

	if job.Status() != ScanStatusPending {
		t.Fatalf("expected pending status, got %s", job.Status())
	}
	if err := job.Validate(); err != nil {
		t.Fatalf("expected valid job, got %v", err)
	}

	job.Start()
	if job.Status() != ScanStatusRunning {
		t.Errorf("expected running status, got %s", job.Status())
	}
	if job.StartedAt() == nil {
		t.Error("expected started_at to be set")
	}

	job.Complete(100, 90, 10)
	if job.Status() != ScanStatusCompleted {
		t.Errorf("expected completed status, got %s", job.Status())
	}
	if job.SongsSeen() != 100 || job.SongsCached() != 90 || job.SongsFailed() != 10 {
		t.Errorf("unexpected counters: seen=%d cached=%d failed=%d", job.SongsSeen(), job.SongsCached(), job.SongsFailed())
	}
	if job.CompletedAt() == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestScanJobFail(t *testing.T) {
	job := NewScanJob(1, "")
	job.Start()
	job.Fail("daemon went away")

	if job.Status() != ScanStatusFailed {
		t.Errorf("expected failed status, got %s", job.Status())
	}
	if job.ErrorMessage() != "daemon went away" {
		t.Errorf("unexpected error message: %s", job.ErrorMessage())
	}
}

func TestScanJobRestore(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	completed := time.Now()

	job := NewScanJob(1, "music")
	job.Restore(ScanStatusCompleted, 5, 5, 0, "", &started, &completed)

	if job.Status() != ScanStatusCompleted {
		t.Errorf("expected completed status, got %s", job.Status())
	}
	if job.StartedAt() == nil || !job.StartedAt().Equal(started) {
		t.Error("expected restored started_at")
	}

	job.Restore("bogus", 0, 0, 0, "", nil, nil)
	if err := job.Validate(); err == nil {
		t.Error("expected validation error for unknown status")
	}
}
