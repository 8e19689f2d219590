// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/theirix/dmix/internal/models"
)

// MockClient is a test double for [tasks.Client] backed by an empty,
// stopped daemon.
type MockClient struct{}

func (m *MockClient) Status(ctx context.Context) (*models.Status, error) {
	return &models.Status{
		State:      "stop",
		Song:       -1,
		SongID:     -1,
		NextSong:   -1,
		NextSongID: -1,
	}, nil
}

func (m *MockClient) Queue(ctx context.Context) ([]*models.Song, error) {
	return []*models.Song{}, nil
}

func (m *MockClient) QueueChanges(ctx context.Context, version int64) ([]*models.Song, error) {
	return []*models.Song{}, nil
}

func (m *MockClient) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return []models.Playlist{}, nil
}

func (m *MockClient) PlaylistSongs(ctx context.Context, name string) ([]*models.Song, error) {
	return []*models.Song{}, nil
}

func (m *MockClient) Load(ctx context.Context, name string) error { return nil }

func (m *MockClient) ClearQueue(ctx context.Context) error { return nil }

func (m *MockClient) ListInfo(ctx context.Context, uri string) ([]string, []*models.Song, error) {
	return nil, []*models.Song{}, nil
}

// Idle blocks until the context is cancelled, like a daemon with no activity.
func (m *MockClient) Idle(ctx context.Context, subsystems ...string) ([]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
