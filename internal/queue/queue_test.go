package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// song builds a queue entry with the daemon-assigned id and position.
func song(id, pos int, title string) *models.Song {
	return &models.Song{
		ID:     id,
		Pos:    pos,
		File:   "music/" + title + ".flac",
		Title:  title,
		Artist: "artist",
	}
}

func TestListAdd(t *testing.T) {
	t.Run("indexes and places the song", func(t *testing.T) {
		l := New()

		if err := l.Add(song(7, 0, "a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		got, ok := l.ByID(7)
		if !ok {
			t.Fatal("expected song to be indexed by id")
		}
		if got.Title != "a" {
			t.Errorf("ByID(7).Title = %v, want a", got.Title)
		}

		got, ok = l.ByPosition(0)
		if !ok {
			t.Fatal("expected song at position 0")
		}
		if got.ID != 7 {
			t.Errorf("ByPosition(0).ID = %v, want 7", got.ID)
		}
	})

	t.Run("grows with empty slots", func(t *testing.T) {
		l := New()

		if err := l.Add(song(1, 3, "late")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		if l.Len() != 4 {
			t.Errorf("Len() = %d, want 4", l.Len())
		}
		for pos := 0; pos < 3; pos++ {
			if _, ok := l.ByPosition(pos); ok {
				t.Errorf("expected empty slot at position %d", pos)
			}
		}
		if _, ok := l.ByPosition(3); !ok {
			t.Error("expected song at position 3")
		}
	})

	t.Run("fills an empty slot without growing", func(t *testing.T) {
		l := New()

		if err := l.Add(song(1, 2, "c")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := l.Add(song(2, 0, "a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		if l.Len() != 3 {
			t.Errorf("Len() = %d, want 3", l.Len())
		}
		if got, ok := l.ByPosition(0); !ok || got.ID != 2 {
			t.Errorf("ByPosition(0) = %v, %v, want song 2", got, ok)
		}
	})

	t.Run("duplicate id leaves the list unchanged", func(t *testing.T) {
		l := New()

		if err := l.Add(song(5, 0, "first")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		err := l.Add(song(5, 4, "second"))
		if !errors.Is(err, shared.ErrDuplicateSongID) {
			t.Fatalf("Add() error = %v, want ErrDuplicateSongID", err)
		}

		if l.Len() != 1 {
			t.Errorf("Len() = %d, want 1 after failed add", l.Len())
		}
		if got, _ := l.ByID(5); got.Title != "first" {
			t.Errorf("ByID(5).Title = %v, want first", got.Title)
		}
	})

	t.Run("overwriting a position keeps the displaced song indexed", func(t *testing.T) {
		l := New()

		if err := l.Add(song(1, 0, "old")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := l.Add(song(2, 0, "new")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		// The daemon never reuses a live position without a delete, so the
		// displaced entry lingering in the index only matters to direct
		// callers. RemoveByID(1) still cleans it up.
		if got, _ := l.ByPosition(0); got == nil || got.ID != 2 {
			t.Errorf("ByPosition(0) = %v, want song 2", got)
		}
		if _, ok := l.ByID(1); !ok {
			t.Error("expected displaced song to stay indexed")
		}

		l.RemoveByID(1)
		if _, ok := l.ByID(1); ok {
			t.Error("expected displaced song to be dropped from the index")
		}
		if l.Len() != 1 {
			t.Errorf("Len() = %d, want 1", l.Len())
		}
	})
}

func TestListAppend(t *testing.T) {
	t.Run("skips the songid index", func(t *testing.T) {
		l := New()

		l.Append(song(1, 0, "a"), song(2, 1, "b"))

		if l.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", l.Len())
		}
		if _, ok := l.ByPosition(0); !ok {
			t.Error("expected song at position 0")
		}
		if _, ok := l.ByID(1); ok {
			t.Error("expected appended song to be absent from the songid index")
		}
		if _, ok := l.ByID(2); ok {
			t.Error("expected appended song to be absent from the songid index")
		}
	})

	t.Run("appends after existing entries", func(t *testing.T) {
		l := New()

		if err := l.Add(song(1, 0, "a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		l.Append(song(2, 1, "b"))

		if l.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", l.Len())
		}
		if got, _ := l.ByPosition(1); got == nil || got.Title != "b" {
			t.Errorf("ByPosition(1) = %v, want song b", got)
		}
	})
}

func TestListClear(t *testing.T) {
	l := New()

	if err := l.Add(song(1, 0, "a")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	l.Append(song(2, 1, "b"))

	l.Clear()

	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
	if _, ok := l.ByID(1); ok {
		t.Error("expected songid index to be empty after clear")
	}
	if _, ok := l.ByPosition(0); ok {
		t.Error("expected no song at position 0 after clear")
	}
}

func TestListByPosition(t *testing.T) {
	l := New()
	if err := l.Add(song(1, 2, "c")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tc := []struct {
		name string
		pos  int
		ok   bool
	}{
		{name: "occupied slot", pos: 2, ok: true},
		{name: "empty slot", pos: 0, ok: false},
		{name: "negative position", pos: -1, ok: false},
		{name: "past the end", pos: 3, ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := l.ByPosition(tt.pos)
			if ok != tt.ok {
				t.Errorf("ByPosition(%d) ok = %v, want %v", tt.pos, ok, tt.ok)
			}
		})
	}
}

func TestListRemoveByID(t *testing.T) {
	t.Run("removes from both views and compacts", func(t *testing.T) {
		l := New()
		for i, title := range []string{"a", "b", "c"} {
			if err := l.Add(song(i+1, i, title)); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
		}

		l.RemoveByID(2)

		if l.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", l.Len())
		}
		if _, ok := l.ByID(2); ok {
			t.Error("expected id 2 to be dropped from the index")
		}
		if got, _ := l.ByPosition(1); got == nil || got.Title != "c" {
			t.Errorf("ByPosition(1) = %v, want song c shifted down", got)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		l := New()
		if err := l.Add(song(1, 0, "a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		l.RemoveByID(99)

		if l.Len() != 1 {
			t.Errorf("Len() = %d, want 1", l.Len())
		}
	})

	t.Run("appended songs are invisible to id removal", func(t *testing.T) {
		l := New()
		l.Append(song(1, 0, "a"))

		l.RemoveByID(1)

		if l.Len() != 1 {
			t.Errorf("Len() = %d, want 1: bulk entries are not indexed", l.Len())
		}
	})
}

func TestListRemoveByPosition(t *testing.T) {
	t.Run("removes and unindexes the occupant", func(t *testing.T) {
		l := New()
		for i, title := range []string{"a", "b", "c"} {
			if err := l.Add(song(i+1, i, title)); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
		}

		l.RemoveByPosition(0)

		if l.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", l.Len())
		}
		if _, ok := l.ByID(1); ok {
			t.Error("expected removed song to be dropped from the index")
		}
		if got, _ := l.ByPosition(0); got == nil || got.Title != "b" {
			t.Errorf("ByPosition(0) = %v, want song b shifted down", got)
		}
	})

	t.Run("empty slot is a no-op", func(t *testing.T) {
		l := New()
		if err := l.Add(song(1, 2, "c")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		l.RemoveByPosition(0)

		if l.Len() != 3 {
			t.Errorf("Len() = %d, want 3: empty slots are not removable", l.Len())
		}
	})

	t.Run("out of range is a no-op", func(t *testing.T) {
		l := New()
		if err := l.Add(song(1, 0, "a")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		l.RemoveByPosition(-1)
		l.RemoveByPosition(5)

		if l.Len() != 1 {
			t.Errorf("Len() = %d, want 1", l.Len())
		}
	})
}

func TestListReplace(t *testing.T) {
	l := New()
	if err := l.Add(song(1, 0, "old")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	l.Replace([]*models.Song{song(2, 0, "a"), song(3, 1, "b")})

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if got, _ := l.ByPosition(0); got == nil || got.Title != "a" {
		t.Errorf("ByPosition(0) = %v, want song a", got)
	}
	if _, ok := l.ByID(1); ok {
		t.Error("expected the old index to be gone")
	}
	if _, ok := l.ByID(2); ok {
		t.Error("expected replacement songs to skip the songid index")
	}
}

func TestListLen(t *testing.T) {
	l := New()

	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}

	if err := l.Add(song(1, 2, "c")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3 with empty slots counted", l.Len())
	}
}

func TestListSlice(t *testing.T) {
	l := New()
	titles := []string{"a", "b", "c", "d", "e"}
	for i, title := range titles {
		if err := l.Add(song(i+1, i, title)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	tc := []struct {
		name    string
		from    int
		to      int
		want    []string
		wantErr bool
	}{
		{name: "inner range", from: 1, to: 3, want: []string{"b", "c"}},
		{name: "full range", from: 0, to: 5, want: titles},
		{name: "empty range", from: 2, to: 2, want: []string{}},
		{name: "from after to", from: 4, to: 2, wantErr: true},
		{name: "to past the end", from: 0, to: 6, wantErr: true},
		{name: "negative from", from: -1, to: 2, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Slice(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidRange) {
					t.Fatalf("Slice(%d, %d) error = %v, want ErrInvalidRange", tt.from, tt.to, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Slice(%d, %d) error = %v", tt.from, tt.to, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Slice(%d, %d) len = %d, want %d", tt.from, tt.to, len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("Slice(%d, %d)[%d].Title = %v, want %v", tt.from, tt.to, i, got[i].Title, title)
				}
			}
		})
	}
}

func TestListSongsSnapshot(t *testing.T) {
	l := New()
	if err := l.Add(song(1, 1, "b")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	snapshot := l.Songs()
	if len(snapshot) != 2 {
		t.Fatalf("Songs() len = %d, want 2 with the empty slot", len(snapshot))
	}
	if snapshot[0] != nil {
		t.Error("expected empty slot at index 0")
	}

	snapshot[1] = nil

	if got, ok := l.ByPosition(1); !ok || got.Title != "b" {
		t.Error("mutating the snapshot must not affect the list")
	}
}

func TestListNewFrom(t *testing.T) {
	t.Run("copies songs without indexing", func(t *testing.T) {
		src := New()
		for i, title := range []string{"a", "b"} {
			if err := src.Add(song(i+1, i, title)); err != nil {
				t.Fatalf("Add() error = %v", err)
			}
		}

		cp := NewFrom(src)

		if cp.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", cp.Len())
		}
		if _, ok := cp.ByID(1); ok {
			t.Error("expected the copy's songid index to start empty")
		}

		cp.RemoveByPosition(0)
		if src.Len() != 2 {
			t.Error("mutating the copy must not affect the source")
		}
	})

	t.Run("carries empty slots through", func(t *testing.T) {
		src := New()
		if err := src.Add(song(1, 2, "c")); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		cp := NewFrom(src)

		if cp.Len() != 3 {
			t.Fatalf("Len() = %d, want 3 with the leading slots kept", cp.Len())
		}
		if _, ok := cp.ByPosition(0); ok {
			t.Error("expected the copy to keep position 0 empty")
		}
		if got, ok := cp.ByPosition(2); !ok || got.Title != "c" {
			t.Errorf("ByPosition(2) = %v, %v, want song c at its source position", got, ok)
		}
	})
}

func TestListConcurrentReplace(t *testing.T) {
	l := New()
	one := []*models.Song{song(1, 0, "a")}
	two := []*models.Song{song(2, 0, "b"), song(3, 1, "c")}
	l.Replace(one)

	done := make(chan struct{})
	var empties atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if l.Len() == 0 {
					empties.Add(1)
				}
				if _, ok := l.ByPosition(0); !ok {
					empties.Add(1)
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			l.Replace(two)
		} else {
			l.Replace(one)
		}
	}
	close(done)
	wg.Wait()

	if n := empties.Load(); n > 0 {
		t.Errorf("readers observed an emptied queue %d times during replace", n)
	}
}
