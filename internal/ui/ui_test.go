package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/tasks"
	tu "github.com/theirix/dmix/internal/testing"
)

func newTestModel() *Model {
	client := &tu.MockClient{}
	return NewModel(context.Background(), client, tasks.NewQueueEngine(client, nil))
}

func TestModelInit(t *testing.T) {
	m := newTestModel()

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned nil cmd, want a playlist fetch")
	}

	raw := cmd()
	msg, ok := raw.(playlistsFetchedMsg)
	if !ok {
		t.Fatalf("Init() cmd produced %T, want playlistsFetchedMsg", raw)
	}
	if msg.err != nil {
		t.Fatalf("fetch against an idle daemon failed: %v", msg.err)
	}
	if len(msg.playlists) != 0 {
		t.Errorf("expected no stored playlists, got %d", len(msg.playlists))
	}
}

func TestModelUpdate(t *testing.T) {
	t.Run("playlists fetched builds the list", func(t *testing.T) {
		m := newTestModel()
		playlists := []models.Playlist{
			{Name: "jazz favorites", SongCount: 3},
			{Name: "late night", SongCount: 9},
		}

		model, _ := m.Update(playlistsFetchedMsg{playlists: playlists})

		got := model.(*Model)
		if got.view != PlaylistListView {
			t.Errorf("view = %v, want PlaylistListView", got.view)
		}
		if len(got.playlistList.Items()) != 2 {
			t.Errorf("list has %d items, want 2", len(got.playlistList.Items()))
		}
	})

	t.Run("fetch error quits", func(t *testing.T) {
		m := newTestModel()

		model, cmd := m.Update(playlistsFetchedMsg{err: errors.New("daemon gone")})

		if model.(*Model).err == nil {
			t.Error("expected the error to be recorded")
		}
		if cmd == nil {
			t.Fatal("expected a quit cmd")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.Quit after a fetch error")
		}
	})

	t.Run("songs fetched switches to the preview", func(t *testing.T) {
		m := newTestModel()
		export := &models.PlaylistExport{
			Playlist: models.Playlist{Name: "jazz favorites", SongCount: 1},
			Songs:    []*models.Song{{Title: "So What", Artist: "Miles Davis", Duration: 545}},
		}

		model, _ := m.Update(songsFetchedMsg{export: export})

		got := model.(*Model)
		if got.view != SongListView {
			t.Errorf("view = %v, want SongListView", got.view)
		}
		if got.selected != export {
			t.Error("expected the fetched export to be selected")
		}
		if len(got.songList.Items()) != 1 {
			t.Errorf("song list has %d items, want 1", len(got.songList.Items()))
		}
	})

	t.Run("progress message re-arms the pump", func(t *testing.T) {
		m := newTestModel()

		model, cmd := m.Update(progressMsg(tasks.ProgressUpdate{Message: "Clearing queue..."}))

		if model.(*Model).progress.Message != "Clearing queue..." {
			t.Error("expected the progress update to be recorded")
		}
		if cmd == nil {
			t.Fatal("expected the pump to re-arm")
		}
		// No channel is open, so the pump reports completion.
		if _, ok := cmd().(loadDoneMsg); !ok {
			t.Error("expected loadDoneMsg once the progress channel is gone")
		}
	})

	t.Run("load done shows the result", func(t *testing.T) {
		m := newTestModel()
		result := &tasks.LoadResult{Playlist: "jazz favorites", Queued: 3}

		model, _ := m.Update(loadDoneMsg{result: result})

		got := model.(*Model)
		if got.view != ResultView {
			t.Errorf("view = %v, want ResultView", got.view)
		}
		if got.result != result {
			t.Error("expected the load result to be stored")
		}
	})

	t.Run("quit key quits from the playlist view", func(t *testing.T) {
		m := newTestModel()

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

		if cmd == nil {
			t.Fatal("expected a quit cmd")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.Quit on q")
		}
	})

	t.Run("restart key refetches playlists", func(t *testing.T) {
		m := newTestModel()
		m.view = ResultView
		m.result = &tasks.LoadResult{Playlist: "jazz favorites"}

		model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

		got := model.(*Model)
		if got.view != PlaylistListView {
			t.Errorf("view = %v, want PlaylistListView", got.view)
		}
		if got.result != nil || got.selected != nil {
			t.Error("expected the previous run to be cleared")
		}
		if cmd == nil {
			t.Fatal("expected a refetch cmd")
		}
		if _, ok := cmd().(playlistsFetchedMsg); !ok {
			t.Error("expected the refetch to produce playlistsFetchedMsg")
		}
	})
}

func TestModelView(t *testing.T) {
	t.Run("result view summarizes the load", func(t *testing.T) {
		m := newTestModel()
		m.view = ResultView
		m.result = &tasks.LoadResult{Playlist: "jazz favorites", Queued: 3}

		view := m.View()

		if !strings.Contains(view, "jazz favorites") {
			t.Errorf("result view missing the playlist name:\n%s", view)
		}
		if !strings.Contains(view, "Queued: 3 songs") {
			t.Errorf("result view missing the queued count:\n%s", view)
		}
	})

	t.Run("result view reports a failed load", func(t *testing.T) {
		m := newTestModel()
		m.view = ResultView
		m.err = errors.New("daemon gone")

		if !strings.Contains(m.View(), "Load failed") {
			t.Error("expected the failure banner")
		}
	})
}
