package ui

import (
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/tasks"
)

// playlistsFetchedMsg carries the daemon's stored playlists, or the error
// that prevented listing them.
type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

// songsFetchedMsg carries a stored playlist's songs for the preview view.
type songsFetchedMsg struct {
	export *models.PlaylistExport
	err    error
}

// progressMsg is one [tasks.ProgressUpdate] pumped off the engine's channel.
type progressMsg tasks.ProgressUpdate

// loadDoneMsg reports the finished load with the engine's result.
type loadDoneMsg struct {
	result *tasks.LoadResult
	err    error
}
