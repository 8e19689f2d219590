package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.playlist.SongCount)
	if !i.playlist.LastModified.IsZero() {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.LastModified.Format("2006-01-02"))
	}
	return desc
}

// songItem wraps a [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.DisplayTitle() }
func (i songItem) Title() string       { return i.song.DisplayTitle() }
func (i songItem) Description() string {
	desc := i.song.DisplayArtist()
	if i.song.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Album)
	}
	if i.song.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.song.Duration))
	}
	return desc
}
