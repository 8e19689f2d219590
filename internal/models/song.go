package models

import (
	"path"
	"strings"
	"time"
)

// Song is a single entry from the daemon's database or queue.
//
// Queue entries carry Pos and ID assigned by the daemon; database entries
// leave both at -1. Tags beyond title and artist are best effort, untagged
// files only have File set.
type Song struct {
	ID           int       `json:"id"`
	Pos          int       `json:"pos"`
	File         string    `json:"file"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	Album        string    `json:"album,omitempty"`
	AlbumArtist  string    `json:"album_artist,omitempty"`
	Track        int       `json:"track,omitempty"`
	Genre        string    `json:"genre,omitempty"`
	Date         string    `json:"date,omitempty"`
	Duration     int       `json:"duration"`
	LastModified time.Time `json:"last_modified"`
}

// DisplayTitle returns the song title, falling back to the file name without
// its extension for untagged entries.
func (s *Song) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	base := path.Base(s.File)
	return strings.TrimSuffix(base, path.Ext(base))
}

// DisplayArtist returns the artist, falling back to the album artist.
func (s *Song) DisplayArtist() string {
	if s.Artist != "" {
		return s.Artist
	}
	if s.AlbumArtist != "" {
		return s.AlbumArtist
	}
	return "Unknown Artist"
}

// Status reports the daemon's player and queue state as returned by the
// status command. Song and SongID are -1 when nothing is selected.
type Status struct {
	State        string  `json:"state"`
	Volume       int     `json:"volume"`
	Repeat       bool    `json:"repeat"`
	Random       bool    `json:"random"`
	Single       bool    `json:"single"`
	Consume      bool    `json:"consume"`
	QueueVersion int64   `json:"queue_version"`
	QueueLength  int     `json:"queue_length"`
	Song         int     `json:"song"`
	SongID       int     `json:"song_id"`
	NextSong     int     `json:"next_song"`
	NextSongID   int     `json:"next_song_id"`
	Elapsed      float64 `json:"elapsed"`
	Duration     float64 `json:"duration"`
	Bitrate      int     `json:"bitrate,omitempty"`
	Audio        string  `json:"audio,omitempty"`
	UpdatingDB   int     `json:"updating_db,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Playing reports whether the daemon is actively playing.
func (st *Status) Playing() bool {
	return st.State == "play"
}

// Stats holds library-wide counters from the stats command.
type Stats struct {
	Artists    int       `json:"artists"`
	Albums     int       `json:"albums"`
	Songs      int       `json:"songs"`
	Uptime     int64     `json:"uptime"`
	PlayTime   int64     `json:"playtime"`
	DBPlayTime int64     `json:"db_playtime"`
	DBUpdate   time.Time `json:"db_update"`
}

// Playlist is a stored playlist on the daemon.
type Playlist struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	SongCount    int       `json:"song_count"`
}

// PlaylistExport packages a stored playlist with its complete song listing
// for export to a file.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Songs    []*Song  `json:"songs"`
}
