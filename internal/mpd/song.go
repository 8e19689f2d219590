package mpd

import (
	"strconv"
	"time"

	"github.com/theirix/dmix/internal/models"
)

// songsFromPairs splits a response into song blocks, one per "file" key, and
// decodes the tags of each block. Pairs before the first "file" line are
// ignored.
func songsFromPairs(pairs []pair) []*models.Song {
	var songs []*models.Song
	var cur *models.Song

	for _, p := range pairs {
		if p.key == "file" {
			cur = &models.Song{File: p.value, ID: -1, Pos: -1}
			songs = append(songs, cur)
			continue
		}
		// directory and playlist blocks in lsinfo output end the current song
		if p.key == "directory" || p.key == "playlist" {
			cur = nil
			continue
		}
		if cur == nil {
			continue
		}

		switch p.key {
		case "Title":
			cur.Title = p.value
		case "Artist":
			cur.Artist = p.value
		case "Album":
			cur.Album = p.value
		case "AlbumArtist":
			cur.AlbumArtist = p.value
		case "Track":
			cur.Track = atoiPrefix(p.value, 0)
		case "Genre":
			cur.Genre = p.value
		case "Date":
			cur.Date = p.value
		case "Time":
			// integer seconds; the float duration field wins when both appear
			if cur.Duration == 0 {
				cur.Duration = atoi(p.value, 0)
			}
		case "duration":
			if f, err := strconv.ParseFloat(p.value, 64); err == nil {
				cur.Duration = int(f + 0.5)
			}
		case "Pos":
			cur.Pos = atoi(p.value, -1)
		case "Id":
			cur.ID = atoi(p.value, -1)
		case "Last-Modified":
			if t, err := time.Parse(time.RFC3339, p.value); err == nil {
				cur.LastModified = t
			}
		}
	}

	return songs
}

// statusFromPairs decodes a status response. Missing song positions and ids
// default to -1, matching the daemon's "nothing selected" convention.
func statusFromPairs(pairs []pair) *models.Status {
	st := &models.Status{Song: -1, SongID: -1, NextSong: -1, NextSongID: -1}

	for _, p := range pairs {
		switch p.key {
		case "state":
			st.State = p.value
		case "volume":
			st.Volume = atoi(p.value, -1)
		case "repeat":
			st.Repeat = parseBool(p.value)
		case "random":
			st.Random = parseBool(p.value)
		case "single":
			st.Single = parseBool(p.value)
		case "consume":
			st.Consume = parseBool(p.value)
		case "playlist":
			if v, err := strconv.ParseInt(p.value, 10, 64); err == nil {
				st.QueueVersion = v
			}
		case "playlistlength":
			st.QueueLength = atoi(p.value, 0)
		case "song":
			st.Song = atoi(p.value, -1)
		case "songid":
			st.SongID = atoi(p.value, -1)
		case "nextsong":
			st.NextSong = atoi(p.value, -1)
		case "nextsongid":
			st.NextSongID = atoi(p.value, -1)
		case "elapsed":
			if f, err := strconv.ParseFloat(p.value, 64); err == nil {
				st.Elapsed = f
			}
		case "duration":
			if f, err := strconv.ParseFloat(p.value, 64); err == nil {
				st.Duration = f
			}
		case "bitrate":
			st.Bitrate = atoi(p.value, 0)
		case "audio":
			st.Audio = p.value
		case "updating_db":
			st.UpdatingDB = atoi(p.value, 0)
		case "error":
			st.Error = p.value
		}
	}

	return st
}

// statsFromPairs decodes a stats response.
func statsFromPairs(pairs []pair) *models.Stats {
	stats := &models.Stats{}

	for _, p := range pairs {
		switch p.key {
		case "artists":
			stats.Artists = atoi(p.value, 0)
		case "albums":
			stats.Albums = atoi(p.value, 0)
		case "songs":
			stats.Songs = atoi(p.value, 0)
		case "uptime":
			if v, err := strconv.ParseInt(p.value, 10, 64); err == nil {
				stats.Uptime = v
			}
		case "playtime":
			if v, err := strconv.ParseInt(p.value, 10, 64); err == nil {
				stats.PlayTime = v
			}
		case "db_playtime":
			if v, err := strconv.ParseInt(p.value, 10, 64); err == nil {
				stats.DBPlayTime = v
			}
		case "db_update":
			if v, err := strconv.ParseInt(p.value, 10, 64); err == nil {
				stats.DBUpdate = time.Unix(v, 0).UTC()
			}
		}
	}

	return stats
}

// playlistsFromPairs splits a listplaylists response into stored playlists,
// one per "playlist" key.
func playlistsFromPairs(pairs []pair) []models.Playlist {
	var playlists []models.Playlist

	for _, p := range pairs {
		switch p.key {
		case "playlist":
			playlists = append(playlists, models.Playlist{Name: p.value})
		case "Last-Modified":
			if len(playlists) == 0 {
				continue
			}
			if t, err := time.Parse(time.RFC3339, p.value); err == nil {
				playlists[len(playlists)-1].LastModified = t
			}
		}
	}

	return playlists
}

// listInfoFromPairs splits an lsinfo response into subdirectories and songs.
func listInfoFromPairs(pairs []pair) ([]string, []*models.Song) {
	var dirs []string
	for _, p := range pairs {
		if p.key == "directory" {
			dirs = append(dirs, p.value)
		}
	}
	return dirs, songsFromPairs(pairs)
}
