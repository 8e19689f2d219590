// Package models defines domain entities and persistence interfaces for the dmix music daemon client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs decoded from daemon responses
//   - [Song] : A database or queue entry with its tags
//   - [Status] : The daemon's player and queue state
//   - [Stats] : Library-wide counters
//   - [Playlist] : Stored playlist metadata
//   - [PlaylistExport] : Playlist with complete song listing
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [PersistedSong] : Library songs cached locally for offline search
//   - [PersistedPlaylist] : Stored playlists seen on the daemon
//   - [ScanJob] : Library scan operations tracking progress and results
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
