// Package tasks orchestrates queue and library operations against the music daemon with real-time progress reporting.
//
// # Core Operations
//
// The [QueueEngine] exposes five operations:
//
//  1. [QueueEngine.Refresh] : Synchronize the local queue mirror
//     - Compares the daemon's queue version against the last seen one
//     - Transfers only changed songs when possible, the whole queue otherwise
//     - Truncates songs the daemon removed from the tail
//
//  2. [QueueEngine.Load] : Load a stored playlist into the queue
//     - Optionally clears the queue first
//     - Resynchronizes the mirror afterwards
//
//  3. [QueueEngine.Diff] : Compare a stored playlist against the queue
//     - Matches songs via file path (preferred) or normalized title/artist
//     - Reports matched count, missing songs, and extra songs
//
//  4. [QueueEngine.Scan] : Walk the daemon's library into the local cache
//     - Breadth-first directory walk under a rate limit
//     - Worker pool persists discovered songs concurrently
//
//  5. [QueueEngine.BulkExport] : Export stored playlists to files
//     - Fetches playlists under a rate limit, formats them concurrently
//     - Writes a manifest summarizing successes and failures
//
// [QueueEngine.Watch] wraps Refresh in the daemon's idle loop, resynchronizing
// the mirror whenever the daemon reports a playlist or player change.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Queue Mirror
//
// The mirror distinguishes songs applied one at a time (reachable by daemon
// id and by position) from songs loaded in bulk (position only). [QueueEngine.Current]
// resolves the playing song through both paths.
//
// # Implementation
//
// [QueueEngine] depends on:
//   - [Client] : the daemon protocol client (mpd.Client)
//   - [SongCacher] : Optional persistence layer (repositories.SongCacheAdapter)
package tasks
