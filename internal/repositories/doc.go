// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SongRepository] : Song metadata caching with file path lookups and tag search
//   - [PlaylistRepository] : Stored playlist mirroring with name-based lookups
//   - [ScanRepository] : Library scan history with status tracking
//   - [SongCacheAdapter] : Deduplicating cache front for library scans
//
// Sequence numbers provide stable, human-readable ordering (e.g., song #42, scan #3) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
