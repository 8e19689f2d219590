package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist]
// for stored playlists seen on the daemon.
//
// Handles playlist CRUD operations with soft delete support and name lookups,
// since the daemon addresses stored playlists by name.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO playlists (id, sequence, name, song_count, last_modified, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.Name(),
		playlist.SongCount(),
		playlist.LastModified(),
		playlist.SyncedAt(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := selectPlaylists + " WHERE id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, id))
}

// GetByName retrieves a playlist by its daemon name
func (r *PlaylistRepository) GetByName(name string) (*models.PersistedPlaylist, error) {
	query := selectPlaylists + " WHERE name = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, name))
}

// Update modifies an existing playlist in the database
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET name = ?, song_count = ?, last_modified = ?, synced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name(),
		playlist.SongCount(),
		playlist.LastModified(),
		playlist.SyncedAt(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all playlists matching the given criteria, excluding soft-deleted playlists
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := selectPlaylists + " WHERE deleted_at IS NULL"
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Sync upserts the playlist listing fetched from the daemon and stamps each
// entry's synced_at. Entries already cached keep their identity; new names
// are created.
func (r *PlaylistRepository) Sync(playlists []models.Playlist) error {
	now := time.Now()

	for _, dto := range playlists {
		existing, err := r.GetByName(dto.Name)
		switch {
		case errors.Is(err, shared.ErrPlaylistNotFound):
			persisted := models.NewPersistedPlaylist(0, dto)
			persisted.SetSyncedAt(&now)
			if err := r.Create(persisted); err != nil {
				return fmt.Errorf("failed to sync playlist %q: %w", dto.Name, err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up playlist %q: %w", dto.Name, err)
		default:
			existing.SetPlaylist(dto)
			existing.SetSyncedAt(&now)
			if err := r.Update(existing); err != nil {
				return fmt.Errorf("failed to sync playlist %q: %w", dto.Name, err)
			}
		}
	}

	return nil
}

const selectPlaylists = `
	SELECT id, sequence, name, song_count, last_modified, synced_at, created_at, updated_at, deleted_at
	FROM playlists
`

// scan reads one row into a [models.PersistedPlaylist].
func (r *PlaylistRepository) scan(row rowScanner) (*models.PersistedPlaylist, error) {
	var (
		id           string
		sequence     int
		name         string
		songCount    int
		lastModified sql.NullTime
		syncedAt     sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &songCount, &lastModified, &syncedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	dto := models.Playlist{Name: name, SongCount: songCount}
	if lastModified.Valid {
		dto.LastModified = lastModified.Time
	}

	playlist := models.NewPersistedPlaylist(sequence, dto)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if syncedAt.Valid {
		playlist.SetSyncedAt(&syncedAt.Time)
	}
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
