package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// SongRepository implements models.Repository[*models.PersistedSong] for the
// local library cache.
//
// Songs are keyed by daemon file path (UNIQUE) and soft deleted, so entries
// that disappear from the daemon's database stay queryable in history.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.PersistedSong] into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO songs (id, sequence, file, title, artist, album, album_artist, track, genre, date, duration, last_modified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.File(),
		song.Title(),
		song.Artist(),
		song.Album(),
		song.AlbumArtist(),
		song.Track(),
		song.Genre(),
		song.Date(),
		song.Duration(),
		song.LastModified(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := selectSongs + " WHERE id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, id))
}

// GetByFile retrieves a song by its daemon file path
func (r *SongRepository) GetByFile(file string) (*models.PersistedSong, error) {
	query := selectSongs + " WHERE file = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, file))
}

// Search finds cached songs whose title, artist, album or file path contain
// the query, ordered for browsing (artist, album, track).
func (r *SongRepository) Search(query string, limit int) ([]*models.PersistedSong, error) {
	if limit <= 0 {
		limit = 50
	}

	sqlQuery := selectSongs + `
		WHERE deleted_at IS NULL
		AND (title LIKE ? OR artist LIKE ? OR album LIKE ? OR file LIKE ?)
		ORDER BY artist, album, track
		LIMIT ?
	`

	pattern := "%" + query + "%"
	rows, err := r.db.Query(sqlQuery, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Update modifies an existing song's tags in the database
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, album_artist = ?, track = ?, genre = ?, date = ?, duration = ?, last_modified = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title(),
		song.Artist(),
		song.Album(),
		song.AlbumArtist(),
		song.Track(),
		song.Genre(),
		song.Date(),
		song.Duration(),
		song.LastModified(),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all songs matching the given criteria, excluding soft-deleted songs
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := selectSongs + " WHERE deleted_at IS NULL"
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if album, ok := criteria["album"].(string); ok && album != "" {
		query += " AND album = ?"
		args = append(args, album)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Count returns the number of cached songs, excluding soft-deleted entries.
func (r *SongRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM songs WHERE deleted_at IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

const selectSongs = `
	SELECT id, sequence, file, title, artist, album, album_artist, track, genre, date, duration, last_modified, created_at, updated_at, deleted_at
	FROM songs
`

// scan reads one row into a [models.PersistedSong].
func (r *SongRepository) scan(row rowScanner) (*models.PersistedSong, error) {
	var (
		id           string
		sequence     int
		file         string
		title        string
		artist       string
		album        string
		albumArtist  string
		track        int
		genre        string
		date         string
		duration     int
		lastModified sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &file, &title, &artist, &album, &albumArtist, &track, &genre, &date, &duration, &lastModified, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	dto := models.Song{
		ID:          -1,
		Pos:         -1,
		File:        file,
		Title:       title,
		Artist:      artist,
		Album:       album,
		AlbumArtist: albumArtist,
		Track:       track,
		Genre:       genre,
		Date:        date,
		Duration:    duration,
	}
	if lastModified.Valid {
		dto.LastModified = lastModified.Time
	}

	song := models.NewPersistedSong(sequence, dto)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}

// collect drains rows into songs.
func (r *SongRepository) collect(rows *sql.Rows) ([]*models.PersistedSong, error) {
	var songs []*models.PersistedSong
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}
