package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/theirix/dmix/internal/models"
	"github.com/theirix/dmix/internal/shared"
)

// ScanRepository implements models.Repository[*models.ScanJob] for library
// scan history.
//
// Jobs move through pending, running and completed or failed; Update persists
// each transition so an interrupted scan stays visible.
type ScanRepository struct {
	db *sql.DB
}

// NewScanRepository creates a new ScanRepository with the given database connection
func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create inserts a new [models.ScanJob] into the database with generated ID and sequence
func (r *ScanRepository) Create(job *models.ScanJob) error {
	sequence, err := NextSequence(r.db, "scans")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	job.SetID(id)

	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO scans (id, sequence, uri, status, songs_seen, songs_cached, songs_failed, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		job.URI(),
		job.Status(),
		job.SongsSeen(),
		job.SongsCached(),
		job.SongsFailed(),
		job.ErrorMessage(),
		job.StartedAt(),
		job.CompletedAt(),
		job.CreatedAt(),
		job.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}

	return nil
}

// Get retrieves a scan job by ID, excluding soft-deleted jobs
func (r *ScanRepository) Get(id string) (*models.ScanJob, error) {
	query := selectScans + " WHERE id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, id))
}

// Latest retrieves the most recently created scan job
func (r *ScanRepository) Latest() (*models.ScanJob, error) {
	query := selectScans + " WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1"
	return r.scan(r.db.QueryRow(query))
}

// Update persists a job's current state
func (r *ScanRepository) Update(job *models.ScanJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	job.SetUpdatedAt(now)

	query := `
		UPDATE scans
		SET status = ?, songs_seen = ?, songs_cached = ?, songs_failed = ?, error_message = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		job.Status(),
		job.SongsSeen(),
		job.SongsCached(),
		job.SongsFailed(),
		job.ErrorMessage(),
		job.StartedAt(),
		job.CompletedAt(),
		now,
		job.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update scan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan not found or already deleted: %s", job.ID())
	}

	return nil
}

// Delete soft-deletes a scan job by ID
func (r *ScanRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE scans
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scan not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all scan jobs matching the given criteria, newest first
func (r *ScanRepository) List(criteria map[string]any) ([]*models.ScanJob, error) {
	query := selectScans + " WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var jobs []*models.ScanJob
	for rows.Next() {
		job, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return jobs, nil
}

const selectScans = `
	SELECT id, sequence, uri, status, songs_seen, songs_cached, songs_failed, error_message, started_at, completed_at, created_at, updated_at, deleted_at
	FROM scans
`

// scan reads one row into a [models.ScanJob].
func (r *ScanRepository) scan(row rowScanner) (*models.ScanJob, error) {
	var (
		id           string
		sequence     int
		uri          string
		status       string
		songsSeen    int
		songsCached  int
		songsFailed  int
		errorMessage string
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &uri, &status, &songsSeen, &songsCached, &songsFailed, &errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan scan job: %w", err)
	}

	job := models.NewScanJob(sequence, uri)
	job.SetID(id)
	job.SetCreatedAt(createdAt)
	job.SetUpdatedAt(updatedAt)

	var started, completed *time.Time
	if startedAt.Valid {
		started = &startedAt.Time
	}
	if completedAt.Valid {
		completed = &completedAt.Time
	}
	job.Restore(status, songsSeen, songsCached, songsFailed, errorMessage, started, completed)

	if deletedAt.Valid {
		job.SetDeletedAt(&deletedAt.Time)
	}

	return job, nil
}
