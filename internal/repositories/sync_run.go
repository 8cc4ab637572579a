package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

const syncRunColumns = `
	id, sequence, playlist_id, playlist_name, status, tracks_total,
	tracks_downloaded, tracks_skipped, tracks_failed, error_message,
	started_at, completed_at, created_at, updated_at, deleted_at`

// SyncRunRepository implements models.Repository[*models.SyncRun] for sync history.
//
// It also satisfies tasks.RunRecorder.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SyncRunRepository with the given database connection
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

// Create inserts a new sync run with generated ID and sequence
func (r *SyncRunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_runs (
			id, sequence, playlist_id, playlist_name, status, tracks_total,
			tracks_downloaded, tracks_skipped, tracks_failed, error_message,
			started_at, completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence(),
		run.PlaylistID(),
		run.PlaylistName(),
		string(run.Status()),
		run.Total(),
		run.Downloaded(),
		run.Skipped(),
		run.Failed(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}

	return nil
}

// Get retrieves a sync run by ID, excluding soft-deleted runs
func (r *SyncRunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE id = ? AND deleted_at IS NULL`
	return scanSyncRun(r.db.QueryRow(query, id))
}

// Update stores the run's status, counts and timestamps
func (r *SyncRunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE sync_runs
		SET playlist_name = ?, status = ?, tracks_total = ?, tracks_downloaded = ?,
			tracks_skipped = ?, tracks_failed = ?, error_message = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.PlaylistName(),
		string(run.Status()),
		run.Total(),
		run.Downloaded(),
		run.Skipped(),
		run.Failed(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync run: %w", err)
	}

	return expectOne(result, shared.ErrSyncRunNotFound, run.ID())
}

// Delete soft-deletes a sync run by ID
func (r *SyncRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sync_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete sync run: %w", err)
	}

	return expectOne(result, shared.ErrSyncRunNotFound, id)
}

// List retrieves sync runs newest first.
//
// Supported criteria: "playlist_id", "status" and "limit".
func (r *SyncRunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + syncRunColumns + ` FROM sync_runs WHERE deleted_at IS NULL`
	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanSyncRun scans a row or the current rows cursor into a [models.SyncRun]
func scanSyncRun(row scanner) (*models.SyncRun, error) {
	var (
		id           string
		sequence     int
		playlistID   string
		playlistName string
		status       string
		total        int
		downloaded   int
		skipped      int
		failed       int
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &playlistID, &playlistName, &status, &total,
		&downloaded, &skipped, &failed, &errorMessage,
		&startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSyncRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}

	run := models.NewSyncRun(sequence, playlistID, playlistName)
	run.SetID(id)
	run.SetStatus(models.SyncStatus(status))
	run.SetCounts(total, downloaded, skipped, failed)
	run.SetError(errorMessage.String)
	run.SetTimes(nullTime(startedAt), nullTime(completedAt))
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
