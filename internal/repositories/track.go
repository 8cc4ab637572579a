package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

const trackColumns = `id, sequence, service, service_id, title, artist, album, cover_url, created_at, updated_at, deleted_at`

// TrackRepository implements models.Repository[*models.PersistedTrack] for the catalog metadata cache.
//
// Rows are unique on (service, service_id) and soft deleted.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	track.SetID(shared.GenerateID())
	track.SetSequence(sequence)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, service, service_id, title, artist, album, cover_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		track.ID(),
		track.Sequence(),
		track.Service(),
		track.ServiceID(),
		track.Title(),
		track.Artist(),
		track.Album(),
		track.CoverURL(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ? AND deleted_at IS NULL`
	return scanTrack(r.db.QueryRow(query, id))
}

// GetByServiceID retrieves a track by service and service_id
func (r *TrackRepository) GetByServiceID(service, serviceID string) (*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE service = ? AND service_id = ? AND deleted_at IS NULL`
	return scanTrack(r.db.QueryRow(query, service, serviceID))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, cover_url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Title(),
		track.Artist(),
		track.Album(),
		track.CoverURL(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	return expectOne(result, shared.ErrTrackNotFound, track.ID())
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	return expectOne(result, shared.ErrTrackNotFound, id)
}

// List retrieves all tracks matching the given criteria, excluding soft-deleted tracks.
//
// Supported criteria: "service", "artist" (exact match) and "limit".
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE deleted_at IS NULL`
	args := []any{}

	if service, ok := criteria["service"].(string); ok && service != "" {
		query += " AND service = ?"
		args = append(args, service)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// scanTrack scans a row or the current rows cursor into a [models.PersistedTrack]
func scanTrack(row scanner) (*models.PersistedTrack, error) {
	var (
		id        string
		sequence  int
		service   string
		serviceID string
		track     models.Track
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &service, &serviceID, &track.Title, &track.Artist, &track.Album, &track.CoverURL, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track.ID = serviceID
	persisted := models.NewPersistedTrack(sequence, service, serviceID, track)
	persisted.SetID(id)
	persisted.SetCreatedAt(createdAt)
	persisted.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		persisted.SetDeletedAt(&deletedAt.Time)
	}

	return persisted, nil
}
