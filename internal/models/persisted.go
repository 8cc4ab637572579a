package models

import (
	"fmt"
	"time"
)

// base carries the identity and timestamps shared by persisted entities.
type base struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newBase(sequence int) base {
	now := time.Now()
	return base{sequence: sequence, createdAt: now, updatedAt: now}
}

func (b *base) ID() string                { return b.id }
func (b *base) Sequence() int             { return b.sequence }
func (b *base) CreatedAt() time.Time      { return b.createdAt }
func (b *base) UpdatedAt() time.Time      { return b.updatedAt }
func (b *base) DeletedAt() *time.Time     { return b.deletedAt }
func (b *base) SetID(id string)           { b.id = id }
func (b *base) SetSequence(seq int)       { b.sequence = seq }
func (b *base) SetCreatedAt(t time.Time)  { b.createdAt = t }
func (b *base) SetUpdatedAt(t time.Time)  { b.updatedAt = t }
func (b *base) SetDeletedAt(t *time.Time) { b.deletedAt = t }
func (b *base) IsDeleted() bool           { return b.deletedAt != nil }

// PersistedTrack is a cached catalog track keyed by (service, service_id).
type PersistedTrack struct {
	base
	service   string
	serviceID string
	track     Track
}

var _ Model = (*PersistedTrack)(nil)

// NewPersistedTrack wraps track for storage.
func NewPersistedTrack(sequence int, service, serviceID string, track Track) *PersistedTrack {
	return &PersistedTrack{base: newBase(sequence), service: service, serviceID: serviceID, track: track}
}

func (p *PersistedTrack) Service() string   { return p.service }
func (p *PersistedTrack) ServiceID() string { return p.serviceID }
func (p *PersistedTrack) Title() string     { return p.track.Title }
func (p *PersistedTrack) Artist() string    { return p.track.Artist }
func (p *PersistedTrack) Album() string     { return p.track.Album }
func (p *PersistedTrack) CoverURL() string  { return p.track.CoverURL }
func (p *PersistedTrack) Track() Track      { return p.track }

// Validate checks required fields.
func (p *PersistedTrack) Validate() error {
	switch {
	case p.id == "":
		return fmt.Errorf("track id is required")
	case p.service == "":
		return fmt.Errorf("track service is required")
	case p.serviceID == "":
		return fmt.Errorf("track service_id is required")
	case p.track.Title == "":
		return fmt.Errorf("track title is required")
	}
	return nil
}

// SyncStatus is the lifecycle state of a [SyncRun].
type SyncStatus string

const (
	SyncPending   SyncStatus = "pending"
	SyncRunning   SyncStatus = "running"
	SyncCompleted SyncStatus = "completed"
	SyncFailed    SyncStatus = "failed"
	SyncCancelled SyncStatus = "cancelled"
)

func (s SyncStatus) valid() bool {
	switch s {
	case SyncPending, SyncRunning, SyncCompleted, SyncFailed, SyncCancelled:
		return true
	}
	return false
}

// SyncRun records one playlist sync and its outcome counts.
type SyncRun struct {
	base
	playlistID   string
	playlistName string
	status       SyncStatus
	total        int
	downloaded   int
	skipped      int
	failed       int
	errorMessage string
	startedAt    *time.Time
	completedAt  *time.Time
}

var _ Model = (*SyncRun)(nil)

// NewSyncRun creates a pending run for a playlist.
func NewSyncRun(sequence int, playlistID, playlistName string) *SyncRun {
	return &SyncRun{base: newBase(sequence), playlistID: playlistID, playlistName: playlistName, status: SyncPending}
}

func (r *SyncRun) PlaylistID() string       { return r.playlistID }
func (r *SyncRun) PlaylistName() string     { return r.playlistName }
func (r *SyncRun) Status() SyncStatus       { return r.status }
func (r *SyncRun) Total() int               { return r.total }
func (r *SyncRun) Downloaded() int          { return r.downloaded }
func (r *SyncRun) Skipped() int             { return r.skipped }
func (r *SyncRun) Failed() int              { return r.failed }
func (r *SyncRun) ErrorMessage() string     { return r.errorMessage }
func (r *SyncRun) StartedAt() *time.Time    { return r.startedAt }
func (r *SyncRun) CompletedAt() *time.Time  { return r.completedAt }
func (r *SyncRun) SetPlaylistName(n string) { r.playlistName = n }
func (r *SyncRun) SetStatus(s SyncStatus)   { r.status = s }
func (r *SyncRun) SetError(msg string)      { r.errorMessage = msg }

// SetCounts records the per-status totals.
func (r *SyncRun) SetCounts(total, downloaded, skipped, failed int) {
	r.total, r.downloaded, r.skipped, r.failed = total, downloaded, skipped, failed
}

// SetTimes sets the start and completion timestamps; either may be nil.
func (r *SyncRun) SetTimes(started, completed *time.Time) {
	r.startedAt, r.completedAt = started, completed
}

// Start marks the run as running.
func (r *SyncRun) Start(at time.Time) {
	r.status = SyncRunning
	r.startedAt = &at
}

// Finish moves the run into a terminal status.
func (r *SyncRun) Finish(status SyncStatus, at time.Time) {
	r.status = status
	r.completedAt = &at
}

// Validate checks required fields and count consistency.
func (r *SyncRun) Validate() error {
	switch {
	case r.id == "":
		return fmt.Errorf("sync run id is required")
	case r.playlistID == "":
		return fmt.Errorf("sync run playlist_id is required")
	case !r.status.valid():
		return fmt.Errorf("invalid sync run status: %q", r.status)
	case r.downloaded+r.skipped+r.failed > r.total:
		return fmt.Errorf("sync run counts exceed total (%d+%d+%d > %d)", r.downloaded, r.skipped, r.failed, r.total)
	}
	return nil
}
