// Package repositories implements SQLite persistence for cached catalog tracks and sync history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TrackRepository] : catalog track metadata keyed by service and service id
//   - [TrackCacheAdapter] : the sync engine's track cacher, backed by [TrackRepository]
//   - [SyncRunRepository] : one row per playlist sync with its outcome counts
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
