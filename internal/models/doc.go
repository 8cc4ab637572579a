// Package models defines domain entities and persistence interfaces for tapedeck.
//
// The package contains two categories of types:
//
// 1. Value types passed through the sync pipeline
//   - [Playlist] : playlist metadata from the catalog
//   - [Track] : normalized playlist entry (title, artist, album, cover URL)
//   - [Candidate] : best search hit for a track
//   - [Target] : deterministic on-disk path for a track's audio file
//
// 2. Persistent entities implementing [Model]
//   - [PersistedTrack] : cached catalog metadata, unique per service + service_id
//   - [SyncRun] : history of playlist syncs with per-status counts
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
