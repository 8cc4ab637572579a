// Package tasks runs playlist syncs.
//
// # Sync
//
// [SyncEngine.Stream] reads a playlist from the catalog, then walks its tracks one at a time:
//
//  1. skipped when the target file already exists (no network calls)
//  2. resolved to a single video through the [Resolver]
//  3. fetched and transcoded by the [Fetcher]
//  4. tagged on a best-effort basis (basic tags, then cover art)
//
// Each track yields exactly one [Event] on the run's channel, followed by a single
// completion record. Sends block until the consumer receives them, so events are never
// dropped; cancelling the context stops the run without a completion record.
//
// # Track Caching
//
// The optional [TrackCacher] stores catalog tracks seen during a sync. Errors are logged and ignored,
// and the cache is never consulted when deciding whether to skip a track.
//
// # Run History
//
// The optional [RunRecorder] persists one [models.SyncRun] per stream with its final counts.
//
// # Singles
//
// [SyncEngine.DownloadSingle] fetches one video outside of a playlist, optionally enriching
// its tags through a [TrackSearcher]. [SyncEngine.Inventory] reports which playlist tracks are on disk.
package tasks
