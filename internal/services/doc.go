// Package services wraps the two external collaborators of the sync pipeline: the playlist
// catalog ([PlaylistAPI], implemented by [SpotifyService]) and the video search index
// ([SearchIndex], implemented by [YouTubeService]).
//
// # Sessions
//
// No user state lives in a service. Callers pass a [Session] on every catalog call;
// [SpotifyService] refreshes expired tokens through the [oauth2.TokenSource] and writes the
// refreshed token back into the session.
//
// # Catalog
//
// [Catalog] pages through playlist items ([PageSize] per call) until a short page arrives.
// Items without a track object normalize to "unknown" by "unknown artist". Any failure,
// including a missing session, is reported as [shared.ErrCatalogUnavailable].
//
// # Resolver
//
// [Resolver] searches "<artist> <title> <suffix>" and keeps only the top result.
// Index failures are wrapped in [shared.ErrSearch] and are never fatal to a batch.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no usable token in the session
//   - [shared.ErrTokenExpired] : refresh failed or the API answered 401
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
package services
