// Package server provides HTTP routing, middleware, and the web API of the sync service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /playlists/{id}/tracks")
// and wraps the whole mux with its middleware stack.
//
// # Web API
//
// [API] serves the browser-facing endpoints:
//
//	GET  /health
//	GET  /login                                 → redirect to the Spotify authorize URL
//	GET  /callback                              → store session, redirect to the frontend
//	GET  /playlists                             → [{"id","name"}]
//	GET  /playlists/{id}/tracks                 → [{"name","artist","downloaded"}]
//	GET  /playlists/{id}/download-all-stream    → NDJSON progress records
//	GET  /youtube/search?query=&author=         → {"title","url"}
//	POST /youtube/download-audio                → audio/mpeg attachment
//
// Sessions live in a [SessionStore] keyed by an HttpOnly cookie; [LoadSession] puts the
// request's session into its context.
//
// # Progress Streaming
//
// The download stream writes one JSON record per track and flushes after each one. The final record
// is {"done":true}. When the catalog cannot be read the response is a single {"error"} record with
// status 401 (no session) or 502. Disconnecting cancels the request context, which stops the sync.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the one-shot callback used by the CLI login flow: it validates the state
// parameter, exchanges the code, and sends the result through a channel. Only one callback is processed.
package server
