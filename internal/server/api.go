package server

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"golang.org/x/oauth2"
)

const maxRequestBody = 1 << 20

// Syncer runs playlist syncs and single downloads. Implemented by [tasks.SyncEngine].
type Syncer interface {
	Stream(ctx context.Context, sess *services.Session, playlistID string) (*tasks.Run, error)
	Inventory(ctx context.Context, sess *services.Session, playlistID string) (*models.Playlist, []models.InventoryItem, error)
	DownloadSingle(ctx context.Context, sess *services.Session, req tasks.SingleRequest) (*tasks.SingleResult, error)
}

// PlaylistLister lists the session user's playlists. Implemented by [services.Catalog].
type PlaylistLister interface {
	UserPlaylists(ctx context.Context, sess *services.Session) ([]models.Playlist, error)
}

// Authenticator drives the OAuth2 authorization code flow. Implemented by [services.SpotifyService].
type Authenticator interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// APIConfig holds the collaborators of [API].
type APIConfig struct {
	Syncer       Syncer
	Playlists    PlaylistLister
	Index        services.SearchIndex
	Auth         Authenticator
	Sessions     *SessionStore
	FrontendURL  string
	SecureCookie bool
	Logger       *log.Logger
}

// API serves the web endpoints of the sync service.
type API struct {
	syncer       Syncer
	playlists    PlaylistLister
	index        services.SearchIndex
	auth         Authenticator
	sessions     *SessionStore
	frontendURL  string
	secureCookie bool
	logger       *log.Logger
}

type playlistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type videoResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// NewAPI creates an API. A nil session store gets a fresh in-memory one.
func NewAPI(cfg APIConfig) *API {
	a := &API{
		syncer:       cfg.Syncer,
		playlists:    cfg.Playlists,
		index:        cfg.Index,
		auth:         cfg.Auth,
		sessions:     cfg.Sessions,
		frontendURL:  strings.TrimRight(cfg.FrontendURL, "/"),
		secureCookie: cfg.SecureCookie,
		logger:       cfg.Logger,
	}
	if a.sessions == nil {
		a.sessions = NewSessionStore()
	}
	if a.logger == nil {
		a.logger = shared.NewLogger(nil)
	}
	return a
}

// Sessions returns the store used by the API, for [LoadSession].
func (a *API) Sessions() *SessionStore {
	return a.sessions
}

// Register adds every route to r.
func (a *API) Register(r Router) {
	routes := []struct {
		method, path string
		handler      http.HandlerFunc
	}{
		{http.MethodGet, "/health", a.health},
		{http.MethodGet, "/login", a.login},
		{http.MethodGet, "/callback", a.callback},
		{http.MethodGet, "/playlists", a.listPlaylists},
		{http.MethodGet, "/playlists/{id}/tracks", a.listTracks},
		{http.MethodGet, "/playlists/{id}/download-all-stream", a.streamPlaylist},
		{http.MethodGet, "/youtube/search", a.searchVideo},
		{http.MethodPost, "/youtube/download-audio", a.downloadAudio},
	}
	for _, route := range routes {
		r.Handle(route.method, route.path, route.handler)
	}
}

// NewRouter builds the service router with logging, recovery, CORS and session middleware.
func NewRouter(api *API, allowedOrigins []string) *BasicRouter {
	router := NewBasicRouter()
	router.Use(
		RequestLogger(api.logger),
		Recoverer(api.logger),
		CORS(allowedOrigins),
		LoadSession(api.sessions),
	)
	api.Register(router)
	return router
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	if a.auth == nil {
		writeError(w, http.StatusServiceUnavailable, shared.ErrMissingCredentials)
		return
	}

	state, err := shared.GenerateState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	a.sessions.RememberState(state)
	http.Redirect(w, r, a.auth.GetAuthURL(state), http.StatusFound)
}

func (a *API) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if a.auth == nil || !a.sessions.ConsumeState(q.Get("state")) {
		a.logger.Warn("rejected oauth callback", "reason", "unknown state")
		a.redirectLogin(w, r, false)
		return
	}

	code := q.Get("code")
	if code == "" {
		a.logger.Warn("rejected oauth callback", "error", q.Get("error"), "description", q.Get("error_description"))
		a.redirectLogin(w, r, false)
		return
	}

	token, err := a.auth.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		a.redirectLogin(w, r, false)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    a.sessions.Create(token),
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	a.redirectLogin(w, r, true)
}

func (a *API) redirectLogin(w http.ResponseWriter, r *http.Request, ok bool) {
	result := "fail"
	if ok {
		result = "success"
	}
	http.Redirect(w, r, a.frontendURL+"/home?login="+result, http.StatusFound)
}

func (a *API) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.playlists.UserPlaylists(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	out := make([]playlistSummary, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, playlistSummary{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) listTracks(w http.ResponseWriter, r *http.Request) {
	_, items, err := a.syncer.Inventory(r.Context(), SessionFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// streamPlaylist syncs a playlist and streams one record per track, then {"done":true}.
//
// A catalog failure yields a single {"error"} record and no done record. The sync stops
// when the client disconnects.
func (a *API) streamPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out := newRecordWriter(w)
	playlistID := r.PathValue("id")
	logger := a.logger.With("playlist_id", playlistID)

	run, err := a.syncer.Stream(ctx, SessionFrom(ctx), playlistID)
	if err != nil {
		logger.Error("sync aborted", "error", err)
		out.start(streamStatus(err))
		_ = out.write(errorBody{Error: err.Error()})
		return
	}

	out.start(http.StatusOK)
	for ev := range run.Events() {
		if err := out.write(ev); err != nil {
			logger.Warn("client went away", "error", err)
			return
		}
	}
}

func (a *API) searchVideo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: query", shared.ErrMissingArgument))
		return
	}

	full := strings.TrimSpace(query + " " + strings.TrimSpace(q.Get("author")))
	results, err := a.index.Search(r.Context(), full, 1)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if len(results) == 0 {
		writeJSON(w, http.StatusOK, videoResult{Title: "Not Found", URL: "No video found"})
		return
	}
	writeJSON(w, http.StatusOK, videoResult{Title: results[0].Title, URL: results[0].Link})
}

func (a *API) downloadAudio(w http.ResponseWriter, r *http.Request) {
	var req tasks.SingleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	res, err := a.syncer.DownloadSingle(r.Context(), SessionFrom(r.Context()), req)
	if err != nil {
		a.logger.Error("single download failed", "url", req.URL, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	f, err := os.Open(res.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	http.ServeContent(w, r, res.Filename, info.ModTime(), f)
}
