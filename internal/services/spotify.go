// Spotify Web API implementation of [PlaylistAPI]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultRedirectURI = "http://127.0.0.1:3000/callback"
	unknownTitle       = "unknown"
	unknownArtist      = "unknown artist"
)

// SpotifyImage represents an image resource. Spotify lists the widest image first.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for local files and tracks removed from the catalog.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Tracks simplePlaylistTrack `json:"tracks"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyPaginatedPlaylistTracks represents one page of playlist items.
type SpotifyPaginatedPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements [PlaylistAPI] and the OAuth2 code flow for the Spotify Web API.
//
// It holds no user state: every call takes the [Session] to act for.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	baseURL    string
}

var _ PlaylistAPI = (*SpotifyService)(nil)

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithSpotifyBaseURL points API calls at baseURL instead of api.spotify.com.
func WithSpotifyBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = baseURL }
}

// WithSpotifyTokenURL overrides the token endpoint used for exchange and refresh.
func WithSpotifyTokenURL(tokenURL string) SpotifyOption {
	return func(s *SpotifyService) { s.config.Endpoint.TokenURL = tokenURL }
}

// WithSpotifyHTTPClient sets the client used for API and token requests.
func WithSpotifyHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = client }
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"playlist-read-private", "playlist-read-collaborative"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    spotifyBaseURL,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// accessToken returns a usable access token for sess, refreshing it through the
// token endpoint when it has expired and writing the refreshed token back.
func (s *SpotifyService) accessToken(ctx context.Context, sess *Session) (string, error) {
	if !sess.Valid() {
		return "", shared.ErrNotAuthenticated
	}

	current := sess.Token()
	token, err := s.config.TokenSource(s.oauthContext(ctx), current).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}

	if token.AccessToken != current.AccessToken {
		sess.SetToken(token)
	}
	return token.AccessToken, nil
}

// doRequest performs an authenticated GET against the Spotify API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, sess *Session, endpoint string, query url.Values, result any) error {
	accessToken, err := s.accessToken(ctx, sess)
	if err != nil {
		return err
	}

	apiURL := s.baseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API returned 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// Playlist retrieves playlist metadata by ID.
func (s *SpotifyService) Playlist(ctx context.Context, sess *Session, playlistID string) (*models.Playlist, error) {
	var sp SpotifySimplePlaylist
	query := url.Values{"fields": {"id,name,tracks.total"}}
	if err := s.doRequest(ctx, sess, "/playlists/"+url.PathEscape(playlistID), query, &sp); err != nil {
		return nil, err
	}

	return &models.Playlist{ID: sp.ID, Name: sp.Name, TrackCount: sp.Tracks.Total}, nil
}

// PlaylistTracks retrieves one page of a playlist's tracks, normalized.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, sess *Session, playlistID string, limit, offset int) ([]models.Track, error) {
	query := url.Values{
		"limit":  {fmt.Sprint(limit)},
		"offset": {fmt.Sprint(offset)},
	}

	var page SpotifyPaginatedPlaylistTracks
	if err := s.doRequest(ctx, sess, "/playlists/"+url.PathEscape(playlistID)+"/tracks", query, &page); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, NormalizeTrack(item.Track))
	}
	return tracks, nil
}

// UserPlaylists retrieves all playlists of the session's user.
func (s *SpotifyService) UserPlaylists(ctx context.Context, sess *Session) ([]models.Playlist, error) {
	var playlists []models.Playlist
	limit := 50
	offset := 0

	for {
		query := url.Values{
			"limit":  {fmt.Sprint(limit)},
			"offset": {fmt.Sprint(offset)},
		}

		var response SpotifyPaginatedPlaylists
		if err := s.doRequest(ctx, sess, "/me/playlists", query, &response); err != nil {
			return nil, err
		}

		for _, sp := range response.Items {
			playlists = append(playlists, models.Playlist{ID: sp.ID, Name: sp.Name, TrackCount: sp.Tracks.Total})
		}

		if response.Next == nil || len(response.Items) == 0 {
			break
		}
		offset += limit
	}

	return playlists, nil
}

// SearchTrack searches the catalog for a track by title and artist.
//
// Returns nil without error when nothing matches.
func (s *SpotifyService) SearchTrack(ctx context.Context, sess *Session, title, artist string) (*models.Track, error) {
	q := fmt.Sprintf("track:%q", title)
	if artist != "" {
		q += fmt.Sprintf(" artist:%q", artist)
	}

	query := url.Values{
		"q":     {q},
		"type":  {"track"},
		"limit": {"1"},
	}

	var response spotifySearchResponse
	if err := s.doRequest(ctx, sess, "/search", query, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, nil
	}

	track := NormalizeTrack(&response.Tracks.Items[0])
	return &track, nil
}

// NormalizeTrack maps a raw Spotify track onto a [models.Track].
//
// A nil track (local file or removed track) becomes "unknown" by "unknown artist".
func NormalizeTrack(st *SpotifyTrack) models.Track {
	if st == nil {
		return models.Track{Title: unknownTitle, Artist: unknownArtist}
	}

	track := models.Track{
		ID:     st.ID,
		Title:  st.Name,
		Artist: unknownArtist,
		Album:  st.Album.Name,
	}

	if track.Title == "" {
		track.Title = unknownTitle
	}
	if len(st.Artists) > 0 && st.Artists[0].Name != "" {
		track.Artist = st.Artists[0].Name
	}
	if len(st.Album.Images) > 0 {
		track.CoverURL = st.Album.Images[0].URL
	}
	return track
}
