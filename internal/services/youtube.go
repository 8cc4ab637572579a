// YouTube [SearchIndex] implementation
//
// Communicates with a search proxy exposing GET /api/search?q=&limit= that
// answers with {"result": [{"title": "...", "link": "..."}]}.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
	"golang.org/x/time/rate"
)

const defaultYTBaseURL string = "http://127.0.0.1:8080"

type youtubeSearchResponse struct {
	Result []SearchResult `json:"result"`
}

// YouTubeService implements [SearchIndex] against the search proxy.
//
// Outgoing requests pass through a token bucket so bulk syncs stay under the proxy's rate limits.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ SearchIndex = (*YouTubeService)(nil)

// YouTubeOption customizes a [YouTubeService].
type YouTubeOption func(*YouTubeService)

// WithYouTubeHTTPClient sets the client used for search requests.
func WithYouTubeHTTPClient(client *http.Client) YouTubeOption {
	return func(y *YouTubeService) { y.httpClient = client }
}

// WithRequestsPerSecond limits search requests. Zero or less disables limiting.
func WithRequestsPerSecond(rps float64) YouTubeOption {
	return func(y *YouTubeService) {
		if rps <= 0 {
			y.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		y.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewYouTubeService creates a new search index client.
func NewYouTubeService(baseURL string, opts ...YouTubeOption) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	y := &YouTubeService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}

	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Search returns up to limit videos matching query, best match first.
func (y *YouTubeService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(limit)},
	}

	var response youtubeSearchResponse
	if err := y.doRequest(ctx, "/api/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	if limit > 0 && len(response.Result) > limit {
		response.Result = response.Result[:limit]
	}
	return response.Result, nil
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: search proxy error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: search proxy error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}
