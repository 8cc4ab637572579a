package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// DefaultSearchSuffix biases search results toward official uploads.
const DefaultSearchSuffix = "official audio"

// Resolver maps a track to its best video match.
type Resolver struct {
	index  SearchIndex
	suffix string
}

// NewResolver creates a resolver over index. An empty suffix falls back to [DefaultSearchSuffix].
func NewResolver(index SearchIndex, suffix string) *Resolver {
	if strings.TrimSpace(suffix) == "" {
		suffix = DefaultSearchSuffix
	}
	return &Resolver{index: index, suffix: suffix}
}

// Query builds the search string for a track.
func (r *Resolver) Query(title, artist string) string {
	return strings.Join(strings.Fields(strings.Join([]string{artist, title, r.suffix}, " ")), " ")
}

// Resolve returns the top-ranked candidate, or nil when the index has no results.
//
// Index failures are wrapped in [shared.ErrSearch].
func (r *Resolver) Resolve(ctx context.Context, title, artist string) (*models.Candidate, error) {
	results, err := r.index.Search(ctx, r.Query(title, artist), 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearch, err)
	}

	if len(results) == 0 {
		return nil, nil
	}
	return &models.Candidate{URL: results[0].Link, Title: results[0].Title}, nil
}
