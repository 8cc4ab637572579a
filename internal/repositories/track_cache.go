package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Deduplicates via the service+service_id constraint; tracks already cached are refreshed
// when the catalog reports different metadata.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack caches a track from a service.
// Only returns errors for actual failures (not constraint violations).
func (a *TrackCacheAdapter) CacheTrack(service, serviceID string, track models.Track) error {
	existing, err := a.repo.GetByServiceID(service, serviceID)
	switch {
	case err == nil:
		if existing.Track() == withID(track, serviceID) {
			return nil
		}
		updated := models.NewPersistedTrack(existing.Sequence(), service, serviceID, track)
		updated.SetID(existing.ID())
		updated.SetCreatedAt(existing.CreatedAt())
		if err := a.repo.Update(updated); err != nil {
			return fmt.Errorf("failed to refresh cached track: %w", err)
		}
		return nil
	case !errors.Is(err, shared.ErrTrackNotFound):
		return fmt.Errorf("failed to look up cached track: %w", err)
	}

	if err := a.repo.Create(models.NewPersistedTrack(0, service, serviceID, track)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

func withID(track models.Track, id string) models.Track {
	track.ID = id
	return track
}
