// package models defines the data model for the playlist sync service
package models

import (
	"path/filepath"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Playlist is playlist metadata from the catalog.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"track_count,omitempty"`
}

// Track is a normalized playlist entry. It is never mutated after the catalog produces it.
type Track struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Label is the human-readable "<title> by <artist>" form used in progress events.
func (t Track) Label() string {
	return shared.SongLabel(t.Title, t.Artist)
}

// Candidate is the best search hit for a track.
type Candidate struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Target is the deterministic on-disk location of a track's audio file.
//
// The existence of Path is the only signal used to decide whether a track was already synced.
type Target struct {
	Folder string
	Stem   string
	Ext    string
}

// Path returns <folder>/<stem>.<ext>.
func (t Target) Path() string {
	return filepath.Join(t.Folder, t.Stem+"."+t.Ext)
}

// PlaylistFolder returns the directory a playlist's tracks are written to.
func PlaylistFolder(musicDir, playlistName string) string {
	return filepath.Join(musicDir, shared.FolderName(playlistName))
}

// TrackTarget maps a track to its target inside folder using the filename sanitizer.
func TrackTarget(folder string, track Track, ext string) Target {
	return Target{Folder: folder, Stem: shared.SanitizeFilename(track.Label()), Ext: ext}
}

// InventoryItem is a playlist track annotated with its download state.
type InventoryItem struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Downloaded bool   `json:"downloaded"`
}
