package tasks

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Track statuses reported in an [Event].
//
// Failures carry a detail suffix: "search_error: <detail>" and "error: <detail>".
const (
	StatusSkipped     = "skipped"
	StatusNotFound    = "not_found"
	StatusDownloaded  = "downloaded"
	StatusSearchError = "search_error"
	StatusError       = "error"
)

// Event is one record of a sync stream: a per-track progress event, or the
// completion record when Done is set.
type Event struct {
	Index           int
	Total           int
	SongLabel       string
	Status          string
	DurationSeconds float64
	Done            bool
}

type progressWire struct {
	Index           int     `json:"index"`
	Total           int     `json:"total"`
	SongLabel       string  `json:"song_label"`
	Status          string  `json:"status"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type eventWire struct {
	progressWire
	Done bool `json:"done"`
}

// MarshalJSON encodes progress events with their five fields and the completion record as {"done":true}.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Done {
		return []byte(`{"done":true}`), nil
	}
	return json.Marshal(progressWire{
		Index:           e.Index,
		Total:           e.Total,
		SongLabel:       e.SongLabel,
		Status:          e.Status,
		DurationSeconds: e.DurationSeconds,
	})
}

// UnmarshalJSON decodes either record shape.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Event{
		Index:           w.Index,
		Total:           w.Total,
		SongLabel:       w.SongLabel,
		Status:          w.Status,
		DurationSeconds: w.DurationSeconds,
		Done:            w.Done,
	}
	return nil
}

// Kind returns the status without its detail suffix.
func (e Event) Kind() string {
	kind, _, _ := strings.Cut(e.Status, ":")
	return kind
}

// Detail returns the failure detail, or "".
func (e Event) Detail() string {
	_, detail, _ := strings.Cut(e.Status, ":")
	return strings.TrimSpace(detail)
}

// Failed reports whether the track ended in not_found, search_error or error.
func (e Event) Failed() bool {
	switch e.Kind() {
	case StatusNotFound, StatusSearchError, StatusError:
		return true
	}
	return false
}

// failureStatus formats kind with the root detail of err, dropping the sentinel prefix added by the component.
func failureStatus(kind string, sentinel, err error) string {
	detail := err.Error()
	if sentinel != nil && errors.Is(err, sentinel) {
		detail = strings.TrimPrefix(detail, sentinel.Error()+": ")
	}
	return kind + ": " + detail
}

// Summary aggregates the events of one sync.
type Summary struct {
	PlaylistID     string        `json:"playlist_id"`
	PlaylistName   string        `json:"playlist_name"`
	Folder         string        `json:"folder"`
	Total          int           `json:"total"`
	Downloaded     int           `json:"downloaded"`
	Skipped        int           `json:"skipped"`
	NotFound       int           `json:"not_found"`
	SearchErrors   int           `json:"search_errors"`
	DownloadErrors int           `json:"download_errors"`
	Completed      bool          `json:"completed"`
	Elapsed        time.Duration `json:"elapsed"`
	Events         []Event       `json:"events"`
}

// NewSummary starts a summary for run.
func NewSummary(run *Run) *Summary {
	return &Summary{
		PlaylistID:   run.Playlist.ID,
		PlaylistName: run.Playlist.Name,
		Folder:       run.Folder,
		Total:        run.Total,
	}
}

// Add records ev.
func (s *Summary) Add(ev Event) {
	if ev.Done {
		s.Completed = true
		return
	}

	s.Events = append(s.Events, ev)
	switch ev.Kind() {
	case StatusDownloaded:
		s.Downloaded++
	case StatusSkipped:
		s.Skipped++
	case StatusNotFound:
		s.NotFound++
	case StatusSearchError:
		s.SearchErrors++
	case StatusError:
		s.DownloadErrors++
	}
}

// Failed is the number of tracks that were neither downloaded nor skipped.
func (s *Summary) Failed() int {
	return s.NotFound + s.SearchErrors + s.DownloadErrors
}

// Collect drains run into a summary. It returns when the event channel closes.
func Collect(run *Run, onEvent func(Event)) *Summary {
	start := time.Now()
	summary := NewSummary(run)
	for ev := range run.Events() {
		summary.Add(ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}
	summary.Elapsed = time.Since(start)
	return summary
}
