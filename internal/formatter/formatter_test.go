package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
)

func sampleSummary() *tasks.Summary {
	s := &tasks.Summary{
		PlaylistID:   "pl1",
		PlaylistName: "Road Trip",
		Folder:       "music/Road Trip",
		Total:        3,
		Elapsed:      1500 * time.Millisecond,
	}
	s.Add(tasks.Event{Index: 1, Total: 3, SongLabel: "One by Band", Status: tasks.StatusDownloaded, DurationSeconds: 4.25})
	s.Add(tasks.Event{Index: 2, Total: 3, SongLabel: "Two by Band", Status: tasks.StatusSkipped})
	s.Add(tasks.Event{Index: 3, Total: 3, SongLabel: "Three, Live by Band", Status: "error: exit status 1", DurationSeconds: 0.5})
	s.Add(tasks.Event{Done: true})
	return s
}

func TestExporters(t *testing.T) {
	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleSummary())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			PlaylistID     string        `json:"playlist_id"`
			Downloaded     int           `json:"downloaded"`
			Skipped        int           `json:"skipped"`
			DownloadErrors int           `json:"download_errors"`
			Completed      bool          `json:"completed"`
			Events         []tasks.Event `json:"events"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v\n%s", err, data)
		}

		if decoded.PlaylistID != "pl1" {
			t.Errorf("expected playlist id pl1, got %q", decoded.PlaylistID)
		}
		if decoded.Downloaded != 1 || decoded.Skipped != 1 || decoded.DownloadErrors != 1 {
			t.Errorf("unexpected counts: %+v", decoded)
		}
		if !decoded.Completed {
			t.Error("expected completed report")
		}
		if len(decoded.Events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(decoded.Events))
		}
		if decoded.Events[2].Status != "error: exit status 1" {
			t.Errorf("expected raw status preserved, got %q", decoded.Events[2].Status)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleSummary())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Index,Total,Song,Status,Detail,Duration\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
		if err != nil {
			t.Fatalf("CSV did not parse: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("expected header + 3 rows, got %d", len(records))
		}

		tests := []struct {
			row    int
			song   string
			status string
			detail string
			dur    string
		}{
			{1, "One by Band", "downloaded", "", "4.25"},
			{2, "Two by Band", "skipped", "", "0.00"},
			{3, "Three, Live by Band", "error", "exit status 1", "0.50"},
		}
		for _, tt := range tests {
			got := records[tt.row]
			if got[2] != tt.song || got[3] != tt.status || got[4] != tt.detail || got[5] != tt.dur {
				t.Errorf("row %d: got %v", tt.row, got)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleSummary())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Playlist: Road Trip (pl1)",
			"Folder: music/Road Trip",
			"Tracks: 3",
			"Downloaded: 1, Skipped: 1, Failed: 1",
			"Elapsed: 1.5s",
			"One by Band",
			"error: exit status 1",
			"3/3",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text report missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "interrupted") {
			t.Error("completed report should not be marked interrupted")
		}
	})

	t.Run("ExportToText interrupted", func(t *testing.T) {
		s := &tasks.Summary{PlaylistID: "pl1", PlaylistName: "Road Trip", Total: 5}
		s.Add(tasks.Event{Index: 1, Total: 5, SongLabel: "One by Band", Status: tasks.StatusNotFound})

		data, err := ExportToText(s)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.Contains(string(data), "Status: interrupted") {
			t.Errorf("expected interrupted marker, got:\n%s", data)
		}
	})

	t.Run("Export rejects unknown format", func(t *testing.T) {
		_, err := Export(sampleSummary(), Format("xml"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"report.json", FormatJSON},
		{"REPORT.JSON", FormatJSON},
		{"out/report.csv", FormatCSV},
		{"report.txt", FormatText},
		{"report", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFor(tt.path); got != tt.want {
				t.Errorf("FormatFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "run.csv")

		written, err := WriteReport(sampleSummary(), path)
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(data), "Index,Total,Song") {
			t.Errorf("expected CSV content, got: %s", data)
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteReport(sampleSummary(), "")
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if written != "pl1_report.txt" {
			t.Errorf("expected pl1_report.txt, got %s", written)
		}
		if _, err := os.Stat(written); err != nil {
			t.Errorf("report file not created: %v", err)
		}
	})
}
