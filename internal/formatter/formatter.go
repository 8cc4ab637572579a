// package formatter renders sync summaries as reports (JSON, CSV, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Format names a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// FormatFor picks the report format from a file extension. Unknown extensions get plain text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

// ExportToJSON converts a Summary to indented JSON
func ExportToJSON(summary *tasks.Summary) ([]byte, error) {
	return shared.MarshalJSON(summary, true)
}

// ExportToCSV converts a Summary to CSV with one row per event: Index, Total, Song, Status, Detail, Duration
func ExportToCSV(summary *tasks.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Total", "Song", "Status", "Detail", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, ev := range summary.Events {
		record := []string{
			strconv.Itoa(ev.Index),
			strconv.Itoa(ev.Total),
			ev.SongLabel,
			ev.Kind(),
			ev.Detail(),
			strconv.FormatFloat(ev.DurationSeconds, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Summary to a plain text report with a counts header and an event table
func ExportToText(summary *tasks.Summary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s (%s)\n", summary.PlaylistName, summary.PlaylistID))
	buf.WriteString(fmt.Sprintf("Folder: %s\n", summary.Folder))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n", summary.Total))
	buf.WriteString(fmt.Sprintf("Downloaded: %d, Skipped: %d, Failed: %d\n", summary.Downloaded, summary.Skipped, summary.Failed()))
	if !summary.Completed {
		buf.WriteString("Status: interrupted\n")
	}
	buf.WriteString(fmt.Sprintf("Elapsed: %s\n", summary.Elapsed.Round(time.Millisecond)))

	if len(summary.Events) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("\n")
	buf.WriteString(EventTable(summary.Events))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// EventTable renders events as a rounded table.
func EventTable(events []tasks.Event) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Song", "Status", "Seconds"})

	for _, ev := range events {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d/%d", ev.Index, ev.Total),
			ev.SongLabel,
			ev.Status,
			strconv.FormatFloat(ev.DurationSeconds, 'f', 2, 64),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// Export renders summary in the given format.
func Export(summary *tasks.Summary, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(summary)
	case FormatCSV:
		return ExportToCSV(summary)
	case FormatText:
		return ExportToText(summary)
	default:
		return nil, fmt.Errorf("%w: report format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport writes summary to path, choosing the format from its extension.
//
// Defaults to {playlist.ID}_report.txt when path is empty.
func WriteReport(summary *tasks.Summary, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_report.txt", summary.PlaylistID)
	}

	data, err := Export(summary, FormatFor(path))
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}
