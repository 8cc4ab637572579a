package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/desertthunder/tapedeck/internal/tasks"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// Search queries the video index and prints the best matches.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if r.index == nil {
		return fmt.Errorf("%w: search index not initialized", shared.ErrServiceUnavailable)
	}

	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	full := strings.TrimSpace(query + " " + strings.TrimSpace(cmd.String("author")))

	r.logger.Info("searching videos", "query", full)
	results, err := r.index.Search(ctx, full, max(cmd.Int("limit"), 1))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSearch, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	if len(results) == 0 {
		return r.writePlain("No video found for %q\n", full)
	}

	rows := make([][]string, 0, len(results))
	for i, res := range results {
		rows = append(rows, []string{strconv.Itoa(i + 1), res.Title, res.Link})
	}
	return r.writePlain("%s\n", renderTable([]string{"#", "Title", "URL"}, rows, []columnAlignment{alignRight}))
}

// Download fetches a single video as a tagged audio file.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	if r.syncer == nil {
		return fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}
	defer r.persistSession()

	req := tasks.SingleRequest{
		URL:      cmd.String("url"),
		Filename: cmd.String("filename"),
		Author:   cmd.String("author"),
		Album:    cmd.String("album"),
		Folder:   cmd.String("folder"),
	}

	res, err := r.syncer.DownloadSingle(ctx, r.session, req)
	if err != nil {
		return err
	}

	if res.Skipped {
		return r.writePlain("• %s already exists, skipped\n", res.Path)
	}

	size := "unknown size"
	if info, err := os.Stat(res.Path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	return r.writePlain("✓ Saved %s (%s) in %s\n", res.Path, size, res.Duration.Round(100*time.Millisecond))
}
