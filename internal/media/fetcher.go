package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/models"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/google/uuid"
)

const tempPrefix = ".tapedeck-"

// Fetcher downloads a candidate into its [models.Target].
//
// Audio is written under a hidden temporary stem in the target folder and only
// moved onto the final path once the downloader has finished, so the final path
// never holds a partial file.
type Fetcher struct {
	downloader Downloader
	logger     *log.Logger
}

// NewFetcher wraps downloader.
func NewFetcher(downloader Downloader, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Fetcher{downloader: downloader, logger: logger}
}

// Exists reports whether the target's final path is present.
func Exists(target models.Target) bool {
	_, err := os.Stat(target.Path())
	return err == nil
}

// Fetch downloads url into target and returns the elapsed wall-clock time.
//
// Every failure is wrapped in [shared.ErrDownload]. An existing target is never overwritten.
func (f *Fetcher) Fetch(ctx context.Context, url string, target models.Target) (time.Duration, error) {
	start := time.Now()
	final := target.Path()

	if Exists(target) {
		return 0, fmt.Errorf("%w: %w: %s", shared.ErrDownload, shared.ErrTargetExists, final)
	}

	if err := os.MkdirAll(target.Folder, 0o755); err != nil {
		return 0, fmt.Errorf("%w: failed to create folder: %v", shared.ErrDownload, err)
	}

	stem := filepath.Join(target.Folder, tempPrefix+uuid.NewString())
	defer f.cleanup(stem)

	if err := f.downloader.Download(ctx, url, stem); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrDownload, err)
	}

	produced := stem + "." + target.Ext
	if _, err := os.Stat(produced); err != nil {
		return 0, fmt.Errorf("%w: downloader produced no %s file", shared.ErrDownload, target.Ext)
	}

	if err := publish(produced, final); err != nil {
		return 0, fmt.Errorf("%w: %w", shared.ErrDownload, err)
	}

	elapsed := time.Since(start)
	f.logger.Debug("fetched", "url", url, "path", final, "elapsed", elapsed)
	return elapsed, nil
}

// publish moves src onto dst without replacing an existing dst.
func publish(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", shared.ErrTargetExists, dst)
		}
		if _, statErr := os.Stat(dst); statErr == nil {
			return fmt.Errorf("%w: %s", shared.ErrTargetExists, dst)
		}
		// Filesystems without hard links.
		return os.Rename(src, dst)
	}
	return os.Remove(src)
}

// cleanup removes anything left under the temporary stem (intermediate
// webm/m4a files, a finished file that could not be published).
func (f *Fetcher) cleanup(stem string) {
	dir, prefix := filepath.Dir(stem), filepath.Base(stem)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("failed to remove temporary file", "path", path, "error", err)
		}
	}
}
