// package tagger writes ID3v2 metadata and cover art into downloaded mp3 files
package tagger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tapedeck/internal/shared"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMinBytes = 500
	maxCoverBytes   = 10 << 20
)

// Tagger writes basic tags and embeds cover art.
//
// All failures are returned to the caller, which logs them; tagging never changes a track's outcome.
type Tagger struct {
	client   *http.Client
	minBytes int
	maxSize  int
	logger   *log.Logger
}

// Option customizes a [Tagger].
type Option func(*Tagger)

// WithHTTPClient sets the client used to fetch cover images. Its timeout is left as is.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Tagger) { t.client = client }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tagger) { t.logger = logger }
}

// New creates a Tagger from the tagging configuration.
func New(cfg shared.TaggingConfig, opts ...Option) *Tagger {
	timeout := cfg.CoverTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	minBytes := cfg.CoverMinBytes
	if minBytes <= 0 {
		minBytes = defaultMinBytes
	}

	t := &Tagger{
		client:   &http.Client{Timeout: timeout},
		minBytes: minBytes,
		maxSize:  cfg.CoverMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = shared.NewLogger(nil)
	}
	return t
}

func open(path string) (*id3v2.Tag, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return id3v2.Open(path, id3v2.Options{Parse: true})
}

// WriteBasicTags sets title, artist and album on the file at path. Empty values leave the frame untouched.
func (t *Tagger) WriteBasicTags(path, title, artist, album string) error {
	tag, err := open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	if album != "" {
		tag.SetAlbum(album)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTagWrite, err)
	}
	return nil
}

// EmbedCover downloads imageURL and embeds it as the front cover, replacing any existing pictures.
//
// Payloads smaller than the configured minimum or of an unrecognized type leave the file unmodified.
func (t *Tagger) EmbedCover(ctx context.Context, path, imageURL string) error {
	data, mime, err := t.FetchCover(ctx, imageURL)
	if err != nil {
		return err
	}

	if t.maxSize > 0 {
		resized, changed, err := resizeCover(data, t.maxSize)
		if err != nil {
			t.logger.Warn("cover resize failed, embedding original", "url", imageURL, "error", err)
		} else if changed {
			data, mime = resized, "image/jpeg"
		}
	}

	return t.embed(path, data, mime)
}

// FetchCover downloads a cover image and returns its bytes and MIME type.
func (t *Tagger) FetchCover(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrCoverEmbed, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrCoverEmbed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: cover request returned status %d", shared.ErrCoverEmbed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrCoverEmbed, err)
	}

	if len(data) < t.minBytes {
		return nil, "", fmt.Errorf("%w: %w: %d bytes", shared.ErrCoverEmbed, shared.ErrCoverTooSmall, len(data))
	}

	mime, err := detectMime(resp.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", shared.ErrCoverEmbed, err)
	}
	return data, mime, nil
}

func (t *Tagger) embed(path string, data []byte, mime string) error {
	tag, err := open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCoverEmbed, err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCoverEmbed, err)
	}
	return nil
}

// detectMime maps the response Content-Type to a supported MIME type, sniffing the payload when the header is inconclusive.
func detectMime(contentType string, data []byte) (string, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return "image/jpeg", nil
	case strings.Contains(ct, "png"):
		return "image/png", nil
	}

	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "image/jpeg", nil
	case "image/png":
		return "image/png", nil
	}
	return "", fmt.Errorf("%w: content type %q", shared.ErrUnknownImage, contentType)
}
