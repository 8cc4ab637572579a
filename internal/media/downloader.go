// package media downloads and transcodes remote audio into a playlist folder
package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/lrstanley/go-ytdlp"
)

// Downloader fetches url and writes the transcoded audio to <outputStem>.<ext>.
type Downloader interface {
	Download(ctx context.Context, url, outputStem string) error
}

// YTDLP is a [Downloader] backed by the yt-dlp executable.
//
// The executable and ffmpeg location are injected from configuration; nothing is installed at runtime.
type YTDLP struct {
	executable     string
	ffmpegLocation string
	audioFormat    string
	audioQuality   string
	socketTimeout  time.Duration
	retries        int
}

var _ Downloader = (*YTDLP)(nil)

// NewYTDLP builds a yt-dlp downloader from the download configuration.
func NewYTDLP(cfg shared.DownloadConfig) *YTDLP {
	format := cfg.AudioFormat
	if format == "" {
		format = "mp3"
	}
	quality := cfg.AudioQuality
	if quality == "" {
		quality = "192K"
	}

	return &YTDLP{
		executable:     cfg.YTDLPPath,
		ffmpegLocation: cfg.FFmpegLocation,
		audioFormat:    format,
		audioQuality:   quality,
		socketTimeout:  time.Duration(cfg.SocketTimeoutS) * time.Second,
		retries:        max(cfg.Retries, 0),
	}
}

// Ext returns the file extension produced by this downloader.
func (y *YTDLP) Ext() string {
	return y.audioFormat
}

// Command builds the yt-dlp invocation for outputStem without running it.
func (y *YTDLP) Command(outputStem string) *ytdlp.Command {
	cmd := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		ExtractAudio().
		AudioFormat(y.audioFormat).
		AudioQuality(y.audioQuality).
		Output(outputStem + ".%(ext)s").
		Retries(strconv.Itoa(y.retries)).
		Quiet().
		NoProgress()

	if y.socketTimeout > 0 {
		cmd = cmd.SocketTimeout(y.socketTimeout.Seconds())
	}
	if y.ffmpegLocation != "" {
		cmd = cmd.FFmpegLocation(y.ffmpegLocation)
	}
	if y.executable != "" {
		cmd = cmd.SetExecutable(y.executable)
	}
	return cmd
}

// Download runs yt-dlp for a single URL.
func (y *YTDLP) Download(ctx context.Context, url, outputStem string) error {
	result, err := y.Command(outputStem).Run(ctx, url)
	if err != nil {
		if result != nil {
			if detail := lastLine(result.Stderr); detail != "" {
				return fmt.Errorf("yt-dlp: %s: %w", detail, err)
			}
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
