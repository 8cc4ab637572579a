package media

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tapedeck/internal/shared"
)

// Requirement defines an external binary the fetcher relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements lists the binaries needed by the configured downloader.
//
// ffmpeg_location may name either the ffmpeg binary or the directory containing it.
func Requirements(cfg shared.DownloadConfig) []Requirement {
	ytdlpCmd := cfg.YTDLPPath
	if strings.TrimSpace(ytdlpCmd) == "" {
		ytdlpCmd = "yt-dlp"
	}

	ffmpegCmd := "ffmpeg"
	if loc := strings.TrimSpace(cfg.FFmpegLocation); loc != "" {
		ffmpegCmd = loc
		if info, err := os.Stat(loc); err == nil && info.IsDir() {
			ffmpegCmd = filepath.Join(loc, "ffmpeg")
		}
	}

	return []Requirement{
		{Name: "yt-dlp", Command: ytdlpCmd, Description: "Downloads audio streams"},
		{Name: "FFmpeg", Command: ffmpegCmd, Description: "Transcodes audio to " + cfg.AudioFormat},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}

		switch resolved, err := exec.LookPath(cmd); {
		case cmd == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		default:
			status.Available = true
			status.Command = resolved
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the names of unavailable requirements.
func Missing(statuses []Status) []string {
	var names []string
	for _, s := range statuses {
		if !s.Available {
			names = append(names, s.Name)
		}
	}
	return names
}
