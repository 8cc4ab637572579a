package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "reserved characters removed",
			input: "Song: Title? / Test",
			want:  "Song Title  Test",
		},
		{
			name:  "apostrophe and quotes",
			input: `Don't "Stop" Me`,
			want:  "Dont Stop Me",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "   Intro by Someone  ",
			want:  "Intro by Someone",
		},
		{
			name:  "pipes and brackets",
			input: "<a|b*c>",
			want:  "abc",
		},
		{
			name:  "unicode kept",
			input: "Canción by Artista",
			want:  "Canción by Artista",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeFilename(tt.input); again != got {
				t.Errorf("SanitizeFilename is not deterministic: %q vs %q", got, again)
			}
		})
	}
}

func TestSanitizeRequestFilename(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "punctuation removed and spaces replaced",
			input: "Song: Title? / Test",
			want:  "Song_Title__Test",
		},
		{
			name:  "hyphens and underscores kept",
			input: "lo-fi_beats mix",
			want:  "lo-fi_beats_mix",
		},
		{
			name:  "trimmed before replacing",
			input: "  (live) version!  ",
			want:  "live_version",
		},
		{
			name:  "unicode letters kept",
			input: "Café del Mar",
			want:  "Café_del_Mar",
		},
		{
			name:  "combining marks removed",
			input: "Cafe\u0301 Song",
			want:  "Cafe_Song",
		},
		{
			name:  "no-break space kept",
			input: "A\u00a0B",
			want:  "A\u00a0B",
		},
		{
			name:  "ideographic space kept",
			input: "東京\u3000夜",
			want:  "東京\u3000夜",
		},
		{
			name:  "separator controls trimmed",
			input: "\x1fTrack\x1c",
			want:  "Track",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeRequestFilename(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeRequestFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFolderName(t *testing.T) {
	tc := []struct {
		input string
		want  string
	}{
		{"Today's Top Hits", "Today's Top Hits"},
		{"Rock: Classics?", "Rock: Classics?"},
		{"AC/DC Essentials", "ACDC Essentials"},
		{`..\..`, "...."},
		{"..", "untitled"},
		{" / ", "untitled"},
		{"", "untitled"},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			if got := FolderName(tt.input); got != tt.want {
				t.Errorf("FolderName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSongLabel(t *testing.T) {
	if got := SongLabel("Song", "Artist"); got != "Song by Artist" {
		t.Errorf("SongLabel() = %q, want %q", got, "Song by Artist")
	}
}

func TestRoundTo(t *testing.T) {
	tc := []struct {
		in   float64
		want float64
	}{
		{4.2149, 4.21},
		{4.216, 4.22},
		{0, 0},
		{12.5, 12.5},
	}

	for _, tt := range tc {
		if got := RoundTo(tt.in, 2); got != tt.want {
			t.Errorf("RoundTo(%v, 2) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Run("GenerateState", func(t *testing.T) {
		a, err := GenerateState()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, _ := GenerateState()
		if a == "" || a == b {
			t.Errorf("expected unique non-empty states, got %q and %q", a, b)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		if id := GenerateID(); len(id) != 36 {
			t.Errorf("expected uuid string, got %q", id)
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "\n  \"a\": 1") {
			t.Errorf("expected indented JSON, got %s", data)
		}
	})

	t.Run("NewLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")
		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields, got %s", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tapedeck.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		logger.Info("written")
	})
}
