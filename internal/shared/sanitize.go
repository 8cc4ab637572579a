package shared

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reservedChars = regexp.MustCompile(`[<>:"/\\|?*']`)
	// letters, digits, underscore, hyphen, Unicode whitespace and U+001C..U+001F
	nonWordChars    = regexp.MustCompile(`[^\p{L}\p{N}_\t-\r\x{1c}-\x{1f}\x{85}\p{Zs}\x{2028}\x{2029}-]`)
	pathSeparators  = strings.NewReplacer("/", "", `\`, "", "\x00", "")
	labelSeparator  = " by "
	requestSpaceSep = "_"
	untitledFolder  = "untitled"
)

// SanitizeFilename removes characters that are invalid in filenames on common platforms
// (< > : " / \ | ? * and the apostrophe) and trims surrounding whitespace.
//
// Internal whitespace is preserved.
func SanitizeFilename(s string) string {
	return strings.TrimSpace(reservedChars.ReplaceAllString(s, ""))
}

// SanitizeRequestFilename keeps only letters, digits, underscores, whitespace and hyphens,
// trims the result and replaces each remaining ASCII space with an underscore.
//
// Combining marks are dropped, so a decomposed "é" loses its accent. Other spaces such as
// U+00A0 are kept as is.
func SanitizeRequestFilename(s string) string {
	cleaned := strings.TrimFunc(nonWordChars.ReplaceAllString(s, ""), isSpace)
	return strings.ReplaceAll(cleaned, " ", requestSpaceSep)
}

// isSpace extends the Unicode White_Space set with the information separators U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// FolderName turns a playlist name into a single directory segment.
//
// Only path separators are removed, so folders created from the raw name keep matching.
// Names that would resolve to the current or parent directory become "untitled".
func FolderName(name string) string {
	cleaned := pathSeparators.Replace(name)
	switch strings.TrimSpace(cleaned) {
	case "", ".", "..":
		return untitledFolder
	}
	return cleaned
}

// SongLabel is the display label for a track, also used as the identity for skip detection.
func SongLabel(title, artist string) string {
	return title + labelSeparator + artist
}
