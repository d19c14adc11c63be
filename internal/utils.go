package internal

import (
	"fmt"
	"regexp"
)

// Version is the ruverbs release, overridden with -ldflags at build time
var Version = "0.3.0"

var unsafeFilenameChars = regexp.MustCompile(`[^0-9a-zA-Zа-яА-ЯёЁ_.-]+`)

// SanitizeFilename replaces every run of characters outside Latin and
// Cyrillic letters, digits, dot, dash and underscore with one underscore
func SanitizeFilename(s string) string {
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// MediaFileName names the audio file of row index, e.g. "делать_0.mp3"
func MediaFileName(headword string, index int, ext string) string {
	return fmt.Sprintf("%s_%d.%s", SanitizeFilename(headword), index, ext)
}
