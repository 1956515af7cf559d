package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const maxFilenameRunes = 100

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client-supplied filename to a URL-safe base name.
// Directory components are dropped and anything outside [A-Za-z0-9._-] is
// replaced with an underscore. Never returns an empty string.
func SanitizeFilename(name string) string {
	trimmed := strings.TrimSpace(name)
	if idx := strings.LastIndexAny(trimmed, `/\`); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))

	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}

		builder.WriteRune(char)
	}

	cleaned := unsafeFilenameChars.ReplaceAllString(builder.String(), "_")
	cleaned = strings.TrimLeft(cleaned, "._")

	if cleaned == "" {
		return "upload"
	}

	runes := []rune(cleaned)
	if len(runes) > maxFilenameRunes {
		ext := filepath.Ext(cleaned)
		if len(ext) >= maxFilenameRunes {
			ext = ""
		}
		stem := []rune(strings.TrimSuffix(cleaned, ext))
		cleaned = string(stem[:maxFilenameRunes-len(ext)]) + ext
	}

	return cleaned
}

// isInvisibleUnicode returns true for zero-width and other formatting
// characters that should be stripped from filenames.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
