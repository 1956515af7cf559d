package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("replaces unsafe characters", func(t *testing.T) {
		require.Equal(t, "report_2026_.png", SanitizeFilename(` report<2026>?.png `))
		require.Equal(t, "my_cat.jpg", SanitizeFilename("my cat.jpg"))
	})

	t.Run("drops directory components", func(t *testing.T) {
		require.Equal(t, "photo.png", SanitizeFilename("../../etc/photo.png"))
		require.Equal(t, "photo.png", SanitizeFilename(`C:\Users\me\photo.png`))
	})

	t.Run("strips leading dots", func(t *testing.T) {
		require.Equal(t, "env", SanitizeFilename(".env"))
		require.Equal(t, "upload", SanitizeFilename(".."))
	})

	t.Run("falls back for empty names", func(t *testing.T) {
		require.Equal(t, "upload", SanitizeFilename("   "))
		require.Equal(t, "upload", SanitizeFilename("\u200B\u200C\u200D"))
	})

	t.Run("strips invisible unicode", func(t *testing.T) {
		require.Equal(t, "filename.txt", SanitizeFilename("file\u200B\u200C\u200D\u2060\uFEFFname.txt"))
	})

	t.Run("truncates and keeps extension", func(t *testing.T) {
		actual := SanitizeFilename(strings.Repeat("a", 300) + ".jpeg")
		require.Len(t, []rune(actual), maxFilenameRunes)
		require.True(t, strings.HasSuffix(actual, ".jpeg"))
		require.True(t, utf8.ValidString(actual))
	})
}
