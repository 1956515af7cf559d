package util

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImageMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsImageMIME("image/png"))
	require.True(t, IsImageMIME(" IMAGE/JPEG "))
	require.False(t, IsImageMIME("text/plain; charset=utf-8"))
	require.False(t, IsImageMIME(""))
}

func TestSniffContentTypeReplaysBytes(t *testing.T) {
	t.Parallel()

	payload := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 1000)

	contentType, reader, err := SniffContentType(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, "image/png", contentType)

	replayed, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, payload, string(replayed))
}

func TestSniffContentTypeShortInput(t *testing.T) {
	t.Parallel()

	contentType, reader, err := SniffContentType(strings.NewReader("hi"))
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", contentType)

	replayed, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "hi", string(replayed))

	contentType, _, err = SniffContentType(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", contentType)
}
