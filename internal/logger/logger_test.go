package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "json", "warn")

	log.Info("dropped")
	log.Warn("kept", "product_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.EqualValues(t, 7, entry["product_id"])
}

func TestPrettyHandlerWritesAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "pretty", "debug").With("component", "upload").WithGroup("req")

	log.Debug("stored", "name", "pen.png")

	out := buf.String()
	require.Contains(t, out, "stored")
	require.Contains(t, out, "component")
	require.Contains(t, out, "req.name")
	require.Contains(t, out, "pen.png")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
