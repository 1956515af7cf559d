package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: swaps the default slog logger.
func TestLoggingCapturesErrorCode(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/9", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(requestIDHeader))

	logged := buf.String()
	assert.Contains(t, logged, `"level":"WARN"`)
	assert.Contains(t, logged, `"error_code":"NOT_FOUND"`)
	assert.Contains(t, logged, `"request_id":"req-1"`)
}

// Not parallel: swaps the default slog logger.
func TestLoggingServerErrorWithRoute(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	r := chi.NewRouter()
	r.Use(Logging)
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusInternalServerError, "STORAGE_ERROR", "database unavailable")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/3", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	logged := buf.String()
	assert.Contains(t, logged, `"level":"ERROR"`)
	assert.Contains(t, logged, `"route":"/api/products/{id}"`)
	assert.Contains(t, logged, `"error_message":"database unavailable"`)
}

func TestLoggingGeneratesRequestID(t *testing.T) {
	t.Parallel()

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRecoveryReturnsJSON(t *testing.T) {
	t.Parallel()

	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "STORAGE_ERROR", decodeError(t, rec).Code)
}
