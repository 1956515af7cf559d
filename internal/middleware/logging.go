package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxCapturedBody = 4 << 10
)

// Logging emits one access line per request. 5xx logs at ERROR, 4xx at WARN
// together with the code and message of the JSON error body.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.written,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", r.RemoteAddr,
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			attrs = append(attrs, "route", rctx.RoutePattern())
		}
		if rec.status >= http.StatusBadRequest {
			attrs = append(attrs, rec.errorAttrs()...)
		}

		slog.Log(r.Context(), levelForStatus(rec.status), "request", attrs...)
	})
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
	errBody     bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(status int) {
	if rec.wroteHeader {
		return
	}
	rec.status = status
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status >= http.StatusBadRequest && rec.errBody.Len() < maxCapturedBody {
		rec.errBody.Write(b[:min(len(b), maxCapturedBody-rec.errBody.Len())])
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

func (rec *statusRecorder) errorAttrs() []any {
	var body struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details string `json:"details"`
	}
	if json.Unmarshal(rec.errBody.Bytes(), &body) != nil || body.Code == "" {
		return nil
	}

	attrs := []any{"error_code", body.Code, "error_message", body.Error}
	if body.Details != "" {
		attrs = append(attrs, "error_details", body.Details)
	}
	return attrs
}
