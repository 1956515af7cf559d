package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is the single place where errors become HTTP responses.
// Anything that is not an *apierror.APIError is reported as STORAGE_ERROR.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Error: "internal storage error",
		Code:  apierror.CodeStorage,
	}

	var apiErr *apierror.APIError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
	case errors.As(err, &maxBytesErr):
		tooLarge := apierror.PayloadTooLarge(maxBytesErr.Limit)
		status = tooLarge.HTTPStatus
		body.Code = tooLarge.Code
		body.Error = tooLarge.Message
		body.Details = tooLarge.Details
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apierror.Validation("invalid JSON body", err.Error())
	}
	return nil
}
