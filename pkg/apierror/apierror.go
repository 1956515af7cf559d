package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateUser      = "DUPLICATE_USER"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeNoFile             = "NO_FILE"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeStorage            = "STORAGE_ERROR"
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

func Validation(message string, details string) *APIError {
	return New(CodeValidation, message, details, http.StatusBadRequest)
}

func DuplicateUser(username string) *APIError {
	return New(CodeDuplicateUser, "username already exists", username, http.StatusBadRequest)
}

// InvalidCredentials is deliberately detail-free so callers cannot tell an
// unknown username from a wrong password.
func InvalidCredentials() *APIError {
	return New(CodeInvalidCredentials, "invalid username or password", "", http.StatusUnauthorized)
}

func Unauthenticated(message string) *APIError {
	return New(CodeUnauthenticated, message, "", http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, "", http.StatusForbidden)
}

func NotFound(resource string, id string) *APIError {
	return New(CodeNotFound, resource+" not found", id, http.StatusNotFound)
}

func NoFile(field string) *APIError {
	return New(CodeNoFile, "no file uploaded", field, http.StatusBadRequest)
}

func PayloadTooLarge(limit int64) *APIError {
	return New(CodePayloadTooLarge, "request body too large", fmt.Sprintf("limit is %d bytes", limit), http.StatusRequestEntityTooLarge)
}

func Storage(message string) *APIError {
	return New(CodeStorage, message, "", http.StatusInternalServerError)
}

// HasCode reports whether err wraps an *APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Code == code
}
