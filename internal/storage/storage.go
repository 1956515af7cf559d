package storage

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode"

	"go-storefront/pkg/apierror"
)

// BlobStore holds uploaded files in a flat namespace keyed by generated name.
type BlobStore interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// ValidateName rejects names that could escape the flat namespace.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apierror.New("INVALID_NAME", "blob name cannot be empty", "", http.StatusBadRequest)
	}

	if name == "." || name == ".." {
		return apierror.New("PATH_TRAVERSAL", "path traversal attempt detected", name, http.StatusForbidden)
	}

	if strings.ContainsAny(name, `/\`) {
		return apierror.New("PATH_TRAVERSAL", "blob name cannot contain path separators", name, http.StatusForbidden)
	}

	for _, r := range name {
		if r == 0 || unicode.IsControl(r) {
			return apierror.New("INVALID_NAME", "blob name contains invalid characters", name, http.StatusBadRequest)
		}
	}

	return nil
}
