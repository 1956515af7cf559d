package handler

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

const multipartMemory = 8 << 20

// parseForm reads a multipart or urlencoded body. It reports false when the
// request carries neither, so the caller can fall back to JSON.
func parseForm(r *http.Request) (bool, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	switch mediaType {
	case "multipart/form-data":
		err = r.ParseMultipartForm(multipartMemory)
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	default:
		return false, nil
	}

	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return true, err
		}
		return true, apierror.Validation("invalid form body", err.Error())
	}
	return true, nil
}

// formFile opens the single file sent under field. A nil file with a nil
// error means no file was sent.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}

	headers := r.MultipartForm.File[field]
	switch len(headers) {
	case 0:
		return nil, nil, nil
	case 1:
	default:
		return nil, nil, apierror.Validation("exactly one file may be uploaded", field)
	}

	file, err := headers[0].Open()
	if err != nil {
		return nil, nil, err
	}
	return file, headers[0], nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func productRequestFromForm(r *http.Request) (model.ProductRequest, error) {
	req := model.ProductRequest{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Image:       r.PostFormValue("image"),
	}

	if raw := strings.TrimSpace(r.PostFormValue("price")); raw != "" {
		price, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.ProductRequest{}, apierror.Validation("price must be an integer", raw)
		}
		req.Price = &price
	}

	return req, nil
}
