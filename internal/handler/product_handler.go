package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-storefront/internal/model"
	"go-storefront/internal/service"
	"go-storefront/pkg/apierror"
)

type ProductHandler struct {
	service     *service.ProductService
	fileField   string
	maxBodySize int64
}

func NewProductHandler(service *service.ProductService, fileField string, maxBodySize int64) *ProductHandler {
	return &ProductHandler{service: service, fileField: fileField, maxBodySize: maxBodySize}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	input, file, err := h.readInput(w, r)
	defer cleanupForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if file != nil {
		defer closeUpload(file)
	}

	product, err := h.service.Create(r.Context(), input, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := productID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input, file, err := h.readInput(w, r)
	defer cleanupForm(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if file != nil {
		defer closeUpload(file)
	}

	product, err := h.service.Update(r.Context(), id, input, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readInput accepts JSON, urlencoded or multipart bodies. Only multipart can
// carry an image file.
func (h *ProductHandler) readInput(w http.ResponseWriter, r *http.Request) (model.ProductInput, *model.FileUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	isForm, err := parseForm(r)
	if err != nil {
		return model.ProductInput{}, nil, err
	}

	if !isForm {
		var payload model.ProductRequest
		if err := decodeJSON(r, &payload); err != nil {
			return model.ProductInput{}, nil, err
		}
		return payload.Input(), nil, nil
	}

	payload, err := productRequestFromForm(r)
	if err != nil {
		return model.ProductInput{}, nil, err
	}

	file, header, err := formFile(r, h.fileField)
	if err != nil {
		return model.ProductInput{}, nil, err
	}
	if file == nil {
		return payload.Input(), nil, nil
	}

	return payload.Input(), &model.FileUpload{Filename: header.Filename, Reader: file}, nil
}

func productID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.Validation("invalid product id", raw)
	}
	return id, nil
}

func closeUpload(file *model.FileUpload) {
	if closer, ok := file.Reader.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
