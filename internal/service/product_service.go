package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go-storefront/internal/event"
	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CountByImage(ctx context.Context, image string) (int64, error)
}

type ImageStore interface {
	Upload(ctx context.Context, originalName string, r io.Reader) (model.UploadResult, error)
	ManagedName(url string) (string, bool)
	Remove(ctx context.Context, name string) error
}

type ProductService struct {
	products    ProductStore
	images      ImageStore
	placeholder string
	bus         event.Bus
}

func NewProductService(products ProductStore, images ImageStore, placeholder string, bus event.Bus) *ProductService {
	return &ProductService{products: products, images: images, placeholder: placeholder, bus: bus}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (model.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Create validates input before touching the blob store, so a rejected
// request never leaves an uploaded file behind.
func (s *ProductService) Create(ctx context.Context, in model.ProductInput, file *model.FileUpload) (model.Product, error) {
	product, err := validateProduct(in)
	if err != nil {
		return model.Product{}, err
	}

	uploaded, err := s.resolveImage(ctx, &product, in.Image, file)
	if err != nil {
		return model.Product{}, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.discardUpload(ctx, uploaded)
		return model.Product{}, err
	}

	s.publish(event.TypeProductCreated, created)
	return created, nil
}

// Update fully replaces name, price, description and image of product id.
// A previous managed image that is no longer referenced is removed.
func (s *ProductService) Update(ctx context.Context, id int64, in model.ProductInput, file *model.FileUpload) (model.Product, error) {
	product, err := validateProduct(in)
	if err != nil {
		return model.Product{}, err
	}
	product.ID = id

	previous, err := s.products.GetByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	uploaded, err := s.resolveImage(ctx, &product, in.Image, file)
	if err != nil {
		return model.Product{}, err
	}

	updated, err := s.products.Update(ctx, product)
	if err != nil {
		s.discardUpload(ctx, uploaded)
		return model.Product{}, err
	}

	if previous.Image != updated.Image {
		s.releaseImage(ctx, previous.Image)
	}

	s.publish(event.TypeProductUpdated, updated)
	return updated, nil
}

// Delete is idempotent: a missing id reports zero deletions.
func (s *ProductService) Delete(ctx context.Context, id int64) (model.DeleteResult, error) {
	existing, err := s.products.GetByID(ctx, id)
	if apierror.HasCode(err, apierror.CodeNotFound) {
		return model.DeleteResult{DeletedCount: 0}, nil
	}
	if err != nil {
		return model.DeleteResult{}, err
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return model.DeleteResult{}, err
	}

	if deleted > 0 {
		s.releaseImage(ctx, existing.Image)
		s.publish(event.TypeProductDeleted, existing)
	}

	return model.DeleteResult{DeletedCount: deleted}, nil
}

func validateProduct(in model.ProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, apierror.Validation("name is required", "name")
	}
	if in.Price == nil {
		return model.Product{}, apierror.Validation("price is required", "price")
	}
	if *in.Price < 0 {
		return model.Product{}, apierror.Validation("price must not be negative", "price")
	}

	return model.Product{
		Name:        name,
		Price:       *in.Price,
		Description: in.Description,
	}, nil
}

// resolveImage picks the uploaded file, then the client URL, then the
// placeholder. It returns the blob name when a file was stored.
func (s *ProductService) resolveImage(ctx context.Context, product *model.Product, clientImage string, file *model.FileUpload) (string, error) {
	if file != nil {
		result, err := s.images.Upload(ctx, file.Filename, file.Reader)
		if err != nil {
			return "", err
		}
		product.Image = result.URL
		return result.Name, nil
	}

	if image := strings.TrimSpace(clientImage); image != "" {
		product.Image = image
		return "", nil
	}

	product.Image = s.placeholder
	return "", nil
}

func (s *ProductService) discardUpload(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.images.Remove(ctx, name); err != nil {
		slog.Warn("failed to remove upload after store error", "name", name, "error", err)
	}
}

// releaseImage removes a managed image blob once no product references it.
func (s *ProductService) releaseImage(ctx context.Context, image string) {
	name, ok := s.images.ManagedName(image)
	if !ok {
		return
	}

	count, err := s.products.CountByImage(ctx, image)
	if err != nil {
		slog.Warn("failed to count image references", "image", image, "error", err)
		return
	}
	if count > 0 {
		return
	}

	if err := s.images.Remove(ctx, name); err != nil {
		slog.Warn("failed to remove orphaned image", "name", name, "error", err)
		return
	}
	slog.Debug("orphaned image removed", "name", name)
}

func (s *ProductService) publish(eventType event.Type, p model.Product) {
	if s.bus != nil {
		s.bus.Publish(event.New(eventType, strconv.FormatInt(p.ID, 10), p))
	}
}
