package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"

	"go-storefront/internal/event"
	"go-storefront/internal/model"
	"go-storefront/internal/storage"
	"go-storefront/internal/util"
)

// UploadService stores uploaded files in a blob store and maps blob names to
// public URLs under PUBLIC_BASE_URL + UPLOAD_URL_PREFIX.
type UploadService struct {
	store   storage.BlobStore
	baseURL string
	bus     event.Bus
	now     func() time.Time
}

func NewUploadService(store storage.BlobStore, publicBaseURL string, urlPrefix string, bus event.Bus) *UploadService {
	base := strings.TrimRight(publicBaseURL, "/") + "/" + strings.Trim(urlPrefix, "/")
	return &UploadService{store: store, baseURL: base, bus: bus, now: time.Now}
}

// Upload stores any single file as <unix-millis>-<8 hex>-<sanitized name>.
// Width and height are filled in when the content decodes as png, jpeg, gif,
// bmp or webp and left zero otherwise.
func (s *UploadService) Upload(ctx context.Context, originalName string, r io.Reader) (model.UploadResult, error) {
	contentType, reader, err := util.SniffContentType(r)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("read upload: %w", err)
	}

	name := s.generateName(originalName)
	size, err := s.store.Save(ctx, name, reader)
	if err != nil {
		return model.UploadResult{}, err
	}

	result := model.UploadResult{
		URL:         s.URLFor(name),
		Name:        name,
		Size:        size,
		ContentType: contentType,
	}

	if util.IsImageMIME(contentType) {
		cfg, err := s.decodeConfig(ctx, name)
		if err != nil {
			slog.Debug("upload dimensions unavailable", "name", name, "content_type", contentType, "error", err)
		} else {
			result.Width = cfg.Width
			result.Height = cfg.Height
		}
	}

	slog.Info("file uploaded", "name", name, "size", size, "content_type", contentType)
	if s.bus != nil {
		s.bus.Publish(event.New(event.TypeFileUploaded, name, result))
	}

	return result, nil
}

func (s *UploadService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.store.Open(ctx, name)
}

func (s *UploadService) Remove(ctx context.Context, name string) error {
	return s.store.Remove(ctx, name)
}

func (s *UploadService) URLFor(name string) string {
	return s.baseURL + "/" + name
}

// ManagedName returns the blob name behind url when url points into our own
// upload area.
func (s *UploadService) ManagedName(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || storage.ValidateName(name) != nil {
		return "", false
	}
	return name, true
}

func (s *UploadService) generateName(originalName string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), random, util.SanitizeFilename(originalName))
}

func (s *UploadService) decodeConfig(ctx context.Context, name string) (image.Config, error) {
	blob, err := s.store.Open(ctx, name)
	if err != nil {
		return image.Config{}, err
	}
	defer blob.Close()

	cfg, _, err := image.DecodeConfig(blob)
	return cfg, err
}
