package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-storefront/internal/database"
	"go-storefront/internal/repository/sqlite"
	"go-storefront/internal/storage"
)

func pngBytes(t *testing.T, width int, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() {
		_ = database.CloseSQLite(db)
	})
	return db
}

func newTestUploads(t *testing.T) (*UploadService, string) {
	t.Helper()

	root := t.TempDir()
	store, err := storage.NewLocal(root)
	require.NoError(t, err)
	return NewUploadService(store, "http://shop.test", "/uploads", nil), root
}
