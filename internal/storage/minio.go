package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"go-storefront/pkg/apierror"
)

// minioAPI is the subset of *minio.Client used here; tests substitute a fake.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}

func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}

func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := w.c.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

var _ BlobStore = (*MinIO)(nil)

// MinIO stores blobs as objects in a single bucket.
type MinIO struct {
	api    minioAPI
	bucket string
}

func NewMinIO(ctx context.Context, client *minio.Client, bucket string) (*MinIO, error) {
	return NewMinIOWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

// NewMinIOWithAPI creates the bucket when it does not exist yet.
func NewMinIOWithAPI(ctx context.Context, api minioAPI, bucket string) (*MinIO, error) {
	s := &MinIO{api: api, bucket: bucket}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", bucket, err)
	}

	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return s, nil
}

func (s *MinIO) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(name))}
	info, err := s.api.PutObject(ctx, s.bucket, name, r, -1, opts)
	if err != nil {
		return 0, fmt.Errorf("put object %q: %w", name, err)
	}

	return info.Size, nil
}

// Open stats the object first because GetObject only reports a missing key
// on the first read.
func (s *MinIO) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := s.api.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return nil, apierror.NotFound("file", name)
		}
		return nil, fmt.Errorf("stat object %q: %w", name, err)
	}

	obj, err := s.api.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", name, err)
	}

	return obj, nil
}

func (s *MinIO) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := s.api.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", name, err)
	}

	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
