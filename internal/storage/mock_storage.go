package storage

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

var _ BlobStore = (*MockBlobStore)(nil)

func (m *MockBlobStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	args := m.Called(ctx, name, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlobStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
