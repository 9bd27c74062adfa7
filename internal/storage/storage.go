// Package storage uploads rendered charts to an object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sportify-app/apiserver/config"
)

const (
	BackendMinio = "minio"
	BackendGCS   = "gcs"
)

var errMissingSetting = errors.New("missing storage setting")

// ObjectStorage defines the object operations every backend provides.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
	Close() error
}

// Storage wraps an ObjectStorage backend with content-addressed uploads.
type Storage struct {
	backend ObjectStorage
}

func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

// New builds the backend selected by cfg.Backend and makes sure its bucket
// exists. It returns nil, nil when no backend is configured.
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	var (
		backend ObjectStorage
		err     error
	)
	switch cfg.Backend {
	case "":
		return nil, nil
	case BackendMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case BackendGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return NewStorage(backend), nil
}

// PutIfAbsent uploads data under key unless an object is already there.
// Keys embed a content fingerprint, so an existing object has the same
// bytes. It reports whether an upload happened.
func (s *Storage) PutIfAbsent(ctx context.Context, key string, data []byte, contentType string) (bool, error) {
	exists, err := s.backend.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	if exists {
		return false, nil
	}
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return false, fmt.Errorf("put %s: %w", key, err)
	}
	return true, nil
}

func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	return s.backend.Close()
}
