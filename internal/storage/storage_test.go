package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sportify-app/apiserver/config"
)

type memoryBackend struct {
	objects map[string][]byte
	puts    int
}

func (m *memoryBackend) EnsureBucket(context.Context) error { return nil }

func (m *memoryBackend) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memoryBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.puts++
	return nil
}

func (m *memoryBackend) Bucket() string { return "charts" }
func (m *memoryBackend) Close() error   { return nil }

func TestPutIfAbsentUploadsOnce(t *testing.T) {
	backend := &memoryBackend{objects: map[string][]byte{}}
	s := NewStorage(backend)
	ctx := context.Background()

	uploaded, err := s.PutIfAbsent(ctx, "charts/1/pie-abc.png", []byte("png"), "image/png")
	if err != nil || !uploaded {
		t.Fatalf("first put: uploaded=%v err=%v", uploaded, err)
	}
	uploaded, err = s.PutIfAbsent(ctx, "charts/1/pie-abc.png", []byte("png"), "image/png")
	if err != nil || uploaded {
		t.Fatalf("second put: uploaded=%v err=%v", uploaded, err)
	}
	if backend.puts != 1 {
		t.Fatalf("expected a single upload, got %d", backend.puts)
	}
}

func TestNewWithoutBackend(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{})
	if err != nil || s != nil {
		t.Fatalf("expected no storage, got %v %v", s, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing nil storage: %v", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNewMinioRequiresSettings(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Backend: BackendMinio})
	if !errors.Is(err, errMissingSetting) {
		t.Fatalf("expected missing setting error, got %v", err)
	}
}
