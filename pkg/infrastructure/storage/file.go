package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

type fileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage directory %s", dir)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := loadSlot(s.path(slot))
	if os.IsNotExist(errors.Cause(err)) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *fileStore) Set(_ context.Context, slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveSlot(s.path(slot), slot, value)
}

func (s *fileStore) Remove(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(slot))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove slot %s", slot)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

func (s *fileStore) path(slot string) string {
	return filepath.Join(s.dir, filepath.Base(slot)+".json")
}

func loadSlot(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// saveSlot writes the value as given through a temp file so a crash never
// leaves half a slot.
func saveSlot(filePath, slot string, value []byte) error {
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return errors.Wrapf(err, "write slot %s", slot)
	}
	return errors.Wrapf(os.Rename(tmp, filePath), "replace slot %s", slot)
}
