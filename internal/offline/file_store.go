package offline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore implements KeyValueStore with one JSON file per key under a directory.
type FileStore struct {
	rootDir string
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{
		rootDir: directory,
	}
}

func (f *FileStore) filePath(key string) string {
	return filepath.Join(f.rootDir, key+".json")
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	contents, err := os.ReadFile(f.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", key, err)
	}
	return contents, nil
}

// Set writes to a temporary file first and renames it, so readers never see a partial value.
func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.rootDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", f.rootDir, err)
	}

	file, err := os.CreateTemp(f.rootDir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := file.Write(value); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, f.filePath(key)); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(f.filePath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove(%s) > %w", key, err)
	}
	return nil
}
