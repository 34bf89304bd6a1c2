package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid record key")

const (
	fileExt  = ".json"
	dirPerm  = 0o750
	filePerm = 0o600
)

// FileStorage keeps one JSON file per record in a single directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("can't create storage dir: %w", err)
	}

	return &FileStorage{dir: dir}, nil
}

// Get - reads a record. A key that could never have been written is simply
// not found.
func (that *FileStorage) Get(_ context.Context, key string) ([]byte, error) {
	path, err := that.path(key)
	if err != nil {
		return nil, ErrNotFound
	}

	value, err := os.ReadFile(path) //nolint: gosec // path is built from a validated key
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return value, nil
}

// Put - writes a temp file next to the target, syncs it and renames it over
// the target, so a crash leaves either the old record or the new one.
func (that *FileStorage) Put(_ context.Context, key string, value []byte) error {
	path, err := that.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(that.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", key, err)
	}

	if err = os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", key, err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}

	return nil
}

func (that *FileStorage) Delete(_ context.Context, key string) error {
	path, err := that.path(key)
	if err != nil {
		return ErrNotFound
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (that *FileStorage) Close() error {
	return nil
}

func (that *FileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return filepath.Join(that.dir, key+fileExt), nil
}
