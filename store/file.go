package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	filePerm = 0o600
	dirPerm  = 0o750
)

// File stores each id as a file. With a base directory, ids are relative
// paths under it; without one, ids are used as paths directly.
type File struct {
	baseDir string
}

// NewFileSink returns a File sink rooted at baseDir. An empty baseDir means
// ids are taken as given.
func NewFileSink(baseDir string) *File {
	return &File{baseDir: baseDir}
}

func (f *File) path(id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}

	if f.baseDir == "" {
		return id, nil
	}

	if !filepath.IsLocal(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return filepath.Join(f.baseDir, id), nil
}

// WriteAll replaces the file's content with data, creating parent
// directories as needed.
func (f *File) WriteAll(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := f.path(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", id, err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %q: %w", id, err)
	}

	return nil
}

// ReadAll returns the file's content.
func (f *File) ReadAll(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to read %q: %w", id, err)
	}

	return data, nil
}
