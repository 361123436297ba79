// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taibuivan/springfield/internal/platform/apperr"
)

// Storage persists uploaded files under flat names.
type Storage interface {
	// Save writes the content under name and returns the number of bytes written.
	Save(context context.Context, name string, content io.Reader) (int64, error)

	// Delete removes a stored file. Missing files yield NotFound.
	Delete(context context.Context, name string) error
}

// diskStorage keeps uploads in one local directory.
type diskStorage struct {
	dir string
}

// NewDiskStorage creates the directory when needed.
func NewDiskStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}
	return &diskStorage{dir: dir}, nil
}

/*
Save streams content to a temporary file and renames it into place, so a
reader never observes a partial image.
*/
func (storage *diskStorage) Save(_ context.Context, name string, content io.Reader) (int64, error) {
	temp, err := os.CreateTemp(storage.dir, ".upload-*")
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("media: create temp file: %w", err))
	}
	defer os.Remove(temp.Name())

	written, err := io.Copy(temp, content)
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, apperr.Internal(fmt.Errorf("media: write %s: %w", name, err))
	}

	if err := os.Rename(temp.Name(), filepath.Join(storage.dir, name)); err != nil {
		return 0, apperr.Internal(fmt.Errorf("media: store %s: %w", name, err))
	}
	return written, nil
}

func (storage *diskStorage) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(storage.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return apperr.NotFound("File")
	}
	if err != nil {
		return apperr.Internal(fmt.Errorf("media: delete %s: %w", name, err))
	}
	return nil
}
