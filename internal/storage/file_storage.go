package storage

import (
	"context"
	"domainkeeper/internal/types"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type fileStorage struct {
	root string
}

// NewFileStorage keeps files below root
func NewFileStorage(root string) Storage {
	return &fileStorage{root: root}
}

func (f fileStorage) Save(ctx context.Context, location string, file types.File) error {
	path, err := f.path(location)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	fi, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = fi.Close()
	}()

	if _, err := io.Copy(fi, file.Content); err != nil {
		return err
	}
	return fi.Sync()
}

func (f fileStorage) Get(ctx context.Context, location string) (*types.File, error) {
	path, err := f.path(location)
	if err != nil {
		return nil, err
	}

	fi, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	stat, err := fi.Stat()
	if err != nil {
		_ = fi.Close()
		return nil, err
	}

	return &types.File{
		Content: fi,
		Stat:    types.FileStat{Size: stat.Size(), Name: stat.Name()},
	}, nil
}

func (f fileStorage) Ping(ctx context.Context) error {
	return os.MkdirAll(f.root, 0700)
}

func (f fileStorage) path(location string) (string, error) {
	clean := filepath.Clean("/" + location)
	if clean == "/" || strings.Contains(location, "..") {
		return "", fmt.Errorf("invalid location: %s", location)
	}
	return filepath.Join(f.root, clean), nil
}
