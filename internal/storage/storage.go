package storage

import (
	"context"
	"domainkeeper/internal/config"
	"domainkeeper/internal/types"
	"errors"
	"fmt"
)

type (
	Type string

	Storage interface {
		Save(ctx context.Context, location string, f types.File) error
		Get(ctx context.Context, location string) (*types.File, error)
		Ping(ctx context.Context) error
	}
)

const (
	TypeFS Type = "File"
	TypeS3 Type = "S3"
)

var ErrNotFound = errors.New("file not found")

func (t Type) String() string {
	return string(t)
}

// Open builds the backend selected by STORAGE_TYPE
func Open(cfg config.StorageConfig) (Storage, error) {
	switch Type(cfg.Type) {
	case TypeFS, "":
		return NewFileStorage(cfg.Path), nil
	case TypeS3:
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
