package storage

import (
	"context"
	"domainkeeper/internal/config"
	"domainkeeper/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

func TestFileStorage_SaveGet(t *testing.T) {
	s := NewFileStorage(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Save(ctx, "whois/1-100.txt", types.NewTextFile("status.txt", "Domain Name: EXAMPLE.COM")))

	f, err := s.Get(ctx, "whois/1-100.txt")
	require.NoError(t, err)
	defer f.Content.Close()

	body, err := io.ReadAll(f.Content)
	require.NoError(t, err)
	assert.Equal(t, "Domain Name: EXAMPLE.COM", string(body))
	assert.Equal(t, int64(len(body)), f.Stat.Size)
}

func TestFileStorage_Errors(t *testing.T) {
	s := NewFileStorage(t.TempDir())
	ctx := context.Background()

	_, err := s.Get(ctx, "whois/missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Save(ctx, "../escape.txt", types.NewTextFile("x", "x"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Type: "File", Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &fileStorage{}, s)

	s, err = Open(config.StorageConfig{Type: "S3", Endpoint: "https://s3.example.com", Bucket: "domainkeeper"})
	require.NoError(t, err)
	assert.IsType(t, &objectStorage{}, s)

	_, err = Open(config.StorageConfig{Type: "FTP"})
	assert.Error(t, err)
}

func TestWhoisLocation(t *testing.T) {
	assert.Equal(t, "whois/7-1700000000.txt", WhoisLocation(7, time.Unix(1700000000, 0)))
}
