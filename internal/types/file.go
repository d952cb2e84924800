package types

import (
	"io"
	"strings"
)

// File is a blob read from or written to storage
type File struct {
	Content io.ReadCloser
	Stat    FileStat
}

type FileStat struct {
	Size        int64
	Name        string
	ContentType string
}

type NoOpReadCloser struct {
	io.Reader
}

func (NoOpReadCloser) Close() error {
	return nil
}

// NewTextFile wraps an in-memory text body as a File
func NewTextFile(name, body string) File {
	return File{
		Content: NoOpReadCloser{Reader: strings.NewReader(body)},
		Stat: FileStat{
			Size:        int64(len(body)),
			Name:        name,
			ContentType: "text/plain",
		},
	}
}

func (f File) GetContentType() string {
	if f.Stat.ContentType == "" {
		return "application/octet-stream"
	}
	return f.Stat.ContentType
}
