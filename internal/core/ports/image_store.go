package ports

import (
	"context"
	"io"
)

// ImageStore saves uploaded images and returns the public path they are
// served under (e.g. "/uploads/1700000000000-front.jpg").
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, publicPath string) error
	Ping(ctx context.Context) error
}

// ImageJanitor removes images that are no longer referenced, off the request path.
type ImageJanitor interface {
	Enqueue(paths ...string)
}

// ImageSource streams a stored image back by its file name. Stores that are
// not reachable through a static file root (object storage) implement it.
type ImageSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, StoredImageInfo, error)
}

// StoredImageInfo describes an image returned by ImageSource.
type StoredImageInfo struct {
	ContentType string
	Size        int64
}
