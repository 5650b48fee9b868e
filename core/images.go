package core

import (
	"context"
	"io"
)

// ImageStore stores uploaded images and serves them from a public URL.
type ImageStore interface {
	// Upload stores the image read from r under folder and returns its public URL.
	Upload(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	// Delete removes the image previously returned by Upload. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}
