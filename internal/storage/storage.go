// Package storage persists uploaded binary assets such as profile images.
package storage

import (
	"context"
	"errors"
)

var (
	ErrUpload              = errors.New("asset upload failed")
	ErrUploadNotConfigured = errors.New("asset storage is not configured")
)

// Uploader stores a buffered asset under folder and returns its public URL.
type Uploader interface {
	Store(ctx context.Context, data []byte, folder, contentType string) (string, error)
}

// Disabled is the Uploader used when no object storage is configured.
type Disabled struct{}

func (Disabled) Store(context.Context, []byte, string, string) (string, error) {
	return "", ErrUploadNotConfigured
}
