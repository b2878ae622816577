package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/DMarby/gallery-slideshow/internal/storage"
)

// Provider implements a local mirror of gallery images, stored under their file name
type Provider struct {
	path string
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return &Provider{
		path,
	}, nil
}

// Get returns the image data for the rendition at location
func (p *Provider) Get(ctx context.Context, location string) ([]byte, error) {
	key := storage.Key(location)
	if key == "." || key == "/" {
		return nil, storage.ErrNotFound
	}

	imageData, err := os.ReadFile(filepath.Join(p.path, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return imageData, nil
}
