package storage

import (
	"context"
	"errors"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/gallery"
)

// Provider is an interface for retrieving image data by its location, the URL of a rendition
type Provider interface {
	Get(ctx context.Context, location string) ([]byte, error)
}

// Errors
var (
	ErrNotFound = errors.New("image does not exist")
)

// Key returns the name an image is stored under in mirrors and caches
func Key(location string) string {
	return gallery.Rendition{URL: location}.Key()
}

// Chain tries each provider in turn, moving on to the next one when an image is not found
type Chain []Provider

// Get returns the image data from the first provider that has it
func (c Chain) Get(ctx context.Context, location string) ([]byte, error) {
	err := ErrNotFound
	for _, provider := range c {
		var data []byte
		data, err = provider.Get(ctx, location)
		if err == nil {
			return data, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return nil, err
}

// Cached puts a persistent cache, such as redis, in front of a provider
type Cached struct {
	auto *cache.Auto
}

// NewCached returns a provider that loads images from provider through the cache
func NewCached(auto *cache.Auto, provider Provider) *Cached {
	auto.Loader = provider.Get
	return &Cached{auto}
}

// Get returns the image data from the cache, loading it on a miss
func (c *Cached) Get(ctx context.Context, location string) ([]byte, error) {
	return c.auto.Get(ctx, Key(location), location)
}
