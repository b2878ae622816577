package mock

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by every call to a broken Provider
var ErrUnavailable = errors.New("cache unavailable")

// Provider is a cache that is always unavailable, e.g. an unreachable redis
type Provider struct{}

// Get always fails
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	return nil, ErrUnavailable
}

// Set always fails
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	return ErrUnavailable
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
