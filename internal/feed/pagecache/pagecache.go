package pagecache

import (
	"context"
	"errors"
)

// Cache is a key-value store mapping feed URLs to the last retrieved document
type Cache interface {
	Get(ctx context.Context, url string) (Page, error)
	Set(ctx context.Context, url string, page Page) error
	Erase(ctx context.Context, url string) error
	Clear(ctx context.Context) error
}

// Page is a stored feed document along with the validators needed for a conditional request
type Page struct {
	ETag         string
	LastModified string
	Body         []byte
}

// Cacheable reports whether the server gave us anything to revalidate the page with
func (p Page) Cacheable() bool {
	return p.ETag != "" || p.LastModified != ""
}

// Errors
var (
	ErrNotFound = errors.New("page not found in cache")
)
