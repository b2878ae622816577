package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/storage"
)

// Provider implements a mock image storage.
// Every location returns its own URL as image data, unless it's listed in Data or Broken.
type Provider struct {
	Data   map[string][]byte
	Broken map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

// Get returns the image data for a location
func (p *Provider) Get(ctx context.Context, location string) ([]byte, error) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[location]++
	p.mu.Unlock()

	if p.Broken[location] {
		return nil, &gallery.FetchError{URL: location, Err: fmt.Errorf("connection reset")}
	}

	if data, ok := p.Data[location]; ok {
		if data == nil {
			return nil, storage.ErrNotFound
		}

		return data, nil
	}

	return []byte(location), nil
}

// Calls returns how many times a location was requested
func (p *Provider) Calls(location string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls[location]
}

// TotalCalls returns how many requests were made
func (p *Provider) TotalCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, n := range p.calls {
		total += n
	}

	return total
}
