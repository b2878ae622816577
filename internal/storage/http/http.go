package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/storage"
)

// Provider downloads images from the photo site
type Provider struct {
	client *http.Client
	log    *logger.Logger
}

// New returns a new Provider instance
func New(client *http.Client, log *logger.Logger) *Provider {
	return &Provider{
		client: client,
		log:    log,
	}
}

// Get downloads the image at location
func (p *Provider) Get(ctx context.Context, location string) ([]byte, error) {
	p.log.Infow("loading image", "url", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &gallery.FetchError{URL: location, Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &gallery.FetchError{URL: location, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &gallery.FetchError{URL: location, Err: storage.ErrNotFound}
	case resp.StatusCode != http.StatusOK:
		return nil, &gallery.FetchError{URL: location, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &gallery.FetchError{URL: location, Err: err}
	}

	return data, nil
}
