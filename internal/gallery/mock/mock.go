package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
)

// FeedSource is a mock feed source serving fixed items
type FeedSource struct {
	// Feeds maps feed URLs to their items, unknown URLs return an error
	Feeds map[string][]gallery.Item
	// Pages maps gallery page URLs to the feed URL they advertise
	Pages map[string]string

	mu       sync.Mutex
	requests []string
}

// Items returns the items of a feed
func (f *FeedSource) Items(ctx context.Context, feedURL string) ([]gallery.Item, error) {
	f.mu.Lock()
	f.requests = append(f.requests, feedURL)
	f.mu.Unlock()

	items, ok := f.Feeds[feedURL]
	if !ok {
		return nil, &gallery.FetchError{URL: feedURL, Err: fmt.Errorf("unknown feed")}
	}

	return items, nil
}

// DiscoverFeed returns the feed advertised by a page
func (f *FeedSource) DiscoverFeed(ctx context.Context, pageURL string) (string, error) {
	return f.Pages[pageURL], nil
}

// Requests returns the feed URLs requested so far
func (f *FeedSource) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requests...)
}

// Items returns n items with one 1920x1080 rendition each, named photo-0.jpg, photo-1.jpg, ...
func Items(n int) []gallery.Item {
	items := make([]gallery.Item, n)
	for i := range items {
		items[i] = gallery.Item{
			GUID: fmt.Sprintf("%d", i),
			Link: fmt.Sprintf("https://example.com/Travel/2018/Gallery-%d", i),
			Renditions: []gallery.Rendition{
				{URL: fmt.Sprintf("https://photos.example.com/photo-%d.jpg", i), Width: 1920, Height: 1080},
			},
		}
	}

	return items
}
