package gallery

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"
)

// Item is a single entry in a gallery feed
type Item struct {
	GUID       string
	Title      string
	Link       string
	Published  time.Time
	Renditions []Rendition
}

// Rendition is one available size of an item's image
type Rendition struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Key returns the cache key for the rendition, the file name portion of its URL
func (r Rendition) Key() string {
	p := r.URL
	if u, err := url.Parse(r.URL); err == nil && u.Path != "" {
		p = u.Path
	}

	return path.Base(p)
}

// Horizontal reports whether the rendition is at least as wide as it is tall
func (r Rendition) Horizontal() bool {
	return r.Width >= r.Height
}

func (r Rendition) String() string {
	return fmt.Sprintf("%dx%d %s", r.Width, r.Height, r.URL)
}

// Errors
var (
	ErrConfiguration = errors.New("missing gallery configuration")
)

// FetchError is returned when a feed, page or image could not be retrieved
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
