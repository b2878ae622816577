package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/feed/pagecache"
	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/tracing"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const userAgent = "gallery-slideshow/1.0"

// Client retrieves gallery feeds over http
type Client struct {
	httpClient *http.Client
	pages      pagecache.Cache
	log        *logger.Logger
	tracer     *tracing.Tracer
}

// New returns a new feed Client. pages may be nil to disable conditional requests.
func New(httpClient *http.Client, pages pagecache.Cache, log *logger.Logger, tracer *tracing.Tracer) *Client {
	return &Client{
		httpClient: httpClient,
		pages:      pages,
		log:        log,
		tracer:     tracer,
	}
}

// Items fetches the feed at feedURL and returns its entries as gallery items
func (c *Client) Items(ctx context.Context, feedURL string) ([]gallery.Item, error) {
	ctx, span := c.tracer.Start(ctx, "feed.Items")
	defer span.End()

	body, err := c.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, &gallery.FetchError{URL: feedURL, Err: err}
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &gallery.FetchError{URL: feedURL, Err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	items := make([]gallery.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, c.toItem(entry))
	}

	return items, nil
}

// fetchFeed returns the feed document, revalidating a stored copy when there is one
func (c *Client) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	var stored pagecache.Page
	if c.pages != nil {
		stored, err = c.pages.Get(ctx, feedURL)
		if err != nil && !errors.Is(err, pagecache.ErrNotFound) {
			c.log.Warnw("error reading page cache", "url", feedURL, "error", err)
		}

		if stored.ETag != "" {
			req.Header.Set("If-None-Match", stored.ETag)
		}

		if stored.LastModified != "" {
			req.Header.Set("If-Modified-Since", stored.LastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && stored.Body != nil {
		c.log.Debugw("feed not modified", "url", feedURL)
		return stored.Body, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	page := pagecache.Page{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Body:         body,
	}

	if c.pages != nil && page.Cacheable() {
		if err := c.pages.Set(ctx, feedURL, page); err != nil {
			c.log.Warnw("error writing page cache", "url", feedURL, "error", err)
		}
	}

	return body, nil
}

func (c *Client) toItem(entry *gofeed.Item) gallery.Item {
	item := gallery.Item{
		GUID:       entry.GUID,
		Title:      entry.Title,
		Link:       entry.Link,
		Renditions: c.renditions(entry.Extensions),
	}

	switch {
	case entry.PublishedParsed != nil:
		item.Published = *entry.PublishedParsed
	case entry.UpdatedParsed != nil:
		item.Published = *entry.UpdatedParsed
	}

	return item
}

// renditions reads media:content elements, either directly on the item or inside a media:group
func (c *Client) renditions(extensions ext.Extensions) []gallery.Rendition {
	media, ok := extensions["media"]
	if !ok {
		return []gallery.Rendition{}
	}

	contents := append([]ext.Extension{}, media["content"]...)
	for _, group := range media["group"] {
		contents = append(contents, group.Children["content"]...)
	}

	renditions := make([]gallery.Rendition, 0, len(contents))
	for _, content := range contents {
		rendition, err := toRendition(content)
		if err != nil {
			c.log.Debugw("skipping media content", "attrs", content.Attrs, "error", err)
			continue
		}

		renditions = append(renditions, rendition)
	}

	return renditions
}

func toRendition(content ext.Extension) (gallery.Rendition, error) {
	url := content.Attrs["url"]
	if url == "" {
		return gallery.Rendition{}, errors.New("missing url")
	}

	width, err := strconv.Atoi(content.Attrs["width"])
	if err != nil || width <= 0 {
		return gallery.Rendition{}, fmt.Errorf("invalid width %q", content.Attrs["width"])
	}

	height, err := strconv.Atoi(content.Attrs["height"])
	if err != nil || height <= 0 {
		return gallery.Rendition{}, fmt.Errorf("invalid height %q", content.Attrs["height"])
	}

	return gallery.Rendition{URL: url, Width: width, Height: height}, nil
}

// NewHTTPClient returns the http client used for feeds and pages
func NewHTTPClient(tracer *tracing.Tracer, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: tracer.Transport(nil),
	}
}
