package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"golang.org/x/net/html"
)

// DiscoverFeed fetches a gallery page and returns the RSS feed it advertises through
// <link rel="alternate" type="application/rss+xml">, resolved against the page's scheme and host.
// An empty string is returned if the page has no such link.
func (c *Client) DiscoverFeed(ctx context.Context, pageURL string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "feed.DiscoverFeed")
	defer span.End()

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid gallery url %q: %w", pageURL, gallery.ErrConfiguration)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &gallery.FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &gallery.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	c.log.Infow("fetched gallery page", "url", pageURL, "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return "", &gallery.FetchError{URL: pageURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", &gallery.FetchError{URL: pageURL, Err: err}
	}

	href := findFeedLink(doc)
	if href == "" {
		return "", nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		c.log.Warnw("invalid rss link", "url", pageURL, "href", href)
		return "", nil
	}

	site := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	return site.ResolveReference(ref).String(), nil
}

// findFeedLink returns the href of the first RSS alternate link in the document
func findFeedLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		if strings.EqualFold(attr(n, "rel"), "alternate") && strings.EqualFold(attr(n, "type"), "application/rss+xml") {
			if href := strings.TrimSpace(attr(n, "href")); href != "" {
				return href
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href := findFeedLink(child); href != "" {
			return href
		}
	}

	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}
