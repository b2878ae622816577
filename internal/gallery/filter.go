package gallery

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterYear keeps the items published in the given year.
// Items without a publish time never match.
func FilterYear(items []Item, year string) []Item {
	filtered := []Item{}
	for _, item := range items {
		if item.Published.IsZero() {
			continue
		}

		if strconv.Itoa(item.Published.Year()) == year {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

// FilterCategory keeps the items whose link path starts with the category, e.g. /Travel/2018/Belgium
func FilterCategory(items []Item, category string) []Item {
	filtered := []Item{}
	for _, item := range items {
		if Category(item.Link) == category {
			filtered = append(filtered, item)
		}
	}

	return filtered
}

// Category returns the first path segment of a gallery link, or an empty string
func Category(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	// ["", category, year, gallery name]
	segments := strings.Split(u.Path, "/")
	if len(segments) < 2 {
		return ""
	}

	return segments[1]
}
