package gallery

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/logger"
)

// FeedSource retrieves gallery feeds
type FeedSource interface {
	// Items fetches and parses the feed at feedURL
	Items(ctx context.Context, feedURL string) ([]Item, error)
	// DiscoverFeed finds the RSS feed advertised by a gallery page, returning an empty string if there is none
	DiscoverFeed(ctx context.Context, pageURL string) (string, error)
}

// Options controls filtering and ordering of a loaded gallery
type Options struct {
	Category string
	Year     string
	Shuffle  bool
}

// Loader loads the item list of a gallery
type Loader struct {
	feeds  FeedSource
	site   string
	log    *logger.Logger
	random *rand.Rand
	mu     sync.Mutex
}

// NewLoader returns a new Loader for a photo site, e.g. "www.azriel.photo".
// A seed of 0 seeds the shuffle from the current time.
func NewLoader(feeds FeedSource, site string, log *logger.Logger, seed int64) *Loader {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Loader{
		feeds:  feeds,
		site:   site,
		log:    log,
		random: rand.New(rand.NewSource(seed)),
	}
}

// Load returns the items of the gallery identified by source, filtered and optionally shuffled
func (l *Loader) Load(ctx context.Context, source Source, options Options) ([]Item, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	feedURL, err := l.feedURL(ctx, source)
	if err != nil {
		return nil, err
	}

	if feedURL == "" {
		l.log.Errorw("no rss feed found for gallery", "source", source.String())
		return []Item{}, nil
	}

	l.log.Infow("loading gallery", "source", source.String(), "feed", feedURL)

	items, err := l.feeds.Items(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	if items == nil {
		return []Item{}, nil
	}

	if options.Year != "" {
		items = FilterYear(items, options.Year)
	}

	if options.Category != "" {
		items = FilterCategory(items, options.Category)
	}

	if options.Shuffle {
		items = l.shuffle(items)
	}

	l.log.Infow("loaded gallery", "source", source.String(), "items", len(items))

	return items, nil
}

func (l *Loader) feedURL(ctx context.Context, source Source) (string, error) {
	switch {
	case source.GalleryID != "":
		return GalleryFeedURL(l.site, source.GalleryID), nil
	case source.GalleryURL != "":
		return l.feeds.DiscoverFeed(ctx, source.GalleryURL)
	default:
		return NicknameFeedURL(l.site, source.Nickname), nil
	}
}

// shuffle returns a random permutation of items, leaving items untouched
func (l *Loader) shuffle(items []Item) []Item {
	shuffled := make([]Item, len(items))
	copy(shuffled, items)

	l.mu.Lock()
	l.random.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	l.mu.Unlock()

	return shuffled
}
