package slideshow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/cache/memory"
	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/selection"
	"github.com/DMarby/gallery-slideshow/internal/storage"
	"github.com/DMarby/gallery-slideshow/internal/tracing"
)

// Errors
var (
	ErrEmptyGallery = errors.New("gallery has no items")
)

// Loader loads the items of a gallery
type Loader interface {
	Load(ctx context.Context, source gallery.Source, options gallery.Options) ([]gallery.Item, error)
}

// Config configures a Slideshow
type Config struct {
	// Display size
	Width  int
	Height int

	Source gallery.Source
	// Category and Year filters applied on every load. Shuffle is decided per load.
	Options gallery.Options

	// Policy defaults to selection.ClosestFit
	Policy selection.Policy
	// MaxCacheSize defaults to memory.MaxSize
	MaxCacheSize int64
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("need a display size, got %dx%d: %w", c.Width, c.Height, gallery.ErrConfiguration)
	}

	return c.Source.Validate()
}

// Slideshow walks a gallery, picking the rendition that best fits the display and caching the downloaded images.
// It is safe for concurrent use; every operation runs under a single lock so navigation is applied in order.
type Slideshow struct {
	loader  Loader
	images  *cache.Auto
	memory  *memory.Provider
	policy  selection.Policy
	width   int
	height  int
	source  gallery.Source
	options gallery.Options
	log     *logger.Logger

	mu       sync.Mutex
	items    []gallery.Item
	position int

	// snapshot mirrors items and position for Status, which must not wait for a download
	snapshotMu sync.RWMutex
	snapshot   Status
}

// New creates a Slideshow and loads the gallery, shuffled
func New(ctx context.Context, cfg Config, loader Loader, fetcher storage.Provider, log *logger.Logger, tracer *tracing.Tracer) (*Slideshow, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Policy == nil {
		cfg.Policy = &selection.ClosestFit{}
	}

	if cfg.MaxCacheSize <= 0 {
		cfg.MaxCacheSize = memory.MaxSize
	}

	provider := memory.New(cfg.MaxCacheSize, log)

	s := &Slideshow{
		loader: loader,
		images: &cache.Auto{
			Tracer:   tracer,
			Provider: provider,
			Loader:   fetcher.Get,
		},
		memory:  provider,
		policy:  cfg.Policy,
		width:   cfg.Width,
		height:  cfg.Height,
		source:  cfg.Source,
		options: cfg.Options,
		log:     log,
	}

	log.Infow("starting slideshow",
		"source", cfg.Source.String(),
		"display", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"policy", cfg.Policy.Name(),
	)

	if err := s.loadGallery(ctx, true); err != nil {
		return nil, err
	}

	return s, nil
}

// LoadGallery replaces the gallery with a freshly loaded copy. The position and cache are left alone.
func (s *Slideshow) LoadGallery(ctx context.Context, shuffle bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadGallery(ctx, shuffle)
}

func (s *Slideshow) loadGallery(ctx context.Context, shuffle bool) error {
	options := s.options
	options.Shuffle = shuffle

	items, err := s.loader.Load(ctx, s.source, options)
	if err != nil {
		return fmt.Errorf("error loading gallery: %w", err)
	}

	s.items = items
	s.publish()
	return nil
}

// Reload loads a fresh shuffle of the gallery and starts over from the first item
func (s *Slideshow) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadGallery(ctx, true); err != nil {
		return err
	}

	s.position = 0
	s.publish()
	return nil
}

// SelectRendition picks the rendition of item to show on the display
func (s *Slideshow) SelectRendition(item gallery.Item) (gallery.Rendition, error) {
	rendition, err := s.policy.Select(item.Renditions, s.width, s.height)
	if err != nil {
		s.log.Errorw("no image size match found",
			"item", item.Link,
			"display", fmt.Sprintf("%dx%d", s.width, s.height),
			"renditions", item.Renditions,
		)
		return gallery.Rendition{}, err
	}

	s.log.Debugw("found a match", "item", item.Link, "rendition", rendition)
	return rendition, nil
}

// Bytes returns the image data of a rendition, downloading it on a cache miss
func (s *Slideshow) Bytes(ctx context.Context, rendition gallery.Rendition) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bytes(ctx, rendition)
}

func (s *Slideshow) bytes(ctx context.Context, rendition gallery.Rendition) ([]byte, error) {
	data, err := s.images.Get(ctx, rendition.Key(), rendition.URL)
	if err != nil {
		var fetchErr *gallery.FetchError
		if !errors.As(err, &fetchErr) {
			err = &gallery.FetchError{URL: rendition.URL, Err: err}
		}

		return nil, err
	}

	return data, nil
}

// Current returns the image data for the current item.
// It returns nil and no error if no rendition fits the display, in which case the previous image should stay up.
func (s *Slideshow) Current(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current(ctx)
}

func (s *Slideshow) current(ctx context.Context) ([]byte, error) {
	if len(s.items) == 0 {
		return nil, ErrEmptyGallery
	}

	// An explicit LoadGallery may have shrunk the gallery under us
	if s.position >= len(s.items) {
		s.position = 0
		s.publish()
	}

	rendition, err := s.SelectRendition(s.items[s.position])
	if errors.Is(err, selection.ErrNoMatch) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return s.bytes(ctx, rendition)
}

// Next moves to the next item and returns its image data.
// Moving past the last item reloads the gallery, picking up any new photos, and starts over.
func (s *Slideshow) Next(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position++

	if s.position >= len(s.items) {
		s.position = 0
		if err := s.loadGallery(ctx, true); err != nil {
			s.publish()
			return nil, err
		}
	}

	s.publish()
	return s.current(ctx)
}

// Previous moves to the previous item and returns its image data, wrapping around to the last item
func (s *Slideshow) Previous(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, ErrEmptyGallery
	}

	s.position--

	if s.position < 0 {
		s.position = len(s.items) - 1
	}

	s.publish()
	return s.current(ctx)
}

// Status describes the state of a slideshow
type Status struct {
	Source       string `json:"source"`
	Policy       string `json:"policy"`
	Display      string `json:"display"`
	Position     int    `json:"position"`
	Length       int    `json:"length"`
	Item         string `json:"item,omitempty"`
	Title        string `json:"title,omitempty"`
	CacheBytes   int64  `json:"cache_bytes"`
	CacheEntries int    `json:"cache_entries"`
}

// Status returns the current state of the slideshow. It doesn't wait for downloads in progress.
func (s *Slideshow) Status() Status {
	s.snapshotMu.RLock()
	status := s.snapshot
	s.snapshotMu.RUnlock()

	status.CacheBytes = s.memory.Size()
	status.CacheEntries = s.memory.Len()

	return status
}

// publish updates the snapshot served by Status. Callers must hold mu.
func (s *Slideshow) publish() {
	status := Status{
		Source:   s.source.String(),
		Policy:   s.policy.Name(),
		Display:  fmt.Sprintf("%dx%d", s.width, s.height),
		Position: s.position,
		Length:   len(s.items),
	}

	if s.position < len(s.items) {
		status.Item = s.items[s.position].Link
		status.Title = s.items[s.position].Title
	}

	s.snapshotMu.Lock()
	s.snapshot = status
	s.snapshotMu.Unlock()
}

// CurrentKey returns the cache key of the rendition Current would show, if any
func (s *Slideshow) CurrentKey() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return "", false
	}

	position := s.position
	if position >= len(s.items) {
		position = 0
	}

	rendition, err := s.policy.Select(s.items[position].Renditions, s.width, s.height)
	if err != nil {
		return "", false
	}

	return rendition.Key(), true
}
