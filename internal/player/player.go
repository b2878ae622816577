package player

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/logger"
)

// DefaultInterval is how long each image is displayed
const DefaultInterval = 45 * time.Second

// ErrNoFrame is returned before the first image has been displayed
var ErrNoFrame = errors.New("nothing displayed yet")

// Slideshow is the source of images for the player
type Slideshow interface {
	Current(ctx context.Context) ([]byte, error)
	Next(ctx context.Context) ([]byte, error)
	Previous(ctx context.Context) ([]byte, error)
	Reload(ctx context.Context) error
}

// Frame is an image on display
type Frame struct {
	Data        []byte
	ContentType string
	Shown       time.Time
}

// Player advances a slideshow on a timer and keeps the last displayed frame
type Player struct {
	slideshow Slideshow
	interval  time.Duration
	log       *logger.Logger
	reset     chan struct{}

	// nav is held from asking the slideshow for an image until it is on display
	nav sync.Mutex

	mu    sync.RWMutex
	frame *Frame
}

// New creates a player, an interval of 0 uses DefaultInterval
func New(slideshow Slideshow, interval time.Duration, log *logger.Logger) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Player{
		slideshow: slideshow,
		interval:  interval,
		log:       log,
		reset:     make(chan struct{}, 1),
	}
}

// Run displays the current image and then advances on every tick until the context is done
func (p *Player) Run(ctx context.Context) {
	p.nav.Lock()
	p.show(p.slideshow.Current(ctx))
	p.nav.Unlock()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Infow("player started", "interval", p.interval.String())

	for {
		select {
		case <-ticker.C:
			p.advance(ctx)
		case <-p.reset:
			ticker.Reset(p.interval)
		case <-ctx.Done():
			p.log.Infow("player stopped")
			return
		}
	}
}

// Frame returns the frame on display
func (p *Player) Frame() (Frame, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.frame == nil {
		return Frame{}, ErrNoFrame
	}

	return *p.frame, nil
}

// Next skips to the next image
func (p *Player) Next(ctx context.Context) (Frame, error) {
	p.resetTimer()
	return p.advance(ctx)
}

func (p *Player) advance(ctx context.Context) (Frame, error) {
	p.nav.Lock()
	defer p.nav.Unlock()

	return p.show(p.slideshow.Next(ctx))
}

// Previous goes back to the previous image
func (p *Player) Previous(ctx context.Context) (Frame, error) {
	p.resetTimer()

	p.nav.Lock()
	defer p.nav.Unlock()

	return p.show(p.slideshow.Previous(ctx))
}

// Reload reloads the gallery and displays its first image
func (p *Player) Reload(ctx context.Context) (Frame, error) {
	p.resetTimer()

	p.nav.Lock()
	defer p.nav.Unlock()

	if err := p.slideshow.Reload(ctx); err != nil {
		p.log.Errorw("error reloading gallery", "error", err)
		return Frame{}, err
	}

	return p.show(p.slideshow.Current(ctx))
}

// show puts data on display. Errors and missing images leave the previous frame up.
func (p *Player) show(data []byte, err error) (Frame, error) {
	if err != nil {
		p.log.Errorw("error getting image", "error", err)
		return Frame{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if data == nil {
		p.log.Infow("no image to display, keeping the previous frame")
		if p.frame == nil {
			return Frame{}, ErrNoFrame
		}

		return *p.frame, nil
	}

	p.frame = &Frame{
		Data:        data,
		ContentType: http.DetectContentType(data),
		Shown:       time.Now(),
	}

	p.log.Debugw("displaying image", "bytes", len(data), "content-type", p.frame.ContentType)
	return *p.frame, nil
}

func (p *Player) resetTimer() {
	select {
	case p.reset <- struct{}{}:
	default:
	}
}
