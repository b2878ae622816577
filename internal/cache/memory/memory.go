package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MaxSize is the default maximum size of cached images, in bytes
const MaxSize = 128 * 1024 * 1024

var (
	cacheSizeBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slideshow_cache_size_bytes",
		Help: "Total size of the images in the memory cache.",
	})
	cacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slideshow_cache_entries",
		Help: "Number of images in the memory cache.",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slideshow_cache_evictions_total",
		Help: "Number of images evicted from the memory cache.",
	})
)

type entry struct {
	data  []byte
	index int // position in Provider.keys
}

// Provider implements a size bounded in-memory cache.
// Once the total size reaches the maximum, keys picked uniformly at random are evicted until it's below it again.
type Provider struct {
	maxSize int64
	size    int64
	entries map[string]*entry
	keys    []string
	random  *rand.Rand
	log     *logger.Logger
	mutex   sync.Mutex
}

// New returns a new Provider instance holding at most maxSize bytes
func New(maxSize int64, log *logger.Logger) *Provider {
	return &Provider{
		maxSize: maxSize,
		entries: make(map[string]*entry),
		random:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log,
	}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	e, exists := p.entries[key]
	if !exists {
		return nil, cache.ErrNotFound
	}

	return e.data, nil
}

// Set adds an object to the cache, evicting random objects if the cache is full
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if e, exists := p.entries[key]; exists {
		p.size += int64(len(data)) - int64(len(e.data))
		e.data = data
	} else {
		p.entries[key] = &entry{data: data, index: len(p.keys)}
		p.keys = append(p.keys, key)
		p.size += int64(len(data))
	}

	p.log.Debugw("cached image", "key", key, "bytes", len(data), "cache-mb", float64(p.size)/1024/1024)

	p.evict()
	p.updateMetrics()

	return nil
}

// evict removes random entries while the cache is at or over its maximum size.
// Callers must hold the mutex.
func (p *Provider) evict() {
	for p.size >= p.maxSize && len(p.keys) > 0 {
		key := p.keys[p.random.Intn(len(p.keys))]
		if !p.remove(key) {
			// keys and entries disagree, stop instead of spinning
			p.log.Errorw("evicted key missing from cache", "key", key)
			return
		}

		cacheEvictions.Inc()
		p.log.Warnw("evicted image from cache", "key", key, "cache-mb", float64(p.size)/1024/1024)
	}
}

// remove deletes a key in constant time by moving the last key into its slot
func (p *Provider) remove(key string) bool {
	e, exists := p.entries[key]
	if !exists {
		return false
	}

	last := len(p.keys) - 1
	moved := p.keys[last]
	p.keys[e.index] = moved
	p.entries[moved].index = e.index
	p.keys = p.keys[:last]

	delete(p.entries, key)
	p.size -= int64(len(e.data))

	return true
}

func (p *Provider) updateMetrics() {
	cacheSizeBytes.Set(float64(p.size))
	cacheEntries.Set(float64(len(p.keys)))
}

// Size returns the total size of the cached objects in bytes
func (p *Provider) Size() int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.size
}

// Len returns the number of cached objects
func (p *Provider) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.keys)
}

// Keys returns the cached keys, in no particular order
func (p *Provider) Keys() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return append([]string(nil), p.keys...)
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
