package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/tracing"
	"github.com/mediocregopher/radix/v4"
)

const keyPrefix = "slideshow:image:"

// ErrInvalidTTL is returned for expiry times redis can't represent
var ErrInvalidTTL = errors.New("ttl must be 0 or at least a millisecond")

// Provider implements a redis cache, shared between slideshows and surviving restarts
type Provider struct {
	client radix.Client
	tracer *tracing.Tracer
	ttl    time.Duration
}

// New returns a new Provider instance. Images expire after ttl, or never if ttl is 0.
func New(ctx context.Context, tracer *tracing.Tracer, address string, poolSize int, ttl time.Duration) (*Provider, error) {
	if ttl < 0 || (ttl > 0 && ttl < time.Millisecond) {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidTTL, ttl)
	}

	cfg := radix.PoolConfig{
		Size: poolSize,
	}

	client, err := cfg.New(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: client,
		tracer: tracer,
		ttl:    ttl,
	}, nil
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Get")
	defer span.End()

	mn := radix.Maybe{Rcv: &data}
	err = p.client.Do(ctx, radix.Cmd(&mn, "GET", keyPrefix+key))
	if err != nil {
		return nil, err
	}

	if mn.Null {
		return nil, cache.ErrNotFound
	}

	return
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Set")
	defer span.End()

	if p.ttl > 0 {
		return p.client.Do(ctx, radix.FlatCmd(nil, "SET", keyPrefix+key, data, "PX", strconv.FormatInt(p.ttl.Milliseconds(), 10)))
	}

	return p.client.Do(ctx, radix.FlatCmd(nil, "SET", keyPrefix+key, data))
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {
	p.client.Close()
}
