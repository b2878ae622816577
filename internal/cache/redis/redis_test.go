//go:build integration
// +build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/cache/redis"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/tracing/test"
	"github.com/mediocregopher/radix/v4"
	"go.uber.org/zap"
)

const (
	address  = "127.0.0.1:6380"
	poolSize = 10
)

func TestRedis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.New(zap.ErrorLevel)
	defer log.Sync()

	tracer := test.Tracer(log)

	provider, err := redis.New(ctx, tracer, address, poolSize, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	cfg := radix.PoolConfig{}
	client, err := cfg.New(ctx, "tcp", address)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	t.Run("get item", func(t *testing.T) {
		provider.Set(ctx, "IMG_1234-X3.jpg", []byte("bar"))

		data, err := provider.Get(ctx, "IMG_1234-X3.jpg")
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "bar" {
			t.Fatal("wrong data")
		}
	})

	t.Run("items expire", func(t *testing.T) {
		var ttl int
		if err := client.Do(ctx, radix.Cmd(&ttl, "TTL", "slideshow:image:IMG_1234-X3.jpg")); err != nil {
			t.Fatal(err)
		}

		if ttl <= 0 || ttl > 3600 {
			t.Errorf("wrong ttl %d", ttl)
		}
	})

	t.Run("get nonexistant item", func(t *testing.T) {
		_, err := provider.Get(ctx, "notfound")
		if err != cache.ErrNotFound {
			t.Fatalf("wrong error %s", err)
		}
	})

	// Cleanup
	if err := client.Do(ctx, radix.Cmd(nil, "FLUSHALL")); err != nil {
		t.Fatal(err)
	}
}
