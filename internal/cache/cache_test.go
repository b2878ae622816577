package cache_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/cache/memory"
	"github.com/DMarby/gallery-slideshow/internal/cache/mock"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/tracing/test"
	"go.uber.org/zap"
)

func TestAuto(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	tracer := test.Tracer(log)
	ctx := context.Background()

	var loads int32
	loader := func(ctx context.Context, location string) ([]byte, error) {
		atomic.AddInt32(&loads, 1)
		if location == "https://photos.example.com/broken.jpg" {
			return nil, fmt.Errorf("broken")
		}

		return []byte(location), nil
	}

	auto := &cache.Auto{
		Tracer:   tracer,
		Provider: memory.New(memory.MaxSize, log),
		Loader:   loader,
	}

	t.Run("loads on a miss and serves hits from the cache", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			data, err := auto.Get(ctx, "a.jpg", "https://photos.example.com/a.jpg")
			if err != nil {
				t.Fatal(err)
			}

			if string(data) != "https://photos.example.com/a.jpg" {
				t.Fatalf("wrong data %s", data)
			}
		}

		if atomic.LoadInt32(&loads) != 1 {
			t.Errorf("loaded %d times", loads)
		}
	})

	t.Run("returns loader errors", func(t *testing.T) {
		_, err := auto.Get(ctx, "broken.jpg", "https://photos.example.com/broken.jpg")
		if err == nil || err.Error() != "broken" {
			t.Fatalf("wrong error %v", err)
		}

		if _, err := auto.Provider.Get(ctx, "broken.jpg"); err != cache.ErrNotFound {
			t.Errorf("failed load was cached")
		}
	})

	t.Run("collapses concurrent misses", func(t *testing.T) {
		atomic.StoreInt32(&loads, 0)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				auto.Get(ctx, "b.jpg", "https://photos.example.com/b.jpg")
			}()
		}
		wg.Wait()

		if n := atomic.LoadInt32(&loads); n < 1 || n > 10 {
			t.Errorf("loaded %d times", n)
		}

		data, err := auto.Provider.Get(ctx, "b.jpg")
		if err != nil || string(data) != "https://photos.example.com/b.jpg" {
			t.Errorf("wrong cached data %s %v", data, err)
		}
	})

	t.Run("returns provider errors", func(t *testing.T) {
		broken := &cache.Auto{Tracer: tracer, Provider: &mock.Provider{}, Loader: loader}
		_, err := broken.Get(ctx, "a.jpg", "https://photos.example.com/a.jpg")
		if err != mock.ErrUnavailable {
			t.Fatalf("wrong error %v", err)
		}
	})
}
