package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/cache/redis"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/tracing/test"
	"go.uber.org/zap"
)

func TestInvalidTTL(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	tracer := test.Tracer(log)

	tests := []struct {
		Name string
		TTL  time.Duration
	}{
		{"below a millisecond", 500 * time.Microsecond},
		{"a nanosecond", time.Nanosecond},
		{"negative", -time.Second},
	}

	for _, test := range tests {
		// Nothing listens on this address, the ttl has to be rejected before dialing
		_, err := redis.New(context.Background(), tracer, "127.0.0.1:1", 1, test.TTL)
		if !errors.Is(err, redis.ErrInvalidTTL) {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}
