package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/twmb/murmur3"
)

// Http timeouts
const (
	ReadTimeout    = 5 * time.Second
	WriteTimeout   = time.Minute
	HandlerTimeout = 45 * time.Second
)

// FetchTimeout is the default timeout for feed, page and image requests
const FetchTimeout = 30 * time.Second

// WaitForInterrupt waits for an interrupt
func WaitForInterrupt(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-ctx.Done():
		return errors.New("canceled")
	}
}

// Serve runs server in the background, calling shutdown if it stops on its own
func Serve(log *logger.Logger, server *http.Server, shutdown func()) {
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Infof("shutting down the http server: %s", err)
			shutdown()
		}
	}()

	log.Infof("http server listening on %s", server.Addr)
}

// Shutdown gracefully stops server, waiting at most WriteTimeout for requests in flight
func Shutdown(log *logger.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warnf("error shutting down: %s", err)
	}
}

// Seed turns a seed string into a random seed. An empty string returns 0, a time based seed.
func Seed(seed string) int64 {
	if seed == "" {
		return 0
	}

	return int64(murmur3.StringSum64(seed))
}
