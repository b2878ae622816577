package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/api"
	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/health"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/player"
	"github.com/DMarby/gallery-slideshow/internal/slideshow"
	"github.com/DMarby/gallery-slideshow/internal/tracing/test"
	"go.uber.org/zap"

	mockFeed "github.com/DMarby/gallery-slideshow/internal/gallery/mock"
	mockStorage "github.com/DMarby/gallery-slideshow/internal/storage/mock"
)

const (
	site      = "www.azriel.photo"
	galleryID = "159365802_Wp7NDr"
)

var png = []byte("\x89PNG\r\n\x1a\nimage")

func newRouter(t *testing.T, items []gallery.Item, fetcher *mockStorage.Provider) (http.Handler, *player.Player) {
	log := logger.New(zap.FatalLevel)
	t.Cleanup(func() { log.Sync() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	feeds := &mockFeed.FeedSource{
		Feeds: map[string][]gallery.Item{
			gallery.GalleryFeedURL(site, galleryID): items,
		},
	}

	tracer := test.Tracer(log)
	cfg := slideshow.Config{Width: 1920, Height: 1080, Source: gallery.Source{GalleryID: galleryID}}
	s, err := slideshow.New(ctx, cfg, gallery.NewLoader(feeds, site, log, 0), fetcher, log, tracer)
	if err != nil {
		t.Fatal(err)
	}

	p := player.New(s, time.Hour, log)

	checker := &health.Checker{Ctx: ctx, Gallery: func() int { return s.Status().Length }, Log: log}
	checker.Run()

	a := &api.API{
		Player:         p,
		Slideshow:      s,
		HealthChecker:  checker,
		Log:            log,
		Tracer:         tracer,
		HandlerTimeout: time.Minute,
	}

	return a.Router(), p
}

func pngFetcher(items []gallery.Item) *mockStorage.Provider {
	fetcher := &mockStorage.Provider{Data: map[string][]byte{}}
	for _, item := range items {
		fetcher.Data[item.Renditions[0].URL] = png
	}

	return fetcher
}

func TestAPI(t *testing.T) {
	items := mockFeed.Items(3)
	router, _ := newRouter(t, items, pngFetcher(items))

	tests := []struct {
		Name                string
		Method              string
		URL                 string
		ExpectedStatus      int
		ExpectedContentType string
	}{
		{"/frame before anything is shown", "GET", "/frame", http.StatusNotFound, "text/plain; charset=utf-8"},
		{"/next shows an image", "POST", "/next", http.StatusOK, "image/png"},
		{"/frame returns the image on display", "GET", "/frame", http.StatusOK, "image/png"},
		{"/previous shows an image", "POST", "/previous", http.StatusOK, "image/png"},
		{"/reload returns the status", "POST", "/reload", http.StatusOK, "application/json"},
		{"/status returns the status", "GET", "/status", http.StatusOK, "application/json"},
		{"/health returns the health status", "GET", "/health", http.StatusOK, "application/json"},
		{"/next requires POST", "GET", "/next", http.StatusMethodNotAllowed, ""},
		{"unknown page", "GET", "/nothing", http.StatusNotFound, "text/plain; charset=utf-8"},
	}

	for _, test := range tests {
		w := httptest.NewRecorder()
		req, err := http.NewRequest(test.Method, test.URL, nil)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		router.ServeHTTP(w, req)
		if w.Code != test.ExpectedStatus {
			t.Errorf("%s: wrong response code, %#v", test.Name, w.Code)
			continue
		}

		if contentType := w.Header().Get("Content-Type"); contentType != test.ExpectedContentType {
			t.Errorf("%s: wrong content type %s", test.Name, contentType)
		}

		if test.ExpectedContentType == "image/png" {
			body, _ := io.ReadAll(w.Body)
			if string(body) != string(png) {
				t.Errorf("%s: wrong image data", test.Name)
			}
		}

		if w.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: missing request id", test.Name)
		}
	}
}

func TestStatus(t *testing.T) {
	items := mockFeed.Items(3)
	router, p := newRouter(t, items, pngFetcher(items))

	if _, err := p.Next(context.Background()); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/status", nil))

	var status api.Status
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}

	if status.Position != 1 || status.Length != 3 || status.CacheEntries != 1 || status.Shown == nil {
		t.Errorf("wrong status %+v", status)
	}

	if status.Policy != "closest" || status.Display != "1920x1080" {
		t.Errorf("wrong configuration %s %s", status.Policy, status.Display)
	}
}

func TestErrors(t *testing.T) {
	items := mockFeed.Items(1)

	t.Run("fetch errors are reported as bad gateway", func(t *testing.T) {
		fetcher := &mockStorage.Provider{Broken: map[string]bool{items[0].Renditions[0].URL: true}}
		router, _ := newRouter(t, items, fetcher)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/next", nil))

		if w.Code != http.StatusBadGateway {
			t.Errorf("wrong response code, %#v", w.Code)
		}
	})

	t.Run("an empty gallery has nothing to show", func(t *testing.T) {
		router, _ := newRouter(t, []gallery.Item{}, &mockStorage.Provider{})

		for _, url := range []string{"/next", "/previous"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", url, nil))

			if w.Code != http.StatusNotFound {
				t.Errorf("%s: wrong response code, %#v", url, w.Code)
			}
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("wrong health response code, %#v", w.Code)
		}
	})
}
