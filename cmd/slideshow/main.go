package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/api"
	"github.com/DMarby/gallery-slideshow/internal/cache"
	"github.com/DMarby/gallery-slideshow/internal/cache/redis"
	"github.com/DMarby/gallery-slideshow/internal/cmd"
	"github.com/DMarby/gallery-slideshow/internal/feed"
	"github.com/DMarby/gallery-slideshow/internal/feed/pagecache"
	"github.com/DMarby/gallery-slideshow/internal/feed/pagecache/sqlite"
	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/health"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/metrics"
	"github.com/DMarby/gallery-slideshow/internal/player"
	"github.com/DMarby/gallery-slideshow/internal/selection"
	"github.com/DMarby/gallery-slideshow/internal/slideshow"
	"github.com/DMarby/gallery-slideshow/internal/storage"
	fileStorage "github.com/DMarby/gallery-slideshow/internal/storage/file"
	httpStorage "github.com/DMarby/gallery-slideshow/internal/storage/http"
	"github.com/DMarby/gallery-slideshow/internal/storage/spaces"
	"github.com/DMarby/gallery-slideshow/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

// Comandline flags
var (
	// Global
	listen        = flag.String("listen", ":8080", "listen address")
	metricsListen = flag.String("metrics-listen", "127.0.0.1:8082", "metrics listen address")
	loglevel      = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")
	tracingOTLP   = flag.Bool("tracing", false, "export traces over otlp, configured through the OTEL_EXPORTER_OTLP_* environment variables")

	// Gallery
	site       = flag.String("site", "www.azriel.photo", "photo site hosting the gallery")
	galleryID  = flag.String("gallery-id", "", "id of the gallery to show")
	galleryURL = flag.String("gallery-url", "", "url of the gallery page to show, used when no gallery id is set")
	nickname   = flag.String("nickname", "", "show the recent photos of a site user, used when no gallery is set")
	category   = flag.String("category", "", "only show photos from galleries in this category")
	year       = flag.String("year", "", "only show photos published this year")
	seed       = flag.String("seed", "", "seed for shuffling the gallery, random if empty")

	// Feed
	feedCachePath = flag.String("feed-cache-path", "", "path to a sqlite database for caching feeds, disabled if empty")
	fetchTimeout  = flag.Duration("fetch-timeout", cmd.FetchTimeout, "timeout for feed, page and image requests")

	// Display
	width     = flag.Int("width", 1920, "display width")
	height    = flag.Int("height", 1080, "display height")
	policy    = flag.String("selection", "closest", "how to pick the image size for the display (closest, tolerance)")
	downscale = flag.Bool("downscale", false, "only pick image sizes at least as large as the display")
	interval  = flag.Duration("interval", player.DefaultInterval, "how long to show each image")

	// Cache
	cacheMaxSize = flag.Int64("cache-max-size", 0, "maximum size of the in-memory image cache in bytes (default 128MiB)")
	cacheBackend = flag.String("cache", "memory", "which cache to keep downloaded images in (memory, redis)")

	// Cache - Redis
	cacheRedisAddress  = flag.String("cache-redis-address", "redis://127.0.0.1:6379", "redis address, may contain authentication details")
	cacheRedisPoolSize = flag.Int("cache-redis-pool-size", 10, "redis connection pool size")
	cacheRedisTTL      = flag.Duration("cache-redis-ttl", 7*24*time.Hour, "how long images are kept in redis, 0 to keep them forever")

	// Storage
	storageMirror = flag.String("storage-mirror", "none", "mirror to try before downloading images from the site (none, file, spaces)")

	// Storage - File
	storageFilePath = flag.String("storage-file-path", "./photos", "path to the local mirror")

	// Storage - Spaces
	storageSpacesSpace          = flag.String("storage-spaces-space", "", "digitalocean space to use")
	storageSpacesEndpoint       = flag.String("storage-spaces-endpoint", "", "spaces endpoint")
	storageSpacesAccessKey      = flag.String("storage-spaces-access-key", "", "spaces access key")
	storageSpacesSecretKey      = flag.String("storage-spaces-secret-key", "", "spaces secret key")
	storageSpacesPrefix         = flag.String("storage-spaces-prefix", "", "prefix of the images in the space")
	storageSpacesForcePathStyle = flag.Bool("storage-spaces-force-path-style", false, "use path style addressing, for s3 compatible servers")

	// Healthcheck
	healthCheckLocation = flag.String("health-check-location", "", "image location to request from the mirror to check storage health")
)

func main() {
	// Parse environment variables
	envy.Parse("SLIDESHOW")

	// Parse commandline flags
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	// Set GOMAXPROCS
	maxprocs.Set(maxprocs.Logger(log.Infof))

	// Set up context for shutting down
	shutdownCtx, shutdown := context.WithCancel(context.Background())
	defer shutdown()

	// Initialize tracing
	tracer := tracing.Noop(log.Named("tracing"), "gallery-slideshow")
	if *tracingOTLP {
		var err error
		tracer, err = tracing.New(shutdownCtx, log.Named("tracing"), "gallery-slideshow")
		if err != nil {
			log.Fatalf("error initializing tracing: %s", err)
		}
	}
	defer tracer.Shutdown(context.Background())

	httpClient := feed.NewHTTPClient(tracer, *fetchTimeout)

	// Initialize the gallery loader
	pages, err := setupPageCache(shutdownCtx)
	if err != nil {
		log.Fatalf("error initializing feed cache: %s", err)
	}
	if pages != nil {
		defer pages.Shutdown()
	}

	var feedPages pagecache.Cache
	if pages != nil {
		feedPages = pages
	}

	feeds := feed.New(httpClient, feedPages, log.Named("feed"), tracer)
	loader := gallery.NewLoader(feeds, *site, log.Named("gallery"), cmd.Seed(*seed))

	// Initialize the image fetcher
	mirror, fetcher, imageCache, err := setupBackends(shutdownCtx, log, tracer, httpClient)
	if err != nil {
		log.Fatalf("error initializing backends: %s", err)
	}
	if imageCache != nil {
		defer imageCache.Shutdown()
	}

	// Initialize the slideshow
	selectionPolicy, err := selection.New(*policy, *downscale)
	if err != nil {
		log.Fatalf("error initializing slideshow: %s", err)
	}

	show, err := slideshow.New(shutdownCtx, slideshow.Config{
		Width:  *width,
		Height: *height,
		Source: gallery.Source{
			GalleryID:  *galleryID,
			GalleryURL: *galleryURL,
			Nickname:   *nickname,
		},
		Options: gallery.Options{
			Category: *category,
			Year:     *year,
		},
		Policy:       selectionPolicy,
		MaxCacheSize: *cacheMaxSize,
	}, loader, fetcher, log.Named("slideshow"), tracer)
	if err != nil {
		log.Fatalf("error initializing slideshow: %s", err)
	}

	// Start the player
	slideshowPlayer := player.New(show, *interval, log.Named("player"))
	go slideshowPlayer.Run(shutdownCtx)

	// Initialize and start the health checker
	checker := &health.Checker{
		Ctx:     shutdownCtx,
		Cache:   imageCache,
		Gallery: func() int { return show.Status().Length },
		Log:     log.Named("health"),
	}
	if mirror != nil && *healthCheckLocation != "" {
		checker.Storage = mirror
		checker.Location = *healthCheckLocation
	}
	go checker.Run()

	// Start and listen on http
	api := &api.API{
		Player:         slideshowPlayer,
		Slideshow:      show,
		HealthChecker:  checker,
		Log:            log.Named("api"),
		Tracer:         tracer,
		HandlerTimeout: cmd.HandlerTimeout,
	}
	server := &http.Server{
		Addr:         *listen,
		Handler:      api.Router(),
		ReadTimeout:  cmd.ReadTimeout,
		WriteTimeout: cmd.WriteTimeout,
		ErrorLog:     logger.NewHTTPErrorLog(log),
	}

	cmd.Serve(log, server, shutdown)

	// Start the metrics http server
	go metrics.Serve(shutdownCtx, log.Named("metrics"), checker, *metricsListen)

	// Wait for shutdown or error
	err = cmd.WaitForInterrupt(shutdownCtx)
	log.Infof("shutting down: %s", err)

	// Shut down http server
	cmd.Shutdown(log, server)
}

func setupPageCache(ctx context.Context) (*sqlite.Cache, error) {
	if *feedCachePath == "" {
		return nil, nil
	}

	return sqlite.New(ctx, *feedCachePath)
}

// setupBackends returns the mirror the images are looked up in first, if any, and the fetcher
// that tries the mirror, then the site, optionally through a redis cache
func setupBackends(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, httpClient *http.Client) (mirror storage.Provider, fetcher storage.Provider, imageCache cache.Provider, err error) {
	// Storage
	switch *storageMirror {
	case "none":
	case "file":
		mirror, err = fileStorage.New(*storageFilePath)
	case "spaces":
		mirror, err = spaces.New(*storageSpacesSpace, *storageSpacesEndpoint, *storageSpacesAccessKey, *storageSpacesSecretKey, *storageSpacesPrefix, *storageSpacesForcePathStyle)
	default:
		err = fmt.Errorf("invalid storage mirror")
	}

	if err != nil {
		return
	}

	site := httpStorage.New(httpClient, log.Named("storage"))
	if mirror != nil {
		fetcher = storage.Chain{mirror, site}
	} else {
		fetcher = site
	}

	// Cache
	switch *cacheBackend {
	case "memory":
	case "redis":
		var redisCache *redis.Provider
		redisCache, err = redis.New(ctx, tracer, *cacheRedisAddress, *cacheRedisPoolSize, *cacheRedisTTL)
		if err != nil {
			return
		}

		imageCache = redisCache
		fetcher = storage.NewCached(&cache.Auto{Tracer: tracer, Provider: redisCache}, fetcher)
	default:
		err = fmt.Errorf("invalid cache backend")
	}

	return
}
