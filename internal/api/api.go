package api

import (
	"net/http"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/handler"
	"github.com/DMarby/gallery-slideshow/internal/health"
	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/player"
	"github.com/DMarby/gallery-slideshow/internal/slideshow"
	"github.com/DMarby/gallery-slideshow/internal/tracing"
	"github.com/gorilla/mux"
)

// API is the http display surface and remote control of a slideshow
type API struct {
	Player         *player.Player
	Slideshow      *slideshow.Slideshow
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Healthcheck
	router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET")

	// Display
	router.Handle("/frame", handler.Handler(a.frameHandler)).Methods("GET")
	router.Handle("/status", handler.Handler(a.statusHandler)).Methods("GET")

	// Remote control
	router.Handle("/next", handler.Handler(a.nextHandler)).Methods("POST")
	router.Handle("/previous", handler.Handler(a.previousHandler)).Methods("POST")
	router.Handle("/reload", handler.Handler(a.reloadHandler)).Methods("POST")

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for adding a request id, tracing, handling panics, request logging, metrics, setting CORS headers, and handler execution timeout
	return handler.AddRequestID(
		handler.Tracer(a.Tracer,
			handler.Recovery(a.Log,
				handler.Logger(a.Log,
					handler.Metrics(
						handler.CORS([]string{handler.RequestIDHeader}, http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out.")),
						routeMatcher,
					),
				),
			),
			routeMatcher,
		),
	)
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
