package handler

import (
	"net/http"
	"runtime/debug"

	"github.com/DMarby/gallery-slideshow/internal/logger"
	"github.com/DMarby/gallery-slideshow/internal/tracing"
)

// Recovery is a handler for handling panics
func Recovery(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				http.Error(w, "Something went wrong", http.StatusInternalServerError)

				traceID, spanID := tracing.TraceInfo(r.Context())
				log.Errorw("panic handling request",
					LogFields(r,
						"trace-id", traceID,
						"span-id", spanID,
						"uri", r.URL.String(),
						"panic", err,
						"stacktrace", string(debug.Stack()),
					)...,
				)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
