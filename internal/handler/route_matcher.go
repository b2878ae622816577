package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// RouteMatcher names the route of a request, for metrics and span names
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher matches routes of a mux router
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the path template of the route a request is for.
// Unrouted requests are grouped as "not-found" or "method-not-allowed" to keep label cardinality bounded.
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var routeMatch mux.RouteMatch
	matched := m.Router.Match(r, &routeMatch)

	if errors.Is(routeMatch.MatchErr, mux.ErrMethodMismatch) {
		return "method-not-allowed"
	}

	// The Route is nil on a match when the NotFoundHandler handles the request
	if !matched || routeMatch.Route == nil {
		return "not-found"
	}

	if routeName := routeMatch.Route.GetName(); routeName != "" {
		return routeName
	}

	if tmpl, err := routeMatch.Route.GetPathTemplate(); err == nil {
		return tmpl
	}

	return "unknown"
}
