package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/gallery-slideshow/internal/handler"
	"github.com/gorilla/mux"
)

func TestMuxRouteMatcher(t *testing.T) {
	noop := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	router := mux.NewRouter()
	router.NotFoundHandler = noop
	router.Handle("/frame", noop).Methods("GET")
	router.Handle("/next", noop).Methods("POST").Name("next")

	matcher := &handler.MuxRouteMatcher{Router: router}

	tests := []struct {
		Method   string
		URL      string
		Expected string
	}{
		{"GET", "/frame", "/frame"},
		{"POST", "/next", "next"},
		{"GET", "/next", "method-not-allowed"},
		{"GET", "/photos/1", "not-found"},
	}

	for _, test := range tests {
		route := matcher.Match(httptest.NewRequest(test.Method, test.URL, nil))
		if route != test.Expected {
			t.Errorf("%s %s: wrong route %s", test.Method, test.URL, route)
		}
	}
}
