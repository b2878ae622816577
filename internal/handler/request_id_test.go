package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DMarby/gallery-slideshow/internal/handler"
	"github.com/google/uuid"
)

func TestAddRequestID(t *testing.T) {
	existing := uuid.NewString()

	tests := []struct {
		Name       string
		Header     string
		ExpectedID string
	}{
		{"generates an id", "", ""},
		{"reuses a valid client id", existing, existing},
		{"replaces an invalid client id", "not-a-uuid", ""},
	}

	for _, test := range tests {
		var seen string
		h := handler.AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = handler.GetReqID(r.Context())
		}))

		r := httptest.NewRequest("GET", "/status", nil)
		if test.Header != "" {
			r.Header.Set(handler.RequestIDHeader, test.Header)
		}

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)

		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("%s: invalid request id %q", test.Name, seen)
			continue
		}

		if test.ExpectedID != "" && seen != test.ExpectedID {
			t.Errorf("%s: wrong request id %s", test.Name, seen)
		}

		if header := rr.Header().Get(handler.RequestIDHeader); header != seen {
			t.Errorf("%s: wrong response header %s", test.Name, header)
		}
	}

	if id := handler.GetReqID(httptest.NewRequest("GET", "/", nil).Context()); id != "" {
		t.Errorf("found request id %s without the handler", id)
	}
}
