package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
	"github.com/DMarby/gallery-slideshow/internal/handler"
	"github.com/DMarby/gallery-slideshow/internal/player"
	"github.com/DMarby/gallery-slideshow/internal/slideshow"
)

func (a *API) frameHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	frame, err := a.Player.Frame()
	if err != nil {
		return a.frameError(r, err)
	}

	return writeFrame(w, frame)
}

func (a *API) nextHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	frame, err := a.Player.Next(r.Context())
	if err != nil {
		return a.frameError(r, err)
	}

	return writeFrame(w, frame)
}

func (a *API) previousHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	frame, err := a.Player.Previous(r.Context())
	if err != nil {
		return a.frameError(r, err)
	}

	return writeFrame(w, frame)
}

func (a *API) reloadHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	if _, err := a.Player.Reload(r.Context()); err != nil && !errors.Is(err, player.ErrNoFrame) {
		return a.frameError(r, err)
	}

	return a.statusHandler(w, r)
}

// Status is the state of the slideshow and the frame on display
type Status struct {
	slideshow.Status
	Shown *time.Time `json:"shown,omitempty"`
}

func (a *API) statusHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	status := Status{
		Status: a.Slideshow.Status(),
	}

	if frame, err := a.Player.Frame(); err == nil {
		status.Shown = &frame.Shown
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		a.logError(r, "error encoding status", err)
		return handler.InternalServerError()
	}

	return nil
}

func (a *API) frameError(r *http.Request, err error) *handler.Error {
	var fetchErr *gallery.FetchError

	switch {
	case errors.Is(err, player.ErrNoFrame):
		return handler.NotFound("Nothing on display yet")
	case errors.Is(err, slideshow.ErrEmptyGallery):
		return handler.NotFound("The gallery has no photos")
	case errors.As(err, &fetchErr):
		a.logError(r, "error fetching image", err)
		return handler.BadGateway("Error fetching image")
	default:
		a.logError(r, "error showing image", err)
		return handler.InternalServerError()
	}
}

func writeFrame(w http.ResponseWriter, frame player.Frame) *handler.Error {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Content-Type", frame.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(frame.Data)))
	w.Header().Set("Last-Modified", frame.Shown.UTC().Format(http.TimeFormat))
	w.Write(frame.Data)

	return nil
}
