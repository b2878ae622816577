package selection

import (
	"errors"
	"fmt"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
)

// Policy chooses which rendition of an item to show on a display
type Policy interface {
	Select(renditions []gallery.Rendition, width, height int) (gallery.Rendition, error)
	Name() string
}

// Errors
var (
	ErrNoMatch = errors.New("no rendition matches the display")
)

// New returns the policy with the given name, either "closest" or "tolerance"
func New(name string, downscale bool) (Policy, error) {
	switch name {
	case "closest":
		return &ClosestFit{Downscale: downscale}, nil
	case "tolerance":
		return &ToleranceBand{Tolerance: DefaultTolerance}, nil
	default:
		return nil, fmt.Errorf("invalid selection policy %q", name)
	}
}
