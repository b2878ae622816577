package selection

import (
	"github.com/DMarby/gallery-slideshow/internal/gallery"
)

// DefaultTolerance is how many pixels a rendition may differ from the display.
// Crop sizes on the photo site aren't always even in both dimensions.
const DefaultTolerance = 15

// ToleranceBand picks the first rendition, in feed order, whose width or height is within Tolerance pixels of the display
type ToleranceBand struct {
	Tolerance int
}

// Name returns the name of the policy
func (t *ToleranceBand) Name() string {
	return "tolerance"
}

// Select returns the first rendition within the tolerance band
func (t *ToleranceBand) Select(renditions []gallery.Rendition, width, height int) (gallery.Rendition, error) {
	for _, rendition := range renditions {
		if within(rendition.Width, width, t.Tolerance) || within(rendition.Height, height, t.Tolerance) {
			return rendition, nil
		}
	}

	return gallery.Rendition{}, ErrNoMatch
}

func within(value, target, tolerance int) bool {
	return target-tolerance <= value && value <= target+tolerance
}
