package selection

import (
	"sort"

	"github.com/DMarby/gallery-slideshow/internal/gallery"
)

// ClosestFit picks the rendition whose relevant dimension is closest to the display:
// the width for horizontal renditions, the height for vertical ones.
//
// In Downscale mode renditions are searched from largest to smallest, and the search
// stops at the first rendition smaller than the display, so the result is the smallest
// rendition that still covers the display. Nothing is ever upscaled.
type ClosestFit struct {
	Downscale bool
}

// Name returns the name of the policy
func (c *ClosestFit) Name() string {
	if c.Downscale {
		return "closest-downscale"
	}

	return "closest"
}

// Select returns the best fitting rendition
func (c *ClosestFit) Select(renditions []gallery.Rendition, width, height int) (gallery.Rendition, error) {
	if c.Downscale {
		renditions = largestFirst(renditions)
	}

	var best gallery.Rendition
	found := false
	closest := 0

	for _, rendition := range renditions {
		var diff int
		if rendition.Horizontal() {
			diff = width - rendition.Width
		} else {
			diff = height - rendition.Height
		}

		// A positive diff is a rendition smaller than the display
		if c.Downscale && diff > 0 {
			break
		}

		if diff < 0 {
			diff = -diff
		}

		if !found || diff < closest {
			best, closest, found = rendition, diff, true
		}

		if closest == 0 {
			break
		}
	}

	if !found {
		return gallery.Rendition{}, ErrNoMatch
	}

	return best, nil
}

// largestFirst returns a copy of renditions ordered by descending area, keeping feed order for equal sizes
func largestFirst(renditions []gallery.Rendition) []gallery.Rendition {
	sorted := make([]gallery.Rendition, len(renditions))
	copy(sorted, renditions)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Width*sorted[i].Height > sorted[j].Width*sorted[j].Height
	})

	return sorted
}
