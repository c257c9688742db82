// Package imaging provides the capture pre-processing stage: zone geometry,
// cropping, binarization, and optional perspective correction of card photos.
package imaging

import "image"

// Zone is a rectangular sub-region of a captured bitmap plus the
// binarization threshold applied to it. Coordinates are relative to the
// full native resolution of the source image.
type Zone struct {
	X         int
	Y         int
	Width     int
	Height    int
	Threshold uint8
}

// Rect returns the zone as an image.Rectangle.
func (z Zone) Rect() image.Rectangle {
	return image.Rect(z.X, z.Y, z.X+z.Width, z.Y+z.Height)
}

// Clamp restricts the zone to the given image bounds. Zones that fall
// entirely outside the bounds collapse to an empty zone.
func (z Zone) Clamp(bounds image.Rectangle) Zone {
	r := z.Rect().Intersect(bounds)
	return Zone{
		X:         r.Min.X,
		Y:         r.Min.Y,
		Width:     r.Dx(),
		Height:    r.Dy(),
		Threshold: z.Threshold,
	}
}

// Empty reports whether the zone has no area.
func (z Zone) Empty() bool {
	return z.Width <= 0 || z.Height <= 0
}

// Band describes a zone as fractions of the full image, so the same card
// geometry works at any capture resolution.
type Band struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Threshold uint8   `yaml:"threshold"`
}

// ZoneFor converts the fractional band to a pixel zone for the given bounds.
func (b Band) ZoneFor(bounds image.Rectangle) Zone {
	w := bounds.Dx()
	h := bounds.Dy()
	z := Zone{
		X:         bounds.Min.X + int(b.X*float64(w)),
		Y:         bounds.Min.Y + int(b.Y*float64(h)),
		Width:     int(b.Width * float64(w)),
		Height:    int(b.Height * float64(h)),
		Threshold: b.Threshold,
	}
	return z.Clamp(bounds)
}

// Default bands for a card held upright in frame: the title band covers the
// top of the card, the collector band the bottom-left corner where the set
// code and collector number are printed.
var (
	DefaultNameBand      = Band{X: 0.05, Y: 0.03, Width: 0.90, Height: 0.12, Threshold: 130}
	DefaultCollectorBand = Band{X: 0.02, Y: 0.88, Width: 0.55, Height: 0.10, Threshold: 130}
)
