// Package geom converts between container pixels and normalized media
// coordinates for a given zoom, pan and fit mode.
package geom

import (
	"fmt"
	"strings"
)

const (
	MinZoom = 0.1
	MaxZoom = 10
)

// Dimensions describes a container or the natural size of the media.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Degenerate reports whether either side is zero or negative.
func (d Dimensions) Degenerate() bool {
	return !(d.Width > 0) || !(d.Height > 0)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%g", d.Width, d.Height)
}

// ParseDimensions parses "WxH".
func ParseDimensions(s string) (Dimensions, error) {
	var d Dimensions
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return d, fmt.Errorf("invalid dimensions %q: want WxH", s)
	}
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%g %g", &d.Width, &d.Height); err != nil {
		return d, fmt.Errorf("invalid dimensions %q: %w", s, err)
	}
	if d.Degenerate() {
		return d, fmt.Errorf("invalid dimensions %q: sides must be positive", s)
	}
	return d, nil
}

// ScreenPoint is a position in container-relative pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizedPoint is a position relative to the media bounds where (0,0) is
// the top-left corner and (1,1) the bottom-right.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsWithinBounds reports whether n lies on the media.
func IsWithinBounds(n NormalizedPoint) bool {
	return n.X >= 0 && n.X <= 1 && n.Y >= 0 && n.Y <= 1
}

// NormalizedRect is an axis-aligned rectangle in normalized coordinates.
type NormalizedRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromCorners returns the rectangle spanned by two corners in any order.
func RectFromCorners(a, b NormalizedPoint) NormalizedRect {
	r := NormalizedRect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}
	if r.Width < 0 {
		r.X, r.Width = b.X, -r.Width
	}
	if r.Height < 0 {
		r.Y, r.Height = b.Y, -r.Height
	}
	return r
}

// Rect is a rectangle in screen pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}
