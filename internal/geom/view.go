package geom

import (
	"fmt"
	"math"
	"strings"
)

// FitMode controls how the media is sized inside its container before zoom.
type FitMode string

const (
	FitContain FitMode = "contain"
	FitCover   FitMode = "cover"
	FitActual  FitMode = "actual"
	FitFill    FitMode = "fill"
)

// FitModes lists the supported fit modes in cycling order.
var FitModes = []FitMode{FitContain, FitCover, FitActual, FitFill}

// ParseFitMode accepts a fit mode name, case-insensitively.
func ParseFitMode(s string) (FitMode, error) {
	m := FitMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FitModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown fit mode %q", s)
}

// Next returns the fit mode following m in FitModes.
func (m FitMode) Next() FitMode {
	for i, known := range FitModes {
		if known == m {
			return FitModes[(i+1)%len(FitModes)]
		}
	}
	return FitContain
}

// ViewState is everything besides container and media size that decides
// where the media is displayed.
type ViewState struct {
	Zoom float64     `json:"zoom"`
	Pan  ScreenPoint `json:"pan"`
	Fit  FitMode     `json:"fit"`
}

// DefaultView returns a contained, unzoomed, centred view.
func DefaultView() ViewState {
	return ViewState{Zoom: 1, Fit: FitContain}
}

// ClampZoom limits z to [MinZoom, MaxZoom]. NaN maps to 1.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// WithZoom returns v with a clamped zoom.
func (v ViewState) WithZoom(z float64) ViewState {
	v.Zoom = ClampZoom(z)
	return v
}

// ImageRect returns the displayed rectangle of the media within the
// container. ok is false when any of the inputs is degenerate.
func ImageRect(container, media Dimensions, view ViewState) (Rect, bool) {
	if container.Degenerate() || media.Degenerate() {
		return Rect{}, false
	}
	var bw, bh float64
	switch view.Fit {
	case FitCover:
		s := math.Max(container.Width/media.Width, container.Height/media.Height)
		bw, bh = media.Width*s, media.Height*s
	case FitActual:
		bw, bh = media.Width, media.Height
	case FitFill:
		bw, bh = container.Width, container.Height
	default:
		s := math.Min(container.Width/media.Width, container.Height/media.Height)
		bw, bh = media.Width*s, media.Height*s
	}
	zoom := view.Zoom
	if !(zoom > 0) {
		zoom = 1
	}
	w, h := bw*zoom, bh*zoom
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return Rect{}, false
	}
	return Rect{
		X:      (container.Width-w)/2 + view.Pan.X,
		Y:      (container.Height-h)/2 + view.Pan.Y,
		Width:  w,
		Height: h,
	}, true
}
