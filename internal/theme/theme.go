// Package theme holds the colours and sizes used to draw annotations that
// carry no style of their own, plus the viewer chrome.
package theme

import (
	"image/color"
)

// Theme defines the palette of the annotation surface. Colours hold straight
// (not premultiplied) alpha.
type Theme struct {
	Name string

	// Viewer chrome
	Background    color.RGBA // Window background around the media
	StatusBar     color.RGBA
	StatusText    color.RGBA
	CheckerLight  color.RGBA // Transparent media backdrop
	CheckerDark   color.RGBA
	ActiveOutline color.RGBA // Outline of the media rect while drawing

	// Annotations
	Point         color.RGBA
	Label         color.RGBA
	RegionStroke  color.RGBA
	RegionFill    color.RGBA
	PolygonStroke color.RGBA
	PolygonFill   color.RGBA
	Selection     color.RGBA

	// Sizes in screen pixels at zoom 1
	PointSize   float64
	StrokeWidth float64
	LabelOffset float64
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:          "Default",
		Background:    color.RGBA{220, 220, 220, 255},
		StatusBar:     color.RGBA{200, 200, 200, 255},
		StatusText:    color.RGBA{0, 0, 0, 255},
		CheckerLight:  color.RGBA{220, 220, 220, 255},
		CheckerDark:   color.RGBA{192, 192, 192, 255},
		ActiveOutline: color.RGBA{0, 120, 215, 255},
		Point:         color.RGBA{255, 0, 0, 255},
		Label:         color.RGBA{0, 0, 0, 255},
		RegionStroke:  color.RGBA{0, 120, 215, 255},
		RegionFill:    color.RGBA{0, 120, 215, 48},
		PolygonStroke: color.RGBA{0, 160, 0, 255},
		PolygonFill:   color.RGBA{0, 160, 0, 48},
		Selection:     color.RGBA{255, 200, 0, 255},
		PointSize:     6,
		StrokeWidth:   2,
		LabelOffset:   8,
	}
}
