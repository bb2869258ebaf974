// Package render draws surface layers onto an abstract 2D canvas.
package render

import "image/color"

// CompositeOp selects how painted pixels combine with what is already on the
// current layer.
type CompositeOp int

const (
	// SourceOver paints on top of existing content.
	SourceOver CompositeOp = iota
	// DestinationOut removes existing content where the shape is painted.
	DestinationOut
)

func (op CompositeOp) String() string {
	if op == DestinationOut {
		return "destination-out"
	}
	return "source-over"
}

// Canvas is the path based drawing surface the renderer targets. Paths are
// in canvas pixels. Strokes use round caps and joins.
type Canvas interface {
	Size() (w, h int)
	Resize(w, h int)
	// Clear erases everything and drops any pushed layers.
	Clear()

	Save()
	Restore()
	SetGlobalAlpha(a float64)
	SetCompositeOp(op CompositeOp)
	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(w float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
	// Arc adds a full circle as its own subpath.
	Arc(x, y, r float64)
	Rect(x, y, w, h float64)
	Fill()
	Stroke()

	FillText(s string, x, y float64)

	// PushLayer starts an offscreen layer that is blended with opacity onto
	// the layer below when popped.
	PushLayer(opacity float64)
	PopLayer()
}

// style is the part of the canvas state Save and Restore track.
type style struct {
	alpha  float64
	op     CompositeOp
	stroke color.Color
	fill   color.Color
	width  float64
}

func defaultStyle() style {
	return style{alpha: 1, stroke: color.Black, fill: color.Black, width: 1}
}
