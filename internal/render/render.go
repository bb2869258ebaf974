package render

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/spline"
	"github.com/example/marksurface/internal/surface"
	"github.com/example/marksurface/internal/theme"
)

// Frame is everything a single render pass reads.
type Frame struct {
	Layers    surface.Layers
	Transform geom.Transform
	// Zoom scales point sizes, outline widths and stroke widths.
	Zoom     float64
	Time     *float64
	Selected []string
	Theme    *theme.Theme
}

// Render clears c and draws every visible layer of f in z order. It returns
// the elements that passed the visibility and time filters, in draw order.
// Nothing is drawn while the transform is invalid.
func Render(c Canvas, f Frame) []surface.Element {
	c.Clear()
	if !f.Transform.Valid() {
		return nil
	}
	if f.Theme == nil {
		f.Theme = theme.Default()
	}
	if !(f.Zoom > 0) {
		f.Zoom = 1
	}
	selected := make(map[string]bool, len(f.Selected))
	for _, id := range f.Selected {
		selected[id] = true
	}

	var drawn []surface.Element
	for _, l := range f.Layers.Sorted() {
		if !l.Visible {
			continue
		}
		c.PushLayer(l.Opacity)
		for _, e := range l.Elements {
			if !e.Visible || !e.ActiveAt(f.Time) || !e.Valid() {
				continue
			}
			c.Save()
			drawElement(c, f, e)
			c.Restore()
			if selected[e.ID] {
				drawSelection(c, f, e)
			}
			drawn = append(drawn, e)
		}
		c.PopLayer()
	}
	return drawn
}

func drawElement(c Canvas, f Frame, e surface.Element) {
	switch e.Kind {
	case surface.KindPoint:
		drawPoint(c, f, e.Point)
	case surface.KindRegion:
		drawRegion(c, f, e.Region)
	case surface.KindPolygon:
		drawPolygon(c, f, e.Polygon)
	case surface.KindStroke:
		drawStroke(c, f.Transform, f.Zoom, f.Theme, e.Stroke)
	}
}

// straight converts a theme colour, which is stored unpremultiplied.
func straight(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func styled(s string, def color.RGBA) color.NRGBA {
	return straight(theme.ColorOr(s, def))
}

func drawPoint(c Canvas, f Frame, p *surface.PointData) {
	at, _ := f.Transform.ToScreen(p.At)
	size := p.Style.Size
	if !(size > 0) {
		size = f.Theme.PointSize
	}
	c.SetFillColor(styled(p.Style.Color, f.Theme.Point))
	c.BeginPath()
	c.Arc(at.X, at.Y, size*f.Zoom)
	c.Fill()
	if p.Label != "" {
		c.SetFillColor(straight(f.Theme.Label))
		c.FillText(p.Label, at.X+size*f.Zoom+f.Theme.LabelOffset, at.Y+4)
	}
}

func lineWidth(s surface.Style, f Frame) float64 {
	w := s.StrokeWidth
	if !(w > 0) {
		w = f.Theme.StrokeWidth
	}
	return w * f.Zoom
}

func drawRegion(c Canvas, f Frame, r *surface.RegionData) {
	sr, _ := f.Transform.RectToScreen(r.Rect)
	c.BeginPath()
	c.Rect(sr.X, sr.Y, sr.Width, sr.Height)
	if r.Style.FillColor != "" {
		c.SetFillColor(styled(r.Style.FillColor, f.Theme.RegionFill))
		c.Fill()
	}
	c.SetStrokeColor(styled(r.Style.Color, f.Theme.RegionStroke))
	c.SetLineWidth(lineWidth(r.Style, f))
	c.Stroke()
	if r.Label != "" {
		c.SetFillColor(straight(f.Theme.Label))
		c.FillText(r.Label, sr.X, sr.Y-4)
	}
}

func drawPolygon(c Canvas, f Frame, p *surface.PolygonData) {
	c.BeginPath()
	for i, n := range p.Points {
		s, _ := f.Transform.ToScreen(n)
		if i == 0 {
			c.MoveTo(s.X, s.Y)
		} else {
			c.LineTo(s.X, s.Y)
		}
	}
	if p.Closed {
		c.ClosePath()
		if p.Style.FillColor != "" {
			c.SetFillColor(styled(p.Style.FillColor, f.Theme.PolygonFill))
			c.Fill()
		}
	}
	c.SetStrokeColor(styled(p.Style.Color, f.Theme.PolygonStroke))
	c.SetLineWidth(lineWidth(p.Style, f))
	c.Stroke()
}

// drawStroke draws s mapped through t. The line width is
// tool size * image rect width * zoom.
func drawStroke(c Canvas, t geom.Transform, zoom float64, th *theme.Theme, s *surface.StrokeData) {
	if len(s.Points) < 2 {
		return
	}
	pts := make([]r2.Vec, len(s.Points))
	for i, p := range s.Points {
		sp, _ := t.ToScreen(p.NormalizedPoint)
		pts[i] = r2.Vec{X: sp.X, Y: sp.Y}
	}
	if s.Erase {
		c.SetCompositeOp(DestinationOut)
	}
	if s.Tool.Opacity > 0 {
		c.SetGlobalAlpha(s.Tool.Opacity)
	}
	c.SetStrokeColor(styled(s.Tool.Color, th.Point))
	c.SetLineWidth(s.Tool.Size * t.Rect().Width * zoom)
	tracePath(c, pts, s.Tool.Smoothing)
	c.Stroke()
}

func tracePath(c Canvas, pts []r2.Vec, smoothing float64) {
	c.BeginPath()
	c.MoveTo(pts[0].X, pts[0].Y)
	if smoothing > 0 && len(pts) > 2 {
		for _, seg := range spline.Smooth(pts, smoothing) {
			c.CubicTo(seg.C1.X, seg.C1.Y, seg.C2.X, seg.C2.Y, seg.P3.X, seg.P3.Y)
		}
		return
	}
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
}

func drawSelection(c Canvas, f Frame, e surface.Element) {
	b, ok := Bounds(f.Transform, e)
	if !ok {
		return
	}
	pad := 3 * f.Zoom
	c.Save()
	c.SetStrokeColor(straight(f.Theme.Selection))
	c.SetLineWidth(math.Max(1, f.Zoom))
	c.BeginPath()
	c.Rect(b.X-pad, b.Y-pad, b.Width+2*pad, b.Height+2*pad)
	c.Stroke()
	c.Restore()
}

// Bounds returns the screen bounding box of an element's geometry.
func Bounds(t geom.Transform, e surface.Element) (geom.Rect, bool) {
	var pts []geom.NormalizedPoint
	switch e.Kind {
	case surface.KindPoint:
		pts = []geom.NormalizedPoint{e.Point.At}
	case surface.KindRegion:
		r := e.Region.Rect
		pts = []geom.NormalizedPoint{{X: r.X, Y: r.Y}, {X: r.X + r.Width, Y: r.Y + r.Height}}
	case surface.KindPolygon:
		pts = e.Polygon.Points
	case surface.KindStroke:
		for _, p := range e.Stroke.Points {
			pts = append(pts, p.NormalizedPoint)
		}
	}
	if len(pts) == 0 || !t.Valid() {
		return geom.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range pts {
		s, _ := t.ToScreen(n)
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// DrawStroke renders a single stroke element through t. It is used by
// callers that composite strokes outside of a full frame.
func DrawStroke(c Canvas, t geom.Transform, s *surface.StrokeData) {
	c.Save()
	drawStroke(c, t, 1, theme.Default(), s)
	c.Restore()
}
