package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/example/marksurface/internal/spline"
)

// Raster is a Canvas backed by an *image.RGBA. Shapes are anti-aliased by
// golang.org/x/image/vector.
type Raster struct {
	base   *image.RGBA
	layers []rasterLayer
	rast   *vector.Rasterizer

	cur   style
	saved []style

	path []subpath
}

type rasterLayer struct {
	img     *image.RGBA
	opacity float64
}

type subpath struct {
	pts    []r2.Vec
	closed bool
}

// NewRaster returns a transparent w x h canvas.
func NewRaster(w, h int) *Raster {
	r := &Raster{cur: defaultStyle(), rast: vector.NewRasterizer(max(w, 0), max(h, 0))}
	r.base = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	return r
}

// Image returns the composited result. Pushed layers that were never popped
// are not included.
func (r *Raster) Image() *image.RGBA { return r.base }

func (r *Raster) Size() (int, int) {
	b := r.base.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Resize(w, h int) {
	r.base = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	r.layers = nil
	r.path = nil
}

func (r *Raster) Clear() {
	clear(r.base.Pix)
	r.layers = nil
	r.path = nil
}

func (r *Raster) Save() { r.saved = append(r.saved, r.cur) }

func (r *Raster) Restore() {
	if n := len(r.saved); n > 0 {
		r.cur = r.saved[n-1]
		r.saved = r.saved[:n-1]
	}
}

func (r *Raster) SetGlobalAlpha(a float64)      { r.cur.alpha = math.Max(0, math.Min(1, a)) }
func (r *Raster) SetCompositeOp(op CompositeOp) { r.cur.op = op }
func (r *Raster) SetStrokeColor(c color.Color)  { r.cur.stroke = c }
func (r *Raster) SetFillColor(c color.Color)    { r.cur.fill = c }
func (r *Raster) SetLineWidth(w float64)        { r.cur.width = w }

func (r *Raster) BeginPath() { r.path = r.path[:0] }

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{pts: []r2.Vec{{X: x, Y: y}}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	sp := &r.path[len(r.path)-1]
	sp.pts = append(sp.pts, r2.Vec{X: x, Y: y})
}

func (r *Raster) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(c1x, c1y)
	}
	sp := &r.path[len(r.path)-1]
	p0 := sp.pts[len(sp.pts)-1]
	sp.pts = append(sp.pts, spline.Flatten(p0, r2.Vec{X: c1x, Y: c1y}, r2.Vec{X: c2x, Y: c2y}, r2.Vec{X: x, Y: y}, 1)...)
}

func (r *Raster) ClosePath() {
	if len(r.path) == 0 {
		return
	}
	last := &r.path[len(r.path)-1]
	last.closed = true
	start := last.pts[0]
	r.path = append(r.path, subpath{pts: []r2.Vec{start}})
}

func (r *Raster) Arc(x, y, radius float64) {
	if !(radius > 0) {
		return
	}
	r.path = append(r.path, subpath{pts: circle(r2.Vec{X: x, Y: y}, radius), closed: true})
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.path = append(r.path, subpath{closed: true, pts: []r2.Vec{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}})
}

func (r *Raster) Fill() {
	var polys [][]r2.Vec
	for _, sp := range r.path {
		if len(sp.pts) >= 3 {
			polys = append(polys, sp.pts)
		}
	}
	r.paint(polys, r.cur.fill)
}

func (r *Raster) Stroke() {
	if !(r.cur.width > 0) {
		return
	}
	var polys [][]r2.Vec
	for _, sp := range r.path {
		pts := sp.pts
		if sp.closed && len(pts) > 2 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		polys = append(polys, strokeOutline(pts, r.cur.width/2)...)
	}
	r.paint(polys, r.cur.stroke)
}

func (r *Raster) FillText(s string, x, y float64) {
	d := font.Drawer{
		Dst:  r.target(),
		Src:  image.NewUniform(r.withAlpha(r.cur.fill)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(s)
}

func (r *Raster) PushLayer(opacity float64) {
	r.layers = append(r.layers, rasterLayer{
		img:     image.NewRGBA(r.base.Bounds()),
		opacity: math.Max(0, math.Min(1, opacity)),
	})
}

func (r *Raster) PopLayer() {
	n := len(r.layers)
	if n == 0 {
		return
	}
	top := r.layers[n-1]
	r.layers = r.layers[:n-1]
	dst := r.target()
	a := uint8(math.Round(top.opacity * 255))
	draw.DrawMask(dst, dst.Bounds(), top.img, image.Point{}, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
}

func (r *Raster) target() *image.RGBA {
	if n := len(r.layers); n > 0 {
		return r.layers[n-1].img
	}
	return r.base
}

func (r *Raster) withAlpha(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * r.cur.alpha))
	return n
}

// paint rasterizes polys and composites the coverage onto the current layer
// with the current composite op.
func (r *Raster) paint(polys [][]r2.Vec, c color.Color) {
	mask := r.coverage(polys)
	if mask == nil {
		return
	}
	dst := r.target()
	if r.cur.op == DestinationOut {
		destinationOut(dst, mask, r.cur.alpha)
		return
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(r.withAlpha(c)), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *Raster) coverage(polys [][]r2.Vec) *image.Alpha {
	w, h := r.Size()
	if w == 0 || h == 0 {
		return nil
	}
	r.rast.Reset(w, h)
	drawn := false
	for _, p := range polys {
		p = clipPolygon(p, float64(w), float64(h))
		if len(p) < 3 {
			continue
		}
		r.rast.MoveTo(float32(p[0].X), float32(p[0].Y))
		for _, v := range p[1:] {
			r.rast.LineTo(float32(v.X), float32(v.Y))
		}
		r.rast.ClosePath()
		drawn = true
	}
	if !drawn {
		return nil
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.rast.DrawOp = draw.Src
	r.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// destinationOut scales every premultiplied channel by 1 - coverage*alpha.
func destinationOut(dst *image.RGBA, mask *image.Alpha, alpha float64) {
	b := dst.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.AlphaAt(x, y).A
			if m == 0 {
				continue
			}
			k := 1 - float64(m)/255*alpha
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = uint8(math.Round(float64(dst.Pix[i+c]) * k))
			}
		}
	}
}
