package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/theme"
)

const (
	statusHeight = 24
	checkerSize  = 8
)

// frame is everything needed to compose one window image.
type frame struct {
	width, height int
	media         image.Image
	overlay       *image.RGBA
	rect          geom.Rect
	rectOK        bool
	drawing       bool
	status        string
	message       string
	theme         *theme.Theme
}

// painter composes frames, caching the checkerboard between them.
type painter struct {
	backdrop *image.RGBA
}

// containerRect is the window area given to the surface, above the status
// bar.
func containerRect(width, height int) image.Rectangle {
	return image.Rect(0, 0, width, max(0, height-statusHeight))
}

// pixelRect rounds a screen rectangle outwards to whole pixels.
func pixelRect(r geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

func (p *painter) compose(dst *image.RGBA, f frame) {
	th := f.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	area := dst.SubImage(containerRect(f.width, f.height)).(*image.RGBA)
	if f.rectOK && f.media != nil {
		ir := pixelRect(f.rect)
		vis := ir.Intersect(area.Bounds())
		if !vis.Empty() {
			p.ensureBackdrop(area.Bounds(), th)
			draw.Draw(area, vis, p.backdrop, vis.Min, draw.Src)
			xdraw.ApproxBiLinear.Scale(area, ir, f.media, f.media.Bounds(), draw.Over, nil)
		}
	}
	if f.overlay != nil {
		draw.Draw(area, f.overlay.Bounds(), f.overlay, f.overlay.Bounds().Min, draw.Over)
	}
	if f.rectOK && f.drawing {
		drawRect(area, pixelRect(f.rect), th.ActiveOutline, 2)
	}

	drawStatus(dst, f.width, f.height, f.status, th)
	if f.message != "" {
		drawMessage(area, f.message)
	}
}

func (p *painter) ensureBackdrop(b image.Rectangle, th *theme.Theme) {
	if p.backdrop != nil && p.backdrop.Bounds().Eq(b) {
		return
	}
	p.backdrop = image.NewRGBA(b)
	drawCheckerboard(p.backdrop, b, checkerSize, th.CheckerLight, th.CheckerDark)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	l, d := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			src := l
			if ((x/size)+(y/size))%2 != 0 {
				src = d
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

func drawStatus(dst *image.RGBA, width, height int, text string, th *theme.Theme) {
	bar := image.Rect(0, max(0, height-statusHeight), width, height)
	draw.Draw(dst, bar, image.NewUniform(th.StatusBar), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13}
	d.Dot = fixed.P(bar.Min.X+6, bar.Min.Y+(statusHeight+basicfont.Face7x13.Ascent)/2-1)
	d.DrawString(text)
}

func drawMessage(dst *image.RGBA, msg string) {
	face := messageFace()
	m := face.Metrics()
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	b := dst.Bounds()
	wmsg := d.MeasureString(msg).Ceil()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	px := b.Min.X + (b.Dx()-wmsg)/2
	py := b.Min.Y + (b.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-10, py-ascent-8, px+wmsg+10, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(color.RGBA{255, 255, 255, 230}), image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color, thick int) {
	src := image.NewUniform(col)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick),
		image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y),
		image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}
