// Package mask rasterizes the strokes of one layer into a two colour image,
// independent of the live view.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/render"
	"github.com/example/marksurface/internal/surface"
)

var (
	ErrUnknownLayer = errors.New("unknown layer")
	ErrInvalidSize  = errors.New("invalid mask size")
)

// Threshold is the coverage at or above which a pixel counts as painted.
const Threshold = 128

// Compositor turns stroke layers into masks.
type Compositor struct {
	Paint    color.RGBA
	Preserve color.RGBA
	// Feather is the radius in pixels of the box blur applied to the
	// thresholded mask. Zero keeps hard edges.
	Feather int
	log     *logrus.Entry
}

type Option func(*Compositor)

// WithColors overrides the paint and preserve colours.
func WithColors(paint, preserve color.RGBA) Option {
	return func(c *Compositor) {
		c.Paint = paint
		c.Preserve = preserve
	}
}

// WithFeather softens mask edges over radius pixels.
func WithFeather(radius int) Option {
	return func(c *Compositor) { c.Feather = max(0, radius) }
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Compositor) { c.log = l }
}

// New returns a compositor painting white on black.
func New(opts ...Option) *Compositor {
	c := &Compositor{
		Paint:    color.RGBA{255, 255, 255, 255},
		Preserve: color.RGBA{0, 0, 0, 255},
		log:      logrus.WithField("component", "mask"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Composite renders the strokes of layerID at width x height. Paint strokes
// add coverage and erase strokes remove it, in element order. Elements that
// are not strokes, hidden elements and single point strokes are skipped.
func (c *Compositor) Composite(layers surface.Layers, layerID string, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	l, ok := layers.Layer(layerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, layerID)
	}
	dims := geom.Dimensions{Width: float64(width), Height: float64(height)}
	t := geom.NewTransform(dims, dims, geom.ViewState{Zoom: 1, Fit: geom.FitFill})

	r := render.NewRaster(width, height)
	strokes := 0
	for _, e := range l.Elements {
		if e.Kind != surface.KindStroke || e.Stroke == nil || !e.Visible || len(e.Stroke.Points) < 2 {
			continue
		}
		s := *e.Stroke
		s.Tool.Color = "#FFFFFF"
		s.Tool.Opacity = 1
		render.DrawStroke(r, t, &s)
		strokes++
	}

	cov := r.Image()
	hard := image.NewGray(image.Rect(0, 0, width, height))
	for i := range hard.Pix {
		if cov.Pix[i*4+3] >= Threshold {
			hard.Pix[i] = 0xff
		}
	}
	out := c.colorize(feather(hard, c.Feather))
	c.log.WithFields(logrus.Fields{
		"layer_id": layerID,
		"strokes":  strokes,
		"size":     dims.String(),
		"feather":  c.Feather,
	}).Debug("composited mask")
	return out, nil
}

// colorize maps mask values to the preserve colour at 0, the paint colour at
// 255 and a linear blend in between.
func (c *Compositor) colorize(m *image.Gray) *image.RGBA {
	out := image.NewRGBA(m.Bounds())
	lerp := func(a, b uint8, t uint32) uint8 {
		return uint8((uint32(a)*(255-t) + uint32(b)*t + 127) / 255)
	}
	for i, v := range m.Pix {
		t := uint32(v)
		o := out.Pix[i*4 : i*4+4 : i*4+4]
		o[0] = lerp(c.Preserve.R, c.Paint.R, t)
		o[1] = lerp(c.Preserve.G, c.Paint.G, t)
		o[2] = lerp(c.Preserve.B, c.Paint.B, t)
		o[3] = lerp(c.Preserve.A, c.Paint.A, t)
	}
	return out
}
