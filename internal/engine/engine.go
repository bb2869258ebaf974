// Package engine owns one annotation surface: it turns pointer input into
// surface mutations, records history and drives rendering.
//
// An Engine is not safe for concurrent use. Hosts serialize every call on
// one goroutine; snapshots returned by State may be read anywhere.
package engine

import (
	"errors"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/history"
	"github.com/example/marksurface/internal/mask"
	"github.com/example/marksurface/internal/render"
	"github.com/example/marksurface/internal/surface"
	"github.com/example/marksurface/internal/theme"
)

// ErrNoSurface is returned by exports that need a rendering surface when
// none is attached.
var ErrNoSurface = errors.New("no rendering surface")

// Engine is a single annotation surface.
type Engine struct {
	log        *logrus.Entry
	state      surface.State
	container  geom.Dimensions
	media      geom.Dimensions
	history    *history.Manager
	canvas     render.Canvas
	theme      *theme.Theme
	compositor *mask.Compositor

	gesture *gesture

	onRender         func([]surface.Element, render.Canvas)
	onElementAdded   func(surface.Element)
	onStrokeComplete func(surface.Element)
	onPointer        func(PointerEvent, geom.NormalizedPoint)
	onWheel          func(WheelEvent)
}

// gesture is the in-progress stroke while the machine is drawing.
type gesture struct {
	layerID   string
	elementID string
	before    surface.Layers
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.history = history.New(n) }
}

func WithTool(t surface.ToolConfig) Option {
	return func(e *Engine) { e.state.Tool = sanitizeTool(t) }
}

func WithMode(m surface.Mode) Option {
	return func(e *Engine) { e.state.Mode = m }
}

func WithView(v geom.ViewState) Option {
	return func(e *Engine) { e.state.View = v.WithZoom(v.Zoom) }
}

// WithCanvas attaches the surface that live renders draw on.
func WithCanvas(c render.Canvas) Option {
	return func(e *Engine) { e.canvas = c }
}

func WithTheme(t *theme.Theme) Option {
	return func(e *Engine) { e.theme = t }
}

// WithCompositor replaces the compositor used for mask exports.
func WithCompositor(c *mask.Compositor) Option {
	return func(e *Engine) { e.compositor = c }
}

// OnRender is called after every render with the drawn elements.
func OnRender(fn func([]surface.Element, render.Canvas)) Option {
	return func(e *Engine) { e.onRender = fn }
}

// OnElementAdded is called whenever an element is added, including the
// stroke created at the start of a gesture.
func OnElementAdded(fn func(surface.Element)) Option {
	return func(e *Engine) { e.onElementAdded = fn }
}

// OnStrokeComplete is called once per finished stroke gesture.
func OnStrokeComplete(fn func(surface.Element)) Option {
	return func(e *Engine) { e.onStrokeComplete = fn }
}

// OnPointer receives pointer events the engine accepted, with their
// normalized position.
func OnPointer(fn func(PointerEvent, geom.NormalizedPoint)) Option {
	return func(e *Engine) { e.onPointer = fn }
}

func OnWheel(fn func(WheelEvent)) Option {
	return func(e *Engine) { e.onWheel = fn }
}

// New returns an empty surface in view mode.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:     logrus.WithField("component", "engine"),
		state:   surface.DefaultState(),
		history: history.New(history.DefaultLimit),
		theme:   theme.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.compositor == nil {
		e.compositor = mask.New(mask.WithLogger(e.log.WithField("component", "mask")))
	}
	return e
}

// State returns a snapshot of the surface.
func (e *Engine) State() surface.State {
	s := e.state
	s.Selected = slices.Clone(e.state.Selected)
	if e.state.CurrentTime != nil {
		t := *e.state.CurrentTime
		s.CurrentTime = &t
	}
	return s
}

// LoadState replaces the whole surface, for example from a saved scene.
// History is cleared and any gesture in progress is dropped.
func (e *Engine) LoadState(s surface.State) {
	e.gesture = nil
	s.Tool = sanitizeTool(s.Tool)
	s.View = s.View.WithZoom(s.View.Zoom)
	if s.View.Fit == "" {
		s.View.Fit = geom.FitContain
	}
	if s.Mode == "" {
		s.Mode = surface.ModeView
	}
	e.state = s
	e.fixActiveLayer()
	e.pruneSelection()
	e.history.Clear()
	e.log.WithField("layers", len(s.Layers)).Info("loaded state")
	e.render()
}

// Drawing reports whether a stroke gesture is in progress.
func (e *Engine) Drawing() bool { return e.gesture != nil }

// Container returns the last container size passed to Resize.
func (e *Engine) Container() geom.Dimensions { return e.container }

// Media returns the media size passed to MediaLoaded.
func (e *Engine) Media() geom.Dimensions { return e.media }

// Transform returns the coordinate transform for the current view.
func (e *Engine) Transform() geom.Transform {
	return geom.NewTransform(e.container, e.media, e.state.View)
}

// Theme returns the theme used for live rendering.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// Render redraws the attached canvas. Mutating calls render on their own;
// hosts call this after their canvas was invalidated.
func (e *Engine) Render() { e.render() }

func (e *Engine) render() {
	if e.canvas == nil {
		return
	}
	drawn := render.Render(e.canvas, render.Frame{
		Layers:    e.state.Layers,
		Transform: e.Transform(),
		Zoom:      e.state.View.Zoom,
		Time:      e.state.CurrentTime,
		Selected:  e.state.Selected,
		Theme:     e.theme,
	})
	if e.onRender != nil {
		e.onRender(drawn, e.canvas)
	}
}

func (e *Engine) elementAdded(el surface.Element) {
	if e.onElementAdded != nil {
		e.onElementAdded(el)
	}
}

func sanitizeTool(t surface.ToolConfig) surface.ToolConfig {
	def := surface.DefaultTool()
	if !(t.Size > 0) {
		t.Size = def.Size
	}
	if t.Color == "" {
		t.Color = def.Color
	}
	if !(t.Opacity > 0) {
		t.Opacity = def.Opacity
	}
	t.Opacity = clamp01(t.Opacity)
	t.Smoothing = clamp01(t.Smoothing)
	return t
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
