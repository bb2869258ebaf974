package engine

import (
	"github.com/example/marksurface/internal/geom"
)

// SetZoom sets the zoom, clamped to [geom.MinZoom, geom.MaxZoom].
func (e *Engine) SetZoom(z float64) {
	e.state.View = e.state.View.WithZoom(z)
	e.render()
}

// SetPan sets the offset from the centred position.
func (e *Engine) SetPan(p geom.ScreenPoint) {
	e.state.View.Pan = p
	e.render()
}

func (e *Engine) SetFit(f geom.FitMode) {
	e.state.View.Fit = f
	e.render()
}

// ZoomAt zooms to z while keeping the media point under anchor in place.
func (e *Engine) ZoomAt(z float64, anchor geom.ScreenPoint) {
	n, ok := e.Transform().ToNormalized(anchor)
	view := e.state.View.WithZoom(z)
	if ok {
		moved, ok := geom.NewTransform(e.container, e.media, view).ToScreen(n)
		if ok {
			view.Pan.X += anchor.X - moved.X
			view.Pan.Y += anchor.Y - moved.Y
		}
	}
	e.state.View = view
	e.render()
}

// ResetView restores zoom 1 and a centred pan, keeping the fit mode.
func (e *Engine) ResetView() {
	fit := e.state.View.Fit
	e.state.View = geom.DefaultView()
	if fit != "" {
		e.state.View.Fit = fit
	}
	e.render()
}
