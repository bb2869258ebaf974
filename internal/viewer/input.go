package viewer

import (
	"golang.org/x/mobile/event/mouse"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/geom"
)

// input tracks mouse state between events.
type input struct {
	leftDown  bool
	panning   bool
	panStart  geom.ScreenPoint
	panOrigin geom.ScreenPoint
}

// blur ends any drag when the window loses focus, since the release will
// never arrive.
func (in *input) blur(v *Viewer) {
	v.engine.HandlePointer(engine.PointerEvent{Type: engine.PointerLeave, Pointer: engine.Mouse})
	if in.leftDown {
		v.engine.HandlePointer(engine.PointerEvent{Type: engine.PointerUp, Pointer: engine.Mouse})
	}
	in.leftDown, in.panning = false, false
}

// mouse routes e to the engine and reports whether a repaint is needed.
// The left button draws, the middle button pans and the wheel zooms at the
// cursor.
func (in *input) mouse(v *Viewer, e mouse.Event, height int) bool {
	p := geom.ScreenPoint{X: float64(e.X), Y: float64(e.Y)}
	ev := engine.PointerEvent{Point: p, Pointer: engine.Mouse}

	switch {
	case e.Button.IsWheel():
		if e.Direction != mouse.DirStep {
			return false
		}
		dy := 1.0
		if e.Button == mouse.ButtonWheelUp {
			dy = -1
		}
		v.engine.Wheel(engine.WheelEvent{Point: p, DeltaY: dy})
		z := v.engine.State().View.Zoom
		if dy < 0 {
			z *= zoomStep
		} else {
			z /= zoomStep
		}
		v.engine.ZoomAt(z, p)
		return true

	case e.Button == mouse.ButtonMiddle:
		switch e.Direction {
		case mouse.DirPress:
			in.panning = true
			in.panStart = p
			in.panOrigin = v.engine.State().View.Pan
		case mouse.DirRelease:
			in.panning = false
		}
		return false

	case e.Button == mouse.ButtonLeft:
		switch e.Direction {
		case mouse.DirPress:
			if int(e.Y) >= height-statusHeight {
				return false
			}
			in.leftDown = true
			ev.Type = engine.PointerDown
		case mouse.DirRelease:
			in.leftDown = false
			ev.Type = engine.PointerUp
		default:
			return false
		}
		v.engine.HandlePointer(ev)
		return true
	}

	if e.Direction != mouse.DirNone {
		return false
	}
	if in.panning {
		v.engine.SetPan(geom.ScreenPoint{
			X: in.panOrigin.X + p.X - in.panStart.X,
			Y: in.panOrigin.Y + p.Y - in.panStart.Y,
		})
		return true
	}
	ev.Type = engine.PointerMove
	v.engine.HandlePointer(ev)
	return in.leftDown
}
