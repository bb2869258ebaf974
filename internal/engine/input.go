package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/surface"
)

// PointerType is the phase of a pointer event.
type PointerType string

const (
	PointerDown  PointerType = "down"
	PointerMove  PointerType = "move"
	PointerUp    PointerType = "up"
	PointerEnter PointerType = "enter"
	PointerLeave PointerType = "leave"
)

// PointerKind is the input device that produced an event.
type PointerKind string

const (
	Mouse PointerKind = "mouse"
	Pen   PointerKind = "pen"
	Touch PointerKind = "touch"
)

// PointerEvent is a pointer sample in container pixels. Pressure is in
// [0,1]; zero means the device does not report it.
type PointerEvent struct {
	Type     PointerType      `json:"type"`
	Point    geom.ScreenPoint `json:"point"`
	Pressure float64          `json:"pressure,omitempty"`
	Pointer  PointerKind      `json:"pointer,omitempty"`
	Time     time.Time        `json:"time,omitzero"`
}

// WheelEvent is a scroll at a container position.
type WheelEvent struct {
	Point  geom.ScreenPoint `json:"point"`
	DeltaY float64          `json:"deltaY"`
}

// HandlePointer feeds one pointer event through the interaction state
// machine. Events are dropped while the transform is undefined, except that
// an up or leave still ends a stroke left open by a degenerate resize.
func (e *Engine) HandlePointer(ev PointerEvent) {
	t := e.Transform()
	if !t.Valid() {
		if ev.Type == PointerUp || ev.Type == PointerLeave {
			e.finishStroke()
		}
		e.log.WithField("event", ev.Type).Debug("pointer ignored: no media rect")
		return
	}
	n, _ := t.ToNormalized(ev.Point)
	accepted := true
	switch ev.Type {
	case PointerDown:
		accepted = e.pointerDown(ev, n)
	case PointerMove:
		accepted = e.pointerMove(ev, n)
	case PointerUp:
		e.pointerUp()
	}
	if accepted && e.onPointer != nil {
		e.onPointer(ev, n)
	}
}

func (e *Engine) pointerDown(ev PointerEvent, n geom.NormalizedPoint) bool {
	if !geom.IsWithinBounds(n) {
		e.log.WithField("mode", e.state.Mode).Debug("pointer down outside media")
		return false
	}
	if e.gesture != nil {
		return false
	}
	switch e.state.Mode {
	case surface.ModeDraw, surface.ModeErase:
		e.beginStroke(ev, n)
	case surface.ModePoint:
		e.placePoint(n)
	}
	return true
}

func (e *Engine) pointerMove(ev PointerEvent, n geom.NormalizedPoint) bool {
	if e.gesture == nil {
		return geom.IsWithinBounds(n)
	}
	g := e.gesture
	l, ok := e.state.Layers.Layer(g.layerID)
	if !ok {
		return true
	}
	el, ok := l.Element(g.elementID)
	if !ok {
		return true
	}
	el = el.AppendPoint(e.strokePoint(ev, n))
	e.state.Layers = e.state.Layers.ReplaceElement(g.layerID, el)
	e.render()
	return true
}

func (e *Engine) pointerUp() {
	e.finishStroke()
}

func (e *Engine) strokePoint(ev PointerEvent, n geom.NormalizedPoint) surface.StrokePoint {
	p := 1.0
	if e.state.Tool.PressureSensitive && ev.Pressure > 0 {
		p = clamp01(ev.Pressure)
	}
	return surface.StrokePoint{NormalizedPoint: n, Pressure: p}
}

// drawableLayer returns the active layer when it exists and is unlocked.
func (e *Engine) drawableLayer() (surface.Layer, bool) {
	l, ok := e.state.ActiveLayer()
	if !ok {
		e.log.Debug("no active layer")
		return l, false
	}
	if l.Locked {
		e.log.WithField("layer_id", l.ID).Debug("active layer is locked")
		return l, false
	}
	return l, true
}

func (e *Engine) beginStroke(ev PointerEvent, n geom.NormalizedPoint) {
	l, ok := e.drawableLayer()
	if !ok {
		return
	}
	el := surface.NewStroke(e.strokePoint(ev, n), e.state.Tool, e.state.Mode == surface.ModeErase)
	e.gesture = &gesture{layerID: l.ID, elementID: el.ID, before: e.state.Layers}
	e.state.Layers = e.state.Layers.WithElement(l.ID, el)
	el.LayerID = l.ID
	e.log.WithFields(logrus.Fields{
		"layer_id":   l.ID,
		"element_id": el.ID,
		"erase":      el.Stroke.Erase,
	}).Debug("stroke started")
	e.elementAdded(el)
	e.render()
}

// finishStroke ends the gesture, if any, recording exactly one history
// entry.
func (e *Engine) finishStroke() {
	g := e.gesture
	if g == nil {
		return
	}
	e.gesture = nil
	el, ok := e.state.Layers.Element(g.elementID)
	if !ok {
		e.log.WithField("element_id", g.elementID).Debug("stroke vanished before completion")
		return
	}
	desc := "Draw stroke"
	if el.Stroke.Erase {
		desc = "Erase stroke"
	}
	e.history.Push(desc, g.before, e.state.Layers)
	e.log.WithFields(logrus.Fields{
		"element_id":  el.ID,
		"points":      len(el.Stroke.Points),
		"description": desc,
	}).Info("stroke completed")
	if e.onStrokeComplete != nil {
		e.onStrokeComplete(el)
	}
}

func (e *Engine) placePoint(n geom.NormalizedPoint) {
	tool := e.state.Tool
	size := tool.Size * e.Transform().Rect().Width / e.state.View.Zoom
	if _, ok := e.AddPoint(n, "", surface.Style{Color: tool.Color, Size: size}); !ok {
		e.log.Debug("point rejected")
	}
}

// Wheel forwards a wheel event to the OnWheel listener. It does not change
// the view; hosts decide whether to call ZoomAt.
func (e *Engine) Wheel(ev WheelEvent) {
	if e.onWheel != nil {
		e.onWheel(ev)
	}
}

// Resize records a new container size and re-renders.
func (e *Engine) Resize(d geom.Dimensions) {
	e.container = d
	if e.canvas != nil && !d.Degenerate() {
		e.canvas.Resize(int(d.Width+0.5), int(d.Height+0.5))
	}
	e.log.WithField("container", d.String()).Debug("resized")
	e.render()
}

// MediaLoaded records the natural size of the media.
func (e *Engine) MediaLoaded(d geom.Dimensions) {
	e.media = d
	e.log.WithField("media", d.String()).Debug("media loaded")
	e.render()
}

// SetTime sets the playback position used to filter timed elements. nil
// shows every element.
func (e *Engine) SetTime(t *float64) {
	if t != nil {
		v := *t
		t = &v
	}
	e.state.CurrentTime = t
	e.render()
}
