package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/surface"
)

// Step is one scripted action. Op selects which of the other fields are
// read.
//
//	resize   Size                  container size
//	media    Size                  media natural size
//	mode     Mode
//	tool     Tool
//	layer    Layer                 create a layer
//	active   ID                    set the active layer
//	lock     ID, Locked
//	clear    ID                    clear a layer
//	remove   ID                    remove a layer
//	down, move, up, enter, leave   At (normalized) or Point (screen), Pressure;
//	                               up and leave may omit the position
//	wheel    Point, DeltaY
//	zoom     Zoom, optional Point as anchor
//	pan      Point
//	fit      Fit
//	time     Time                  nil clears it
//	point    At, Label
//	region   Rect, Label
//	polygon  Points, Closed
//	undo, redo
type Step struct {
	Op       string                 `json:"op"`
	Size     *geom.Dimensions       `json:"size,omitempty"`
	Mode     surface.Mode           `json:"mode,omitempty"`
	Tool     *surface.ToolConfig    `json:"tool,omitempty"`
	Layer    *LayerStep             `json:"layer,omitempty"`
	ID       string                 `json:"id,omitempty"`
	Locked   bool                   `json:"locked,omitempty"`
	At       *geom.NormalizedPoint  `json:"at,omitempty"`
	Point    *geom.ScreenPoint      `json:"point,omitempty"`
	Pressure float64                `json:"pressure,omitempty"`
	Pointer  engine.PointerKind     `json:"pointer,omitempty"`
	DeltaY   float64                `json:"deltaY,omitempty"`
	Zoom     float64                `json:"zoom,omitempty"`
	Fit      geom.FitMode           `json:"fit,omitempty"`
	Time     *float64               `json:"time,omitempty"`
	Label    string                 `json:"label,omitempty"`
	Rect     *geom.NormalizedRect   `json:"rect,omitempty"`
	Points   []geom.NormalizedPoint `json:"points,omitempty"`
	Closed   bool                   `json:"closed,omitempty"`
}

// LayerStep describes a layer created by a script.
type LayerStep struct {
	ID      string            `json:"id,omitempty"`
	Name    string            `json:"name,omitempty"`
	Kind    surface.LayerKind `json:"kind,omitempty"`
	Locked  bool              `json:"locked,omitempty"`
	Opacity *float64          `json:"opacity,omitempty"`
}

// Script is a recorded or hand written input sequence.
type Script struct {
	Container geom.Dimensions `json:"container"`
	Media     geom.Dimensions `json:"media"`
	Steps     []Step          `json:"steps"`
}

// LoadScript decodes a script.
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// LoadScriptFile reads a script from path.
func LoadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScript(f)
}

// Replay feeds every step into e. It stops at the first step it cannot
// interpret; steps that target missing layers are no-ops like any other
// engine call.
func (s *Script) Replay(e *engine.Engine) error {
	if !s.Container.Degenerate() {
		e.Resize(s.Container)
	}
	if !s.Media.Degenerate() {
		e.MediaLoaded(s.Media)
	}
	for i, st := range s.Steps {
		if err := apply(e, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, st.Op, err)
		}
	}
	return nil
}

func apply(e *engine.Engine, st Step) error {
	switch st.Op {
	case "resize", "media":
		if st.Size == nil {
			return fmt.Errorf("missing size")
		}
		if st.Op == "resize" {
			e.Resize(*st.Size)
		} else {
			e.MediaLoaded(*st.Size)
		}
	case "mode":
		m, err := surface.ParseMode(string(st.Mode))
		if err != nil {
			return err
		}
		e.SetMode(m)
	case "tool":
		if st.Tool == nil {
			return fmt.Errorf("missing tool")
		}
		e.SetTool(*st.Tool)
	case "layer":
		spec := surface.LayerSpec{}
		if st.Layer != nil {
			spec = surface.LayerSpec{ID: st.Layer.ID, Name: st.Layer.Name, Kind: st.Layer.Kind, Locked: st.Layer.Locked, Opacity: st.Layer.Opacity}
		}
		e.CreateLayer(spec)
	case "active":
		e.SetActiveLayer(st.ID)
	case "lock":
		e.UpdateLayer(st.ID, func(l *surface.Layer) { l.Locked = st.Locked })
	case "clear":
		e.ClearLayer(st.ID)
	case "remove":
		e.RemoveLayer(st.ID)
	case "down", "move", "up", "enter", "leave":
		p, err := screenPoint(e, st)
		if err != nil && st.Op != "up" && st.Op != "leave" {
			return err
		}
		e.HandlePointer(engine.PointerEvent{Type: engine.PointerType(st.Op), Point: p, Pressure: st.Pressure, Pointer: st.Pointer})
	case "wheel":
		p, err := screenPoint(e, st)
		if err != nil {
			return err
		}
		e.Wheel(engine.WheelEvent{Point: p, DeltaY: st.DeltaY})
	case "zoom":
		if st.Point != nil || st.At != nil {
			p, err := screenPoint(e, st)
			if err != nil {
				return err
			}
			e.ZoomAt(st.Zoom, p)
		} else {
			e.SetZoom(st.Zoom)
		}
	case "pan":
		if st.Point == nil {
			return fmt.Errorf("missing point")
		}
		e.SetPan(*st.Point)
	case "fit":
		f, err := geom.ParseFitMode(string(st.Fit))
		if err != nil {
			return err
		}
		e.SetFit(f)
	case "time":
		e.SetTime(st.Time)
	case "point":
		if st.At == nil {
			return fmt.Errorf("missing at")
		}
		e.AddPoint(*st.At, st.Label, surface.Style{})
	case "region":
		if st.Rect == nil {
			return fmt.Errorf("missing rect")
		}
		e.AddRegion(*st.Rect, st.Label, surface.Style{})
	case "polygon":
		e.AddPolygon(st.Points, st.Closed, surface.Style{})
	case "undo":
		e.Undo()
	case "redo":
		e.Redo()
	default:
		return fmt.Errorf("unknown op")
	}
	return nil
}

// screenPoint resolves the step position, converting At through the current
// transform.
func screenPoint(e *engine.Engine, st Step) (geom.ScreenPoint, error) {
	if st.Point != nil {
		return *st.Point, nil
	}
	if st.At != nil {
		p, ok := e.Transform().ToScreen(*st.At)
		if !ok {
			return geom.ScreenPoint{}, fmt.Errorf("no media rect to place normalized point")
		}
		return p, nil
	}
	return geom.ScreenPoint{}, fmt.Errorf("missing point or at")
}
