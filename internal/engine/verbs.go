package engine

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/history"
	"github.com/example/marksurface/internal/surface"
)

// commit replaces the layer collection and records one history entry. A
// stroke in progress is finished first so that it gets its own entry and no
// entry ever holds a half drawn stroke.
func (e *Engine) commit(desc string, next surface.Layers) {
	e.finishStroke()
	before := e.state.Layers
	e.state.Layers = next
	e.history.Push(desc, before, next)
	e.fixActiveLayer()
	e.pruneSelection()
	e.log.WithField("description", desc).Debug("history entry")
	e.render()
}

// CreateLayer appends an empty layer. The first layer created becomes
// active. Creating a layer is not recorded in history; undoing an action
// never removes a layer that existed before it.
func (e *Engine) CreateLayer(spec surface.LayerSpec) surface.Layer {
	if _, exists := e.state.Layers.Layer(spec.ID); spec.ID != "" && exists {
		spec.ID = ""
	}
	l := e.state.Layers.NewLayer(spec)
	e.state.Layers = e.state.Layers.WithLayer(l)
	if e.state.ActiveLayerID == "" {
		e.state.ActiveLayerID = l.ID
	}
	e.render()
	e.log.WithFields(logrus.Fields{"layer_id": l.ID, "kind": l.Kind}).Info("layer created")
	return l
}

// RemoveLayer deletes a layer and its elements. A stroke in progress is
// recorded before the layer goes.
func (e *Engine) RemoveLayer(id string) bool {
	if _, ok := e.state.Layers.Layer(id); !ok {
		return false
	}
	e.commit("Remove layer", e.state.Layers.Without(id))
	return true
}

// SetActiveLayer selects the layer new strokes go to. An empty id clears it.
func (e *Engine) SetActiveLayer(id string) bool {
	if id != "" {
		if _, ok := e.state.Layers.Layer(id); !ok {
			return false
		}
	}
	e.state.ActiveLayerID = id
	return true
}

// UpdateLayer edits layer fields such as name, visibility, lock, opacity
// and z-index.
func (e *Engine) UpdateLayer(id string, fn func(*surface.Layer)) bool {
	if _, ok := e.state.Layers.Layer(id); !ok {
		return false
	}
	e.commit("Update layer", e.state.Layers.Update(id, fn))
	return true
}

// ClearLayer removes every element of a layer.
func (e *Engine) ClearLayer(id string) bool {
	l, ok := e.state.Layers.Layer(id)
	if !ok || l.Locked {
		return false
	}
	e.commit("Clear layer", e.state.Layers.Cleared(id))
	return true
}

// AddElement adds el to a layer. A missing id is generated.
func (e *Engine) AddElement(layerID string, el surface.Element) (surface.Element, bool) {
	l, ok := e.state.Layers.Layer(layerID)
	if !ok || l.Locked || !el.Valid() {
		return surface.Element{}, false
	}
	el = el.Clone()
	if el.ID == "" {
		el.ID = surface.NewID()
	}
	if _, dup := e.state.Layers.Element(el.ID); dup {
		el.ID = surface.NewID()
	}
	el.LayerID = layerID
	e.commit("Add "+string(el.Kind), e.state.Layers.WithElement(layerID, el))
	e.elementAdded(el)
	return el, true
}

// UpdateElement edits an element in place. Locked elements and elements on
// locked layers are left alone.
func (e *Engine) UpdateElement(layerID, elementID string, fn func(*surface.Element)) bool {
	if !e.editable(layerID, elementID) {
		return false
	}
	e.commit("Update element", e.state.Layers.UpdateElement(layerID, elementID, fn))
	return true
}

// RemoveElement deletes an element from a layer.
func (e *Engine) RemoveElement(layerID, elementID string) bool {
	if !e.editable(layerID, elementID) {
		return false
	}
	e.commit("Remove element", e.state.Layers.WithoutElement(layerID, elementID))
	return true
}

func (e *Engine) editable(layerID, elementID string) bool {
	l, ok := e.state.Layers.Layer(layerID)
	if !ok || l.Locked {
		return false
	}
	el, ok := l.Element(elementID)
	return ok && !el.Locked
}

// AddPoint adds a point to the active layer, creating an annotation layer
// first when there is none.
func (e *Engine) AddPoint(at geom.NormalizedPoint, label string, style surface.Style) (surface.Element, bool) {
	return e.addConvenience(surface.LayerAnnotation, surface.NewPoint(at, label, style))
}

// AddRegion adds a region to the active layer, creating a region layer first
// when there is none.
func (e *Engine) AddRegion(r geom.NormalizedRect, label string, style surface.Style) (surface.Element, bool) {
	return e.addConvenience(surface.LayerRegion, surface.NewRegion(r, label, style))
}

// AddPolygon adds a polygon of at least two points to the active layer,
// creating an annotation layer first when there is none.
func (e *Engine) AddPolygon(points []geom.NormalizedPoint, closed bool, style surface.Style) (surface.Element, bool) {
	return e.addConvenience(surface.LayerAnnotation, surface.NewPolygon(points, closed, style))
}

func (e *Engine) addConvenience(kind surface.LayerKind, el surface.Element) (surface.Element, bool) {
	if !el.Valid() {
		return surface.Element{}, false
	}
	next := e.state.Layers
	l, ok := e.state.ActiveLayer()
	if !ok {
		l = next.NewLayer(surface.LayerSpec{Kind: kind})
		next = next.WithLayer(l)
		e.state.ActiveLayerID = l.ID
		e.log.WithFields(logrus.Fields{"layer_id": l.ID, "kind": kind}).Info("created default layer")
	} else if l.Locked {
		return surface.Element{}, false
	}
	el.LayerID = l.ID
	e.commit("Add "+string(el.Kind), next.WithElement(l.ID, el))
	e.elementAdded(el)
	return el, true
}

// Select replaces the selection with the ids that exist.
func (e *Engine) Select(ids ...string) {
	var sel []string
	for _, id := range ids {
		if _, ok := e.state.Layers.Element(id); ok && !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	e.state.Selected = sel
	e.render()
}

func (e *Engine) ClearSelection() {
	e.state.Selected = nil
	e.render()
}

// SetMode switches the interaction mode, finishing any stroke in progress.
func (e *Engine) SetMode(m surface.Mode) {
	e.finishStroke()
	e.state.Mode = m
	e.log.WithField("mode", m).Debug("mode changed")
}

// SetTool replaces the drawing tool for future strokes.
func (e *Engine) SetTool(t surface.ToolConfig) {
	e.state.Tool = sanitizeTool(t)
}

// Undo restores the layers from before the last recorded action.
func (e *Engine) Undo() bool {
	if e.gesture != nil {
		return false
	}
	layers, ok := e.history.Undo(e.state.Layers)
	if !ok {
		return false
	}
	e.restore(layers)
	return true
}

// Redo re-applies the last undone action.
func (e *Engine) Redo() bool {
	if e.gesture != nil {
		return false
	}
	layers, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(layers)
	return true
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// History returns the recorded entries, oldest first.
func (e *Engine) History() []history.Entry { return e.history.Entries() }

func (e *Engine) restore(layers surface.Layers) {
	e.state.Layers = layers
	e.fixActiveLayer()
	e.pruneSelection()
	e.render()
}

// fixActiveLayer clears the active layer id when it no longer resolves.
func (e *Engine) fixActiveLayer() {
	if e.state.ActiveLayerID == "" {
		return
	}
	if _, ok := e.state.Layers.Layer(e.state.ActiveLayerID); !ok {
		e.state.ActiveLayerID = ""
	}
}

func (e *Engine) pruneSelection() {
	e.state.Selected = slices.DeleteFunc(e.state.Selected, func(id string) bool {
		_, ok := e.state.Layers.Element(id)
		return !ok
	})
}
