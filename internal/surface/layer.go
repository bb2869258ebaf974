package surface

import (
	"maps"
	"slices"
	"sort"
	"strconv"
)

// LayerKind hints what a layer is used for.
type LayerKind string

const (
	LayerMask       LayerKind = "mask"
	LayerAnnotation LayerKind = "annotation"
	LayerRegion     LayerKind = "region"
	LayerCustom     LayerKind = "custom"
)

// Layer groups elements that are shown, locked and faded together.
type Layer struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Kind     LayerKind      `json:"kind"`
	Visible  bool           `json:"visible"`
	Locked   bool           `json:"locked,omitempty"`
	Opacity  float64        `json:"opacity"`
	ZIndex   int            `json:"zIndex"`
	Elements []Element      `json:"elements"`
	Config   map[string]any `json:"config,omitempty"`
}

// LayerSpec describes a layer to create. Zero fields take defaults: a
// generated id, a name derived from the kind, opacity 1 and a z-index above
// every existing layer.
type LayerSpec struct {
	ID      string
	Name    string
	Kind    LayerKind
	Hidden  bool
	Locked  bool
	Opacity *float64
	ZIndex  *int
	Config  map[string]any
}

// Element looks up an element by id within the layer.
func (l Layer) Element(id string) (Element, bool) {
	i := l.elementIndex(id)
	if i < 0 {
		return Element{}, false
	}
	return l.Elements[i], true
}

func (l Layer) elementIndex(id string) int {
	return slices.IndexFunc(l.Elements, func(e Element) bool { return e.ID == id })
}

// Layers is an ordered, immutable collection of layers. Insertion order is
// kept and used to break z-index ties.
type Layers []Layer

// NewLayer builds the layer described by spec as it would be appended to ls.
func (ls Layers) NewLayer(spec LayerSpec) Layer {
	l := Layer{
		ID:      spec.ID,
		Name:    spec.Name,
		Kind:    spec.Kind,
		Visible: !spec.Hidden,
		Locked:  spec.Locked,
		Opacity: 1,
		Config:  maps.Clone(spec.Config),
	}
	if l.ID == "" {
		l.ID = NewID()
	}
	if l.Kind == "" {
		l.Kind = LayerAnnotation
	}
	if l.Name == "" {
		l.Name = defaultLayerName(l.Kind, len(ls)+1)
	}
	if spec.Opacity != nil {
		l.Opacity = clamp01(*spec.Opacity)
	}
	if spec.ZIndex != nil {
		l.ZIndex = *spec.ZIndex
	} else {
		l.ZIndex = ls.nextZ()
	}
	return l
}

func defaultLayerName(k LayerKind, n int) string {
	switch k {
	case LayerMask:
		return "Mask " + strconv.Itoa(n)
	case LayerRegion:
		return "Regions " + strconv.Itoa(n)
	case LayerCustom:
		return "Layer " + strconv.Itoa(n)
	}
	return "Annotations " + strconv.Itoa(n)
}

func (ls Layers) nextZ() int {
	if len(ls) == 0 {
		return 0
	}
	z := ls[0].ZIndex
	for _, l := range ls[1:] {
		if l.ZIndex > z {
			z = l.ZIndex
		}
	}
	return z + 1
}

func (ls Layers) index(id string) int {
	return slices.IndexFunc(ls, func(l Layer) bool { return l.ID == id })
}

// Layer looks up a layer by id.
func (ls Layers) Layer(id string) (Layer, bool) {
	i := ls.index(id)
	if i < 0 {
		return Layer{}, false
	}
	return ls[i], true
}

// Element finds an element by id in any layer.
func (ls Layers) Element(id string) (Element, bool) {
	for _, l := range ls {
		if e, ok := l.Element(id); ok {
			return e, true
		}
	}
	return Element{}, false
}

// WithLayer returns ls with l appended. A layer with the same id is replaced
// in place instead.
func (ls Layers) WithLayer(l Layer) Layers {
	l.Elements = slices.Clone(l.Elements)
	for i := range l.Elements {
		l.Elements[i].LayerID = l.ID
	}
	if i := ls.index(l.ID); i >= 0 {
		out := slices.Clone(ls)
		out[i] = l
		return out
	}
	return append(slices.Clip(ls), l)
}

// Without removes a layer together with its elements.
func (ls Layers) Without(id string) Layers {
	i := ls.index(id)
	if i < 0 {
		return ls
	}
	return slices.Delete(slices.Clone(ls), i, i+1)
}

// Update applies fn to a copy of the layer. The id and elements cannot be
// changed through fn.
func (ls Layers) Update(id string, fn func(*Layer)) Layers {
	i := ls.index(id)
	if i < 0 {
		return ls
	}
	out := slices.Clone(ls)
	l := out[i]
	l.Config = maps.Clone(l.Config)
	fn(&l)
	l.ID = ls[i].ID
	l.Elements = ls[i].Elements
	l.Opacity = clamp01(l.Opacity)
	out[i] = l
	return out
}

// Cleared removes every element from a layer.
func (ls Layers) Cleared(id string) Layers {
	i := ls.index(id)
	if i < 0 {
		return ls
	}
	out := slices.Clone(ls)
	out[i].Elements = nil
	return out
}

// WithElement appends e to a layer, stamping its layer id.
func (ls Layers) WithElement(layerID string, e Element) Layers {
	i := ls.index(layerID)
	if i < 0 {
		return ls
	}
	e.LayerID = layerID
	out := slices.Clone(ls)
	out[i].Elements = append(slices.Clip(ls[i].Elements), e)
	return out
}

// ReplaceElement swaps the element with e.ID for e.
func (ls Layers) ReplaceElement(layerID string, e Element) Layers {
	i := ls.index(layerID)
	if i < 0 {
		return ls
	}
	j := ls[i].elementIndex(e.ID)
	if j < 0 {
		return ls
	}
	e.LayerID = layerID
	out := slices.Clone(ls)
	out[i].Elements = slices.Clone(ls[i].Elements)
	out[i].Elements[j] = e
	return out
}

// UpdateElement applies fn to a deep copy of an element. The id and layer
// cannot be changed through fn.
func (ls Layers) UpdateElement(layerID, elementID string, fn func(*Element)) Layers {
	l, ok := ls.Layer(layerID)
	if !ok {
		return ls
	}
	e, ok := l.Element(elementID)
	if !ok {
		return ls
	}
	e = e.Clone()
	fn(&e)
	e.ID = elementID
	return ls.ReplaceElement(layerID, e)
}

// WithoutElement removes an element from a layer.
func (ls Layers) WithoutElement(layerID, elementID string) Layers {
	i := ls.index(layerID)
	if i < 0 {
		return ls
	}
	j := ls[i].elementIndex(elementID)
	if j < 0 {
		return ls
	}
	out := slices.Clone(ls)
	out[i].Elements = slices.Delete(slices.Clone(ls[i].Elements), j, j+1)
	return out
}

// Sorted returns the layers ordered by z-index, keeping insertion order for
// equal values.
func (ls Layers) Sorted() Layers {
	out := slices.Clone(ls)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
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
