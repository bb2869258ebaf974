// Package surface holds the layered vector model that annotations are
// stored in. Values are treated as immutable: every mutating verb returns a
// new Layers collection and leaves the receiver untouched.
package surface

import (
	"maps"
	"slices"

	"github.com/example/marksurface/internal/geom"
	"github.com/oklog/ulid/v2"
)

// NewID returns a fresh identifier for layers, elements and history entries.
func NewID() string {
	return ulid.Make().String()
}

// Kind tags the payload carried by an Element.
type Kind string

const (
	KindPoint   Kind = "point"
	KindRegion  Kind = "region"
	KindPolygon Kind = "polygon"
	KindStroke  Kind = "stroke"
)

// Style is the optional look of points, regions and polygons. Colours are
// hex or SVG colour names; empty values fall back to the theme.
type Style struct {
	Color       string  `json:"color,omitempty"`
	FillColor   string  `json:"fillColor,omitempty"`
	Size        float64 `json:"size,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// TimeRange limits a video annotation to [Start, End] seconds.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t falls inside the range, bounds included.
func (r TimeRange) Contains(t float64) bool {
	return t >= r.Start && t <= r.End
}

// ToolConfig is the drawing tool active when a stroke was made. Size is a
// fraction of the media width so strokes scale with the media.
type ToolConfig struct {
	Size              float64 `json:"size"`
	Color             string  `json:"color"`
	Opacity           float64 `json:"opacity"`
	Smoothing         float64 `json:"smoothing"`
	PressureSensitive bool    `json:"pressureSensitive,omitempty"`
}

// DefaultTool returns a red, fully opaque, lightly smoothed brush.
func DefaultTool() ToolConfig {
	return ToolConfig{Size: 0.01, Color: "#FF0000", Opacity: 1, Smoothing: 0.5}
}

type StrokePoint struct {
	geom.NormalizedPoint
	Pressure float64 `json:"pressure,omitempty"`
}

type PointData struct {
	At    geom.NormalizedPoint `json:"at"`
	Label string               `json:"label,omitempty"`
	Style Style                `json:"style"`
}

type RegionData struct {
	Rect  geom.NormalizedRect `json:"rect"`
	Label string              `json:"label,omitempty"`
	Style Style               `json:"style"`
}

type PolygonData struct {
	Points []geom.NormalizedPoint `json:"points"`
	Closed bool                   `json:"closed"`
	Style  Style                  `json:"style"`
}

type StrokeData struct {
	Points []StrokePoint `json:"points"`
	Tool   ToolConfig    `json:"tool"`
	Erase  bool          `json:"erase,omitempty"`
}

// Element is a tagged union: Kind says which one of Point, Region, Polygon
// or Stroke is set.
type Element struct {
	ID        string         `json:"id"`
	LayerID   string         `json:"layerId"`
	Kind      Kind           `json:"kind"`
	Visible   bool           `json:"visible"`
	Locked    bool           `json:"locked,omitempty"`
	TimeRange *TimeRange     `json:"timeRange,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`

	Point   *PointData   `json:"point,omitempty"`
	Region  *RegionData  `json:"region,omitempty"`
	Polygon *PolygonData `json:"polygon,omitempty"`
	Stroke  *StrokeData  `json:"stroke,omitempty"`
}

// NewPoint returns a visible point element with a fresh id.
func NewPoint(at geom.NormalizedPoint, label string, style Style) Element {
	return Element{ID: NewID(), Kind: KindPoint, Visible: true,
		Point: &PointData{At: at, Label: label, Style: style}}
}

// NewRegion returns a visible region element with a fresh id.
func NewRegion(r geom.NormalizedRect, label string, style Style) Element {
	return Element{ID: NewID(), Kind: KindRegion, Visible: true,
		Region: &RegionData{Rect: r, Label: label, Style: style}}
}

// NewPolygon returns a visible polygon element with a fresh id.
func NewPolygon(points []geom.NormalizedPoint, closed bool, style Style) Element {
	return Element{ID: NewID(), Kind: KindPolygon, Visible: true,
		Polygon: &PolygonData{Points: slices.Clone(points), Closed: closed, Style: style}}
}

// NewStroke returns a visible stroke seeded with first.
func NewStroke(first StrokePoint, tool ToolConfig, erase bool) Element {
	return Element{ID: NewID(), Kind: KindStroke, Visible: true,
		Stroke: &StrokeData{Points: []StrokePoint{first}, Tool: tool, Erase: erase}}
}

// Valid reports whether the payload matching Kind is present.
func (e Element) Valid() bool {
	switch e.Kind {
	case KindPoint:
		return e.Point != nil
	case KindRegion:
		return e.Region != nil
	case KindPolygon:
		return e.Polygon != nil && len(e.Polygon.Points) >= 2
	case KindStroke:
		return e.Stroke != nil
	}
	return false
}

// Clone returns a deep copy so callers can edit it without touching shared
// snapshots.
func (e Element) Clone() Element {
	out := e
	if e.TimeRange != nil {
		tr := *e.TimeRange
		out.TimeRange = &tr
	}
	out.Metadata = maps.Clone(e.Metadata)
	if e.Point != nil {
		p := *e.Point
		out.Point = &p
	}
	if e.Region != nil {
		r := *e.Region
		out.Region = &r
	}
	if e.Polygon != nil {
		p := *e.Polygon
		p.Points = slices.Clone(e.Polygon.Points)
		out.Polygon = &p
	}
	if e.Stroke != nil {
		s := *e.Stroke
		s.Points = slices.Clone(e.Stroke.Points)
		out.Stroke = &s
	}
	return out
}

// AppendPoint returns a copy of a stroke element with p appended. Other
// kinds are returned unchanged.
func (e Element) AppendPoint(p StrokePoint) Element {
	if e.Kind != KindStroke || e.Stroke == nil {
		return e
	}
	s := *e.Stroke
	s.Points = append(slices.Clip(e.Stroke.Points), p)
	e.Stroke = &s
	return e
}

// ActiveAt reports whether the element should be shown at time t. A nil t
// means no playback clock is known and every element is active.
func (e Element) ActiveAt(t *float64) bool {
	if e.TimeRange == nil || t == nil {
		return true
	}
	return e.TimeRange.Contains(*t)
}
