package surface

import (
	"fmt"
	"slices"
	"strings"

	"github.com/example/marksurface/internal/geom"
)

// Mode is the current interaction mode.
type Mode string

const (
	ModeView    Mode = "view"
	ModeDraw    Mode = "draw"
	ModeErase   Mode = "erase"
	ModeSelect  Mode = "select"
	ModeRegion  Mode = "region"
	ModePoint   Mode = "point"
	ModePolygon Mode = "polygon"
	ModeCustom  Mode = "custom"
)

var Modes = []Mode{ModeView, ModeDraw, ModeErase, ModeSelect, ModeRegion, ModePoint, ModePolygon, ModeCustom}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Modes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Drawing reports whether pointer gestures in m produce strokes.
func (m Mode) Drawing() bool {
	return m == ModeDraw || m == ModeErase
}

// State is a read-only snapshot of a surface.
type State struct {
	Mode          Mode           `json:"mode"`
	Tool          ToolConfig     `json:"tool"`
	View          geom.ViewState `json:"view"`
	Layers        Layers         `json:"layers"`
	ActiveLayerID string         `json:"activeLayerId,omitempty"`
	Selected      []string       `json:"selected,omitempty"`
	CurrentTime   *float64       `json:"currentTime,omitempty"`
}

// DefaultState returns an empty surface in view mode.
func DefaultState() State {
	return State{Mode: ModeView, Tool: DefaultTool(), View: geom.DefaultView()}
}

// ActiveLayer returns the active layer if it exists.
func (s State) ActiveLayer() (Layer, bool) {
	if s.ActiveLayerID == "" {
		return Layer{}, false
	}
	return s.Layers.Layer(s.ActiveLayerID)
}

// IsSelected reports whether an element id is in the selection.
func (s State) IsSelected(id string) bool {
	return slices.Contains(s.Selected, id)
}
