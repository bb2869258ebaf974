// Package scene saves and restores surfaces as JSON and replays scripted
// input against an engine.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/surface"
)

// Version is the scene format written by Save.
const Version = 1

var ErrInvalidScene = errors.New("invalid scene")

// Scene is a persisted surface together with the media size it was drawn
// against.
type Scene struct {
	Version int             `json:"version"`
	Media   geom.Dimensions `json:"media"`
	State   surface.State   `json:"state"`
}

// Capture snapshots the engine.
func Capture(e *engine.Engine) *Scene {
	return &Scene{Version: Version, Media: e.Media(), State: e.State()}
}

// Apply loads the scene into e, replacing its surface and clearing history.
func (s *Scene) Apply(e *engine.Engine) {
	if !s.Media.Degenerate() {
		e.MediaLoaded(s.Media)
	}
	e.LoadState(s.State)
}

// Validate checks that every element carries the payload its kind names and
// that element ids are unique. Layer references are restamped from the
// owning layer.
func (s *Scene) Validate() error {
	if s.Version > Version {
		return fmt.Errorf("%w: version %d is newer than %d", ErrInvalidScene, s.Version, Version)
	}
	seen := map[string]bool{}
	for li, l := range s.State.Layers {
		if l.ID == "" {
			return fmt.Errorf("%w: layer %d has no id", ErrInvalidScene, li)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidScene, l.ID)
		}
		seen[l.ID] = true
		for ei := range l.Elements {
			el := &s.State.Layers[li].Elements[ei]
			if !el.Valid() {
				return fmt.Errorf("%w: element %q in layer %s has no %s payload", ErrInvalidScene, el.ID, l.ID, el.Kind)
			}
			if el.ID == "" || seen[el.ID] {
				return fmt.Errorf("%w: missing or duplicate element id %q", ErrInvalidScene, el.ID)
			}
			seen[el.ID] = true
			el.LayerID = l.ID
		}
	}
	return nil
}

// Load decodes and validates a scene.
func Load(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scene from path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene as indented JSON.
func (s *Scene) Save(w io.Writer) error {
	if s.Version == 0 {
		s.Version = Version
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// SaveFile writes the scene to path, creating parent directories.
func (s *Scene) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
