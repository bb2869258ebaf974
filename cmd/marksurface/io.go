package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/example/marksurface/internal/capture"
	"github.com/example/marksurface/internal/clipboard"
	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/surface"
)

var (
	copyImageFn = clipboard.WriteImage
	copyTextFn  = clipboard.WriteText
	readImageFn = clipboard.ReadImage

	screenshotFn = capture.Screenshot
)

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := export.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// writeImage encodes img to path, or to w when path is "-". The format is
// taken from the extension unless one is forced.
func (r *root) writeImage(path string, img image.Image, forced export.Format) error {
	if path == "-" {
		f := forced
		if f == "" {
			f = export.PNG
		}
		return export.Encode(r.out(), img, f)
	}
	f := forced
	if f == "" {
		f = export.FormatForPath(path, export.PNG)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Encode(file, img, f); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	r.notifyExport(path)
	return nil
}

// outputPath resolves name against the configured output directory unless
// it is absolute or "-".
func (r *root) outputPath(name string) string {
	if name == "-" || filepath.IsAbs(name) || r.cfg().OutputDir == "" {
		return name
	}
	return filepath.Join(r.cfg().OutputDir, name)
}

// pickLayer returns id when given, else the active layer, else the first
// mask layer.
func pickLayer(st surface.State, id string) (string, error) {
	if id != "" {
		if _, ok := st.Layers.Layer(id); !ok {
			return "", fmt.Errorf("unknown layer %q", id)
		}
		return id, nil
	}
	if st.ActiveLayerID != "" {
		return st.ActiveLayerID, nil
	}
	for _, l := range st.Layers.Sorted() {
		if l.Kind == surface.LayerMask {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("scene has no mask layer")
}

// sizeFlag parses an optional WxH flag value.
type sizeFlag struct {
	geom.Dimensions
	set bool
}

func (s *sizeFlag) String() string {
	if !s.set {
		return ""
	}
	return s.Dimensions.String()
}

func (s *sizeFlag) Set(v string) error {
	d, err := geom.ParseDimensions(v)
	if err != nil {
		return err
	}
	s.Dimensions, s.set = d, true
	return nil
}

func (s *sizeFlag) pixels() (int, int) {
	return int(s.Width + 0.5), int(s.Height + 0.5)
}

// exportMask renders the mask of layerID, falling back to the media size.
func exportMask(e *engine.Engine, layerID string, size sizeFlag) (*image.RGBA, error) {
	w, h := 0, 0
	if size.set {
		w, h = size.pixels()
	}
	return e.Handle().ExportMask(layerID, w, h)
}
