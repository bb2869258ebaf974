package engine

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
)

// Handle exposes the transform and raster exports of an engine without
// giving access to its mutating verbs.
type Handle struct {
	e *Engine
}

// Handle returns the export capability of e.
func (e *Engine) Handle() Handle { return Handle{e: e} }

// Transform returns the current screen to media transform.
func (h Handle) Transform() geom.Transform { return h.e.Transform() }

// ExportMask composites the strokes of layerID. A zero width or height
// selects the media's natural size.
func (h Handle) ExportMask(layerID string, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		width, height = int(h.e.media.Width+0.5), int(h.e.media.Height+0.5)
	}
	img, err := h.e.compositor.Composite(h.e.state.Layers, layerID, width, height)
	if err != nil {
		h.e.log.WithError(err).WithField("layer_id", layerID).Warn("mask export failed")
		return nil, err
	}
	h.e.log.WithFields(logrus.Fields{
		"layer_id": layerID,
		"width":    width,
		"height":   height,
	}).Info("mask exported")
	return img, nil
}

// ExportMaskBytes encodes the mask of layerID.
func (h Handle) ExportMaskBytes(layerID string, width, height int, f export.Format) ([]byte, error) {
	img, err := h.ExportMask(layerID, width, height)
	if err != nil {
		return nil, err
	}
	return export.Bytes(img, f)
}

// ExportMaskDataURL encodes the mask of layerID as a data URL.
func (h Handle) ExportMaskDataURL(layerID string, width, height int, f export.Format) (string, error) {
	img, err := h.ExportMask(layerID, width, height)
	if err != nil {
		return "", err
	}
	return export.DataURL(img, f)
}

// imager is implemented by canvases whose pixels can be read back.
type imager interface {
	Image() *image.RGBA
}

// Frame returns a copy of the attached canvas pixels.
func (h Handle) Frame() (*image.RGBA, error) {
	c, ok := h.e.canvas.(imager)
	if !ok || c.Image() == nil {
		return nil, ErrNoSurface
	}
	src := c.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out, nil
}

// ExportFrame encodes the attached canvas.
func (h Handle) ExportFrame(f export.Format) ([]byte, error) {
	img, err := h.Frame()
	if err != nil {
		return nil, err
	}
	b, err := export.Bytes(img, f)
	if err != nil {
		return nil, fmt.Errorf("export frame: %w", err)
	}
	return b, nil
}
