package viewer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/example/marksurface/internal/clipboard"
	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/scene"
	"github.com/example/marksurface/internal/surface"
)

func copyToClipboard(img image.Image) error { return clipboard.WriteImage(img) }

// do performs a keyboard action. Failures are reported in the message
// overlay rather than returned.
func (v *Viewer) do(a action) {
	e := v.engine
	switch a {
	case actView:
		e.SetMode(surface.ModeView)
	case actDraw:
		e.SetMode(surface.ModeDraw)
	case actErase:
		e.SetMode(surface.ModeErase)
	case actPoint:
		e.SetMode(surface.ModePoint)
	case actZoomIn:
		e.SetZoom(e.State().View.Zoom * zoomStep)
	case actZoomOut:
		e.SetZoom(e.State().View.Zoom / zoomStep)
	case actResetView:
		e.ResetView()
	case actFit:
		f := e.State().View.Fit.Next()
		e.SetFit(f)
		v.flash("fit: " + string(f))
	case actNewLayer:
		l := e.CreateLayer(surface.LayerSpec{Kind: surface.LayerMask})
		e.SetActiveLayer(l.ID)
		v.flash("new layer " + l.Name)
	case actClearLayer:
		if !e.ClearLayer(e.State().ActiveLayerID) {
			v.flash("nothing to clear")
		}
	case actUndo:
		if !e.Undo() {
			v.flash("nothing to undo")
		}
	case actRedo:
		if !e.Redo() {
			v.flash("nothing to redo")
		}
	case actExport:
		if path, err := v.exportMask(); err != nil {
			v.flash("export failed: " + err.Error())
		} else {
			v.flash("saved " + path)
		}
	case actCopy:
		if err := v.copyMask(); err != nil {
			v.flash("copy failed: " + err.Error())
		} else {
			v.flash("copied mask")
		}
	case actSaveScene:
		if err := v.saveScene(); err != nil {
			v.flash("save failed: " + err.Error())
		} else {
			v.flash("saved " + v.ScenePath)
		}
	}
}

func (v *Viewer) activeMask() (*image.RGBA, error) {
	id := v.engine.State().ActiveLayerID
	if id == "" {
		return nil, fmt.Errorf("no active layer")
	}
	return v.engine.Handle().ExportMask(id, 0, 0)
}

// exportMask writes the active layer's mask to Output.
func (v *Viewer) exportMask() (string, error) {
	if v.Output == "" {
		return "", fmt.Errorf("no output path")
	}
	img, err := v.activeMask()
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(v.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	f, err := os.Create(v.Output)
	if err != nil {
		return "", err
	}
	if err := export.Encode(f, img, export.FormatForPath(v.Output, v.Format)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	v.notifier.Export(v.Output, img)
	return v.Output, nil
}

func (v *Viewer) copyMask() error {
	img, err := v.activeMask()
	if err != nil {
		return err
	}
	if err := v.copyImage(img); err != nil {
		return err
	}
	v.notifier.Copy("mask")
	return nil
}

func (v *Viewer) saveScene() error {
	if v.ScenePath == "" {
		return fmt.Errorf("no scene path")
	}
	return scene.Capture(v.engine).SaveFile(v.ScenePath)
}
