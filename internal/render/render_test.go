package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/surface"
)

func frameFor(ls surface.Layers, view geom.ViewState) Frame {
	container := geom.Dimensions{Width: 800, Height: 600}
	media := geom.Dimensions{Width: 1600, Height: 900}
	return Frame{Layers: ls, Transform: geom.NewTransform(container, media, view), Zoom: view.Zoom}
}

func stroke(erase bool, pts ...geom.NormalizedPoint) surface.Element {
	tool := surface.DefaultTool()
	tool.Smoothing = 0
	e := surface.NewStroke(surface.StrokePoint{NormalizedPoint: pts[0], Pressure: 1}, tool, erase)
	for _, p := range pts[1:] {
		e = e.AppendPoint(surface.StrokePoint{NormalizedPoint: p, Pressure: 1})
	}
	return e
}

func layers(ids ...string) surface.Layers {
	var ls surface.Layers
	for _, id := range ids {
		ls = ls.WithLayer(ls.NewLayer(surface.LayerSpec{ID: id}))
	}
	return ls
}

func TestRenderInvalidTransformOnlyClears(t *testing.T) {
	rec := NewRecorder(10, 10)
	got := Render(rec, Frame{Layers: layers("a")})
	if got != nil || len(rec.Ops) != 1 || rec.Ops[0].Name != "clear" {
		t.Fatalf("unexpected ops %v", rec.Ops)
	}
}

func TestRenderOrderAndFilters(t *testing.T) {
	zero := 0
	var ls surface.Layers
	ls = ls.WithLayer(ls.NewLayer(surface.LayerSpec{ID: "top", ZIndex: &zero}))
	ls = ls.WithLayer(ls.NewLayer(surface.LayerSpec{ID: "hidden", Hidden: true}))
	bottomZ := -1
	ls = ls.WithLayer(ls.NewLayer(surface.LayerSpec{ID: "bottom", ZIndex: &bottomZ}))

	p1 := surface.NewPoint(geom.NormalizedPoint{X: 0.1, Y: 0.1}, "", surface.Style{})
	p2 := surface.NewPoint(geom.NormalizedPoint{X: 0.2, Y: 0.2}, "", surface.Style{})
	p3 := surface.NewPoint(geom.NormalizedPoint{X: 0.3, Y: 0.3}, "", surface.Style{})
	off := surface.NewPoint(geom.NormalizedPoint{}, "", surface.Style{})
	off.Visible = false
	timed := surface.NewPoint(geom.NormalizedPoint{}, "", surface.Style{})
	timed.TimeRange = &surface.TimeRange{Start: 5, End: 6}

	ls = ls.WithElement("top", p1)
	ls = ls.WithElement("top", off)
	ls = ls.WithElement("top", timed)
	ls = ls.WithElement("hidden", p2)
	ls = ls.WithElement("bottom", p3)

	f := frameFor(ls, geom.DefaultView())
	now := 1.0
	f.Time = &now
	got := Render(NewRecorder(800, 600), f)
	if len(got) != 2 || got[0].ID != p3.ID || got[1].ID != p1.ID {
		t.Fatalf("unexpected draw order %+v", got)
	}

	now = 5.5
	if got := Render(NewRecorder(800, 600), f); len(got) != 3 {
		t.Fatalf("timed element not drawn at t=5.5: %d elements", len(got))
	}
}

func TestRenderStrokeWidthScalesWithRectAndZoom(t *testing.T) {
	ls := layers("a").WithElement("a", stroke(false, geom.NormalizedPoint{X: 0.1, Y: 0.1}, geom.NormalizedPoint{X: 0.2, Y: 0.2}))
	for _, zoom := range []float64{1, 2} {
		rec := NewRecorder(800, 600)
		Render(rec, frameFor(ls, geom.DefaultView().WithZoom(zoom)))
		var width float64
		for _, o := range rec.Ops {
			if o.Name == "lineWidth" {
				width = o.Args[0]
			}
		}
		if want := 0.01 * (800 * zoom) * zoom; math.Abs(width-want) > 1e-9 {
			t.Fatalf("zoom %v: line width %v, want %v", zoom, width, want)
		}
	}
}

func TestRenderEraseUsesDestinationOut(t *testing.T) {
	ls := layers("a").WithElement("a", stroke(true, geom.NormalizedPoint{X: 0.1, Y: 0.1}, geom.NormalizedPoint{X: 0.2, Y: 0.2}))
	rec := NewRecorder(800, 600)
	Render(rec, frameFor(ls, geom.DefaultView()))
	found := false
	for _, o := range rec.Ops {
		if o.Name == "composite" && o.Text == DestinationOut.String() {
			found = true
		}
	}
	if !found {
		t.Fatalf("no destination-out op in %v", rec.Ops)
	}
	if rec.Count("pushLayer") != 1 || rec.Count("popLayer") != 1 {
		t.Fatal("layer not isolated")
	}
}

func TestRenderSinglePointStrokeIsNoop(t *testing.T) {
	ls := layers("a").WithElement("a", stroke(false, geom.NormalizedPoint{X: 0.5, Y: 0.5}))
	rec := NewRecorder(800, 600)
	got := Render(rec, frameFor(ls, geom.DefaultView()))
	if len(got) != 1 {
		t.Fatalf("expected the stroke in the element set, got %d", len(got))
	}
	if rec.Count("stroke") != 0 {
		t.Fatal("single-point stroke was stroked")
	}
}

func TestRenderSmoothingEmitsCubics(t *testing.T) {
	e := stroke(false,
		geom.NormalizedPoint{X: 0.1, Y: 0.1},
		geom.NormalizedPoint{X: 0.2, Y: 0.3},
		geom.NormalizedPoint{X: 0.3, Y: 0.1},
		geom.NormalizedPoint{X: 0.4, Y: 0.3})
	e.Stroke.Tool.Smoothing = 0.5
	rec := NewRecorder(800, 600)
	Render(rec, frameFor(layers("a").WithElement("a", e), geom.DefaultView()))
	if got := rec.Count("cubicTo"); got != 3 {
		t.Fatalf("cubicTo count = %d, want 3", got)
	}
	if rec.Count("lineTo") != 0 {
		t.Fatal("smoothed stroke used straight lines")
	}
}

func TestRenderSelectionOutline(t *testing.T) {
	p := surface.NewPoint(geom.NormalizedPoint{X: 0.5, Y: 0.5}, "label", surface.Style{})
	f := frameFor(layers("a").WithElement("a", p), geom.DefaultView())
	rec := NewRecorder(800, 600)
	Render(rec, f)
	plain := rec.Count("rect")
	f.Selected = []string{p.ID}
	rec.Reset()
	Render(rec, f)
	if rec.Count("rect") != plain+1 {
		t.Fatal("selected element has no outline")
	}
	if rec.Count("fillText") != 1 {
		t.Fatal("label not drawn")
	}
}

func TestRasterLayerIsolatesErase(t *testing.T) {
	r := NewRaster(20, 20)
	r.PushLayer(1)
	r.SetFillColor(color.RGBA{R: 255, A: 255})
	r.BeginPath()
	r.Rect(0, 0, 20, 20)
	r.Fill()
	r.PopLayer()

	r.PushLayer(1)
	r.SetStrokeColor(color.RGBA{B: 255, A: 255})
	r.SetLineWidth(4)
	r.BeginPath()
	r.MoveTo(0, 10)
	r.LineTo(20, 10)
	r.Stroke()
	if got := r.layers[0].img.RGBAAt(10, 10); got.B != 255 {
		t.Fatalf("stroke not painted on layer: %v", got)
	}
	r.SetCompositeOp(DestinationOut)
	r.Stroke()
	r.PopLayer()

	if got := r.Image().RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("erase leaked into the layer below: %v", got)
	}
}

func TestRasterClipsOffCanvasGeometry(t *testing.T) {
	r := NewRaster(10, 10)
	r.SetStrokeColor(color.White)
	r.SetLineWidth(2)
	r.BeginPath()
	r.MoveTo(-50, 5)
	r.LineTo(50, 5)
	r.Stroke()
	for x := 0; x < 10; x++ {
		if r.Image().RGBAAt(x, 5).A != 255 {
			t.Fatalf("pixel %d,5 not covered", x)
		}
	}
	if r.Image().RGBAAt(5, 0).A != 0 {
		t.Fatal("stroke spilled outside its width")
	}
}

func TestRasterPointFill(t *testing.T) {
	r := NewRaster(20, 20)
	r.SetFillColor(color.RGBA{G: 255, A: 255})
	r.BeginPath()
	r.Arc(10, 10, 5)
	r.Fill()
	if got := r.Image().RGBAAt(10, 10); got.G != 255 || got.A != 255 {
		t.Fatalf("centre pixel %v", got)
	}
	if r.Image().RGBAAt(0, 0).A != 0 {
		t.Fatal("corner pixel painted")
	}
}
