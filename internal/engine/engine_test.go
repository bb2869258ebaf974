package engine

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/mask"
	"github.com/example/marksurface/internal/render"
	"github.com/example/marksurface/internal/surface"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// newTestEngine returns an engine showing 1600x900 media in an 800x600
// container, so the image rect is 800x450 at y=75.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *render.Recorder) {
	t.Helper()
	rec := render.NewRecorder(800, 600)
	opts = append([]Option{WithLogger(quietLogger()), WithCanvas(rec)}, opts...)
	e := New(opts...)
	e.Resize(geom.Dimensions{Width: 800, Height: 600})
	e.MediaLoaded(geom.Dimensions{Width: 1600, Height: 900})
	return e, rec
}

func screen(t *testing.T, e *Engine, x, y float64) geom.ScreenPoint {
	t.Helper()
	p, ok := e.Transform().ToScreen(geom.NormalizedPoint{X: x, Y: y})
	if !ok {
		t.Fatal("transform invalid")
	}
	return p
}

func press(e *Engine, typ PointerType, p geom.ScreenPoint) {
	e.HandlePointer(PointerEvent{Type: typ, Point: p, Pointer: Mouse})
}

func TestDrawStrokeScenario(t *testing.T) {
	var added, completed []surface.Element
	e, _ := newTestEngine(t,
		WithMode(surface.ModeDraw),
		OnElementAdded(func(el surface.Element) { added = append(added, el) }),
		OnStrokeComplete(func(el surface.Element) { completed = append(completed, el) }),
	)
	e.CreateLayer(surface.LayerSpec{ID: "mask-layer", Kind: surface.LayerMask})

	press(e, PointerDown, screen(t, e, 0.1, 0.1))
	if !e.Drawing() {
		t.Fatal("expected drawing state")
	}
	press(e, PointerMove, screen(t, e, 0.2, 0.2))
	press(e, PointerUp, screen(t, e, 0.2, 0.2))

	l, _ := e.State().Layers.Layer("mask-layer")
	if len(l.Elements) != 1 {
		t.Fatalf("layer has %d elements, want 1", len(l.Elements))
	}
	s := l.Elements[0]
	if s.Kind != surface.KindStroke || len(s.Stroke.Points) != 2 || s.Stroke.Erase {
		t.Fatalf("unexpected stroke %+v", s.Stroke)
	}
	first := s.Stroke.Points[0]
	if math.Abs(first.X-0.1) > 1e-9 || math.Abs(first.Y-0.1) > 1e-9 || first.Pressure != 1 {
		t.Fatalf("first point %+v", first)
	}
	h := e.History()
	if len(h) != 1 || h[0].Description != "Draw stroke" {
		t.Fatalf("history %+v", h)
	}
	if len(added) != 1 || len(completed) != 1 || completed[0].ID != s.ID {
		t.Fatalf("notifications added=%d completed=%d", len(added), len(completed))
	}
	if e.Drawing() {
		t.Fatal("still drawing after pointer up")
	}
}

func TestStrokeAppendMonotonic(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	l := e.CreateLayer(surface.LayerSpec{})
	press(e, PointerDown, screen(t, e, 0.5, 0.5))
	for i := 1; i <= 20; i++ {
		// The later samples leave the media; drawing keeps them.
		x := 0.5 + float64(i)*0.03
		press(e, PointerMove, screen(t, e, x, 0.5))
		got, _ := e.State().Layers.Layer(l.ID)
		if n := len(got.Elements[0].Stroke.Points); n != i+1 {
			t.Fatalf("after %d moves stroke has %d points", i, n)
		}
	}
	press(e, PointerUp, geom.ScreenPoint{})
	if len(e.History()) != 1 {
		t.Fatalf("history has %d entries", len(e.History()))
	}
}

func TestPointerDownRejected(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))

	press(e, PointerDown, screen(t, e, 0.5, 0.5))
	if e.Drawing() {
		t.Fatal("drawing without an active layer")
	}

	l := e.CreateLayer(surface.LayerSpec{Locked: true})
	press(e, PointerDown, screen(t, e, 0.5, 0.5))
	if e.Drawing() {
		t.Fatal("drawing into a locked layer")
	}

	e.UpdateLayer(l.ID, func(l *surface.Layer) { l.Locked = false })
	press(e, PointerDown, geom.ScreenPoint{X: 400, Y: 10})
	if e.Drawing() {
		t.Fatal("gesture started outside the media")
	}

	for _, m := range []surface.Mode{surface.ModeView, surface.ModeSelect, surface.ModeRegion, surface.ModePolygon, surface.ModeCustom} {
		e.SetMode(m)
		press(e, PointerDown, screen(t, e, 0.5, 0.5))
		press(e, PointerUp, screen(t, e, 0.5, 0.5))
	}
	if got, _ := e.State().Layers.Layer(l.ID); len(got.Elements) != 0 {
		t.Fatalf("extension modes created elements: %+v", got.Elements)
	}
}

func TestUndefinedTransformIgnoresPointer(t *testing.T) {
	e := New(WithLogger(quietLogger()), WithMode(surface.ModeDraw))
	e.CreateLayer(surface.LayerSpec{})
	press(e, PointerDown, geom.ScreenPoint{X: 1, Y: 1})
	if e.Drawing() {
		t.Fatal("pointer accepted without container and media")
	}
}

func TestEraseAndPressure(t *testing.T) {
	tool := surface.DefaultTool()
	tool.PressureSensitive = true
	e, _ := newTestEngine(t, WithMode(surface.ModeErase), WithTool(tool))
	e.CreateLayer(surface.LayerSpec{})
	e.HandlePointer(PointerEvent{Type: PointerDown, Point: screen(t, e, 0.3, 0.3), Pressure: 0.4, Pointer: Pen})
	e.HandlePointer(PointerEvent{Type: PointerMove, Point: screen(t, e, 0.4, 0.3), Pointer: Pen})
	e.HandlePointer(PointerEvent{Type: PointerUp, Pointer: Pen})
	el := e.State().Layers[0].Elements[0]
	if !el.Stroke.Erase {
		t.Fatal("erase flag not set")
	}
	if el.Stroke.Points[0].Pressure != 0.4 || el.Stroke.Points[1].Pressure != 1 {
		t.Fatalf("pressures %+v", el.Stroke.Points)
	}
	if h := e.History(); h[len(h)-1].Description != "Erase stroke" {
		t.Fatalf("history %+v", h)
	}
}

func TestPointMode(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModePoint))
	press(e, PointerDown, screen(t, e, 0.25, 0.75))
	st := e.State()
	if len(st.Layers) != 1 || st.Layers[0].Kind != surface.LayerAnnotation {
		t.Fatalf("expected a default annotation layer, got %+v", st.Layers)
	}
	el := st.Layers[0].Elements[0]
	if el.Kind != surface.KindPoint || el.Point.Style.Color != st.Tool.Color {
		t.Fatalf("unexpected point %+v", el)
	}
	if e.Drawing() {
		t.Fatal("point mode entered drawing state")
	}
}

func TestPassthroughBoundsGating(t *testing.T) {
	var seen []PointerType
	var wheels int
	e, _ := newTestEngine(t,
		OnPointer(func(ev PointerEvent, _ geom.NormalizedPoint) { seen = append(seen, ev.Type) }),
		OnWheel(func(WheelEvent) { wheels++ }),
	)
	outside := geom.ScreenPoint{X: 400, Y: 10}
	press(e, PointerEnter, outside)
	press(e, PointerMove, outside)
	press(e, PointerMove, screen(t, e, 0.5, 0.5))
	press(e, PointerLeave, outside)
	e.Wheel(WheelEvent{Point: outside, DeltaY: -1})
	want := []PointerType{PointerEnter, PointerMove, PointerLeave}
	if strings.Join(toStrings(seen), ",") != strings.Join(toStrings(want), ",") {
		t.Fatalf("passthrough %v, want %v", seen, want)
	}
	if wheels != 1 {
		t.Fatalf("wheel listener called %d times", wheels)
	}
	if e.State().View.Zoom != 1 {
		t.Fatal("wheel changed the view")
	}
}

func toStrings(ts []PointerType) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func TestUndoRedo(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	l := e.CreateLayer(surface.LayerSpec{})
	for i := 0; i < 2; i++ {
		press(e, PointerDown, screen(t, e, 0.1, 0.1+float64(i)*0.1))
		press(e, PointerMove, screen(t, e, 0.5, 0.1+float64(i)*0.1))
		press(e, PointerUp, geom.ScreenPoint{})
	}
	count := func() int {
		got, _ := e.State().Layers.Layer(l.ID)
		return len(got.Elements)
	}
	if !e.Undo() || count() != 1 {
		t.Fatalf("after undo: %d elements", count())
	}
	if !e.Undo() || count() != 0 || e.CanUndo() {
		t.Fatalf("after second undo: %d elements", count())
	}
	if !e.Redo() || count() != 1 {
		t.Fatalf("after redo: %d elements", count())
	}
	if !e.Redo() || count() != 2 || e.CanRedo() {
		t.Fatalf("after second redo: %d elements", count())
	}
}

func TestHistoryLimit(t *testing.T) {
	e, _ := newTestEngine(t, WithHistoryLimit(2))
	for i := 0; i < 3; i++ {
		e.AddPoint(geom.NormalizedPoint{X: 0.1 * float64(i)}, "", surface.Style{})
	}
	if len(e.History()) != 2 {
		t.Fatalf("history has %d entries, want 2", len(e.History()))
	}
}

func TestLayerVerbs(t *testing.T) {
	e, _ := newTestEngine(t)
	a := e.CreateLayer(surface.LayerSpec{Name: "A"})
	b := e.CreateLayer(surface.LayerSpec{Name: "B"})
	if e.State().ActiveLayerID != a.ID {
		t.Fatal("first layer not active")
	}
	if !e.SetActiveLayer(b.ID) || e.SetActiveLayer("missing") {
		t.Fatal("SetActiveLayer result mismatch")
	}
	p, ok := e.AddPoint(geom.NormalizedPoint{X: 0.5, Y: 0.5}, "here", surface.Style{})
	if !ok || p.LayerID != b.ID {
		t.Fatalf("point on %q, want %q", p.LayerID, b.ID)
	}
	e.Select(p.ID, "missing")
	if sel := e.State().Selected; len(sel) != 1 || sel[0] != p.ID {
		t.Fatalf("selection %v", sel)
	}
	if !e.RemoveLayer(b.ID) {
		t.Fatal("RemoveLayer failed")
	}
	st := e.State()
	if st.ActiveLayerID != "" || len(st.Selected) != 0 {
		t.Fatalf("dangling references after removal: %+v", st)
	}
	if _, ok := st.Layers.Element(p.ID); ok {
		t.Fatal("element survived its layer")
	}
	if e.RemoveLayer(b.ID) || e.ClearLayer("missing") || e.UpdateLayer("missing", func(*surface.Layer) {}) {
		t.Fatal("verbs on missing layers should be no-ops")
	}
}

func TestElementVerbs(t *testing.T) {
	e, _ := newTestEngine(t)
	l := e.CreateLayer(surface.LayerSpec{})
	r, ok := e.AddRegion(geom.NormalizedRect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}, "box", surface.Style{})
	if !ok {
		t.Fatal("AddRegion failed")
	}
	if !e.UpdateElement(l.ID, r.ID, func(el *surface.Element) { el.Region.Label = "renamed" }) {
		t.Fatal("UpdateElement failed")
	}
	got, _ := e.State().Layers.Element(r.ID)
	if got.Region.Label != "renamed" {
		t.Fatalf("label %q", got.Region.Label)
	}
	e.UpdateElement(l.ID, r.ID, func(el *surface.Element) { el.Locked = true })
	if e.RemoveElement(l.ID, r.ID) {
		t.Fatal("removed a locked element")
	}
	if _, ok := e.AddPolygon([]geom.NormalizedPoint{{X: 0.1}}, false, surface.Style{}); ok {
		t.Fatal("accepted a one point polygon")
	}
	pg, ok := e.AddPolygon([]geom.NormalizedPoint{{X: 0.1}, {X: 0.2, Y: 0.3}, {X: 0.4}}, true, surface.Style{})
	if !ok || !e.RemoveElement(l.ID, pg.ID) {
		t.Fatal("polygon add/remove failed")
	}
	if !e.ClearLayer(l.ID) {
		t.Fatal("ClearLayer failed")
	}
	if h := e.History(); h[len(h)-1].Description != "Clear layer" {
		t.Fatalf("last history entry %q", h[len(h)-1].Description)
	}
	if _, ok := e.AddElement("missing", surface.NewPoint(geom.NormalizedPoint{}, "", surface.Style{})); ok {
		t.Fatal("added to a missing layer")
	}
}

func TestRemoveLayerMidGesture(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	l := e.CreateLayer(surface.LayerSpec{})
	press(e, PointerDown, screen(t, e, 0.5, 0.5))
	e.RemoveLayer(l.ID)
	press(e, PointerMove, screen(t, e, 0.6, 0.5))
	press(e, PointerUp, geom.ScreenPoint{})
	h := e.History()
	if len(h) != 2 || h[0].Description != "Draw stroke" || h[1].Description != "Remove layer" {
		t.Fatalf("history %+v", h)
	}
	if e.Drawing() {
		t.Fatal("stroke still in progress")
	}
}

func elementCounts(e *Engine) map[string]int {
	counts := map[string]int{}
	for _, l := range e.State().Layers {
		counts[l.ID] = len(l.Elements)
	}
	return counts
}

func TestEditMidStrokeKeepsEntriesSeparate(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	e.CreateLayer(surface.LayerSpec{ID: "a"})
	e.CreateLayer(surface.LayerSpec{ID: "b"})
	e.AddElement("b", surface.NewPoint(geom.NormalizedPoint{X: 0.5, Y: 0.5}, "", surface.Style{}))

	press(e, PointerDown, screen(t, e, 0.2, 0.2))
	press(e, PointerMove, screen(t, e, 0.3, 0.2))
	e.ClearLayer("b")
	press(e, PointerMove, screen(t, e, 0.4, 0.2))
	press(e, PointerUp, geom.ScreenPoint{})

	var descs []string
	for _, h := range e.History() {
		descs = append(descs, h.Description)
	}
	if want := []string{"Add point", "Draw stroke", "Clear layer"}; !slices.Equal(descs, want) {
		t.Fatalf("history %v, want %v", descs, want)
	}
	if l, _ := e.State().Layers.Layer("a"); len(l.Elements[0].Stroke.Points) != 2 {
		t.Fatalf("stroke points %d, want 2", len(l.Elements[0].Stroke.Points))
	}

	steps := []map[string]int{
		{"a": 1, "b": 1},
		{"a": 0, "b": 1},
	}
	for i, want := range steps {
		if !e.Undo() {
			t.Fatalf("undo %d refused", i)
		}
		if got := elementCounts(e); !maps.Equal(got, want) {
			t.Fatalf("after undo %d: %v, want %v", i+1, got, want)
		}
	}
}

func TestClearActiveLayerMidStroke(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	e.CreateLayer(surface.LayerSpec{ID: "a"})
	press(e, PointerDown, screen(t, e, 0.2, 0.2))
	press(e, PointerMove, screen(t, e, 0.3, 0.2))
	e.ClearLayer("a")
	if e.Drawing() {
		t.Fatal("stroke still in progress after clear")
	}
	if !e.Undo() {
		t.Fatal("undo refused")
	}
	l, _ := e.State().Layers.Layer("a")
	if len(l.Elements) != 1 || len(l.Elements[0].Stroke.Points) != 2 {
		t.Fatalf("undo of clear should restore the finished stroke, got %+v", l.Elements)
	}
	if !e.Undo() || len(elementCounts(e)) != 1 || elementCounts(e)["a"] != 0 {
		t.Fatalf("second undo should remove the stroke, got %v", elementCounts(e))
	}
}

func TestPointerUpEndsStrokeWhileDegenerate(t *testing.T) {
	for _, typ := range []PointerType{PointerUp, PointerLeave} {
		t.Run(string(typ), func(t *testing.T) {
			e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
			e.CreateLayer(surface.LayerSpec{})
			press(e, PointerDown, screen(t, e, 0.2, 0.2))
			press(e, PointerMove, screen(t, e, 0.3, 0.2))
			e.Resize(geom.Dimensions{})
			press(e, typ, geom.ScreenPoint{})
			if e.Drawing() {
				t.Fatal("stroke still open")
			}
			if h := e.History(); len(h) != 1 || h[0].Description != "Draw stroke" {
				t.Fatalf("history %+v", h)
			}
		})
	}
}

func TestZoomClampAndZoomAt(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetZoom(0.01)
	if z := e.State().View.Zoom; z != 0.1 {
		t.Fatalf("zoom %v", z)
	}
	e.SetZoom(50)
	if z := e.State().View.Zoom; z != 10 {
		t.Fatalf("zoom %v", z)
	}
	e.ResetView()
	anchor := geom.ScreenPoint{X: 200, Y: 150}
	before, _ := e.Transform().ToNormalized(anchor)
	e.ZoomAt(3, anchor)
	after, _ := e.Transform().ToNormalized(anchor)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Fatalf("anchor moved from %+v to %+v", before, after)
	}
	e.SetFit(geom.FitFill)
	e.ResetView()
	v := e.State().View
	if v.Zoom != 1 || v.Pan != (geom.ScreenPoint{}) || v.Fit != geom.FitFill {
		t.Fatalf("ResetView -> %+v", v)
	}
}

func TestRenderCallback(t *testing.T) {
	var last []surface.Element
	calls := 0
	e, _ := newTestEngine(t, OnRender(func(els []surface.Element, c render.Canvas) {
		calls++
		last = els
	}))
	e.AddPoint(geom.NormalizedPoint{X: 0.5, Y: 0.5}, "", surface.Style{})
	if calls == 0 || len(last) != 1 {
		t.Fatalf("render callback calls=%d elements=%d", calls, len(last))
	}
	timed := surface.NewPoint(geom.NormalizedPoint{}, "", surface.Style{})
	timed.TimeRange = &surface.TimeRange{Start: 10, End: 20}
	e.AddElement(e.State().ActiveLayerID, timed)
	now := 1.0
	e.SetTime(&now)
	if len(last) != 1 {
		t.Fatalf("timed element rendered outside its range: %d", len(last))
	}
	e.SetTime(nil)
	if len(last) != 2 {
		t.Fatalf("nil time should show every element: %d", len(last))
	}
}

func TestExports(t *testing.T) {
	e, _ := newTestEngine(t, WithMode(surface.ModeDraw))
	l := e.CreateLayer(surface.LayerSpec{Kind: surface.LayerMask})
	press(e, PointerDown, screen(t, e, 0.1, 0.5))
	press(e, PointerMove, screen(t, e, 0.9, 0.5))
	press(e, PointerUp, geom.ScreenPoint{})

	h := e.Handle()
	img, err := h.ExportMask(l.ID, 0, 0)
	if err != nil {
		t.Fatalf("ExportMask: %v", err)
	}
	if img.Bounds().Dx() != 1600 || img.Bounds().Dy() != 900 {
		t.Fatalf("mask bounds %v, want media size", img.Bounds())
	}
	b, err := h.ExportMaskBytes(l.ID, 64, 64, export.PNG)
	if err != nil || !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("ExportMaskBytes: %v", err)
	}
	u, err := h.ExportMaskDataURL(l.ID, 64, 64, export.BMP)
	if err != nil || !strings.HasPrefix(u, "data:image/bmp;base64,") {
		t.Fatalf("ExportMaskDataURL: %v", err)
	}
	if _, err := h.ExportMask("missing", 10, 10); !errors.Is(err, mask.ErrUnknownLayer) {
		t.Fatalf("err = %v", err)
	}
	if _, err := h.ExportFrame(export.PNG); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("recorder canvas should not export frames: %v", err)
	}

	raster := render.NewRaster(800, 600)
	e2 := New(WithLogger(quietLogger()), WithCanvas(raster))
	e2.Resize(geom.Dimensions{Width: 320, Height: 240})
	e2.MediaLoaded(geom.Dimensions{Width: 320, Height: 240})
	e2.AddRegion(geom.NormalizedRect{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5}, "", surface.Style{FillColor: "#00FF00"})
	frame, err := e2.Handle().Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if frame.Bounds().Dx() != 320 {
		t.Fatalf("frame not resized: %v", frame.Bounds())
	}
	if frame.RGBAAt(160, 120).G == 0 {
		t.Fatal("region fill missing from frame")
	}
	if _, err := e2.Handle().ExportFrame(export.TIFF); err != nil {
		t.Fatalf("ExportFrame: %v", err)
	}
}

func TestLoadStateResetsHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	e.AddPoint(geom.NormalizedPoint{}, "", surface.Style{})
	st := e.State()
	st.ActiveLayerID = "gone"
	st.View.Zoom = 99
	e.LoadState(st)
	if len(e.History()) != 0 {
		t.Fatal("history kept after LoadState")
	}
	got := e.State()
	if got.ActiveLayerID != "" || got.View.Zoom != 10 {
		t.Fatalf("state not sanitized: %+v", got)
	}
}
