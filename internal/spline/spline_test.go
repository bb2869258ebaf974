package spline

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func same(a, b r2.Vec) bool {
	return r2.Norm(r2.Sub(a, b)) < 1e-9
}

func TestSmoothPassesThroughSamples(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: -3}, {X: 25, Y: 10}}
	segs := Smooth(pts, 1)
	if len(segs) != len(pts)-1 {
		t.Fatalf("got %d segments, want %d", len(segs), len(pts)-1)
	}
	for i, s := range segs {
		if !same(s.At(0), pts[i]) || !same(s.At(1), pts[i+1]) {
			t.Fatalf("segment %d does not interpolate its endpoints", i)
		}
	}
	for i := 1; i < len(segs); i++ {
		if !same(segs[i-1].P3, segs[i].P0) {
			t.Fatalf("segments %d and %d are disconnected", i-1, i)
		}
	}
}

func TestZeroSmoothingIsStraight(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 3}, {X: 6, Y: 0}}
	for _, s := range Smooth(pts, 0) {
		mid := s.At(0.5)
		want := lerp(s.P0, s.P3, 0.5)
		if !same(mid, want) {
			t.Fatalf("midpoint %v, want %v", mid, want)
		}
	}
}

func TestCollinearStaysOnLine(t *testing.T) {
	pts := []r2.Vec{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 5, Y: 1}, {X: 6, Y: 1}}
	for _, s := range Smooth(pts, 1) {
		for _, tt := range []float64{0.25, 0.5, 0.75} {
			if p := s.At(tt); math.Abs(p.Y-1) > 1e-9 {
				t.Fatalf("point %v left the line", p)
			}
		}
	}
}

func TestDuplicateSamples(t *testing.T) {
	pts := []r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	for _, s := range Smooth(pts, 1) {
		for _, v := range []r2.Vec{s.C1, s.C2} {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Fatalf("NaN control point in %+v", s)
			}
		}
	}
	if Smooth(pts[:1], 1) != nil {
		t.Fatal("single sample should produce no segments")
	}
}

func TestFlattenEndsAtTarget(t *testing.T) {
	p0, p3 := r2.Vec{}, r2.Vec{X: 100}
	out := Flatten(p0, r2.Vec{X: 30, Y: 40}, r2.Vec{X: 70, Y: 40}, p3, 2)
	if len(out) < 10 {
		t.Fatalf("expected fine subdivision, got %d points", len(out))
	}
	if out[len(out)-1] != p3 {
		t.Fatalf("last point %v, want %v", out[len(out)-1], p3)
	}
}
