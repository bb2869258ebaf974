// Package spline turns raw pointer samples into smooth cubic Bezier paths.
//
// Samples are interpolated with a centripetal Catmull-Rom spline, which does
// not overshoot or form cusps on unevenly spaced input, and each span is
// expressed as a cubic Bezier so any path based canvas can draw it.
package spline

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Alpha is the Catmull-Rom knot parameter. 0.5 gives the centripetal form.
const Alpha = 0.5

const epsilon = 1e-12

// Segment is one cubic Bezier span from P0 to P3.
type Segment struct {
	P0, C1, C2, P3 r2.Vec
}

// At evaluates the segment at t in [0,1].
func (s Segment) At(t float64) r2.Vec {
	u := 1 - t
	p := r2.Scale(u*u*u, s.P0)
	p = r2.Add(p, r2.Scale(3*u*u*t, s.C1))
	p = r2.Add(p, r2.Scale(3*u*t*t, s.C2))
	return r2.Add(p, r2.Scale(t*t*t, s.P3))
}

// Smooth returns one segment per consecutive pair of points. smoothing in
// [0,1] blends between straight spans (0) and the full spline (1). Fewer
// than two points yield no segments.
func Smooth(points []r2.Vec, smoothing float64) []Segment {
	n := len(points)
	if n < 2 {
		return nil
	}
	smoothing = math.Max(0, math.Min(1, smoothing))
	at := func(i int) r2.Vec {
		switch {
		case i < 0:
			return r2.Sub(r2.Scale(2, points[0]), points[1])
		case i >= n:
			return r2.Sub(r2.Scale(2, points[n-1]), points[n-2])
		}
		return points[i]
	}
	segs := make([]Segment, 0, n-1)
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		sc1, sc2 := controls(p0, p1, p2, p3)
		lc1 := lerp(p1, p2, 1.0/3)
		lc2 := lerp(p1, p2, 2.0/3)
		segs = append(segs, Segment{
			P0: p1,
			C1: lerp(lc1, sc1, smoothing),
			C2: lerp(lc2, sc2, smoothing),
			P3: p2,
		})
	}
	return segs
}

// controls returns the Bezier control points of the centripetal Catmull-Rom
// span p1..p2.
func controls(p0, p1, p2, p3 r2.Vec) (r2.Vec, r2.Vec) {
	d1 := math.Pow(r2.Norm(r2.Sub(p1, p0)), Alpha)
	d2 := math.Pow(r2.Norm(r2.Sub(p2, p1)), Alpha)
	d3 := math.Pow(r2.Norm(r2.Sub(p3, p2)), Alpha)
	if d2 < epsilon {
		return p1, p2
	}
	c1, c2 := p1, p2
	if d1 >= epsilon {
		num := r2.Add(r2.Sub(r2.Scale(d1*d1, p2), r2.Scale(d2*d2, p0)),
			r2.Scale(2*d1*d1+3*d1*d2+d2*d2, p1))
		c1 = r2.Scale(1/(3*d1*(d1+d2)), num)
	}
	if d3 >= epsilon {
		num := r2.Add(r2.Sub(r2.Scale(d3*d3, p1), r2.Scale(d2*d2, p3)),
			r2.Scale(2*d3*d3+3*d3*d2+d2*d2, p2))
		c2 = r2.Scale(1/(3*d3*(d3+d2)), num)
	}
	return c1, c2
}

func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Flatten approximates a cubic with line segments no longer than maxStep.
// The returned points exclude p0 and end with p3.
func Flatten(p0, c1, c2, p3 r2.Vec, maxStep float64) []r2.Vec {
	s := Segment{P0: p0, C1: c1, C2: c2, P3: p3}
	hull := r2.Norm(r2.Sub(c1, p0)) + r2.Norm(r2.Sub(c2, c1)) + r2.Norm(r2.Sub(p3, c2))
	if !(maxStep > 0) {
		maxStep = 1
	}
	steps := int(math.Ceil(hull / maxStep))
	steps = max(1, min(steps, 256))
	out := make([]r2.Vec, 0, steps)
	for i := 1; i <= steps; i++ {
		out = append(out, s.At(float64(i)/float64(steps)))
	}
	out[len(out)-1] = p3
	return out
}
