package render

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// strokeOutline covers a polyline of half width hw with one quad per segment
// and a disc per vertex, which yields round caps and joins. All polygons
// share the same winding so the rasterizer sums their coverage.
func strokeOutline(pts []r2.Vec, hw float64) [][]r2.Vec {
	pts = dedupe(pts)
	if len(pts) < 2 || !(hw > 0) {
		return nil
	}
	polys := make([][]r2.Vec, 0, 2*len(pts))
	for i, p := range pts {
		polys = append(polys, circle(p, hw))
		if i == 0 {
			continue
		}
		a := pts[i-1]
		d := r2.Sub(p, a)
		n := r2.Scale(hw, r2.Unit(r2.Vec{X: -d.Y, Y: d.X}))
		polys = append(polys, orient([]r2.Vec{r2.Add(a, n), r2.Add(p, n), r2.Sub(p, n), r2.Sub(a, n)}))
	}
	return polys
}

func dedupe(pts []r2.Vec) []r2.Vec {
	if len(pts) < 2 {
		return pts
	}
	out := make([]r2.Vec, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if r2.Norm(r2.Sub(p, out[len(out)-1])) > 1e-9 {
			out = append(out, p)
		}
	}
	return out
}

// circle approximates a disc with an inscribed polygon with positive winding.
func circle(c r2.Vec, radius float64) []r2.Vec {
	n := int(math.Ceil(2 * math.Pi * radius / 1.5))
	n = max(12, min(n, 128))
	pts := make([]r2.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = r2.Vec{X: c.X + radius*math.Cos(a), Y: c.Y + radius*math.Sin(a)}
	}
	return pts
}

func signedArea(p []r2.Vec) float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += r2.Cross(p[i], p[j])
	}
	return a / 2
}

// orient reverses p in place when its winding is negative.
func orient(p []r2.Vec) []r2.Vec {
	if signedArea(p) < 0 {
		slices.Reverse(p)
	}
	return p
}

// clipPolygon clips p to [0,w]x[0,h] (Sutherland-Hodgman). Winding is
// preserved.
func clipPolygon(p []r2.Vec, w, h float64) []r2.Vec {
	edges := []struct {
		inside func(r2.Vec) bool
		cut    func(a, b r2.Vec) r2.Vec
	}{
		{func(v r2.Vec) bool { return v.X >= 0 }, func(a, b r2.Vec) r2.Vec { return atX(a, b, 0) }},
		{func(v r2.Vec) bool { return v.X <= w }, func(a, b r2.Vec) r2.Vec { return atX(a, b, w) }},
		{func(v r2.Vec) bool { return v.Y >= 0 }, func(a, b r2.Vec) r2.Vec { return atY(a, b, 0) }},
		{func(v r2.Vec) bool { return v.Y <= h }, func(a, b r2.Vec) r2.Vec { return atY(a, b, h) }},
	}
	out := p
	for _, e := range edges {
		if len(out) == 0 {
			return nil
		}
		in := out
		out = make([]r2.Vec, 0, len(in)+4)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.cut(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.cut(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func atX(a, b r2.Vec, x float64) r2.Vec {
	t := (x - a.X) / (b.X - a.X)
	return r2.Vec{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

func atY(a, b r2.Vec, y float64) r2.Vec {
	t := (y - a.Y) / (b.Y - a.Y)
	return r2.Vec{X: a.X + t*(b.X-a.X), Y: y}
}
