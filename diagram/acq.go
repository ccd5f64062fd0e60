// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"math"

	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var acqFailure = &Diagram{
	Name:   "acq_failure",
	Title:  "Abadie CQ failure at a cusp",
	Build:  buildACQ,
	Checks: checkACQ,
}

// acqScene is a cusp y = |x|^1.3 whose tangent cone is a thin wedge inside
// the half-plane linearized cone.
type acqScene struct {
	Star     geom.Vec
	Boundary geom.Polyline
	Region   geom.Polyline
	L        geom.Wedge
	T        geom.Wedge
	Excluded geom.Vec
}

func newACQScene() acqScene {
	cusp := func(x float64) float64 { return math.Pow(math.Abs(x), 1.3) }
	left := geom.Sample(cusp, -1.5, 0, 200)
	right := geom.Sample(cusp, 0, 1.5, 200)
	boundary := geom.Concat(left, right[1:])
	return acqScene{
		Boundary: boundary,
		Region:   geom.Concat(boundary, geom.Polyline{{X: 1.5, Y: 2}, {X: -1.5, Y: 2}}),
		L:        geom.WedgeDeg(geom.Vec{}, 0, 180, 1.4),
		T:        geom.WedgeDeg(geom.Vec{}, 70, 110, 1.0),
		Excluded: geom.V(0.7, 0.25),
	}
}

func checkACQ() ([]Check, error) {
	s := newACQScene()
	return []Check{
		check("T(x*) ⊆ L(x*)", geom.SubsetDirections(s.T, s.L, 720), "T=[70°,110°], L=[0°,180°]"),
		check("T(x*) ≠ L(x*)", !geom.SameDirections(s.T, s.L, 720), "ACQ fails"),
		check("excluded direction", s.L.Contains(s.Excluded) && !s.T.Contains(s.Excluded), "d=%v", s.Excluded),
	}, nil
}

func buildACQ(st render.Style) (*render.Figure, error) {
	s := newACQScene()
	var (
		blue   = render.MustHex("#1976d2")
		deep   = render.MustHex("#1565c0")
		red    = render.MustHex("#c62828")
		darkRd = render.MustHex("#b71c1c")
	)

	f := render.NewFigure(12, 10, st)
	p := f.Panel("")
	p.ShowAxes("x₁", "x₂")
	p.Limits(-1.8, 1.8, -0.8, 2.2)

	p.Fill(s.Region, render.Alpha(render.MustHex("#e3f2fd"), 0.5))
	p.Stroke(s.Boundary, render.Line(slate, 2.5))

	p.Fill(s.L.Polygon(arcSamples), render.Alpha(render.MustHex("#bbdefb"), 0.4))
	for _, x := range [...]float64{-1.3, 1.3} {
		p.Arrow(s.Star, geom.V(x, 0), render.Line(render.Alpha(blue, 0.7), 2))
	}
	tag(p, st, geom.V(0, 1.15), "L(x*)", deep, 14)

	p.Fill(s.T.Moved(s.Star, 0.85).Polygon(arcSamples), render.Alpha(paleRed, 0.5))
	from, to := s.T.Rays()
	for _, r := range [...]geom.Vec{from, to} {
		p.Arrow(s.Star, s.Star.Add(r.Scale(s.T.Radius)), render.Line(red, 3))
	}
	tag(p, st, geom.V(0, 0.55), "T(x*)", darkRd, 14)

	p.Arrow(s.Star, s.Excluded, render.Dashed(render.MustHex("#7f8c8d"), 2))
	p.Text(s.Excluded.Add(geom.V(0.08, -0.08)), "∈ L, ∉ T",
		italic(st, 10, render.MustHex("#546e7a"), flushLeft))

	point(p, st, s.Star, geom.V(0.18, -0.18), "x*", 15)

	plate(p, st, geom.V(-1.1, 0.95), "g₁(x) = 0", slate, 50)
	plate(p, st, geom.V(1.1, 0.95), "g₂(x) = 0", slate, -50)
	p.Text(geom.V(0, 1.75), "Feasible Region", italic(st, 11, render.MustHex("#34495e")))

	explain(p, st, geom.V(1.25, 1.95), "ACQ Failure\n\n"+
		"T(x*) ⊊ L(x*)\n\n"+
		"Tangent cone (red) is\n"+
		"nonconvex and strictly\n"+
		"smaller than the convex\n"+
		"linearized cone (blue).", paper)

	return f, f.Err()
}
