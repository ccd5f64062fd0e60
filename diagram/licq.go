// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var licqViolation = &Diagram{
	Name:   "licq_violation",
	Title:  "LICQ violation: collinear gradients",
	Build:  buildLICQ,
	Checks: checkLICQ,
}

// licqScene has two unit discs touching at x* = (0.5, 0.5), where the
// outward normals are opposite.
type licqScene struct {
	Star        geom.Vec
	Constraints []cq.Constraint
	Grid        geom.Grid
	Feasible    geom.Mask
	Boundaries  [][]geom.Polyline
}

func licqConstraints() []cq.Constraint {
	return []cq.Constraint{
		{
			Name: "g1",
			F:    func(x, y float64) float64 { return (x-0.5)*(x-0.5) + (y-1.5)*(y-1.5) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*(x-0.5), 2*(y-1.5)) },
		},
		{
			Name: "g2",
			F:    func(x, y float64) float64 { return (x-0.5)*(x-0.5) + (y+0.5)*(y+0.5) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*(x-0.5), 2*(y+0.5)) },
		},
	}
}

func newLICQScene(n int) licqScene {
	cs := licqConstraints()
	g := geom.NewGrid(-1, 2, -0.5, 2.5, n)
	s := licqScene{Star: geom.V(0.5, 0.5), Constraints: cs, Grid: g}
	for i, c := range cs {
		f := g.Eval(c.F)
		if i == 0 {
			s.Feasible = f.NonPos()
		} else {
			s.Feasible = s.Feasible.And(f.NonPos())
		}
		s.Boundaries = append(s.Boundaries, geom.Contour(f, 0))
	}
	return s
}

func checkLICQ() ([]Check, error) {
	s := newLICQScene(200)
	v, err := cq.Analyze(s.Constraints, s.Star, 1e-9)
	if err != nil {
		return nil, err
	}
	checks := []Check{
		check("both active", len(v.Active) == 2, "%v", v.Active),
		check("LICQ fails", !v.LICQ, "rank %d of %d", v.Rank, len(v.Active)),
		check("MFCQ fails", !v.MFCQ, "opposite gradients"),
	}
	for _, c := range s.Constraints {
		err := c.CheckGradient(s.Star, 1e-6)
		checks = append(checks, check("∇"+c.Name+" matches finite differences", err == nil, "%v", errString(err)))
	}
	return checks, nil
}

func buildLICQ(st render.Style) (*render.Figure, error) {
	s := newLICQScene(800)
	var (
		red  = render.MustHex("#c0392b")
		blue = render.MustHex("#2980b9")
	)

	f := render.NewFigure(10, 11, st)
	p := f.Panel("")
	p.ShowAxes("x₁", "x₂")
	p.Limits(-0.8, 2.0, -0.5, 2.8)

	p.Region(s.Feasible, render.Alpha(render.MustHex("#e8eef5"), 0.8))
	for _, lines := range s.Boundaries {
		for _, l := range lines {
			p.Stroke(l, render.Line(slate, 2))
		}
	}
	p.Stroke(geom.Segment(s.Star.Add(geom.V(0, -0.85)), s.Star.Add(geom.V(0, 0.85))),
		render.Dashed(render.Alpha(render.MustHex("#7f8c8d"), 0.7), 1.5))

	g1 := s.Constraints[0].Gradient(s.Star).WithLen(0.6)
	g2 := s.Constraints[1].Gradient(s.Star).WithLen(0.5)
	p.Arrow(s.Star, s.Star.Add(g1), render.Line(red, 2.5))
	p.Arrow(s.Star, s.Star.Add(g2), render.Line(blue, 2.5))
	p.Text(s.Star.Add(geom.V(0.12, -0.72)), "∇g₁(x*)", st.Text(13, red, render.Bold))
	p.Text(s.Star.Add(geom.V(0.12, 0.72)), "∇g₂(x*)", st.Text(13, blue, render.Bold))

	point(p, st, s.Star, geom.V(0.22, 0.08), "x*", 14)
	plate(p, st, geom.V(1.4, 1.9), "g₁(x) = 0", slate, -45)
	plate(p, st, geom.V(1.4, 0.1), "g₂(x) = 0", slate, 45)
	p.Text(geom.V(0.5, 1.0), "Feasible\nRegion", italic(st, 11, render.MustHex("#34495e")))

	explain(p, st, geom.V(1.15, 2.6), "LICQ Violation\n\n"+
		"At x*, the gradients\n"+
		"∇g₁(x*) and ∇g₂(x*)\n"+
		"are collinear (linearly dependent).\n\n"+
		"⇒ Lagrange multipliers\n"+
		"may not be unique.", render.MustHex("#f8f9fa"))
	return f, f.Err()
}

func errString(err error) string {
	if err == nil {
		return "within 1e-6"
	}
	return err.Error()
}
