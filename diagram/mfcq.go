// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"fmt"
	"math"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
	"github.com/curioloop/cqplot/solve"
)

var mfcqIllustration = &Diagram{
	Name:   "mfcq_illustration",
	Title:  "MFCQ: a strictly feasible tangent direction",
	Build:  buildMFCQ,
	Checks: checkMFCQ,
}

// mfcqScene pairs the equality h: y = 0.3x² + 0.5 with the inequality
// g: y ≤ -0.5x + 1.2 at their positive intersection x*.
type mfcqScene struct {
	Star     geom.Vec
	H, G     cq.Constraint
	Verdict  *cq.Verdict
	Grid     geom.Grid
	Feasible geom.Polyline // part of h = 0 with g ≤ 0
}

func mfcqConstraints() (h, g cq.Constraint) {
	h = cq.Constraint{
		Name: "h",
		Kind: cq.Equality,
		F:    func(x, y float64) float64 { return y - (0.3*x*x + 0.5) },
		Grad: func(x, y float64) geom.Vec { return geom.V(-0.6*x, 1) },
	}
	g = cq.Constraint{
		Name: "g",
		F:    func(x, y float64) float64 { return y - (-0.5*x + 1.2) },
		Grad: func(x, y float64) geom.Vec { return geom.V(0.5, 1) },
	}
	return
}

func newMFCQScene(n int) (mfcqScene, error) {
	h, g := mfcqConstraints()
	x, err := solve.Intersect(h.F, g.F, 0.9, 0.75, []solve.Bound{{Lower: 0, Upper: 2}, {Lower: 0, Upper: 2}})
	if err != nil {
		return mfcqScene{}, fmt.Errorf("locate x*: %w", err)
	}
	star := geom.V(x[0], x[1])
	v, err := cq.Analyze([]cq.Constraint{h, g}, star, 1e-9)
	if err != nil {
		return mfcqScene{}, err
	}
	arc := geom.Sample(func(x float64) float64 { return 0.3*x*x + 0.5 }, -0.3, star.X+0.05, 200)
	below := func(x, y float64) float64 { return -g.F(x, y) }
	var feasible geom.Polyline
	if runs := arc.Split(below, -1e-9); len(runs) > 0 {
		feasible = runs[0]
	}
	return mfcqScene{
		Star:     star,
		H:        h,
		G:        g,
		Verdict:  v,
		Grid:     geom.NewGrid(-1, 2.5, -0.5, 2.5, n),
		Feasible: feasible,
	}, nil
}

func checkMFCQ() ([]Check, error) {
	s, err := newMFCQScene(2)
	if err != nil {
		return nil, err
	}
	res := math.Max(math.Abs(s.H.Value(s.Star)), math.Abs(s.G.Value(s.Star)))
	d := s.Verdict.Direction
	checks := []Check{
		check("x* on both curves", res <= 1e-6, "x*=(%.6f, %.6f), residual %.1e", s.Star.X, s.Star.Y, res),
		check("LICQ holds", s.Verdict.LICQ, "rank %d", s.Verdict.Rank),
		check("MFCQ holds", s.Verdict.MFCQ, "d=(%.4f, %.4f)", d.X, d.Y),
		check("∇h·d = 0", math.Abs(s.H.Gradient(s.Star).Dot(d)) <= 1e-12, "%.1e", s.H.Gradient(s.Star).Dot(d)),
		check("∇g·d < 0", s.G.Gradient(s.Star).Dot(d) < 0, "%.4f", s.G.Gradient(s.Star).Dot(d)),
	}
	for _, c := range []cq.Constraint{s.H, s.G} {
		err := c.CheckGradient(s.Star, 1e-6)
		checks = append(checks, check("∇"+c.Name+" matches finite differences", err == nil, "%v", errString(err)))
	}
	return checks, nil
}

func buildMFCQ(st render.Style) (*render.Figure, error) {
	s, err := newMFCQScene(800)
	if err != nil {
		return nil, err
	}
	if !s.Verdict.MFCQ {
		return nil, fmt.Errorf("no MFCQ direction at %v", s.Star)
	}
	var (
		purple = render.MustHex("#6a1b9a")
		red    = render.MustHex("#c0392b")
		green  = render.MustHex("#2e7d32")
		navy   = render.MustHex("#1a365d")
		arc    = render.MustHex("#0d47a1")
	)

	f := render.NewFigure(10, 10, st)
	p := f.Panel("")
	p.ShowAxes("x₁", "x₂")
	p.Limits(-0.3, 2.3, -0.2, 2.3)

	hf, gf := s.Grid.Eval(s.H.F), s.Grid.Eval(s.G.F)
	p.Region(gf.NonPos(), render.Alpha(render.MustHex("#e8eef5"), 0.6))
	for _, l := range geom.Contour(hf, 0) {
		p.Stroke(l, render.Line(navy, 2.5))
	}
	for _, l := range geom.Contour(gf, 0) {
		p.Stroke(l, render.Line(slate, 2))
	}
	if feasible := p.Stroke(s.Feasible, render.Line(arc, 4)); feasible != nil {
		p.AddLegend("Feasible set", feasible)
	}

	gh, gg := s.H.Gradient(s.Star), s.G.Gradient(s.Star)
	t := gh.Perp().Unit().Scale(0.4)
	p.Stroke(geom.Segment(s.Star.Sub(t), s.Star.Add(t)), render.Dashed(render.Alpha(render.MustHex("#7f8c8d"), 0.6), 1.2))

	hv, gv, dv := gh.WithLen(0.55), gg.WithLen(0.55), s.Verdict.Direction.WithLen(0.6)
	p.Arrow(s.Star, s.Star.Add(hv), render.Line(purple, 2.5))
	p.Arrow(s.Star, s.Star.Add(gv), render.Line(red, 2.5))
	p.Arrow(s.Star, s.Star.Add(dv), render.Line(green, 2.5))
	p.Text(s.Star.Add(hv).Add(geom.V(0.08, 0.08)), "∇h(x*)", st.Text(13, purple, render.Bold, flushLeft))
	p.Text(s.Star.Add(gv).Add(geom.V(-0.25, 0.1)), "∇g(x*)", st.Text(13, red, render.Bold, flushLeft))
	p.Text(s.Star.Add(dv).Add(geom.V(0.05, -0.12)), "d", st.Text(15, green, render.Bold, flushLeft))

	point(p, st, s.Star, geom.V(0.2, -0.12), "x*", 15)
	plate(p, st, geom.V(1.8, 1.55), "h(x) = 0", navy, 35)
	plate(p, st, geom.V(1.9, 0.35), "g(x) = 0", slate, -25)
	p.Text(geom.V(0.3, 0.3), "g(x) ≤ 0", italic(st, 11, render.MustHex("#34495e")))

	explain(p, st, geom.V(1.45, 2.15), "MFCQ Conditions\n\n"+
		"∇h(x*)ᵀd = 0\n"+
		"(tangent to equality)\n\n"+
		"∇g(x*)ᵀd < 0\n"+
		"(into feasible region)", render.MustHex("#f8f9fa"))
	return f, f.Err()
}
