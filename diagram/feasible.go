// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
	"github.com/curioloop/cqplot/solve"
)

var mpecFeasibleRegion = &Diagram{
	Name:   "mpec_feasible_region",
	Title:  "Complementarity feasible set: parabola vs circle",
	Build:  buildFeasibleRegion,
	Checks: checkFeasibleRegion,
}

// arcThreshold keeps feasible arcs strictly inside the other constraint.
const arcThreshold = 0.01

// parabolaCircle is 0 ≤ G ⊥ H ≥ 0 with G = y + x² - 1 (above the parabola
// y = 1 - x²) and H = x² + (y-1)² - 1 (outside the unit circle about (0,1)).
func parabolaCircle() cq.Pair {
	return cq.Pair{
		Name: "parabola-circle",
		G: cq.Constraint{
			Name: "G",
			F:    func(x, y float64) float64 { return y + x*x - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*x, 1) },
		},
		H: cq.Constraint{
			Name: "H",
			F:    func(x, y float64) float64 { return x*x + (y-1)*(y-1) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*x, 2*(y-1)) },
		},
	}
}

// feasibleScene samples one complementarity pair on a grid.
type feasibleScene struct {
	Pair           cq.Pair
	Grid           geom.Grid
	GField, HField geom.Field
	GPos, HPos     geom.Mask // G ≥ 0, H ≥ 0
	Both           geom.Mask
	GArcs, HArcs   []geom.Polyline // G = 0 with H ≥ 0, H = 0 with G ≥ 0
	Crossings      []geom.Vec      // G = H = 0
}

// crossingSeeds start the crossing search, one per half-plane box.
var crossingSeeds = []struct {
	x, y float64
	box  []solve.Bound
}{
	{0.8, 0.4, []solve.Bound{{Lower: 0, Upper: 2}, {Lower: -0.5, Upper: 1}}},
	{-0.8, 0.4, []solve.Bound{{Lower: -2, Upper: 0}, {Lower: -0.5, Upper: 1}}},
}

func newFeasibleScene(pair cq.Pair, g geom.Grid) (feasibleScene, error) {
	s := feasibleScene{Pair: pair, Grid: g}
	s.GField, s.HField = g.Eval(pair.G.F), g.Eval(pair.H.F)
	s.GPos, s.HPos = s.GField.NonNeg(), s.HField.NonNeg()
	s.Both = s.GPos.And(s.HPos)
	for _, l := range geom.Contour(s.GField, 0) {
		s.GArcs = append(s.GArcs, l.Split(pair.H.F, arcThreshold)...)
	}
	for _, l := range geom.Contour(s.HField, 0) {
		s.HArcs = append(s.HArcs, l.Split(pair.G.F, arcThreshold)...)
	}
	for _, seed := range crossingSeeds {
		x, err := solve.Intersect(pair.G.F, pair.H.F, seed.x, seed.y, seed.box)
		if err != nil {
			return s, fmt.Errorf("crossing near (%g, %g): %w", seed.x, seed.y, err)
		}
		s.Crossings = append(s.Crossings, geom.V(x[0], x[1]))
	}
	return s, nil
}

// goldenCrossing is the closed form (√t, 1-t), t = (√5-1)/2.
func goldenCrossing() geom.Vec {
	t := (math.Sqrt(5) - 1) / 2
	return geom.V(math.Sqrt(t), 1-t)
}

func checkFeasibleRegion() ([]Check, error) {
	pair := parabolaCircle()
	s, err := newFeasibleScene(pair, geom.NewGrid(-2, 2, -1.5, 2.5, 201))
	if err != nil {
		return nil, err
	}
	want := goldenCrossing()
	var checks []Check
	for i, p := range s.Crossings {
		res := math.Max(math.Abs(pair.G.Value(p)), math.Abs(pair.H.Value(p)))
		w := want
		if i == 1 {
			w.X = -w.X
		}
		checks = append(checks,
			check(fmt.Sprintf("crossing %d residual", i), res <= 1e-6, "(%.6f, %.6f) residual %.1e", p.X, p.Y, res),
			check(fmt.Sprintf("crossing %d closed form", i), p.Near(w, 1e-6), "want (%.6f, %.6f)", w.X, w.Y),
			check(fmt.Sprintf("crossing %d biactive", i), pair.Classify(p, 1e-6) == cq.Biactive, "%v", pair.Classify(p, 1e-6)),
			check(fmt.Sprintf("crossing %d MPEC-LICQ", i), cq.MPECLICQ([]cq.Pair{pair}, nil, p, 1e-6), "∇G, ∇H independent"),
		)
	}
	for _, c := range []cq.Constraint{pair.G, pair.H} {
		err := c.CheckGradient(want, 1e-6)
		checks = append(checks, check("∇"+c.Name+" matches finite differences", err == nil, "%v", errString(err)))
	}
	checks = append(checks,
		check("feasible arcs found", len(s.GArcs) > 0 && len(s.HArcs) > 0, "%d parabola, %d circle", len(s.GArcs), len(s.HArcs)),
		check("centre excluded", !s.HPos.Contains(0, 1), "H(0,1) = %.0f", pair.H.F(0, 1)),
	)
	return checks, nil
}

func buildFeasibleRegion(st render.Style) (*render.Figure, error) {
	pair := parabolaCircle()
	s, err := newFeasibleScene(pair, geom.NewGrid(-2, 2, -1.5, 2.5, 1000))
	if err != nil {
		return nil, err
	}
	var (
		navy     = render.MustHex("#0d47a1")
		rust     = render.MustHex("#bf360c")
		ember    = render.MustHex("#e65100")
		blue     = render.MustHex("#1565c0")
		sky      = render.MustHex("#e3f2fd")
		cream    = render.MustHex("#fff3e0")
		charcoal = render.MustHex("#424242")
	)

	f := render.NewFigure(12, 11, st)
	p := f.Panel("")
	p.ShowAxes("x", "y")
	p.X.Label.TextStyle = st.Text(14, render.Black, render.Bold)
	p.Y.Label.TextStyle = st.Text(14, render.Black, render.Bold, render.Rotate(90))
	p.Limits(-2.3, 2.3, -1.8, 2.8)
	p.Legend.Top = false

	p.Region(s.HPos, render.Alpha(cream, 0.8))
	p.Region(s.GPos, render.Alpha(sky, 0.6))
	p.Region(s.Both, render.Alpha(render.MustHex("#c8e6c9"), 0.7))
	p.Region(s.HPos.Not(), render.White)

	for _, l := range geom.Contour(s.GField, 0) {
		p.Stroke(l, render.Dashed(render.Alpha(render.MustHex("#1976d2"), 0.5), 2))
	}
	for _, l := range geom.Contour(s.HField, 0) {
		p.Stroke(l, render.Dashed(render.Alpha(render.MustHex("#e64a19"), 0.5), 2))
	}
	for i, l := range s.GArcs {
		if line := p.Stroke(l, render.Line(navy, 4.5)); line != nil && i == 0 {
			p.AddLegend("G=0 where H ≥ 0 (parabola arc)", line)
		}
	}
	for i, l := range s.HArcs {
		if line := p.Stroke(l, render.Line(rust, 4.5)); line != nil && i == 0 {
			p.AddLegend("H=0 where G ≥ 0 (circle arc)", line)
		}
	}

	for _, c := range s.Crossings {
		p.Add(&render.Dot{At: c, Color: render.Black, Radius: 6, Hollow: true})
		dir, align := 1.0, flushLeft
		if c.X < 0 {
			dir, align = -1, render.Align(draw.XRight, draw.YCenter)
		}
		at := c.Add(geom.V(0.35*dir, -0.35))
		p.Arrow(at, c.Add(geom.V(0.06*dir, -0.06)), render.Line(charcoal, 1.5))
		p.Note(at, fmt.Sprintf("(%.3f, %.3f)", c.X, c.Y), st.Text(10, render.Black, render.Bold, align),
			render.Alpha(render.White, 0.95), render.Line(charcoal, 1.5))
	}

	p.Note(geom.V(-2.1, 2.5), "G ≥ 0\n(above parabola)", st.Text(10, blue, render.Bold, render.Align(draw.XLeft, draw.YTop)),
		render.Alpha(sky, 0.95), render.Line(blue, 1.5))
	p.Note(geom.V(2.1, -1.5), "H ≥ 0\n(outside circle)", st.Text(10, ember, render.Bold, render.Align(draw.XRight, draw.YBottom)),
		render.Alpha(cream, 0.95), render.Line(ember, 1.5))

	p.Note(geom.V(0, -1.55), "G(x,y) = y + x² - 1  (Parabola: y = 1 - x²)", st.Text(10, navy, render.Bold),
		render.Alpha(render.White, 0.95), render.Line(navy, 1.5))
	p.Note(geom.V(0, 2.25), "H(x,y) = x² + (y-1)² - 1  (Circle: center (0,1), r=1)", st.Text(10, rust, render.Bold),
		render.Alpha(render.White, 0.95), render.Line(rust, 1.5))
	p.Note(geom.V(0, 2.55), "Complementarity Feasible Set:  0 ≤ G ⊥ H ≥ 0", st.Text(12, render.Black, render.Bold),
		render.Alpha(render.MustHex("#fffde7"), 0.95), render.Line(charcoal, 2))

	p.Add(&render.Dot{At: geom.V(0, 1), Color: rust, Radius: 4, Hollow: true})
	p.Text(geom.V(0.12, 0.88), "(0,1)", st.Text(9, rust, render.Bold, flushLeft))
	return f, f.Err()
}
