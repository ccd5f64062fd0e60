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
)

var mpecMFCQ = &Diagram{
	Name:   "mpec_mfcq",
	Title:  "MPEC-MFCQ: a direction along G = 0 into H > 0",
	Build:  buildMPECMFCQ,
	Checks: checkMPECMFCQ,
}

// mpecMFCQScene is a biactive corner at x* = (1.5, 1.2) between the lines
// G = 0 (slope -0.4) and H = 0 (slope 1.5).
type mpecMFCQScene struct {
	Star geom.Vec
	Pair cq.Pair
	D    geom.Vec
	OK   bool
}

func newMPECMFCQScene() mpecMFCQScene {
	star := geom.V(1.5, 1.2)
	pair := cq.Pair{
		Name: "corner",
		G: cq.Constraint{
			Name: "G",
			F:    func(x, y float64) float64 { return (y - star.Y) + 0.4*(x-star.X) },
			Grad: func(x, y float64) geom.Vec { return geom.V(0.4, 1) },
		},
		H: cq.Constraint{
			Name: "H",
			F:    func(x, y float64) float64 { return 1.5*(x-star.X) - (y - star.Y) },
			Grad: func(x, y float64) geom.Vec { return geom.V(1.5, -1) },
		},
	}
	// keep G = 0 to first order and strictly increase H
	d, ok := cq.MFCQDirection(
		[]geom.Vec{pair.G.Gradient(star)},
		[]geom.Vec{pair.H.Gradient(star).Neg()},
	)
	return mpecMFCQScene{Star: star, Pair: pair, D: d, OK: ok}
}

func checkMPECMFCQ() ([]Check, error) {
	s := newMPECMFCQScene()
	gd, hd := s.Pair.G.Gradient(s.Star).Dot(s.D), s.Pair.H.Gradient(s.Star).Dot(s.D)
	checks := []Check{
		check("x* biactive", s.Pair.Classify(s.Star, 1e-9) == cq.Biactive, "%v", s.Pair.Classify(s.Star, 1e-9)),
		check("direction exists", s.OK, "d=(%.4f, %.4f)", s.D.X, s.D.Y),
		check("∇Gᵀd = 0", math.Abs(gd) <= 1e-12, "%.1e", gd),
		check("∇Hᵀd > 0", hd > 0, "%.4f", hd),
		check("d along G = 0", s.D.Near(geom.V(1, -0.4).Unit(), 1e-12), "slope -0.4"),
	}
	for _, c := range []cq.Constraint{s.Pair.G, s.Pair.H} {
		err := c.CheckGradient(s.Star, 1e-6)
		checks = append(checks, check("∇"+c.Name+" matches finite differences", err == nil, "%v", errString(err)))
	}
	return checks, nil
}

func buildMPECMFCQ(st render.Style) (*render.Figure, error) {
	s := newMPECMFCQScene()
	if !s.OK {
		return nil, fmt.Errorf("no MPEC-MFCQ direction at %v", s.Star)
	}
	var (
		red    = render.MustHex("#c62828")
		blue   = render.MustHex("#1565c0")
		green  = render.MustHex("#2e7d32")
		amber  = render.MustHex("#f57c00")
		orange = render.MustHex("#e65100")
		indigo = render.MustHex("#1a237e")
	)

	f := render.NewFigure(12, 10, st)
	p := f.Panel("")
	p.Limits(-0.8, 3.5, -1.0, 3.2)
	p.Legend.Top, p.Legend.Left = false, false

	p.Fill(geom.Polyline{
		{X: -0.3, Y: 2.0},
		s.Star,
		{X: 3.2, Y: s.Star.Y - 0.4*(3.2-s.Star.X)},
		{X: 3.5, Y: 3.2},
		{X: -0.8, Y: 3.2},
	}, render.Alpha(render.MustHex("#e3f2fd"), 0.4))

	gls, hls := render.Line(red, 2.5), render.Line(blue, 2.5)
	p.Stroke(geom.Line(s.Star, -0.4, -0.3, 3.3), gls)
	p.Stroke(geom.Line(s.Star, 1.5, 0.5, 2.5), hls)

	t := s.D.Scale(0.5)
	p.Stroke(geom.Segment(s.Star.Sub(t), s.Star.Add(t)), render.Dashed(render.Alpha(silver, 0.6), 1.5))

	gv := s.Pair.G.Gradient(s.Star).WithLen(0.7)
	hv := s.Pair.H.Gradient(s.Star).WithLen(0.7)
	dv := s.D.Scale(0.7)
	gArrow := p.Arrow(s.Star, s.Star.Add(gv), render.Line(red, 2.5))
	hArrow := p.Arrow(s.Star, s.Star.Add(hv), render.Line(blue, 2.5))
	dArrow := p.Arrow(s.Star, s.Star.Add(dv), render.Line(green, 3.5))
	p.Text(s.Star.Add(gv).Add(geom.V(-0.1, 0.15)), "∇Gᵢ(x*)", st.Text(12, red, render.Bold, flushLeft))
	p.Text(s.Star.Add(hv).Add(geom.V(0.1, -0.1)), "∇Hᵢ(x*)", st.Text(12, blue, render.Bold, flushLeft))
	p.Text(s.Star.Add(dv).Add(geom.V(0.1, -0.12)), "d", st.Text(16, green, render.Bold, flushLeft))

	point(p, st, s.Star, geom.V(0.2, -0.15), "x*", 15)

	plate(p, st, geom.V(2.6, 0.65), "G(x) = 0", red, -22)
	plate(p, st, geom.V(2.0, 2.05), "H(x) = 0", blue, 50)
	p.Text(geom.V(0.4, 2.2), "Feasible\nRegion", italic(st, 11, render.Alpha(render.MustHex("#455a64"), 0.8)))

	p.Box(geom.V(2.5, 1.6), geom.V(3.35, 2.25), render.Alpha(paper, 0.95), render.Line(steel, 1.2), 5)
	p.Text(geom.V(2.92, 2.12), "MPEC-MFCQ", st.Text(9, indigo, render.Bold))
	p.Text(geom.V(2.92, 1.92), "∇Gᵢᵀd = 0", st.Text(8, red))
	p.Text(geom.V(2.92, 1.72), "∇Hᵢᵀd > 0", st.Text(8, blue))

	p.Box(geom.V(-0.4, -0.4), geom.V(1.1, 0.35), render.Alpha(render.MustHex("#fff8e1"), 0.95), render.Line(amber, 1.5), 6)
	p.Text(geom.V(0.35, 0.2), "At x* ∈ I00:", st.Text(10, orange, render.Bold))
	p.Text(geom.V(0.35, -0.05), "Gᵢ(x*) = 0", st.Text(9, render.MustHex("#424242")))
	p.Text(geom.V(0.35, -0.25), "Hᵢ(x*) = 0", st.Text(9, render.MustHex("#424242")))

	p.Text(geom.V(1.35, 3.0), "Geometry of MPEC-MFCQ", st.Text(16, ink, render.Bold))

	p.AddLegend("G(x) = 0 boundary", legendLine(gls))
	p.AddLegend("H(x) = 0 boundary", legendLine(hls))
	p.AddLegend("∇Gᵢ(x*)", gArrow)
	p.AddLegend("∇Hᵢ(x*)", hArrow)
	p.AddLegend("Feasible direction d", dArrow)
	return f, f.Err()
}
