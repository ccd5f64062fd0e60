// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var mpecACQ = &Diagram{
	Name:   "mpec_acq",
	Title:  "MPEC-ACQ: tangent cone equality",
	Build:  buildMPECACQ,
	Checks: checkMPECACQ,
}

// mpecACQScene is a biactive point of one complementarity pair whose lines
// G = 0 (slope -0.4) and H = 0 (slope 1.5) cross at x*. The tangent cone is
// the union of two quarter wedges, one hugging each line.
type mpecACQScene struct {
	Star   geom.Vec
	Pair   cq.Pair
	TG, TH geom.Vec // unit tangents along G = 0 and H = 0
	T      geom.Cone
	Lin    geom.DirectionFunc
}

func newMPECACQScene() mpecACQScene {
	star := geom.V(1.2, 1.0)
	pair := cq.Pair{
		Name: "acq",
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
	tg, th := geom.V(1, -0.4).Unit(), geom.V(1, 1.5).Unit()
	ag, ah := tg.Angle(), th.Angle()
	const r = 1.2
	t := geom.Cone{
		{Origin: star, From: ag - geom.Deg(90), To: ag, Radius: r},
		{Origin: star, From: ah, To: ah + geom.Deg(90), Radius: r},
	}
	// one inequality system per branch of the disjunction
	lin := cq.Branches(1e-9,
		[]geom.Vec{pair.G.Gradient(star), tg.Neg()},
		[]geom.Vec{pair.H.Gradient(star), th.Neg()},
	)
	return mpecACQScene{Star: star, Pair: pair, TG: tg, TH: th, T: t, Lin: lin}
}

func checkMPECACQ() ([]Check, error) {
	s := newMPECACQScene()
	idx := s.Pair.Classify(s.Star, 1e-9)
	return []Check{
		check("x* biactive", idx == cq.Biactive, "%v", idx),
		check("T(x*) = T_lin^MPEC(x*)", geom.SameDirections(s.T, s.Lin, 720), "MPEC-ACQ holds"),
		check("T(x*) nonconvex", !geom.SameDirections(s.T, s.T.Hull(), 720), "union of two wedges"),
		check("tangents in both cones", s.T.Contains(s.TG) && s.T.Contains(s.TH) && s.Lin(s.TG) && s.Lin(s.TH),
			"tG=%v tH=%v", s.TG, s.TH),
	}, nil
}

func buildMPECACQ(st render.Style) (*render.Figure, error) {
	s := newMPECACQScene()
	var (
		red    = render.MustHex("#c62828")
		blue   = render.MustHex("#1565c0")
		violet = render.MustHex("#5e35b1")
		teal   = render.MustHex("#00897b")
	)

	f := render.NewFigure(14, 7, st)
	f.Title = "MPEC-ACQ: Tangent Cone Equality"
	f.Caption = "MPEC-ACQ holds: T(x*) = T_lin^MPEC(x*)"

	gline := geom.Line(s.Star, -0.4, 0, 2.8)
	hline := geom.Line(s.Star, 1.5, 0.5, 2.0)

	left := f.Panel("")
	right := f.Panel("")
	for i, p := range []*render.Panel{left, right} {
		p.Limits(-0.5, 3.0, -0.5, 2.8)
		fill := violet
		if i == 1 {
			fill = teal
		}
		for _, w := range s.T {
			p.Fill(w.Polygon(30), render.Alpha(fill, 0.25))
		}
		p.Stroke(gline, render.Line(red, 2.5))
		p.Stroke(hline, render.Line(blue, 2.5))
		for _, t := range [...]geom.Vec{s.TG, s.TH} {
			p.Arrow(s.Star, s.Star.Add(t.Scale(0.9)), render.Line(steel, 2))
		}
		for _, w := range s.T {
			p.Arrow(s.Star, s.Star.Add(w.Bisector().Scale(0.72)), render.Line(render.Alpha(steel, 0.6), 2))
		}
		p.Dot(s.Star, render.Black, 5)
		p.Text(s.Star.Add(geom.V(0.12, -0.2)), "x*", st.Text(13, ink, render.Bold, flushLeft))
		p.Text(geom.V(2.5, 0.25), "G = 0", st.Text(11, red, render.Bold, flushLeft))
		p.Text(geom.V(1.65, 2.35), "H = 0", st.Text(11, blue, render.Bold, flushLeft))
	}

	left.Text(geom.V(0.35, 1.65), "T(x*)", st.Text(14, violet, render.Bold, render.Italic, flushLeft))
	left.Text(geom.V(1.25, 2.6), "True Tangent Cone", st.Text(14, ink, render.Bold))
	left.Text(geom.V(0.1, 0.1), "Nonconvex union", italic(st, 9, render.Alpha(gray, 0.8), flushLeft))

	right.Text(geom.V(0.25, 1.65), "T_lin^MPEC(x*)", st.Text(12, teal, render.Bold, render.Italic, flushLeft))
	right.Text(geom.V(1.25, 2.6), "MPEC-Linearized Cone", st.Text(14, ink, render.Bold))
	right.Text(geom.V(0.1, 0.1), "Complementarity-aware", italic(st, 9, render.Alpha(gray, 0.8), flushLeft))
	right.Note(geom.V(2.25, 0.7), "∇Gᵀd = 0", st.Text(9, render.Alpha(red, 0.9), flushLeft),
		render.Alpha(render.White, 0.8), draw.LineStyle{})
	right.Note(geom.V(0.55, 2.0), "∇Hᵀd = 0", st.Text(9, render.Alpha(blue, 0.9), flushLeft),
		render.Alpha(render.White, 0.8), draw.LineStyle{})

	f.AddLegend("G(x) = 0", legendLine(render.Line(red, 2.5)))
	f.AddLegend("H(x) = 0", legendLine(render.Line(blue, 2.5)))
	f.AddLegend("T(x*)", swatch(render.Alpha(violet, 0.5)))
	f.AddLegend("T_lin^MPEC(x*)", swatch(render.Alpha(teal, 0.5)))
	return f, f.Err()
}
