// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"image/color"

	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var mpecIntersection = &Diagram{
	Name:   "mpec_intersection",
	Title:  "MPEC at the intersection of three fields",
	Build:  buildVenn,
	Checks: checkVenn,
}

const vennRadius = 1.2

type vennSet struct {
	Label      string
	Center     geom.Vec
	LabelAt    geom.Vec
	Fill, Edge color.Color
	Text       color.Color
}

func vennSets() []vennSet {
	return []vennSet{
		{"Optimization\nTheory", geom.V(-0.65, 0), geom.V(-1, -0.5),
			render.MustHex("#66c2a5"), render.MustHex("#2d5c4a"), render.MustHex("#1a3d2e")},
		{"Variational\nAnalysis", geom.V(0.65, 0), geom.V(1, -0.5),
			render.MustHex("#fc8d62"), render.MustHex("#8b4a2d"), render.MustHex("#5a2d18")},
		{"Equilibrium\nModeling", geom.V(0, 0.9), geom.V(0, 1.5),
			render.MustHex("#8da0cb"), render.MustHex("#3d4d6b"), render.MustHex("#2a3650")},
	}
}

var vennCenter = geom.V(0, 0.35)

func inDisc(c, p geom.Vec) bool { return p.Sub(c).Norm() <= vennRadius }

func checkVenn() ([]Check, error) {
	sets := vennSets()
	g := geom.NewGrid(-2, 2, -1.5, 2.5, 201)
	var core geom.Mask
	for i, s := range sets {
		m := g.Eval(func(x, y float64) float64 { return geom.V(x, y).Sub(s.Center).Norm() - vennRadius }).NonPos()
		if i == 0 {
			core = m
		} else {
			core = core.And(m)
		}
	}
	all := true
	own := true
	for _, s := range sets {
		all = all && inDisc(s.Center, vennCenter)
		own = own && inDisc(s.Center, s.LabelAt)
	}
	return []Check{
		check("triple intersection nonempty", core.Count() > 0, "%d grid cells", core.Count()),
		check("MPEC label in every disc", all, "at %v", vennCenter),
		check("labels inside their discs", own, "r=%.1f", vennRadius),
	}, nil
}

func buildVenn(st render.Style) (*render.Figure, error) {
	f := render.NewFigure(12, 10, st)
	p := f.Panel("")
	p.Limits(-2.5, 2.5, -2.4, 2.7)
	sets := vennSets()
	for _, s := range sets {
		p.Fill(geom.Circle(s.Center, vennRadius, 200), render.Alpha(s.Fill, 0.6), render.Line(s.Edge, 2.5))
	}
	for _, s := range sets {
		p.Text(s.LabelAt, s.Label, st.Text(14, s.Text, render.Bold))
	}
	p.Note(vennCenter, "MPEC", st.Text(22, render.Black, render.Bold), render.Alpha(render.White, 0.9), render.Line(render.Black, 2))
	p.Note(geom.V(0, -1.85), "The central region (MPEC) represents Mathematical Programs with Equilibrium Constraints,\n"+
		"which combine complementarity and equilibrium conditions from all three foundational areas.",
		italic(st, 11, render.Black), render.Alpha(render.MustHex("#ffffe0"), 0.7), render.Line(render.Alpha(render.Black, 0.7), 1))
	return f, f.Err()
}
