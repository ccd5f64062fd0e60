// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"errors"

	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var gcqIllustration = &Diagram{
	Name:   "gcq_illustration",
	Title:  "Guignard CQ: equal polar cones",
	Build:  buildGCQ,
	Checks: checkGCQ,
}

// gcqScene has a nonconvex tangent cone whose convex hull is the
// linearized cone, so the two polar cones coincide.
type gcqScene struct {
	Star     geom.Vec
	T        geom.Cone
	L        geom.Wedge
	PolarT   geom.Wedge
	PolarL   geom.Wedge
	PolarOut geom.Vec // apex of the polar panel
}

var errNoPolar = errors.New("polar cone is trivial")

func newGCQScene() (gcqScene, error) {
	star := geom.V(0.2, 0.2)
	t := geom.Cone{
		geom.WedgeDeg(star, 10, 35, 1.6),
		geom.WedgeDeg(star, 65, 90, 1.6),
	}
	l := t.Hull()
	l.Radius = 1.8

	pt, ok := t.Polar()
	if !ok {
		return gcqScene{}, errNoPolar
	}
	pl, ok := geom.Cone{l}.Polar()
	if !ok {
		return gcqScene{}, errNoPolar
	}
	// the polar cone opens down-left; move its apex so it stays in view
	apex := geom.V(1.9, 1.7)
	return gcqScene{
		Star:     star,
		T:        t,
		L:        l,
		PolarT:   pt.Moved(apex, 1.5),
		PolarL:   pl.Moved(apex, 1.5),
		PolarOut: apex,
	}, nil
}

func checkGCQ() ([]Check, error) {
	s, err := newGCQScene()
	if err != nil {
		return nil, err
	}
	return []Check{
		check("T(x*) ⊆ L(x*)", geom.SubsetDirections(s.T, s.L, 720), "L = conv T"),
		check("T(x*) nonconvex", !geom.SameDirections(s.T, s.L, 720), "gap (35°,65°)"),
		check("T(x*)° = L(x*)°", geom.SameDirections(s.PolarT, s.PolarL, 720),
			"[%.0f°,%.0f°]", deg(s.PolarT.From), deg(s.PolarT.To)),
	}, nil
}

func buildGCQ(st render.Style) (*render.Figure, error) {
	s, err := newGCQScene()
	if err != nil {
		return nil, err
	}
	var (
		red    = render.MustHex("#c62828")
		darkRd = render.MustHex("#b71c1c")
		blue   = render.MustHex("#1565c0")
		navy   = render.MustHex("#0d47a1")
		purple = render.MustHex("#7b1fa2")
		plum   = render.MustHex("#6a1b9a")
		head   = render.MustHex("#37474f")
		note   = render.MustHex("#546e7a")
	)

	f := render.NewFigure(14, 7, st)
	f.Caption = "Guignard CQ holds when the polar cones coincide: T(x*)° = L(x*)°"

	left := f.Panel("")
	left.Limits(-0.3, 2.8, -0.5, 2.3)
	for _, w := range s.T {
		cone(left, w, paleRed, red, 0.4, 2)
	}
	cone(left, s.L, render.MustHex("#bbdefb"), blue, 0.25, 1.5)
	tag(left, st, geom.V(1.0, 1.55), "T(x*)", darkRd, 13)
	tag(left, st, geom.V(1.85, 0.85), "L(x*)", navy, 13)
	point(left, st, s.Star, geom.V(-0.15, -0.15), "x*", 14)
	left.Text(geom.V(1.3, 2.1), "Primal Cones", st.Text(14, head, render.Bold))
	left.Text(geom.V(1.3, -0.3), "T(x*) ⊆ L(x*)", italic(st, 12, note))

	right := f.Panel("")
	right.Limits(-0.3, 2.8, -0.5, 2.3)
	cone(right, s.PolarT, paleRed, red, 0.4, 2)
	cone(right, s.PolarL, render.MustHex("#e1bee7"), purple, 0.3, 1.5)
	mid := s.PolarT.Bisector()
	tag(right, st, s.PolarOut.Add(mid.Rotate(geom.Deg(-22)).Scale(1.15)), "T(x*)°", darkRd, 13)
	tag(right, st, s.PolarOut.Add(mid.Rotate(geom.Deg(22)).Scale(1.0)), "L(x*)°", plum, 13)
	right.Dot(s.PolarOut, ink, 4.5)
	right.Text(s.PolarOut.Add(geom.V(0.15, 0.15)), "0", st.Text(14, ink, render.Bold))
	right.Text(geom.V(1.3, 2.1), "Polar Cones", st.Text(14, head, render.Bold))
	right.Text(geom.V(1.3, -0.3), "GCQ: T(x*)° = L(x*)°", st.Text(12, render.MustHex("#4a148c"), render.Bold))
	right.Text(geom.V(-0.25, 2.0), polarRange(s.PolarT), italic(st, 10, note, flushLeft))
	return f, f.Err()
}
