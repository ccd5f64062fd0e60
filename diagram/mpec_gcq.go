// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"math"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var mpecGCQ = &Diagram{
	Name:   "mpec_gcq",
	Title:  "MPEC-GCQ: equal polar cones",
	Build:  buildMPECGCQ,
	Checks: checkMPECGCQ,
}

// mpecGCQScene is a two-branch tangent cone [-30°,15°] ∪ [50°,95°] and the
// polar cone shared with its MPEC-linearized cone.
type mpecGCQScene struct {
	Star  geom.Vec
	T     geom.Cone
	Lin   geom.DirectionFunc
	Polar geom.Wedge
	Apex  geom.Vec // polar panel apex
}

// halfPlanes returns the normals n with n·d ≤ 0 that cut out a convex wedge.
func halfPlanes(w geom.Wedge) []geom.Vec {
	return []geom.Vec{geom.Polar(1, w.To+math.Pi/2), geom.Polar(1, w.From-math.Pi/2)}
}

func newMPECGCQScene() (mpecGCQScene, error) {
	star := geom.V(0.8, 0.8)
	t := geom.Cone{
		geom.WedgeDeg(star, -30, 15, 1.6),
		geom.WedgeDeg(star, 50, 95, 1.6),
	}
	lin := cq.Branches(1e-9, halfPlanes(t[0]), halfPlanes(t[1]))
	polar, ok := t.Polar()
	if !ok {
		return mpecGCQScene{}, errNoPolar
	}
	// the polar opens down-left of x*; a second apex keeps it in view
	apex := geom.V(1.5, 1.4)
	return mpecGCQScene{Star: star, T: t, Lin: lin, Polar: polar.Moved(apex, 1.2), Apex: apex}, nil
}

func checkMPECGCQ() ([]Check, error) {
	s, err := newMPECGCQScene()
	if err != nil {
		return nil, err
	}
	return []Check{
		check("T(x*) = T_lin^MPEC(x*)", geom.SameDirections(s.T, s.Lin, 720), "branch systems"),
		check("T(x*) nonconvex", !geom.SameDirections(s.T, s.T.Hull(), 720), "gap (15°,50°)"),
		check("T(x*)° = (T_lin^MPEC)°", geom.SameDirections(s.Polar, geom.PolarOf(s.Lin, 5760), 720), "%s", polarRange(s.Polar)),
		check("polar spans [185°,240°]", math.Abs(deg(s.Polar.From)-185) < 1e-9 && math.Abs(deg(s.Polar.Span())-55) < 1e-9,
			"[%.1f°, %.1f°]", deg(s.Polar.From), deg(s.Polar.From)+deg(s.Polar.Span())),
	}, nil
}

func buildMPECGCQ(st render.Style) (*render.Figure, error) {
	s, err := newMPECGCQScene()
	if err != nil {
		return nil, err
	}
	var (
		tangent  = render.MustHex("#455a64")
		polar    = render.MustHex("#78909c")
		accent   = render.MustHex("#1565c0")
		boundary = render.MustHex("#263238")
		ghost    = render.MustHex("#eceff1")
		ghostEdg = render.MustHex("#b0bec5")
		charcoal = render.MustHex("#424242")
		hint     = render.MustHex("#bdbdbd")
	)
	annot := func(p *render.Panel, at geom.Vec, txt string) {
		p.Note(at, txt, italic(st, 10, charcoal), render.Alpha(render.White, 0.9), render.Line(hint, 1))
	}

	f := render.NewFigure(14, 7, st)
	f.Title = "MPEC-GCQ: Guignard Constraint Qualification"
	f.Caption = "MPEC-GCQ: (T_lin^MPEC(x*))° = T(x*)°"

	left := f.Panel("")
	left.Limits(-0.3, 2.8, -0.3, 2.8)
	for _, w := range s.T {
		left.Fill(w.Polygon(40), render.Alpha(tangent, 0.35), render.Line(boundary, 1.5))
		outline(left, w, render.Dashed(render.Alpha(accent, 0.8), 2))
		left.Arrow(s.Star, s.Star.Add(w.Bisector().Scale(1.2)), render.Line(boundary, 2))
	}
	point(left, st, s.Star, geom.V(-0.15, -0.18), "x*", 12)
	left.Text(geom.V(1.9, 0.7), "T(x*)", st.Text(13, tangent, render.Bold, render.Italic, flushLeft))
	left.Text(geom.V(1.05, 2.1), "T_lin^MPEC", st.Text(11, accent, render.Bold, render.Italic, flushLeft))
	left.Text(geom.V(1.25, 2.6), "Primal Cones", st.Text(14, ink, render.Bold))
	annot(left, geom.V(0.75, 0.15), "T(x*) = T_lin^MPEC(x*)")

	right := f.Panel("")
	right.Limits(-0.3, 2.8, -0.3, 2.8)
	for _, w := range s.T {
		g := w.Moved(s.Apex, 1.2)
		right.Fill(g.Polygon(40), render.Alpha(ghost, 0.3), render.Dotted(ghostEdg, 1))
	}
	right.Fill(s.Polar.Polygon(40), render.Alpha(polar, 0.4), render.Line(boundary, 1.5))
	outline(right, s.Polar, render.Dashed(render.Alpha(accent, 0.8), 2))
	right.Arrow(s.Apex, s.Apex.Add(s.Polar.Bisector().Scale(1.0)), render.Line(boundary, 2))
	point(right, st, s.Apex, geom.V(0.15, 0.18), "x*", 12)

	right.Text(s.Apex.Add(geom.Polar(0.8, (s.Polar.From+s.Polar.To)/2+geom.Deg(12))), "T(x*)°",
		st.Text(13, polar, render.Bold, render.Italic))
	right.Text(geom.V(0.2, 1.75), "(T_lin^MPEC)°", st.Text(11, accent, render.Bold, render.Italic, flushLeft))
	right.Text(s.Apex.Add(geom.Polar(0.85, geom.Deg(-7.5))), "T(x*)", italic(st, 9, render.Alpha(render.MustHex("#90a4ae"), 0.7)))
	right.Text(geom.V(1.25, 2.6), "Polar Cones", st.Text(14, ink, render.Bold))
	annot(right, geom.V(1.25, 0.0), "(T_lin^MPEC)° = T(x*)°")
	right.Text(geom.V(-0.25, 2.35), polarRange(s.Polar), italic(st, 9, gray, flushLeft))

	f.AddLegend("T(x*) (primal)", swatch(render.Alpha(tangent, 0.5)))
	f.AddLegend("T_lin^MPEC(x*)", legendLine(render.Dashed(accent, 2)))
	f.AddLegend("T(x*)° (polar)", swatch(render.Alpha(polar, 0.5)))
	f.AddLegend("Primal cone (ghost)", &render.Box{Fill: render.Alpha(ghost, 0.5), Edge: render.Line(ghostEdg, 1)})
	return f, f.Err()
}
