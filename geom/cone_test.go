// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"
)

func nearDeg(rad, deg float64) bool { return math.Abs(rad-Deg(deg)) < 1e-9 }

func TestWedgeContains(t *testing.T) {

	w := WedgeDeg(V(0, 0), 70, 110, 1)
	switch {
	case !w.Contains(V(0, 1)):
		t.Fatal("bisector must be inside")
	case !w.Contains(Polar(2, Deg(70))) || !w.Contains(Polar(2, Deg(110))):
		t.Fatal("boundary rays must be inside")
	case w.Contains(V(0.7, 0.25)):
		t.Fatal("direction (0.7,0.25) must be outside")
	case !w.Contains(Vec{}):
		t.Fatal("zero direction belongs to every cone")
	case !w.Bisector().Near(V(0, 1), 1e-12):
		t.Fatal("unexpected bisector", w.Bisector())
	}

	// a wedge crossing the positive x-axis
	w = WedgeDeg(V(1, 1), -30, 15, 1)
	switch {
	case !w.Contains(V(1, 0)):
		t.Fatal("x-axis must be inside")
	case !w.ContainsPoint(V(2, 0.9)):
		t.Fatal("point must be inside")
	case w.ContainsPoint(V(0, 1)):
		t.Fatal("point must be outside")
	}

	full := Wedge{From: 0, To: 2 * math.Pi}
	if !full.Contains(V(-1, -1e-9)) {
		t.Fatal("full wedge contains everything")
	}
}

func TestWedgePolygon(t *testing.T) {
	w := WedgeDeg(V(0.2, 0.2), 10, 90, 1.6)
	p := w.Polygon(50)
	switch {
	case len(p) != 52:
		t.Fatal("unexpected vertex count", len(p))
	case p[0] != w.Origin || p[len(p)-1] != w.Origin:
		t.Fatal("polygon must start and end at the apex")
	case math.Abs(p[1].Sub(w.Origin).Norm()-1.6) > 1e-12:
		t.Fatal("arc must lie on the radius")
	}
}

// checkPolar verifies the defining property of the polar cone on sampled directions.
func checkPolar(t *testing.T, c Cone, p Wedge) {
	t.Helper()
	const n = 720
	for k := 0; k < n; k++ {
		v := Polar(1, 2*math.Pi*(float64(k)+0.5)/n)
		worst := math.Inf(-1)
		for m := 0; m < n; m++ {
			d := Polar(1, 2*math.Pi*float64(m)/n)
			if c.Contains(d) {
				worst = math.Max(worst, v.Dot(d))
			}
		}
		if in := p.Contains(v); in != (worst <= 1e-9) {
			t.Fatalf("direction %v: polar membership %v but max v·t = %g", v, in, worst)
		}
	}
}

func TestPolarWedge(t *testing.T) {

	c := Cone{WedgeDeg(V(0.2, 0.2), 10, 90, 1.8)}
	p, ok := c.Polar()
	switch {
	case !ok:
		t.Fatal("polar of a convex wedge is nontrivial")
	case !nearDeg(p.From, 180) || !nearDeg(p.To, 280):
		t.Fatal("unexpected polar", p.From*180/math.Pi, p.To*180/math.Pi)
	case p.Origin != c[0].Origin:
		t.Fatal("polar must keep the apex")
	}
	checkPolar(t, c, p)

	// a ray has a half-plane polar
	c = Cone{WedgeDeg(V(0, 0), 45, 45, 1)}
	p, _ = c.Polar()
	if !nearDeg(p.Span(), 180) {
		t.Fatal("polar of a ray must be a half-plane")
	}

	// a reflex wedge has only the trivial polar
	if _, ok = (Cone{WedgeDeg(V(0, 0), 0, 200, 1)}).Polar(); ok {
		t.Fatal("expected trivial polar")
	}
}

func TestPolarUnion(t *testing.T) {

	// nonconvex tangent cone whose convex hull is [10°, 90°]
	tc := Cone{WedgeDeg(V(0, 0), 10, 35, 1), WedgeDeg(V(0, 0), 65, 90, 1)}
	hull := tc.Hull()
	tp, ok1 := tc.Polar()
	lp, ok2 := Cone{hull}.Polar()

	switch {
	case !nearDeg(hull.From, 10) || !nearDeg(hull.To, 90):
		t.Fatal("unexpected hull", hull)
	case !ok1 || !ok2:
		t.Fatal("polars must be nontrivial")
	case !nearDeg(tp.From, 180) || !nearDeg(tp.To, 280):
		t.Fatal("unexpected polar of union", tp.From*180/math.Pi, tp.To*180/math.Pi)
	case !SameDirections(tp, lp, 720):
		t.Fatal("polar of a cone must equal polar of its hull")
	case SameDirections(tc, Cone{hull}, 720):
		t.Fatal("nonconvex cone differs from its hull")
	case !SubsetDirections(tc, Cone{hull}, 720):
		t.Fatal("cone must lie in its hull")
	}
	checkPolar(t, tc, tp)

	// branches of the complementarity tangent cone
	mc := Cone{WedgeDeg(V(0.8, 0.8), -30, 15, 1.6), WedgeDeg(V(0.8, 0.8), 50, 95, 1.6)}
	mp, ok := mc.Polar()
	switch {
	case !ok:
		t.Fatal("polar must be nontrivial")
	case !nearDeg(mp.From, 185) || !nearDeg(mp.To, 240):
		t.Fatal("unexpected polar of union", mp.From*180/math.Pi, mp.To*180/math.Pi)
	}
	checkPolar(t, mc, mp)

	// sampled polar of the union agrees away from the boundary rays
	if !SameDirections(mp, PolarOf(mc, 5760), 720) {
		t.Fatal("sampled polar disagrees with the exact polar")
	}

	// opposite rays leave nothing but the origin
	oc := Cone{WedgeDeg(V(0, 0), 0, 10, 1), WedgeDeg(V(0, 0), 180, 190, 1)}
	if _, ok = oc.Polar(); ok {
		t.Fatal("expected trivial polar")
	}

	if p, ok := (Cone{}).Polar(); !ok || p.Span() < 2*math.Pi {
		t.Fatal("polar of the empty cone is the plane")
	}
}

func TestEnclose(t *testing.T) {

	// normals straddling the negative x-axis
	w, ok := Enclose(V(1, 2), Polar(1, Deg(170)), Polar(1, Deg(-160)), Polar(1, Deg(180)))
	switch {
	case !ok:
		t.Fatal("directions are nonzero")
	case !nearDeg(w.Span(), 30):
		t.Fatal("unexpected span", w.Span()*180/math.Pi)
	case !w.Contains(V(-1, 0)) || w.Contains(V(1, 0)):
		t.Fatal("wedge must straddle the negative x-axis")
	case w.Origin != V(1, 2):
		t.Fatal("apex must be kept")
	}

	w, _ = Enclose(Vec{}, V(0, 1))
	if w.Span() != 0 || !w.Contains(V(0, 3)) {
		t.Fatal("single direction gives a ray")
	}

	if _, ok = Enclose(Vec{}, Vec{}); ok {
		t.Fatal("zero directions enclose nothing")
	}
}
