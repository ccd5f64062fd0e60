// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Polyline is an ordered list of vertices.
type Polyline []Vec

// Sample evaluates the graph y = f(x) at n points over [a, b].
func Sample(f func(x float64) float64, a, b float64, n int) Polyline {
	xs := Linspace(a, b, n)
	p := make(Polyline, len(xs))
	for i, x := range xs {
		p[i] = Vec{x, f(x)}
	}
	return p
}

// Param evaluates a parametrized curve c(t) at n points over [t0, t1].
func Param(c func(t float64) Vec, t0, t1 float64, n int) Polyline {
	ts := Linspace(t0, t1, n)
	p := make(Polyline, len(ts))
	for i, t := range ts {
		p[i] = c(t)
	}
	return p
}

// Arc samples the circular arc of radius r around center from angle
// theta0 to theta1 (radians, counter-clockwise when theta1 > theta0).
func Arc(center Vec, r, theta0, theta1 float64, n int) Polyline {
	return Param(func(t float64) Vec { return center.Add(Polar(r, t)) }, theta0, theta1, n)
}

// Circle samples a closed circle; the last vertex repeats the first.
func Circle(center Vec, r float64, n int) Polyline {
	return Arc(center, r, 0, 2*math.Pi, n)
}

// Segment returns the two-point polyline a→b.
func Segment(a, b Vec) Polyline { return Polyline{a, b} }

// Ray returns the segment from origin along direction d with length l.
func Ray(origin, d Vec, l float64) Polyline {
	return Polyline{origin, origin.Add(d.WithLen(l))}
}

// Line returns the segment of the line through p with slope m over x ∈ [x0, x1].
func Line(p Vec, m, x0, x1 float64) Polyline {
	y := func(x float64) float64 { return p.Y + m*(x-p.X) }
	return Polyline{{x0, y(x0)}, {x1, y(x1)}}
}

// XYs returns the vertex coordinates as separate slices.
func (p Polyline) XYs() (xs, ys []float64) {
	xs, ys = make([]float64, len(p)), make([]float64, len(p))
	for i, v := range p {
		xs[i], ys[i] = v.X, v.Y
	}
	return
}

// Len returns the number of vertices, satisfying plotter.XYer.
func (p Polyline) Len() int { return len(p) }

// XY returns the coordinates of the i-th vertex, satisfying plotter.XYer.
func (p Polyline) XY(i int) (x, y float64) { return p[i].X, p[i].Y }

// Length is the sum of the segment lengths.
func (p Polyline) Length() float64 {
	l := 0.0
	for i := 1; i < len(p); i++ {
		l += p[i].Sub(p[i-1]).Norm()
	}
	return l
}

// Closed reports whether the first and last vertices coincide within tol.
func (p Polyline) Closed(tol float64) bool {
	return len(p) > 2 && p[0].Near(p[len(p)-1], tol)
}

// Reverse returns the vertices in reverse order.
func (p Polyline) Reverse() Polyline {
	r := make(Polyline, len(p))
	for i, v := range p {
		r[len(p)-1-i] = v
	}
	return r
}

// Concat joins polylines end to end.
func Concat(ps ...Polyline) Polyline {
	var r Polyline
	for _, p := range ps {
		r = append(r, p...)
	}
	return r
}

// Split keeps the maximal runs of consecutive vertices with cond(v) ≥ threshold.
// Runs with fewer than two vertices are dropped.
func (p Polyline) Split(cond Func2, threshold float64) []Polyline {
	var (
		runs []Polyline
		run  Polyline
	)
	flush := func() {
		if len(run) > 1 {
			runs = append(runs, run)
		}
		run = nil
	}
	for _, v := range p {
		if cond.At(v) >= threshold {
			run = append(run, v)
		} else {
			flush()
		}
	}
	flush()
	return runs
}
