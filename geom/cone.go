// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"sort"
)

const (
	twoPi  = 2 * math.Pi
	angTol = 1e-12
)

// Directions is a set of planar directions closed under positive scaling.
type Directions interface {
	Contains(d Vec) bool
}

// DirectionFunc adapts a membership test to Directions.
type DirectionFunc func(d Vec) bool

func (f DirectionFunc) Contains(d Vec) bool { return f(d) }

// Wedge is the convex or reflex sector {r(cos θ, sin θ) : From ≤ θ ≤ To}
// anchored at Origin. Radius only matters for drawing.
type Wedge struct {
	Origin   Vec
	From, To float64 // radians, To ≥ From
	Radius   float64
}

// WedgeDeg builds a wedge from angles in degrees.
func WedgeDeg(origin Vec, from, to, radius float64) Wedge {
	return Wedge{Origin: origin, From: Deg(from), To: Deg(to), Radius: radius}
}

// Span returns the opening angle.
func (w Wedge) Span() float64 { return w.To - w.From }

// Contains reports whether direction d (relative to Origin) lies in the sector.
// The zero direction belongs to every wedge.
func (w Wedge) Contains(d Vec) bool {
	if d.X == 0 && d.Y == 0 {
		return true
	}
	if w.Span() >= twoPi {
		return true
	}
	a := mod2Pi(d.Angle() - w.From)
	return a <= w.Span()+angTol || a >= twoPi-angTol
}

// ContainsPoint reports whether p lies in the sector, ignoring Radius.
func (w Wedge) ContainsPoint(p Vec) bool { return w.Contains(p.Sub(w.Origin)) }

// Bisector returns the unit direction halfway between the boundary rays.
func (w Wedge) Bisector() Vec { return Polar(1, (w.From+w.To)/2) }

// Rays returns the unit directions of the two boundary rays.
func (w Wedge) Rays() (from, to Vec) { return Polar(1, w.From), Polar(1, w.To) }

// Arc samples the outer arc at Radius with n points.
func (w Wedge) Arc(n int) Polyline { return Arc(w.Origin, w.Radius, w.From, w.To, n) }

// Polygon returns the closed outline origin → arc → origin, the arc sampled with n points.
func (w Wedge) Polygon(n int) Polyline {
	p := make(Polyline, 0, n+2)
	p = append(p, w.Origin)
	p = append(p, w.Arc(n)...)
	return append(p, w.Origin)
}

// Moved returns the same sector anchored at origin with the given radius.
func (w Wedge) Moved(origin Vec, radius float64) Wedge {
	w.Origin, w.Radius = origin, radius
	return w
}

// Enclose returns the smallest wedge around the apex containing every nonzero
// direction in ds, found by cutting the circle at the widest angular gap.
// ok is false when ds has no nonzero direction.
func Enclose(origin Vec, ds ...Vec) (w Wedge, ok bool) {
	angles := make([]float64, 0, len(ds))
	for _, d := range ds {
		if d.X != 0 || d.Y != 0 {
			angles = append(angles, d.Angle())
		}
	}
	if len(angles) == 0 {
		return Wedge{Origin: origin}, false
	}
	sort.Float64s(angles)

	// the gap after the last angle wraps around to the first
	k, gap := len(angles)-1, angles[0]+twoPi-angles[len(angles)-1]
	for i := 0; i+1 < len(angles); i++ {
		if g := angles[i+1] - angles[i]; g > gap {
			k, gap = i, g
		}
	}
	from := angles[(k+1)%len(angles)]
	return Wedge{Origin: origin, From: from, To: from + twoPi - gap}, true
}

// Cone is a union of wedges sharing one apex; it need not be convex.
type Cone []Wedge

// Contains reports whether d lies in any of the wedges.
func (c Cone) Contains(d Vec) bool {
	for _, w := range c {
		if w.Contains(d) {
			return true
		}
	}
	return false
}

// Hull returns the smallest wedge containing every member, assuming the
// members follow the first one counter-clockwise.
func (c Cone) Hull() Wedge {
	if len(c) == 0 {
		return Wedge{}
	}
	h := c[0]
	for _, w := range c[1:] {
		lo := h.From + mod2Pi(w.From-h.From)
		hi := lo + w.Span()
		h.From, h.To = math.Min(h.From, lo), math.Max(h.To, hi)
	}
	return h
}

// Polar computes the polar cone {v : v·t ≤ 0 for all t in c}.
//
// The polar of a wedge [α, β] with β-α ≤ π is the wedge [β+π/2, α+3π/2];
// a reflex wedge has the trivial polar {0}. The polar of a union is the
// intersection of the polars. ok is false when the polar is {0}. The
// result inherits the apex and radius of the first wedge.
func (c Cone) Polar() (p Wedge, ok bool) {
	if len(c) == 0 {
		return Wedge{From: 0, To: twoPi}, true
	}
	p = c[0]
	for i, w := range c {
		if w.Span() > math.Pi+angTol {
			return Wedge{Origin: c[0].Origin, Radius: c[0].Radius}, false
		}
		q := Wedge{From: w.To + math.Pi/2, To: w.From + 3*math.Pi/2}
		if i == 0 {
			p.From, p.To = q.From, q.To
			continue
		}
		if p.From, p.To, ok = intersectArcs(p.From, p.To, q.From, q.To); !ok {
			return Wedge{Origin: c[0].Origin, Radius: c[0].Radius}, false
		}
	}
	return p, true
}

// PolarOf approximates the polar cone of an arbitrary direction set from
// the members among n uniformly sampled directions.
func PolarOf(a Directions, n int) DirectionFunc {
	var members []Vec
	for k := 0; k < n; k++ {
		if d := Polar(1, twoPi*(float64(k)+0.5)/float64(n)); a.Contains(d) {
			members = append(members, d)
		}
	}
	return func(v Vec) bool {
		if v.X == 0 && v.Y == 0 {
			return true
		}
		v = v.Unit()
		for _, d := range members {
			if v.Dot(d) > angTol {
				return false
			}
		}
		return true
	}
}

// intersectArcs intersects two angular intervals each of span at most π.
func intersectArcs(a0, a1, b0, b1 float64) (lo, hi float64, ok bool) {
	la, lb := a1-a0, b1-b0
	d := mod2Pi(b0 - a0)
	for _, s := range [...]float64{d, d - twoPi} {
		l, h := math.Max(0, s), math.Min(la, s+lb)
		if h >= l-angTol {
			return a0 + l, a0 + math.Max(l, h), true
		}
	}
	return 0, 0, false
}

// SameDirections reports whether a and b agree on n directions sampled
// uniformly around the circle. Samples are offset by half a step so that
// boundaries at whole-degree angles are never hit exactly.
func SameDirections(a, b Directions, n int) bool {
	return sampleDirections(n, func(d Vec) bool { return a.Contains(d) == b.Contains(d) })
}

// SubsetDirections reports whether every sampled direction of a is in b.
func SubsetDirections(a, b Directions, n int) bool {
	return sampleDirections(n, func(d Vec) bool { return !a.Contains(d) || b.Contains(d) })
}

func sampleDirections(n int, ok func(d Vec) bool) bool {
	for k := 0; k < n; k++ {
		if !ok(Polar(1, twoPi*(float64(k)+0.5)/float64(n))) {
			return false
		}
	}
	return true
}

func mod2Pi(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
