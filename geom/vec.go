// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom holds the planar geometry behind the diagrams: vectors,
// sampling grids, parametrized curves, cones and level sets.
package geom

import "math"

// Vec is a point or direction in the plane.
type Vec struct {
	X, Y float64
}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec { return Vec{x, y} }

// Polar returns r(cos θ, sin θ).
func Polar(r, theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{r * c, r * s}
}

// Deg converts degrees to radians.
func Deg(d float64) float64 { return d * math.Pi / 180 }

func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }
func (a Vec) Scale(s float64) Vec { return Vec{a.X * s, a.Y * s} }
func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec) Cross(b Vec) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec) Norm() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec) Angle() float64 { return math.Atan2(a.Y, a.X) }
func (a Vec) Neg() Vec { return Vec{-a.X, -a.Y} }
func (a Vec) Slice() []float64 { return []float64{a.X, a.Y} }
func (a Vec) Lerp(b Vec, t float64) Vec { return a.Add(b.Sub(a).Scale(t)) }

// Perp rotates a by +90°.
func (a Vec) Perp() Vec { return Vec{-a.Y, a.X} }

// Unit returns a/‖a‖, or the zero vector when a is zero.
func (a Vec) Unit() Vec {
	n := a.Norm()
	if n == 0 {
		return Vec{}
	}
	return a.Scale(1 / n)
}

// WithLen rescales a to length l, keeping its direction.
func (a Vec) WithLen(l float64) Vec { return a.Unit().Scale(l) }

// Rotate turns a counter-clockwise by theta radians.
func (a Vec) Rotate(theta float64) Vec {
	s, c := math.Sincos(theta)
	return Vec{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// Near reports whether a and b differ by at most tol in each coordinate.
func (a Vec) Near(b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Collinear reports whether a and b are linearly dependent, i.e. |a×b| ≤ tol·‖a‖‖b‖.
func Collinear(a, b Vec, tol float64) bool {
	return math.Abs(a.Cross(b)) <= tol*a.Norm()*b.Norm()
}
