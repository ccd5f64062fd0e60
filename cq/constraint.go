// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cq evaluates constraint qualifications of planar constraint
// systems at a point: active sets, LICQ, MFCQ, linearized cones and their
// complementarity (MPEC) counterparts.
package cq

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/numdiff"
)

// Kind distinguishes equality constraints h(x) = 0 from inequalities g(x) ≤ 0.
type Kind int

const (
	Inequality Kind = iota
	Equality
)

func (k Kind) String() string {
	if k == Equality {
		return "equality"
	}
	return "inequality"
}

// Constraint is a planar constraint with an optional analytic gradient.
type Constraint struct {
	Name string
	Kind Kind
	F    geom.Func2
	Grad func(x, y float64) geom.Vec // estimated by central differences when nil
}

var (
	ErrNoFunc       = errors.New("constraint function is required")
	ErrGradMismatch = errors.New("analytic gradient disagrees with finite differences")
)

// Value evaluates the constraint at p.
func (c Constraint) Value(p geom.Vec) float64 { return c.F.At(p) }

// Gradient evaluates ∇c(p), falling back to a finite-difference estimate.
func (c Constraint) Gradient(p geom.Vec) geom.Vec {
	if c.Grad != nil {
		return c.Grad(p.X, p.Y)
	}
	g, err := c.NumericGradient(p)
	if err != nil {
		return geom.Vec{X: math.NaN(), Y: math.NaN()}
	}
	return g
}

// NumericGradient estimates ∇c(p) by central differences.
func (c Constraint) NumericGradient(p geom.Vec) (geom.Vec, error) {
	if c.F == nil {
		return geom.Vec{}, ErrNoFunc
	}
	g, err := numdiff.Gradient(c.F.Vector, p.Slice())
	if err != nil {
		return geom.Vec{}, fmt.Errorf("%s: %w", c.Name, err)
	}
	return geom.V(g[0], g[1]), nil
}

// CheckGradient compares the analytic gradient at p with a finite-difference
// estimate, relative to max(1, ‖∇c‖).
func (c Constraint) CheckGradient(p geom.Vec, tol float64) error {
	if c.Grad == nil {
		return nil
	}
	num, err := c.NumericGradient(p)
	if err != nil {
		return err
	}
	ana := c.Grad(p.X, p.Y)
	if diff := ana.Sub(num).Norm(); diff > tol*math.Max(1, ana.Norm()) {
		return fmt.Errorf("%s at %v: %w (analytic %v, numeric %v)", c.Name, p, ErrGradMismatch, ana, num)
	}
	return nil
}

// Feasible reports whether p satisfies the constraint within tol.
func (c Constraint) Feasible(p geom.Vec, tol float64) bool {
	v := c.Value(p)
	if c.Kind == Equality {
		return math.Abs(v) <= tol
	}
	return v <= tol
}

// Active returns the constraints binding at p: every satisfied equality and
// every inequality with |g(p)| ≤ tol.
func Active(cs []Constraint, p geom.Vec, tol float64) []Constraint {
	var act []Constraint
	for _, c := range cs {
		if math.Abs(c.Value(p)) <= tol {
			act = append(act, c)
		}
	}
	return act
}

// Gradients evaluates the gradients of cs at p, split by kind.
func Gradients(cs []Constraint, p geom.Vec) (eq, ineq []geom.Vec) {
	for _, c := range cs {
		if c.Kind == Equality {
			eq = append(eq, c.Gradient(p))
		} else {
			ineq = append(ineq, c.Gradient(p))
		}
	}
	return
}

// rankTol is the relative singular value cutoff used for numerical rank.
const rankTol = 1e-10

// Rank returns the numerical rank of the matrix whose rows are vs,
// counting singular values above rankTol·σ₁.
func Rank(vs []geom.Vec) int {
	if len(vs) == 0 {
		return 0
	}
	a := mat.NewDense(len(vs), 2, nil)
	for i, v := range vs {
		a.SetRow(i, v.Slice())
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return 0
	}
	s := svd.Values(nil)
	r := 0
	for _, v := range s {
		if v > rankTol*s[0] {
			r++
		}
	}
	return r
}

// LICQ reports whether the gradients are linearly independent.
func LICQ(grads []geom.Vec) bool { return Rank(grads) == len(grads) }

// MFCQDirection searches for d with ∇hᵢ·d = 0 for every equality gradient
// and ∇gⱼ·d < 0 for every active inequality gradient. MFCQ also requires
// the equality gradients to be linearly independent; ok is false otherwise.
func MFCQDirection(eq, ineq []geom.Vec) (d geom.Vec, ok bool) {
	if !LICQ(eq) {
		return geom.Vec{}, false
	}
	switch len(eq) {
	case 0:
		if len(ineq) == 0 {
			return geom.Vec{}, true
		}
		w, found := geom.Enclose(geom.Vec{}, ineq...)
		if !found || w.Span() >= math.Pi {
			return geom.Vec{}, false
		}
		d = w.Bisector().Neg()
	case 1:
		t := eq[0].Perp().Unit()
		for _, c := range [...]geom.Vec{t, t.Neg()} {
			if strictlyDescends(c, ineq) {
				return c, true
			}
		}
		return geom.Vec{}, false
	default:
		// two independent equalities pin d to the origin
		return geom.Vec{}, len(ineq) == 0
	}
	return d, strictlyDescends(d, ineq)
}

func strictlyDescends(d geom.Vec, ineq []geom.Vec) bool {
	for _, a := range ineq {
		if a.Dot(d) >= 0 {
			return false
		}
	}
	return true
}

// LinearizedContains reports whether d lies in the linearized cone
// {d : ∇hᵢ·d = 0, ∇gⱼ·d ≤ 0}.
func LinearizedContains(eq, ineq []geom.Vec, d geom.Vec, tol float64) bool {
	for _, b := range eq {
		if math.Abs(b.Dot(d)) > tol {
			return false
		}
	}
	for _, a := range ineq {
		if a.Dot(d) > tol {
			return false
		}
	}
	return true
}

// Linearized returns the linearized cone of the given gradients as a direction set.
func Linearized(eq, ineq []geom.Vec, tol float64) geom.DirectionFunc {
	return func(d geom.Vec) bool { return LinearizedContains(eq, ineq, d.Unit(), tol) }
}

// Verdict summarises the constraint qualifications at a point.
type Verdict struct {
	Point     geom.Vec
	Active    []string
	Rank      int
	LICQ      bool
	MFCQ      bool
	Direction geom.Vec // MFCQ direction when MFCQ holds
}

// Analyze evaluates the active set, LICQ and MFCQ of cs at p.
// Every constraint must be feasible at p.
func Analyze(cs []Constraint, p geom.Vec, tol float64) (*Verdict, error) {
	for _, c := range cs {
		if c.F == nil {
			return nil, fmt.Errorf("%q: %w", c.Name, ErrNoFunc)
		}
		if !c.Feasible(p, tol) {
			return nil, fmt.Errorf("%q is violated at %v", c.Name, p)
		}
	}
	act := Active(cs, p, tol)
	eq, ineq := Gradients(act, p)
	all := append(append([]geom.Vec(nil), eq...), ineq...)

	v := &Verdict{Point: p, Rank: Rank(all), LICQ: LICQ(all)}
	for _, c := range act {
		v.Active = append(v.Active, c.Name)
	}
	v.Direction, v.MFCQ = MFCQDirection(eq, ineq)
	return v, nil
}
