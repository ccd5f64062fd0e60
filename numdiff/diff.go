// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff estimates derivatives of constraint functions by finite differences.
//
// It is used to cross-check the closed-form gradients drawn in the diagrams
// and to supply Jacobians to the intersection solver when no analytic one is given.
package numdiff

import (
	"errors"
	"math"
)

var (
	machEps = math.Nextafter(1, 2) - 1
	sqrtEps = math.Sqrt(machEps)
	cubeEps = math.Cbrt(machEps)
)

// Scheme selects the finite difference formula.
type Scheme int

const (
	// Forward uses the first order accurate forward difference.
	Forward Scheme = iota
	// Central uses the central difference at interior points and a second order
	// one-sided difference when a bound leaves no room on one side.
	Central
)

// Bound limits one independent variable to [Bound[0], Bound[1]].
// Infinite or NaN ends are treated as absent.
type Bound [2]float64

var (
	ErrDimension = errors.New("numdiff: invalid dimensions")
	ErrScheme    = errors.New("numdiff: unknown scheme")
	ErrNoFunc    = errors.New("numdiff: function is required")
	ErrBound     = errors.New("numdiff: invalid bound range")
	ErrOutside   = errors.New("numdiff: x0 violates bound constraints")
)

// ApproxSpec describes a finite difference approximation of the Jacobian of F : ℝⁿ → ℝᵐ.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
type ApproxSpec struct {
	N, M int
	// Func writes F(x) into the m-vector y.
	Func func(x, y []float64)
	// Scheme is Forward by default.
	Scheme Scheme
	// Bounds restrict where Func is evaluated. Nil means unbounded.
	Bounds []Bound
	// RelStep yields the absolute step h = RelStep·sign(x)·|x|.
	// When zero and AbsStep is zero the step is chosen automatically as
	// h = ε·sign(x)·max(1,|x|) with ε = √eps (Forward) or ∛eps (Central).
	RelStep float64
	// AbsStep overrides RelStep. Its sign is ignored by Central.
	AbsStep float64
	// SkipBoundCheck accepts x0 outside Bounds.
	SkipBoundCheck bool
	// Transposed stores the result as n×m (gradients contiguous) instead of m×n.
	Transposed bool

	f0, f1, f2 []float64
	step       []float64
	oneSided   []bool
}

// Check validates the settings against x0 and the output buffer and allocates scratch space.
func (s *ApproxSpec) Check(x0, jac []float64) error {
	switch {
	case s.N <= 0 || s.M <= 0:
		return ErrDimension
	case s.Scheme != Forward && s.Scheme != Central:
		return ErrScheme
	case s.Func == nil:
		return ErrNoFunc
	case len(x0) != s.N || len(jac) != s.N*s.M:
		return ErrDimension
	}

	if s.Bounds != nil {
		if len(s.Bounds) != s.N {
			return ErrDimension
		}
		for i, b := range s.Bounds {
			lo, hi := lower(b), upper(b)
			if lo > hi {
				return ErrBound
			}
			if !s.SkipBoundCheck && (x0[i] < lo || x0[i] > hi) {
				return ErrOutside
			}
		}
	}

	if len(s.f0) != s.M {
		s.f0 = make([]float64, s.M)
		s.f1 = make([]float64, s.M)
		s.f2 = make([]float64, s.M)
	}
	if len(s.step) != s.N {
		s.step = make([]float64, s.N)
		s.oneSided = make([]bool, s.N)
	}
	return nil
}

// Diff writes the Jacobian estimate at x0 into jac.
// x0 is perturbed in place during evaluation and restored before returning.
func (s *ApproxSpec) Diff(x0, jac []float64) error {
	if err := s.Check(x0, jac); err != nil {
		return err
	}
	s.chooseStep(x0)
	s.fitBounds(x0)

	f := s.Func
	f(x0, s.f0)
	for i, h := range s.step {
		xi := x0[i]
		switch {
		case s.Scheme == Forward:
			x0[i] = xi + h
			f(x0, s.f1)
			s.store(jac, i, func(j int) float64 { return (s.f1[j] - s.f0[j]) / h })
		case s.oneSided[i]:
			x0[i] = xi + h
			f(x0, s.f1)
			x0[i] = xi + 2*h
			f(x0, s.f2)
			s.store(jac, i, func(j int) float64 { return (4*s.f1[j] - 3*s.f0[j] - s.f2[j]) / (2 * h) })
		default:
			x0[i] = xi - h
			f(x0, s.f1)
			x0[i] = xi + h
			f(x0, s.f2)
			s.store(jac, i, func(j int) float64 { return (s.f2[j] - s.f1[j]) / (2 * h) })
		}
		x0[i] = xi
	}
	return nil
}

func (s *ApproxSpec) store(jac []float64, i int, d func(j int) float64) {
	for j := 0; j < s.M; j++ {
		if s.Transposed {
			jac[i*s.M+j] = d(j)
		} else {
			jac[j*s.N+i] = d(j)
		}
	}
}

func (s *ApproxSpec) chooseStep(x0 []float64) {
	eps := sqrtEps
	if s.Scheme == Central {
		eps = cubeEps
	}
	auto := func(v float64) float64 {
		return math.Copysign(eps, v) * math.Max(1, math.Abs(v))
	}
	for i, v := range x0 {
		if s.AbsStep == 0 && s.RelStep == 0 {
			s.step[i] = auto(v)
			continue
		}
		h := s.AbsStep
		if h == 0 {
			h = math.Copysign(s.RelStep, v) * math.Abs(v)
		}
		// a step lost to rounding falls back to the automatic one
		if (v+h)-v == 0 {
			h = auto(v)
		}
		s.step[i] = h
	}
}

func (s *ApproxSpec) fitBounds(x0 []float64) {
	if s.Scheme == Central {
		for i, h := range s.step {
			s.step[i] = math.Abs(h)
			s.oneSided[i] = false
		}
	}
	if !s.bounded() {
		return
	}

	for i, x := range x0 {
		lo, hi := lower(s.Bounds[i]), upper(s.Bounds[i])
		below, above := x-lo, hi-x
		h := s.step[i]

		if s.Scheme == Forward {
			fits := math.Abs(h) < math.Max(below, above)
			switch {
			case fits && (x+h < lo || x+h > hi):
				s.step[i] = -h
			case !fits && above >= below:
				s.step[i] = above
			case !fits:
				s.step[i] = -below
			}
			continue
		}

		if below >= h && above >= h {
			continue
		}
		if above >= below {
			h = math.Min(h, 0.5*above)
		} else {
			h = -math.Min(h, 0.5*below)
		}
		s.step[i], s.oneSided[i] = h, true
		// a central step of the shrunk size still fits both sides
		if room := math.Min(above, below); math.Abs(h) <= room {
			s.step[i], s.oneSided[i] = room, false
		}
	}
}

func (s *ApproxSpec) bounded() bool {
	for _, b := range s.Bounds {
		if !math.IsInf(lower(b), -1) || !math.IsInf(upper(b), 1) {
			return true
		}
	}
	return false
}

func lower(b Bound) float64 {
	if math.IsNaN(b[0]) {
		return math.Inf(-1)
	}
	return b[0]
}

func upper(b Bound) float64 {
	if math.IsNaN(b[1]) {
		return math.Inf(1)
	}
	return b[1]
}

// Gradient estimates ∇f(x0) of a scalar field with the Central scheme.
func Gradient(f func(x []float64) float64, x0 []float64) ([]float64, error) {
	spec := ApproxSpec{
		N: len(x0), M: 1,
		Func:   func(x, y []float64) { y[0] = f(x) },
		Scheme: Central,
	}
	x := append([]float64(nil), x0...)
	g := make([]float64, len(x0))
	if err := spec.Diff(x, g); err != nil {
		return nil, err
	}
	return g, nil
}
