// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve locates points where several constraint curves meet,
// i.e. roots of square nonlinear systems F(x) = 0, by damped Newton iteration.
package solve

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/cqplot/numdiff"
)

// System evaluates the residual vector 𝑭(𝐱) : ℝⁿ → ℝⁿ into f.
type System func(x, f []float64)

// Jacobian evaluates 𝑭′(𝐱) into jac as a row-major n×n matrix.
type Jacobian func(x, jac []float64)

// Termination specifies the stopping criteria.
type Termination struct {
	// The iteration stops when ‖𝑭(𝐱ₖ)‖∞ ≤ Tolerance. Defaults to 1e-12.
	Tolerance float64
	// The iteration stops when the number of Newton steps exceeds limit. Defaults to 50.
	MaxIterations int
}

// Problem specifies a square root-finding problem.
type Problem struct {
	N      int         // The problem dimension
	F      System      // Residual 𝑭(𝐱)
	J      Jacobian    // Optional analytic Jacobian, estimated by central differences when nil
	Stop   Termination // Stop condition
	Bounds []Bound     // Optional box; iterates are projected onto it
}

// New validates the problem and creates a solver for it.
func (p *Problem) New() (*Solver, error) {
	stop := p.Stop
	if stop.Tolerance == zero {
		stop.Tolerance = 1e-12
	}
	if stop.MaxIterations == 0 {
		stop.MaxIterations = 50
	}

	switch {
	case p.N <= 0:
		return nil, errors.New("problem dimension must greater than 0")
	case p.F == nil:
		return nil, errors.New("residual function is required")
	case stop.Tolerance < zero:
		return nil, errors.New("tolerance must not less than 0")
	case stop.MaxIterations < 0:
		return nil, errors.New("max iteration must not less than 0")
	case p.Bounds != nil && len(p.Bounds) != p.N:
		return nil, errors.New("bound size must equal to n")
	}

	bnd := slices.Clone(p.Bounds)
	for k, b := range bnd {
		if math.IsNaN(b.Lower) {
			bnd[k].Lower = math.Inf(-1)
		}
		if math.IsNaN(b.Upper) {
			bnd[k].Upper = math.Inf(1)
		}
		if bnd[k].Lower > bnd[k].Upper {
			return nil, fmt.Errorf("bound error at %d", k)
		}
	}

	jac := p.J
	if jac == nil {
		jac = approxJacobian(p.N, p.F)
	}

	return &Solver{n: p.N, f: p.F, jac: jac, stop: stop, bounds: bnd}, nil
}

func approxJacobian(n int, f System) Jacobian {
	return func(x, jac []float64) {
		spec := numdiff.ApproxSpec{N: n, M: n, Func: f, Scheme: numdiff.Central, SkipBoundCheck: true}
		if err := spec.Diff(x, jac); err != nil {
			panic(err)
		}
	}
}

// Solver runs damped Newton iterations for a validated Problem.
// A Solver holds no per-run state and may be shared between goroutines.
type Solver struct {
	n      int
	f      System
	jac    Jacobian
	stop   Termination
	bounds []Bound
}

// Result contains the final state of the iteration.
type Result struct {
	OK       bool      // Whether the residual reached the tolerance.
	X        []float64 // Final point.
	F        []float64 // Residual at X.
	Residual float64   // ‖F‖∞
	Summary
}

// Summary contains a summary of the iteration.
type Summary struct {
	Status  Status // Final status.
	NumIter int    // Number of Newton steps performed.
}

// Solve iterates from the initial guess x0, which is not modified.
func (s *Solver) Solve(x0 []float64) *Result {
	n := s.n
	res := &Result{X: slices.Clone(x0), F: make([]float64, n)}
	if len(x0) != n {
		res.Status = BadArgument
		return res
	}

	x, f := res.X, res.F
	project(x, s.bounds)
	s.f(x, f)
	res.Residual = normInf(f)
	if math.IsInf(res.Residual, 1) {
		res.Status = BadArgument
		return res
	}

	jac := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	var step mat.VecDense
	xt, ft := make([]float64, n), make([]float64, n)

	for {
		if res.Residual <= s.stop.Tolerance {
			res.OK, res.Status = true, Converged
			return res
		}
		if res.NumIter >= s.stop.MaxIterations {
			res.Status = ExceedMaxIter
			return res
		}
		res.NumIter++

		// Solve 𝑭′(𝐱ₖ)𝐝 = -𝑭(𝐱ₖ)
		s.jac(x, jac.RawMatrix().Data)
		for i, v := range f {
			rhs.SetVec(i, -v)
		}
		if err := step.SolveVec(jac, rhs); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				res.Status = SingularJacobian
				return res
			}
		}

		// Backtrack on ½‖𝑭‖² until 𝐱ₖ₊₁ = 𝐏(𝐱ₖ + α𝐝) decreases it sufficiently.
		m0, alpha, accepted := merit(f), one, false
		for alpha >= alfmin {
			for i := range xt {
				xt[i] = x[i] + alpha*step.AtVec(i)
			}
			project(xt, s.bounds)
			s.f(xt, ft)
			if mt := merit(ft); !math.IsNaN(mt) && mt <= (one-2*armijo*alpha)*m0 {
				accepted = true
				break
			}
			alpha *= half
		}
		if !accepted {
			res.Status = Stalled
			return res
		}

		copy(x, xt)
		copy(f, ft)
		res.Residual = normInf(f)
	}
}

// Curves builds the system {f(x,y) = 0, g(x,y) = 0} whose roots are the
// intersection points of two implicit planar curves.
func Curves(f, g func(x, y float64) float64) System {
	return func(x, r []float64) {
		r[0] = f(x[0], x[1])
		r[1] = g(x[0], x[1])
	}
}

// Intersect finds an intersection of two implicit curves near the guess (x, y),
// optionally confined to a box that selects the branch.
func Intersect(f, g func(x, y float64) float64, x, y float64, box []Bound) ([2]float64, error) {
	p := Problem{N: 2, F: Curves(f, g), Bounds: box}
	s, err := p.New()
	if err != nil {
		return [2]float64{}, err
	}
	r := s.Solve([]float64{x, y})
	if !r.OK {
		return [2]float64{r.X[0], r.X[1]}, fmt.Errorf("intersect: %v after %d iterations (residual %g)", r.Status, r.NumIter, r.Residual)
	}
	return [2]float64{r.X[0], r.X[1]}, nil
}
