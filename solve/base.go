// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import "math"

const (
	zero = 0.0
	one  = 1.0
	half = 0.5

	// sufficient decrease factor of the merit ½‖F‖² in backtracking
	armijo = 1e-4
	// smallest damping factor before the step is declared useless
	alfmin = 1.0 / 1024
)

type Status int

const (
	// Converged the residual satisfied ‖F(x)‖∞ ≤ Tolerance.
	Converged Status = iota + 1
	// BadArgument initial point dimension mismatch or non-finite evaluation.
	BadArgument
	// SingularJacobian the Newton system could not be solved.
	SingularJacobian
	// Stalled no damped step reduced the residual.
	Stalled
	// ExceedMaxIter more than MaxIterations Newton steps.
	ExceedMaxIter
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case BadArgument:
		return "bad argument"
	case SingularJacobian:
		return "singular jacobian"
	case Stalled:
		return "stalled"
	case ExceedMaxIter:
		return "exceed max iterations"
	}
	return "unknown"
}

// Bound represents the bounds for one variable.
// Infinite ends mean the variable is not bounded on that side.
type Bound struct {
	Lower, Upper float64
}

// project limits x to the box:
//
//	𝚙𝚛𝚘𝚓 xᵢ = uᵢ    if xᵢ > uᵢ
//	𝚙𝚛𝚘𝚓 xᵢ = lᵢ    if xᵢ < lᵢ
//	𝚙𝚛𝚘𝚓 xᵢ = xᵢ    otherwise
func project(x []float64, b []Bound) (projected bool) {
	if len(b) == 0 {
		return
	}
	if len(b) != len(x) {
		panic("bound check error")
	}
	for i, bi := range b {
		if x[i] < bi.Lower {
			x[i], projected = bi.Lower, true
		} else if x[i] > bi.Upper {
			x[i], projected = bi.Upper, true
		}
	}
	return
}

// normInf returns ‖v‖∞, or +Inf if any element is not finite.
func normInf(v []float64) float64 {
	n := zero
	for _, e := range v {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return math.Inf(1)
		}
		n = math.Max(n, math.Abs(e))
	}
	return n
}

func merit(f []float64) float64 {
	s := zero
	for _, e := range f {
		s += e * e
	}
	return half * s
}
