// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cq

import (
	"math"

	"github.com/curioloop/cqplot/geom"
)

// Pair is one complementarity constraint 0 ≤ G(x) ⊥ H(x) ≥ 0.
type Pair struct {
	Name string
	G, H Constraint
}

// Feasible reports whether G ≥ 0, H ≥ 0 and G·H = 0 hold at p within tol.
func (c Pair) Feasible(p geom.Vec, tol float64) bool {
	g, h := c.G.Value(p), c.H.Value(p)
	return g >= -tol && h >= -tol && math.Min(math.Abs(g), math.Abs(h)) <= tol
}

// Index classifies a complementarity pair at a feasible point.
type Index int

const (
	// Infeasible the pair violates 0 ≤ G ⊥ H ≥ 0.
	Infeasible Index = iota
	// ZeroPlus G = 0 < H, the index set I₀₊.
	ZeroPlus
	// PlusZero G > 0 = H, the index set I₊₀.
	PlusZero
	// Biactive G = 0 = H, the degenerate index set I₀₀.
	Biactive
)

func (i Index) String() string {
	switch i {
	case ZeroPlus:
		return "I0+"
	case PlusZero:
		return "I+0"
	case Biactive:
		return "I00"
	}
	return "infeasible"
}

// Classify assigns the values of one pair to its index set.
func Classify(g, h, tol float64) Index {
	gz, hz := math.Abs(g) <= tol, math.Abs(h) <= tol
	switch {
	case gz && hz:
		return Biactive
	case gz && h > tol:
		return ZeroPlus
	case hz && g > tol:
		return PlusZero
	}
	return Infeasible
}

// Classify assigns the pair at p to its index set.
func (c Pair) Classify(p geom.Vec, tol float64) Index {
	return Classify(c.G.Value(p), c.H.Value(p), tol)
}

// IndexSets partitions pair indices by their classification at a point.
type IndexSets struct {
	ZeroPlus   []int
	PlusZero   []int
	Biactive   []int
	Infeasible []int
}

// ClassifyAll classifies every pair at p.
func ClassifyAll(pairs []Pair, p geom.Vec, tol float64) IndexSets {
	var s IndexSets
	for i, c := range pairs {
		switch c.Classify(p, tol) {
		case ZeroPlus:
			s.ZeroPlus = append(s.ZeroPlus, i)
		case PlusZero:
			s.PlusZero = append(s.PlusZero, i)
		case Biactive:
			s.Biactive = append(s.Biactive, i)
		default:
			s.Infeasible = append(s.Infeasible, i)
		}
	}
	return s
}

// Selected is a gradient chosen for the MPEC-LICQ family.
type Selected struct {
	Pair  int
	Of    string // "G" or "H"
	Index Index
	Grad  geom.Vec
}

// MPECLICQGradients selects ∇Gᵢ for i ∈ I₀₊ ∪ I₀₀ and ∇Hᵢ for i ∈ I₊₀ ∪ I₀₀,
// in pair order with G before H.
func MPECLICQGradients(pairs []Pair, p geom.Vec, tol float64) []Selected {
	var sel []Selected
	for i, c := range pairs {
		idx := c.Classify(p, tol)
		if idx == ZeroPlus || idx == Biactive {
			sel = append(sel, Selected{Pair: i, Of: "G", Index: idx, Grad: c.G.Gradient(p)})
		}
		if idx == PlusZero || idx == Biactive {
			sel = append(sel, Selected{Pair: i, Of: "H", Index: idx, Grad: c.H.Gradient(p)})
		}
	}
	return sel
}

// MPECLICQ reports whether the selected gradients together with the
// gradients of the active standard constraints are linearly independent.
func MPECLICQ(pairs []Pair, cs []Constraint, p geom.Vec, tol float64) bool {
	eq, ineq := Gradients(Active(cs, p, tol), p)
	grads := append(eq, ineq...)
	for _, s := range MPECLICQGradients(pairs, p, tol) {
		grads = append(grads, s.Grad)
	}
	return LICQ(grads)
}

// MPECLinearizedContains reports whether d lies in the MPEC-linearized cone:
//
//	∇Gᵢ·d = 0                          i ∈ I₀₊
//	∇Hᵢ·d = 0                          i ∈ I₊₀
//	∇Gᵢ·d ≥ 0, ∇Hᵢ·d ≥ 0, product = 0  i ∈ I₀₀
func MPECLinearizedContains(pairs []Pair, p, d geom.Vec, tol float64) bool {
	for _, c := range pairs {
		gd, hd := c.G.Gradient(p).Dot(d), c.H.Gradient(p).Dot(d)
		switch c.Classify(p, tol) {
		case ZeroPlus:
			if math.Abs(gd) > tol {
				return false
			}
		case PlusZero:
			if math.Abs(hd) > tol {
				return false
			}
		case Biactive:
			if gd < -tol || hd < -tol || math.Min(math.Abs(gd), math.Abs(hd)) > tol {
				return false
			}
		}
	}
	return true
}

// MPECLinearized returns the MPEC-linearized cone at p as a direction set.
func MPECLinearized(pairs []Pair, p geom.Vec, tol float64) geom.DirectionFunc {
	return func(d geom.Vec) bool { return MPECLinearizedContains(pairs, p, d.Unit(), tol) }
}

// Branches returns the union of branch cones, each the linearized cone of
// one system of inequality gradients. A complementarity point splits into
// one such system per piece of its disjunction.
func Branches(tol float64, branches ...[]geom.Vec) geom.DirectionFunc {
	return func(d geom.Vec) bool {
		d = d.Unit()
		for _, b := range branches {
			if LinearizedContains(nil, b, d, tol) {
				return true
			}
		}
		return false
	}
}
