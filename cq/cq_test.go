// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cq

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/cqplot/geom"
)

func circles() []Constraint {
	return []Constraint{
		{
			Name: "g1",
			F:    func(x, y float64) float64 { return (x-0.5)*(x-0.5) + (y-1.5)*(y-1.5) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*(x-0.5), 2*(y-1.5)) },
		},
		{
			Name: "g2",
			F:    func(x, y float64) float64 { return (x-0.5)*(x-0.5) + (y+0.5)*(y+0.5) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*(x-0.5), 2*(y+0.5)) },
		},
	}
}

func curveAndLine() []Constraint {
	return []Constraint{
		{
			Name: "h",
			Kind: Equality,
			F:    func(x, y float64) float64 { return y - (0.3*x*x + 0.5) },
			Grad: func(x, y float64) geom.Vec { return geom.V(-0.6*x, 1) },
		},
		{
			Name: "g",
			F:    func(x, y float64) float64 { return y - (-0.5*x + 1.2) },
			Grad: func(x, y float64) geom.Vec { return geom.V(0.5, 1) },
		},
	}
}

func TestRank(t *testing.T) {
	assert.Equal(t, 0, Rank(nil))
	assert.Equal(t, 0, Rank([]geom.Vec{{}, {}}))
	assert.Equal(t, 1, Rank([]geom.Vec{geom.V(1, 2), geom.V(-2, -4)}))
	assert.Equal(t, 2, Rank([]geom.Vec{geom.V(1, 0), geom.V(0, 1), geom.V(1, 1)}))
	assert.True(t, LICQ([]geom.Vec{geom.V(1, 0), geom.V(1, 1e-3)}))
	assert.False(t, LICQ([]geom.Vec{geom.V(1, 0), geom.V(0, 1), geom.V(1, 1)}))
}

func TestLICQViolation(t *testing.T) {
	cs := circles()
	v, err := Analyze(cs, geom.V(0.5, 0.5), 1e-9)
	require.NoError(t, err)

	assert.Equal(t, []string{"g1", "g2"}, v.Active)
	assert.Equal(t, 1, v.Rank)
	assert.False(t, v.LICQ, "gradients at the touching point are collinear")
	assert.False(t, v.MFCQ, "opposite gradients admit no strictly descending direction")

	for _, c := range cs {
		assert.NoError(t, c.CheckGradient(geom.V(0.5, 0.5), 1e-6))
		assert.NoError(t, c.CheckGradient(geom.V(-0.3, 1.7), 1e-6))
	}
}

func TestMFCQDirection(t *testing.T) {
	cs := curveAndLine()
	xs := (-0.5 + math.Sqrt(0.25+4*0.3*0.7)) / 0.6
	p := geom.V(xs, 0.3*xs*xs+0.5)

	v, err := Analyze(cs, p, 1e-9)
	require.NoError(t, err)
	require.True(t, v.MFCQ)
	assert.True(t, v.LICQ)

	gh, gg := cs[0].Gradient(p), cs[1].Gradient(p)
	d := v.Direction
	assert.InDelta(t, 0, gh.Dot(d), 1e-12, "d is tangent to h = 0")
	assert.Less(t, gg.Dot(d), 0.0, "d points into g < 0")
	assert.Less(t, d.X, 0.0, "d follows the feasible arc to the left")
	assert.True(t, LinearizedContains([]geom.Vec{gh}, []geom.Vec{gg}, d, 1e-12))
	assert.False(t, LinearizedContains([]geom.Vec{gh}, []geom.Vec{gg}, d.Neg(), 1e-12))

	for _, c := range cs {
		assert.NoError(t, c.CheckGradient(p, 1e-6))
	}
}

func TestMFCQCases(t *testing.T) {
	// inequalities only: the negative bisector descends all of them
	d, ok := MFCQDirection(nil, []geom.Vec{geom.V(1, 0), geom.V(0, 1)})
	require.True(t, ok)
	assert.InDelta(t, -math.Sqrt2/2, d.X, 1e-12)
	assert.InDelta(t, -math.Sqrt2/2, d.Y, 1e-12)

	_, ok = MFCQDirection(nil, nil)
	assert.True(t, ok, "nothing active")

	_, ok = MFCQDirection([]geom.Vec{geom.V(1, 0), geom.V(2, 0)}, nil)
	assert.False(t, ok, "dependent equalities")

	_, ok = MFCQDirection([]geom.Vec{geom.V(1, 0), geom.V(0, 1)}, nil)
	assert.True(t, ok, "independent equalities alone")

	_, ok = MFCQDirection([]geom.Vec{geom.V(1, 0)}, []geom.Vec{geom.V(0, 1), geom.V(0, -1)})
	assert.False(t, ok, "opposite inequality gradients along the tangent")
}

func TestCheckGradientMismatch(t *testing.T) {
	h := curveAndLine()[0]
	h.Grad = func(x, y float64) geom.Vec { return geom.V(0.6*x, 1) }
	err := h.CheckGradient(geom.V(0.9, 0.75), 1e-6)
	assert.ErrorIs(t, err, ErrGradMismatch)

	h.Grad = nil
	assert.NoError(t, h.CheckGradient(geom.V(0.9, 0.75), 1e-6))
	g := h.Gradient(geom.V(1, 0))
	assert.InDelta(t, -0.6, g.X, 1e-8)
	assert.InDelta(t, 1, g.Y, 1e-8)
}

func TestAnalyzeInfeasible(t *testing.T) {
	_, err := Analyze(circles(), geom.V(2, 2), 1e-9)
	assert.Error(t, err)

	_, err = Analyze([]Constraint{{Name: "none"}}, geom.V(0, 0), 1e-9)
	assert.ErrorIs(t, err, ErrNoFunc)
}

func parabolaCircle() Pair {
	return Pair{
		Name: "parabola/circle",
		G: Constraint{
			Name: "G",
			F:    func(x, y float64) float64 { return y + x*x - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*x, 1) },
		},
		H: Constraint{
			Name: "H",
			F:    func(x, y float64) float64 { return x*x + (y-1)*(y-1) - 1 },
			Grad: func(x, y float64) geom.Vec { return geom.V(2*x, 2*(y-1)) },
		},
	}
}

func TestClassify(t *testing.T) {
	pair := parabolaCircle()
	tt := (math.Sqrt(5) - 1) / 2
	corner := geom.V(math.Sqrt(tt), 1-tt)

	assert.Equal(t, Biactive, pair.Classify(corner, 1e-9))
	assert.Equal(t, ZeroPlus, pair.Classify(geom.V(1.2, 1-1.44), 1e-9))
	assert.Equal(t, PlusZero, pair.Classify(geom.V(0, 2), 1e-9))
	assert.Equal(t, Infeasible, pair.Classify(geom.V(1.5, 2), 1e-9))
	assert.Equal(t, Infeasible, Classify(-1, 0, 1e-9))
	assert.Equal(t, "I00", Biactive.String())

	pairs := []Pair{pair, pair, pair}
	sets := ClassifyAll(pairs, geom.V(0, 2), 1e-9)
	want := IndexSets{PlusZero: []int{0, 1, 2}}
	if diff := cmp.Diff(want, sets); diff != "" {
		t.Errorf("ClassifyAll mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, pair.Feasible(corner, 1e-9))
	assert.False(t, pair.Feasible(geom.V(1.5, 2), 1e-9))
}

func TestMPECLICQ(t *testing.T) {
	pair := parabolaCircle()
	tt := (math.Sqrt(5) - 1) / 2
	corner := geom.V(math.Sqrt(tt), 1-tt)

	sel := MPECLICQGradients([]Pair{pair}, corner, 1e-9)
	require.Len(t, sel, 2)
	assert.Equal(t, "G", sel[0].Of)
	assert.Equal(t, "H", sel[1].Of)
	assert.True(t, MPECLICQ([]Pair{pair}, nil, corner, 1e-9))

	// on the parabola away from the circle only ∇G is selected
	sel = MPECLICQGradients([]Pair{pair}, geom.V(1.2, 1-1.44), 1e-9)
	require.Len(t, sel, 1)
	assert.Equal(t, ZeroPlus, sel[0].Index)

	// a duplicated pair makes the selection dependent
	assert.False(t, MPECLICQ([]Pair{pair, pair}, nil, corner, 1e-9))
}

func TestMPECLinearized(t *testing.T) {
	pair := parabolaCircle()
	tt := (math.Sqrt(5) - 1) / 2
	corner := geom.V(math.Sqrt(tt), 1-tt)
	gG, gH := pair.G.Gradient(corner), pair.H.Gradient(corner)

	alongG := gG.Perp().Unit()
	if gH.Dot(alongG) < 0 {
		alongG = alongG.Neg()
	}
	alongH := gH.Perp().Unit()
	if gG.Dot(alongH) < 0 {
		alongH = alongH.Neg()
	}

	lin := MPECLinearized([]Pair{pair}, corner, 1e-9)
	assert.True(t, lin.Contains(alongG), "branch G = 0, ∇H·d ≥ 0")
	assert.True(t, lin.Contains(alongH.Scale(3)), "branch H = 0, ∇G·d ≥ 0")
	assert.False(t, lin.Contains(alongG.Neg()))
	assert.False(t, lin.Contains(gG), "both products positive")
	assert.True(t, lin.Contains(geom.Vec{}))

	// I0+ forces ∇G·d = 0
	p := geom.V(1.2, 1-1.44)
	assert.True(t, MPECLinearizedContains([]Pair{pair}, p, pair.G.Gradient(p).Perp(), 1e-9))
	assert.False(t, MPECLinearizedContains([]Pair{pair}, p, pair.G.Gradient(p), 1e-9))
}

func TestBranches(t *testing.T) {
	// two quarter-planes around the positive axes' bisectors
	b := Branches(1e-12,
		[]geom.Vec{geom.V(0, -1), geom.V(-1, 0)},
		[]geom.Vec{geom.V(0, 1), geom.V(1, 0)},
	)
	assert.True(t, b.Contains(geom.V(1, 1)))
	assert.True(t, b.Contains(geom.V(-1, -1)))
	assert.False(t, b.Contains(geom.V(1, -1)))
	assert.False(t, geom.SameDirections(b, geom.Cone{geom.WedgeDeg(geom.Vec{}, 0, 90, 1)}, 360))
	assert.True(t, geom.SameDirections(b, geom.Cone{
		geom.WedgeDeg(geom.Vec{}, 0, 90, 1),
		geom.WedgeDeg(geom.Vec{}, 180, 270, 1),
	}, 360))
}

func TestHierarchy(t *testing.T) {
	h := MPEC()

	assert.True(t, h.Implies(QLICQ, QGCQ))
	assert.True(t, h.Implies(QCRCQ, QGCQ))
	assert.True(t, h.Implies(QACQ, QACQ))
	assert.False(t, h.Implies(QMFCQ, QCRCQ))
	assert.False(t, h.Implies(QGCQ, QLICQ))
	assert.Len(t, h.Edges(), 6)
	assert.Equal(t, "Constant Rank CQ", QCRCQ.FullName())

	want := [][]Qualification{{QLICQ}, {QMFCQ, QCRCQ}, {QACQ, QCPLD}, {QGCQ}}
	if diff := cmp.Diff(want, h.Layers()); diff != "" {
		t.Errorf("Layers mismatch (-want +got):\n%s", diff)
	}

	cyclic := NewHierarchy(Implication{QACQ, QGCQ}, Implication{QGCQ, QACQ})
	assert.Nil(t, cyclic.Layers())
}
