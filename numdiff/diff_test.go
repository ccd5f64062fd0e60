// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"math"
	"slices"
	"testing"
)

func objV2(x, y []float64) {
	y[0] = x[0] * math.Sin(x[1])
	y[1] = x[1] * math.Cos(x[0])
	y[2] = math.Pow(x[0], 3) * math.Pow(x[1], -0.5)
}

func jacV2(x []float64) []float64 {
	return []float64{
		math.Sin(x[1]), x[0] * math.Cos(x[1]),
		-x[1] * math.Sin(x[0]), math.Cos(x[0]),
		3 * math.Pow(x[0], 2) * math.Pow(x[1], -0.5), -0.5 * math.Pow(x[0], 3) * math.Pow(x[1], -1.5),
	}
}

// Case Sources : https://github.com/scipy/scipy/blob/main/scipy/optimize/tests/test__numdiff.py (TestAdjustSchemeToBounds)
func TestFitBounds(t *testing.T) {

	dummy := make([]float64, 3)
	noop := func(x, y []float64) {}

	// no bounds
	{
		x0 := []float64{0, 0, 0}
		h0 := []float64{0.01, 0.01, 0.01}

		s := ApproxSpec{N: 3, M: 1, Func: noop, Scheme: Central}
		_ = s.Check(x0, dummy)
		copy(s.step, h0)
		s.fitBounds(x0)

		switch {
		case !relativeEqual(s.step, h0, 0):
			t.Fatal("unexpected step")
		case slices.Contains(s.oneSided, true):
			t.Fatal("unexpected one-sided flag")
		}
	}

	// loose bounds
	{
		x0 := []float64{0, 0.85, -0.85}
		h0 := []float64{0.1, 0.1, -0.1}
		bnd := []Bound{{-1, 1}, {-1, 1}, {-1, 1}}

		s := ApproxSpec{N: 3, M: 1, Func: noop, Bounds: bnd}
		_ = s.Check(x0, dummy)
		copy(s.step, h0)
		s.fitBounds(x0)
		if !relativeEqual(s.step, h0, 0) {
			t.Fatal("unexpected forward step")
		}

		s.Scheme = Central
		copy(s.step, h0)
		s.fitBounds(x0)
		switch {
		case !relativeEqual(s.step, []float64{0.1, 0.1, 0.1}, 0):
			t.Fatal("unexpected central step")
		case slices.Contains(s.oneSided, true):
			t.Fatal("unexpected one-sided flag")
		}
	}

	// tight bounds
	{
		x0 := []float64{0.0, 0.03}
		h0 := []float64{-0.1, -0.1}
		bnd := []Bound{{-0.03, 0.05}, {-0.03, 0.05}}
		dummy := make([]float64, 2)

		s := ApproxSpec{N: 2, M: 1, Func: noop, Bounds: bnd}
		_ = s.Check(x0, dummy)
		copy(s.step, h0)
		s.fitBounds(x0)
		if !relativeEqual(s.step, []float64{0.05, -0.06}, 0) {
			t.Fatal("unexpected forward step")
		}

		s.Scheme = Central
		copy(s.step, h0)
		s.fitBounds(x0)
		switch {
		case !relativeEqual(s.step, []float64{0.03, -0.03}, 0):
			t.Fatal("unexpected central step")
		case !slices.Equal(s.oneSided, []bool{false, true}):
			t.Fatal("unexpected one-sided flag")
		}
	}
}

func TestChooseStep(t *testing.T) {

	x0 := []float64{1e-5, 0, 1, 1e5}
	dummy := make([]float64, 4)
	noop := func(x, y []float64) {}

	for scheme, eps := range map[Scheme]float64{Forward: sqrtEps, Central: cubeEps} {
		want := []float64{eps, eps, eps, eps * 1e5}
		s := ApproxSpec{N: 4, M: 1, Func: noop, Scheme: scheme}
		_ = s.Check(x0, dummy)
		s.chooseStep(x0)
		if !relativeEqual(s.step, want, 1e-12) {
			t.Fatal("unexpected automatic step")
		}
	}

	// a relative step vanishing at x=0 falls back to the automatic one
	s := ApproxSpec{N: 4, M: 1, Func: noop, RelStep: 0.1}
	_ = s.Check(x0, dummy)
	s.chooseStep(x0)
	if !relativeEqual(s.step, []float64{1e-6, sqrtEps, 0.1, 1e4}, 1e-12) {
		t.Fatal("unexpected relative step")
	}
}

func TestCheck(t *testing.T) {

	f := func(x, y []float64) { y[0] = x[0] }
	jac := []float64{0}

	cases := []struct {
		spec ApproxSpec
		x0   []float64
		want error
	}{
		{ApproxSpec{N: 0, M: 1, Func: f}, []float64{}, ErrDimension},
		{ApproxSpec{N: 1, M: 1, Func: f, Scheme: 7}, []float64{0}, ErrScheme},
		{ApproxSpec{N: 1, M: 1}, []float64{0}, ErrNoFunc},
		{ApproxSpec{N: 1, M: 1, Func: f, Bounds: []Bound{{1, 0}}}, []float64{0}, ErrBound},
		{ApproxSpec{N: 1, M: 1, Func: f, Bounds: []Bound{{1, 2}}}, []float64{0}, ErrOutside},
		{ApproxSpec{N: 1, M: 1, Func: f, Bounds: []Bound{{1, 2}}, SkipBoundCheck: true}, []float64{0}, nil},
		{ApproxSpec{N: 1, M: 1, Func: f, Bounds: []Bound{{math.NaN(), math.NaN()}}}, []float64{0}, nil},
	}

	for i, c := range cases {
		if err := c.spec.Check(c.x0, jac); err != c.want {
			t.Fatalf("case %d: got %v, want %v", i, err, c.want)
		}
	}
}

// Case Sources : https://github.com/scipy/scipy/blob/main/scipy/optimize/tests/test__numdiff.py (test_absolute_step_sign)
func TestAbsStepSign(t *testing.T) {

	obj := func(x, y []float64) {
		y[0] = -math.Abs(x[0]+1) + math.Abs(x[1]+1)
	}
	grad := []float64{0, 0}

	for _, c := range []struct {
		abs  float64
		bnd  []Bound
		want []float64
	}{
		{1e-8, nil, []float64{-1, 1}},
		{-1e-8, nil, []float64{1, -1}},
		{1e-8, []Bound{{math.Inf(-1), -1}, {math.Inf(-1), -1}}, []float64{1, -1}},
		{-1e-8, []Bound{{-1, math.Inf(1)}, {-1, math.Inf(1)}}, []float64{-1, 1}},
	} {
		s := ApproxSpec{N: 2, M: 1, Func: obj, AbsStep: c.abs, Bounds: c.bnd}
		if err := s.Diff([]float64{-1, -1}, grad); err != nil {
			t.Fatal("abs sign failed", err)
		}
		if !relativeEqual(grad, c.want, 1e-7) {
			t.Fatal("unexpected abs sign", grad)
		}
	}
}

// Case Sources : https://github.com/scipy/scipy/blob/main/scipy/optimize/tests/test__numdiff.py
// (TestApproxDerivativesDense.test_vector_vector)
func TestVector(t *testing.T) {

	x0 := []float64{-100.0, 0.2}
	want := jacV2(x0)
	fwd := make([]float64, 6)
	cen := make([]float64, 6)

	s := ApproxSpec{N: 2, M: 3, Func: objV2}
	if err := s.Diff(x0, fwd); err != nil {
		t.Fatal("forward failed", err)
	}
	s = ApproxSpec{N: 2, M: 3, Func: objV2, Scheme: Central}
	if err := s.Diff(x0, cen); err != nil {
		t.Fatal("central failed", err)
	}

	switch {
	case !relativeEqual(want, fwd, 1e-5):
		t.Fatal("unexpected forward result")
	case !relativeEqual(want, cen, 1e-6):
		t.Fatal("unexpected central result")
	case x0[0] != -100 || x0[1] != 0.2:
		t.Fatal("x0 not restored")
	}
}

func TestTransposed(t *testing.T) {

	x0 := []float64{1.0, 2.0}
	want := jacV2(x0)
	jac := make([]float64, 6)

	s := ApproxSpec{N: 2, M: 3, Func: objV2, Scheme: Central, Transposed: true}
	if err := s.Diff(x0, jac); err != nil {
		t.Fatal("transposed failed", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if !relativeEqual(jac[i*3+j], want[j*2+i], 1e-8) {
				t.Fatalf("unexpected entry (%d,%d)", j, i)
			}
		}
	}
}

// Case Sources : https://github.com/scipy/scipy/blob/main/scipy/optimize/tests/test__numdiff.py
// (TestApproxDerivativesDense.test_with_bounds_3_point)
func TestBoundedCentral(t *testing.T) {

	x0 := []float64{1.0, 2.0}
	want := jacV2(x0)
	jac := make([]float64, 6)

	for _, bnd := range [][]Bound{
		nil,
		{{1, math.Inf(1)}, {1, math.Inf(1)}},
		{{math.Inf(-1), 2}, {math.Inf(-1), 2}},
		{{1, 2}, {1, 2}},
	} {
		s := ApproxSpec{N: 2, M: 3, Func: objV2, Scheme: Central, Bounds: bnd}
		if err := s.Diff(x0, jac); err != nil {
			t.Fatal("bounded central failed", err)
		}
		if !relativeEqual(jac, want, 1e-9) {
			t.Fatal("unexpected bounded central result", bnd)
		}
	}
}

func TestGradient(t *testing.T) {

	// circle constraint used by the LICQ figure
	g := func(x []float64) float64 {
		return math.Pow(x[0]-0.5, 2) + math.Pow(x[1]-1.5, 2) - 1
	}
	x0 := []float64{0.5, 0.5}
	grad, err := Gradient(g, x0)

	switch {
	case err != nil:
		t.Fatal("gradient failed", err)
	case math.Abs(grad[0]) > 1e-9 || math.Abs(grad[1]+2) > 1e-9:
		t.Fatal("unexpected gradient", grad)
	}

	if _, err := Gradient(g, nil); err != ErrDimension {
		t.Fatal("expected dimension error")
	}
}

func relativeEqual[T float64 | []float64](a, b T, tol float64) bool {
	eq := func(a, b float64) bool {
		if a == b {
			return true
		}
		return math.Abs(a-b)/math.Max(math.Abs(a), math.Abs(b)) <= tol
	}
	switch a := any(a).(type) {
	case float64:
		return eq(a, any(b).(float64))
	case []float64:
		b := any(b).([]float64)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !eq(a[i], b[i]) {
				return false
			}
		}
		return true
	}
	return false
}
