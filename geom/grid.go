// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Func2 is a scalar field on the plane, e.g. a constraint function g(x, y).
type Func2 func(x, y float64) float64

// At evaluates f at p.
func (f Func2) At(p Vec) float64 { return f(p.X, p.Y) }

// Vector adapts f to the []float64 signature used by numdiff and solve.
func (f Func2) Vector(x []float64) float64 { return f(x[0], x[1]) }

// Linspace returns n evenly spaced samples over [a, b], endpoints included.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	xs := floats.Span(make([]float64, n), a, b)
	xs[n-1] = b
	return xs
}

// Grid is a rectangular sampling lattice. Samples are ordered x-major:
// index j*len(Xs)+i holds (Xs[i], Ys[j]).
type Grid struct {
	Xs, Ys []float64
}

// NewGrid samples [xmin,xmax]×[ymin,ymax] with n points per axis.
func NewGrid(xmin, xmax, ymin, ymax float64, n int) Grid {
	return Grid{Xs: Linspace(xmin, xmax, n), Ys: Linspace(ymin, ymax, n)}
}

// Dims returns the number of columns and rows.
func (g Grid) Dims() (nx, ny int) { return len(g.Xs), len(g.Ys) }

// Point returns the sample at column i, row j.
func (g Grid) Point(i, j int) Vec { return Vec{g.Xs[i], g.Ys[j]} }

// Eval samples f on every grid point.
func (g Grid) Eval(f Func2) Field {
	nx, ny := g.Dims()
	z := make([]float64, nx*ny)
	for j, y := range g.Ys {
		for i, x := range g.Xs {
			z[j*nx+i] = f(x, y)
		}
	}
	return Field{Grid: g, Z: z}
}

// Locate returns the indices of the sample nearest to (x, y) and whether
// the point lies inside the sampled rectangle.
func (g Grid) Locate(x, y float64) (i, j int, ok bool) {
	nx, ny := g.Dims()
	if nx == 0 || ny == 0 {
		return 0, 0, false
	}
	if x < g.Xs[0] || x > g.Xs[nx-1] || y < g.Ys[0] || y > g.Ys[ny-1] {
		return 0, 0, false
	}
	return nearest(g.Xs, x), nearest(g.Ys, y), true
}

func nearest(s []float64, v float64) int {
	k := sort.SearchFloat64s(s, v)
	if k == len(s) {
		return k - 1
	}
	if k > 0 && v-s[k-1] <= s[k]-v {
		return k - 1
	}
	return k
}

// Field is a scalar field sampled on a Grid.
type Field struct {
	Grid
	Z []float64
}

// At returns the sample at column i, row j.
func (f Field) At(i, j int) float64 { return f.Z[j*len(f.Xs)+i] }

// Mask marks the samples where pred holds.
func (f Field) Mask(pred func(z float64) bool) Mask {
	in := make([]bool, len(f.Z))
	for k, z := range f.Z {
		in[k] = pred(z)
	}
	return Mask{Grid: f.Grid, In: in}
}

// NonNeg marks {z ≥ 0}.
func (f Field) NonNeg() Mask { return f.Mask(func(z float64) bool { return z >= 0 }) }

// NonPos marks {z ≤ 0}.
func (f Field) NonPos() Mask { return f.Mask(func(z float64) bool { return z <= 0 }) }

// Mask is a boolean region sampled on a Grid.
type Mask struct {
	Grid
	In []bool
}

// At reports whether the sample at column i, row j is inside.
func (m Mask) At(i, j int) bool { return m.In[j*len(m.Xs)+i] }

// And intersects two masks on the same grid.
func (m Mask) And(o Mask) Mask { return m.combine(o, func(a, b bool) bool { return a && b }) }

// Or unites two masks on the same grid.
func (m Mask) Or(o Mask) Mask { return m.combine(o, func(a, b bool) bool { return a || b }) }

// Not complements the mask.
func (m Mask) Not() Mask {
	in := make([]bool, len(m.In))
	for k, v := range m.In {
		in[k] = !v
	}
	return Mask{Grid: m.Grid, In: in}
}

func (m Mask) combine(o Mask, op func(a, b bool) bool) Mask {
	if len(m.In) != len(o.In) {
		panic("geom: masks sampled on different grids")
	}
	in := make([]bool, len(m.In))
	for k := range in {
		in[k] = op(m.In[k], o.In[k])
	}
	return Mask{Grid: m.Grid, In: in}
}

// Contains reports whether the sample nearest to (x, y) is inside.
func (m Mask) Contains(x, y float64) bool {
	i, j, ok := m.Locate(x, y)
	return ok && m.At(i, j)
}

// Count returns the number of samples inside.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.In {
		if v {
			n++
		}
	}
	return n
}
