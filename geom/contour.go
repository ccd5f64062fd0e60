// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// edge identifies a lattice edge: the horizontal edge (i,j)-(i+1,j)
// or the vertical edge (i,j)-(i,j+1).
type edge struct {
	i, j     int
	vertical bool
}

// Cell edges in counter-clockwise order starting at the bottom.
const (
	bottom = iota
	right
	top
	left
)

// cases lists the edge pairs cut by the level set for each corner
// configuration, bit k set when corner k lies above the level. Corners are
// numbered counter-clockwise from the bottom left. The ambiguous saddles 5
// and 10 are resolved separately.
var cases = [16][][2]int{
	1:  {{left, bottom}},
	2:  {{bottom, right}},
	3:  {{left, right}},
	4:  {{right, top}},
	6:  {{bottom, top}},
	7:  {{left, top}},
	8:  {{top, left}},
	9:  {{bottom, top}},
	11: {{right, top}},
	12: {{left, right}},
	13: {{bottom, right}},
	14: {{left, bottom}},
}

// Contour extracts the level set {z = level} of a sampled field by marching
// squares. Segments are chained into polylines; closed loops repeat their
// first vertex at the end. The output order is deterministic.
func Contour(f Field, level float64) []Polyline {
	nx, ny := f.Dims()
	var segs [][2]edge

	for j := 0; j+1 < ny; j++ {
		for i := 0; i+1 < nx; i++ {
			z := [4]float64{f.At(i, j), f.At(i+1, j), f.At(i+1, j+1), f.At(i, j+1)}
			c := 0
			for k, v := range z {
				if v > level {
					c |= 1 << k
				}
			}
			pairs := cases[c]
			switch c {
			case 5, 10:
				center := (z[0]+z[1]+z[2]+z[3])/4 > level
				if (c == 5) == center {
					pairs = [][2]int{{bottom, right}, {top, left}}
				} else {
					pairs = [][2]int{{left, bottom}, {right, top}}
				}
			}
			for _, p := range pairs {
				segs = append(segs, [2]edge{cellEdge(i, j, p[0]), cellEdge(i, j, p[1])})
			}
		}
	}

	return chain(f, level, segs)
}

func cellEdge(i, j, side int) edge {
	switch side {
	case bottom:
		return edge{i, j, false}
	case right:
		return edge{i + 1, j, true}
	case top:
		return edge{i, j + 1, false}
	default:
		return edge{i, j, true}
	}
}

// chain joins segments sharing an edge into maximal polylines.
func chain(f Field, level float64, segs [][2]edge) []Polyline {
	adj := make(map[edge][]int, 2*len(segs))
	for k, s := range segs {
		adj[s[0]] = append(adj[s[0]], k)
		adj[s[1]] = append(adj[s[1]], k)
	}
	used := make([]bool, len(segs))

	// walk follows unused segments from e and returns the edges visited after e.
	walk := func(e edge) []edge {
		var path []edge
		for {
			next := -1
			for _, k := range adj[e] {
				if !used[k] {
					next = k
					break
				}
			}
			if next < 0 {
				return path
			}
			used[next] = true
			if s := segs[next]; s[0] == e {
				e = s[1]
			} else {
				e = s[0]
			}
			path = append(path, e)
		}
	}

	var lines []Polyline
	for k, s := range segs {
		if used[k] {
			continue
		}
		used[k] = true
		fwd := walk(s[1])
		bwd := walk(s[0])

		keys := make([]edge, 0, len(bwd)+len(fwd)+2)
		for i := len(bwd) - 1; i >= 0; i-- {
			keys = append(keys, bwd[i])
		}
		keys = append(keys, s[0], s[1])
		keys = append(keys, fwd...)

		line := make(Polyline, len(keys))
		for i, e := range keys {
			line[i] = crossing(f, level, e)
		}
		lines = append(lines, line)
	}
	return lines
}

// crossing linearly interpolates the point on e where the field meets level.
func crossing(f Field, level float64, e edge) Vec {
	i1, j1 := e.i+1, e.j
	if e.vertical {
		i1, j1 = e.i, e.j+1
	}
	za, zb := f.At(e.i, e.j), f.At(i1, j1)
	t := 0.5
	if zb != za {
		t = (level - za) / (zb - za)
	}
	return f.Point(e.i, e.j).Lerp(f.Point(i1, j1), t)
}
