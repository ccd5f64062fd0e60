// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"fmt"
	"math"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var mpecHierarchy = &Diagram{
	Name:   "mpec_cq_hierarchy",
	Title:  "Hierarchy of MPEC constraint qualifications",
	Build:  buildHierarchy,
	Checks: checkHierarchy,
}

const (
	nodeWidth  = 2.2
	nodeHeight = 0.9
)

// hasse places every qualification on the row of its implication depth,
// spreading each row symmetrically around x = 5.
func hasse(h *cq.Hierarchy) (map[cq.Qualification]geom.Vec, error) {
	layers := h.Layers()
	if layers == nil {
		return nil, fmt.Errorf("implication graph has a cycle")
	}
	pos := make(map[cq.Qualification]geom.Vec)
	for i, row := range layers {
		y := 8.5 - 2*float64(i)
		for j, q := range row {
			x := 5.0
			if n := len(row); n > 1 {
				x = 3 + 4*float64(j)/float64(n-1)
			}
			pos[q] = geom.V(x, y)
		}
	}
	return pos, nil
}

func checkHierarchy() ([]Check, error) {
	h := cq.MPEC()
	layers := h.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("implication graph has a cycle")
	}
	top, bottom := layers[0], layers[len(layers)-1]
	return []Check{
		check("LICQ strongest", len(top) == 1 && top[0] == cq.QLICQ, "%v", top),
		check("GCQ weakest", len(bottom) == 1 && bottom[0] == cq.QGCQ, "%v", bottom),
		check("LICQ ⇒ GCQ", h.Implies(cq.QLICQ, cq.QGCQ), "both branches"),
		check("GCQ ⇏ LICQ", !h.Implies(cq.QGCQ, cq.QLICQ), "strict"),
		check("branches independent", !h.Implies(cq.QMFCQ, cq.QCRCQ) && !h.Implies(cq.QCRCQ, cq.QMFCQ),
			"MFCQ and CRCQ incomparable"),
	}, nil
}

func buildHierarchy(st render.Style) (*render.Figure, error) {
	h := cq.MPEC()
	pos, err := hasse(h)
	if err != nil {
		return nil, err
	}
	var (
		blue  = render.MustHex("#1565c0")
		muted = render.MustHex("#757575")
	)

	f := render.NewFigure(12, 10, st)
	p := f.Panel("")
	p.Limits(-1, 11, -0.5, 9.5)

	for _, e := range h.Edges() {
		a, b := pos[e.From], pos[e.To]
		d := b.Sub(a).Unit()
		off := nodeWidth/2 + 0.05
		if math.Abs(d.Y) > math.Abs(d.X) {
			off = nodeHeight/2 + 0.05
		}
		p.Arrow(a.Add(d.Scale(off)), b.Sub(d.Scale(off)), render.Line(steel, 1.8))
	}

	for _, q := range h.Nodes() {
		at := pos[q]
		fill, edge := render.MustHex("#e3f2fd"), blue
		switch q {
		case cq.QLICQ:
			fill, edge = render.MustHex("#bbdefb"), render.MustHex("#0d47a1")
		case cq.QGCQ:
			fill, edge = render.MustHex("#eceff1"), render.MustHex("#78909c")
		}
		half := geom.V(nodeWidth/2, nodeHeight/2)
		p.Box(at.Sub(half), at.Add(half), fill, render.Line(edge, 2), 9)
		p.Text(at.Add(geom.V(0, 0.05)), "MPEC-"+string(q), st.Text(12, ink, render.Bold))
		p.Text(at.Add(geom.V(0, -0.28)), q.FullName(), italic(st, 8, gray))
	}

	p.Text(geom.V(3.7, 7.6), "⇒", st.Text(10, muted, render.Rotate(-30)))
	p.Text(geom.V(6.3, 7.6), "⇒", st.Text(10, muted, render.Rotate(30)))

	p.Text(geom.V(5, 9.3), "Hierarchy of MPEC Constraint Qualifications", st.Text(16, ink, render.Bold))

	p.Arrow(geom.V(10, 8), geom.V(10, 3), render.Line(silver, 1.5))
	p.Text(geom.V(10, 8.3), "Stronger", italic(st, 9, muted))
	p.Text(geom.V(10, 2.7), "Weaker", italic(st, 9, muted))

	p.Note(geom.V(0.5, 1.2), "A → B: A implies B", st.Text(10, gray, flushLeft),
		render.Alpha(render.White, 0.9), render.Line(render.MustHex("#bdbdbd"), 1))
	p.Text(geom.V(2, 5.5), "Main\nBranch", italic(st, 8, render.Alpha(blue, 0.7)))
	p.Text(geom.V(8, 5.5), "Rank\nBranch", italic(st, 8, render.Alpha(blue, 0.7)))

	p.Text(geom.V(5, 0.5), "All implications are strict in general.\n"+
		"MPEC-LICQ is the strongest; MPEC-GCQ is the weakest.", italic(st, 9, muted))
	return f, f.Err()
}
