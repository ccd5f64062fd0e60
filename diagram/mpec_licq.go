// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"fmt"
	"image/color"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var mpecLICQ = &Diagram{
	Name:   "mpec_licq",
	Title:  "MPEC-LICQ: gradients selected by index set",
	Build:  buildMPECLICQ,
	Checks: checkMPECLICQ,
}

// licqPairs has one linear complementarity pair per index set at the origin.
func licqPairs() []cq.Pair {
	lin := func(name string, a, b, c float64) cq.Constraint {
		return cq.Constraint{
			Name: name,
			F:    func(x, y float64) float64 { return a*x + b*y + c },
			Grad: func(x, y float64) geom.Vec { return geom.V(a, b) },
		}
	}
	return []cq.Pair{
		{Name: "zero-plus", G: lin("G1", 1, 0, 0), H: lin("H1", 0, 1, 1)},
		{Name: "plus-zero", G: lin("G2", 1, 0, 1), H: lin("H2", 0, 1, 0)},
		{Name: "biactive", G: lin("G3", 1, 1, 0), H: lin("H3", 1, -1, 0)},
	}
}

// indexBox is one column of the figure: which gradients of a pair in the
// given index set enter MPEC-LICQ.
type indexBox struct {
	Index       cq.Index
	Title, Cond string
	Sub         string
	Edge, Fill  color.Color
	UseG, UseH  bool
	Why1, Why2  string
}

var indexBoxStyle = map[cq.Index]indexBox{
	cq.ZeroPlus: {
		Title: "I0+", Cond: "Gᵢ(x*) = 0,  Hᵢ(x*) > 0",
		Edge: render.MustHex("#c62828"), Fill: render.MustHex("#ffebee"),
		Why1: "Hᵢ > 0 ⇒ constraint", Why2: "not active for H",
	},
	cq.PlusZero: {
		Title: "I+0", Cond: "Gᵢ(x*) > 0,  Hᵢ(x*) = 0",
		Edge: render.MustHex("#2e7d32"), Fill: render.MustHex("#e8f5e9"),
		Why1: "Gᵢ > 0 ⇒ constraint", Why2: "not active for G",
	},
	cq.Biactive: {
		Title: "I00", Cond: "Gᵢ(x*) = 0,  Hᵢ(x*) = 0", Sub: "(Biactive / Degenerate)",
		Edge: render.MustHex("#6a1b9a"), Fill: render.MustHex("#f3e5f5"),
		Why1: "Both constraints active", Why2: "⇒ both gradients needed",
	},
}

// indexBoxes classifies the sample pairs and records the selected gradients.
func indexBoxes(star geom.Vec) ([]indexBox, error) {
	pairs := licqPairs()
	boxes := make([]indexBox, len(pairs))
	for i, p := range pairs {
		idx := p.Classify(star, 1e-9)
		b, ok := indexBoxStyle[idx]
		if !ok {
			return nil, fmt.Errorf("pair %q is %v at %v", p.Name, idx, star)
		}
		b.Index = idx
		boxes[i] = b
	}
	for _, s := range cq.MPECLICQGradients(pairs, star, 1e-9) {
		if s.Of == "G" {
			boxes[s.Pair].UseG = true
		} else {
			boxes[s.Pair].UseH = true
		}
	}
	return boxes, nil
}

func checkMPECLICQ() ([]Check, error) {
	star := geom.Vec{}
	boxes, err := indexBoxes(star)
	if err != nil {
		return nil, err
	}
	want := []struct {
		idx        cq.Index
		useG, useH bool
	}{
		{cq.ZeroPlus, true, false},
		{cq.PlusZero, false, true},
		{cq.Biactive, true, true},
	}
	var checks []Check
	for i, w := range want {
		b := boxes[i]
		checks = append(checks, check(fmt.Sprintf("%v selects G=%t H=%t", w.idx, w.useG, w.useH),
			b.Index == w.idx && b.UseG == w.useG && b.UseH == w.useH, "got %v G=%t H=%t", b.Index, b.UseG, b.UseH))
	}
	pairs := licqPairs()
	checks = append(checks,
		check("biactive pair satisfies MPEC-LICQ", cq.MPECLICQ(pairs[2:], nil, star, 1e-9), "∇G₃, ∇H₃ independent"),
		check("all pairs together violate MPEC-LICQ", !cq.MPECLICQ(pairs, nil, star, 1e-9), "four gradients in the plane"),
	)
	return checks, nil
}

func buildMPECLICQ(st render.Style) (*render.Figure, error) {
	boxes, err := indexBoxes(geom.Vec{})
	if err != nil {
		return nil, err
	}
	var (
		included = render.MustHex("#1565c0")
		excluded = silver
		charcoal = render.MustHex("#424242")
	)
	inc, exc := render.Line(included, 2.5), render.Dashed(excluded, 2)

	f := render.NewFigure(14, 10, st)
	p := f.Panel("")
	p.Limits(0, 14, 0, 10)
	p.Legend.Left = false
	p.Legend.TextStyle = st.Text(10, render.Black, flushLeft)

	p.Text(geom.V(7, 9.5), "MPEC-LICQ Structure", st.Text(18, ink, render.Bold))
	p.Text(geom.V(7, 8.8), "Complementarity: 0 ≤ G(x) ⊥ H(x) ≥ 0", st.Text(13, steel))

	const (
		bw, bh = 3.8, 5.5
		by     = 2.0
	)
	for i, b := range boxes {
		x := 0.8 + 4.3*float64(i)
		top, mid := by+bh, x+bw/2
		p.Box(geom.V(x, by), geom.V(x+bw, top), render.Alpha(b.Fill, 0.9), render.Line(b.Edge, 2), 12)
		p.Text(geom.V(mid, top-0.4), b.Title, st.Text(16, b.Edge, render.Bold))
		p.Text(geom.V(mid, top-0.9), b.Cond, st.Text(10, charcoal))
		y := top - 1.6
		if b.Sub != "" {
			p.Text(geom.V(mid, top-1.2), b.Sub, italic(st, 9, b.Edge))
			y = top - 1.8
		}
		for _, g := range []struct {
			name string
			use  bool
		}{{"∇Gᵢ(x*)", b.UseG}, {"∇Hᵢ(x*)", b.UseH}} {
			ls, clr, mark, name := exc, excluded, "× Excluded", st.Text(11, excluded)
			if g.use {
				ls, clr, mark, name = inc, included, "Included", st.Text(11, included, render.Bold)
			}
			p.Arrow(geom.V(x+1.2, y), geom.V(x+2.8, y), ls)
			p.Text(geom.V(x+2, y+0.35), g.name, name)
			p.Text(geom.V(x+2, y-0.4), mark, st.Text(9, clr))
			y -= 1.4
		}
		p.Text(geom.V(mid, by+0.6), b.Why1, italic(st, 9, gray))
		p.Text(geom.V(mid, by+0.25), b.Why2, italic(st, 9, gray))
	}

	p.Box(geom.V(1.5, 0.3), geom.V(12.5, 1.7), render.Alpha(render.MustHex("#e3f2fd"), 0.95), render.Line(included, 2), 9)
	p.Text(geom.V(7, 1.35), "MPEC-LICQ: The following gradients are linearly independent:",
		st.Text(11, render.MustHex("#0d47a1"), render.Bold))
	p.Text(geom.V(7, 0.75), "{∇Gᵢ(x*) : i ∈ I0+ ∪ I00}  ∪  {∇Hᵢ(x*) : i ∈ I+0 ∪ I00}",
		st.Text(12, render.MustHex("#1a237e")))

	p.AddLegend("Included in MPEC-LICQ", legendArrow(inc))
	p.AddLegend("Excluded (not active)", legendArrow(exc))
	return f, f.Err()
}
