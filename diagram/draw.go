// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

var (
	ink     = render.MustHex("#1a1a2e")
	slate   = render.MustHex("#2c3e50")
	steel   = render.MustHex("#37474f")
	gray    = render.MustHex("#616161")
	silver  = render.MustHex("#9e9e9e")
	paper   = render.MustHex("#fafafa")
	paleRed = render.MustHex("#ffcdd2")
)

// flushLeft anchors text at its left edge.
var flushLeft = render.Align(draw.XLeft, draw.YCenter)

// arcSamples is the vertex count used for wedge outlines.
const arcSamples = 64

// cone draws a filled wedge with arrow-tipped boundary rays.
func cone(p *render.Panel, w geom.Wedge, fill, edge color.Color, alpha, width float64) {
	p.Fill(w.Polygon(arcSamples), render.Alpha(fill, alpha))
	from, to := w.Rays()
	for _, r := range [...]geom.Vec{from, to} {
		tip := w.Origin.Add(r.Scale(w.Radius))
		p.Stroke(geom.Segment(w.Origin, tip), render.Line(edge, width))
		p.Arrow(w.Origin.Add(r.Scale(0.92*w.Radius)), tip, render.Line(edge, width))
	}
}

// outline strokes a wedge boundary without filling it.
func outline(p *render.Panel, w geom.Wedge, ls draw.LineStyle) {
	p.Stroke(w.Polygon(arcSamples), ls)
}

// point marks x* with a dot and a bold label offset from it.
func point(p *render.Panel, st render.Style, at, off geom.Vec, label string, size float64) {
	p.Dot(at, ink, 4.5)
	p.Text(at.Add(off), label, st.Text(size, ink, render.Bold))
}

// tag is a bold label in a white rounded box edged in its own color.
func tag(p *render.Panel, st render.Style, at geom.Vec, label string, clr color.Color, size float64) {
	p.Note(at, label, st.Text(size, clr, render.Bold), render.Alpha(render.White, 0.95), render.Line(clr, 1.5))
}

// plate is a bold label on an unedged white backing, rotated to follow a curve.
func plate(p *render.Panel, st render.Style, at geom.Vec, label string, clr color.Color, deg float64) {
	sty := st.Text(render.LabelSize, clr, render.Bold, render.Rotate(deg))
	if deg != 0 {
		// note boxes are axis-aligned
		p.Text(at, label, sty)
		return
	}
	p.Note(at, label, sty, render.Alpha(render.White, 0.9), draw.LineStyle{})
}

// explain draws a left/top anchored multi-line note box.
func explain(p *render.Panel, st render.Style, at geom.Vec, body string, fill color.Color) {
	p.Note(at, body, st.Text(render.NoteSize, ink, render.Align(draw.XLeft, draw.YTop)), fill, render.Line(slate, 1.5))
}

// italic is a muted italic annotation.
func italic(st render.Style, size float64, clr color.Color, opts ...render.TextOpt) text.Style {
	return st.Text(size, clr, append([]render.TextOpt{render.Italic}, opts...)...)
}

// swatch is a legend thumbnail for a filled area.
func swatch(fill color.Color) *render.Box {
	return &render.Box{Fill: fill, Edge: render.Line(render.Alpha(render.Black, 0.3), 0.5)}
}

// legendLine is a legend thumbnail for a stroked curve.
func legendLine(ls draw.LineStyle) *plotter.Line {
	return &plotter.Line{LineStyle: ls}
}

// legendArrow is a legend thumbnail for an arrow style.
func legendArrow(ls draw.LineStyle) *render.Arrow {
	return render.NewArrow(geom.Vec{}, geom.V(1, 0), ls)
}

// deg converts radians to degrees in [0, 360).
func deg(rad float64) float64 {
	d := math.Mod(rad*180/math.Pi, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func polarRange(w geom.Wedge) string {
	return fmt.Sprintf("polar cone spans [%.0f°, %.0f°]", deg(w.From), deg(w.From)+deg(w.Span()))
}
