// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/geom"
)

var (
	_ plot.Plotter     = (*Arrow)(nil)
	_ plot.Thumbnailer = (*Arrow)(nil)
	_ plot.Plotter     = (*Dot)(nil)
	_ plot.Thumbnailer = (*Dot)(nil)
	_ plot.Plotter     = (*Note)(nil)
	_ plot.Plotter     = (*Box)(nil)
	_ plot.Thumbnailer = (*Box)(nil)
)

// Arrow is a straight shaft ending in a filled triangular head. The head
// is sized in points so it looks the same at every data scale.
type Arrow struct {
	Tail, Head geom.Vec
	draw.LineStyle

	HeadLength vg.Length
	HeadWidth  vg.Length
}

// NewArrow returns an arrow with a head proportional to the line width.
func NewArrow(tail, head geom.Vec, ls draw.LineStyle) *Arrow {
	w := max(ls.Width, vg.Points(1))
	return &Arrow{Tail: tail, Head: head, LineStyle: ls, HeadLength: 5 * w, HeadWidth: 4 * w}
}

// Plot implements plot.Plotter.
func (a *Arrow) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	tail := vg.Point{X: trX(a.Tail.X), Y: trY(a.Tail.Y)}
	head := vg.Point{X: trX(a.Head.X), Y: trY(a.Head.Y)}
	a.draw(c, tail, head)
}

func (a *Arrow) draw(c draw.Canvas, tail, head vg.Point) {
	d := head.Sub(tail)
	n := vg.Length(math.Hypot(float64(d.X), float64(d.Y)))
	if n == 0 {
		return
	}
	u := vg.Point{X: d.X / n, Y: d.Y / n}
	hl := min(a.HeadLength, n)
	base := head.Sub(u.Scale(hl))
	side := vg.Point{X: -u.Y, Y: u.X}.Scale(a.HeadWidth / 2)

	c.StrokeLines(a.LineStyle, c.ClipLinesXY([]vg.Point{tail, base})...)
	tri := c.ClipPolygonXY([]vg.Point{head, base.Add(side), base.Sub(side)})
	c.FillPolygon(a.Color, tri)
}

// Thumbnail implements plot.Thumbnailer.
func (a *Arrow) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	a.draw(*c, vg.Point{X: c.Min.X, Y: y}, vg.Point{X: c.Max.X, Y: y})
}

// Dot is a filled circle, optionally with a white core.
type Dot struct {
	At     geom.Vec
	Color  color.Color
	Radius vg.Length
	Hollow bool
	Edge   color.Color
}

// Plot implements plot.Plotter.
func (d *Dot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	pt := vg.Point{X: trX(d.At.X), Y: trY(d.At.Y)}
	if !c.Contains(pt) {
		return
	}
	d.draw(c, pt)
}

func (d *Dot) draw(c draw.Canvas, pt vg.Point) {
	if d.Edge != nil {
		c.DrawGlyph(draw.GlyphStyle{Color: d.Edge, Radius: d.Radius + vg.Points(1), Shape: draw.CircleGlyph{}}, pt)
	}
	c.DrawGlyph(draw.GlyphStyle{Color: d.Color, Radius: d.Radius, Shape: draw.CircleGlyph{}}, pt)
	if d.Hollow {
		c.DrawGlyph(draw.GlyphStyle{Color: White, Radius: d.Radius / 2, Shape: draw.CircleGlyph{}}, pt)
	}
}

// Thumbnail implements plot.Thumbnailer.
func (d *Dot) Thumbnail(c *draw.Canvas) { d.draw(*c, c.Center()) }

// Note is text anchored at a data point, optionally inside a filled box.
// Multi-line text is split on newlines.
type Note struct {
	At        geom.Vec
	Text      string
	TextStyle text.Style

	Fill  color.Color
	Edge  draw.LineStyle
	Pad   vg.Length
	Round vg.Length
}

// Plot implements plot.Plotter.
func (n *Note) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	pt := vg.Point{X: trX(n.At.X), Y: trY(n.At.Y)}
	if n.Fill != nil || n.Edge.Width > 0 {
		pad := n.Pad
		if pad == 0 {
			pad = n.TextStyle.Font.Size / 2
		}
		box := n.TextStyle.Rectangle(n.Text).Add(pt)
		box.Min = box.Min.Sub(vg.Point{X: pad, Y: pad})
		box.Max = box.Max.Add(vg.Point{X: pad, Y: pad})
		path := roundedRect(box, n.Round)
		if n.Fill != nil {
			c.SetColor(n.Fill)
			c.Fill(path)
		}
		if n.Edge.Width > 0 {
			c.SetLineStyle(n.Edge)
			c.Stroke(path)
		}
	}
	c.FillText(n.TextStyle, pt, n.Text)
}

// Box is a rectangle in data coordinates with rounded corners in points.
type Box struct {
	Min, Max geom.Vec
	Fill     color.Color
	Edge     draw.LineStyle
	Round    vg.Length
}

// Plot implements plot.Plotter.
func (b *Box) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	b.draw(c, vg.Rectangle{
		Min: vg.Point{X: trX(b.Min.X), Y: trY(b.Min.Y)},
		Max: vg.Point{X: trX(b.Max.X), Y: trY(b.Max.Y)},
	})
}

func (b *Box) draw(c draw.Canvas, r vg.Rectangle) {
	path := roundedRect(r, b.Round)
	if b.Fill != nil {
		c.SetColor(b.Fill)
		c.Fill(path)
	}
	if b.Edge.Width > 0 {
		c.SetLineStyle(b.Edge)
		c.Stroke(path)
	}
}

// Thumbnail implements plot.Thumbnailer.
func (b *Box) Thumbnail(c *draw.Canvas) { b.draw(*c, c.Rectangle) }

// roundedRect outlines r with corner radius rad, clamped to half its size.
func roundedRect(r vg.Rectangle, rad vg.Length) vg.Path {
	sz := r.Size()
	rad = min(rad, sz.X/2, sz.Y/2)
	if rad <= 0 {
		return r.Path()
	}
	var p vg.Path
	p.Move(vg.Point{X: r.Min.X + rad, Y: r.Min.Y})
	p.Line(vg.Point{X: r.Max.X - rad, Y: r.Min.Y})
	p.Arc(vg.Point{X: r.Max.X - rad, Y: r.Min.Y + rad}, rad, -math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: r.Max.X, Y: r.Max.Y - rad})
	p.Arc(vg.Point{X: r.Max.X - rad, Y: r.Max.Y - rad}, rad, 0, math.Pi/2)
	p.Line(vg.Point{X: r.Min.X + rad, Y: r.Max.Y})
	p.Arc(vg.Point{X: r.Min.X + rad, Y: r.Max.Y - rad}, rad, math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: r.Min.X, Y: r.Min.Y + rad})
	p.Arc(vg.Point{X: r.Min.X + rad, Y: r.Min.Y + rad}, rad, math.Pi, math.Pi/2)
	p.Close()
	return p
}
