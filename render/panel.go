// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/geom"
)

var errTinyMask = errors.New("region mask needs at least 2×2 samples")

// Panel is one plot of a figure. Helper methods record the first plotter
// construction error, reported by Err.
type Panel struct {
	*plot.Plot

	// Equal keeps one data unit the same length on both axes.
	Equal bool

	style  Style
	limits *[4]float64
	err    error
}

// NewPanel returns a panel with hidden axes and styled title.
func NewPanel(title string, st Style) *Panel {
	p := &Panel{Plot: plot.New(), Equal: true, style: st}
	p.Title.Text = title
	p.Title.TextStyle = st.Text(PanelSize, Black, Bold)
	p.Title.Padding = vg.Points(6)
	p.Legend.TextStyle = st.Text(LegendSize, Black, Align(draw.XLeft, draw.YCenter))
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = vg.Points(3)
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	return p
}

// ShowAxes draws the left and bottom axes with tick labels and a subtle grid.
func (p *Panel) ShowAxes(xlabel, ylabel string) {
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Width = vg.Points(1.2)
		ax.Padding = vg.Points(2)
		ax.Tick.Length = vg.Points(4)
		ax.Tick.Marker = plot.DefaultTicks{}
		ax.Tick.Label = p.style.Text(9, Black)
		ax.Label.TextStyle = p.style.Text(LabelSize, Black)
	}
	p.X.Tick.Label.YAlign = draw.YTop
	p.Y.Tick.Label.XAlign = draw.XRight
	p.Y.Label.TextStyle.Rotation = math.Pi / 2
	p.X.Label.Text, p.Y.Label.Text = xlabel, ylabel

	g := plotter.NewGrid()
	g.Vertical = Line(Alpha(MustHex("#666666"), 0.15), 0.5)
	g.Horizontal = g.Vertical
	p.Add(g)
}

// Limits fixes the visible data range. Plotters added later do not widen it.
func (p *Panel) Limits(xmin, xmax, ymin, ymax float64) {
	p.limits = &[4]float64{xmin, xmax, ymin, ymax}
}

// Err returns the first plotter construction error.
func (p *Panel) Err() error { return p.err }

func (p *Panel) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Fill adds a filled polygon; edge, when given, outlines it.
func (p *Panel) Fill(poly geom.Polyline, clr color.Color, edge ...draw.LineStyle) *plotter.Polygon {
	pg, err := plotter.NewPolygon(poly)
	if err != nil {
		p.fail(err)
		return nil
	}
	pg.Color = clr
	pg.LineStyle.Width = 0
	if len(edge) > 0 {
		pg.LineStyle = edge[0]
	}
	p.Add(pg)
	return pg
}

// Stroke adds a polyline.
func (p *Panel) Stroke(line geom.Polyline, ls draw.LineStyle) *plotter.Line {
	l, err := plotter.NewLine(line)
	if err != nil {
		p.fail(err)
		return nil
	}
	l.LineStyle = ls
	p.Add(l)
	return l
}

// Arrow adds an arrow from tail to head.
func (p *Panel) Arrow(tail, head geom.Vec, ls draw.LineStyle) *Arrow {
	a := NewArrow(tail, head, ls)
	p.Add(a)
	return a
}

// Dot adds a circular marker of radius r points.
func (p *Panel) Dot(at geom.Vec, clr color.Color, r float64) *Dot {
	d := &Dot{At: at, Color: clr, Radius: vg.Points(r)}
	p.Add(d)
	return d
}

// Text adds unboxed text anchored at a data point.
func (p *Panel) Text(at geom.Vec, txt string, sty text.Style) *Note {
	n := &Note{At: at, Text: txt, TextStyle: sty}
	p.Add(n)
	return n
}

// Note adds boxed text anchored at a data point.
func (p *Panel) Note(at geom.Vec, txt string, sty text.Style, fill color.Color, edge draw.LineStyle) *Note {
	n := &Note{At: at, Text: txt, TextStyle: sty, Fill: fill, Edge: edge, Round: vg.Points(4)}
	p.Add(n)
	return n
}

// Box adds a rounded rectangle spanning [lo, hi] in data coordinates.
func (p *Panel) Box(lo, hi geom.Vec, fill color.Color, edge draw.LineStyle, round float64) *Box {
	b := &Box{Min: lo, Max: hi, Fill: fill, Edge: edge, Round: vg.Points(round)}
	p.Add(b)
	return b
}

// Region shades the cells of m as a translucent image.
func (p *Panel) Region(m geom.Mask, clr color.Color) *plotter.Image {
	img := p.maskImage(m, clr)
	if img == nil {
		return nil
	}
	p.Add(img)
	return img
}

func (p *Panel) maskImage(m geom.Mask, clr color.Color) *plotter.Image {
	nx, ny := m.Dims()
	if nx < 2 || ny < 2 {
		p.fail(errTinyMask)
		return nil
	}
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	img := image.NewNRGBA(image.Rect(0, 0, nx, ny))
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if m.At(i, j) {
				// image rows run top-down
				img.SetNRGBA(i, ny-1-j, c)
			}
		}
	}
	dx := (m.Xs[nx-1] - m.Xs[0]) / float64(nx-1) / 2
	dy := (m.Ys[ny-1] - m.Ys[0]) / float64(ny-1) / 2
	return plotter.NewImage(img, m.Xs[0]-dx, m.Ys[0]-dy, m.Xs[nx-1]+dx, m.Ys[ny-1]+dy)
}

// AddLegend adds an entry to the panel's own legend.
func (p *Panel) AddLegend(label string, thumbs ...plot.Thumbnailer) {
	p.Legend.Add(label, thumbs...)
}

func (p *Panel) draw(c draw.Canvas) {
	if l := p.limits; l != nil {
		p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = l[0], l[1], l[2], l[3]
	}
	if p.Equal {
		p.equalize(p.DataCanvas(c))
	}
	p.Plot.Draw(c)
}

// equalize widens the shorter data range around its center so both axes
// share one scale on dc.
func (p *Panel) equalize(dc draw.Canvas) {
	w, h := float64(dc.Max.X-dc.Min.X), float64(dc.Max.Y-dc.Min.Y)
	xr, yr := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min
	if w <= 0 || h <= 0 || xr <= 0 || yr <= 0 {
		return
	}
	if xr/yr < w/h {
		c, half := (p.X.Min+p.X.Max)/2, yr*w/h/2
		p.X.Min, p.X.Max = c-half, c+half
	} else {
		c, half := (p.Y.Min+p.Y.Max)/2, xr*h/w/2
		p.Y.Min, p.Y.Max = c-half, c+half
	}
}
