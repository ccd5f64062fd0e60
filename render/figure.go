// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Font sizes in points.
const (
	TitleSize   = 15
	PanelSize   = 13
	LabelSize   = 11
	NoteSize    = 9.5
	CaptionSize = 10
	LegendSize  = 9
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 300

var ErrFormat = errors.New("unsupported image format")

// Formats lists the accepted output formats. EPS is absent: its backend
// cannot draw the raster images behind shaded regions.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf"}

// LegendEntry is one item of a figure-level legend row.
type LegendEntry struct {
	Label string
	Thumb plot.Thumbnailer
}

// Figure is a titled grid of panels with an optional legend row and caption.
type Figure struct {
	Width, Height vg.Length
	Title         string
	Panels        []*Panel
	Cols          int // panels per row; all panels share one row when zero

	Legend      []LegendEntry
	Caption     string
	CaptionFill color.Color // boxed caption when set

	Style Style
}

// NewFigure returns an empty figure of w×h inches.
func NewFigure(w, h float64, st Style) *Figure {
	return &Figure{Width: vg.Length(w) * vg.Inch, Height: vg.Length(h) * vg.Inch, Style: st}
}

// Panel appends a new panel to the figure.
func (f *Figure) Panel(title string) *Panel {
	p := NewPanel(title, f.Style)
	f.Panels = append(f.Panels, p)
	return p
}

// AddLegend appends an entry to the legend row.
func (f *Figure) AddLegend(label string, thumb plot.Thumbnailer) {
	f.Legend = append(f.Legend, LegendEntry{Label: label, Thumb: thumb})
}

// Err returns the first error recorded by any panel.
func (f *Figure) Err() error {
	for i, p := range f.Panels {
		if err := p.Err(); err != nil {
			return fmt.Errorf("panel %d: %w", i, err)
		}
	}
	return nil
}

// Draw renders the figure onto c.
func (f *Figure) Draw(c draw.Canvas) {
	c.SetColor(White)
	c.Fill(c.Rectangle.Path())

	pad := vg.Points(8)
	if f.Title != "" {
		sty := f.Style.Text(TitleSize, Black, Bold, Align(draw.XCenter, draw.YTop))
		c.FillText(sty, vg.Point{X: c.Center().X, Y: c.Max.Y - pad}, f.Title)
		c = draw.Crop(c, 0, 0, 0, -(sty.Height(f.Title) + 2*pad))
	}
	if f.Caption != "" {
		c = f.drawCaption(c, pad)
	}
	if len(f.Legend) > 0 {
		c = f.drawLegend(c, pad)
	}
	if len(f.Panels) == 0 {
		return
	}

	cols := f.Cols
	if cols <= 0 {
		cols = len(f.Panels)
	}
	rows := (len(f.Panels) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
	}
	for i, p := range f.Panels {
		grid[i/cols][i%cols] = p.Plot
	}
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Points(18), PadY: vg.Points(18),
		PadTop: pad, PadBottom: pad, PadLeft: pad, PadRight: pad,
	}
	cs := plot.Align(grid, tiles, c)
	for i, p := range f.Panels {
		p.draw(cs[i/cols][i%cols])
	}
}

func (f *Figure) drawCaption(c draw.Canvas, pad vg.Length) draw.Canvas {
	sty := f.Style.Text(CaptionSize, Black, Align(draw.XCenter, draw.YBottom))
	at := vg.Point{X: c.Center().X, Y: c.Min.Y + 2*pad}
	if f.CaptionFill != nil {
		box := sty.Rectangle(f.Caption).Add(at)
		box.Min = box.Min.Sub(vg.Point{X: pad, Y: pad / 2})
		box.Max = box.Max.Add(vg.Point{X: pad, Y: pad / 2})
		c.SetColor(f.CaptionFill)
		c.Fill(roundedRect(box, pad/2))
		c.SetLineStyle(Line(Black, 0.6))
		c.Stroke(roundedRect(box, pad/2))
	}
	c.FillText(sty, at, f.Caption)
	return draw.Crop(c, 0, 0, sty.Height(f.Caption)+4*pad, 0)
}

// drawLegend lays the entries out in a single centered row.
func (f *Figure) drawLegend(c draw.Canvas, pad vg.Length) draw.Canvas {
	sty := f.Style.Text(LegendSize, Black, Align(draw.XLeft, draw.YCenter))
	thumb := vg.Points(22)
	gap := vg.Points(14)

	var total vg.Length
	for _, e := range f.Legend {
		total += thumb + pad/2 + sty.Width(e.Label) + gap
	}
	total -= gap
	h := max(sty.Height("M"), vg.Points(10))

	x := c.Center().X - total/2
	y := c.Min.Y + pad + h/2
	for _, e := range f.Legend {
		tc := draw.Canvas{Canvas: c.Canvas, Rectangle: vg.Rectangle{
			Min: vg.Point{X: x, Y: y - h/2},
			Max: vg.Point{X: x + thumb, Y: y + h/2},
		}}
		if e.Thumb != nil {
			e.Thumb.Thumbnail(&tc)
		}
		x += thumb + pad/2
		c.FillText(sty, vg.Point{X: x, Y: y}, e.Label)
		x += sty.Width(e.Label) + gap
	}
	return draw.Crop(c, 0, 0, h+2*pad, 0)
}

// WriteTo renders the figure in the given format. Raster formats use dpi;
// vector formats ignore it.
func (f *Figure) WriteTo(w io.Writer, format string, dpi float64) (err error) {
	if err := f.Err(); err != nil {
		return err
	}
	format = strings.ToLower(format)
	var cw vg.CanvasWriterTo
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		if dpi < 1 {
			return fmt.Errorf("invalid dpi %g", dpi)
		}
		img := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(int(dpi)))
		switch format {
		case "png":
			cw = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			cw = vgimg.JpegCanvas{Canvas: img}
		default:
			cw = vgimg.TiffCanvas{Canvas: img}
		}
	case "svg":
		cw = vgsvg.New(f.Width, f.Height)
	case "pdf":
		cw = pdfCanvas{vgpdf.New(f.Width, f.Height)}
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}

	// backends report unsupported operations by panicking
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw %s: %v", format, r)
		}
	}()
	f.Draw(draw.New(cw))
	_, err = cw.WriteTo(w)
	return err
}

// pdfCanvas draws every face with the regular style. vgpdf embeds each
// face under its own name with an empty style, so a bold or italic style
// suffix selects a font that was never added.
type pdfCanvas struct{ *vgpdf.Canvas }

func (c pdfCanvas) FillString(fnt font.Face, pt vg.Point, txt string) {
	fnt.Font.Style = xfont.StyleNormal
	fnt.Font.Weight = xfont.WeightNormal
	c.Canvas.FillString(fnt, pt, txt)
}

// Save writes the figure to path, choosing the format from its extension.
func (f *Figure) Save(path string, dpi float64) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("%w: %s has no extension", ErrFormat, path)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return f.WriteTo(file, format, dpi)
}
