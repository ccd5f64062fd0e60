// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"

	"github.com/curioloop/cqplot/geom"
)

func TestHex(t *testing.T) {
	c, err := Hex("#c62828")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}, c)

	c, err = Hex("0d47a180")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = Hex("#12345")
	assert.Error(t, err)
	_, err = Hex("#zzzzzz")
	assert.Error(t, err)

	assert.Equal(t, uint8(128), Alpha(MustHex("#ffffff"), 0.5).A)
}

func TestStyle(t *testing.T) {
	for _, tf := range []string{"Liberation", "Go"} {
		st, err := NewStyle(tf, "Sans")
		require.NoError(t, err, tf)
		s := st.Text(10, Black, Bold, Italic)
		assert.Greater(t, float64(s.Width("LICQ")), 0.0, tf)
	}
	_, err := NewStyle("Comic", "Sans")
	assert.Error(t, err)

	st := DefaultStyle()
	s := st.Text(10, Black, Rotate(90))
	assert.InDelta(t, math.Pi/2, s.Rotation, 1e-12)
}

func sample(st Style) *Figure {
	f := NewFigure(4, 3, st)
	f.Title = "Sample"
	f.Caption = "caption line"
	f.CaptionFill = MustHex("#ffffe0")

	p := f.Panel("left")
	p.Limits(-1, 1, -1, 1)
	p.Fill(geom.WedgeDeg(geom.Vec{}, 10, 80, 0.8).Polygon(32), MustHex("#bbdefb"))
	p.Stroke(geom.Circle(geom.Vec{}, 0.9, 64), Dashed(MustHex("#1565c0"), 1))
	a := p.Arrow(geom.Vec{}, geom.V(0.5, 0.5), Line(MustHex("#c62828"), 2))
	p.Dot(geom.Vec{}, Black, 3).Hollow = true
	p.Note(geom.V(0, -0.6), "x*\nnote", st.Text(NoteSize, Black), White, Line(Black, 0.5))

	q := f.Panel("right")
	q.ShowAxes("x", "y")
	g := geom.NewGrid(-1, 1, -1, 1, 40)
	q.Region(g.Eval(func(x, y float64) float64 { return x*x + y*y - 0.5 }).NonPos(), Alpha(MustHex("#2980b9"), 0.4))
	q.Box(geom.V(-0.8, -0.8), geom.V(-0.2, -0.4), MustHex("#e3f2fd"), Line(MustHex("#1565c0"), 1), 4)

	f.AddLegend("gradient", a)
	return f
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")

	for range 2 {
		f := sample(DefaultStyle())
		require.NoError(t, f.Save(path, 50))

		file, err := os.Open(path)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(file)
		file.Close()
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, 150, cfg.Height)
	}
}

func TestVectorFormats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample(DefaultStyle()).WriteTo(&buf, "svg", 0))
	assert.True(t, strings.Contains(buf.String(), "<svg"))

	// bold title, italic note and a shaded region
	for _, tf := range []string{"Liberation", "Go"} {
		st, err := NewStyle(tf, "Sans")
		require.NoError(t, err)
		f := sample(st)
		f.Panels[0].Text(geom.V(0, 0.6), "∇G", st.Text(LabelSize, Black, Bold, Italic))
		buf.Reset()
		require.NoError(t, f.WriteTo(&buf, "pdf", 0), tf)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), tf)
	}
}

func TestFormats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, sample(DefaultStyle()).WriteTo(&buf, format, 20))
			assert.NotZero(t, buf.Len())
		})
	}
	var buf bytes.Buffer
	assert.ErrorIs(t, sample(DefaultStyle()).WriteTo(&buf, "eps", 20), ErrFormat)
}

func TestRasterDPI(t *testing.T) {
	var buf bytes.Buffer
	for _, dpi := range []float64{0, 0.5, -72} {
		assert.ErrorContains(t, sample(DefaultStyle()).WriteTo(&buf, "png", dpi), "invalid dpi")
	}
	assert.Zero(t, buf.Len())
}

type brokenPlotter struct{}

func (brokenPlotter) Plot(draw.Canvas, *plot.Plot) { panic("not implemented") }

func TestDrawPanic(t *testing.T) {
	f := sample(DefaultStyle())
	f.Panels[1].Plot.Add(brokenPlotter{})
	var buf bytes.Buffer
	err := f.WriteTo(&buf, "svg", 0)
	assert.ErrorContains(t, err, "draw svg: not implemented")
}

func TestUnknownFormat(t *testing.T) {
	f := sample(DefaultStyle())
	var buf bytes.Buffer
	assert.ErrorIs(t, f.WriteTo(&buf, "bmp", 300), ErrFormat)

	path := filepath.Join(t.TempDir(), "sample.bmp")
	assert.ErrorIs(t, f.Save(path, 300), ErrFormat)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed save leaves no file")

	assert.ErrorIs(t, f.Save(filepath.Join(t.TempDir(), "noext"), 300), ErrFormat)
}

func TestPanelErr(t *testing.T) {
	f := NewFigure(2, 2, DefaultStyle())
	p := f.Panel("")
	assert.Nil(t, p.Stroke(geom.Polyline{{X: math.NaN()}, {X: 1}}, Line(Black, 1)))
	require.Error(t, f.Err())

	var buf bytes.Buffer
	assert.Error(t, f.WriteTo(&buf, "png", 50))
}

func TestMaskImage(t *testing.T) {
	g := geom.NewGrid(0, 3, 0, 3, 4)
	m := g.Eval(func(x, y float64) float64 { return y }).Mask(func(z float64) bool { return z == 0 })

	p := NewPanel("", DefaultStyle())
	img := p.maskImage(m, Black)
	require.NotNil(t, img)
	xmin, xmax, ymin, ymax := img.DataRange()
	assert.InDelta(t, -0.5, xmin, 1e-12)
	assert.InDelta(t, 3.5, xmax, 1e-12)
	assert.InDelta(t, -0.5, ymin, 1e-12)
	assert.InDelta(t, 3.5, ymax, 1e-12)

	assert.NoError(t, p.Err())
	tiny := geom.NewGrid(0, 1, 0, 1, 1).Eval(func(x, y float64) float64 { return 0 }).NonPos()
	assert.Nil(t, p.Region(tiny, Black))
	assert.Error(t, p.Err())
}
