// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws diagram figures with gonum/plot: panels of filled
// regions, strokes, arrows, markers and boxed annotations, saved as raster
// or vector images.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Typefaces available to a Style.
const (
	Liberation font.Typeface = "Liberation"
	GoFont     font.Typeface = "Go"
)

// goFaces parses the Go font family once. Variants mirror Liberation's
// naming so that a configured variant works with either typeface.
var goFaces = sync.OnceValues(func() (font.Collection, error) {
	type ttf struct {
		variant font.Variant
		style   xfont.Style
		weight  xfont.Weight
		data    []byte
	}
	var coll font.Collection
	for _, f := range []ttf{
		{"Sans", xfont.StyleNormal, xfont.WeightNormal, goregular.TTF},
		{"Sans", xfont.StyleNormal, xfont.WeightBold, gobold.TTF},
		{"Sans", xfont.StyleItalic, xfont.WeightNormal, goitalic.TTF},
		{"Sans", xfont.StyleItalic, xfont.WeightBold, gobolditalic.TTF},
		{"Mono", xfont.StyleNormal, xfont.WeightNormal, gomono.TTF},
		{"Mono", xfont.StyleNormal, xfont.WeightBold, gomonobold.TTF},
		{"Mono", xfont.StyleItalic, xfont.WeightNormal, gomonoitalic.TTF},
		{"Mono", xfont.StyleItalic, xfont.WeightBold, gomonobolditalic.TTF},
	} {
		face, err := opentype.Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("parse go font %s: %w", f.variant, err)
		}
		coll = append(coll, font.Face{
			Font: font.Font{Typeface: GoFont, Variant: f.variant, Style: f.style, Weight: f.weight},
			Face: face,
		})
	}
	return coll, nil
})

// fontCache holds Liberation and Go faces; built once and shared.
var fontCache = sync.OnceValues(func() (*font.Cache, error) {
	cache := font.NewCache(liberation.Collection())
	gf, err := goFaces()
	if err != nil {
		return nil, err
	}
	cache.Add(gf)
	return cache, nil
})

// Style selects the typeface used by every text element of a figure.
type Style struct {
	Typeface font.Typeface
	Variant  font.Variant
	handler  text.Handler
}

// NewStyle validates the typeface and variant and prepares a text handler.
func NewStyle(typeface, variant string) (Style, error) {
	st := Style{Typeface: font.Typeface(typeface), Variant: font.Variant(variant)}
	if st.Typeface == "" {
		st.Typeface = Liberation
	}
	if st.Variant == "" {
		st.Variant = "Sans"
	}
	cache, err := fontCache()
	if err != nil {
		return Style{}, err
	}
	probe := font.Font{Typeface: st.Typeface, Variant: st.Variant}
	if !cache.Has(probe) {
		return Style{}, fmt.Errorf("unknown font %s %s", st.Typeface, st.Variant)
	}
	st.handler = text.Plain{Fonts: cache}
	return st, nil
}

// DefaultStyle returns the Liberation Sans style.
func DefaultStyle() Style {
	st, err := NewStyle(string(Liberation), "Sans")
	if err != nil {
		panic(err)
	}
	return st
}

func (st Style) textHandler() text.Handler {
	if st.handler == nil {
		return text.Plain{Fonts: font.DefaultCache}
	}
	return st.handler
}

// TextOpt adjusts a text style.
type TextOpt func(*text.Style)

// Bold selects the bold weight.
func Bold(s *text.Style) { s.Font.Weight = xfont.WeightBold }

// Italic selects the italic style.
func Italic(s *text.Style) { s.Font.Style = xfont.StyleItalic }

// Align sets the anchor of the text relative to its position.
func Align(x text.XAlignment, y text.YAlignment) TextOpt {
	return func(s *text.Style) { s.XAlign, s.YAlign = x, y }
}

// Rotate turns the text counter-clockwise by deg degrees.
func Rotate(deg float64) TextOpt {
	return func(s *text.Style) { s.Rotation = deg * math.Pi / 180 }
}

// Text builds a text style of the given point size, centered on its anchor.
func (st Style) Text(size float64, clr color.Color, opts ...TextOpt) text.Style {
	s := text.Style{
		Color:   clr,
		Font:    font.Font{Typeface: st.Typeface, Variant: st.Variant, Size: vg.Length(size)},
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: st.textHandler(),
	}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Hex parses "#rrggbb" or "#rrggbbaa" into an opaque or translucent color.
func Hex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is Hex for literal colors.
func MustHex(s string) color.NRGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Alpha returns c with opacity a in [0, 1].
func Alpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}

// Line builds a solid line style of the given width in points.
func Line(clr color.Color, width float64) draw.LineStyle {
	return draw.LineStyle{Color: clr, Width: vg.Points(width)}
}

// Dashed builds a dashed line style.
func Dashed(clr color.Color, width float64) draw.LineStyle {
	l := Line(clr, width)
	l.Dashes = []vg.Length{vg.Points(3 * width), vg.Points(2 * width)}
	return l
}

// Dotted builds a dotted line style.
func Dotted(clr color.Color, width float64) draw.LineStyle {
	l := Line(clr, width)
	l.Dashes = []vg.Length{vg.Points(width), vg.Points(1.5 * width)}
	return l
}

// Common colors.
var (
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black = color.NRGBA{A: 0xff}
)
