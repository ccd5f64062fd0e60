// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diagram

import (
	"bytes"
	"image"
	_ "image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/cqplot/cq"
	"github.com/curioloop/cqplot/geom"
	"github.com/curioloop/cqplot/render"
)

func TestRegistry(t *testing.T) {
	want := []string{
		"acq_failure",
		"gcq_illustration",
		"licq_violation",
		"mfcq_illustration",
		"mpec_acq",
		"mpec_cq_hierarchy",
		"mpec_feasible_region",
		"mpec_gcq",
		"mpec_intersection",
		"mpec_licq",
		"mpec_mfcq",
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}

	d, ok := Lookup("mpec_gcq")
	require.True(t, ok)
	assert.Equal(t, "mpec_gcq.png", d.FileName("PNG"))

	ds, err := Select()
	require.NoError(t, err)
	assert.Len(t, ds, len(want))

	ds, err = Select("mpec_licq", "acq_failure")
	require.NoError(t, err)
	assert.Equal(t, "mpec_licq", ds[0].Name)
	assert.Equal(t, "acq_failure", ds[1].Name)

	_, err = Select("acq_failure", "kkt")
	assert.ErrorContains(t, err, `"kkt"`)
}

func TestChecks(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			checks, err := d.Checks()
			require.NoError(t, err)
			require.NotEmpty(t, checks)
			for _, c := range checks {
				assert.True(t, c.Pass, c.String())
			}
		})
	}
}

func TestBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("renders every figure")
	}
	st := render.DefaultStyle()
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			var sizes []image.Point
			for range 2 {
				f, err := d.Build(st)
				require.NoError(t, err)
				var buf bytes.Buffer
				require.NoError(t, f.WriteTo(&buf, "png", 12))
				require.NotZero(t, buf.Len())
				cfg, _, err := image.DecodeConfig(&buf)
				require.NoError(t, err)
				sizes = append(sizes, image.Pt(cfg.Width, cfg.Height))
			}
			assert.Equal(t, sizes[0], sizes[1])
			assert.Positive(t, sizes[0].X)
		})
	}
}

func TestFormats(t *testing.T) {
	st := render.DefaultStyle()
	// shaded regions, then bold and italic labels
	for _, name := range []string{"licq_violation", "mpec_cq_hierarchy"} {
		d, ok := Lookup(name)
		require.True(t, ok)
		for _, format := range render.Formats {
			t.Run(name+"/"+format, func(t *testing.T) {
				f, err := d.Build(st)
				require.NoError(t, err)
				var buf bytes.Buffer
				require.NoError(t, f.WriteTo(&buf, format, 12))
				assert.NotZero(t, buf.Len())
			})
		}
	}
}

func TestFeasibleMask(t *testing.T) {
	pair := parabolaCircle()
	s, err := newFeasibleScene(pair, geom.NewGrid(-2, 2, -1.5, 2.5, 121))
	require.NoError(t, err)

	nx, ny := s.Grid.Dims()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			p := s.Grid.Point(i, j)
			in := pair.G.Value(p) >= 0 && pair.H.Value(p) >= 0
			if in != s.Both.At(i, j) {
				t.Fatalf("mask disagrees at %v: want %t", p, in)
			}
		}
	}

	for _, arc := range s.GArcs {
		for _, v := range arc {
			assert.GreaterOrEqual(t, pair.H.Value(v), arcThreshold)
		}
	}
	for _, arc := range s.HArcs {
		for _, v := range arc {
			assert.GreaterOrEqual(t, pair.G.Value(v), arcThreshold)
		}
	}

	require.Len(t, s.Crossings, 2)
	for _, c := range s.Crossings {
		assert.LessOrEqual(t, math.Abs(pair.G.Value(c)), 1e-6)
		assert.LessOrEqual(t, math.Abs(pair.H.Value(c)), 1e-6)
	}
	assert.InDelta(t, -s.Crossings[0].X, s.Crossings[1].X, 1e-6)
}

func TestMFCQScene(t *testing.T) {
	s, err := newMFCQScene(50)
	require.NoError(t, err)
	assert.InDelta(t, 0.907, s.Star.X, 1e-3)
	assert.True(t, s.Verdict.MFCQ)
	assert.Less(t, s.Verdict.Direction.X, 0.0, "d leaves x* towards the feasible arc")
	require.NotEmpty(t, s.Feasible)
	for _, v := range s.Feasible {
		assert.LessOrEqual(t, s.G.Value(v), 1e-9)
	}
}

func TestLICQScene(t *testing.T) {
	s := newLICQScene(101)
	// x* itself is the only feasible point of two tangent discs
	nx, ny := s.Grid.Dims()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if s.Feasible.At(i, j) {
				assert.True(t, s.Grid.Point(i, j).Near(s.Star, 0.1), s.Grid.Point(i, j))
			}
		}
	}
	assert.Len(t, s.Boundaries, 2)
}

func TestIndexBoxes(t *testing.T) {
	boxes, err := indexBoxes(geom.Vec{})
	require.NoError(t, err)
	got := make([]cq.Index, len(boxes))
	for i, b := range boxes {
		got[i] = b.Index
	}
	if diff := cmp.Diff([]cq.Index{cq.ZeroPlus, cq.PlusZero, cq.Biactive}, got); diff != "" {
		t.Fatalf("index sets (-want +got):\n%s", diff)
	}

	// the same pairs away from the origin are no longer complementary
	_, err = indexBoxes(geom.V(1, 1))
	assert.Error(t, err)
}

func TestHasse(t *testing.T) {
	pos, err := hasse(cq.MPEC())
	require.NoError(t, err)
	assert.Equal(t, geom.V(5, 8.5), pos[cq.QLICQ])
	assert.Equal(t, geom.V(3, 6.5), pos[cq.QMFCQ])
	assert.Equal(t, geom.V(7, 4.5), pos[cq.QCPLD])
	assert.Equal(t, geom.V(5, 2.5), pos[cq.QGCQ])

	_, err = hasse(cq.NewHierarchy(cq.Implication{From: cq.QACQ, To: cq.QGCQ}, cq.Implication{From: cq.QGCQ, To: cq.QACQ}))
	assert.Error(t, err)
}

func TestPolarRange(t *testing.T) {
	s, err := newGCQScene()
	require.NoError(t, err)
	assert.Equal(t, "polar cone spans [180°, 280°]", polarRange(s.PolarT))

	checks, err := checkMPECGCQ()
	require.NoError(t, err)
	require.Len(t, checks, 4)
	assert.Equal(t, "polar cone spans [185°, 240°]", checks[2].Detail)
}
