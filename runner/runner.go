// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner builds diagrams and writes them to disk, optionally in
// parallel.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/curioloop/cqplot/diagram"
	"github.com/curioloop/cqplot/render"
)

// Options controls where and how figures are written.
type Options struct {
	OutDir string
	Format string  // png by default
	DPI    float64 // raster resolution, 300 by default

	// Concurrency bounds the number of figures rendered at once;
	// zero means GOMAXPROCS.
	Concurrency int

	Progress    bool
	ProgressOut io.Writer // stderr when nil

	Style  render.Style
	Logger *zap.Logger
}

func (o Options) normalize() Options {
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.Format == "" {
		o.Format = "png"
	}
	if o.DPI == 0 {
		o.DPI = 300
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.GOMAXPROCS(0)
	}
	if o.ProgressOut == nil {
		o.ProgressOut = os.Stderr
	}
	if o.Style.Typeface == "" {
		o.Style = render.DefaultStyle()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Render builds d and writes it to OutDir/<name>.<format>.
func Render(ctx context.Context, d *diagram.Diagram, opts Options) (string, error) {
	opts = opts.normalize()
	return render1(ctx, d, opts)
}

func render1(ctx context.Context, d *diagram.Diagram, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log := opts.Logger.With(zap.String("diagram", d.Name))
	start := time.Now()

	fig, err := d.Build(opts.Style)
	if err != nil {
		return "", fmt.Errorf("build %s: %w", d.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(opts.OutDir, d.FileName(opts.Format))
	if err := fig.Save(path, opts.DPI); err != nil {
		return "", fmt.Errorf("save %s: %w", d.Name, err)
	}
	log.Debug("figure written",
		zap.String("path", path),
		zap.Float64("dpi", opts.DPI),
		zap.Duration("elapsed", time.Since(start)))
	return path, nil
}

// RenderAll renders the named diagrams, or every diagram when names is
// empty. Paths are returned in the order the diagrams were selected. The
// first failure cancels the figures not yet started.
func RenderAll(ctx context.Context, names []string, opts Options) ([]string, error) {
	ds, err := diagram.Select(names...)
	if err != nil {
		return nil, err
	}
	opts = opts.normalize()
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(len(ds),
			progressbar.OptionSetWriter(opts.ProgressOut),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
	}

	opts.Logger.Info("rendering diagrams",
		zap.Int("count", len(ds)),
		zap.String("out", opts.OutDir),
		zap.String("format", opts.Format),
		zap.Int("concurrency", opts.Concurrency))

	paths := make([]string, len(ds))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i, d := range ds {
		eg.Go(func() error {
			path, err := render1(egCtx, d, opts)
			if err != nil {
				return err
			}
			paths[i] = path
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		opts.Logger.Error("rendering failed", zap.Error(err))
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return paths, nil
}

// Report is the outcome of one diagram's geometric checks.
type Report struct {
	Name   string
	Checks []diagram.Check
	Err    error
}

// Failed reports whether any check failed or the checks could not run.
func (r Report) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, c := range r.Checks {
		if !c.Pass {
			return true
		}
	}
	return false
}

// CheckAll evaluates the checks of the named diagrams without rendering.
func CheckAll(names []string) ([]Report, error) {
	ds, err := diagram.Select(names...)
	if err != nil {
		return nil, err
	}
	reports := make([]Report, len(ds))
	for i, d := range ds {
		checks, err := d.Checks()
		reports[i] = Report{Name: d.Name, Checks: checks, Err: err}
	}
	return reports, nil
}
