// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/curioloop/cqplot/diagram"
	"github.com/curioloop/cqplot/internal/config"
	"github.com/curioloop/cqplot/runner"
)

// cli holds the flag values and the state built before a command runs.
type cli struct {
	configPath  string
	out         string
	format      string
	dpi         float64
	concurrency int
	progress    bool
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "cqplot",
		Short: "Render constraint-qualification diagrams",
		Long: `cqplot draws static figures of constraint qualifications for
nonlinear programs and MPECs: LICQ, MFCQ, ACQ and GCQ with their MPEC
variants, the MPEC feasible set and the hierarchy between them.

Run without arguments to render every diagram.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.render(cmd, c.cfg.Diagrams)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "YAML config file (default ./"+config.DefaultPath+" if present)")
	pf.StringVarP(&c.out, "out", "o", "", "output directory")
	pf.StringVarP(&c.format, "format", "f", "", "output format (png, svg, pdf, ...)")
	pf.Float64Var(&c.dpi, "dpi", 0, "raster resolution")
	pf.IntVarP(&c.concurrency, "concurrency", "j", 0, "figures rendered at once (0 = GOMAXPROCS)")
	pf.BoolVar(&c.progress, "progress", false, "show a progress bar")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "render <name>...",
			Short: "Render the named diagrams",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.render(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the registered diagrams",
			Args:  cobra.NoArgs,
			RunE:  c.list,
		},
		&cobra.Command{
			Use:   "check [name]...",
			Short: "Verify the geometry behind each diagram without rendering",
			RunE:  c.check,
		},
	)
	return root
}

// setup resolves defaults, the config file, the environment and the flags
// in that order, then builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = c.out
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("dpi") {
		cfg.DPI = c.dpi
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = c.concurrency
	}
	if flags.Changed("progress") {
		cfg.Progress = c.progress
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Logger(c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg, c.logger = cfg, logger
	return nil
}

func (c *cli) render(cmd *cobra.Command, names []string) error {
	st, err := c.cfg.Style()
	if err != nil {
		return err
	}
	paths, err := runner.RenderAll(cmd.Context(), names, runner.Options{
		OutDir:      c.cfg.OutputDir,
		Format:      c.cfg.Format,
		DPI:         c.cfg.DPI,
		Concurrency: c.cfg.Concurrency,
		Progress:    c.cfg.Progress,
		ProgressOut: cmd.ErrOrStderr(),
		Style:       st,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintf(out, "Saved figure: %s\n", p)
	}
	return nil
}

func (c *cli) list(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, d := range diagram.All() {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, d.Title)
	}
	return tw.Flush()
}

func (c *cli) check(cmd *cobra.Command, args []string) error {
	reports, err := runner.CheckAll(args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range reports {
		fmt.Fprintln(out, r.Name)
		if r.Err != nil {
			fmt.Fprintf(out, "  error: %v\n", r.Err)
		}
		for _, ch := range r.Checks {
			fmt.Fprintf(out, "  %s\n", ch)
		}
		if r.Failed() {
			failed++
			c.logger.Warn("checks failed", zap.String("diagram", r.Name))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d diagrams failed their checks", failed, len(reports))
	}
	return nil
}
