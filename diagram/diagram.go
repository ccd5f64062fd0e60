// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagram defines the constraint-qualification figures. Each
// diagram owns a closed-form geometry that can be checked without
// rendering and a builder that lays the geometry out as a figure.
package diagram

import (
	"fmt"
	"slices"
	"strings"

	"github.com/curioloop/cqplot/render"
)

// Diagram is one named figure.
type Diagram struct {
	Name  string
	Title string

	// Build lays the figure out; it performs no I/O.
	Build func(st render.Style) (*render.Figure, error)

	// Checks evaluates the geometric claims the figure illustrates.
	Checks func() ([]Check, error)
}

// Check is one verified geometric claim.
type Check struct {
	Name   string
	Pass   bool
	Detail string
}

func (c Check) String() string {
	mark := "ok  "
	if !c.Pass {
		mark = "FAIL"
	}
	if c.Detail == "" {
		return fmt.Sprintf("%s %s", mark, c.Name)
	}
	return fmt.Sprintf("%s %s: %s", mark, c.Name, c.Detail)
}

func check(name string, pass bool, format string, args ...any) Check {
	return Check{Name: name, Pass: pass, Detail: fmt.Sprintf(format, args...)}
}

// FileName returns the output file name for the given format.
func (d *Diagram) FileName(format string) string {
	return d.Name + "." + strings.ToLower(format)
}

var registry = []*Diagram{
	acqFailure,
	gcqIllustration,
	licqViolation,
	mfcqIllustration,
	mpecACQ,
	mpecHierarchy,
	mpecFeasibleRegion,
	mpecGCQ,
	mpecIntersection,
	mpecLICQ,
	mpecMFCQ,
}

// All returns every diagram in registry order.
func All() []*Diagram { return slices.Clone(registry) }

// Names returns the registered names in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a diagram by name.
func Lookup(name string) (*Diagram, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Select resolves names to diagrams in the order given, or every diagram
// when names is empty.
func Select(names ...string) ([]*Diagram, error) {
	if len(names) == 0 {
		return All(), nil
	}
	ds := make([]*Diagram, 0, len(names))
	for _, n := range names {
		d, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unknown diagram %q (known: %s)", n, strings.Join(Names(), ", "))
		}
		ds = append(ds, d)
	}
	return ds, nil
}
