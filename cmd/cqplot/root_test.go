// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/cqplot/diagram"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(diagram.Names()))
	for i, n := range diagram.Names() {
		assert.True(t, strings.HasPrefix(lines[i], n), lines[i])
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "mpec_feasible_region", "licq_violation")
	require.NoError(t, err)
	assert.Contains(t, out, "mpec_feasible_region\n")
	assert.Contains(t, out, "licq_violation\n")
	assert.NotContains(t, out, "FAIL")

	_, err = run(t, "check", "kkt")
	assert.ErrorContains(t, err, `unknown diagram "kkt"`)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "render", "mpec_intersection", "mpec_licq", "--out", dir, "--dpi", "20", "-j", "2")
	require.NoError(t, err)

	for _, n := range []string{"mpec_intersection", "mpec_licq"} {
		path := filepath.Join(dir, n+".png")
		assert.Contains(t, out, "Saved figure: "+path)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderPDF(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "render", "licq_violation", "mpec_cq_hierarchy", "--out", dir, "--format", "pdf")
	require.NoError(t, err)
	for _, n := range []string{"licq_violation", "mpec_cq_hierarchy"} {
		path := filepath.Join(dir, n+".pdf")
		assert.Contains(t, out, "Saved figure: "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), n)
	}
}

func TestConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "cqplot.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: pdf\ndiagrams: [mpec_cq_hierarchy]\n"), 0o644))

	// flags win over the file
	out, err := run(t, "--config", cfgPath, "--out", dir, "--format", "svg")
	require.NoError(t, err)
	assert.Equal(t, "Saved figure: "+filepath.Join(dir, "mpec_cq_hierarchy.svg")+"\n", out)
}

func TestInvalidInput(t *testing.T) {
	_, err := run(t, "--dpi=-1", "list")
	assert.ErrorContains(t, err, "invalid dpi")

	_, err = run(t, "render", "mpec_intersection", "--dpi=0.5")
	assert.ErrorContains(t, err, "invalid dpi")

	_, err = run(t, "--format", "eps", "list")
	assert.ErrorContains(t, err, "invalid format")

	_, err = run(t, "--format", "bmp", "list")
	assert.ErrorContains(t, err, "invalid format")

	_, err = run(t, "render")
	assert.Error(t, err)

	_, err = run(t, "render", "kkt")
	assert.ErrorContains(t, err, `unknown diagram "kkt"`)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.ErrorContains(t, err, "failed to read config")
}
