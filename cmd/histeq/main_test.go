// Copyright 2025 go-histeq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-histeq/codec"
	"github.com/ajroetker/go-histeq/compare"
	"github.com/ajroetker/go-histeq/histogram"
	"github.com/ajroetker/go-histeq/internal/config"
	"github.com/ajroetker/go-histeq/pixel"
)

// run executes the command line args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, env := range []string{config.EnvWorkers, config.EnvResolution, config.EnvLogLevel, config.EnvSequential} {
		t.Setenv(env, "")
	}
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// lowContrast writes an 8x4 image whose red channel takes eight distinct
// values between 0.2 and 0.27, one per column.
func lowContrast(t *testing.T, dir string) (string, *pixel.Buffer) {
	t.Helper()
	buf := pixel.NewBuffer(8, 4)
	for y := range 4 {
		for x := range 8 {
			buf.Set(x, y, pixel.Pixel{R: 0.2 + 0.01*float64(x), G: 0.5, B: 0.1 * float64(y)})
		}
	}
	path := filepath.Join(dir, "in.ppm")
	require.NoError(t, codec.Save(path, buf))
	saved, err := codec.Open(path)
	require.NoError(t, err)
	return path, saved
}

func TestEqualize(t *testing.T) {
	dir := t.TempDir()
	in, _ := lowContrast(t, dir)
	out := filepath.Join(dir, "out.ppm")

	_, stderr, err := run(t, "equalize", "--workers", "3", in, out)
	require.NoError(t, err)

	got, err := codec.Open(out)
	require.NoError(t, err)
	require.Equal(t, 8, got.Width())
	require.Equal(t, 4, got.Height())

	// Column x holds 4 of 32 pixels, so red becomes (x+1)/8.
	for x := range 8 {
		assert.InDelta(t, float64(x+1)/8, got.At(x, 0).R, 0.5/255+1e-9, "column %d", x)
	}
	// A uniform channel maps entirely to 1.
	assert.InDelta(t, 1.0, got.At(3, 2).G, 1e-9)

	for _, timer := range []string{"load", "equalize", "save", "overall"} {
		assert.Contains(t, stderr, "timer="+timer)
	}
}

func TestEqualize_RegionOfInterest(t *testing.T) {
	dir := t.TempDir()
	in, src := lowContrast(t, dir)
	out := filepath.Join(dir, "out.ppm.zst")

	_, _, err := run(t, "--log-level", "disabled", "equalize", "--roi", "0,0,4,4", in, out)
	require.NoError(t, err)

	got, err := codec.Open(out)
	require.NoError(t, err)
	for y := range 4 {
		for x := 4; x < 8; x++ {
			assert.Equal(t, src.At(x, y), got.At(x, y), "(%d,%d) outside the region changed", x, y)
		}
	}
	assert.InDelta(t, 1.0, got.At(3, 0).R, 1e-9)
}

func TestEqualize_Errors(t *testing.T) {
	dir := t.TempDir()
	in, _ := lowContrast(t, dir)
	out := filepath.Join(dir, "out.ppm")

	_, _, err := run(t, "equalize", "--roi", "4,0,8,4", in, out)
	require.ErrorIs(t, err, pixel.ErrRegionOutOfBounds)
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "output written for a rejected region")

	_, _, err = run(t, "equalize", "--roi", "1,0,9223372036854775807,1", in, out)
	require.ErrorIs(t, err, pixel.ErrRegionOutOfBounds)

	_, _, err = run(t, "equalize", "--roi", "1,2,3", in, out)
	require.Error(t, err)

	_, _, err = run(t, "equalize", "--resolution", "1", in, out)
	require.Error(t, err)

	_, _, err = run(t, "equalize", in)
	require.Error(t, err)

	_, _, err = run(t, "equalize", filepath.Join(dir, "missing.ppm"), out)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "equalize", in, filepath.Join(dir, "out.xcf"))
	require.ErrorIs(t, err, codec.ErrUnsupportedFormat)
}

func TestEqualize_CompareWithReference(t *testing.T) {
	dir := t.TempDir()
	in, _ := lowContrast(t, dir)
	first := filepath.Join(dir, "first.ppm")
	second := filepath.Join(dir, "second.ppm")

	_, _, err := run(t, "--log-level", "disabled", "equalize", "--workers", "1", in, first)
	require.NoError(t, err)

	stdout, _, err := run(t, "--log-level", "disabled", "equalize", "--workers", "4", "--compare", first, in, second)
	require.NoError(t, err)
	assert.Contains(t, stdout, "images are identical")
	assert.Contains(t, stdout, "differing=0")
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	in, _ := lowContrast(t, dir)
	out := filepath.Join(dir, "out.ppm")
	_, _, err := run(t, "--log-level", "disabled", "equalize", in, out)
	require.NoError(t, err)

	stdout, _, err := run(t, "compare", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "images differ")
	assert.Contains(t, stdout, "8x4")

	stdout, _, err = run(t, "compare", "-w", "2", in, in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "images are identical")

	small := filepath.Join(dir, "small.ppm")
	require.NoError(t, codec.Save(small, pixel.NewBuffer(2, 2)))
	_, _, err = run(t, "compare", in, small)
	require.ErrorIs(t, err, compare.ErrSizeMismatch)
}

func TestCPUInfo(t *testing.T) {
	stdout, _, err := run(t, "cpuinfo")
	require.NoError(t, err)
	assert.Contains(t, stdout, runtime.GOARCH)
	assert.Contains(t, stdout, "Workers:")
	assert.Contains(t, stdout, "Features:")
}

func TestEnvironmentConfig(t *testing.T) {
	for _, env := range []string{config.EnvWorkers, config.EnvResolution, config.EnvLogLevel} {
		t.Setenv(env, "")
	}
	t.Setenv(config.EnvSequential, "1")

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"cpuinfo"})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "Workers:     1\n")

	t.Setenv(config.EnvResolution, "0")
	root = newRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"cpuinfo"})
	require.ErrorIs(t, root.Execute(), histogram.ErrResolution)
}
