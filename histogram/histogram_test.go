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

package histogram

import (
	"errors"
	"math"
	"math/rand"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-histeq/pixel"
	"github.com/ajroetker/go-histeq/workerpool"
)

// newTestPool returns a worker pool sized to the machine.
func newTestPool(tb testing.TB) *workerpool.Pool {
	tb.Helper()
	pool := workerpool.New(runtime.NumCPU())
	tb.Cleanup(pool.Close)
	return pool
}

// randBuffer fills a buffer with deterministic pseudo-random pixels.
func randBuffer(width, height int, seed int64) *pixel.Buffer {
	rng := rand.New(rand.NewSource(seed))
	buf := pixel.NewBuffer(width, height)
	for y := range height {
		for x := range width {
			buf.Set(x, y, pixel.Pixel{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()})
		}
	}
	return buf
}

func TestBucket(t *testing.T) {
	tests := []struct {
		v          float64
		resolution int
		want       int
	}{
		{0, 4, 0},
		{0.4, 4, 1},
		{0.7, 4, 2},
		{1, 4, 3},
		{0.25, 4, 0},
		{0.5, 4, 1},
		{-0.1, 4, 0},
		{1.5, 4, 3},
		{math.NaN(), 4, 0},
		{math.Inf(1), 4, 3},
		{1, DefaultResolution, DefaultResolution - 1},
		{0.5, DefaultResolution, 32767},
		{0.999, 2, 0},
		{1, 2, 1},
	}
	for _, tt := range tests {
		if got := Bucket(tt.v, tt.resolution); got != tt.want {
			t.Errorf("Bucket(%v, %d): got %d, want %d", tt.v, tt.resolution, got, tt.want)
		}
	}
}

func TestValidateResolution(t *testing.T) {
	for _, r := range []int{-1, 0, 1} {
		if err := ValidateResolution(r); !errors.Is(err, ErrResolution) {
			t.Errorf("ValidateResolution(%d): got %v, want ErrResolution", r, err)
		}
	}
	if err := ValidateResolution(2); err != nil {
		t.Errorf("ValidateResolution(2): %v", err)
	}
}

func TestAccumulate_ScenarioA(t *testing.T) {
	buf := pixel.NewBuffer(2, 2)
	buf.Set(0, 0, pixel.Pixel{R: 0.0})
	buf.Set(1, 0, pixel.Pixel{R: 0.4})
	buf.Set(0, 1, pixel.Pixel{R: 0.7})
	buf.Set(1, 1, pixel.Pixel{R: 1.0})

	hist, err := Accumulate(newTestPool(t), buf, pixel.Red, buf.Bounds(), 4)
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if diff := cmp.Diff(Histogram{1, 1, 1, 1}, hist); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Table{1, 2, 3, 4}, Cumulative(hist)); diff != "" {
		t.Errorf("cumulative mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulate_TotalEqualsArea(t *testing.T) {
	pool := newTestPool(t)
	buf := randBuffer(37, 29, 1)

	regions := []pixel.Region{
		buf.Bounds(),
		pixel.Rect(3, 4, 10, 20),
		pixel.Rect(0, 28, 37, 1),
		pixel.Rect(36, 0, 1, 29),
		pixel.Rect(5, 5, 0, 10),
		pixel.Rect(5, 5, 10, 0),
	}
	for _, r := range regions {
		for _, ch := range pixel.Channels {
			for _, res := range []int{2, 256, DefaultResolution} {
				hist, err := Accumulate(pool, buf, ch, r, res)
				if err != nil {
					t.Fatalf("Accumulate(%v, %v, %d): %v", ch, r, res, err)
				}
				if hist.Resolution() != res {
					t.Fatalf("resolution: got %d, want %d", hist.Resolution(), res)
				}
				if got := hist.Total(); got != uint64(r.Area()) {
					t.Errorf("Accumulate(%v, %v, %d) total: got %d, want %d", ch, r, res, got, r.Area())
				}
			}
		}
	}
}

func TestAccumulate_EmptyRegion(t *testing.T) {
	buf := randBuffer(4, 4, 2)
	hist, err := Accumulate(nil, buf, pixel.Green, pixel.Rect(1, 1, 2, 0), 16)
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if diff := cmp.Diff(New(16), hist); diff != "" {
		t.Errorf("empty region histogram not all zero (-want +got):\n%s", diff)
	}
}

func TestAccumulate_Errors(t *testing.T) {
	buf := randBuffer(4, 4, 3)
	if _, err := Accumulate(nil, buf, pixel.Red, pixel.Rect(2, 0, 3, 1), 16); !errors.Is(err, pixel.ErrRegionOutOfBounds) {
		t.Errorf("out-of-bounds region: got %v", err)
	}
	if _, err := Accumulate(nil, buf, pixel.Red, buf.Bounds(), 1); !errors.Is(err, ErrResolution) {
		t.Errorf("bad resolution: got %v", err)
	}
}

func TestAccumulate_BandCountIndependent(t *testing.T) {
	pool := newTestPool(t)
	buf := randBuffer(41, 53, 4)
	r := pixel.Rect(2, 3, 37, 47)

	for _, ch := range pixel.Channels {
		w, err := buf.Window(ch, r)
		if err != nil {
			t.Fatalf("Window: %v", err)
		}
		want := AccumulateBands(nil, w, 1024, 1)
		for _, bands := range []int{2, 3, 7, 16, 47, 100} {
			got := AccumulateBands(pool, w, 1024, bands)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%v with %d bands differs from 1 band (-want +got):\n%s", ch, bands, diff)
			}
		}
		if diff := cmp.Diff(want, AccumulateWindow(pool, w, 1024)); diff != "" {
			t.Errorf("%v pool-sized bands differ (-want +got):\n%s", ch, diff)
		}
	}
}

func TestAccumulate_OnlyRegionPixels(t *testing.T) {
	buf := pixel.NewBuffer(4, 4)
	buf.Fill(pixel.Pixel{R: 1, G: 1, B: 1})
	// The 2x2 region in the middle is black; everything around it is white.
	for y := 1; y < 3; y++ {
		for x := 1; x < 3; x++ {
			buf.Set(x, y, pixel.Pixel{})
		}
	}

	hist, err := Accumulate(newTestPool(t), buf, pixel.Blue, pixel.Rect(1, 1, 2, 2), 8)
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if diff := cmp.Diff(Histogram{4, 0, 0, 0, 0, 0, 0, 0}, hist); diff != "" {
		t.Errorf("histogram mismatch (-want +got):\n%s", diff)
	}
}

func TestHistogram_Add(t *testing.T) {
	h := Histogram{1, 2, 3}
	h.Add(Histogram{1, 1, 1})
	h.Add(Histogram{5})
	if diff := cmp.Diff(Histogram{7, 3, 4}, h); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkAccumulate(b *testing.B) {
	pool := newTestPool(b)
	buf := randBuffer(1920, 1080, 5)
	r := buf.Bounds()

	b.ResetTimer()
	for b.Loop() {
		if _, err := Accumulate(pool, buf, pixel.Red, r, DefaultResolution); err != nil {
			b.Fatal(err)
		}
	}
}
