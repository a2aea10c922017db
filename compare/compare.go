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

// Package compare measures how far two pixel buffers are apart.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/ajroetker/go-histeq/pixel"
	"github.com/ajroetker/go-histeq/workerpool"
)

// ErrSizeMismatch is returned when the buffers have different dimensions.
var ErrSizeMismatch = errors.New("compare: size mismatch")

// Report summarizes the per-sample differences between two buffers.
type Report struct {
	Width, Height int

	// MaxAbsDiff is the largest absolute difference of any sample.
	MaxAbsDiff float64

	// MeanAbsDiff is the mean absolute difference over all samples.
	MeanAbsDiff float64

	// PSNR is the peak signal-to-noise ratio in dB for a peak of 1.
	// It is +Inf for identical buffers.
	PSNR float64

	// Differing counts pixels where any channel differs once both are
	// quantized to 8 bits.
	Differing int
}

// Identical reports whether no pixel differs at 8-bit precision.
func (r Report) Identical() bool {
	return r.Differing == 0
}

// MarshalZerologObject logs the report as fields of an event.
func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Int("width", r.Width).
		Int("height", r.Height).
		Float64("max_abs_diff", r.MaxAbsDiff).
		Float64("mean_abs_diff", r.MeanAbsDiff).
		Float64("psnr_db", r.PSNR).
		Int("differing", r.Differing)
}

// String formats the report on one line.
func (r Report) String() string {
	return fmt.Sprintf("%dx%d max=%.6f mean=%.6f psnr=%.2fdB differing=%d",
		r.Width, r.Height, r.MaxAbsDiff, r.MeanAbsDiff, r.PSNR, r.Differing)
}

// partial holds the sums of one row band.
type partial struct {
	maxAbs    float64
	sumAbs    float64
	sumSq     float64
	differing int
}

// Buffers compares a and b sample by sample. Rows are split into bands that
// run on pool; a nil pool compares sequentially.
func Buffers(a, b *pixel.Buffer, pool *workerpool.Pool) (Report, error) {
	if a == nil || b == nil {
		return Report{}, fmt.Errorf("%w: nil buffer", ErrSizeMismatch)
	}
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return Report{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch,
			a.Width(), a.Height(), b.Width(), b.Height())
	}

	rep := Report{Width: a.Width(), Height: a.Height()}
	if a.Empty() {
		rep.PSNR = math.Inf(1)
		return rep, nil
	}

	bands := pool.Split(a.Height())
	parts := make([]partial, len(bands))
	pool.Run(bands, func(band workerpool.Band) {
		parts[band.Index] = compareRows(a, b, band.Start, band.End)
	})

	var total partial
	for _, p := range parts {
		total.maxAbs = max(total.maxAbs, p.maxAbs)
		total.sumAbs += p.sumAbs
		total.sumSq += p.sumSq
		total.differing += p.differing
	}

	samples := float64(a.Area() * pixel.NumChannels)
	rep.MaxAbsDiff = total.maxAbs
	rep.MeanAbsDiff = total.sumAbs / samples
	rep.Differing = total.differing
	rep.PSNR = psnr(total.sumSq / samples)
	return rep, nil
}

func compareRows(a, b *pixel.Buffer, y0, y1 int) partial {
	var p partial
	width := a.Width()
	var rows [2][pixel.NumChannels][]float64
	for y := y0; y < y1; y++ {
		for _, ch := range pixel.Channels {
			rows[0][ch] = a.Plane(ch).Row(y)
			rows[1][ch] = b.Plane(ch).Row(y)
		}
		for x := range width {
			differs := false
			for _, ch := range pixel.Channels {
				va, vb := rows[0][ch][x], rows[1][ch][x]
				d := math.Abs(va - vb)
				p.maxAbs = max(p.maxAbs, d)
				p.sumAbs += d
				p.sumSq += d * d
				if quantize8(va) != quantize8(vb) {
					differs = true
				}
			}
			if differs {
				p.differing++
			}
		}
	}
	return p
}

func quantize8(v float64) uint8 {
	return uint8(pixel.Clamp(v)*255 + 0.5)
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return -10 * math.Log10(mse)
}
