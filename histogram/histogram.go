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

// Package histogram computes per-channel intensity histograms over a region
// of a pixel.Buffer and derives cumulative-frequency tables from them.
//
// Intensities in [0, 1] are quantized into a fixed number of buckets (the
// resolution):
//
//	bucket = floor(value * (resolution - 1))
//
// The same resolution must be used to build a histogram and to look values
// up in the cumulative table derived from it.
package histogram

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// DefaultResolution is the number of buckets used when none is configured:
// one per 16-bit intensity level.
const DefaultResolution = 65535

// ErrResolution is returned for a resolution below two buckets.
var ErrResolution = errors.New("histogram: resolution must be at least 2")

// ValidateResolution checks that resolution can quantize [0, 1].
func ValidateResolution(resolution int) error {
	if resolution < 2 {
		return fmt.Errorf("%w, got %d", ErrResolution, resolution)
	}
	return nil
}

// Histogram holds one count per quantized intensity bucket.
type Histogram []uint64

// New returns an all-zero histogram with the given number of buckets.
func New(resolution int) Histogram {
	return make(Histogram, max(resolution, 0))
}

// Resolution returns the number of buckets.
func (h Histogram) Resolution() int {
	return len(h)
}

// Total returns the sum of all counts, i.e. the number of pixels counted.
func (h Histogram) Total() uint64 {
	return lo.Sum(h)
}

// Add merges other into h bucket by bucket. Both must share a resolution.
func (h Histogram) Add(other Histogram) {
	for i := range min(len(h), len(other)) {
		h[i] += other[i]
	}
}

// Bucket quantizes v into [0, resolution-1]. Values below 0 (and NaN) map
// to the first bucket, values of 1 or more to the last.
func Bucket(v float64, resolution int) int {
	return newQuantizer(resolution).bucket(v)
}

// quantizer caches the scale of a resolution for the inner pixel loops.
type quantizer struct {
	scale float64
	last  int
}

func newQuantizer(resolution int) quantizer {
	return quantizer{scale: float64(resolution - 1), last: resolution - 1}
}

func (q quantizer) bucket(v float64) int {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return q.last
	}
	// Truncation is floor for positive values.
	return min(int(v*q.scale), q.last)
}
