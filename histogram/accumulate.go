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
	"github.com/ajroetker/go-histeq/pixel"
	"github.com/ajroetker/go-histeq/workerpool"
)

// Accumulate builds the histogram of channel ch of buf over region r.
//
// The region's rows are split into one contiguous band per pool worker
// (never more bands than rows). Each band is scanned row-major into its own
// private histogram; the partial histograms are merged only after every band
// has finished. A nil or closed pool scans the region as a single band.
func Accumulate(pool *workerpool.Pool, buf *pixel.Buffer, ch pixel.Channel, r pixel.Region, resolution int) (Histogram, error) {
	if err := ValidateResolution(resolution); err != nil {
		return nil, err
	}
	w, err := buf.Window(ch, r)
	if err != nil {
		return nil, err
	}
	return AccumulateWindow(pool, w, resolution), nil
}

// AccumulateWindow is Accumulate over an already validated window.
// resolution must be at least 2.
func AccumulateWindow(pool *workerpool.Pool, w pixel.Window, resolution int) Histogram {
	return AccumulateBands(pool, w, resolution, pool.NumWorkers())
}

// AccumulateBands is AccumulateWindow with an explicit upper bound on the
// number of row bands. The result does not depend on bands.
func AccumulateBands(pool *workerpool.Pool, w pixel.Window, resolution, bands int) Histogram {
	parts := workerpool.Bands(w.Height(), bands)
	partial := make([]Histogram, len(parts))

	pool.Run(parts, func(b workerpool.Band) {
		partial[b.Index] = scan(w.Band(b), resolution)
	})

	if len(partial) == 1 {
		return partial[0]
	}
	hist := New(resolution)
	for _, p := range partial {
		hist.Add(p)
	}
	return hist
}

// scan counts every pixel of w into a fresh histogram, row by row.
func scan(w pixel.Window, resolution int) Histogram {
	hist := New(resolution)
	q := newQuantizer(resolution)
	for i := range w.Height() {
		for _, v := range w.Row(i) {
			hist[q.bucket(v)]++
		}
	}
	return hist
}
