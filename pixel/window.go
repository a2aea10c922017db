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

package pixel

import "github.com/ajroetker/go-histeq/workerpool"

// Window is a view of one channel plane restricted to a validated Region.
// Windows produced by Band or Split from the same parent never share rows.
type Window struct {
	plane  *Plane
	region Region
}

// Region returns the window's region in buffer coordinates.
func (w Window) Region() Region {
	return w.region
}

// Width returns the number of pixels per window row.
func (w Window) Width() int {
	return max(0, w.region.Width)
}

// Height returns the number of rows in the window.
func (w Window) Height() int {
	if w.plane == nil {
		return 0
	}
	return max(0, w.region.Height)
}

// Area returns the number of pixels in the window.
func (w Window) Area() int {
	return w.Width() * w.Height()
}

// Row returns row i of the window (0 is the window's top row). The slice
// starts at the window's left edge and its capacity ends at the right edge.
func (w Window) Row(i int) []float64 {
	if i < 0 || i >= w.Height() {
		return nil
	}
	row := w.plane.Row(w.region.Y + i)
	x0, x1 := w.region.X, w.region.MaxX()
	return row[x0:x1:x1]
}

// Band returns the sub-window holding rows [b.Start, b.End) of w, clipped
// to the window.
func (w Window) Band(b workerpool.Band) Window {
	start := min(max(b.Start, 0), w.Height())
	end := min(max(b.End, start), w.Height())
	r := w.region
	r.Y += start
	r.Height = end - start
	return Window{plane: w.plane, region: r}
}

// Split cuts the window into at most n contiguous, non-empty, disjoint
// horizontal bands, top to bottom.
func (w Window) Split(n int) []Window {
	bands := workerpool.Bands(w.Height(), n)
	out := make([]Window, len(bands))
	for i, b := range bands {
		out[i] = w.Band(b)
	}
	return out
}
