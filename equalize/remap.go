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

package equalize

import (
	"github.com/ajroetker/go-histeq/histogram"
	"github.com/ajroetker/go-histeq/pixel"
	"github.com/ajroetker/go-histeq/workerpool"
)

// Remap rewrites channel ch of every pixel of buf inside r to
//
//	table[bucket(old)] / table.Total()
//
// table must have been built from the same channel and region; that is not
// checked. Pixels outside r and the other channels are left untouched.
func Remap(pool *workerpool.Pool, buf *pixel.Buffer, ch pixel.Channel, r pixel.Region, table histogram.Table) error {
	if buf == nil {
		return ErrNilBuffer
	}
	if err := histogram.ValidateResolution(table.Resolution()); err != nil {
		return err
	}
	w, err := buf.Window(ch, r)
	if err != nil {
		return err
	}
	RemapWindow(pool, w, table)
	return nil
}

// RemapWindow is Remap over an already validated window. Each worker reads,
// maps and writes the pixels of its own row band in a single pass.
func RemapWindow(pool *workerpool.Pool, w pixel.Window, table histogram.Table) {
	area := table.Total()
	if area == 0 || w.Area() == 0 {
		return
	}
	f := table.Mapper(area)

	pool.ParallelFor(w.Height(), func(start, end int) {
		band := w.Band(workerpool.Band{Start: start, End: end})
		for i := range band.Height() {
			row := band.Row(i)
			for x, v := range row {
				row[x] = f(v)
			}
		}
	})
}
