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

// Package pixel provides the normalized three-channel pixel buffer that the
// equalization passes operate on.
//
// A Buffer stores each channel in its own contiguous plane, so red, green and
// blue values of the same pixel never share memory. Passes over different
// channels can therefore mutate one Buffer concurrently without any locking.
//
// # Regions and Windows
//
// A Region selects an axis-aligned rectangle of a Buffer. A Window is a view
// of one channel plane restricted to a Region; Window.Split cuts it into
// disjoint horizontal bands, and Window.Row hands out row slices whose capacity
// ends at the window edge:
//
//	w, err := buf.Window(pixel.Red, roi)
//	if err != nil {
//	    return err
//	}
//	for _, band := range w.Split(workers) {
//	    go func() {
//	        for i := range band.Height() {
//	            row := band.Row(i) // only this band's pixels are reachable
//	            ...
//	        }
//	    }()
//	}
package pixel
