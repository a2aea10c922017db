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

import (
	"errors"
	"fmt"
	"math"
)

// Plane is a single-channel width x height array of intensities stored
// row-major.
type Plane struct {
	data   []float64
	width  int
	height int
}

func newPlane(width, height int) *Plane {
	return &Plane{
		data:   make([]float64, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the plane width in pixels.
func (p *Plane) Width() int {
	return p.width
}

// Height returns the plane height in pixels.
func (p *Plane) Height() int {
	return p.height
}

// Row returns the mutable slice for row y. Its capacity ends at the row's
// last pixel, so appending to it cannot overwrite the next row.
func (p *Plane) Row(y int) []float64 {
	if y < 0 || y >= p.height {
		return nil
	}
	start := y * p.width
	end := start + p.width
	return p.data[start:end:end]
}

// At returns the value at (x, y), or 0 out of bounds.
func (p *Plane) At(x, y int) float64 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0
	}
	return p.data[y*p.width+x]
}

// Set stores v, clamped to [0, 1], at (x, y). Out of bounds is a no-op.
func (p *Plane) Set(x, y int, v float64) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.data[y*p.width+x] = Clamp(v)
}

// Buffer is a width x height grid of Pixels, row-major with the origin at
// the top-left. Each channel lives in its own Plane.
type Buffer struct {
	planes [NumChannels]*Plane
	width  int
	height int
}

// NewBuffer allocates a black width x height buffer. Non-positive dimensions
// produce an empty 0x0 buffer.
func NewBuffer(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		width, height = 0, 0
	}
	b := &Buffer{width: width, height: height}
	for i := range b.planes {
		b.planes[i] = newPlane(width, height)
	}
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Area returns the number of pixels in the buffer.
func (b *Buffer) Area() int {
	return b.width * b.height
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer) Empty() bool {
	return b.width == 0 || b.height == 0
}

// Bounds returns the region covering the whole buffer.
func (b *Buffer) Bounds() Region {
	return Region{Width: b.width, Height: b.height}
}

// Plane returns the plane of channel c, or nil for an invalid channel.
func (b *Buffer) Plane(c Channel) *Plane {
	if !c.Valid() {
		return nil
	}
	return b.planes[c]
}

// At returns the pixel at (x, y). Out of bounds returns the zero Pixel.
func (b *Buffer) At(x, y int) Pixel {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Pixel{}
	}
	i := y*b.width + x
	return Pixel{
		R: b.planes[Red].data[i],
		G: b.planes[Green].data[i],
		B: b.planes[Blue].data[i],
	}
}

// Set stores p, clamped to [0, 1], at (x, y). Out of bounds is a no-op.
func (b *Buffer) Set(x, y int, p Pixel) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := y*b.width + x
	b.planes[Red].data[i] = Clamp(p.R)
	b.planes[Green].data[i] = Clamp(p.G)
	b.planes[Blue].data[i] = Clamp(p.B)
}

// Fill sets every pixel to p (clamped).
func (b *Buffer) Fill(p Pixel) {
	p = p.Clamped()
	for c, plane := range b.planes {
		v := p.Get(Channel(c))
		for i := range plane.data {
			plane.data[i] = v
		}
	}
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	clone := &Buffer{width: b.width, height: b.height}
	for i, plane := range b.planes {
		clone.planes[i] = &Plane{
			data:   append([]float64(nil), plane.data...),
			width:  plane.width,
			height: plane.height,
		}
	}
	return clone
}

// Equal reports whether both buffers have the same size and bit-identical
// channel values.
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for c := range b.planes {
		x, y := b.planes[c].data, other.planes[c].data
		for i := range x {
			if math.Float64bits(x[i]) != math.Float64bits(y[i]) {
				return false
			}
		}
	}
	return true
}

// Window returns a view of channel c restricted to r. It fails when c is
// not a valid channel or r does not fit in the buffer.
func (b *Buffer) Window(c Channel, r Region) (Window, error) {
	if b == nil {
		return Window{}, errors.New("pixel: nil buffer")
	}
	if !c.Valid() {
		return Window{}, fmt.Errorf("pixel: invalid %v", c)
	}
	if err := r.Validate(b.width, b.height); err != nil {
		return Window{}, err
	}
	return Window{plane: b.planes[c], region: r}, nil
}
