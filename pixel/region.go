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
	"strconv"
	"strings"
)

// ErrRegionOutOfBounds is returned when a Region does not fit inside the
// buffer it is applied to.
var ErrRegionOutOfBounds = errors.New("pixel: region out of bounds")

// Region is an axis-aligned rectangle of a buffer, given by its top-left
// corner and its size.
type Region struct {
	X, Y          int
	Width, Height int
}

// Rect builds a Region from its top-left corner and size.
func Rect(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// Area returns the number of pixels in the region.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the exclusive right edge.
func (r Region) MaxX() int {
	return r.X + r.Width
}

// MaxY returns the exclusive bottom edge.
func (r Region) MaxY() int {
	return r.Y + r.Height
}

// Validate checks the region against a width x height buffer: the corner
// must be non-negative, the size non-negative, and the far edges inside the
// buffer. Violations wrap ErrRegionOutOfBounds.
func (r Region) Validate(width, height int) error {
	switch {
	case r.X < 0 || r.Y < 0:
		return fmt.Errorf("%w: origin (%d,%d) is negative", ErrRegionOutOfBounds, r.X, r.Y)
	case r.Width < 0 || r.Height < 0:
		return fmt.Errorf("%w: size %dx%d is negative", ErrRegionOutOfBounds, r.Width, r.Height)
	// Compared without adding, so huge sizes cannot wrap past the check.
	case r.Width > width-r.X || r.Height > height-r.Y:
		return fmt.Errorf("%w: %v exceeds %dx%d", ErrRegionOutOfBounds, r, width, height)
	}
	return nil
}

// String formats the region as "x,y,w,h", the form accepted by ParseRegion.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRegion parses "x,y,w,h" into a Region. Bounds are not checked here;
// use Validate against the target buffer.
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("pixel: region %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("pixel: region %q: %w", s, err)
		}
		v[i] = n
	}
	return Rect(v[0], v[1], v[2], v[3]), nil
}
