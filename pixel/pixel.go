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

import "fmt"

// Channel selects one color component of a pixel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// NumChannels is the number of independent channels in a Pixel.
const NumChannels = 3

// Channels lists every channel in plane order.
var Channels = [NumChannels]Channel{Red, Green, Blue}

// String returns the lowercase channel name.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Valid reports whether c names one of the three channels.
func (c Channel) Valid() bool {
	return c >= Red && c <= Blue
}

// Pixel holds three linear channel intensities, each in [0, 1].
type Pixel struct {
	R, G, B float64
}

// Get returns the value of channel c, or 0 for an invalid channel.
func (p Pixel) Get(c Channel) float64 {
	switch c {
	case Red:
		return p.R
	case Green:
		return p.G
	case Blue:
		return p.B
	default:
		return 0
	}
}

// Clamped returns p with every channel clamped to [0, 1].
func (p Pixel) Clamped() Pixel {
	return Pixel{R: Clamp(p.R), G: Clamp(p.G), B: Clamp(p.B)}
}

// Clamp limits v to [0, 1]. NaN maps to 0.
func Clamp(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
