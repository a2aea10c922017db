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

package codec

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"

	"github.com/ajroetker/go-histeq/pixel"
)

const ppmMagic = "P6"

// MaxPPMPixels is the largest width*height a PPM header may declare.
const MaxPPMPixels = 1 << 26

// ErrPPM is wrapped by every PPM parse error.
var ErrPPM = errors.New("codec: invalid ppm")

func init() {
	image.RegisterFormat("ppm", ppmMagic, decodePPMImage, decodePPMConfig)
}

type ppmHeader struct {
	width, height, maxval int
}

// readPPMHeader parses "P6 <w> <h> <maxval>" followed by exactly one
// whitespace byte. Comments run from '#' to the end of the line.
func readPPMHeader(br *bufio.Reader) (ppmHeader, error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(br, magic); err != nil {
		return ppmHeader{}, fmt.Errorf("%w: %w", ErrPPM, err)
	}
	if string(magic) != ppmMagic {
		return ppmHeader{}, fmt.Errorf("%w: magic %q", ErrPPM, magic)
	}

	var fields [3]int
	for i := range fields {
		n, err := readPPMInt(br)
		if err != nil {
			return ppmHeader{}, err
		}
		fields[i] = n
	}
	// Single whitespace byte between header and raster.
	if _, err := br.ReadByte(); err != nil {
		return ppmHeader{}, fmt.Errorf("%w: %w", ErrPPM, err)
	}

	h := ppmHeader{width: fields[0], height: fields[1], maxval: fields[2]}
	if h.maxval < 1 || h.maxval > 65535 {
		return ppmHeader{}, fmt.Errorf("%w: maxval %d", ErrPPM, h.maxval)
	}
	if h.width == 0 || h.height == 0 {
		return ppmHeader{}, ErrEmptyImage
	}
	if h.width > MaxPPMPixels/h.height {
		return ppmHeader{}, fmt.Errorf("%w: dimensions %dx%d exceed %d pixels", ErrPPM, h.width, h.height, MaxPPMPixels)
	}
	return h, nil
}

func readPPMInt(br *bufio.Reader) (int, error) {
	var digits []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if len(digits) > 0 && errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("%w: header: %w", ErrPPM, err)
		}
		switch {
		case c == '#' && len(digits) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("%w: header: %w", ErrPPM, err)
			}
		case isPPMSpace(c):
			if len(digits) > 0 {
				// Leave the delimiter for the caller; the last field's
				// delimiter is the single separator byte.
				if err := br.UnreadByte(); err != nil {
					return 0, err
				}
				return parsePPMInt(digits)
			}
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		default:
			return 0, fmt.Errorf("%w: unexpected byte %q in header", ErrPPM, c)
		}
	}
	return parsePPMInt(digits)
}

func parsePPMInt(digits []byte) (int, error) {
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPPM, err)
	}
	return n, nil
}

func isPPMSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// readPPMRaster calls set for every pixel with samples normalized to [0, 1].
func readPPMRaster(br *bufio.Reader, h ppmHeader, set func(x, y int, r, g, b float64)) error {
	bps := 1
	if h.maxval > 255 {
		bps = 2
	}
	inv := 1 / float64(h.maxval)
	row := make([]byte, h.width*3*bps)
	for y := range h.height {
		if _, err := io.ReadFull(br, row); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrPPM, y, err)
		}
		for x := range h.width {
			var s [3]float64
			for c := range s {
				i := (x*3 + c) * bps
				v := int(row[i])
				if bps == 2 {
					v = v<<8 | int(row[i+1])
				}
				s[c] = float64(v) * inv
			}
			set(x, y, s[0], s[1], s[2])
		}
	}
	return nil
}

// DecodePPM reads a binary (P6) portable pixmap into a new buffer. Samples
// are scaled by 1/maxval; values above maxval are clamped to 1.
func DecodePPM(r io.Reader) (*pixel.Buffer, error) {
	br := bufio.NewReader(r)
	h, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}
	buf := pixel.NewBuffer(h.width, h.height)
	err = readPPMRaster(br, h, func(x, y int, r, g, b float64) {
		buf.Set(x, y, pixel.Pixel{R: r, G: g, B: b})
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodePPM writes buf as a binary (P6) portable pixmap with maxval 255.
func EncodePPM(w io.Writer, buf *pixel.Buffer) error {
	if buf.Empty() {
		return ErrEmptyImage
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n255\n", ppmMagic, buf.Width(), buf.Height()); err != nil {
		return err
	}
	row := make([]byte, buf.Width()*3)
	for y := range buf.Height() {
		for x := range buf.Width() {
			p := buf.At(x, y)
			row[x*3] = to8(p.R)
			row[x*3+1] = to8(p.G)
			row[x*3+2] = to8(p.B)
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func to8(v float64) uint8 {
	return uint8(pixel.Clamp(v)*255 + 0.5)
}

// decodePPMImage is the image.Decode hook for "P6" streams.
func decodePPMImage(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA64(image.Rect(0, 0, h.width, h.height))
	err = readPPMRaster(br, h, func(x, y int, r, g, b float64) {
		img.SetNRGBA64(x, y, color.NRGBA64{R: to16(r), G: to16(g), B: to16(b), A: 0xffff})
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func decodePPMConfig(r io.Reader) (image.Config, error) {
	h, err := readPPMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBA64Model, Width: h.width, Height: h.height}, nil
}
