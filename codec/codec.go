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

// Package codec converts between encoded images and pixel.Buffer.
//
// Decoding accepts every format registered with the image package: JPEG,
// PNG and GIF from the standard library, BMP, TIFF and WebP from
// golang.org/x/image, and binary PPM (P6) from this package. JPEG EXIF
// orientation is applied on decode. Encoding supports PPM, JPEG, PNG, GIF,
// TIFF and BMP.
//
// A ".zst" suffix on a path wraps the stream in zstd compression, so
// "out.ppm.zst" is a zstd-compressed PPM.
//
// Failures are always reported: a file that cannot be decoded or holds no
// pixels returns an error rather than an empty buffer.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/klauspost/compress/zstd"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ajroetker/go-histeq/pixel"
)

var (
	// ErrEmptyImage is returned for images without pixels.
	ErrEmptyImage = errors.New("codec: empty image")

	// ErrUnsupportedFormat is returned for formats that cannot be encoded
	// or file extensions that name no known format.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

const zstdExt = ".zst"

// JPEGQuality is the quality used when saving JPEG files.
const JPEGQuality = 95

// Decode reads an image in any registered format and converts it to a
// buffer.
func Decode(r io.Reader) (*pixel.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	buf := FromImage(img)
	if buf.Empty() {
		return nil, ErrEmptyImage
	}
	return buf, nil
}

// Encode writes buf to w in the named format ("ppm", "jpg", "png", ...).
func Encode(w io.Writer, buf *pixel.Buffer, format string) error {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "ppm" {
		return EncodePPM(w, buf)
	}
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if buf.Empty() {
		return ErrEmptyImage
	}
	return imaging.Encode(w, ToImage(buf), f, imaging.JPEGQuality(JPEGQuality))
}

// Open decodes the image file at path.
func Open(path string) (buf *pixel.Buffer, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if isZstd(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("codec: %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	buf, err = Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Save encodes buf into path, picking the format from the extension.
func Save(path string, buf *pixel.Buffer) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !isZstd(path) {
		return Encode(f, buf, format)
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("codec: %s: %w", path, err)
	}
	if err := Encode(enc, buf, format); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// FormatOf returns the format name of path's extension, ignoring a
// trailing ".zst".
func FormatOf(path string) (string, error) {
	base := path
	if isZstd(path) {
		base = path[:len(path)-len(zstdExt)]
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "ppm" {
		return ext, nil
	}
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
	return ext, nil
}

func isZstd(path string) bool {
	return strings.EqualFold(filepath.Ext(path), zstdExt)
}

// FromImage converts img to a buffer with channels scaled to [0, 1].
// Alpha is ignored.
func FromImage(img image.Image) *pixel.Buffer {
	b := img.Bounds()
	buf := pixel.NewBuffer(b.Dx(), b.Dy())
	const inv = 1.0 / 0xffff
	for y := range buf.Height() {
		for x := range buf.Width() {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			buf.Set(x, y, pixel.Pixel{
				R: float64(r) * inv,
				G: float64(g) * inv,
				B: float64(bl) * inv,
			})
		}
	}
	return buf
}

// ToImage converts buf to an opaque 16-bit image.
func ToImage(buf *pixel.Buffer) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, buf.Width(), buf.Height()))
	for y := range buf.Height() {
		for x := range buf.Width() {
			p := buf.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{R: to16(p.R), G: to16(p.G), B: to16(p.B), A: 0xffff})
		}
	}
	return img
}

func to16(v float64) uint16 {
	return uint16(pixel.Clamp(v)*0xffff + 0.5)
}
