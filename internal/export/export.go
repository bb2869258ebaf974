// Package export encodes rasters produced by the surface.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is a raster encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported encodings, PNG first.
var Formats = []Format{PNG, BMP, TIFF}

// ParseFormat accepts a format name or file extension. An empty string
// selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file name, falling back to def when
// the extension is not recognised.
func FormatForPath(path string, def Format) Format {
	if ext := filepath.Ext(path); ext != "" {
		if f, err := ParseFormat(ext); err == nil {
			return f
		}
	}
	return def
}

// MIME returns the media type of f.
func (f Format) MIME() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	}
	return "image/png"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	if img == nil {
		return errors.New("nil image")
	}
	switch f {
	case PNG, "":
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Bytes encodes img into a byte slice.
func Bytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL encodes img as a base64 data URL.
func DataURL(img image.Image, f Format) (string, error) {
	b, err := Bytes(img, f)
	if err != nil {
		return "", err
	}
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

// Decode reads a PNG, BMP, TIFF, JPEG or GIF image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}
