// Package clipboard publishes exported masks and frames to the system
// clipboard as PNG images, or as data URL text.
package clipboard

import (
	"bytes"
	"errors"
	"image"

	"github.com/example/marksurface/internal/export"
)

var (
	ErrNoImage = errors.New("clipboard does not contain image data")
	ErrNoText  = errors.New("clipboard does not contain text data")
)

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	data, err := export.Bytes(img, export.PNG)
	if err != nil {
		return err
	}
	return writePNG(data)
}

// ReadImage decodes the PNG held by the clipboard.
func ReadImage() (image.Image, error) {
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return export.Decode(bytes.NewReader(data))
}

// WriteText writes UTF-8 text to the clipboard.
func WriteText(text string) error {
	return writeText([]byte(text))
}

// ReadText returns the UTF-8 text held by the clipboard.
func ReadText() (string, error) {
	data, err := readText()
	if err != nil {
		return "", err
	}
	// Some applications include a trailing NUL in STRING responses.
	data = bytes.TrimSuffix(data, []byte{0})
	if len(data) == 0 {
		return "", ErrNoText
	}
	return string(data), nil
}
