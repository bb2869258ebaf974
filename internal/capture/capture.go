// Package capture grabs a desktop screenshot to use as media.
package capture

import (
	"errors"
	"image"
)

// ErrUnsupported is returned where no screenshot backend exists.
var ErrUnsupported = errors.New("screen capture is not supported on this platform")

// Options tunes the screenshot request.
type Options struct {
	// Interactive lets the desktop ask the user which area to capture.
	Interactive bool
	// IncludeCursor embeds the pointer in the image.
	IncludeCursor bool
}

var screenshotFn = portalScreenshot

// Screenshot asks the desktop for a screenshot.
func Screenshot(opts Options) (*image.RGBA, error) {
	return screenshotFn(opts)
}
