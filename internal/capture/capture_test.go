package capture

import (
	"errors"
	"image"
	"testing"
)

func TestScreenshotUsesBackend(t *testing.T) {
	prev := screenshotFn
	t.Cleanup(func() { screenshotFn = prev })

	var seen Options
	screenshotFn = func(o Options) (*image.RGBA, error) {
		seen = o
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}
	img, err := Screenshot(Options{Interactive: true})
	if err != nil || img.Bounds().Dx() != 4 {
		t.Fatalf("Screenshot = %v, %v", img, err)
	}
	if !seen.Interactive {
		t.Fatal("options not passed through")
	}

	screenshotFn = func(Options) (*image.RGBA, error) { return nil, ErrUnsupported }
	if _, err := Screenshot(Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v", err)
	}
}
