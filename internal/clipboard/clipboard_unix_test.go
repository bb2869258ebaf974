//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"sync"
	"testing"
)

func resetInit(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
	})
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	resetInit(t)

	err := WriteText("data:image/png;base64,AAAA")
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestImageWithoutDisplay(t *testing.T) {
	resetInit(t)

	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 2, 2))); !errors.Is(err, errNoDisplay) {
		t.Fatalf("WriteImage: expected errNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadImage: expected errNoDisplay, got %v", err)
	}
	if _, err := ReadText(); !errors.Is(err, errNoDisplay) {
		t.Fatalf("ReadText: expected errNoDisplay, got %v", err)
	}
}
