//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/example/marksurface/internal/export"
)

func TestPortalOptions(t *testing.T) {
	prev := handleToken
	handleToken = func() string { return "tok" }
	t.Cleanup(func() { handleToken = prev })

	tests := []struct {
		name   string
		opts   Options
		cursor string
	}{
		{"defaults", Options{}, "hidden"},
		{"interactive with cursor", Options{Interactive: true, IncludeCursor: true}, "embedded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := portalOptions(tt.opts)
			if v := got["cursor_mode"].Value().(string); v != tt.cursor {
				t.Fatalf("cursor_mode %q want %q", v, tt.cursor)
			}
			if v := got["interactive"].Value().(bool); v != tt.opts.Interactive {
				t.Fatalf("interactive %v want %v", v, tt.opts.Interactive)
			}
			if v := got["handle_token"].Value().(string); v != "tok" {
				t.Fatalf("handle_token %q", v)
			}
		})
	}
}

func TestResponsePath(t *testing.T) {
	ok := []any{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/shot%201.png")}}
	p, err := responsePath(ok)
	if err != nil {
		t.Fatalf("responsePath: %v", err)
	}
	if p != "/tmp/shot 1.png" {
		t.Fatalf("path %q", p)
	}

	bad := map[string][]any{
		"short":     {uint32(0)},
		"cancelled": {uint32(1), map[string]dbus.Variant{}},
		"no uri":    {uint32(0), map[string]dbus.Variant{}},
		"http":      {uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("http://x/y.png")}},
	}
	for name, body := range bad {
		if _, err := responsePath(body); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadCaptureRemovesFile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := export.Encode(f, img, export.PNG); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := loadCapture(path)
	if err != nil {
		t.Fatalf("loadCapture: %v", err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", got.Bounds())
	}
	if c := got.RGBAAt(1, 1); c.R != 255 || c.A != 255 {
		t.Fatalf("pixel %v", c)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("capture file not removed: %v", err)
	}
}
