package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}},
		{"#00ff0080", color.RGBA{0, 255, 0, 128}},
		{"#fff", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"#12345", "notacolour", "#GGGGGG"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) expected error", bad)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {0xAA, 0xBB, 0xCC, 0x40}} {
		got, err := ParseColor(Hex(c))
		if err != nil || got != c {
			t.Fatalf("Hex round trip %v -> %q -> %v (%v)", c, Hex(c), got, err)
		}
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	src := "# comment\nName: Test\nPoint: #00FF00\nPointSize: 12\nUnknown: #000000\n"
	th, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" || th.Point != (color.RGBA{0, 255, 0, 255}) || th.PointSize != 12 {
		t.Fatalf("unexpected theme %+v", th)
	}
	if th.Label != Default().Label {
		t.Fatal("unset field lost its default")
	}
	if _, err := Parse(strings.NewReader("Point: nope\n")); err == nil {
		t.Fatal("expected error for bad colour")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := &Loader{}
	names := Names()
	if len(names) < 3 {
		t.Fatalf("expected embedded themes, got %v", names)
	}
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			t.Fatalf("Load(%q): %v", n, err)
		}
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("mine")
	if err != nil || th.Name != "Mine" {
		t.Fatalf("Load(mine) = %+v, %v", th, err)
	}
	th, err = l.Load(filepath.Join(dir, "mine.theme"))
	if err != nil || th.Name != "Mine" {
		t.Fatalf("Load(path) = %+v, %v", th, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatal("expected error for missing theme")
	}
}
