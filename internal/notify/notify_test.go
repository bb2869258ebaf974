package notify

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/marksurface/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recording(n *Notifier) *[]sent {
	var got []sent
	n.WithSender(func(title, body string, opts platform.Options) error {
		if opts.IconPath != "" {
			if _, err := os.Stat(opts.IconPath); err != nil {
				body += " (missing icon)"
			}
		}
		got = append(got, sent{title, body, opts})
		return nil
	})
	return &got
}

func TestDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	got := recording(n)
	n.Export("mask.png", nil)
	n.Copy("mask")
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %v", *got)
	}
}

func TestExportUsesFileAsIcon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	got := recording(n)
	n.Export(path, nil)
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if s.title != "marksurface" || s.body != "Exported "+path {
		t.Errorf("unexpected notification %+v", s)
	}
	if s.opts.IconPath != path {
		t.Errorf("icon = %q, want %q", s.opts.IconPath, path)
	}
}

func TestExportPreview(t *testing.T) {
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	got := recording(n)
	n.Export(filepath.Join(t.TempDir(), "gone.png"), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	s := (*got)[0]
	if !strings.Contains(s.opts.IconPath, "marksurface-preview-") || strings.Contains(s.body, "missing icon") {
		t.Errorf("expected a live preview icon, got %+v", s)
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Errorf("preview should be removed after dispatch, stat err %v", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"MARKSURFACE_NOTIFY_TITLE":     "Masks",
		"MARKSURFACE_NOTIFY_COPY_TEXT": "Clipboard has %s",
	}
	prefs := LoadPreferences(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	n := New(prefs)
	n.Enable(EventCopy, true)
	got := recording(n)
	n.Copy("")
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	if s := (*got)[0]; s.title != "Masks" || s.body != "Clipboard has image" || s.opts.AppName != "Masks" {
		t.Errorf("unexpected notification %+v", s)
	}
}
