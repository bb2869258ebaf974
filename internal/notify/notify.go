// Package notify announces finished exports and clipboard copies through
// desktop notifications.
package notify

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires when a mask or frame is written to disk.
	EventExport Event = "export"
	// EventCopy fires when a mask or frame is copied to the clipboard.
	EventCopy Event = "copy"
)

// Preferences describes notification text.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "marksurface",
		Templates: map[Event]string{
			EventExport: "Exported %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

// LoadPreferences applies MARKSURFACE_NOTIFY_TITLE and the per-event
// MARKSURFACE_NOTIFY_<EVENT>_TEXT templates from lookup.
func LoadPreferences(lookup func(string) (string, bool)) Preferences {
	prefs := DefaultPreferences()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	if v := get("MARKSURFACE_NOTIFY_TITLE"); v != "" {
		prefs.Title = v
	}
	for _, ev := range []Event{EventExport, EventCopy} {
		if v := get("MARKSURFACE_NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"); v != "" {
			prefs.Templates[ev] = v
		}
	}
	return prefs
}

// Sender delivers one notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
	log     logrus.FieldLogger
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	prefs.Templates = maps.Clone(prefs.Templates)
	return &Notifier{
		prefs:   prefs,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     logrus.StandardLogger(),
	}
}

// WithSender replaces the platform delivery, mainly for tests.
func (n *Notifier) WithSender(s Sender) *Notifier {
	n.send = s
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export announces a written file. The file itself is the icon when it is
// an image; otherwise img, when given, is written to a temporary preview.
func (n *Notifier) Export(path string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	if opts.IconPath == "" && img != nil {
		preview, cleanup, err := createPreview(img)
		if err != nil {
			n.log.WithError(err).Warn("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = preview
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Templates[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("notification failed")
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "marksurface-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := export.Encode(f, img, export.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logrus.WithError(err).Debug("remove preview")
		}
	}
	return path, cleanup, nil
}
