package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Loader resolves theme names to themes.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a Loader using the user config dir and the shared
// system theme dir.
func NewLoader() *Loader {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return &Loader{
		ConfigDir: filepath.Join(dir, "marksurface", "themes"),
		SystemDir: "/usr/share/marksurface/themes",
	}
}

// Load resolves name, trying in order: a file path, the embedded themes,
// ConfigDir and SystemDir. An empty name returns Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return l.open(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	sources := []fs.FS{mustSub(EmbeddedThemes, "defaults")}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir != "" {
			sources = append(sources, os.DirFS(dir))
		}
	}
	for _, src := range sources {
		t, err := l.open(src, filename)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("theme '%s' not found", name)
}

func (l *Loader) open(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	logrus.WithField("theme", t.Name).Debug("loaded theme")
	return t, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
