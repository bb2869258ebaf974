package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"

	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/history"
	"github.com/example/marksurface/internal/surface"
	"github.com/example/marksurface/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Mask holds mask export settings.
type Mask struct {
	Paint    string
	Preserve string
	Format   string
	Feather  int
}

// View holds the initial view of new surfaces.
type View struct {
	Fit  geom.FitMode
	Zoom float64
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	OutputDir    string
	HistoryLimit int
	Tool         surface.ToolConfig
	View         View
	Mask         Mask
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // Default to empty to allow fallback to Env/Default
		HistoryLimit: history.DefaultLimit,
		Tool:         surface.DefaultTool(),
		View:         View{Fit: geom.FitContain, Zoom: 1},
		Mask:         Mask{Paint: "#FFFFFF", Preserve: "#000000", Format: string(export.PNG)},
		Themes:       make(map[string]*theme.Theme),
	}
}

// ViewState returns the configured initial view.
func (c *Config) ViewState() geom.ViewState {
	v := geom.DefaultView()
	if c.View.Fit != "" {
		v.Fit = c.View.Fit
	}
	return v.WithZoom(c.View.Zoom)
}

// MaskColors parses the paint and preserve colours.
func (c *Config) MaskColors() (paint, preserve color.RGBA, err error) {
	if paint, err = theme.ParseColor(c.Mask.Paint); err != nil {
		return paint, preserve, fmt.Errorf("mask paint: %w", err)
	}
	if preserve, err = theme.ParseColor(c.Mask.Preserve); err != nil {
		return paint, preserve, fmt.Errorf("mask preserve: %w", err)
	}
	return paint, preserve, nil
}

// MaskFormat parses the export format.
func (c *Config) MaskFormat() (export.Format, error) {
	return export.ParseFormat(c.Mask.Format)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir = %s\n", c.OutputDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n\n", c.HistoryLimit)

	sb.WriteString("[tool]\n")
	fmt.Fprintf(&sb, "size = %g\n", c.Tool.Size)
	fmt.Fprintf(&sb, "color = %s\n", c.Tool.Color)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Tool.Opacity)
	fmt.Fprintf(&sb, "smoothing = %g\n", c.Tool.Smoothing)
	fmt.Fprintf(&sb, "pressure = %v\n\n", c.Tool.PressureSensitive)

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "fit = %s\n", c.View.Fit)
	fmt.Fprintf(&sb, "zoom = %g\n\n", c.View.Zoom)

	sb.WriteString("[mask]\n")
	fmt.Fprintf(&sb, "paint = %s\n", c.Mask.Paint)
	fmt.Fprintf(&sb, "preserve = %s\n", c.Mask.Preserve)
	fmt.Fprintf(&sb, "format = %s\n", c.Mask.Format)
	fmt.Fprintf(&sb, "feather = %d\n\n", c.Mask.Feather)

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		writeTheme(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeTheme emits every colour and size field of t in declaration order.
func writeTheme(sb *strings.Builder, t *theme.Theme) {
	fmt.Fprintf(sb, "Name: %s\n", t.Name)
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i)
		switch v := f.Interface().(type) {
		case color.RGBA:
			fmt.Fprintf(sb, "%s: %s\n", typ.Field(i).Name, theme.Hex(v))
		case float64:
			fmt.Fprintf(sb, "%s: %g\n", typ.Field(i).Name, v)
		}
	}
}
