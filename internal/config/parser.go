package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil

			if name, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		sep := "="
		if !strings.Contains(line, "=") {
			sep = ":"
		}
		key, value, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		if currentTheme != nil {
			if err := setThemeField(currentTheme, key, value); err != nil {
				return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
			}
			continue
		}
		if err := cfg.set(currentSection, key, value); err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

// set assigns one key of a section. Unknown sections and keys are ignored
// for forward compatibility.
func (c *Config) set(section, key, value string) error {
	key = strings.ToLower(key)
	switch section {
	case "":
		switch key {
		case "theme":
			c.Theme = value
		case "output_dir":
			c.OutputDir = value
		}
	case "history":
		if key == "limit" {
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid history limit %q", value)
			}
			c.HistoryLimit = n
		}
	case "tool":
		return c.setTool(key, value)
	case "view":
		switch key {
		case "fit":
			f, err := geom.ParseFitMode(value)
			if err != nil {
				return err
			}
			c.View.Fit = f
		case "zoom":
			z, err := parseFloat(key, value)
			if err != nil {
				return err
			}
			c.View.Zoom = geom.ClampZoom(z)
		}
	case "mask":
		switch key {
		case "paint", "preserve":
			if _, err := theme.ParseColor(value); err != nil {
				return fmt.Errorf("invalid color for key %s: %w", key, err)
			}
			if key == "paint" {
				c.Mask.Paint = value
			} else {
				c.Mask.Preserve = value
			}
		case "format":
			f, err := export.ParseFormat(value)
			if err != nil {
				return err
			}
			c.Mask.Format = string(f)
		case "feather":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid feather radius %q", value)
			}
			c.Mask.Feather = n
		}
	case "notify":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		switch key {
		case "export":
			c.Notify.Export = b
		case "copy":
			c.Notify.Copy = b
		}
	}
	return nil
}

func (c *Config) setTool(key, value string) error {
	switch key {
	case "color":
		if _, err := theme.ParseColor(value); err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		c.Tool.Color = value
	case "pressure":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		c.Tool.PressureSensitive = b
	case "size", "opacity", "smoothing":
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		if f < 0 || (key != "size" && f > 1) || (key == "size" && f == 0) {
			return fmt.Errorf("%s out of range: %v", key, f)
		}
		switch key {
		case "size":
			c.Tool.Size = f
		case "opacity":
			c.Tool.Opacity = f
		case "smoothing":
			c.Tool.Smoothing = f
		}
	}
	return nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	val := reflect.ValueOf(t).Elem()

	// Case-insensitive field lookup
	field := val.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, key) })
	if !field.IsValid() {
		return nil // Ignore unknown fields
	}

	switch field.Type() {
	case reflect.TypeOf(color.RGBA{}):
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		field.Set(reflect.ValueOf(col))
	case reflect.TypeOf(float64(0)):
		f, err := parseFloat(key, value)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	}
	return nil
}
