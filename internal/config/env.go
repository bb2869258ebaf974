package config

import "fmt"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARKSURFACE_"

// envKeys maps environment variables to the rc section and key they set.
var envKeys = []struct {
	name, section, key string
}{
	{"THEME", "", "theme"},
	{"OUTPUT_DIR", "", "output_dir"},
	{"HISTORY_LIMIT", "history", "limit"},
	{"TOOL_SIZE", "tool", "size"},
	{"TOOL_COLOR", "tool", "color"},
	{"TOOL_OPACITY", "tool", "opacity"},
	{"TOOL_SMOOTHING", "tool", "smoothing"},
	{"TOOL_PRESSURE", "tool", "pressure"},
	{"VIEW_FIT", "view", "fit"},
	{"VIEW_ZOOM", "view", "zoom"},
	{"MASK_PAINT", "mask", "paint"},
	{"MASK_PRESERVE", "mask", "preserve"},
	{"MASK_FORMAT", "mask", "format"},
	{"MASK_FEATHER", "mask", "feather"},
	{"NOTIFY_EXPORT", "notify", "export"},
	{"NOTIFY_COPY", "notify", "copy"},
}

// EnvNames lists the recognised environment variables.
func EnvNames() []string {
	names := make([]string, len(envKeys))
	for i, k := range envKeys {
		names[i] = EnvPrefix + k.name
	}
	return names
}

// ApplyEnv overrides fields from the variables lookup reports. Empty values
// are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, k := range envKeys {
		v, ok := lookup(EnvPrefix + k.name)
		if !ok || v == "" {
			continue
		}
		if err := c.set(k.section, k.key, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, k.name, err)
		}
	}
	return nil
}
