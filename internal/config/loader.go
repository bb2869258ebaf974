package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
	EnvFile      string // Dotenv file read before the process environment

	// Getenv looks up process environment variables. Nil means os.LookupEnv.
	Getenv func(string) (string, bool)
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the rc file, then applies the dotenv file and the process
// environment on top of it. Later sources win.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		cfg, err = Parse(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", path).Debug("config loaded")
	}

	dotenv, err := l.readEnvFile()
	if err != nil {
		return nil, err
	}
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}
	err = cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEnvFile returns the variables of the dotenv file. A missing default
// file is not an error; a missing explicit one is.
func (l *Loader) readEnvFile() (map[string]string, error) {
	path := l.EnvFile
	explicit := path != ""
	if !explicit {
		if l.Version != "dev" {
			return nil, nil
		}
		wd, _ := os.Getwd()
		path = filepath.Join(wd, ".env")
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	logrus.WithField("path", path).Debug("env file loaded")
	return vars, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".marksurfacerc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	home, _ := os.UserHomeDir()
	xdgPath := filepath.Join(home, ".config", "marksurface", "config.rc")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	return ""
}

// DefaultPath is where "config save" writes when no path is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "marksurface", "config.rc"), nil
}

// Save writes cfg to path in rc format.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}
