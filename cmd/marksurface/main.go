package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/config"
	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/mask"
	"github.com/example/marksurface/internal/notify"
	"github.com/example/marksurface/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	logLevel     string
	envFile      string
	activeTheme  *theme.Theme
	stdout       io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("marksurface", flag.ExitOnError),
		program: "marksurface",
		stdout:  os.Stdout,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after exporting a mask or frame")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > .env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+" or a file path)")
	r.fs.StringVar(&r.logLevel, "log-level", "warning", "log level (debug, info, warning, error)")
	r.fs.StringVar(&r.envFile, "env-file", "", "dotenv file with MARKSURFACE_* overrides")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	level, err := logrus.ParseLevel(r.logLevel)
	if err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	logrus.SetLevel(level)

	loader := config.NewLoader(version, configPathOverride)
	loader.EnvFile = r.envFile
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg

	// Flags only override the config when given explicitly.
	exportAlerts, copyAlerts := cfg.Notify.Export, cfg.Notify.Copy
	r.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "notify-export":
			exportAlerts = r.exportAlerts
		case "notify-copy":
			copyAlerts = r.copyAlerts
		}
	})
	r.notifier = notify.New(notify.LoadPreferences(os.LookupEnv))
	r.notifier.Enable(notify.EventExport, exportAlerts)
	r.notifier.Enable(notify.EventCopy, copyAlerts)

	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "mask":
		cmd, err = parseMaskCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "themes":
		cmd = &themesCmd{r: r}
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the configured theme: a [theme.NAME] block of the rc
// file first, then the theme loader.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.cfg().Theme
	}
	if t, ok := r.cfg().Themes[strings.ToLower(name)]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// cfg returns the loaded configuration, or defaults when none was loaded.
func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func (r *root) theme() *theme.Theme {
	if r == nil || r.activeTheme == nil {
		return theme.Default()
	}
	return r.activeTheme
}

func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

// engineOptions builds engine settings from the configuration. feather
// overrides the configured mask feather when non-negative.
func (r *root) engineOptions(feather int) ([]engine.Option, error) {
	cfg := r.cfg()
	paint, preserve, err := cfg.MaskColors()
	if err != nil {
		return nil, err
	}
	if feather < 0 {
		feather = cfg.Mask.Feather
	}
	return []engine.Option{
		engine.WithHistoryLimit(cfg.HistoryLimit),
		engine.WithTool(cfg.Tool),
		engine.WithView(cfg.ViewState()),
		engine.WithTheme(r.theme()),
		engine.WithCompositor(mask.New(mask.WithColors(paint, preserve), mask.WithFeather(feather))),
	}, nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyExport(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Export(path, nil)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
