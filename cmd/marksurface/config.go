package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/marksurface/internal/config"
)

type configCmd struct {
	*root
	fs   *flag.FlagSet
	path string
}

func (c *configCmd) Program() string        { return c.root.program + " config" }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.path, "path", "", "file written by save (default: the loaded rc file or ~/.config/marksurface/config.rc)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Fprint(c.out(), c.cfg().String())
		return nil
	case "save":
		return c.runSave()
	case "env":
		for _, name := range config.EnvNames() {
			fmt.Fprintln(c.out(), name)
		}
		return nil
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	path := c.path
	if path == "" {
		// Save over the file that was loaded, if any
		path = config.NewLoader(version, configPathOverride).GetConfigPath()
	}
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to get user home dir: %w", err)
		}
		path = p
	}
	if err := config.Save(c.cfg(), path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
