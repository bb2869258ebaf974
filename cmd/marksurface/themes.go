package main

import (
	"flag"
	"fmt"

	"github.com/example/marksurface/internal/theme"
)

type themesCmd struct{ r *root }

func (c *themesCmd) Program() string        { return c.r.program + " themes" }
func (c *themesCmd) FlagSet() *flag.FlagSet { return nil }

// Run lists the embedded themes and the ones defined in the rc file.
func (c *themesCmd) Run() error {
	for _, name := range theme.Names() {
		fmt.Fprintln(c.r.out(), name)
	}
	for name := range c.r.cfg().Themes {
		fmt.Fprintf(c.r.out(), "%s (config)\n", name)
	}
	return nil
}
