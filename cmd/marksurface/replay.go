package main

import (
	"flag"
	"fmt"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/scene"
)

type replayCmd struct {
	*root
	fs       *flag.FlagSet
	script   string
	sceneOut string
	maskOut  string
	layer    string
}

func (c *replayCmd) Program() string        { return c.root.program + " replay" }
func (c *replayCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.script, "script", "", "input script to replay")
	fs.StringVar(&c.sceneOut, "scene", "", "write the resulting scene here")
	fs.StringVar(&c.maskOut, "mask", "", "write the mask of -layer here")
	fs.StringVar(&c.layer, "layer", "", "layer id for -mask (default: active layer, then first mask layer)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.script == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	s, err := scene.LoadScriptFile(c.script)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	opts, err := c.engineOptions(-1)
	if err != nil {
		return err
	}
	e := engine.New(opts...)
	if err := s.Replay(e); err != nil {
		return fmt.Errorf("replay %s: %w", c.script, err)
	}

	st := e.State()
	elements := 0
	for _, l := range st.Layers {
		elements += len(l.Elements)
	}
	fmt.Fprintf(c.out(), "layers=%d elements=%d history=%d\n", len(st.Layers), elements, len(e.History()))

	if c.sceneOut != "" {
		if err := scene.Capture(e).SaveFile(c.outputPath(c.sceneOut)); err != nil {
			return fmt.Errorf("failed to save scene: %w", err)
		}
	}
	if c.maskOut != "" {
		layerID, err := pickLayer(st, c.layer)
		if err != nil {
			return err
		}
		img, err := exportMask(e, layerID, sizeFlag{})
		if err != nil {
			return fmt.Errorf("failed to export mask: %w", err)
		}
		if err := c.writeImage(c.outputPath(c.maskOut), img, ""); err != nil {
			return err
		}
	}
	return nil
}
