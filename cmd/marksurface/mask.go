package main

import (
	"flag"
	"fmt"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/scene"
)

type maskCmd struct {
	*root
	fs      *flag.FlagSet
	scene   string
	layer   string
	output  string
	format  string
	feather int
	size    sizeFlag
	copy    bool
	dataURL bool
}

func (c *maskCmd) Program() string        { return c.root.program + " mask" }
func (c *maskCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	c := &maskCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.scene, "scene", "", "scene file to read")
	fs.StringVar(&c.layer, "layer", "", "layer id (default: active layer, then first mask layer)")
	fs.StringVar(&c.output, "o", "", "output file, - for stdout")
	fs.StringVar(&c.format, "format", "", "png, bmp or tiff (default: from extension or config)")
	fs.IntVar(&c.feather, "feather", -1, "edge softening radius in pixels (default: config)")
	fs.Var(&c.size, "size", "mask size WxH (default: media size)")
	fs.BoolVar(&c.copy, "copy", false, "copy the mask to the clipboard")
	fs.BoolVar(&c.dataURL, "data-url", false, "print the mask as a data URL (copied as text with -copy)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.scene == "" {
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.copy && !c.dataURL {
		return nil, fmt.Errorf("nothing to do: give -o, -copy or -data-url")
	}
	return c, nil
}

func (c *maskCmd) Run() error {
	sc, err := scene.LoadFile(c.scene)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	opts, err := c.engineOptions(c.feather)
	if err != nil {
		return err
	}
	e := engine.New(opts...)
	sc.Apply(e)

	layerID, err := pickLayer(e.State(), c.layer)
	if err != nil {
		return err
	}
	if !c.size.set && e.Media().Degenerate() {
		return fmt.Errorf("scene has no media size; pass -size")
	}
	img, err := exportMask(e, layerID, c.size)
	if err != nil {
		return fmt.Errorf("failed to export mask: %w", err)
	}

	format, err := c.resolveFormat()
	if err != nil {
		return err
	}
	if c.output != "" {
		if err := c.writeImage(c.outputPath(c.output), img, format); err != nil {
			return err
		}
	}
	if c.dataURL {
		if format == "" {
			format = export.PNG
		}
		url, err := export.DataURL(img, format)
		if err != nil {
			return err
		}
		if c.copy {
			if err := copyTextFn(url); err != nil {
				return fmt.Errorf("failed to copy data URL: %w", err)
			}
			c.notifyCopy("mask data URL")
			return nil
		}
		fmt.Fprintln(c.out(), url)
	}
	if c.copy {
		if err := copyImageFn(img); err != nil {
			return fmt.Errorf("failed to copy mask: %w", err)
		}
		c.notifyCopy("mask")
	}
	return nil
}

// resolveFormat returns the forced format, or "" to follow the output
// extension with the configured format as fallback.
func (c *maskCmd) resolveFormat() (export.Format, error) {
	if c.format != "" {
		return export.ParseFormat(c.format)
	}
	if c.output == "-" || c.output == "" {
		return c.cfg().MaskFormat()
	}
	def, err := c.cfg().MaskFormat()
	if err != nil {
		return "", err
	}
	return export.FormatForPath(c.output, def), nil
}
