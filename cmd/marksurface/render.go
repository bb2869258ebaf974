package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/render"
	"github.com/example/marksurface/internal/scene"
)

type renderCmd struct {
	*root
	fs     *flag.FlagSet
	scene  string
	media  string
	output string
	format string
	size   sizeFlag
	dump   bool
	time   *float64
}

func (c *renderCmd) Program() string        { return c.root.program + " render" }
func (c *renderCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.scene, "scene", "", "scene file to read")
	fs.StringVar(&c.media, "media", "", "image drawn beneath the annotations")
	fs.StringVar(&c.output, "o", "frame.png", "output file, - for stdout")
	fs.StringVar(&c.format, "format", "", "png, bmp or tiff (default: from extension)")
	fs.Var(&c.size, "size", "container size WxH (default: media size)")
	fs.BoolVar(&c.dump, "dump", false, "print the drawing operations instead of an image")
	fs.Func("time", "playback time in seconds used to filter timed elements", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		c.time = &v
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.scene == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	sc, err := scene.LoadFile(c.scene)
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	var media image.Image
	if c.media != "" {
		if media, err = loadImage(c.media); err != nil {
			return err
		}
		b := media.Bounds()
		sc.Media = geom.Dimensions{Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	container := sc.Media
	if c.size.set {
		container = c.size.Dimensions
	}
	if container.Degenerate() {
		return fmt.Errorf("no container size: pass -size or -media")
	}
	w, h := int(math.Round(container.Width)), int(math.Round(container.Height))

	var canvas render.Canvas
	if c.dump {
		canvas = render.NewRecorder(w, h)
	} else {
		canvas = render.NewRaster(w, h)
	}
	opts, err := c.engineOptions(-1)
	if err != nil {
		return err
	}
	e := engine.New(append(opts, engine.WithCanvas(canvas))...)
	sc.Apply(e)
	e.SetTime(c.time)
	e.Resize(container)

	if rec, ok := canvas.(*render.Recorder); ok {
		rec.Reset()
		e.Render()
		_, err := rec.WriteTo(c.out())
		return err
	}

	overlay, err := e.Handle().Frame()
	if err != nil {
		return err
	}
	out := compose(media, overlay, e.Transform())
	var format export.Format
	if c.format != "" {
		if format, err = export.ParseFormat(c.format); err != nil {
			return err
		}
	}
	return c.writeImage(c.outputPath(c.output), out, format)
}

// compose scales media into the transform's rect and draws overlay on top.
func compose(media image.Image, overlay *image.RGBA, t geom.Transform) *image.RGBA {
	if media == nil || !t.Valid() {
		return overlay
	}
	out := image.NewRGBA(overlay.Bounds())
	r := t.Rect()
	dr := image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
	xdraw.CatmullRom.Scale(out, dr, media, media.Bounds(), draw.Src, nil)
	draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return out
}
