package main

import (
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/marksurface/internal/capture"
	"github.com/example/marksurface/internal/scene"
	"github.com/example/marksurface/internal/surface"
	"github.com/example/marksurface/internal/viewer"
)

type viewCmd struct {
	*root
	fs            *flag.FlagSet
	media         string
	scene         string
	output        string
	saveScene     string
	mode          string
	fromClipboard bool
	fromScreen    bool
	pickArea      bool
}

func (c *viewCmd) Program() string        { return c.root.program + " view" }
func (c *viewCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	c := &viewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.media, "media", "", "image to annotate")
	fs.StringVar(&c.scene, "scene", "", "scene to load on start")
	fs.StringVar(&c.output, "o", "", "mask written by Ctrl+S (default: <media>-mask.png)")
	fs.StringVar(&c.saveScene, "save-scene", "", "scene written by Ctrl+Shift+S (default: -scene)")
	fs.StringVar(&c.mode, "mode", string(surface.ModeDraw), "initial mode ("+modeNames()+")")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	fs.BoolVar(&c.fromScreen, "from-screen", false, "annotate a fresh screenshot")
	fs.BoolVar(&c.pickArea, "pick", false, "let the desktop ask which area to capture (with -from-screen)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	sources := 0
	for _, set := range []bool{c.media != "", c.fromClipboard, c.fromScreen} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return nil, &UsageError{of: c}
	}
	if sources > 1 {
		return nil, fmt.Errorf("-media, -from-clipboard and -from-screen cannot be used together")
	}
	if c.fromClipboard && c.output == "" {
		return nil, fmt.Errorf("output file is required when reading from the clipboard")
	}
	if c.fromScreen && c.output == "" {
		return nil, fmt.Errorf("output file is required when capturing the screen")
	}
	if _, err := surface.ParseMode(c.mode); err != nil {
		return nil, err
	}
	return c, nil
}

func modeNames() string {
	names := make([]string, len(surface.Modes))
	for i, m := range surface.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// defaultMaskPath derives "<name>-mask.png" from the media path.
func defaultMaskPath(media string) string {
	base := filepath.Base(media)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-mask.png"
}

func (c *viewCmd) Run() error {
	img, err := c.loadMedia()
	if err != nil {
		return err
	}
	output := c.output
	if output == "" {
		output = defaultMaskPath(c.media)
	}
	scenePath := c.saveScene
	if scenePath == "" {
		scenePath = c.scene
	}
	format, err := c.cfg().MaskFormat()
	if err != nil {
		return err
	}
	opts, err := c.engineOptions(-1)
	if err != nil {
		return err
	}
	mode, _ := surface.ParseMode(c.mode)

	v := viewer.New(img,
		viewer.WithEngineOptions(opts...),
		viewer.WithTheme(c.theme()),
		viewer.WithOutput(c.outputPath(output)),
		viewer.WithScenePath(scenePath),
		viewer.WithFormat(format),
		viewer.WithNotifier(c.notifier),
		viewer.WithClipboard(copyImageFn),
	)
	if c.scene != "" {
		sc, err := scene.LoadFile(c.scene)
		if err != nil {
			return fmt.Errorf("failed to load scene: %w", err)
		}
		b := img.Bounds()
		if sc.Media.Width != float64(b.Dx()) || sc.Media.Height != float64(b.Dy()) {
			logrus.WithFields(logrus.Fields{"scene": sc.Media.String(), "media": b.Size().String()}).
				Warn("scene was drawn on media of a different size")
		}
		sc.Media.Width, sc.Media.Height = float64(b.Dx()), float64(b.Dy())
		sc.Apply(v.Engine())
	}
	v.Engine().SetMode(mode)
	v.Run()
	return nil
}

func (c *viewCmd) loadMedia() (image.Image, error) {
	if c.fromScreen {
		img, err := screenshotFn(capture.Options{Interactive: c.pickArea})
		if err != nil {
			return nil, fmt.Errorf("failed to capture screen: %w", err)
		}
		return img, nil
	}
	if c.fromClipboard {
		img, err := readImageFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, nil
	}
	return loadImage(c.media)
}
