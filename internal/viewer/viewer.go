// Package viewer hosts an annotation engine in a shiny window: it forwards
// mouse and keyboard input, composes the media with the live overlay and
// exports masks on request.
package viewer

import (
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/marksurface/internal/engine"
	"github.com/example/marksurface/internal/export"
	"github.com/example/marksurface/internal/geom"
	"github.com/example/marksurface/internal/notify"
	"github.com/example/marksurface/internal/render"
	"github.com/example/marksurface/internal/theme"
)

const (
	zoomStep        = 1.1
	messageDuration = 2 * time.Second
	maxWindowSide   = 1600
	minWindowSide   = 320
)

// Viewer is a window around one engine.
type Viewer struct {
	Media     image.Image
	Output    string // mask path written by Ctrl+S
	ScenePath string // scene path written by Ctrl+Shift+S
	Format    export.Format
	Title     string

	engine   *engine.Engine
	raster   *render.Raster
	theme    *theme.Theme
	notifier *notify.Notifier
	log      *logrus.Entry
	painter  painter

	engineOpts []engine.Option
	copyImage  func(image.Image) error

	message      string
	messageUntil time.Time

	onClose   func()
	closeOnce sync.Once
}

// Option modifies a Viewer during creation.
type Option func(*Viewer)

// WithEngineOptions configures the engine the viewer creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(v *Viewer) { v.engineOpts = append(v.engineOpts, opts...) }
}

// WithOutput sets the mask export path.
func WithOutput(path string) Option { return func(v *Viewer) { v.Output = path } }

// WithScenePath sets where Ctrl+Shift+S saves the scene.
func WithScenePath(path string) Option { return func(v *Viewer) { v.ScenePath = path } }

// WithFormat sets the encoding used when the output path has no known
// extension.
func WithFormat(f export.Format) Option { return func(v *Viewer) { v.Format = f } }

func WithTheme(t *theme.Theme) Option { return func(v *Viewer) { v.theme = t } }

func WithNotifier(n *notify.Notifier) Option { return func(v *Viewer) { v.notifier = n } }

func WithLogger(l *logrus.Entry) Option { return func(v *Viewer) { v.log = l } }

// WithClipboard replaces the clipboard writer used by Ctrl+C.
func WithClipboard(fn func(image.Image) error) Option {
	return func(v *Viewer) { v.copyImage = fn }
}

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) Option { return func(v *Viewer) { v.onClose = fn } }

// New creates a viewer for media. The engine is created immediately so
// callers can load a scene before Run.
func New(media image.Image, opts ...Option) *Viewer {
	v := &Viewer{
		Media:  media,
		Format: export.PNG,
		Title:  "marksurface",
		log:    logrus.WithField("component", "viewer"),
		theme:  theme.Default(),
	}
	for _, o := range opts {
		o(v)
	}
	if v.copyImage == nil {
		v.copyImage = copyToClipboard
	}
	v.raster = render.NewRaster(1, 1)
	eopts := append([]engine.Option{engine.WithTheme(v.theme)}, v.engineOpts...)
	eopts = append(eopts, engine.WithCanvas(v.raster))
	v.engine = engine.New(eopts...)
	b := media.Bounds()
	v.engine.MediaLoaded(geom.Dimensions{Width: float64(b.Dx()), Height: float64(b.Dy())})
	return v
}

// Engine returns the hosted engine.
func (v *Viewer) Engine() *engine.Engine { return v.engine }

// Run executes the UI loop using shiny's driver.
func (v *Viewer) Run() { driver.Main(v.Main) }

// initialSize fits the media plus status bar into a reasonable window.
func initialSize(media image.Rectangle) (int, int) {
	w, h := float64(media.Dx()), float64(media.Dy())
	if s := maxWindowSide / math.Max(w, h); s < 1 {
		w, h = w*s, h*s
	}
	return max(minWindowSide, int(w)), max(minWindowSide, int(h)) + statusHeight
}

func (v *Viewer) Main(s screen.Screen) {
	width, height := initialSize(v.Media.Bounds())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: v.Title})
	if err != nil {
		v.log.WithError(err).Error("new window")
		return
	}
	defer w.Release()
	defer v.notifyClose()

	v.resize(width, height)
	var in input
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				in.blur(v)
				w.Send(paint.Event{})
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			v.resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			v.paint(s, w, width, height)
		case mouse.Event:
			if in.mouse(v, e, height) {
				w.Send(paint.Event{})
			}
		case key.Event:
			a, ok := keyAction(e)
			if !ok {
				continue
			}
			if a == actQuit {
				return
			}
			v.do(a)
			w.Send(paint.Event{})
		case error:
			v.log.WithError(e).Warn("window event")
		}
	}
}

func (v *Viewer) resize(width, height int) {
	r := containerRect(width, height)
	v.engine.Resize(geom.Dimensions{Width: float64(r.Dx()), Height: float64(r.Dy())})
}

func (v *Viewer) paint(s screen.Screen, w screen.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		v.log.WithError(err).Warn("new buffer")
		return
	}
	defer b.Release()
	v.painter.compose(b.RGBA(), v.frame(width, height))
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func (v *Viewer) frame(width, height int) frame {
	t := v.engine.Transform()
	f := frame{
		width:   width,
		height:  height,
		media:   v.Media,
		overlay: v.raster.Image(),
		rect:    t.Rect(),
		rectOK:  t.Valid(),
		drawing: v.engine.Drawing(),
		status:  v.status(),
		theme:   v.theme,
	}
	if v.message != "" && time.Now().Before(v.messageUntil) {
		f.message = v.message
	}
	return f
}

func (v *Viewer) status() string {
	st := v.engine.State()
	layer := "no layer"
	if l, ok := st.ActiveLayer(); ok {
		layer = l.Name
		if l.Locked {
			layer += " (locked)"
		}
	}
	return fmt.Sprintf("%s | %s | zoom %d%% | %s | undo %d",
		st.Mode, st.View.Fit, int(math.Round(st.View.Zoom*100)), layer, len(v.engine.History()))
}

func (v *Viewer) flash(msg string) {
	v.message = msg
	v.messageUntil = time.Now().Add(messageDuration)
	v.log.Info(msg)
}

func (v *Viewer) notifyClose() {
	v.closeOnce.Do(func() {
		if v.onClose != nil {
			v.onClose()
		}
	})
}
