//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	owner        *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		o, err := newSelectionOwner()
		if err != nil {
			initErr = err
			return
		}
		owner = o
	})
	return initErr
}

func writePNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.own(nil, data)
}

func readPNG() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return owner.request(owner.atoms.png)
}

func writeText(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.own(data, nil)
}

func readText() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.request(owner.atoms.utf8)
	if err != nil {
		return owner.request(xproto.AtomString)
	}
	return data, nil
}

// selectionOwner serves the CLIPBOARD selection from a hidden X window
// without cgo.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms

	mu    sync.RWMutex
	text  []byte
	image []byte
}

type atoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{eventMask}).Check()
	if err != nil {
		conn.Close()
		return nil, err
	}
	a, err := intern(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: a}
	go o.serve()
	return o, nil
}

func intern(conn *xgb.Conn) (atoms, error) {
	var a atoms
	for _, n := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{"CLIPBOARD", &a.clipboard},
		{"TARGETS", &a.targets},
		{"UTF8_STRING", &a.utf8},
		{"text/plain;charset=utf-8", &a.textPlain},
		{"image/png", &a.png},
		{"MARKSURFACE_CLIPBOARD", &a.property},
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(n.name)), n.name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", n.name, err)
		}
		*n.dst = reply.Atom
	}
	return a, nil
}

// own stores the payload and claims the selection. Exactly one of text and
// image is non-nil.
func (o *selectionOwner) own(text, image []byte) error {
	o.mu.Lock()
	o.text = append([]byte(nil), text...)
	o.image = append([]byte(nil), image...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.text, o.image = nil, nil
			o.mu.Unlock()
		}
	}
}

// answer converts the held payload to the requested target, or refuses by
// replying with property None.
func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	o.mu.RLock()
	text, image := o.text, o.image
	o.mu.RUnlock()

	var (
		typ     xproto.Atom
		format  byte = 8
		payload []byte
	)
	switch e.Target {
	case o.atoms.targets:
		targets := []xproto.Atom{o.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, o.atoms.utf8, xproto.AtomString, o.atoms.textPlain)
		}
		if len(image) > 0 {
			targets = append(targets, o.atoms.png)
		}
		payload = make([]byte, len(targets)*4)
		for i, t := range targets {
			xgb.Put32(payload[i*4:], uint32(t))
		}
		typ, format = xproto.AtomAtom, 32
	case o.atoms.utf8, xproto.AtomString, o.atoms.textPlain:
		payload, typ = text, o.atoms.utf8
	case o.atoms.png:
		payload, typ = image, o.atoms.png
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	}

	if property != xproto.AtomNone {
		length := uint32(len(payload)) / uint32(format/8)
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, length, payload)
	}
	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// request asks the current selection owner for target on a separate
// connection and waits for the converted property.
func (o *selectionOwner) request(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, o.atoms.clipboard, target, o.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard target unavailable")
		}
		if e.Property != o.atoms.property {
			continue
		}
		reply, perr := xproto.GetProperty(conn, true, window, o.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
