package viewer

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

type action string

const (
	actView       action = "view"
	actDraw       action = "draw"
	actErase      action = "erase"
	actPoint      action = "point"
	actZoomIn     action = "zoom-in"
	actZoomOut    action = "zoom-out"
	actResetView  action = "reset-view"
	actFit        action = "fit"
	actNewLayer   action = "new-layer"
	actClearLayer action = "clear-layer"
	actUndo       action = "undo"
	actRedo       action = "redo"
	actExport     action = "export"
	actCopy       action = "copy"
	actSaveScene  action = "save-scene"
	actQuit       action = "quit"
)

// Shortcut describes one key binding for the help overlay.
type Shortcut struct {
	Keys   string
	Action string
}

var runeActions = map[rune]action{
	'v': actView,
	'd': actDraw,
	'e': actErase,
	'p': actPoint,
	'+': actZoomIn,
	'=': actZoomIn,
	'-': actZoomOut,
	'0': actResetView,
	'f': actFit,
	'n': actNewLayer,
	'c': actClearLayer,
	'q': actQuit,
}

var ctrlActions = map[key.Code]action{
	key.CodeZ: actUndo,
	key.CodeY: actRedo,
	key.CodeS: actExport,
	key.CodeC: actCopy,
	key.CodeQ: actQuit,
}

// Shortcuts lists the viewer key bindings.
func Shortcuts() []Shortcut {
	return []Shortcut{
		{"V D E P", "view, draw, erase, point mode"},
		{"+ - 0", "zoom in, zoom out, reset view"},
		{"F", "cycle fit mode"},
		{"N", "new mask layer"},
		{"C", "clear active layer"},
		{"Ctrl+Z", "undo"},
		{"Ctrl+Y, Ctrl+Shift+Z", "redo"},
		{"Ctrl+S", "export mask of the active layer"},
		{"Ctrl+Shift+S", "save scene"},
		{"Ctrl+C", "copy mask to clipboard"},
		{"Q, Esc", "quit"},
	}
}

// keyAction maps a key press to a viewer action.
func keyAction(e key.Event) (action, bool) {
	if e.Direction == key.DirRelease {
		return "", false
	}
	if e.Code == key.CodeEscape {
		return actQuit, true
	}
	if e.Modifiers&key.ModControl != 0 {
		shift := e.Modifiers&key.ModShift != 0
		switch {
		case shift && e.Code == key.CodeZ:
			return actRedo, true
		case shift && e.Code == key.CodeS:
			return actSaveScene, true
		}
		a, ok := ctrlActions[e.Code]
		return a, ok
	}
	a, ok := runeActions[unicode.ToLower(e.Rune)]
	return a, ok
}
