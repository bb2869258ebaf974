//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/example/marksurface/internal/export"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalCall      = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse  = "org.freedesktop.portal.Request.Response"
	responseTimeout = 2 * time.Minute
)

var handleToken = func() string {
	return fmt.Sprintf("marksurface_%d", time.Now().UnixNano())
}

func portalScreenshot(opts Options) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalPath).Call(portalCall, 0, "", portalOptions(opts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	timeout := time.After(responseTimeout)
	for {
		select {
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: connection closed")
			}
			if sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			path, err := responsePath(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadCapture(path)
		case <-timeout:
			return nil, errors.New("portal screenshot: timed out waiting for response")
		}
	}
}

func portalOptions(opts Options) map[string]dbus.Variant {
	cursor := "hidden"
	if opts.IncludeCursor {
		cursor = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(opts.Interactive),
		"modal":        dbus.MakeVariant(opts.Interactive),
		"handle_token": dbus.MakeVariant(handleToken()),
		"cursor_mode":  dbus.MakeVariant(cursor),
	}
}

// responsePath extracts the file path from a Request.Response body. A non
// zero response code means the user cancelled or the portal refused.
func responsePath(body []any) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: short response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed response")
	}
	v, ok := res["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image uri")
	}
	uri, ok := v.Value().(string)
	if !ok {
		return "", errors.New("portal screenshot: uri is not a string")
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("portal screenshot: unexpected uri %q", uri)
	}
	return u.Path, nil
}

// loadCapture decodes the portal's temporary file and removes it.
func loadCapture(path string) (*image.RGBA, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).WithField("path", path).Debug("screenshot cleanup failed")
		}
	}()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, err := export.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}
