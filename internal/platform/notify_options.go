// Package platform sends desktop notifications through the host's native
// notification service.
package platform

import "time"

// DefaultTimeout is how long a notification stays visible when Options does
// not say otherwise.
const DefaultTimeout = 5 * time.Second

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender to the notification service.
	AppName string
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where supported.
	IconPath string
	Timeout  time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "marksurface"
	}
	return o.AppName
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}
