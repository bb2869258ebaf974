package viewer

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const messageSize = 28

var (
	messageFaceOnce sync.Once
	messageFaceVal  font.Face
)

// messageFace returns the Go Regular face used for flash messages, falling
// back to the fixed bitmap face if the embedded font cannot be parsed.
func messageFace() font.Face {
	messageFaceOnce.Do(func() {
		messageFaceVal = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			logrus.WithError(err).Warn("parse message font")
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: messageSize, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			logrus.WithError(err).Warn("message font face")
			return
		}
		messageFaceVal = face
	})
	return messageFaceVal
}
