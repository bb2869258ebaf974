package geom

// Transform maps between screen pixels and normalized media coordinates for
// one image rect. The zero value is invalid.
type Transform struct {
	rect  Rect
	valid bool
}

// NewTransform builds the transform for the given inputs. The returned
// transform is invalid when ImageRect cannot produce a usable rectangle.
func NewTransform(container, media Dimensions, view ViewState) Transform {
	r, ok := ImageRect(container, media, view)
	return Transform{rect: r, valid: ok}
}

// Valid reports whether conversions can be performed.
func (t Transform) Valid() bool { return t.valid }

// Rect returns the image rect the transform was built from.
func (t Transform) Rect() Rect { return t.rect }

// ToNormalized converts a screen point into media coordinates.
func (t Transform) ToNormalized(p ScreenPoint) (NormalizedPoint, bool) {
	if !t.valid {
		return NormalizedPoint{}, false
	}
	return NormalizedPoint{
		X: (p.X - t.rect.X) / t.rect.Width,
		Y: (p.Y - t.rect.Y) / t.rect.Height,
	}, true
}

// ToScreen is the inverse of ToNormalized.
func (t Transform) ToScreen(n NormalizedPoint) (ScreenPoint, bool) {
	if !t.valid {
		return ScreenPoint{}, false
	}
	return ScreenPoint{
		X: t.rect.X + n.X*t.rect.Width,
		Y: t.rect.Y + n.Y*t.rect.Height,
	}, true
}

// RectToScreen converts a normalized rectangle to screen pixels.
func (t Transform) RectToScreen(r NormalizedRect) (Rect, bool) {
	if !t.valid {
		return Rect{}, false
	}
	return Rect{
		X:      t.rect.X + r.X*t.rect.Width,
		Y:      t.rect.Y + r.Y*t.rect.Height,
		Width:  r.Width * t.rect.Width,
		Height: r.Height * t.rect.Height,
	}, true
}
