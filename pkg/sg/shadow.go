package sg

import (
	"fmt"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// Shadow is a drop shadow cast by a layer or a shadow node.
type Shadow struct {
	modified
	color  graphics.Color
	offset graphics.Offset
	radius float64
}

// NewShadow returns a shadow, or nil when the shadow could never be seen:
// a transparent color, or no offset with no blur.
func NewShadow(color graphics.Color, offset graphics.Offset, radius float64) *Shadow {
	if color.Transparent() || (offset.IsZero() && radius <= 0) {
		return nil
	}
	return &Shadow{color: color, offset: offset, radius: radius}
}

func (s *Shadow) Color() graphics.Color {
	return s.color
}

func (s *Shadow) SetColor(color graphics.Color) bool {
	return trackField(&s.color, color, &s.state, stateModified)
}

func (s *Shadow) Offset() graphics.Offset {
	return s.offset
}

func (s *Shadow) SetOffset(offset graphics.Offset) bool {
	return trackField(&s.offset, offset, &s.state, stateModified)
}

// Radius is the blur radius.
func (s *Shadow) Radius() float64 {
	return s.radius
}

func (s *Shadow) SetRadius(radius float64) bool {
	return trackField(&s.radius, radius, &s.state, stateModified)
}

// Visible reports whether the shadow can produce any pixels.
func (s *Shadow) Visible() bool {
	return s != nil && !s.color.Transparent() && (!s.offset.IsZero() || s.radius > 0)
}

// Bounds returns the area darkened by a shadow of content with bounds r.
func (s *Shadow) Bounds(r graphics.Rect) graphics.Rect {
	if r.IsEmpty() {
		return r
	}
	return r.Offset(s.offset).Inflate(s.radius)
}

func (s *Shadow) String() string {
	return fmt.Sprintf("Shadow color=%s offset=(%g,%g) radius=%g", s.color, s.offset.X, s.offset.Y, s.radius)
}

// ShadowsEqual reports whether two shadows look the same. Two nil shadows
// are equal.
func ShadowsEqual(a, b *Shadow) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.color == b.color && a.offset == b.offset && a.radius == b.radius
}
