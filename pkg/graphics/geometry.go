package graphics

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset represents a 2D point or vector.
type Offset struct {
	X float64
	Y float64
}

// IsZero reports whether both components are zero.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// Add returns o + other.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Sub returns o - other.
func (o Offset) Sub(other Offset) Offset {
	return Offset{X: o.X - other.X, Y: o.Y - other.Y}
}

// Neg returns the negated offset.
func (o Offset) Neg() Offset {
	return Offset{X: -o.X, Y: -o.Y}
}

// Size represents width and height dimensions.
type Size struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// RectFromPoints returns the rectangle spanned by two corners in any order.
func RectFromPoints(a, b Offset) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Offset {
	return Offset{
		X: (r.Left + r.Right) * 0.5,
		Y: (r.Top + r.Bottom) * 0.5,
	}
}

// LTWH returns the rectangle as x, y, width, height.
func (r Rect) LTWH() [4]float64 {
	return [4]float64{r.Left, r.Top, r.Width(), r.Height()}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Offset returns a new rect moved by o.
func (r Rect) Offset(o Offset) Rect {
	return r.Translate(o.X, o.Y)
}

// Inflate grows the rect by d on every side. Negative values shrink it.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		Left:   r.Left - d,
		Top:    r.Top - d,
		Right:  r.Right + d,
		Bottom: r.Bottom + d,
	}
}

// Intersect returns the intersection of two rectangles.
// Returns empty rect if they don't overlap.
func (r Rect) Intersect(other Rect) Rect {
	left := math.Max(r.Left, other.Left)
	top := math.Max(r.Top, other.Top)
	right := math.Min(r.Right, other.Right)
	bottom := math.Min(r.Bottom, other.Bottom)
	if left >= right || top >= bottom {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Union returns the smallest rect containing both r and other.
// An empty rect does not contribute to the result.
func (r Rect) Union(other Rect) Rect {
	if other.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return other
	}
	return Rect{
		Left:   math.Min(r.Left, other.Left),
		Top:    math.Min(r.Top, other.Top),
		Right:  math.Max(r.Right, other.Right),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// ApproxEqual reports whether the edges of both rects are within epsilon.
func (r Rect) ApproxEqual(other Rect) bool {
	return floatEqual(r.Left, other.Left) &&
		floatEqual(r.Top, other.Top) &&
		floatEqual(r.Right, other.Right) &&
		floatEqual(r.Bottom, other.Bottom)
}

// Radii holds the four corner radii of a rounded rectangle, clockwise from
// the top-left corner.
type Radii [4]float64

// UniformRadii returns radii with every corner set to r.
func UniformRadii(r float64) Radii {
	return Radii{r, r, r, r}
}

// IsEmpty reports whether every corner is square.
func (r Radii) IsEmpty() bool {
	return r[0] == 0 && r[1] == 0 && r[2] == 0 && r[3] == 0
}

// Inset shrinks every radius by d, stopping at zero.
func (r Radii) Inset(d float64) Radii {
	var out Radii
	for i, v := range r {
		out[i] = math.Max(0, v-d)
	}
	return out
}

// RoundedRect is a rectangle with per-corner radii.
type RoundedRect struct {
	Rect  Rect
	Radii Radii
}

// IsEmpty reports whether the underlying rect is empty.
func (r RoundedRect) IsEmpty() bool {
	return r.Rect.IsEmpty()
}

// Inset returns the rounded rect shrunk by d on every side.
func (r RoundedRect) Inset(d float64) RoundedRect {
	return RoundedRect{Rect: r.Rect.Inflate(-d), Radii: r.Radii.Inset(d)}
}

// floatEqual returns true if two float64 values are approximately equal.
func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
