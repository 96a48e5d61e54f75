package graphics

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Transform2D is a 2D affine transform stored as [a b c d tx ty]:
//
//	x' = a*x + c*y + tx
//	y' = b*x + d*y + ty
type Transform2D [6]float64

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform2D {
	return Transform2D{1, 0, 0, 1, 0, 0}
}

// TranslateTransform returns a translation by (dx, dy).
func TranslateTransform(dx, dy float64) Transform2D {
	return Transform2D{1, 0, 0, 1, dx, dy}
}

// TranslateBy returns a translation by o.
func TranslateBy(o Offset) Transform2D {
	return TranslateTransform(o.X, o.Y)
}

// ScaleTransform returns a scale by (sx, sy).
func ScaleTransform(sx, sy float64) Transform2D {
	return Transform2D{sx, 0, 0, sy, 0, 0}
}

// RotateTransform returns a clockwise rotation by degrees in a y-down space.
func RotateTransform(degrees float64) Transform2D {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Transform2D{cos, sin, -sin, cos, 0, 0}
}

// SkewXTransform returns a skew along the x axis by degrees.
func SkewXTransform(degrees float64) Transform2D {
	return Transform2D{1, 0, math.Tan(degrees * math.Pi / 180), 1, 0, 0}
}

// SkewYTransform returns a skew along the y axis by degrees.
func SkewYTransform(degrees float64) Transform2D {
	return Transform2D{1, math.Tan(degrees * math.Pi / 180), 0, 1, 0, 0}
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform2D) IsIdentity() bool {
	return t == IdentityTransform()
}

// Mul returns t * other, which applies other first and then t.
func (t Transform2D) Mul(other Transform2D) Transform2D {
	return Transform2D{
		t[0]*other[0] + t[2]*other[1],
		t[1]*other[0] + t[3]*other[1],
		t[0]*other[2] + t[2]*other[3],
		t[1]*other[2] + t[3]*other[3],
		t[0]*other[4] + t[2]*other[5] + t[4],
		t[1]*other[4] + t[3]*other[5] + t[5],
	}
}

// Apply maps a point through the transform.
func (t Transform2D) Apply(p Offset) Offset {
	return Offset{
		X: t[0]*p.X + t[2]*p.Y + t[4],
		Y: t[1]*p.X + t[3]*p.Y + t[5],
	}
}

// Determinant returns a*d - b*c.
func (t Transform2D) Determinant() float64 {
	return t[0]*t[3] - t[1]*t[2]
}

// ScaleFactor returns the average linear scale applied by the transform.
func (t Transform2D) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(t.Determinant()))
}

// Invert returns the inverse transform. Singular transforms invert to identity.
func (t Transform2D) Invert() Transform2D {
	det := t.Determinant()
	if det == 0 {
		return IdentityTransform()
	}
	inv := 1 / det
	a := t[3] * inv
	b := -t[1] * inv
	c := -t[2] * inv
	d := t[0] * inv
	return Transform2D{
		a, b, c, d,
		-(a*t[4] + c*t[5]),
		-(b*t[4] + d*t[5]),
	}
}

// MapRect returns the axis-aligned bounds of r after transformation.
func (t Transform2D) MapRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	p0 := t.Apply(Offset{X: r.Left, Y: r.Top})
	out := Rect{Left: p0.X, Top: p0.Y, Right: p0.X, Bottom: p0.Y}
	for _, p := range []Offset{
		{X: r.Right, Y: r.Top},
		{X: r.Right, Y: r.Bottom},
		{X: r.Left, Y: r.Bottom},
	} {
		q := t.Apply(p)
		out.Left = math.Min(out.Left, q.X)
		out.Top = math.Min(out.Top, q.Y)
		out.Right = math.Max(out.Right, q.X)
		out.Bottom = math.Max(out.Bottom, q.Y)
	}
	return out
}

// Aff3 converts the transform to the x/image affine layout.
func (t Transform2D) Aff3() f64.Aff3 {
	return f64.Aff3{t[0], t[2], t[4], t[1], t[3], t[5]}
}

// TransformFromAff3 converts an x/image affine matrix to a Transform2D.
func TransformFromAff3(m f64.Aff3) Transform2D {
	return Transform2D{m[0], m[3], m[1], m[4], m[2], m[5]}
}
