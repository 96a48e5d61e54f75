package sg

import (
	"math"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// expandingRect grows to include each added point.
type expandingRect struct {
	minX, minY, maxX, maxY float64
	initialized            bool
}

func (r *expandingRect) add(x, y float64) {
	if !r.initialized {
		r.minX, r.maxX = x, x
		r.minY, r.maxY = y, y
		r.initialized = true
		return
	}
	r.minX = math.Min(r.minX, x)
	r.maxX = math.Max(r.maxX, x)
	r.minY = math.Min(r.minY, y)
	r.maxY = math.Max(r.maxY, y)
}

func (r *expandingRect) rect() graphics.Rect {
	if !r.initialized {
		return graphics.Rect{}
	}
	return graphics.Rect{Left: r.minX, Top: r.minY, Right: r.maxX, Bottom: r.maxY}
}

// cubicExtrema returns the parameters t in (0,1) where the derivative of the
// cubic Bezier with control values a, b, c, d is zero.
func cubicExtrema(a, b, c, d float64) []float64 {
	// f'(t) reduces to e*t^2 + 2*f*t + g
	e := -a + 3*b - 3*c + d
	f := a - 2*b + c
	g := b - a

	if math.Abs(e) < 1e-12 {
		if math.Abs(f) < 1e-12 {
			return nil
		}
		t := -g / (2 * f)
		if t < 0 || t >= 1 {
			return nil
		}
		return []float64{t}
	}

	disc := f*f - e*g
	if disc < 0 {
		return nil
	}
	h := math.Sqrt(disc)
	var roots []float64
	for _, t := range [2]float64{(-f + h) / e, (-f - h) / e} {
		if t > 0 && t < 1 {
			roots = append(roots, t)
		}
	}
	return roots
}

// quadraticExtremum returns the parameter t in (0,1) where the derivative of
// the quadratic Bezier with control values a, b, c is zero.
func quadraticExtremum(a, b, c float64) (float64, bool) {
	d := a - 2*b + c
	if math.Abs(d) < 1e-12 {
		return 0, false
	}
	t := (a - b) / d
	return t, t > 0 && t < 1
}

// pathBounds accumulates general path segments. A move only contributes
// when a drawing segment follows it.
type pathBounds struct {
	rect         expandingRect
	lastX, lastY float64
	lastAdded    bool
}

func (b *pathBounds) start() {
	if !b.lastAdded {
		b.rect.add(b.lastX, b.lastY)
		b.lastAdded = true
	}
}

func (b *pathBounds) move(p []float64) {
	b.lastAdded = false
	b.lastX, b.lastY = p[0], p[1]
}

func (b *pathBounds) line(p []float64) {
	b.start()
	b.rect.add(p[0], p[1])
	b.lastX, b.lastY = p[0], p[1]
}

func (b *pathBounds) quadratic(p []float64) {
	b.start()
	if t, ok := quadraticExtremum(b.lastX, p[0], p[2]); ok {
		b.addQuadraticPoint(p, t)
	}
	if t, ok := quadraticExtremum(b.lastY, p[1], p[3]); ok {
		b.addQuadraticPoint(p, t)
	}
	b.rect.add(p[2], p[3])
	b.lastX, b.lastY = p[2], p[3]
}

func (b *pathBounds) cubic(p []float64) {
	b.start()
	for _, t := range cubicExtrema(b.lastX, p[0], p[2], p[4]) {
		b.addCubicPoint(p, t)
	}
	for _, t := range cubicExtrema(b.lastY, p[1], p[3], p[5]) {
		b.addCubicPoint(p, t)
	}
	b.rect.add(p[4], p[5])
	b.lastX, b.lastY = p[4], p[5]
}

func (b *pathBounds) addQuadraticPoint(p []float64, t float64) {
	mt := 1 - t
	t1, t2, t3 := mt*mt, 2*t*mt, t*t
	b.rect.add(b.lastX*t1+p[0]*t2+p[2]*t3, b.lastY*t1+p[1]*t2+p[3]*t3)
}

func (b *pathBounds) addCubicPoint(p []float64, t float64) {
	mt := 1 - t
	t1, t2, t3, t4 := mt*mt*mt, 3*t*mt*mt, 3*t*t*mt, t*t*t
	b.rect.add(
		b.lastX*t1+p[0]*t2+p[2]*t3+p[4]*t4,
		b.lastY*t1+p[1]*t2+p[3]*t3+p[5]*t4,
	)
}

// pointsPerCommand is the number of coordinates each command consumes.
func pointsPerCommand(cmd byte) int {
	switch cmd {
	case 'M', 'L':
		return 2
	case 'Q':
		return 4
	case 'C':
		return 6
	}
	return 0
}

// calculatePathBounds returns the exact bounds of a general path after the
// points are mapped through t. Truncated point lists stop the walk.
func calculatePathBounds(t graphics.Transform2D, values string, points []float64) graphics.Rect {
	mapped := make([]float64, len(points)&^1)
	for i := 0; i+1 < len(points); i += 2 {
		p := t.Apply(graphics.Offset{X: points[i], Y: points[i+1]})
		mapped[i], mapped[i+1] = p.X, p.Y
	}

	var bb pathBounds
	pos := 0
	for i := 0; i < len(values); i++ {
		cmd := values[i]
		n := pointsPerCommand(cmd)
		if pos+n > len(mapped) {
			break
		}
		p := mapped[pos : pos+n]
		switch cmd {
		case 'M':
			bb.move(p)
		case 'L':
			bb.line(p)
		case 'Q':
			bb.quadratic(p)
		case 'C':
			bb.cubic(p)
		}
		pos += n
	}
	return bb.rect.rect()
}
