package avg

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// pathBuilder accumulates absolute commands (M, L, Q, C, Z) and their
// points while path data is parsed.
type pathBuilder struct {
	cmds   []byte
	points []float64

	lastX, lastY       float64
	controlX, controlY float64
	lastCommand        byte
	drawn              bool
}

func (b *pathBuilder) last() byte {
	if len(b.cmds) == 0 {
		return 0
	}
	return b.cmds[len(b.cmds)-1]
}

func (b *pathBuilder) moveTo(x, y float64) {
	b.lastX, b.lastY = x, y
	if b.last() == 'M' {
		// Consecutive moves collapse into the last one.
		b.points = b.points[:len(b.points)-2]
	} else {
		b.cmds = append(b.cmds, 'M')
	}
	b.points = append(b.points, x, y)
}

func (b *pathBuilder) lineTo(x, y float64) {
	b.lastX, b.lastY = x, y
	b.cmds = append(b.cmds, 'L')
	b.points = append(b.points, x, y)
	b.drawn = true
}

func (b *pathBuilder) quadTo(x1, y1, x, y float64) {
	b.lastX, b.lastY = x, y
	b.cmds = append(b.cmds, 'Q')
	b.points = append(b.points, x1, y1, x, y)
	b.controlX, b.controlY = 2*x-x1, 2*y-y1
	b.drawn = true
}

func (b *pathBuilder) cubicTo(x1, y1, x2, y2, x, y float64) {
	b.lastX, b.lastY = x, y
	b.cmds = append(b.cmds, 'C')
	b.points = append(b.points, x1, y1, x2, y2, x, y)
	b.controlX, b.controlY = 2*x-x2, 2*y-y2
	b.drawn = true
}

func (b *pathBuilder) close() {
	if len(b.cmds) > 0 && b.last() != 'Z' {
		b.cmds = append(b.cmds, 'Z')
	}
}

// arcTo appends an elliptical arc from the current point as a sequence of
// cubic segments of at most a third of a circle each.
func (b *pathBuilder) arcTo(rx, ry, degrees float64, largeArc, sweep bool, endX, endY float64) {
	if b.lastX == endX && b.lastY == endY {
		return
	}
	defer func() { b.lastX, b.lastY = endX, endY }()
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx < 1e-12 || ry < 1e-12 {
		b.lineTo(endX, endY)
		return
	}

	start := graphics.Offset{X: b.lastX, Y: b.lastY}
	end := graphics.Offset{X: endX, Y: endY}

	mid := graphics.RotateTransform(-degrees).Apply(graphics.Offset{
		X: 0.5 * (start.X - end.X),
		Y: 0.5 * (start.Y - end.Y),
	})

	// Scale up radii that cannot span the endpoints.
	if scale := mid.X*mid.X/(rx*rx) + mid.Y*mid.Y/(ry*ry); scale > 1 {
		scale = math.Sqrt(scale)
		rx *= scale
		ry *= scale
	}

	toUnit := graphics.ScaleTransform(1/rx, 1/ry).Mul(graphics.RotateTransform(-degrees))
	p1 := toUnit.Apply(start)
	p2 := toUnit.Apply(end)

	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	d := dx*dx + dy*dy
	factor := math.Sqrt(math.Max(1/d-0.25, 0))
	if largeArc == sweep {
		factor = -factor
	}
	dx *= factor
	dy *= factor
	cx := 0.5*(p1.X+p2.X) - dy
	cy := 0.5*(p1.Y+p2.Y) + dx

	theta1 := math.Atan2(p1.Y-cy, p1.X-cx)
	theta2 := math.Atan2(p2.Y-cy, p2.X-cx)
	thetaArc := theta2 - theta1
	if thetaArc < 0 && sweep {
		thetaArc += 2 * math.Pi
	} else if thetaArc > 0 && !sweep {
		thetaArc -= 2 * math.Pi
	}

	if math.Abs(thetaArc) < math.Pi/1e6 {
		b.lineTo(endX, endY)
		return
	}

	fromUnit := graphics.RotateTransform(degrees).Mul(graphics.ScaleTransform(rx, ry))
	segments := int(math.Ceil(math.Abs(thetaArc / (2 * math.Pi / 3))))
	width := thetaArc / float64(segments)
	t := 4.0 / 3.0 * math.Tan(0.25*width)
	if math.IsInf(t, 0) || math.IsNaN(t) {
		return
	}

	startSin, startCos := math.Sincos(theta1)
	for i := range segments {
		endSin, endCos := math.Sincos(theta1 + float64(i+1)*width)
		cp1 := fromUnit.Apply(graphics.Offset{X: startCos - t*startSin + cx, Y: startSin + t*startCos + cy})
		cp2 := fromUnit.Apply(graphics.Offset{X: endCos + t*endSin + cx, Y: endSin - t*endCos + cy})
		xy := fromUnit.Apply(graphics.Offset{X: endCos + cx, Y: endSin + cy})
		b.cubicTo(cp1.X, cp1.Y, cp2.X, cp2.Y, xy.X, xy.Y)
		startSin, startCos = endSin, endCos
	}
}

// path returns the parsed path. Paths that never draw are empty and trailing
// moves are dropped.
func (b *pathBuilder) path() *sg.GeneralPath {
	if !b.drawn {
		return sg.NewGeneralPath("", nil)
	}
	for len(b.cmds) > 0 && b.last() == 'M' {
		b.cmds = b.cmds[:len(b.cmds)-1]
		b.points = b.points[:len(b.points)-2]
	}
	return sg.NewGeneralPath(string(b.cmds), b.points)
}

// ParsePathData parses AVG path data (the SVG path mini-language) into a
// general path using absolute M, L, Q, C and Z commands. Horizontal and
// vertical lines become L, smooth curves are expanded and arcs are
// approximated with cubic curves. Malformed data yields an empty path and
// an error.
func ParsePathData(data string) (*sg.GeneralPath, error) {
	var b pathBuilder
	s := newScanner(data)

	// args reads n numbers or fails the whole parse.
	var bad bool
	args := func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			v, ok := s.number()
			if !ok {
				bad = true
				return out
			}
			out[i] = v
		}
		return out
	}
	repeat := func(n int, fn func(a []float64)) {
		for {
			a := args(n)
			if bad {
				return
			}
			fn(a)
			if !s.atNumber() {
				return
			}
		}
	}

	for !s.done() {
		cmd, ok := s.letter()
		if !ok {
			return sg.NewGeneralPath("", nil), fmt.Errorf("unexpected %q at offset %d", s.peek(), s.pos)
		}
		switch cmd {
		case 'M':
			repeat(2, func(a []float64) { b.moveTo(a[0], a[1]) })
		case 'm':
			repeat(2, func(a []float64) { b.moveTo(b.lastX+a[0], b.lastY+a[1]) })
		case 'L':
			repeat(2, func(a []float64) { b.lineTo(a[0], a[1]) })
		case 'l':
			repeat(2, func(a []float64) { b.lineTo(b.lastX+a[0], b.lastY+a[1]) })
		case 'H':
			repeat(1, func(a []float64) { b.lineTo(a[0], b.lastY) })
		case 'h':
			repeat(1, func(a []float64) { b.lineTo(b.lastX+a[0], b.lastY) })
		case 'V':
			repeat(1, func(a []float64) { b.lineTo(b.lastX, a[0]) })
		case 'v':
			repeat(1, func(a []float64) { b.lineTo(b.lastX, b.lastY+a[0]) })
		case 'C':
			repeat(6, func(a []float64) { b.cubicTo(a[0], a[1], a[2], a[3], a[4], a[5]) })
		case 'c':
			repeat(6, func(a []float64) {
				x, y := b.lastX, b.lastY
				b.cubicTo(x+a[0], y+a[1], x+a[2], y+a[3], x+a[4], y+a[5])
			})
		case 'S', 's':
			if !strings.ContainsRune("CcSs", rune(b.lastCommand)) {
				b.controlX, b.controlY = b.lastX, b.lastY
			}
			repeat(4, func(a []float64) {
				if cmd == 's' {
					x, y := b.lastX, b.lastY
					a = []float64{x + a[0], y + a[1], x + a[2], y + a[3]}
				}
				b.cubicTo(b.controlX, b.controlY, a[0], a[1], a[2], a[3])
			})
		case 'Q':
			repeat(4, func(a []float64) { b.quadTo(a[0], a[1], a[2], a[3]) })
		case 'q':
			repeat(4, func(a []float64) {
				x, y := b.lastX, b.lastY
				b.quadTo(x+a[0], y+a[1], x+a[2], y+a[3])
			})
		case 'T', 't':
			if !strings.ContainsRune("QqTt", rune(b.lastCommand)) {
				b.controlX, b.controlY = b.lastX, b.lastY
			}
			repeat(2, func(a []float64) {
				x, y := a[0], a[1]
				if cmd == 't' {
					x, y = b.lastX+x, b.lastY+y
				}
				b.quadTo(b.controlX, b.controlY, x, y)
			})
		case 'A', 'a':
			repeat(7, func(a []float64) {
				x, y := a[5], a[6]
				if cmd == 'a' {
					x, y = b.lastX+x, b.lastY+y
				}
				b.arcTo(a[0], a[1], a[2], a[3] != 0, a[4] != 0, x, y)
			})
		case 'Z', 'z':
			b.close()
		default:
			return sg.NewGeneralPath("", nil), fmt.Errorf("unknown path command %q", cmd)
		}
		if bad {
			return sg.NewGeneralPath("", nil), fmt.Errorf("missing number for path command %q at offset %d", cmd, s.pos)
		}
		b.lastCommand = cmd
	}
	return b.path(), nil
}
