package sg

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// PathOpType identifies a PathOp variant.
type PathOpType uint8

const (
	PathOpFill PathOpType = iota
	PathOpStroke
)

func (t PathOpType) String() string {
	switch t {
	case PathOpFill:
		return "fill"
	case PathOpStroke:
		return "stroke"
	}
	return fmt.Sprintf("PathOpType(%d)", t)
}

// PathOp is a drawing operation applied to a path or text. Operations form
// a chain through Next and are applied in order. The set of variants is
// closed: FillPathOp and StrokePathOp.
type PathOp interface {
	Type() PathOpType
	Paint() Paint
	SetPaint(p Paint) bool
	Next() PathOp
	SetNext(next PathOp)
	// Visible reports whether the operation can produce any pixels.
	Visible() bool
	IsModified() bool
	GetAndClearModified() bool
	String() string
	isPathOp()
}

type pathOpBase struct {
	modified
	paint Paint
	next  PathOp
}

func (*pathOpBase) isPathOp() {}

func (o *pathOpBase) Paint() Paint {
	return o.paint
}

func (o *pathOpBase) SetPaint(p Paint) bool {
	return trackField(&o.paint, p, &o.state, stateModified)
}

func (o *pathOpBase) Next() PathOp {
	return o.next
}

func (o *pathOpBase) SetNext(next PathOp) {
	o.next = next
}

func (o *pathOpBase) paintVisible() bool {
	return o.paint != nil && o.paint.Visible()
}

// FillType selects the rule deciding which regions are inside a path.
type FillType uint8

const (
	FillTypeEvenOdd FillType = iota
	FillTypeWinding
)

func (f FillType) String() string {
	if f == FillTypeWinding {
		return "nonzero"
	}
	return "even-odd"
}

// FillPathOp fills the interior of a path.
type FillPathOp struct {
	pathOpBase
	fillType FillType
}

// NewFillPathOp returns an even-odd fill with the given paint.
func NewFillPathOp(paint Paint) *FillPathOp {
	return &FillPathOp{pathOpBase: pathOpBase{paint: paint}}
}

func (*FillPathOp) Type() PathOpType {
	return PathOpFill
}

func (o *FillPathOp) FillType() FillType {
	return o.fillType
}

func (o *FillPathOp) SetFillType(fillType FillType) bool {
	return trackField(&o.fillType, fillType, &o.state, stateModified)
}

func (o *FillPathOp) Visible() bool {
	return o.paintVisible()
}

func (o *FillPathOp) String() string {
	s := "FillPathOp fillType=" + o.fillType.String()
	if o.paint != nil {
		s += " " + o.paint.String()
	}
	return s
}

// LineCap is the shape at the ends of open stroked subpaths.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

var lineCapNames = [...]string{"butt", "round", "square"}

func (c LineCap) String() string {
	if int(c) < len(lineCapNames) {
		return lineCapNames[c]
	}
	return fmt.Sprintf("LineCap(%d)", c)
}

// LineJoin is the shape at the corners of stroked paths.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

var lineJoinNames = [...]string{"miter", "round", "bevel"}

func (j LineJoin) String() string {
	if int(j) < len(lineJoinNames) {
		return lineJoinNames[j]
	}
	return fmt.Sprintf("LineJoin(%d)", j)
}

// StrokePathOp strokes the outline of a path.
type StrokePathOp struct {
	pathOpBase
	strokeWidth float64
	miterLimit  float64
	pathLength  float64
	dashOffset  float64
	lineCap     LineCap
	lineJoin    LineJoin
	dashes      []float64
}

// NewStrokePathOp returns a one unit wide stroke with butt caps and miter
// joins.
func NewStrokePathOp(paint Paint) *StrokePathOp {
	return &StrokePathOp{
		pathOpBase:  pathOpBase{paint: paint},
		strokeWidth: 1,
		miterLimit:  4,
	}
}

func (*StrokePathOp) Type() PathOpType {
	return PathOpStroke
}

func (o *StrokePathOp) StrokeWidth() float64 {
	return o.strokeWidth
}

// SetStrokeWidth clamps negative widths to zero.
func (o *StrokePathOp) SetStrokeWidth(width float64) bool {
	return trackField(&o.strokeWidth, math.Max(0, width), &o.state, stateModified)
}

func (o *StrokePathOp) MiterLimit() float64 {
	return o.miterLimit
}

func (o *StrokePathOp) SetMiterLimit(limit float64) bool {
	return trackField(&o.miterLimit, limit, &o.state, stateModified)
}

func (o *StrokePathOp) PathLength() float64 {
	return o.pathLength
}

func (o *StrokePathOp) SetPathLength(length float64) bool {
	return trackField(&o.pathLength, length, &o.state, stateModified)
}

func (o *StrokePathOp) DashOffset() float64 {
	return o.dashOffset
}

func (o *StrokePathOp) SetDashOffset(offset float64) bool {
	return trackField(&o.dashOffset, offset, &o.state, stateModified)
}

func (o *StrokePathOp) LineCap() LineCap {
	return o.lineCap
}

func (o *StrokePathOp) SetLineCap(c LineCap) bool {
	return trackField(&o.lineCap, c, &o.state, stateModified)
}

func (o *StrokePathOp) LineJoin() LineJoin {
	return o.lineJoin
}

func (o *StrokePathOp) SetLineJoin(j LineJoin) bool {
	return trackField(&o.lineJoin, j, &o.state, stateModified)
}

func (o *StrokePathOp) Dashes() []float64 {
	return o.dashes
}

// SetDashes sets the dash pattern. An odd-length pattern is repeated to make
// it even.
func (o *StrokePathOp) SetDashes(dashes []float64) bool {
	if len(dashes)%2 == 1 {
		dashes = append(slices.Clone(dashes), dashes...)
	}
	return trackFieldFunc(&o.dashes, dashes, slices.Equal, &o.state, stateModified)
}

func (o *StrokePathOp) Visible() bool {
	return o.strokeWidth > 0 && o.paintVisible()
}

// outset is how far the stroke reaches past the path geometry, before any
// transform is applied.
func (o *StrokePathOp) outset() float64 {
	return o.strokeWidth / 2
}

func (o *StrokePathOp) String() string {
	s := fmt.Sprintf("StrokePathOp width=%g miter=%g pathLength=%g dashOffset=%g cap=%s join=%s dashes=%v",
		o.strokeWidth, o.miterLimit, o.pathLength, o.dashOffset, o.lineCap, o.lineJoin, o.dashes)
	if o.paint != nil {
		s += " " + o.paint.String()
	}
	return s
}

// opOutset returns the largest stroke reach in the op chain, scaled by t.
func opOutset(op PathOp, t graphics.Transform2D) float64 {
	var out float64
	for ; op != nil; op = op.Next() {
		if stroke, ok := op.(*StrokePathOp); ok {
			out = math.Max(out, stroke.outset())
		}
	}
	return out * t.ScaleFactor()
}

// ChainPathOps links ops in order and returns the first one. Nil entries
// are skipped.
func ChainPathOps(ops ...PathOp) PathOp {
	var head, tail PathOp
	for _, op := range ops {
		if op == nil {
			continue
		}
		if tail == nil {
			head = op
		} else {
			tail.SetNext(op)
		}
		tail = op
	}
	return head
}
