package sg

import (
	"fmt"
	"slices"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// PaintType identifies a Paint variant.
type PaintType uint8

const (
	PaintTypeColor PaintType = iota
	PaintTypeLinearGradient
	PaintTypeRadialGradient
	PaintTypePattern
)

var paintTypeNames = [...]string{"colorPaint", "linearGradient", "radialGradient", "patternPaint"}

func (t PaintType) String() string {
	if int(t) < len(paintTypeNames) {
		return paintTypeNames[t]
	}
	return fmt.Sprintf("PaintType(%d)", t)
}

// Paint describes how a path is colored. The set of variants is closed:
// ColorPaint, LinearGradientPaint, RadialGradientPaint and PatternPaint.
// A single Paint may be shared by several path operations.
type Paint interface {
	Type() PaintType
	Opacity() float64
	SetOpacity(opacity float64) bool
	Transform() graphics.Transform2D
	SetTransform(t graphics.Transform2D) bool
	// Visible reports whether painting with it can produce any pixels.
	Visible() bool
	IsModified() bool
	GetAndClearModified() bool
	String() string
	isPaint()
}

// paintBase holds the fields shared by every paint.
type paintBase struct {
	modified
	opacity   float64
	transform graphics.Transform2D
}

func newPaintBase() paintBase {
	return paintBase{opacity: 1, transform: graphics.IdentityTransform()}
}

func (*paintBase) isPaint() {}

func (p *paintBase) Opacity() float64 {
	return p.opacity
}

// SetOpacity clamps opacity to [0,1].
func (p *paintBase) SetOpacity(opacity float64) bool {
	return trackField(&p.opacity, graphics.Clamp01(opacity), &p.state, stateModified)
}

func (p *paintBase) Transform() graphics.Transform2D {
	return p.transform
}

func (p *paintBase) SetTransform(t graphics.Transform2D) bool {
	return trackField(&p.transform, t, &p.state, stateModified)
}

func (p *paintBase) tail() string {
	s := fmt.Sprintf(" opacity=%g", p.opacity)
	if !p.transform.IsIdentity() {
		s += fmt.Sprintf(" transform=%v", [6]float64(p.transform))
	}
	return s
}

// ColorPaint fills with a single color.
type ColorPaint struct {
	paintBase
	color graphics.Color
}

// NewColorPaint returns an opaque paint of the given color.
func NewColorPaint(color graphics.Color) *ColorPaint {
	return &ColorPaint{paintBase: newPaintBase(), color: color}
}

func (*ColorPaint) Type() PaintType {
	return PaintTypeColor
}

func (p *ColorPaint) Color() graphics.Color {
	return p.color
}

func (p *ColorPaint) SetColor(color graphics.Color) bool {
	return trackField(&p.color, color, &p.state, stateModified)
}

func (p *ColorPaint) Visible() bool {
	return p.opacity > 0 && !p.color.Transparent()
}

func (p *ColorPaint) String() string {
	return "ColorPaint color=" + p.color.String() + p.tail()
}

// SpreadMethod controls how a gradient fills outside its defined range.
type SpreadMethod uint8

const (
	SpreadPad SpreadMethod = iota
	SpreadReflect
	SpreadRepeat
)

var spreadMethodNames = [...]string{"pad", "reflect", "repeat"}

func (s SpreadMethod) String() string {
	if int(s) < len(spreadMethodNames) {
		return spreadMethodNames[s]
	}
	return fmt.Sprintf("SpreadMethod(%d)", s)
}

// gradient holds the stops shared by linear and radial gradients.
type gradient struct {
	paintBase
	points         []float64
	colors         []graphics.Color
	spread         SpreadMethod
	useBoundingBox bool
}

func newGradient() gradient {
	return gradient{paintBase: newPaintBase(), useBoundingBox: true}
}

// Points returns the stop positions in [0,1].
func (g *gradient) Points() []float64 {
	return g.points
}

func (g *gradient) SetPoints(points []float64) bool {
	return trackFieldFunc(&g.points, points, slices.Equal, &g.state, stateModified)
}

// Colors returns the stop colors, parallel to Points.
func (g *gradient) Colors() []graphics.Color {
	return g.colors
}

func (g *gradient) SetColors(colors []graphics.Color) bool {
	return trackFieldFunc(&g.colors, colors, slices.Equal, &g.state, stateModified)
}

func (g *gradient) SpreadMethod() SpreadMethod {
	return g.spread
}

func (g *gradient) SetSpreadMethod(spread SpreadMethod) bool {
	return trackField(&g.spread, spread, &g.state, stateModified)
}

// UseBoundingBox reports whether gradient coordinates are relative to the
// bounds of the painted path.
func (g *gradient) UseBoundingBox() bool {
	return g.useBoundingBox
}

func (g *gradient) SetUseBoundingBox(use bool) bool {
	return trackField(&g.useBoundingBox, use, &g.state, stateModified)
}

func (g *gradient) Visible() bool {
	if g.opacity <= 0 {
		return false
	}
	for _, c := range g.colors {
		if !c.Transparent() {
			return true
		}
	}
	return false
}

func (g *gradient) stopsString() string {
	return fmt.Sprintf("points=%v colors=%v spread=%s bbox=%t", g.points, g.colors, g.spread, g.useBoundingBox)
}

// LinearGradientPaint fills with a gradient along a line.
type LinearGradientPaint struct {
	gradient
	start graphics.Offset
	end   graphics.Offset
}

// NewLinearGradientPaint returns a gradient from (0,0) to (1,0) with no stops.
func NewLinearGradientPaint() *LinearGradientPaint {
	return &LinearGradientPaint{gradient: newGradient(), end: graphics.Offset{X: 1}}
}

func (*LinearGradientPaint) Type() PaintType {
	return PaintTypeLinearGradient
}

func (p *LinearGradientPaint) Start() graphics.Offset {
	return p.start
}

func (p *LinearGradientPaint) SetStart(start graphics.Offset) bool {
	return trackField(&p.start, start, &p.state, stateModified)
}

func (p *LinearGradientPaint) End() graphics.Offset {
	return p.end
}

func (p *LinearGradientPaint) SetEnd(end graphics.Offset) bool {
	return trackField(&p.end, end, &p.state, stateModified)
}

func (p *LinearGradientPaint) String() string {
	return fmt.Sprintf("LinearGradientPaint %s start=%v end=%v%s", p.stopsString(), p.start, p.end, p.tail())
}

// RadialGradientPaint fills with a gradient radiating from a center.
type RadialGradientPaint struct {
	gradient
	center graphics.Offset
	radius float64
}

// NewRadialGradientPaint returns a gradient centered on (0.5,0.5) with radius
// 0.7 and no stops.
func NewRadialGradientPaint() *RadialGradientPaint {
	return &RadialGradientPaint{
		gradient: newGradient(),
		center:   graphics.Offset{X: 0.5, Y: 0.5},
		radius:   0.7,
	}
}

func (*RadialGradientPaint) Type() PaintType {
	return PaintTypeRadialGradient
}

func (p *RadialGradientPaint) Center() graphics.Offset {
	return p.center
}

func (p *RadialGradientPaint) SetCenter(center graphics.Offset) bool {
	return trackField(&p.center, center, &p.state, stateModified)
}

func (p *RadialGradientPaint) Radius() float64 {
	return p.radius
}

func (p *RadialGradientPaint) SetRadius(radius float64) bool {
	return trackField(&p.radius, radius, &p.state, stateModified)
}

func (p *RadialGradientPaint) String() string {
	return fmt.Sprintf("RadialGradientPaint %s center=%v radius=%g%s", p.stopsString(), p.center, p.radius, p.tail())
}

// PatternPaint tiles a node chain of the given size.
type PatternPaint struct {
	paintBase
	size graphics.Size
	node Node
}

// NewPatternPaint returns a pattern tiling node at the given size.
func NewPatternPaint(size graphics.Size, node Node) *PatternPaint {
	return &PatternPaint{paintBase: newPaintBase(), size: size, node: node}
}

func (*PatternPaint) Type() PaintType {
	return PaintTypePattern
}

func (p *PatternPaint) Size() graphics.Size {
	return p.size
}

func (p *PatternPaint) SetSize(size graphics.Size) bool {
	return trackField(&p.size, size, &p.state, stateModified)
}

func (p *PatternPaint) Node() Node {
	return p.node
}

func (p *PatternPaint) SetNode(node Node) bool {
	return trackField(&p.node, node, &p.state, stateModified)
}

func (p *PatternPaint) Visible() bool {
	if p.opacity <= 0 || p.size.IsEmpty() {
		return false
	}
	for n := p.node; n != nil; n = n.Next() {
		if n.Visible() {
			return true
		}
	}
	return false
}

func (p *PatternPaint) String() string {
	return fmt.Sprintf("PatternPaint size=%v%s", p.size, p.tail())
}
