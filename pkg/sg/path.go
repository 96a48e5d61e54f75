package sg

import (
	"fmt"
	"slices"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// PathType identifies a Path variant.
type PathType uint8

const (
	PathTypeRect PathType = iota
	PathTypeRoundedRect
	PathTypeFrame
	PathTypeGeneral
)

var pathTypeNames = [...]string{"rectPath", "roundedRectPath", "framePath", "generalPath"}

func (t PathType) String() string {
	if int(t) < len(pathTypeNames) {
		return pathTypeNames[t]
	}
	return fmt.Sprintf("PathType(%d)", t)
}

// Path is the geometry drawn or clipped by a node. The set of variants is
// closed: RectPath, RoundedRectPath, FramePath and GeneralPath.
type Path interface {
	Type() PathType
	// Empty reports whether the path encloses no area.
	Empty() bool
	// BoundingBox returns the path bounds after applying t.
	BoundingBox(t graphics.Transform2D) graphics.Rect
	IsModified() bool
	GetAndClearModified() bool
	String() string
	isPath()
}

// RectPath is an axis-aligned rectangle.
type RectPath struct {
	modified
	rect graphics.Rect
}

// NewRectPath returns a rectangular path.
func NewRectPath(rect graphics.Rect) *RectPath {
	return &RectPath{rect: rect}
}

func (*RectPath) isPath() {}

func (*RectPath) Type() PathType {
	return PathTypeRect
}

func (p *RectPath) Rect() graphics.Rect {
	return p.rect
}

func (p *RectPath) Empty() bool {
	return p.rect.IsEmpty()
}

func (p *RectPath) SetRect(rect graphics.Rect) bool {
	return trackField(&p.rect, rect, &p.state, stateModified)
}

func (p *RectPath) BoundingBox(t graphics.Transform2D) graphics.Rect {
	return t.MapRect(p.rect)
}

func (p *RectPath) String() string {
	return fmt.Sprintf("RectPath %v", p.rect.LTWH())
}

// RoundedRectPath is a rectangle with rounded corners.
type RoundedRectPath struct {
	modified
	rrect graphics.RoundedRect
}

// NewRoundedRectPath returns a rounded rectangle path.
func NewRoundedRectPath(rrect graphics.RoundedRect) *RoundedRectPath {
	return &RoundedRectPath{rrect: rrect}
}

func (*RoundedRectPath) isPath() {}

func (*RoundedRectPath) Type() PathType {
	return PathTypeRoundedRect
}

func (p *RoundedRectPath) RoundedRect() graphics.RoundedRect {
	return p.rrect
}

func (p *RoundedRectPath) Empty() bool {
	return p.rrect.IsEmpty()
}

func (p *RoundedRectPath) SetRoundedRect(rrect graphics.RoundedRect) bool {
	return trackField(&p.rrect, rrect, &p.state, stateModified)
}

func (p *RoundedRectPath) BoundingBox(t graphics.Transform2D) graphics.Rect {
	return t.MapRect(p.rrect.Rect)
}

func (p *RoundedRectPath) String() string {
	return fmt.Sprintf("RoundedRectPath %v radii=%v", p.rrect.Rect.LTWH(), p.rrect.Radii)
}

// FramePath is the band between a rounded rectangle and the same rectangle
// inset by a fixed amount. Borders are drawn with it.
type FramePath struct {
	modified
	rrect graphics.RoundedRect
	inset float64
}

// NewFramePath returns a frame of the given inset inside rrect.
func NewFramePath(rrect graphics.RoundedRect, inset float64) *FramePath {
	return &FramePath{rrect: rrect, inset: inset}
}

func (*FramePath) isPath() {}

func (*FramePath) Type() PathType {
	return PathTypeFrame
}

func (p *FramePath) RoundedRect() graphics.RoundedRect {
	return p.rrect
}

func (p *FramePath) Inset() float64 {
	return p.inset
}

func (p *FramePath) Empty() bool {
	return p.rrect.IsEmpty() || p.inset <= 0
}

func (p *FramePath) SetRoundedRect(rrect graphics.RoundedRect) bool {
	return trackField(&p.rrect, rrect, &p.state, stateModified)
}

func (p *FramePath) SetInset(inset float64) bool {
	return trackField(&p.inset, inset, &p.state, stateModified)
}

func (p *FramePath) BoundingBox(t graphics.Transform2D) graphics.Rect {
	return t.MapRect(p.rrect.Rect)
}

func (p *FramePath) String() string {
	return fmt.Sprintf("FramePath %v radii=%v inset=%g", p.rrect.Rect.LTWH(), p.rrect.Radii, p.inset)
}

// GeneralPath is a sequence of drawing commands. Values holds one letter per
// command (M, L, Q, C or Z) and Points holds the flattened coordinates they
// consume: two for M and L, four for Q, six for C, none for Z.
type GeneralPath struct {
	modified
	values string
	points []float64
}

// NewGeneralPath returns a path from command letters and their coordinates.
func NewGeneralPath(values string, points []float64) *GeneralPath {
	return &GeneralPath{values: values, points: points}
}

func (*GeneralPath) isPath() {}

func (*GeneralPath) Type() PathType {
	return PathTypeGeneral
}

func (p *GeneralPath) Values() string {
	return p.values
}

func (p *GeneralPath) Points() []float64 {
	return p.points
}

func (p *GeneralPath) Empty() bool {
	return p.values == ""
}

// SetPath replaces the commands and coordinates.
func (p *GeneralPath) SetPath(values string, points []float64) bool {
	changed := trackField(&p.values, values, &p.state, stateModified)
	return trackFieldFunc(&p.points, points, slices.Equal, &p.state, stateModified) || changed
}

func (p *GeneralPath) BoundingBox(t graphics.Transform2D) graphics.Rect {
	return calculatePathBounds(t, p.values, p.points)
}

func (p *GeneralPath) String() string {
	return fmt.Sprintf("GeneralPath %s %v", p.values, p.points)
}

// PathsEqual reports whether two paths describe the same geometry. Two nil
// paths are equal.
func PathsEqual(a, b Path) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch pa := a.(type) {
	case *RectPath:
		pb, ok := b.(*RectPath)
		return ok && pa.rect == pb.rect
	case *RoundedRectPath:
		pb, ok := b.(*RoundedRectPath)
		return ok && pa.rrect == pb.rrect
	case *FramePath:
		pb, ok := b.(*FramePath)
		return ok && pa.rrect == pb.rrect && pa.inset == pb.inset
	case *GeneralPath:
		pb, ok := b.(*GeneralPath)
		return ok && pa.values == pb.values && slices.Equal(pa.points, pb.points)
	}
	return false
}

// normalizePath coerces empty paths to nil.
func normalizePath(p Path) Path {
	if p == nil || p.Empty() {
		return nil
	}
	return p
}
