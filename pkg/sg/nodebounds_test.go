package sg

import (
	"testing"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// testLayout is a fixed layout with 12 unit lines, 96 units wide.
type testLayout struct {
	text  string
	lines int
}

func (l *testLayout) Empty() bool {
	return l.text == ""
}

func (l *testLayout) Size() graphics.Size {
	return graphics.Size{Width: 96, Height: float64(12 * l.lines)}
}

func (l *testLayout) LineCount() int {
	return l.lines
}

func (l *testLayout) LineBounds(r Range) graphics.Rect {
	return graphics.RectFromLTWH(0, float64(12*r.Lower), 96, float64(12*(r.Upper-r.Lower+1)))
}

func (l *testLayout) Text() string {
	return l.text
}

type testImage struct{}

func (testImage) URL() string {
	return "test.png"
}

func (testImage) Size() graphics.Size {
	return graphics.Size{Width: 10, Height: 10}
}

type testPlayer struct{}

func (testPlayer) Source() string {
	return "test.mp4"
}

func redFill() PathOp {
	return NewFillPathOp(NewColorPaint(graphics.ColorRed))
}

func stroke(width float64) PathOp {
	op := NewStrokePathOp(NewColorPaint(graphics.ColorBlue))
	op.SetStrokeWidth(width)
	return op
}

func rectNode(x, y, w, h float64) *DrawNode {
	return NewDrawNode(NewRectPath(graphics.RectFromLTWH(x, y, w, h)), redFill())
}

// linePath is the open polyline (0,0) (10,20) (80,-20).
func linePath() *GeneralPath {
	return NewGeneralPath("LL", []float64{10, 20, 80, -20})
}

func expectRect(t *testing.T, got graphics.Rect, x, y, w, h float64) {
	t.Helper()
	want := graphics.RectFromLTWH(x, y, w, h)
	if !got.ApproxEqual(want) {
		t.Errorf("expected bounds %v, got %v", want.LTWH(), got.LTWH())
	}
}

func TestBoundingBox_DrawNode(t *testing.T) {
	tests := []struct {
		name       string
		op         PathOp
		transform  graphics.Transform2D
		x, y, w, h float64
	}{
		{"fill", redFill(), graphics.IdentityTransform(), 0, -20, 80, 40},
		{"stroke", stroke(4), graphics.IdentityTransform(), -2, -22, 84, 44},
		{"translated", redFill(), graphics.TranslateTransform(10, 5), 10, -15, 80, 40},
		{"scaled stroke", stroke(4), graphics.ScaleTransform(2, 2), -4, -44, 168, 88},
		{"rotated", redFill(), graphics.RotateTransform(90), -20, 0, 40, 80},
		{"fill then stroke", ChainPathOps(redFill(), stroke(2)), graphics.IdentityTransform(), -1, -21, 82, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewDrawNode(linePath(), tt.op)
			expectRect(t, BoundingBox(n, tt.transform), tt.x, tt.y, tt.w, tt.h)
		})
	}
}

func TestBoundingBox_CurvesUseExtrema(t *testing.T) {
	quad := NewDrawNode(NewGeneralPath("MQ", []float64{0, 0, 50, 100, 100, 0}), redFill())
	expectRect(t, BoundingBox(quad, graphics.IdentityTransform()), 0, 0, 100, 50)

	cubic := NewDrawNode(NewGeneralPath("MC", []float64{0, 0, 0, 100, 100, 100, 100, 0}), redFill())
	expectRect(t, BoundingBox(cubic, graphics.IdentityTransform()), 0, 0, 100, 75)
}

func TestBoundingBox_EmptyGeometryIsNotInflated(t *testing.T) {
	n := NewDrawNode(NewGeneralPath("", nil), stroke(10))
	if got := BoundingBox(n, graphics.IdentityTransform()); got != (graphics.Rect{}) {
		t.Errorf("expected zero rect, got %v", got.LTWH())
	}

	// A lone move draws nothing.
	n = NewDrawNode(NewGeneralPath("M", []float64{5, 5}), stroke(10))
	if got := BoundingBox(n, graphics.IdentityTransform()); got != (graphics.Rect{}) {
		t.Errorf("expected zero rect for a lone move, got %v", got.LTWH())
	}
}

func TestBoundingBox_TextNode(t *testing.T) {
	layout := &testLayout{text: "hello\nworld", lines: 2}

	n := NewTextNode(layout, redFill(), EmptyRange)
	expectRect(t, BoundingBox(n, graphics.IdentityTransform()), 0, 0, 96, 24)
	expectRect(t, BoundingBox(n, graphics.TranslateTransform(10, 10)), 10, 10, 96, 24)
	expectRect(t, BoundingBox(n, graphics.ScaleTransform(0.5, 0.5)), 0, 0, 48, 12)

	n.SetRange(Range{Lower: 1, Upper: 1})
	expectRect(t, BoundingBox(n, graphics.IdentityTransform()), 0, 12, 96, 12)

	n.SetOp(stroke(2))
	expectRect(t, BoundingBox(n, graphics.IdentityTransform()), -1, 11, 98, 14)
}

func TestBoundingBox_MediaAndEdit(t *testing.T) {
	img := NewImageNode(testImage{}, graphics.RectFromLTWH(5, 5, 20, 10), graphics.RectFromLTWH(0, 0, 10, 10))
	expectRect(t, BoundingBox(img, graphics.TranslateTransform(1, 2)), 6, 7, 20, 10)

	video := NewVideoNode(testPlayer{}, graphics.RectFromLTWH(0, 0, 64, 36), VideoScaleBestFill)
	expectRect(t, BoundingBox(video, graphics.ScaleTransform(2, 2)), 0, 0, 128, 72)

	edit := NewEditTextNode(nil, nil, EditTextConfig{}, "hi")
	if got := BoundingBox(edit, graphics.IdentityTransform()); got != (graphics.Rect{}) {
		t.Errorf("expected edit text to have no bounds, got %v", got.LTWH())
	}
}

func TestBoundingBox_CombiningNodes(t *testing.T) {
	transform := NewTransformNode(graphics.TranslateTransform(10, 10), rectNode(0, 0, 10, 10))
	expectRect(t, BoundingBox(transform, graphics.IdentityTransform()), 10, 10, 10, 10)
	expectRect(t, BoundingBox(transform, graphics.ScaleTransform(2, 2)), 20, 20, 20, 20)

	clip := NewClipNode(NewRectPath(graphics.RectFromLTWH(50, 50, 100, 100)), rectNode(0, 0, 100, 100))
	expectRect(t, BoundingBox(clip, graphics.IdentityTransform()), 50, 50, 50, 50)

	disjoint := NewClipNode(NewRectPath(graphics.RectFromLTWH(200, 200, 10, 10)), rectNode(0, 0, 100, 100))
	if got := BoundingBox(disjoint, graphics.IdentityTransform()); !got.IsEmpty() {
		t.Errorf("expected empty bounds for a disjoint clip, got %v", got.LTWH())
	}

	opacity := NewOpacityNode(0.5, rectNode(1, 2, 3, 4))
	expectRect(t, BoundingBox(opacity, graphics.IdentityTransform()), 1, 2, 3, 4)

	generic := NewGenericNode()
	generic.AppendChild(rectNode(0, 0, 10, 10))
	generic.AppendChild(rectNode(20, 20, 10, 10))
	expectRect(t, BoundingBox(generic, graphics.IdentityTransform()), 0, 0, 30, 30)
}

func TestBoundingBox_ShadowNode(t *testing.T) {
	shadow := NewShadow(graphics.ColorBlack, graphics.Offset{X: 5, Y: 5}, 2)
	n := NewShadowNode(shadow, rectNode(0, 0, 10, 10))
	expectRect(t, BoundingBox(n, graphics.IdentityTransform()), 0, 0, 17, 17)

	// The offset is mapped without the translation, the blur is scaled.
	expectRect(t, BoundingBox(n, graphics.TranslateTransform(100, 0)), 100, 0, 17, 17)
	expectRect(t, BoundingBox(n, graphics.ScaleTransform(2, 2)), 0, 0, 34, 34)

	negative := NewShadowNode(NewShadow(graphics.ColorBlack, graphics.Offset{X: -1, Y: 4}, 0), rectNode(0, 0, 10, 10))
	expectRect(t, BoundingBox(negative, graphics.IdentityTransform()), -1, 0, 11, 14)

	empty := NewShadowNode(shadow, nil)
	if got := BoundingBox(empty, graphics.IdentityTransform()); !got.IsEmpty() {
		t.Errorf("expected no bounds without children, got %v", got.LTWH())
	}
}

func TestCalculateBoundingBox_IncludesSiblings(t *testing.T) {
	first := rectNode(0, 0, 10, 10)
	AppendSibling(first, rectNode(20, 20, 5, 5))
	AppendSibling(first, rectNode(-14, 3, 1, 1))

	expectRect(t, BoundingBox(first, graphics.IdentityTransform()), 0, 0, 10, 10)
	expectRect(t, CalculateBoundingBox(first, graphics.IdentityTransform()), -14, 0, 39, 25)

	if got := CalculateBoundingBox(nil, graphics.IdentityTransform()); got != (graphics.Rect{}) {
		t.Errorf("expected zero rect for a nil chain, got %v", got.LTWH())
	}
}
