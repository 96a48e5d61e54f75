package avg

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-drift/scenegraph/pkg/errors"
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

const header = "type: AVG\nversion: \"1.2\"\nwidth: 100\nheight: 100\n"

func newTestGraphic(t *testing.T, body string, opts ...Option) *Graphic {
	t.Helper()
	doc, err := Parse([]byte(header + body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := New(doc, opts...)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g
}

// opTypes lists the op chain of a draw or text node.
func opTypes(op sg.PathOp) []sg.PathOpType {
	var out []sg.PathOpType
	for ; op != nil; op = op.Next() {
		out = append(out, op.Type())
	}
	return out
}

const twoFixedPaths = `
items:
  - type: path
    pathData: M0 0 L10 0 L10 10 Z
    fill: red
  - type: path
    pathData: M20 20 L30 20 L30 30 Z
    stroke: blue
`

func TestBuildSceneGraph_FixedPathsShareOneLayer(t *testing.T) {
	g := newTestGraphic(t, twoFixedPaths)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)

	if !frag.IsLayer() {
		t.Fatalf("expected a layer fragment, got %s", frag)
	}
	if frag.Type() != sg.LayerFixedContentFixed {
		t.Errorf("expected LayerFixedContentFixed, got %s", frag.Type())
	}
	layer := frag.Layer()
	if got := sg.ChainLength(layer.Content()); got != 2 {
		t.Errorf("expected two draw nodes, got %d", got)
	}
	if len(layer.Children()) != 0 {
		t.Errorf("expected no child layers, got %d", len(layer.Children()))
	}
	if layer.Bounds() != graphics.RectFromLTWH(0, 0, 100, 100) {
		t.Errorf("expected viewport bounds, got %v", layer.Bounds().LTWH())
	}
	if !layer.ContentOffset().IsZero() {
		t.Errorf("expected zero content offset, got %v", layer.ContentOffset())
	}
	if got := len(updates.CreatedLayers()); got != 1 {
		t.Errorf("expected one created layer, got %d", got)
	}
}

func TestBuildSceneGraph_WithoutLayers(t *testing.T) {
	g := newTestGraphic(t, twoFixedPaths)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)

	if !frag.IsNode() || frag.Type() != sg.NodeContentFixed {
		t.Fatalf("expected a fixed node fragment, got %s", frag)
	}
	first, ok := frag.Node().(*sg.DrawNode)
	if !ok {
		t.Fatalf("expected a draw node, got %s", frag.Node())
	}
	if got := opTypes(first.Op()); !slices.Equal(got, []sg.PathOpType{sg.PathOpFill}) {
		t.Errorf("expected a single fill, got %v", got)
	}
	second := first.Next().(*sg.DrawNode)
	if got := opTypes(second.Op()); !slices.Equal(got, []sg.PathOpType{sg.PathOpStroke}) {
		t.Errorf("expected a single stroke, got %v", got)
	}
	if !updates.Empty() {
		t.Error("expected no layers to be created")
	}
}

func TestBuildSceneGraph_FillsInOrder(t *testing.T) {
	g := newTestGraphic(t, `
items:
  - type: path
    pathData: M0 0 L10 0 L10 10 Z
    fill: red
  - type: path
    pathData: M20 20 L30 20 L30 30 Z
    fill: blue
`)
	for _, allowLayers := range []bool{false, true} {
		var updates sg.SceneGraphUpdates
		frag := g.BuildSceneGraph(allowLayers, &updates)
		content := frag.Node()
		if frag.IsLayer() {
			content = frag.Layer().Content()
		}
		var colors []graphics.Color
		for n := content; n != nil; n = n.Next() {
			draw, ok := n.(*sg.DrawNode)
			if !ok {
				t.Fatalf("expected draw nodes, got %s", n)
			}
			if got := opTypes(draw.Op()); !slices.Equal(got, []sg.PathOpType{sg.PathOpFill}) {
				t.Errorf("expected a single fill, got %v", got)
			}
			colors = append(colors, draw.Op().Paint().(*sg.ColorPaint).Color())
		}
		if want := []graphics.Color{graphics.ColorRed, graphics.ColorBlue}; !slices.Equal(colors, want) {
			t.Errorf("allowLayers=%v: expected fills %v, got %v", allowLayers, want, colors)
		}
	}
}

func TestBuildSceneGraph_OpInclusion(t *testing.T) {
	tests := []struct {
		name  string
		props string
		want  []sg.PathOpType
	}{
		{"fill", "fill: red", []sg.PathOpType{sg.PathOpFill}},
		{"stroke", "stroke: red", []sg.PathOpType{sg.PathOpStroke}},
		{"fill and stroke", "fill: red\n    stroke: blue", []sg.PathOpType{sg.PathOpFill, sg.PathOpStroke}},
		{"nothing", "fill: transparent", nil},
		{"zero stroke width", "stroke: red\n    strokeWidth: 0", nil},
		{"zero fill opacity", "fill: red\n    fillOpacity: 0", nil},
		{"invisible but bound", "fill: \"${color}\"", []sg.PathOpType{sg.PathOpFill}},
		{"bound width", "stroke: red\n    strokeWidth: \"${width}\"", []sg.PathOpType{sg.PathOpStroke}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `
parameters:
  - name: color
    default: transparent
  - name: width
    type: number
    default: 0
items:
  - type: path
    pathData: M0 0 L10 10
    ` + tt.props + "\n"
			g := newTestGraphic(t, body)
			var updates sg.SceneGraphUpdates
			frag := g.BuildSceneGraph(false, &updates)
			if tt.want == nil {
				if !frag.Empty() {
					t.Errorf("expected nothing to be drawn, got %s", frag)
				}
				return
			}
			node, ok := frag.Node().(*sg.DrawNode)
			if !ok {
				t.Fatalf("expected a draw node, got %s", frag)
			}
			if got := opTypes(node.Op()); !slices.Equal(got, tt.want) {
				t.Errorf("expected ops %v, got %v", tt.want, got)
			}
		})
	}
}

const boundOpacityGroup = `
parameters:
  - name: alpha
    type: number
    default: 0.5
items:
  - type: group
    id: g
    opacity: "${alpha}"
    items:
      - type: path
        id: p
        pathData: M10 10 L20 10 L20 20 Z
        fill: red
`

func TestGroup_BoundOpacityGetsOwnLayer(t *testing.T) {
	g := newTestGraphic(t, boundOpacityGroup)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)

	outer := frag.Layer()
	if outer == nil || outer.Content() != nil {
		t.Fatalf("expected an outer layer without content, got %s", frag)
	}
	if len(outer.Children()) != 1 {
		t.Fatalf("expected one child layer, got %d", len(outer.Children()))
	}
	inner := outer.Children()[0]
	if inner.Opacity() != 0.5 {
		t.Errorf("expected inner opacity 0.5, got %v", inner.Opacity())
	}
	if sg.ChainLength(inner.Content()) != 1 {
		t.Errorf("expected the path in the inner layer")
	}
	expectRectEqual(t, inner.Bounds(), graphics.RectFromLTWH(10, 10, 10, 10))

	updates.Clear()
	if !g.SetProperty("alpha", 0.25) {
		t.Fatal("expected alpha to be accepted")
	}
	if !g.IsDirty() {
		t.Fatal("expected the graphic to be dirty")
	}
	g.UpdateSceneGraph(&updates)

	changed := updates.ChangedLayers()
	if len(changed) != 1 || changed[0] != inner {
		t.Fatalf("expected only the inner layer to change, got %d layers", len(changed))
	}
	if inner.Flags() != sg.FlagOpacityChanged {
		t.Errorf("expected only OPACITY, got [%s]", inner.Flags())
	}
	if inner.Opacity() != 0.25 {
		t.Errorf("expected opacity 0.25, got %v", inner.Opacity())
	}
	if g.IsDirty() {
		t.Error("expected the update to drain the dirty queue")
	}
}

func TestGroup_BoundOpacityWithoutLayers(t *testing.T) {
	g := newTestGraphic(t, boundOpacityGroup)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)

	if frag.Type() != sg.NodeContentMutable {
		t.Errorf("expected NodeContentMutable, got %s", frag.Type())
	}
	opacity, ok := frag.Node().(*sg.OpacityNode)
	if !ok {
		t.Fatalf("expected an opacity node, got %s", frag.Node())
	}
	if _, ok := opacity.Child().(*sg.DrawNode); !ok {
		t.Errorf("expected the path below the opacity node, got %s", opacity.Child())
	}

	sg.ClearChainFlags(opacity)
	g.SetProperty("alpha", 0.75)
	g.UpdateSceneGraph(&updates)
	if opacity.Opacity() != 0.75 {
		t.Errorf("expected opacity 0.75, got %v", opacity.Opacity())
	}
	modified := updates.ModifiedNodes()
	if len(modified) != 1 || modified[0] != sg.Node(opacity) {
		t.Errorf("expected the opacity node to be reported, got %v", modified)
	}
}

func TestGroup_InvisibleIsSkipped(t *testing.T) {
	g := newTestGraphic(t, `
items:
  - type: group
    opacity: 0
    items:
      - type: path
        pathData: M0 0 L10 10
        stroke: red
`)
	var updates sg.SceneGraphUpdates
	if frag := g.BuildSceneGraph(true, &updates); !frag.Empty() {
		t.Errorf("expected an empty fragment, got %s", frag)
	}
}

func TestGroup_FixedWrappers(t *testing.T) {
	g := newTestGraphic(t, `
items:
  - type: group
    opacity: 0.5
    translateX: 5
    clipPath: M0 0 L50 0 L50 50 Z
    items:
      - type: path
        pathData: M0 0 L10 10
        stroke: red
`)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)
	opacity, ok := frag.Node().(*sg.OpacityNode)
	if !ok {
		t.Fatalf("expected opacity outermost, got %s", frag.Node())
	}
	transform, ok := opacity.Child().(*sg.TransformNode)
	if !ok {
		t.Fatalf("expected a transform node, got %s", opacity.Child())
	}
	if transform.Transform() != graphics.TranslateTransform(5, 0) {
		t.Errorf("unexpected transform %v", transform.Transform())
	}
	if _, ok := transform.Child().(*sg.ClipNode); !ok {
		t.Errorf("expected a clip node innermost, got %s", transform.Child())
	}
	if frag.Type() != sg.NodeContentFixed {
		t.Errorf("expected NodeContentFixed, got %s", frag.Type())
	}
}

func TestGroup_BoundRotation(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: angle
    type: number
    default: 0
items:
  - type: group
    rotation: "${angle}"
    pivotX: 10
    pivotY: 10
    items:
      - type: path
        pathData: M0 0 L10 10
        stroke: red
`)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)
	transform, ok := frag.Node().(*sg.TransformNode)
	if !ok {
		t.Fatalf("expected a bound identity transform to be kept, got %s", frag.Node())
	}

	g.SetProperty("angle", 90)
	g.UpdateSceneGraph(&updates)
	expectPoint(t, transform.Transform().Apply(graphics.Offset{X: 20, Y: 10}), 10, 20)
	if len(updates.ModifiedNodes()) != 1 {
		t.Errorf("expected the transform node to be reported, got %d nodes", len(updates.ModifiedNodes()))
	}
}

const boundPath = `
parameters:
  - name: color
    type: color
    default: red
  - name: size
    type: number
    default: 10
items:
  - type: path
    id: p
    pathData: "M0 0 L${size} 0 L${size} ${size} Z"
    fill: "${color}"
`

func TestPath_MutableGetsOwnLayer(t *testing.T) {
	g := newTestGraphic(t, boundPath)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)

	children := frag.Layer().Children()
	if len(children) != 1 || children[0].Name() != "p_path" {
		t.Fatalf("expected a p_path child layer, got %d children", len(children))
	}
	pathLayer := children[0]
	if !pathLayer.IsCharacteristic(sg.CharacteristicRenderOnly | sg.CharacteristicDoNotClipChildren) {
		t.Errorf("unexpected characteristics [%s]", pathLayer.Characteristics())
	}
	expectRectEqual(t, pathLayer.Bounds(), graphics.RectFromLTWH(0, 0, 10, 10))

	updates.Clear()
	g.SetProperty("color", "blue")
	g.UpdateSceneGraph(&updates)
	if !pathLayer.IsFlagSet(sg.FlagRedrawContent) || !updates.IsChanged(pathLayer) {
		t.Errorf("expected a content redraw of p_path, got [%s]", pathLayer.Flags())
	}
	draw := pathLayer.Content().(*sg.DrawNode)
	paint, ok := draw.Op().Paint().(*sg.ColorPaint)
	if !ok || paint.Color() != graphics.ColorBlue {
		t.Errorf("expected a blue paint, got %s", draw.Op().Paint())
	}

	updates.Clear()
	g.SetProperty("size", 40)
	g.UpdateSceneGraph(&updates)
	resize := updates.ResizeLayers()
	if len(resize) != 1 || resize[0] != pathLayer {
		t.Fatalf("expected p_path to be resized, got %d layers", len(resize))
	}
	updates.ProcessResize()
	expectRectEqual(t, pathLayer.Bounds(), graphics.RectFromLTWH(0, 0, 40, 40))
}

func TestPath_MergedLayersLeaveCreated(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: color
    type: color
    default: red
items:
  - type: path
    id: p1
    pathData: M0 0 L10 0 L10 10 Z
    fill: "${color}"
  - type: path
    id: p2
    pathData: M20 20 L30 20 L30 30 Z
    fill: "${color}"
`)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)

	children := frag.Layer().Children()
	if len(children) != 1 || children[0].Name() != "p1_path" {
		t.Fatalf("expected the paths to share p1_path, got %d children", len(children))
	}
	if got := sg.ChainLength(children[0].Content()); got != 2 {
		t.Errorf("expected two draw nodes, got %d", got)
	}
	inTree := map[*sg.Layer]bool{frag.Layer(): true, children[0]: true}
	for _, l := range updates.CreatedLayers() {
		if !inTree[l] {
			t.Errorf("expected only layers in the tree to be created, got %s", l.Name())
		}
	}
	if got := len(updates.CreatedLayers()); got != 2 {
		t.Errorf("expected 2 created layers, got %d", got)
	}
}

func TestPath_OpacityUpdatesPaintInPlace(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: alpha
    type: number
    default: 1
items:
  - type: path
    pathData: M0 0 L10 10
    stroke: red
    strokeOpacity: "${alpha}"
`)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)
	draw := frag.Node().(*sg.DrawNode)
	paint := draw.Op().Paint()

	g.SetProperty("alpha", 0.5)
	g.UpdateSceneGraph(&updates)
	if draw.Op().Paint() != paint {
		t.Error("expected the paint to be kept")
	}
	if paint.Opacity() != 0.5 {
		t.Errorf("expected paint opacity 0.5, got %v", paint.Opacity())
	}
	if len(updates.ModifiedNodes()) != 1 {
		t.Errorf("expected the draw node to be reported, got %d", len(updates.ModifiedNodes()))
	}
}

func TestPath_StrokeParameters(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: width
    type: number
    default: 2
items:
  - type: path
    pathData: M0 0 L10 10
    stroke: red
    strokeWidth: "${width}"
    strokeLineCap: round
    strokeDashArray: [1, 2]
`)
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)
	stroke := frag.Node().(*sg.DrawNode).Op().(*sg.StrokePathOp)
	if stroke.StrokeWidth() != 2 || stroke.LineCap() != sg.LineCapRound || stroke.MiterLimit() != 4 {
		t.Errorf("unexpected stroke %s", stroke)
	}
	if !slices.Equal(stroke.Dashes(), []float64{1, 2}) {
		t.Errorf("expected dashes [1 2], got %v", stroke.Dashes())
	}

	g.SetProperty("width", 6)
	g.UpdateSceneGraph(&updates)
	if stroke.StrokeWidth() != 6 {
		t.Errorf("expected width 6, got %v", stroke.StrokeWidth())
	}
}

func TestSetProperty(t *testing.T) {
	g := newTestGraphic(t, boundPath)
	if g.SetProperty("missing", 1) {
		t.Error("expected an unknown parameter to be refused")
	}
	if g.SetProperty("width", 10) {
		t.Error("expected a built-in parameter to be refused")
	}
	if !g.SetProperty("color", "red") || g.IsDirty() {
		t.Error("expected an unchanged value to leave the graphic clean")
	}
	if !g.SetProperty("size", "12") {
		t.Fatal("expected a numeric string to be accepted")
	}
	if v, _ := g.Parameter("size"); v != 12.0 {
		t.Errorf("expected size 12, got %v", v)
	}
	if !g.IsDirty() {
		t.Error("expected the graphic to be dirty")
	}
}

func TestNew_Parameters(t *testing.T) {
	g := newTestGraphic(t, boundPath, WithParameters(map[string]any{"size": 20, "other": 1}))
	if v, _ := g.Parameter("size"); v != 20.0 {
		t.Errorf("expected the override, got %v", v)
	}
	if v, _ := g.Parameter("viewportWidth"); v != 100.0 {
		t.Errorf("expected viewportWidth 100, got %v", v)
	}
	if got := g.ParameterNames(); !slices.Equal(got, []string{"color", "size"}) {
		t.Errorf("unexpected parameter names %v", got)
	}

	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(false, &updates)
	draw := frag.Node().(*sg.DrawNode)
	if got := draw.Path().BoundingBox(graphics.IdentityTransform()); got.Right != 20 {
		t.Errorf("expected a 20 unit path, got %v", got.LTWH())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind errors.ErrorKind
	}{
		{"unknown element", "items:\n  - type: circle\n", errors.KindParse},
		{"missing path data", "items:\n  - type: path\n    fill: red\n", errors.KindProperty},
		{"missing text", "items:\n  - type: group\n    items:\n      - type: text\n", errors.KindProperty},
		{"builtin parameter", "parameters: [width]\n", errors.KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(header + tt.body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = New(doc)
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, e.Kind)
			}
		})
	}
}

func TestNew_BadPropertyFallsBack(t *testing.T) {
	var got []*errors.Error
	errors.SetHandler(recordingHandler{errs: &got})
	defer errors.SetHandler(nil)

	g := newTestGraphic(t, `
items:
  - type: path
    pathData: M0 0 L10 10 Q
    stroke: notacolor
`)
	if len(got) != 2 {
		t.Fatalf("expected two reported property errors, got %d", len(got))
	}
	for _, e := range got {
		if e.Kind != errors.KindProperty || !strings.HasPrefix(e.Element, "path") {
			t.Errorf("unexpected error %v", e)
		}
	}
	var updates sg.SceneGraphUpdates
	if frag := g.BuildSceneGraph(false, &updates); !frag.Empty() {
		t.Errorf("expected the broken path to draw nothing, got %s", frag)
	}
}

type recordingHandler struct {
	errs *[]*errors.Error
}

func (h recordingHandler) HandleError(err *errors.Error) {
	*h.errs = append(*h.errs, err)
}

func (h recordingHandler) HandlePanic(*errors.PanicError) {}

func TestElementIDs(t *testing.T) {
	g := newTestGraphic(t, `
items:
  - type: path
    pathData: M0 0 L1 1
  - type: group
    id: named
    items:
      - type: path
        pathData: M0 0 L1 1
  - type: text
    text: hi
`)
	want := []string{"named", "path1", "path2", "text1"}
	if got := g.ElementIDs(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// fixedMeasurer lays out every string 100 units wide with the baseline 30
// units below the top.
type fixedMeasurer struct {
	calls int
}

func (m *fixedMeasurer) Layout(text string, style TextStyle) TextLayout {
	m.calls++
	return &basicLayout{text: text, width: 100, height: style.FontSize, baseline: 30}
}

func TestText_Anchor(t *testing.T) {
	tests := []struct {
		anchor string
		x      float64
	}{
		{"start", 50},
		{"middle", 0},
		{"end", -50},
	}
	for _, tt := range tests {
		t.Run(tt.anchor, func(t *testing.T) {
			g := newTestGraphic(t, `
items:
  - type: text
    text: hello
    x: 50
    y: 40
    textAnchor: `+tt.anchor+"\n", WithMeasurer(&fixedMeasurer{}))
			var updates sg.SceneGraphUpdates
			frag := g.BuildSceneGraph(false, &updates)
			transform, ok := frag.Node().(*sg.TransformNode)
			if !ok {
				t.Fatalf("expected a transform node, got %s", frag)
			}
			if want := graphics.TranslateTransform(tt.x, 10); transform.Transform() != want {
				t.Errorf("expected %v, got %v", want, transform.Transform())
			}
			text := transform.Child().(*sg.TextNode)
			if got := opTypes(text.Op()); !slices.Equal(got, []sg.PathOpType{sg.PathOpFill}) {
				t.Errorf("expected the default black fill only, got %v", got)
			}
		})
	}
}

func TestText_BoundText(t *testing.T) {
	m := &fixedMeasurer{}
	g := newTestGraphic(t, `
parameters:
  - name: label
    default: one
items:
  - type: text
    id: t
    text: "${label}"
`, WithMeasurer(m))
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)

	textLayer := frag.Layer().Children()[0]
	if textLayer.Name() != "t_text" {
		t.Fatalf("expected a t_text layer, got %s", textLayer.Name())
	}
	node := textLayer.Content().(*sg.TransformNode).Child().(*sg.TextNode)
	if node.TextLayout().Text() != "one" {
		t.Errorf("expected text one, got %q", node.TextLayout().Text())
	}

	updates.Clear()
	g.SetProperty("label", "two")
	g.UpdateSceneGraph(&updates)
	if node.TextLayout().Text() != "two" {
		t.Errorf("expected text two, got %q", node.TextLayout().Text())
	}
	if m.calls != 2 {
		t.Errorf("expected two layouts, got %d", m.calls)
	}
	if !updates.IsChanged(textLayer) || !textLayer.IsFlagSet(sg.FlagRedrawContent) {
		t.Errorf("expected t_text to be redrawn, got [%s]", textLayer.Flags())
	}
	if len(updates.ResizeLayers()) != 1 {
		t.Errorf("expected a size check on t_text, got %d", len(updates.ResizeLayers()))
	}
}

// glyphLayout is a value-type layout. The advances make it incomparable.
type glyphLayout struct {
	text     string
	advances []float64
}

func (l glyphLayout) Empty() bool                       { return l.text == "" }
func (l glyphLayout) Size() graphics.Size               { return graphics.Size{Width: 10 * float64(len(l.advances)), Height: 20} }
func (l glyphLayout) LineCount() int                    { return 1 }
func (l glyphLayout) LineBounds(sg.Range) graphics.Rect { return graphics.RectFromLTWH(0, 0, l.Size().Width, 20) }
func (l glyphLayout) Text() string                      { return l.text }
func (l glyphLayout) Baseline() float64                 { return 15 }

type glyphMeasurer struct{}

func (glyphMeasurer) Layout(text string, style TextStyle) TextLayout {
	advances := make([]float64, len(text))
	for i := range advances {
		advances[i] = 10
	}
	return glyphLayout{text: text, advances: advances}
}

// lineLayout is a comparable value-type layout that ignores the font.
type lineLayout struct {
	text string
}

func (l lineLayout) Empty() bool                       { return l.text == "" }
func (l lineLayout) Size() graphics.Size               { return graphics.Size{Width: 50, Height: 20} }
func (l lineLayout) LineCount() int                    { return 1 }
func (l lineLayout) LineBounds(sg.Range) graphics.Rect { return graphics.RectFromLTWH(0, 0, 50, 20) }
func (l lineLayout) Text() string                      { return l.text }
func (l lineLayout) Baseline() float64                 { return 15 }

type lineMeasurer struct{}

func (lineMeasurer) Layout(text string, style TextStyle) TextLayout {
	return lineLayout{text: text}
}

func TestText_IncomparableLayout(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: s
    default: hi
items:
  - type: text
    id: t
    text: "${s}"
`, WithMeasurer(glyphMeasurer{}))
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)
	textLayer := frag.Layer().Children()[0]
	node := textLayer.Content().(*sg.TransformNode).Child().(*sg.TextNode)

	updates.Clear()
	g.SetProperty("s", "bye")
	g.UpdateSceneGraph(&updates)
	if got := node.TextLayout().Text(); got != "bye" {
		t.Errorf("expected text bye, got %q", got)
	}
	if !updates.IsChanged(textLayer) {
		t.Error("expected t_text to be redrawn")
	}
}

func TestText_NoRedrawWithoutChange(t *testing.T) {
	g := newTestGraphic(t, `
parameters:
  - name: family
    default: serif
items:
  - type: text
    id: t
    text: hello
    fontFamily: "${family}"
`, WithMeasurer(lineMeasurer{}))
	var updates sg.SceneGraphUpdates
	frag := g.BuildSceneGraph(true, &updates)
	textLayer := frag.Layer().Children()[0]
	if textLayer.Name() != "t_text" {
		t.Fatalf("expected a t_text layer, got %s", textLayer.Name())
	}
	sg.ClearChainFlags(textLayer.Content())
	textLayer.ClearFlags()

	updates.Clear()
	if !g.SetProperty("family", "monospace") {
		t.Fatal("expected family to be accepted")
	}
	g.UpdateSceneGraph(&updates)
	if !updates.Empty() {
		t.Errorf("expected no updates for an identical layout, got %d changed and %d resized",
			len(updates.ChangedLayers()), len(updates.ResizeLayers()))
	}
	if textLayer.IsFlagSet(sg.FlagRedrawContent) {
		t.Error("expected t_text not to be redrawn")
	}
}

func TestBasicMeasurer(t *testing.T) {
	layout := BasicMeasurer{}.Layout("abcd", TextStyle{FontSize: 13})
	if got := layout.Size(); got.Width != 28 || got.Height != 13 {
		t.Errorf("expected 28x13, got %vx%v", got.Width, got.Height)
	}
	if layout.Baseline() <= 0 || layout.Baseline() >= 13 {
		t.Errorf("expected the baseline inside the line, got %v", layout.Baseline())
	}
	wide := BasicMeasurer{}.Layout("abcd", TextStyle{FontSize: 26, LetterSpacing: 1})
	if got := wide.Size().Width; got != 60 {
		t.Errorf("expected 60, got %v", got)
	}
	if !(BasicMeasurer{}).Layout("", TextStyle{FontSize: 13}).Empty() {
		t.Error("expected an empty layout")
	}
}

func expectRectEqual(t *testing.T, got, want graphics.Rect) {
	t.Helper()
	if !got.ApproxEqual(want) {
		t.Errorf("expected %v, got %v", want.LTWH(), got.LTWH())
	}
}
