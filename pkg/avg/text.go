package avg

import (
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

var textProps = []propDef{
	{name: "text", def: "", convert: asString, required: true},
	{name: "x", def: 0.0, convert: asNumber},
	{name: "y", def: 0.0, convert: asNumber},
	{name: "textAnchor", def: TextAnchorStart, convert: asTextAnchor},
	{name: "fontFamily", def: "sans-serif", convert: asString},
	{name: "fontSize", def: 40.0, convert: asNonNegative},
	{name: "fontStyle", def: "normal", convert: asString},
	{name: "fontWeight", def: "normal", convert: asString},
	{name: "letterSpacing", def: 0.0, convert: asNumber},
	{name: "fill", def: graphics.ColorBlack, convert: asFill},
	{name: "fillOpacity", def: 1.0, convert: asOpacity},
	{name: "fillTransform", def: graphics.IdentityTransform(), convert: asTransform},
	{name: "stroke", def: graphics.ColorTransparent, convert: asFill},
	{name: "strokeOpacity", def: 1.0, convert: asOpacity},
	{name: "strokeTransform", def: graphics.IdentityTransform(), convert: asTransform},
	{name: "strokeWidth", def: 0.0, convert: asNonNegative},
	{name: "filters", def: []sg.Filter{}, convert: asFilters},
}

var (
	fontProps     = []string{"text", "fontFamily", "fontSize", "fontStyle", "fontWeight", "letterSpacing"}
	positionProps = []string{"text", "x", "y", "textAnchor", "fontFamily", "fontSize", "fontStyle", "fontWeight", "letterSpacing"}
)

// textElement draws a single line of text anchored at x and the baseline
// at y.
type textElement struct {
	elementBase
	layout TextLayout
	sgNode *sg.TransformNode
}

func (t *textElement) textLayout() TextLayout {
	if t.layout == nil {
		t.layout = t.graphic.measurer.Layout(t.str("text"), TextStyle{
			FontFamily:    t.str("fontFamily"),
			FontSize:      t.number("fontSize"),
			FontWeight:    t.str("fontWeight"),
			FontStyle:     t.str("fontStyle"),
			LetterSpacing: t.number("letterSpacing"),
		})
	}
	return t.layout
}

// position returns the top-left corner of the laid out text.
func (t *textElement) position() graphics.Offset {
	layout := t.textLayout()
	pos := graphics.Offset{X: t.number("x"), Y: t.number("y") - layout.Baseline()}
	switch t.values["textAnchor"] {
	case TextAnchorMiddle:
		pos.X -= layout.Size().Width / 2
	case TextAnchorEnd:
		pos.X -= layout.Size().Width
	}
	return pos
}

func (t *textElement) buildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	t.sgNode = nil

	if t.str("text") == "" && !t.hasUpstream("text") {
		return nil
	}

	var fill, stroke sg.PathOp
	if t.includeInSceneGraph("fill") && t.includeInSceneGraph("fillOpacity") {
		fill = sg.NewFillPathOp(t.newPaint(fillProps))
	}
	if t.includeInSceneGraph("stroke") && t.includeInSceneGraph("strokeOpacity") &&
		t.includeInSceneGraph("strokeWidth") {
		stroke = t.newStrokeOp()
	}
	op := sg.ChainPathOps(fill, stroke)
	if op == nil {
		return nil
	}

	text := sg.NewTextNode(t.textLayout(), op, sg.EmptyRange)
	node := sg.NewTransformNode(graphics.TranslateBy(t.position()), text)
	mutable := t.hasUpstream()
	if mutable {
		t.sgNode = node
	}

	var result *sg.GraphicFragment
	if allowLayers && mutable {
		layer := newContentLayer(t.id+"_text", node, updates)
		result = sg.NewLayerFragment(t, layer, sg.LayerFixedContentMutable)
	} else {
		typ := sg.NodeContentFixed
		if mutable {
			typ = sg.NodeContentMutable
		}
		result = sg.NewNodeFragment(t, node, typ)
	}
	result.ApplyFilters(t.filters())
	return result
}

func (t *textElement) updateSceneGraph(updates *sg.SceneGraphUpdates) {
	if t.isDirty(fontProps...) {
		t.layout = nil
	}
	node := t.sgNode
	if node == nil {
		return
	}
	text := node.Child().(*sg.TextNode)

	redraw := false
	if t.isDirty(fontProps...) && text.SetTextLayout(t.textLayout()) {
		redraw = true
		t.requestSizeCheck(updates)
	}
	if t.isDirty(positionProps...) && node.SetTransform(graphics.TranslateBy(t.position())) {
		t.requestRedraw(updates, node)
		t.requestSizeCheck(updates)
	}

	op := text.Op()
	if op != nil && op.Type() == sg.PathOpFill {
		redraw = t.updatePaint(op, fillProps) || redraw
		op = op.Next()
	}
	if stroke, ok := op.(*sg.StrokePathOp); ok {
		redraw = t.updatePaint(stroke, strokeProps) || redraw
		if t.isDirty("strokeWidth") && stroke.SetStrokeWidth(t.number("strokeWidth")) {
			redraw = true
			t.requestSizeCheck(updates)
		}
	}
	if redraw {
		t.requestRedraw(updates, text)
	}
}
