package avg

import (
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

var pathProps = []propDef{
	{name: "pathData", convert: asPath, required: true},
	{name: "fill", def: graphics.ColorTransparent, convert: asFill},
	{name: "fillOpacity", def: 1.0, convert: asOpacity},
	{name: "fillTransform", def: graphics.IdentityTransform(), convert: asTransform},
	{name: "stroke", def: graphics.ColorTransparent, convert: asFill},
	{name: "strokeOpacity", def: 1.0, convert: asOpacity},
	{name: "strokeTransform", def: graphics.IdentityTransform(), convert: asTransform},
	{name: "strokeWidth", def: 1.0, convert: asNonNegative},
	{name: "strokeMiterLimit", def: 4.0, convert: asNonNegative},
	{name: "strokeLineCap", def: sg.LineCapButt, convert: asLineCap},
	{name: "strokeLineJoin", def: sg.LineJoinMiter, convert: asLineJoin},
	{name: "strokeDashArray", def: []float64{}, convert: asNumberArray},
	{name: "strokeDashOffset", def: 0.0, convert: asNumber},
	{name: "pathLength", def: 0.0, convert: asNonNegative},
	{name: "filters", def: []sg.Filter{}, convert: asFilters},
}

// pathElement draws a path with an optional fill and stroke.
type pathElement struct {
	elementBase
	sgNode *sg.DrawNode
}

func (p *pathElement) buildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	p.sgNode = nil

	path := p.path("pathData")
	if path.Empty() && !p.hasUpstream("pathData") {
		return nil
	}

	var fill, stroke sg.PathOp
	if p.includeInSceneGraph("fill") && p.includeInSceneGraph("fillOpacity") {
		fill = sg.NewFillPathOp(p.newPaint(fillProps))
	}
	if p.includeInSceneGraph("stroke") && p.includeInSceneGraph("strokeOpacity") &&
		p.includeInSceneGraph("strokeWidth") {
		stroke = p.newStrokeOp()
	}
	op := sg.ChainPathOps(fill, stroke)
	if op == nil {
		return nil
	}

	node := sg.NewDrawNode(path, op)
	mutable := p.hasUpstream()
	if mutable {
		p.sgNode = node
	}

	var result *sg.GraphicFragment
	if allowLayers && mutable {
		layer := newContentLayer(p.id+"_path", node, updates)
		result = sg.NewLayerFragment(p, layer, sg.LayerFixedContentMutable)
	} else {
		typ := sg.NodeContentFixed
		if mutable {
			typ = sg.NodeContentMutable
		}
		result = sg.NewNodeFragment(p, node, typ)
	}
	result.ApplyFilters(p.filters())
	return result
}

// newContentLayer wraps the content of a single mutable element in a
// layer sized to it, so redraws stay local to the element.
func newContentLayer(name string, node sg.Node, updates *sg.SceneGraphUpdates) *sg.Layer {
	layer := sg.NewLayer(name, graphics.Rect{}, 1, graphics.IdentityTransform())
	layer.SetCharacteristic(sg.CharacteristicRenderOnly | sg.CharacteristicDoNotClipChildren)
	updates.Created(layer)
	layer.SetContent(node)
	bounds := sg.BoundingBox(node, graphics.IdentityTransform())
	layer.SetContentOffset(bounds.TopLeft())
	layer.SetBounds(bounds)
	return layer
}

func (p *pathElement) updateSceneGraph(updates *sg.SceneGraphUpdates) {
	node := p.sgNode
	if node == nil {
		return
	}

	if p.isDirty("pathData") && node.SetPath(p.path("pathData")) {
		p.requestRedraw(updates, node)
		p.requestSizeCheck(updates)
	}

	op := node.Op()
	if op != nil && op.Type() == sg.PathOpFill {
		if p.updatePaint(op, fillProps) {
			p.requestRedraw(updates, node)
		}
		op = op.Next()
	}
	if stroke, ok := op.(*sg.StrokePathOp); ok {
		if p.updatePaint(stroke, strokeProps) {
			p.requestRedraw(updates, node)
		}
		if p.isDirty(strokeParams...) && p.applyStroke(stroke) {
			p.requestRedraw(updates, node)
			p.requestSizeCheck(updates)
		}
	}
}
