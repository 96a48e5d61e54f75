package avg

import (
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

var groupProps = []propDef{
	{name: "opacity", def: 1.0, convert: asOpacity},
	{name: "transform", def: graphics.IdentityTransform(), convert: asTransform},
	{name: "rotation", def: 0.0, convert: asNumber},
	{name: "pivotX", def: 0.0, convert: asNumber},
	{name: "pivotY", def: 0.0, convert: asNumber},
	{name: "scaleX", def: 1.0, convert: asNumber},
	{name: "scaleY", def: 1.0, convert: asNumber},
	{name: "translateX", def: 0.0, convert: asNumber},
	{name: "translateY", def: 0.0, convert: asNumber},
	{name: "clipPath", def: nil, convert: asPath},
	{name: "filters", def: []sg.Filter{}, convert: asFilters},
}

// transformProps are the properties that contribute to a group transform.
var transformProps = []string{
	"transform", "rotation", "pivotX", "pivotY",
	"scaleX", "scaleY", "translateX", "translateY",
}

// group applies opacity, a transform and a clip to its children.
//
// A group that depends on parameters keeps the node or layer it built so
// later property changes can be applied in place.
type group struct {
	elementBase
	sgLayer *sg.Layer
	sgNode  sg.Node
}

// groupTransform returns the authored transform when present, otherwise
// the transform composed from the pivot properties.
func (g *group) groupTransform() graphics.Transform2D {
	if _, ok := g.raw["transform"]; ok {
		return g.transform("transform")
	}
	return pivotTransform(
		g.number("translateX"), g.number("translateY"),
		g.number("pivotX"), g.number("pivotY"),
		g.number("rotation"),
		g.number("scaleX"), g.number("scaleY"),
	)
}

// layerTransform maps the group transform into the coordinates of a layer
// whose content is drawn relative to its content offset.
func layerTransform(t graphics.Transform2D, layer *sg.Layer) graphics.Transform2D {
	off := layer.ContentOffset()
	return graphics.TranslateTransform(-off.X, -off.Y).Mul(t).Mul(graphics.TranslateBy(off))
}

func (g *group) buildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	g.sgLayer, g.sgNode = nil, nil

	opacity := g.number("opacity")
	if opacity == 0 && !g.hasUpstream("opacity") {
		return nil
	}

	result := g.buildChildren(g, allowLayers, updates)
	if result.Empty() {
		return nil
	}

	clip := g.path("clipPath")
	transform := g.groupTransform()
	mutable := g.hasUpstream()
	if allowLayers && mutable {
		result.EnsureLayer(updates)
	}

	if result.IsLayer() {
		layer := result.Layer()
		g.layer = layer
		result.FixBoundingBox()
		layer.SetOutline(clip)
		layer.SetOpacity(opacity)
		layer.SetTransform(layerTransform(transform, layer))
		if mutable {
			result.SetType(sg.LayerMutable)
			g.sgLayer = layer
		}
	} else {
		node := result.Node()
		if !clip.Empty() || g.hasUpstream("clipPath") {
			node = sg.NewClipNode(clip, node)
		}
		if !transform.IsIdentity() || g.hasUpstream(transformProps...) {
			node = sg.NewTransformNode(transform, node)
		}
		if opacity < 1 || g.hasUpstream("opacity") {
			node = sg.NewOpacityNode(opacity, node)
		}
		result.SetNode(node)
		if mutable {
			result.SetType(sg.NodeContentMutable)
			g.sgNode = node
		}
	}

	result.ApplyFilters(g.filters())
	return result
}

func (g *group) updateSceneGraph(updates *sg.SceneGraphUpdates) {
	opacityChanged := g.isDirty("opacity")
	transformChanged := g.isDirty(transformProps...)
	clipChanged := g.isDirty("clipPath")

	if layer := g.sgLayer; layer != nil {
		if opacityChanged && layer.SetOpacity(g.number("opacity")) {
			updates.Changed(layer)
		}
		if transformChanged && layer.SetTransform(layerTransform(g.groupTransform(), layer)) {
			updates.Changed(layer)
		}
		if clipChanged && layer.SetOutline(g.path("clipPath")) {
			updates.Changed(layer)
			g.requestSizeCheck(updates)
		}
		return
	}

	// The wrappers were built clip, transform, opacity from the inside
	// out, so they are visited in the reverse order.
	node := g.sgNode
	if n, ok := node.(*sg.OpacityNode); ok {
		if opacityChanged && n.SetOpacity(g.number("opacity")) {
			g.requestRedraw(updates, n)
		}
		node = n.Child()
	}
	if n, ok := node.(*sg.TransformNode); ok {
		if transformChanged && n.SetTransform(g.groupTransform()) {
			g.requestRedraw(updates, n)
			g.requestSizeCheck(updates)
		}
		node = n.Child()
	}
	if n, ok := node.(*sg.ClipNode); ok {
		if clipChanged && n.SetPath(g.path("clipPath")) {
			g.requestRedraw(updates, n)
			g.requestSizeCheck(updates)
		}
	}
}
