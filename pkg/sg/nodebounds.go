package sg

import "github.com/go-drift/scenegraph/pkg/graphics"

// BoundingBox returns the bounds of n and its descendants after applying t.
// Siblings of n are not included; use CalculateBoundingBox for a chain.
func BoundingBox(n Node, t graphics.Transform2D) graphics.Rect {
	switch n := n.(type) {
	case nil:
		return graphics.Rect{}
	case *GenericNode, *OpacityNode:
		return CalculateBoundingBox(n.Child(), t)
	case *TransformNode:
		return CalculateBoundingBox(n.child, t.Mul(n.transform))
	case *ClipNode:
		bounds := CalculateBoundingBox(n.child, t)
		if n.path == nil {
			return bounds
		}
		return bounds.Intersect(n.path.BoundingBox(t))
	case *ShadowNode:
		bounds := CalculateBoundingBox(n.child, t)
		if n.shadow == nil || bounds.IsEmpty() {
			return bounds
		}
		origin := t.Apply(graphics.Offset{})
		offset := t.Apply(n.shadow.offset).Sub(origin)
		cast := bounds.Offset(offset).Inflate(n.shadow.radius * t.ScaleFactor())
		return bounds.Union(cast)
	case *DrawNode:
		if n.path == nil {
			return graphics.Rect{}
		}
		return inflateForStroke(n.path.BoundingBox(t), n.op, t)
	case *TextNode:
		var local graphics.Rect
		if n.rng.Empty() {
			size := n.layout.Size()
			local = graphics.RectFromLTWH(0, 0, size.Width, size.Height)
		} else {
			local = n.layout.LineBounds(n.rng)
		}
		return inflateForStroke(t.MapRect(local), n.op, t)
	case *ImageNode:
		return t.MapRect(n.target)
	case *VideoNode:
		return t.MapRect(n.target)
	case *EditTextNode:
		return graphics.Rect{}
	}
	panic("sg: unknown node type")
}

// CalculateBoundingBox returns the union of the bounds of n and every
// sibling that follows it.
func CalculateBoundingBox(n Node, t graphics.Transform2D) graphics.Rect {
	var result graphics.Rect
	for ; n != nil; n = n.Next() {
		result = result.Union(BoundingBox(n, t))
	}
	return result
}

// inflateForStroke grows geometry bounds by the widest stroke in the op
// chain. A zero rect means there was no geometry at all and stays empty.
func inflateForStroke(r graphics.Rect, op PathOp, t graphics.Transform2D) graphics.Rect {
	if r == (graphics.Rect{}) {
		return r
	}
	if out := opOutset(op, t); out > 0 {
		return r.Inflate(out)
	}
	return r
}
