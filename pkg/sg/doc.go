// Package sg builds and maintains a retained scene graph: trees of drawing
// primitives (Node) held by compositing containers (Layer), plus the
// bookkeeping that tells a renderer which layers changed since the last
// frame.
//
// # Building
//
// Producers turn each element into a GraphicFragment and combine them
// bottom-up. Siblings are absorbed with MergeWith when paint order and
// mutability allow; otherwise AddChild nests them, promoting a bare node
// fragment to a Layer only when isolation is required:
//
//	result := sg.NewFragment(container)
//	var current *sg.GraphicFragment
//	for _, frag := range children {
//		if frag.Empty() {
//			continue
//		}
//		if current != nil && current.MergeWith(frag) {
//			continue
//		}
//		if current != nil {
//			result.AddChild(current, updates)
//		}
//		current = frag
//	}
//	result.AddChild(current, updates)
//
// # Dirty tracking
//
// Every setter on Layer, Node, Paint, Path, PathOp and Shadow compares the
// old and new values and returns false without side effects when they
// match. Layers raise one LayerFlags bit per changed property; the other
// types carry a single modified bit.
//
// # Frames
//
// SceneGraphUpdates collects the created, changed and resize sets for one
// frame. A renderer reads SceneGraph.Layer, walks the sets, calls
// Layer.GetAndClearFlags on each layer it consumes and finally calls
// Updates().Clear().
package sg
