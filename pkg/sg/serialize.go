package sg

import (
	"encoding/json"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// The serialized form is a stable JSON shape used for debugging and golden
// tests. Rects are [x, y, width, height], offsets and sizes are pairs,
// transforms are [a, b, c, d, tx, ty] and colors are "#rrggbbaa".

func rectJSON(r graphics.Rect) []float64 {
	v := r.LTWH()
	return v[:]
}

func offsetJSON(o graphics.Offset) []float64 {
	return []float64{o.X, o.Y}
}

func sizeJSON(s graphics.Size) []float64 {
	return []float64{s.Width, s.Height}
}

func transformJSON(t graphics.Transform2D) []float64 {
	return t[:]
}

// Serialize returns the layer, its content and its children as plain JSON
// values.
func (l *Layer) Serialize() map[string]any {
	out := map[string]any{
		"name":            l.name,
		"opacity":         l.opacity,
		"bounds":          rectJSON(l.bounds),
		"transform":       transformJSON(l.transform),
		"childOffset":     offsetJSON(l.childOffset),
		"contentOffset":   offsetJSON(l.contentOffset),
		"interaction":     int(l.interaction),
		"characteristics": int(l.characteristics),
	}
	if l.accessibility != nil {
		out["accessibility"] = l.accessibility.Serialize()
	}
	if l.outline != nil {
		out["outline"] = SerializePath(l.outline)
	}
	if l.childClip != nil {
		out["childClip"] = SerializePath(l.childClip)
	}
	if l.shadow != nil {
		out["shadow"] = l.shadow.Serialize()
	}
	if l.content != nil {
		out["content"] = SerializeNodes(l.content)
	}
	if len(l.children) > 0 {
		children := make([]any, 0, len(l.children))
		for _, child := range l.children {
			children = append(children, child.Serialize())
		}
		out["children"] = children
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (l *Layer) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Serialize())
}

// Serialize returns the top layer together with the names of the layers
// created and changed this frame.
func (s *SceneGraph) Serialize() map[string]any {
	out := map[string]any{
		"created": layerNames(s.updates.CreatedLayers()),
		"changed": layerNames(s.updates.ChangedLayers()),
	}
	if s.layer != nil {
		out["layer"] = s.layer.Serialize()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (s *SceneGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Serialize())
}

func layerNames(layers []*Layer) []string {
	names := make([]string, 0, len(layers))
	for _, l := range layers {
		names = append(names, l.name)
	}
	return names
}

func (s *Shadow) Serialize() map[string]any {
	return map[string]any{
		"color":  s.color.String(),
		"offset": offsetJSON(s.offset),
		"radius": s.radius,
	}
}

func (a *Accessibility) Serialize() map[string]any {
	out := map[string]any{
		"label": a.label,
		"role":  a.role,
	}
	if len(a.actions) > 0 {
		actions := make([]any, 0, len(a.actions))
		for _, action := range a.actions {
			actions = append(actions, map[string]any{
				"name":    action.Name,
				"label":   action.Label,
				"enabled": action.Enabled,
			})
		}
		out["actions"] = actions
	}
	if a.adjustableRange != nil {
		out["adjustableRange"] = map[string]any{
			"minValue":     a.adjustableRange.Min,
			"maxValue":     a.adjustableRange.Max,
			"currentValue": a.adjustableRange.Current,
		}
	}
	if a.adjustableValue != "" {
		out["adjustableValue"] = a.adjustableValue
	}
	return out
}

// SerializeNodes serializes a sibling chain.
func SerializeNodes(n Node) []any {
	var out []any
	for ; n != nil; n = n.Next() {
		out = append(out, SerializeNode(n))
	}
	return out
}

// SerializeNode serializes one node and its children, but not its siblings.
func SerializeNode(n Node) map[string]any {
	out := map[string]any{"type": n.Type().String()}
	if child := n.Child(); child != nil {
		out["children"] = SerializeNodes(child)
	}

	switch n := n.(type) {
	case *GenericNode:
	case *TransformNode:
		out["transform"] = transformJSON(n.transform)
	case *ClipNode:
		if n.path != nil {
			out["path"] = SerializePath(n.path)
		}
	case *OpacityNode:
		out["opacity"] = n.opacity
	case *DrawNode:
		if n.path != nil {
			out["path"] = SerializePath(n.path)
		}
		if n.op != nil {
			out["op"] = serializeOps(n.op)
		}
	case *TextNode:
		if n.op != nil {
			out["op"] = serializeOps(n.op)
		}
		out["range"] = []int{n.rng.Lower, n.rng.Upper}
		out["layout"] = map[string]any{
			"text":  n.layout.Text(),
			"size":  sizeJSON(n.layout.Size()),
			"lines": n.layout.LineCount(),
		}
	case *ImageNode:
		out["target"] = rectJSON(n.target)
		out["source"] = rectJSON(n.source)
		if n.image != nil {
			out["image"] = map[string]any{
				"url":  n.image.URL(),
				"size": sizeJSON(n.image.Size()),
			}
		}
	case *VideoNode:
		out["target"] = rectJSON(n.target)
		out["scale"] = n.scale.String()
		if n.player != nil {
			out["player"] = map[string]any{"source": n.player.Source()}
		}
	case *ShadowNode:
		if n.shadow != nil {
			out["shadow"] = n.shadow.Serialize()
		}
	case *EditTextNode:
		if n.box != nil {
			out["box"] = map[string]any{
				"size":     sizeJSON(n.box.Size()),
				"baseline": n.box.Baseline(),
			}
		}
		out["config"] = serializeEditTextConfig(n.config)
		out["text"] = n.text
	}
	return out
}

func serializeEditTextConfig(c EditTextConfig) map[string]any {
	return map[string]any{
		"textColor":       c.TextColor.String(),
		"highlightColor":  c.HighlightColor.String(),
		"keyboardType":    c.KeyboardType,
		"language":        c.Language,
		"maxLength":       c.MaxLength,
		"secureInput":     c.SecureInput,
		"submitKeyType":   c.SubmitKeyType,
		"validCharacters": c.ValidCharacters,
		"selectOnFocus":   c.SelectOnFocus,
	}
}

// SerializePath serializes a path by variant.
func SerializePath(p Path) map[string]any {
	out := map[string]any{"type": p.Type().String()}
	switch p := p.(type) {
	case *RectPath:
		out["rect"] = rectJSON(p.rect)
	case *RoundedRectPath:
		out["rect"] = rectJSON(p.rrect.Rect)
		out["radii"] = p.rrect.Radii[:]
	case *FramePath:
		out["rect"] = rectJSON(p.rrect.Rect)
		out["radii"] = p.rrect.Radii[:]
		out["inset"] = p.inset
	case *GeneralPath:
		out["values"] = p.values
		out["points"] = p.points
	}
	return out
}

func serializeOps(op PathOp) []any {
	var out []any
	for ; op != nil; op = op.Next() {
		out = append(out, SerializePathOp(op))
	}
	return out
}

// SerializePathOp serializes one operation without its successors.
func SerializePathOp(op PathOp) map[string]any {
	out := map[string]any{"type": op.Type().String()}
	if p := op.Paint(); p != nil {
		out["paint"] = SerializePaint(p)
	}
	switch op := op.(type) {
	case *FillPathOp:
		out["fillType"] = op.fillType.String()
	case *StrokePathOp:
		out["strokeWidth"] = op.strokeWidth
		out["miterLimit"] = op.miterLimit
		out["pathLength"] = op.pathLength
		out["dashOffset"] = op.dashOffset
		out["lineCap"] = op.lineCap.String()
		out["lineJoin"] = op.lineJoin.String()
		if len(op.dashes) > 0 {
			out["dashes"] = op.dashes
		}
	}
	return out
}

// SerializePaint serializes a paint by variant. The transform is omitted
// when it is the identity.
func SerializePaint(p Paint) map[string]any {
	out := map[string]any{
		"type":    p.Type().String(),
		"opacity": p.Opacity(),
	}
	if t := p.Transform(); !t.IsIdentity() {
		out["transform"] = transformJSON(t)
	}
	switch p := p.(type) {
	case *ColorPaint:
		out["color"] = p.color.String()
	case *LinearGradientPaint:
		serializeGradient(out, &p.gradient)
		out["start"] = offsetJSON(p.start)
		out["end"] = offsetJSON(p.end)
	case *RadialGradientPaint:
		serializeGradient(out, &p.gradient)
		out["center"] = offsetJSON(p.center)
		out["radius"] = p.radius
	case *PatternPaint:
		out["size"] = sizeJSON(p.size)
		if p.node != nil {
			out["node"] = SerializeNodes(p.node)
		}
	}
	return out
}

func serializeGradient(out map[string]any, g *gradient) {
	colors := make([]string, 0, len(g.colors))
	for _, c := range g.colors {
		colors = append(colors, c.String())
	}
	out["points"] = g.points
	out["colors"] = colors
	out["spreadMethod"] = g.spread.String()
	out["usingBoundingBox"] = g.useBoundingBox
}
