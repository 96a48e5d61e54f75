package sg

import (
	"encoding/json"
	"testing"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

func roundTrip(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestLayerMarshalJSON(t *testing.T) {
	l := newTestLayer()
	stroke := NewStrokePathOp(NewColorPaint(graphics.ColorBlue))
	stroke.SetStrokeWidth(3)
	l.SetContent(NewDrawNode(NewRectPath(graphics.RectFromLTWH(1, 2, 3, 4)),
		ChainPathOps(redFill(), stroke)))
	l.SetShadow(NewShadow(graphics.ColorBlack, graphics.Offset{X: 1, Y: 2}, 3))
	l.AppendChild(NewLayer("child", graphics.RectFromLTWH(0, 0, 5, 5), 1, graphics.IdentityTransform()))

	out := roundTrip(t, l)
	if out["name"] != "test" {
		t.Errorf("expected name test, got %v", out["name"])
	}
	bounds, _ := out["bounds"].([]any)
	if len(bounds) != 4 || bounds[2] != 100.0 {
		t.Errorf("expected bounds [0 0 100 100], got %v", out["bounds"])
	}
	if _, ok := out["outline"]; ok {
		t.Error("expected no outline key")
	}
	shadow, _ := out["shadow"].(map[string]any)
	if shadow["color"] != "#000000ff" || shadow["radius"] != 3.0 {
		t.Errorf("unexpected shadow %v", shadow)
	}

	content, _ := out["content"].([]any)
	if len(content) != 1 {
		t.Fatalf("expected one content node, got %v", out["content"])
	}
	draw := content[0].(map[string]any)
	if draw["type"] != "draw" {
		t.Errorf("expected draw node, got %v", draw["type"])
	}
	path := draw["path"].(map[string]any)
	if path["type"] != "rectPath" {
		t.Errorf("expected rectPath, got %v", path["type"])
	}
	ops := draw["op"].([]any)
	if len(ops) != 2 {
		t.Fatalf("expected two ops, got %d", len(ops))
	}
	fill := ops[0].(map[string]any)
	if fill["type"] != "fill" || fill["fillType"] != "even-odd" {
		t.Errorf("unexpected fill %v", fill)
	}
	paint := fill["paint"].(map[string]any)
	if paint["color"] != "#ff0000ff" {
		t.Errorf("expected red paint, got %v", paint["color"])
	}
	if _, ok := paint["transform"]; ok {
		t.Error("expected identity paint transform to be omitted")
	}
	if s := ops[1].(map[string]any); s["strokeWidth"] != 3.0 || s["lineCap"] != "butt" {
		t.Errorf("unexpected stroke %v", s)
	}

	children, _ := out["children"].([]any)
	if len(children) != 1 || children[0].(map[string]any)["name"] != "child" {
		t.Errorf("unexpected children %v", out["children"])
	}
}

func TestSceneGraphMarshalJSON(t *testing.T) {
	graph := NewSceneGraph()
	top := NewLayer("top", graphics.RectFromLTWH(0, 0, 10, 10), 1, graphics.IdentityTransform())
	graph.SetLayer(top)
	graph.Updates().Created(top)

	out := roundTrip(t, graph)
	created, _ := out["created"].([]any)
	if len(created) != 1 || created[0] != "top" {
		t.Errorf("expected created [top], got %v", out["created"])
	}
	changed, _ := out["changed"].([]any)
	if len(changed) != 0 {
		t.Errorf("expected no changed layers, got %v", out["changed"])
	}
	if layer, _ := out["layer"].(map[string]any); layer["name"] != "top" {
		t.Errorf("expected top layer, got %v", out["layer"])
	}
}

func TestSerializePaint_Gradients(t *testing.T) {
	radial := NewRadialGradientPaint()
	radial.SetPoints([]float64{0, 1})
	radial.SetColors([]graphics.Color{graphics.ColorWhite, graphics.ColorBlack})
	radial.SetSpreadMethod(SpreadReflect)
	radial.SetTransform(graphics.ScaleTransform(2, 2))

	out := SerializePaint(radial)
	if out["type"] != "radialGradient" || out["spreadMethod"] != "reflect" {
		t.Errorf("unexpected paint %v", out)
	}
	if out["radius"] != 0.7 {
		t.Errorf("expected default radius 0.7, got %v", out["radius"])
	}
	colors := out["colors"].([]string)
	if len(colors) != 2 || colors[0] != "#ffffffff" {
		t.Errorf("unexpected colors %v", colors)
	}
	if _, ok := out["transform"]; !ok {
		t.Error("expected a non-identity transform to be serialized")
	}
}

func TestSerializeNode_Text(t *testing.T) {
	n := NewTextNode(&testLayout{text: "hi", lines: 1}, redFill(), Range{Lower: 0, Upper: 0})
	out := SerializeNode(n)
	if out["type"] != "text" {
		t.Errorf("expected text, got %v", out["type"])
	}
	layout := out["layout"].(map[string]any)
	if layout["text"] != "hi" || layout["lines"] != 1 {
		t.Errorf("unexpected layout %v", layout)
	}
	if r := out["range"].([]int); r[0] != 0 || r[1] != 0 {
		t.Errorf("unexpected range %v", r)
	}
}
