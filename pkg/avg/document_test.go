package avg

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/scenegraph/pkg/errors"
)

const sampleYAML = `
type: AVG
version: "1.1"
width: 200
height: 100
viewportWidth: 20
parameters:
  - fill
  - name: alpha
    type: number
    default: 0.5
items:
  - type: group
    id: g
    opacity: "${alpha}"
    items:
      - type: path
        pathData: M0 0 L10 0 L10 10 Z
        fill: "${fill}"
  - type: text
    text: hello
    item:
      type: path
      pathData: M0 0 L1 1
`

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Width != 200 || doc.Height != 100 {
		t.Errorf("expected 200x100, got %gx%g", doc.Width, doc.Height)
	}
	if doc.ViewportWidth != 20 || doc.ViewportHeight != 100 {
		t.Errorf("expected viewport 20x100, got %gx%g", doc.ViewportWidth, doc.ViewportHeight)
	}
	if len(doc.Parameters) != 2 || doc.Parameters[0].Name != "fill" || doc.Parameters[1].Type != "number" {
		t.Errorf("unexpected parameters %+v", doc.Parameters)
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	group := doc.Items[0]
	if group.Type != "group" || group.Properties["id"] != "g" || len(group.Items) != 1 {
		t.Errorf("unexpected group %+v", group)
	}
	if _, ok := group.Properties["items"]; ok {
		t.Error("expected items not to be kept as a property")
	}
	if got := group.Items[0].Properties["fill"]; got != "${fill}" {
		t.Errorf("expected raw binding to be kept, got %v", got)
	}
	if text := doc.Items[1]; len(text.Items) != 1 || text.Items[0].Type != "path" {
		t.Errorf("expected a single item object to decode as a child, got %+v", text.Items)
	}
}

func TestParse_JSON(t *testing.T) {
	src := `{"type": "AVG", "version": "1.2", "width": 10, "height": 10,
		"items": [{"type": "path", "pathData": "M0 0 L1 1", "strokeWidth": 2}]}`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Items) != 1 || doc.Items[0].Properties["strokeWidth"] != 2 {
		t.Errorf("unexpected items %+v", doc.Items)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind errors.ErrorKind
	}{
		{"syntax", "type: [", errors.KindParse},
		{"wrong type", `{"type": "SVG", "version": "1.0", "width": 1, "height": 1}`, errors.KindParse},
		{"old version", `{"type": "AVG", "version": "0.9", "width": 1, "height": 1}`, errors.KindVersion},
		{"new version", `{"type": "AVG", "version": "1.3", "width": 1, "height": 1}`, errors.KindVersion},
		{"zero width", `{"type": "AVG", "version": "1.0", "width": 0, "height": 1}`, errors.KindProperty},
		{"repeated parameter", `{"type": "AVG", "version": "1.0", "width": 1, "height": 1,
			"parameters": ["a", {"name": "a"}]}`, errors.KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
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

func TestSupportedVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0", true},
		{"1.1", true},
		{"1.2", true},
		{"1.3", false},
		{"0.9", false},
		{"2.0", false},
		{"", false},
		{"one", false},
	}
	for _, tt := range tests {
		if got := SupportedVersion(tt.version); got != tt.want {
			t.Errorf("SupportedVersion(%q): expected %t, got %t", tt.version, tt.want, got)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphic.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Version != "1.1" {
		t.Errorf("expected version 1.1, got %q", doc.Version)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
