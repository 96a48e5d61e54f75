package avg

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/scenegraph/pkg/errors"
)

// Supported graphic versions, inclusive.
const (
	MinVersion = "1.0"
	MaxVersion = "1.2"
)

// Document is a decoded AVG document. JSON documents decode as YAML, so
// either syntax is accepted.
type Document struct {
	Type           string        `yaml:"type"`
	Version        string        `yaml:"version"`
	Description    string        `yaml:"description,omitempty"`
	Width          float64       `yaml:"width"`
	Height         float64       `yaml:"height"`
	ViewportWidth  float64       `yaml:"viewportWidth,omitempty"`
	ViewportHeight float64       `yaml:"viewportHeight,omitempty"`
	Parameters     []Parameter   `yaml:"parameters,omitempty"`
	Items          []ElementSpec `yaml:"-"`
}

// Parameter is a named input of a graphic. Element properties refer to
// parameters with ${name}.
type Parameter struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type,omitempty"`
	Description string `yaml:"description,omitempty"`
	Default     any    `yaml:"default,omitempty"`
}

// UnmarshalYAML accepts a parameter as a bare name or as an object.
func (p *Parameter) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Name = value.Value
		return nil
	}
	type plain Parameter
	return value.Decode((*plain)(p))
}

// ElementSpec is the authored form of one graphic element: its type, its
// raw property values and its children.
type ElementSpec struct {
	Type       string
	Properties map[string]any
	Items      []ElementSpec
}

// UnmarshalYAML splits an element object into its type, its properties and
// its child items ("items" or "item", a single object or a list).
func (e *ElementSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: element must be an object", value.Line)
	}
	e.Properties = make(map[string]any)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		switch key {
		case "type":
			e.Type = val.Value
		case "items", "item":
			items, err := decodeItems(val)
			if err != nil {
				return err
			}
			e.Items = append(e.Items, items...)
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return err
			}
			e.Properties[key] = v
		}
	}
	return nil
}

func decodeItems(node *yaml.Node) ([]ElementSpec, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []ElementSpec
		err := node.Decode(&items)
		return items, err
	case yaml.MappingNode:
		var item ElementSpec
		err := node.Decode(&item)
		return []ElementSpec{item}, err
	}
	return nil, fmt.Errorf("line %d: items must be an object or a list", node.Line)
}

// UnmarshalYAML decodes the document fields and its top-level items.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	type plain Document
	if err := value.Decode((*plain)(d)); err != nil {
		return err
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if k := value.Content[i].Value; k == "items" || k == "item" {
			items, err := decodeItems(value.Content[i+1])
			if err != nil {
				return err
			}
			d.Items = append(d.Items, items...)
		}
	}
	return nil
}

// Parse decodes and validates an AVG document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("avg.Parse", errors.KindParse, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the AVG document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graphic: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Validate checks the document type, version and size and fills in the
// default viewport.
func (d *Document) Validate() error {
	if d.Type != "AVG" {
		return errors.Errorf("avg.Validate", errors.KindParse, "type must be \"AVG\", got %q", d.Type)
	}
	if !SupportedVersion(d.Version) {
		return errors.Errorf("avg.Validate", errors.KindVersion,
			"unsupported version %q (supported %s to %s)", d.Version, MinVersion, MaxVersion)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return errors.Errorf("avg.Validate", errors.KindProperty,
			"width and height must be positive, got %gx%g", d.Width, d.Height)
	}
	if d.ViewportWidth <= 0 {
		d.ViewportWidth = d.Width
	}
	if d.ViewportHeight <= 0 {
		d.ViewportHeight = d.Height
	}
	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" || seen[p.Name] {
			return errors.Errorf("avg.Validate", errors.KindParse, "parameter name %q is empty or repeated", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// SupportedVersion reports whether version ("1.1") is within the
// supported range.
func SupportedVersion(version string) bool {
	v := "v" + version
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, "v"+MinVersion) >= 0 && semver.Compare(v, "v"+MaxVersion) <= 0
}
