package sg

import (
	"fmt"
	"strings"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// Element is the producer of a fragment, normally a graphic element. When
// fragments merge or are promoted to a layer, every element that fed them
// is told which layer now holds its content.
type Element interface {
	ElementID() string
	AssignSceneGraphLayer(layer *Layer)
}

// FragmentType describes which parts of a fragment can change on a later
// update.
type FragmentType uint8

const (
	FragmentEmpty FragmentType = iota
	// NodeContentFixed is a bare node that never changes.
	NodeContentFixed
	// NodeContentMutable is a bare node whose drawing content may change.
	NodeContentMutable
	// LayerFixedContentFixed is a layer with fixed properties and content.
	LayerFixedContentFixed
	// LayerFixedContentMutable is a layer with fixed properties whose
	// content may change.
	LayerFixedContentMutable
	// LayerMutable is a layer whose own properties (opacity, transform,
	// outline) may change.
	LayerMutable
)

var fragmentTypeNames = [...]string{
	"NodeEmpty", "NodeContentFixed", "NodeContentMutable",
	"LayerFixedContentFixed", "LayerFixedContentMutable", "LayerMutable",
}

func (t FragmentType) String() string {
	if int(t) < len(fragmentTypeNames) {
		return fragmentTypeNames[t]
	}
	return fmt.Sprintf("FragmentType(%d)", t)
}

func (t FragmentType) isNode() bool {
	return t == NodeContentFixed || t == NodeContentMutable
}

// GraphicFragment is the short-lived result of building one element. It is
// empty, or holds exactly one of a node chain or a layer, together with the
// elements that produced it. Fragments are combined bottom-up with
// MergeWith and AddChild and never outlive a single build or update pass.
type GraphicFragment struct {
	typ      FragmentType
	node     Node
	layer    *Layer
	elements []Element
}

// NewFragment returns an empty fragment owned by element.
func NewFragment(element Element) *GraphicFragment {
	return &GraphicFragment{elements: []Element{element}}
}

// NewNodeFragment returns a fragment holding a node chain. typ must be
// NodeContentFixed or NodeContentMutable.
func NewNodeFragment(element Element, node Node, typ FragmentType) *GraphicFragment {
	if !typ.isNode() {
		panic("sg: node fragment requires a node type, got " + typ.String())
	}
	return &GraphicFragment{typ: typ, node: node, elements: []Element{element}}
}

// NewLayerFragment returns a fragment holding a layer and assigns the layer
// to element immediately. typ must be one of the layer types.
func NewLayerFragment(element Element, layer *Layer, typ FragmentType) *GraphicFragment {
	if layer == nil {
		panic("sg: layer fragment requires a layer")
	}
	if typ == FragmentEmpty || typ.isNode() {
		panic("sg: layer fragment requires a layer type, got " + typ.String())
	}
	element.AssignSceneGraphLayer(layer)
	return &GraphicFragment{typ: typ, layer: layer, elements: []Element{element}}
}

func (f *GraphicFragment) Type() FragmentType {
	return f.typ
}

// SetType overrides the fragment type, for producers that learn about
// mutability after construction.
func (f *GraphicFragment) SetType(typ FragmentType) {
	f.typ = typ
}

func (f *GraphicFragment) Node() Node {
	return f.node
}

// SetNode replaces the node chain of a node fragment, typically with a
// wrapper around the current chain.
func (f *GraphicFragment) SetNode(node Node) {
	if f.layer != nil {
		panic("sg: SetNode on a layer fragment")
	}
	f.node = node
}

func (f *GraphicFragment) Layer() *Layer {
	return f.layer
}

func (f *GraphicFragment) Elements() []Element {
	return f.elements
}

// Empty reports whether the fragment holds neither a node nor a layer.
func (f *GraphicFragment) Empty() bool {
	return f == nil || (f.node == nil && f.layer == nil)
}

func (f *GraphicFragment) IsNode() bool {
	return f.layer == nil && f.node != nil
}

func (f *GraphicFragment) IsLayer() bool {
	return f.layer != nil
}

// MergeWith absorbs other into f when paint order and mutability allow it,
// and reports whether it did. A false result leaves both fragments
// untouched; the caller then uses AddChild or keeps them separate.
func (f *GraphicFragment) MergeWith(other *GraphicFragment) bool {
	if f.Empty() {
		panic("sg: MergeWith on an empty fragment")
	}
	if other.Empty() {
		return true
	}

	if f.IsNode() {
		if other.IsLayer() {
			return false
		}
		f.node = AppendSibling(f.node, other.node)
		f.elements = append(f.elements, other.elements...)
		return true
	}

	if other.IsNode() {
		return false
	}

	if reason := f.layerMergeConflict(other); reason != "" {
		Logger().Debug("sg: layers not merged",
			"layer", f.layer.Name(), "other", other.layer.Name(), "reason", reason)
		return false
	}

	f.layer.AppendChildren(other.layer.Children())
	f.layer.AppendContent(other.layer.Content())
	f.FixBoundingBox()

	for _, e := range other.elements {
		e.AssignSceneGraphLayer(f.layer)
	}
	f.elements = append(f.elements, other.elements...)
	return true
}

// layerMergeConflict returns why two layer fragments cannot merge, or the
// empty string when they can.
func (f *GraphicFragment) layerMergeConflict(other *GraphicFragment) string {
	a, b := f.layer, other.layer
	switch {
	case f.typ == LayerMutable || other.typ == LayerMutable:
		return "mutable layer"
	case f.typ == LayerFixedContentMutable && other.typ == LayerFixedContentFixed && b.Content() != nil,
		f.typ == LayerFixedContentFixed && other.typ == LayerFixedContentMutable && a.Content() != nil:
		return "content mutability"
	case a.Shadow() != nil || b.Shadow() != nil:
		return "shadow"
	case !PathsEqual(a.Outline(), b.Outline()):
		return "outline"
	case a.Transform() != b.Transform():
		return "transform"
	case a.Opacity() != b.Opacity():
		return "opacity"
	case len(a.Children()) > 0 && b.Content() != nil:
		return "paint order"
	}
	return ""
}

// AddChild attaches other beneath f. If other is a layer, f is promoted to
// a layer and other becomes its last child layer. Nodes are appended to the
// content unless that would draw them below existing child layers, in
// which case they get a layer of their own.
func (f *GraphicFragment) AddChild(other *GraphicFragment, updates *SceneGraphUpdates) {
	if other.Empty() {
		return
	}

	if other.IsLayer() {
		f.EnsureLayer(updates)
		f.layer.AppendChild(other.layer)
		return
	}

	if !f.IsLayer() {
		f.node = AppendSibling(f.node, other.node)
		if f.typ != NodeContentMutable {
			f.typ = other.typ
		}
		f.elements = append(append([]Element(nil), other.elements...), f.elements...)
		return
	}

	if len(f.layer.Children()) > 0 {
		other.EnsureLayer(updates)
		f.layer.AppendChild(other.layer)
		return
	}

	f.layer.AppendContent(other.node)
	f.FixBoundingBox()
	for _, e := range other.elements {
		e.AssignSceneGraphLayer(f.layer)
	}
	f.elements = append(append([]Element(nil), other.elements...), f.elements...)
}

// EnsureLayer promotes a node fragment to a layer named after its first
// element. The new layer is reported as created. Layer fragments are left
// alone.
func (f *GraphicFragment) EnsureLayer(updates *SceneGraphUpdates) {
	if f.layer != nil {
		return
	}
	if len(f.elements) == 0 {
		panic("sg: EnsureLayer on a fragment without elements")
	}

	layer := NewLayer(f.elements[0].ElementID()+"_sub", graphics.Rect{}, 1, graphics.IdentityTransform())
	updates.Created(layer)
	layer.SetContent(f.node)
	layer.SetCharacteristic(CharacteristicRenderOnly | CharacteristicDoNotClipChildren)
	Logger().Debug("sg: promoted fragment to layer", "layer", layer.Name(), "type", f.typ.String())

	f.layer = layer
	f.node = nil
	if f.typ == NodeContentMutable {
		f.typ = LayerFixedContentMutable
	} else {
		f.typ = LayerFixedContentFixed
	}
	for _, e := range f.elements {
		e.AssignSceneGraphLayer(layer)
	}
	f.FixBoundingBox()
}

// FixBoundingBox sizes the layer to its content. Content is moved into
// layer coordinates through the content and child offsets; empty content
// collapses the bounds to a zero rect.
func (f *GraphicFragment) FixBoundingBox() {
	if f.layer == nil {
		return
	}
	FitLayerToContent(f.layer)
}

// FitLayerToContent sets the bounds, content offset and child offset of a
// layer from the bounding box of its content chain.
func FitLayerToContent(layer *Layer) {
	bb := CalculateBoundingBox(layer.Content(), graphics.IdentityTransform())
	if bb.IsEmpty() {
		layer.SetBounds(graphics.Rect{})
		return
	}
	layer.SetBounds(bb)
	layer.SetContentOffset(bb.TopLeft())
	layer.SetChildOffset(bb.TopLeft())
}

// FilterType identifies a graphic filter.
type FilterType uint8

const (
	FilterDropShadow FilterType = iota
	FilterNoise
)

// Filter is a graphic filter attached to an element. Only drop shadows
// affect the scene graph.
type Filter struct {
	Type             FilterType
	Color            graphics.Color
	HorizontalOffset float64
	VerticalOffset   float64
	Radius           float64
}

// ApplyFilters attaches a shadow for every drop shadow filter in order.
func (f *GraphicFragment) ApplyFilters(filters []Filter) {
	for _, filter := range filters {
		if filter.Type != FilterDropShadow {
			continue
		}
		f.AddShadow(NewShadow(filter.Color,
			graphics.Offset{X: filter.HorizontalOffset, Y: filter.VerticalOffset},
			filter.Radius))
	}
}

// AddShadow sets the shadow of a layer fragment, or wraps the node chain of
// a node fragment in a shadow node.
func (f *GraphicFragment) AddShadow(shadow *Shadow) {
	switch {
	case f.layer != nil:
		f.layer.SetShadow(shadow)
	case f.node != nil:
		f.node = NewShadowNode(shadow, f.node)
	}
}

// AssignToLayer points every element of the fragment at layer.
func (f *GraphicFragment) AssignToLayer(layer *Layer) {
	for _, e := range f.elements {
		e.AssignSceneGraphLayer(layer)
	}
}

func (f *GraphicFragment) String() string {
	var b strings.Builder
	b.WriteString(f.typ.String() + "<")
	switch {
	case f.layer != nil:
		fmt.Fprintf(&b, "layer=%s sublayers=%d", f.layer.Name(), len(f.layer.Children()))
	case f.node != nil:
		b.WriteString("node=" + f.node.String())
	}
	for _, e := range f.elements {
		b.WriteString(" element=" + e.ElementID())
	}
	b.WriteString(">")
	return b.String()
}
