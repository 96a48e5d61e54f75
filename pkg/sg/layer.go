package sg

import (
	"fmt"
	"strings"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// LayerFlags records which observable properties of a layer changed since
// the renderer last read them.
type LayerFlags uint16

const (
	FlagOpacityChanged LayerFlags = 1 << iota
	FlagPositionChanged
	FlagSizeChanged
	FlagTransformChanged
	FlagChildOffsetChanged
	FlagOutlineChanged
	FlagRedrawContent
	FlagRedrawShadow
	FlagChildrenChanged
	FlagChildClipChanged
	FlagAccessibilityChanged
	FlagInteractionChanged
)

var layerFlagNames = [...]string{
	"OPACITY", "POSITION", "SIZE", "TRANSFORM", "CHILD_OFFSET", "OUTLINE",
	"CONTENT", "SHADOW", "CHILDREN", "CHILD_CLIP", "ACCESSIBILITY", "INTERACTION",
}

// String lists the set flags separated by spaces.
func (f LayerFlags) String() string {
	return bitNames(uint32(f), layerFlagNames[:])
}

// Interaction describes how a layer responds to the user.
type Interaction uint8

const (
	InteractionDisabled Interaction = 1 << iota
	InteractionChecked
	InteractionPressable
	InteractionScrollHorizontal
	InteractionScrollVertical
)

var interactionNames = [...]string{"disabled", "checked", "pressable", "scrollHorizontal", "scrollVertical"}

func (i Interaction) String() string {
	return bitNames(uint32(i), interactionNames[:])
}

// Characteristic holds fixed hints about a layer for the renderer.
type Characteristic uint8

const (
	CharacteristicDoNotClipChildren Characteristic = 1 << iota
	CharacteristicRenderOnly
	CharacteristicHasMedia
	CharacteristicHasText
)

var characteristicNames = [...]string{"DO_NOT_CLIP_CHILDREN", "RENDER_ONLY", "HAS_MEDIA", "HAS_TEXT"}

func (c Characteristic) String() string {
	return bitNames(uint32(c), characteristicNames[:])
}

func bitNames(bits uint32, names []string) string {
	var parts []string
	for i, name := range names {
		if bits&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}

// Layer is a retained compositing container. Every setter compares the old
// and new values, does nothing when they match, and otherwise stores the
// value and raises the flag documented on the setter.
type Layer struct {
	name            string
	bounds          graphics.Rect
	opacity         float64
	transform       graphics.Transform2D
	childOffset     graphics.Offset
	contentOffset   graphics.Offset
	outline         Path
	childClip       Path
	shadow          *Shadow
	accessibility   *Accessibility
	content         Node
	children        []*Layer
	interaction     Interaction
	characteristics Characteristic
	flags           LayerFlags
}

// NewLayer returns a layer with no content and no dirty flags.
func NewLayer(name string, bounds graphics.Rect, opacity float64, transform graphics.Transform2D) *Layer {
	if name == "" {
		panic("sg: layer requires a name")
	}
	return &Layer{
		name:      name,
		bounds:    bounds,
		opacity:   graphics.Clamp01(opacity),
		transform: transform,
	}
}

func (l *Layer) Name() string {
	return l.name
}

func (l *Layer) Bounds() graphics.Rect {
	return l.bounds
}

// SetBounds raises FlagPositionChanged when the top-left corner moves and
// FlagSizeChanged when the size changes.
func (l *Layer) SetBounds(bounds graphics.Rect) bool {
	if l.bounds == bounds {
		return false
	}
	if l.bounds.TopLeft() != bounds.TopLeft() {
		l.flags |= FlagPositionChanged
	}
	if l.bounds.Size() != bounds.Size() {
		l.flags |= FlagSizeChanged
	}
	l.bounds = bounds
	return true
}

func (l *Layer) Opacity() float64 {
	return l.opacity
}

// SetOpacity clamps opacity to [0,1] and raises FlagOpacityChanged.
func (l *Layer) SetOpacity(opacity float64) bool {
	return trackField(&l.opacity, graphics.Clamp01(opacity), &l.flags, FlagOpacityChanged)
}

func (l *Layer) Transform() graphics.Transform2D {
	return l.transform
}

// SetTransform raises FlagTransformChanged.
func (l *Layer) SetTransform(t graphics.Transform2D) bool {
	return trackField(&l.transform, t, &l.flags, FlagTransformChanged)
}

func (l *Layer) ChildOffset() graphics.Offset {
	return l.childOffset
}

// SetChildOffset raises FlagChildOffsetChanged.
func (l *Layer) SetChildOffset(offset graphics.Offset) bool {
	return trackField(&l.childOffset, offset, &l.flags, FlagChildOffsetChanged)
}

func (l *Layer) ContentOffset() graphics.Offset {
	return l.contentOffset
}

// SetContentOffset raises FlagRedrawContent; content is drawn relative to it.
func (l *Layer) SetContentOffset(offset graphics.Offset) bool {
	return trackField(&l.contentOffset, offset, &l.flags, FlagRedrawContent)
}

func (l *Layer) Outline() Path {
	return l.outline
}

// SetOutline raises FlagOutlineChanged. Empty paths are stored as nil.
func (l *Layer) SetOutline(outline Path) bool {
	return trackFieldFunc(&l.outline, normalizePath(outline), PathsEqual, &l.flags, FlagOutlineChanged)
}

func (l *Layer) ChildClip() Path {
	return l.childClip
}

// SetChildClip raises FlagChildClipChanged. Empty paths are stored as nil.
func (l *Layer) SetChildClip(clip Path) bool {
	return trackFieldFunc(&l.childClip, normalizePath(clip), PathsEqual, &l.flags, FlagChildClipChanged)
}

func (l *Layer) Shadow() *Shadow {
	return l.shadow
}

// SetShadow raises FlagRedrawShadow. Invisible shadows are stored as nil.
func (l *Layer) SetShadow(shadow *Shadow) bool {
	if !shadow.Visible() {
		shadow = nil
	}
	return trackFieldFunc(&l.shadow, shadow, ShadowsEqual, &l.flags, FlagRedrawShadow)
}

func (l *Layer) Accessibility() *Accessibility {
	return l.accessibility
}

// SetAccessibility raises FlagAccessibilityChanged.
func (l *Layer) SetAccessibility(a *Accessibility) bool {
	return trackFieldFunc(&l.accessibility, a, AccessibilityEqual, &l.flags, FlagAccessibilityChanged)
}

// Content returns the first node of the content chain.
func (l *Layer) Content() Node {
	return l.content
}

// SetContent replaces the content chain and raises FlagRedrawContent.
func (l *Layer) SetContent(node Node) bool {
	return trackField(&l.content, node, &l.flags, FlagRedrawContent)
}

// AppendContent adds a node chain after the existing content and raises
// FlagRedrawContent.
func (l *Layer) AppendContent(node Node) bool {
	if node == nil {
		return false
	}
	l.content = AppendSibling(l.content, node)
	l.flags |= FlagRedrawContent
	return true
}

// Children returns the child layers in paint order.
func (l *Layer) Children() []*Layer {
	return l.children
}

// AppendChild adds a child layer on top of the existing ones and raises
// FlagChildrenChanged.
func (l *Layer) AppendChild(child *Layer) bool {
	if child == nil {
		return false
	}
	l.children = append(l.children, child)
	l.flags |= FlagChildrenChanged
	return true
}

// AppendChildren adds several child layers in order.
func (l *Layer) AppendChildren(children []*Layer) bool {
	if len(children) == 0 {
		return false
	}
	l.children = append(l.children, children...)
	l.flags |= FlagChildrenChanged
	return true
}

// RemoveAllChildren drops every child layer and raises FlagChildrenChanged.
func (l *Layer) RemoveAllChildren() bool {
	if len(l.children) == 0 {
		return false
	}
	l.children = nil
	l.flags |= FlagChildrenChanged
	return true
}

func (l *Layer) Interaction() Interaction {
	return l.interaction
}

// SetInteraction sets the interaction bits at construction time. No flag is
// raised.
func (l *Layer) SetInteraction(interaction Interaction) {
	l.interaction = interaction
}

// UpdateInteraction turns the bits in mask on or off and raises
// FlagInteractionChanged.
func (l *Layer) UpdateInteraction(mask Interaction, on bool) bool {
	next := l.interaction &^ mask
	if on {
		next |= mask
	}
	return trackField(&l.interaction, next, &l.flags, FlagInteractionChanged)
}

func (l *Layer) Characteristics() Characteristic {
	return l.characteristics
}

// SetCharacteristic adds characteristic bits. Characteristics never change
// once the renderer has seen the layer, so no flag is raised.
func (l *Layer) SetCharacteristic(c Characteristic) {
	l.characteristics |= c
}

// IsCharacteristic reports whether every bit of c is set.
func (l *Layer) IsCharacteristic(c Characteristic) bool {
	return l.characteristics&c == c
}

func (l *Layer) Flags() LayerFlags {
	return l.flags
}

// GetAndClearFlags returns the dirty flags and resets them. The renderer
// calls it once per consumed layer per frame.
func (l *Layer) GetAndClearFlags() LayerFlags {
	f := l.flags
	l.flags = 0
	return f
}

// SetFlag raises flags without changing any property. Used when content
// nodes were edited in place.
func (l *Layer) SetFlag(f LayerFlags) {
	l.flags |= f
}

func (l *Layer) IsFlagSet(f LayerFlags) bool {
	return l.flags&f != 0
}

func (l *Layer) AnyFlagSet() bool {
	return l.flags != 0
}

func (l *Layer) ClearFlags() {
	l.flags = 0
}

// Visible reports whether the layer can produce any pixels. It walks the
// content and the whole child subtree on every call.
func (l *Layer) Visible() bool {
	if l.bounds.IsEmpty() || l.opacity <= 0 {
		return false
	}
	if l.shadow.Visible() || ChainVisible(l.content) {
		return true
	}
	for _, child := range l.children {
		if child.Visible() {
			return true
		}
	}
	return false
}

func (l *Layer) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Layer %s bounds=%v opacity=%g", l.name, l.bounds.LTWH(), l.opacity)
	if !l.transform.IsIdentity() {
		fmt.Fprintf(&b, " transform=%v", [6]float64(l.transform))
	}
	if !l.childOffset.IsZero() {
		fmt.Fprintf(&b, " childOffset=(%g,%g)", l.childOffset.X, l.childOffset.Y)
	}
	if !l.contentOffset.IsZero() {
		fmt.Fprintf(&b, " contentOffset=(%g,%g)", l.contentOffset.X, l.contentOffset.Y)
	}
	if l.interaction != 0 {
		fmt.Fprintf(&b, " interaction=[%s]", l.interaction)
	}
	if l.characteristics != 0 {
		fmt.Fprintf(&b, " characteristics=[%s]", l.characteristics)
	}
	if l.flags != 0 {
		fmt.Fprintf(&b, " flags=[%s]", l.flags)
	}
	return b.String()
}

// DumpTree writes an indented description of the layer, its content and
// its children.
func (l *Layer) DumpTree() string {
	var b strings.Builder
	dumpLayer(&b, l, 0)
	return b.String()
}

func dumpLayer(b *strings.Builder, l *Layer, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent + l.String() + "\n")
	dumpNodes(b, l.content, depth+2)
	for _, child := range l.children {
		dumpLayer(b, child, depth+1)
	}
}

func dumpNodes(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for ; n != nil; n = n.Next() {
		b.WriteString(indent + n.String() + "\n")
		dumpNodes(b, n.Child(), depth+1)
	}
}
