package sg

import (
	"fmt"

	"github.com/go-drift/scenegraph/pkg/graphics"
)

// NodeType identifies a Node variant.
type NodeType uint8

const (
	NodeTypeGeneric NodeType = iota
	NodeTypeTransform
	NodeTypeClip
	NodeTypeOpacity
	NodeTypeDraw
	NodeTypeText
	NodeTypeImage
	NodeTypeVideo
	NodeTypeShadow
	NodeTypeEditText
)

var nodeTypeNames = [...]string{
	"generic", "transform", "clip", "opacity", "draw",
	"text", "image", "video", "shadow", "edit",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

// NodeFlags records what changed on a node since its flags were cleared.
type NodeFlags uint8

const (
	NodeFlagModified NodeFlags = 1 << iota
	NodeFlagChildrenChanged
)

// Node is a drawing primitive. Nodes form a tree of lists: each node has a
// first child and a next sibling. The set of variants is closed; use a type
// switch over the concrete *XxxNode types to inspect one.
type Node interface {
	Type() NodeType
	Child() Node
	Next() Node
	// SetChild replaces the whole child chain.
	SetChild(child Node) bool
	SetNext(next Node) bool
	// AppendChild adds child (and its siblings) after the last child.
	AppendChild(child Node)
	RemoveAllChildren() bool
	ChildCount() int
	// Visible reports whether drawing the node can produce any pixels.
	Visible() bool
	// NeedsRedraw reports whether the node or a descendant changed since
	// the flags were last cleared.
	NeedsRedraw() bool
	Flags() NodeFlags
	AnyFlagSet() bool
	IsFlagSet(flag NodeFlags) bool
	ClearFlags()
	String() string
	base() *nodeBase
}

// nodeBase carries the links and flags shared by every node.
type nodeBase struct {
	child Node
	next  Node
	flags NodeFlags
}

func (b *nodeBase) base() *nodeBase {
	return b
}

func (b *nodeBase) Child() Node {
	return b.child
}

func (b *nodeBase) Next() Node {
	return b.next
}

func (b *nodeBase) SetChild(child Node) bool {
	return trackField(&b.child, child, &b.flags, NodeFlagChildrenChanged)
}

// SetNext sets the following sibling. Siblings belong to the parent, so no
// flag is raised here.
func (b *nodeBase) SetNext(next Node) bool {
	if b.next == next {
		return false
	}
	b.next = next
	return true
}

func (b *nodeBase) AppendChild(child Node) {
	if child == nil {
		return
	}
	if b.child == nil {
		b.SetChild(child)
		return
	}
	LastSibling(b.child).SetNext(child)
	b.flags |= NodeFlagChildrenChanged
}

func (b *nodeBase) RemoveAllChildren() bool {
	return b.SetChild(nil)
}

func (b *nodeBase) ChildCount() int {
	return ChainLength(b.child)
}

func (b *nodeBase) Visible() bool {
	for child := b.child; child != nil; child = child.Next() {
		if child.Visible() {
			return true
		}
	}
	return false
}

func (b *nodeBase) NeedsRedraw() bool {
	if b.child == nil && b.flags&NodeFlagChildrenChanged == 0 {
		return false
	}
	if b.flags != 0 {
		return true
	}
	return b.childNeedsRedraw()
}

func (b *nodeBase) childNeedsRedraw() bool {
	for child := b.child; child != nil; child = child.Next() {
		if child.NeedsRedraw() {
			return true
		}
	}
	return false
}

func (b *nodeBase) Flags() NodeFlags {
	return b.flags
}

func (b *nodeBase) AnyFlagSet() bool {
	return b.flags != 0
}

func (b *nodeBase) IsFlagSet(flag NodeFlags) bool {
	return b.flags&flag != 0
}

func (b *nodeBase) ClearFlags() {
	b.flags = 0
}

// LastSibling returns the final node of the chain starting at n.
func LastSibling(n Node) Node {
	if n == nil {
		return nil
	}
	for n.Next() != nil {
		n = n.Next()
	}
	return n
}

// AppendSibling links tail after the last node of chain and returns the
// head of the combined chain.
func AppendSibling(chain, tail Node) Node {
	if chain == nil {
		return tail
	}
	if tail != nil {
		LastSibling(chain).SetNext(tail)
	}
	return chain
}

// ChainLength counts the nodes in a sibling chain.
func ChainLength(n Node) int {
	count := 0
	for ; n != nil; n = n.Next() {
		count++
	}
	return count
}

// ChainVisible reports whether any node of a sibling chain is visible.
func ChainVisible(n Node) bool {
	for ; n != nil; n = n.Next() {
		if n.Visible() {
			return true
		}
	}
	return false
}

// ClearChainFlags clears the flags of every node reachable from n,
// including siblings and descendants.
func ClearChainFlags(n Node) {
	for ; n != nil; n = n.Next() {
		n.ClearFlags()
		ClearChainFlags(n.Child())
	}
}

// GenericNode groups its children without changing how they draw.
type GenericNode struct {
	nodeBase
}

func NewGenericNode() *GenericNode {
	return &GenericNode{}
}

func (*GenericNode) Type() NodeType {
	return NodeTypeGeneric
}

func (n *GenericNode) String() string {
	return "GenericNode"
}

// TransformNode draws its children under an affine transform.
type TransformNode struct {
	nodeBase
	transform graphics.Transform2D
}

func NewTransformNode(t graphics.Transform2D, child Node) *TransformNode {
	n := &TransformNode{transform: graphics.IdentityTransform()}
	n.SetTransform(t)
	n.SetChild(child)
	return n
}

func (*TransformNode) Type() NodeType {
	return NodeTypeTransform
}

func (n *TransformNode) Transform() graphics.Transform2D {
	return n.transform
}

func (n *TransformNode) SetTransform(t graphics.Transform2D) bool {
	return trackField(&n.transform, t, &n.flags, NodeFlagModified)
}

func (n *TransformNode) String() string {
	return fmt.Sprintf("TransformNode transform=%v", [6]float64(n.transform))
}

// ClipNode restricts its children to the inside of a path.
type ClipNode struct {
	nodeBase
	path Path
}

func NewClipNode(path Path, child Node) *ClipNode {
	n := &ClipNode{}
	n.SetPath(path)
	n.SetChild(child)
	return n
}

func (*ClipNode) Type() NodeType {
	return NodeTypeClip
}

func (n *ClipNode) Path() Path {
	return n.path
}

func (n *ClipNode) SetPath(path Path) bool {
	return trackFieldFunc(&n.path, path, PathsEqual, &n.flags, NodeFlagModified)
}

func (n *ClipNode) String() string {
	if n.path == nil {
		return "ClipNode"
	}
	return "ClipNode path=" + n.path.String()
}

// OpacityNode draws its children with reduced opacity.
type OpacityNode struct {
	nodeBase
	opacity float64
}

func NewOpacityNode(opacity float64, child Node) *OpacityNode {
	n := &OpacityNode{opacity: 1}
	n.SetOpacity(opacity)
	n.SetChild(child)
	return n
}

func (*OpacityNode) Type() NodeType {
	return NodeTypeOpacity
}

func (n *OpacityNode) Opacity() float64 {
	return n.opacity
}

// SetOpacity clamps opacity to [0,1].
func (n *OpacityNode) SetOpacity(opacity float64) bool {
	return trackField(&n.opacity, graphics.Clamp01(opacity), &n.flags, NodeFlagModified)
}

func (n *OpacityNode) Visible() bool {
	return n.opacity > 0 && n.nodeBase.Visible()
}

// NeedsRedraw skips fully transparent content unless the opacity itself
// changed.
func (n *OpacityNode) NeedsRedraw() bool {
	if n.child == nil && !n.IsFlagSet(NodeFlagChildrenChanged) {
		return false
	}
	if n.opacity == 0 && !n.IsFlagSet(NodeFlagModified) {
		return false
	}
	if n.opacity > 0 && !n.AnyFlagSet() {
		return n.childNeedsRedraw()
	}
	return true
}

func (n *OpacityNode) String() string {
	return fmt.Sprintf("OpacityNode opacity=%g", n.opacity)
}

// DrawNode paints a path with a chain of path operations.
type DrawNode struct {
	nodeBase
	path Path
	op   PathOp
}

func NewDrawNode(path Path, op PathOp) *DrawNode {
	if path == nil {
		panic("sg: draw node requires a path")
	}
	n := &DrawNode{}
	n.SetPath(path)
	n.SetOp(op)
	return n
}

func (*DrawNode) Type() NodeType {
	return NodeTypeDraw
}

func (n *DrawNode) Path() Path {
	return n.path
}

func (n *DrawNode) SetPath(path Path) bool {
	return trackFieldFunc(&n.path, path, PathsEqual, &n.flags, NodeFlagModified)
}

func (n *DrawNode) Op() PathOp {
	return n.op
}

func (n *DrawNode) SetOp(op PathOp) bool {
	return trackField(&n.op, op, &n.flags, NodeFlagModified)
}

func (n *DrawNode) Visible() bool {
	return opChainVisible(n.op)
}

func (n *DrawNode) NeedsRedraw() bool {
	return n.AnyFlagSet()
}

func (n *DrawNode) String() string {
	s := "DrawNode"
	if n.path != nil {
		s += " path=" + n.path.String()
	}
	for op := n.op; op != nil; op = op.Next() {
		s += " op=" + op.String()
	}
	return s
}

func opChainVisible(op PathOp) bool {
	for ; op != nil; op = op.Next() {
		if op.Visible() {
			return true
		}
	}
	return false
}

// Range is an inclusive range of line indexes. A range with Upper < Lower
// is empty.
type Range struct {
	Lower int
	Upper int
}

// Empty reports whether the range holds no lines.
func (r Range) Empty() bool {
	return r.Upper < r.Lower
}

// EmptyRange selects no lines; text nodes then draw the whole layout.
var EmptyRange = Range{Lower: 0, Upper: -1}

// TextLayout is a shaped block of text produced outside this package.
type TextLayout interface {
	Empty() bool
	Size() graphics.Size
	LineCount() int
	// LineBounds returns the bounds of the lines in r in layout
	// coordinates.
	LineBounds(r Range) graphics.Rect
	Text() string
}

// TextNode paints laid out text with a chain of path operations.
type TextNode struct {
	nodeBase
	layout TextLayout
	op     PathOp
	rng    Range
}

// NewTextNode returns a text node. An empty range draws every line.
func NewTextNode(layout TextLayout, op PathOp, rng Range) *TextNode {
	if layout == nil {
		panic("sg: text node requires a layout")
	}
	n := &TextNode{rng: EmptyRange}
	n.SetTextLayout(layout)
	n.SetOp(op)
	n.SetRange(rng)
	return n
}

func (*TextNode) Type() NodeType {
	return NodeTypeText
}

func (n *TextNode) TextLayout() TextLayout {
	return n.layout
}

func (n *TextNode) SetTextLayout(layout TextLayout) bool {
	return trackFieldFunc(&n.layout, layout, sameHandle[TextLayout], &n.flags, NodeFlagModified)
}

func (n *TextNode) Op() PathOp {
	return n.op
}

func (n *TextNode) SetOp(op PathOp) bool {
	return trackField(&n.op, op, &n.flags, NodeFlagModified)
}

func (n *TextNode) Range() Range {
	return n.rng
}

func (n *TextNode) SetRange(rng Range) bool {
	return trackField(&n.rng, rng, &n.flags, NodeFlagModified)
}

func (n *TextNode) Visible() bool {
	return !n.layout.Empty() && opChainVisible(n.op)
}

func (n *TextNode) NeedsRedraw() bool {
	return n.AnyFlagSet()
}

func (n *TextNode) String() string {
	return fmt.Sprintf("TextNode range=[%d,%d] text=%q", n.rng.Lower, n.rng.Upper, n.layout.Text())
}

// Image is a decoded bitmap supplied by the host.
type Image interface {
	URL() string
	Size() graphics.Size
}

// ImageNode draws the source rectangle of an image into the target
// rectangle.
type ImageNode struct {
	nodeBase
	image  Image
	target graphics.Rect
	source graphics.Rect
}

func NewImageNode(image Image, target, source graphics.Rect) *ImageNode {
	n := &ImageNode{}
	n.SetImage(image)
	n.SetTarget(target)
	n.SetSource(source)
	return n
}

func (*ImageNode) Type() NodeType {
	return NodeTypeImage
}

func (n *ImageNode) Image() Image {
	return n.image
}

func (n *ImageNode) SetImage(image Image) bool {
	return trackFieldFunc(&n.image, image, sameHandle[Image], &n.flags, NodeFlagModified)
}

func (n *ImageNode) Target() graphics.Rect {
	return n.target
}

func (n *ImageNode) SetTarget(target graphics.Rect) bool {
	return trackField(&n.target, target, &n.flags, NodeFlagModified)
}

func (n *ImageNode) Source() graphics.Rect {
	return n.source
}

func (n *ImageNode) SetSource(source graphics.Rect) bool {
	return trackField(&n.source, source, &n.flags, NodeFlagModified)
}

func (n *ImageNode) Visible() bool {
	return n.image != nil
}

func (n *ImageNode) NeedsRedraw() bool {
	return n.AnyFlagSet()
}

func (n *ImageNode) String() string {
	return fmt.Sprintf("ImageNode target=%v source=%v", n.target.LTWH(), n.source.LTWH())
}

// MediaPlayer is a video player supplied by the host.
type MediaPlayer interface {
	Source() string
}

// VideoScale selects how video frames fit the target rectangle.
type VideoScale uint8

const (
	VideoScaleBestFit VideoScale = iota
	VideoScaleBestFill
)

func (s VideoScale) String() string {
	if s == VideoScaleBestFill {
		return "best-fill"
	}
	return "best-fit"
}

// VideoNode shows the output of a media player.
type VideoNode struct {
	nodeBase
	player MediaPlayer
	target graphics.Rect
	scale  VideoScale
}

func NewVideoNode(player MediaPlayer, target graphics.Rect, scale VideoScale) *VideoNode {
	n := &VideoNode{}
	n.SetPlayer(player)
	n.SetTarget(target)
	n.SetScale(scale)
	return n
}

func (*VideoNode) Type() NodeType {
	return NodeTypeVideo
}

func (n *VideoNode) Player() MediaPlayer {
	return n.player
}

func (n *VideoNode) SetPlayer(player MediaPlayer) bool {
	return trackFieldFunc(&n.player, player, sameHandle[MediaPlayer], &n.flags, NodeFlagModified)
}

func (n *VideoNode) Target() graphics.Rect {
	return n.target
}

func (n *VideoNode) SetTarget(target graphics.Rect) bool {
	return trackField(&n.target, target, &n.flags, NodeFlagModified)
}

func (n *VideoNode) Scale() VideoScale {
	return n.scale
}

func (n *VideoNode) SetScale(scale VideoScale) bool {
	return trackField(&n.scale, scale, &n.flags, NodeFlagModified)
}

func (n *VideoNode) Visible() bool {
	return n.player != nil
}

func (n *VideoNode) NeedsRedraw() bool {
	return n.AnyFlagSet()
}

func (n *VideoNode) String() string {
	return fmt.Sprintf("VideoNode target=%v scale=%s", n.target.LTWH(), n.scale)
}

// ShadowNode draws its children with a drop shadow behind them.
type ShadowNode struct {
	nodeBase
	shadow *Shadow
}

// NewShadowNode wraps child. A nil shadow is allowed and draws nothing
// extra.
func NewShadowNode(shadow *Shadow, child Node) *ShadowNode {
	n := &ShadowNode{}
	n.SetShadow(shadow)
	n.SetChild(child)
	return n
}

func (*ShadowNode) Type() NodeType {
	return NodeTypeShadow
}

func (n *ShadowNode) Shadow() *Shadow {
	return n.shadow
}

func (n *ShadowNode) SetShadow(shadow *Shadow) bool {
	return trackFieldFunc(&n.shadow, shadow, ShadowsEqual, &n.flags, NodeFlagModified)
}

func (n *ShadowNode) String() string {
	if n.shadow == nil {
		return "ShadowNode"
	}
	return "ShadowNode " + n.shadow.String()
}

// EditText is a native text input supplied by the host.
type EditText interface {
	SetFocus(focused bool)
	Release()
}

// EditTextBox is the measured box an edit text control occupies.
type EditTextBox interface {
	Size() graphics.Size
	Baseline() float64
}

// EditTextConfig describes how an edit text control looks and behaves.
type EditTextConfig struct {
	TextColor       graphics.Color
	HighlightColor  graphics.Color
	KeyboardType    string
	Language        string
	MaxLength       int
	SecureInput     bool
	SubmitKeyType   string
	ValidCharacters string
	SelectOnFocus   bool
}

// EditTextNode hosts a native text input.
type EditTextNode struct {
	nodeBase
	editText EditText
	box      EditTextBox
	config   EditTextConfig
	text     string
}

func NewEditTextNode(editText EditText, box EditTextBox, config EditTextConfig, text string) *EditTextNode {
	n := &EditTextNode{}
	n.SetEditText(editText)
	n.SetEditTextBox(box)
	n.SetEditTextConfig(config)
	n.SetText(text)
	return n
}

func (*EditTextNode) Type() NodeType {
	return NodeTypeEditText
}

func (n *EditTextNode) EditText() EditText {
	return n.editText
}

func (n *EditTextNode) SetEditText(editText EditText) bool {
	return trackFieldFunc(&n.editText, editText, sameHandle[EditText], &n.flags, NodeFlagModified)
}

func (n *EditTextNode) EditTextBox() EditTextBox {
	return n.box
}

func (n *EditTextNode) SetEditTextBox(box EditTextBox) bool {
	return trackFieldFunc(&n.box, box, sameHandle[EditTextBox], &n.flags, NodeFlagModified)
}

func (n *EditTextNode) EditTextConfig() EditTextConfig {
	return n.config
}

func (n *EditTextNode) SetEditTextConfig(config EditTextConfig) bool {
	return trackField(&n.config, config, &n.flags, NodeFlagModified)
}

func (n *EditTextNode) Text() string {
	return n.text
}

func (n *EditTextNode) SetText(text string) bool {
	return trackField(&n.text, text, &n.flags, NodeFlagModified)
}

func (n *EditTextNode) Visible() bool {
	return true
}

func (n *EditTextNode) NeedsRedraw() bool {
	return n.AnyFlagSet()
}

func (n *EditTextNode) String() string {
	return fmt.Sprintf("EditTextNode text=%q", n.text)
}
