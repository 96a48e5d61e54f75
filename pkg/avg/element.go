package avg

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/scenegraph/pkg/errors"
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// ElementKind identifies the concrete type of a graphic element.
type ElementKind uint8

const (
	KindContainer ElementKind = iota
	KindGroup
	KindPath
	KindText
)

var elementKindNames = [...]string{"container", "group", "path", "text"}

func (k ElementKind) String() string {
	if int(k) < len(elementKindNames) {
		return elementKindNames[k]
	}
	return fmt.Sprintf("ElementKind(%d)", k)
}

// propDef declares one property of an element kind.
type propDef struct {
	name     string
	def      any
	convert  converter
	required bool
}

// element is implemented by every node of the graphic tree.
type element interface {
	sg.Element
	base() *elementBase
	buildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment
	updateSceneGraph(updates *sg.SceneGraphUpdates)
}

// elementBase holds the property state shared by all element kinds.
//
// values always holds a converted value for every declared property.
// upstream lists, per property, the parameters its raw value refers to.
// dirty collects properties whose value changed since the last update.
type elementBase struct {
	graphic  *Graphic
	id       string
	kind     ElementKind
	defs     []propDef
	raw      map[string]any
	values   map[string]any
	upstream map[string][]string
	dirty    map[string]bool
	children []element

	// layer is the layer currently holding this element's output, or nil.
	layer *sg.Layer
}

func (b *elementBase) base() *elementBase {
	return b
}

// ElementID returns the authored id, or a generated one.
func (b *elementBase) ElementID() string {
	return b.id
}

// AssignSceneGraphLayer records the layer that now holds the element.
func (b *elementBase) AssignSceneGraphLayer(layer *sg.Layer) {
	b.layer = layer
}

// init evaluates the element's properties from spec and registers the
// element with every parameter it depends on.
func (b *elementBase) init(g *Graphic, self element, kind ElementKind, spec ElementSpec, defs []propDef) error {
	b.graphic = g
	b.kind = kind
	b.defs = defs
	b.raw = map[string]any{}
	b.values = map[string]any{}
	b.upstream = map[string][]string{}
	b.dirty = map[string]bool{}

	if id, ok := spec.Properties["id"].(string); ok && id != "" {
		b.id = id
	} else {
		b.id = g.generateID(kind)
	}
	if _, ok := spec.Properties["style"]; ok {
		sg.Logger().Warn("avg: styles are not supported", "element", b.id)
	}

	for _, d := range defs {
		raw, ok := spec.Properties[d.name]
		if !ok {
			if d.required {
				err := errors.Errorf("avg.New", errors.KindProperty, "%s is missing required property %s", kind, d.name)
				err.Element = b.id
				return err
			}
			b.values[d.name] = d.def
			continue
		}
		b.raw[d.name] = raw
		if refs := references(raw); len(refs) > 0 {
			b.upstream[d.name] = refs
			for _, name := range refs {
				g.addDependent(name, self)
			}
		}
		b.values[d.name] = b.evaluateProperty(d)
	}
	return nil
}

// evaluateProperty resolves bindings in the raw value of d and converts
// the result. Failures fall back to the default.
func (b *elementBase) evaluateProperty(d propDef) any {
	v, err := evaluate(b.raw[d.name], b.graphic.lookup)
	if err != nil {
		sg.Logger().Warn("avg: unresolved binding", "element", b.id, "property", d.name, "error", err)
		return d.def
	}
	out, err := d.convert(v)
	if err != nil {
		e := errors.New("avg.evaluate", errors.KindProperty, fmt.Errorf("%s: %w", d.name, err))
		e.Element = b.id
		errors.Report(e)
		return d.def
	}
	return out
}

// recalculate re-evaluates every property that depends on param and
// reports whether any value changed.
func (b *elementBase) recalculate(param string) bool {
	changed := false
	for _, d := range b.defs {
		refs, ok := b.upstream[d.name]
		if !ok || !slices.Contains(refs, param) {
			continue
		}
		v := b.evaluateProperty(d)
		if reflect.DeepEqual(v, b.values[d.name]) {
			continue
		}
		b.values[d.name] = v
		b.dirty[d.name] = true
		changed = true
	}
	return changed
}

// hasUpstream reports whether any of names is bound to a parameter. With
// no names it reports whether any property is bound.
func (b *elementBase) hasUpstream(names ...string) bool {
	if len(names) == 0 {
		return len(b.upstream) > 0
	}
	for _, name := range names {
		if _, ok := b.upstream[name]; ok {
			return true
		}
	}
	return false
}

func (b *elementBase) isDirty(names ...string) bool {
	for _, name := range names {
		if b.dirty[name] {
			return true
		}
	}
	return false
}

func (b *elementBase) clearDirty() {
	clear(b.dirty)
}

func (b *elementBase) number(name string) float64 {
	f, _ := b.values[name].(float64)
	return f
}

func (b *elementBase) str(name string) string {
	s, _ := b.values[name].(string)
	return s
}

func (b *elementBase) transform(name string) graphics.Transform2D {
	if t, ok := b.values[name].(graphics.Transform2D); ok {
		return t
	}
	return graphics.IdentityTransform()
}

func (b *elementBase) path(name string) *sg.GeneralPath {
	if p, ok := b.values[name].(*sg.GeneralPath); ok && p != nil {
		return p
	}
	return sg.NewGeneralPath("", nil)
}

func (b *elementBase) filters() []sg.Filter {
	f, _ := b.values["filters"].([]sg.Filter)
	return f
}

// includeInSceneGraph reports whether a paint or width property can
// contribute to the output, now or after a parameter change.
func (b *elementBase) includeInSceneGraph(name string) bool {
	if b.hasUpstream(name) {
		return true
	}
	switch v := b.values[name].(type) {
	case float64:
		return v > 0
	default:
		return fillVisible(v)
	}
}

// buildChildren walks the children in paint order, merging adjacent
// fragments where possible, and collects them under self.
func (b *elementBase) buildChildren(self element, allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	result := sg.NewFragment(self)
	var current *sg.GraphicFragment
	for _, child := range b.children {
		child.base().layer = nil
		frag := child.buildSceneGraph(allowLayers, updates)
		if frag.Empty() {
			continue
		}
		if current != nil && current.MergeWith(frag) {
			if absorbed := frag.Layer(); absorbed != nil && absorbed != current.Layer() {
				updates.Discard(absorbed)
			}
			continue
		}
		if current != nil {
			result.AddChild(current, updates)
		}
		current = frag
	}
	if current != nil {
		result.AddChild(current, updates)
	}
	return result
}

// requestRedraw reports that node changed its appearance.
func (b *elementBase) requestRedraw(updates *sg.SceneGraphUpdates, node sg.Node) {
	if b.layer != nil {
		b.layer.SetFlag(sg.FlagRedrawContent)
		updates.Changed(b.layer)
		return
	}
	updates.Modified(node)
}

// requestSizeCheck asks for the containing layer to be refit to its
// content. The top layer keeps the viewport size.
func (b *elementBase) requestSizeCheck(updates *sg.SceneGraphUpdates) {
	if b.layer == nil || b.layer == b.graphic.topLayer {
		return
	}
	updates.Resize(b.layer)
}

// paintProps names the properties behind a fill or stroke paint.
type paintProps struct {
	paint, opacity, transform string
}

var (
	fillProps   = paintProps{"fill", "fillOpacity", "fillTransform"}
	strokeProps = paintProps{"stroke", "strokeOpacity", "strokeTransform"}
)

func (b *elementBase) newPaint(p paintProps) sg.Paint {
	return newPaint(b.values[p.paint], b.number(p.opacity), b.transform(p.transform))
}

// updatePaint applies dirty paint properties to op. A new fill replaces
// the paint; opacity and transform changes update it in place.
func (b *elementBase) updatePaint(op sg.PathOp, p paintProps) bool {
	if !b.isDirty(p.paint, p.opacity, p.transform) {
		return false
	}
	if b.isDirty(p.paint) {
		return op.SetPaint(b.newPaint(p))
	}
	paint := op.Paint()
	changed := paint.SetOpacity(b.number(p.opacity))
	changed = paint.SetTransform(b.transform(p.transform)) || changed
	return changed
}

// newStrokeOp builds a stroke op from the stroke properties of b. Text
// and path elements share the names.
func (b *elementBase) newStrokeOp() *sg.StrokePathOp {
	op := sg.NewStrokePathOp(b.newPaint(strokeProps))
	b.applyStroke(op)
	return op
}

var strokeParams = []string{
	"strokeWidth", "strokeMiterLimit", "pathLength", "strokeDashOffset",
	"strokeLineCap", "strokeLineJoin", "strokeDashArray",
}

func (b *elementBase) applyStroke(op *sg.StrokePathOp) bool {
	changed := op.SetStrokeWidth(b.number("strokeWidth"))
	if _, ok := b.values["strokeMiterLimit"]; !ok {
		return changed
	}
	changed = op.SetMiterLimit(b.number("strokeMiterLimit")) || changed
	changed = op.SetPathLength(b.number("pathLength")) || changed
	changed = op.SetDashOffset(b.number("strokeDashOffset")) || changed
	if c, ok := b.values["strokeLineCap"].(sg.LineCap); ok {
		changed = op.SetLineCap(c) || changed
	}
	if j, ok := b.values["strokeLineJoin"].(sg.LineJoin); ok {
		changed = op.SetLineJoin(j) || changed
	}
	if d, ok := b.values["strokeDashArray"].([]float64); ok {
		changed = op.SetDashes(d) || changed
	}
	return changed
}
