package avg

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-drift/scenegraph/pkg/errors"
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// Option configures a Graphic.
type Option func(*options)

type options struct {
	measurer TextMeasurer
	params   map[string]any
}

// WithMeasurer sets the text measurer. The default is BasicMeasurer.
func WithMeasurer(m TextMeasurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithParameters overrides parameter defaults.
func WithParameters(params map[string]any) Option {
	return func(o *options) {
		if o.params == nil {
			o.params = map[string]any{}
		}
		maps.Copy(o.params, params)
	}
}

// builtinParams are always defined and cannot be set.
var builtinParams = []string{"width", "height", "viewportWidth", "viewportHeight"}

// Graphic is a live AVG graphic: an element tree whose properties may be
// bound to parameters. It builds a scene graph once and then applies
// parameter changes to it incrementally.
type Graphic struct {
	doc      *Document
	measurer TextMeasurer

	params     map[string]any
	paramTypes map[string]string
	dependents map[string][]element

	root     *container
	elements map[string]element
	dirty    []element
	queued   map[element]bool
	nextID   map[ElementKind]int

	// topLayer hosts the output and is never refit to content.
	topLayer *sg.Layer
}

// New builds a graphic from a validated copy of doc.
func New(doc *Document, opts ...Option) (*Graphic, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	o := options{measurer: BasicMeasurer{}}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Graphic{
		doc:        doc,
		measurer:   o.measurer,
		params:     map[string]any{},
		paramTypes: map[string]string{},
		dependents: map[string][]element{},
		elements:   map[string]element{},
		queued:     map[element]bool{},
		nextID:     map[ElementKind]int{},
	}

	for _, p := range doc.Parameters {
		if slices.Contains(builtinParams, p.Name) {
			return nil, errors.Errorf("avg.New", errors.KindParse, "parameter %q shadows a built-in", p.Name)
		}
		g.paramTypes[p.Name] = p.Type
		v, err := coerceParam(p.Type, p.Default)
		if err != nil {
			return nil, errors.New("avg.New", errors.KindProperty, fmt.Errorf("parameter %s: %w", p.Name, err))
		}
		g.params[p.Name] = v
	}
	for name, value := range o.params {
		if _, ok := g.paramTypes[name]; !ok {
			sg.Logger().Warn("avg: ignoring unknown parameter", "name", name)
			continue
		}
		v, err := coerceParam(g.paramTypes[name], value)
		if err != nil {
			return nil, errors.New("avg.New", errors.KindProperty, fmt.Errorf("parameter %s: %w", name, err))
		}
		g.params[name] = v
	}

	g.root = &container{}
	g.root.graphic = g
	g.root.kind = KindContainer
	g.root.id = "container"
	g.root.dirty = map[string]bool{}
	children, err := g.newElements(doc.Items)
	if err != nil {
		return nil, err
	}
	g.root.children = children
	return g, nil
}

// coerceParam converts a parameter value to its declared type. Untyped
// parameters keep their value as given.
func coerceParam(typ string, v any) (any, error) {
	switch typ {
	case "number":
		if v == nil {
			return 0.0, nil
		}
		return asNumber(v)
	case "boolean":
		return asBool(v)
	case "string", "color":
		return asString(v)
	}
	return v, nil
}

func (g *Graphic) newElements(specs []ElementSpec) ([]element, error) {
	out := make([]element, 0, len(specs))
	for _, spec := range specs {
		e, err := g.newElement(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (g *Graphic) newElement(spec ElementSpec) (element, error) {
	var (
		e     element
		kind  ElementKind
		props []propDef
	)
	switch spec.Type {
	case "group":
		e, kind, props = &group{}, KindGroup, groupProps
	case "path":
		e, kind, props = &pathElement{}, KindPath, pathProps
	case "text":
		e, kind, props = &textElement{}, KindText, textProps
	default:
		return nil, errors.Errorf("avg.New", errors.KindParse, "unknown element type %q", spec.Type)
	}

	b := e.base()
	if err := b.init(g, e, kind, spec, props); err != nil {
		return nil, err
	}
	if _, dup := g.elements[b.id]; dup {
		sg.Logger().Warn("avg: duplicate element id", "id", b.id)
	} else {
		g.elements[b.id] = e
	}

	if kind == KindGroup {
		children, err := g.newElements(spec.Items)
		if err != nil {
			return nil, err
		}
		b.children = children
	} else if len(spec.Items) > 0 {
		sg.Logger().Warn("avg: ignoring children", "element", b.id, "type", spec.Type)
	}
	return e, nil
}

func (g *Graphic) generateID(kind ElementKind) string {
	g.nextID[kind]++
	return fmt.Sprintf("%s%d", kind, g.nextID[kind])
}

func (g *Graphic) addDependent(param string, e element) {
	if !slices.Contains(g.dependents[param], e) {
		g.dependents[param] = append(g.dependents[param], e)
	}
}

// lookup resolves a parameter, including the built-in size parameters.
func (g *Graphic) lookup(name string) (any, bool) {
	switch name {
	case "width":
		return g.doc.Width, true
	case "height":
		return g.doc.Height, true
	case "viewportWidth":
		return g.doc.ViewportWidth, true
	case "viewportHeight":
		return g.doc.ViewportHeight, true
	}
	v, ok := g.params[name]
	return v, ok
}

func (g *Graphic) Document() *Document {
	return g.doc
}

func (g *Graphic) Width() float64 {
	return g.doc.Width
}

func (g *Graphic) Height() float64 {
	return g.doc.Height
}

// Viewport returns the size of the coordinate space the elements draw in.
func (g *Graphic) Viewport() graphics.Size {
	return graphics.Size{Width: g.doc.ViewportWidth, Height: g.doc.ViewportHeight}
}

// Parameter returns the current value of a parameter.
func (g *Graphic) Parameter(name string) (any, bool) {
	return g.lookup(name)
}

// ParameterNames lists the declared parameters in document order.
func (g *Graphic) ParameterNames() []string {
	names := make([]string, 0, len(g.doc.Parameters))
	for _, p := range g.doc.Parameters {
		names = append(names, p.Name)
	}
	return names
}

// ElementIDs lists the ids of all elements in sorted order.
func (g *Graphic) ElementIDs() []string {
	return slices.Sorted(maps.Keys(g.elements))
}

// SetProperty sets a parameter and re-evaluates the element properties
// bound to it. It reports whether the parameter exists and accepted the
// value. Changed elements are queued for the next UpdateSceneGraph.
func (g *Graphic) SetProperty(name string, value any) bool {
	typ, ok := g.paramTypes[name]
	if !ok {
		return false
	}
	v, err := coerceParam(typ, value)
	if err != nil {
		errors.Report(errors.New("avg.SetProperty", errors.KindProperty, fmt.Errorf("parameter %s: %w", name, err)))
		return false
	}
	g.params[name] = v

	for _, e := range g.dependents[name] {
		if e.base().recalculate(name) && !g.queued[e] {
			g.queued[e] = true
			g.dirty = append(g.dirty, e)
		}
	}
	return true
}

// IsDirty reports whether property changes are waiting to be applied.
func (g *Graphic) IsDirty() bool {
	return len(g.dirty) > 0
}

// BuildSceneGraph builds the scene graph fragment for the whole graphic.
// With allowLayers, elements bound to parameters get layers of their own
// and the result is always a layer sized to the viewport.
func (g *Graphic) BuildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	g.topLayer = nil
	g.clearDirty()
	return g.root.buildSceneGraph(allowLayers, updates)
}

// SetTopLayer marks the layer hosting the graphic output. Its size is
// fixed: content changes never refit it.
func (g *Graphic) SetTopLayer(layer *sg.Layer) {
	g.topLayer = layer
}

// UpdateSceneGraph applies queued property changes to the built scene
// graph and reports them in updates.
func (g *Graphic) UpdateSceneGraph(updates *sg.SceneGraphUpdates) {
	for _, e := range g.dirty {
		e.updateSceneGraph(updates)
	}
	g.clearDirty()
}

func (g *Graphic) clearDirty() {
	for _, e := range g.dirty {
		e.base().clearDirty()
	}
	g.dirty = g.dirty[:0]
	clear(g.queued)
}

// container is the root of the element tree.
type container struct {
	elementBase
}

func (c *container) buildSceneGraph(allowLayers bool, updates *sg.SceneGraphUpdates) *sg.GraphicFragment {
	c.layer = nil
	result := c.buildChildren(c, allowLayers, updates)
	if result.Empty() || !allowLayers {
		return result
	}

	result.EnsureLayer(updates)
	layer := result.Layer()
	c.graphic.topLayer = layer
	layer.SetBounds(graphics.RectFromLTWH(0, 0, c.graphic.doc.ViewportWidth, c.graphic.doc.ViewportHeight))
	layer.SetContentOffset(graphics.Offset{})
	layer.SetChildOffset(graphics.Offset{})
	return result
}

func (c *container) updateSceneGraph(*sg.SceneGraphUpdates) {}
