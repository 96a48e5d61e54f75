package sg

import "slices"

// layerSet is an insertion-ordered set of layers.
type layerSet struct {
	layers []*Layer
	index  map[*Layer]bool // O(1) dedup check
}

func (s *layerSet) add(layer *Layer) {
	if s.index == nil {
		s.index = make(map[*Layer]bool)
	}
	if s.index[layer] {
		return
	}
	s.index[layer] = true
	s.layers = append(s.layers, layer)
}

func (s *layerSet) remove(layer *Layer) {
	if !s.index[layer] {
		return
	}
	delete(s.index, layer)
	s.layers = slices.DeleteFunc(s.layers, func(l *Layer) bool { return l == layer })
}

func (s *layerSet) contains(layer *Layer) bool {
	return s.index[layer]
}

func (s *layerSet) reset() {
	s.layers = nil
	s.index = nil
}

// SceneGraphUpdates records which layers were created, changed or need
// resizing during one frame. Created layers are never also reported as
// changed. The consumer reads the sets and then calls Clear exactly once
// per frame; otherwise flags and sets keep growing.
type SceneGraphUpdates struct {
	changed  layerSet
	created  layerSet
	resize   layerSet
	modified []Node
	nodeSet  map[Node]bool
}

// Changed records a layer whose flags are set. Layers without flags and
// layers created this frame are ignored.
func (u *SceneGraphUpdates) Changed(layer *Layer) {
	if !layer.AnyFlagSet() || u.created.contains(layer) {
		return
	}
	u.changed.add(layer)
}

// Created records a new layer, removing it from the changed set.
func (u *SceneGraphUpdates) Created(layer *Layer) {
	u.changed.remove(layer)
	u.created.add(layer)
}

// Resize records a layer whose bounds must be recomputed from its content
// before the frame is handed out.
func (u *SceneGraphUpdates) Resize(layer *Layer) {
	u.resize.add(layer)
}

// Modified records a node edited in place outside of any layer, so a
// renderer working without layers can tell the content changed.
func (u *SceneGraphUpdates) Modified(node Node) {
	if u.nodeSet == nil {
		u.nodeSet = make(map[Node]bool)
	}
	if u.nodeSet[node] {
		return
	}
	u.nodeSet[node] = true
	u.modified = append(u.modified, node)
}

// Discard forgets a layer that left the tree, for example one absorbed by
// a merge.
func (u *SceneGraphUpdates) Discard(layer *Layer) {
	u.changed.remove(layer)
	u.created.remove(layer)
	u.resize.remove(layer)
}

// ProcessResize refits every layer recorded by Resize to its content and
// reports the ones whose bounds moved as changed.
func (u *SceneGraphUpdates) ProcessResize() {
	if len(u.resize.layers) == 0 {
		return
	}
	Logger().Debug("sg: processing resize", "layers", len(u.resize.layers))
	for _, layer := range u.resize.layers {
		FitLayerToContent(layer)
		u.Changed(layer)
	}
	u.resize.reset()
}

// ChangedLayers returns the changed layers in the order they were recorded.
func (u *SceneGraphUpdates) ChangedLayers() []*Layer {
	return u.changed.layers
}

// CreatedLayers returns the created layers in the order they were recorded.
func (u *SceneGraphUpdates) CreatedLayers() []*Layer {
	return u.created.layers
}

// ResizeLayers returns the layers waiting for ProcessResize.
func (u *SceneGraphUpdates) ResizeLayers() []*Layer {
	return u.resize.layers
}

// ModifiedNodes returns the nodes recorded by Modified.
func (u *SceneGraphUpdates) ModifiedNodes() []Node {
	return u.modified
}

// IsChanged reports whether layer is in the changed set.
func (u *SceneGraphUpdates) IsChanged(layer *Layer) bool {
	return u.changed.contains(layer)
}

// IsCreated reports whether layer is in the created set.
func (u *SceneGraphUpdates) IsCreated(layer *Layer) bool {
	return u.created.contains(layer)
}

// MapChanged calls fn for each changed layer in recording order.
func (u *SceneGraphUpdates) MapChanged(fn func(layer *Layer)) {
	for _, layer := range u.changed.layers {
		fn(layer)
	}
}

// MapCreated calls fn for each created layer in recording order.
func (u *SceneGraphUpdates) MapCreated(fn func(layer *Layer)) {
	for _, layer := range u.created.layers {
		fn(layer)
	}
}

// Empty reports whether nothing was recorded this frame.
func (u *SceneGraphUpdates) Empty() bool {
	return len(u.changed.layers) == 0 && len(u.created.layers) == 0 &&
		len(u.resize.layers) == 0 && len(u.modified) == 0
}

// Clear resets the flags of every recorded layer and its content nodes,
// then empties all sets.
func (u *SceneGraphUpdates) Clear() {
	for _, set := range []*layerSet{&u.changed, &u.created, &u.resize} {
		for _, layer := range set.layers {
			layer.ClearFlags()
			ClearChainFlags(layer.Content())
		}
		set.reset()
	}
	for _, node := range u.modified {
		node.ClearFlags()
	}
	u.modified = nil
	u.nodeSet = nil
}

// SceneGraph is the unit handed from the core to a renderer: the top layer
// and the updates accumulated since the last Clear.
type SceneGraph struct {
	layer   *Layer
	updates SceneGraphUpdates
}

// NewSceneGraph returns an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{}
}

// Layer returns the top layer, or nil before anything was built.
func (s *SceneGraph) Layer() *Layer {
	return s.layer
}

func (s *SceneGraph) SetLayer(layer *Layer) {
	s.layer = layer
}

// Updates returns the updates for the current frame.
func (s *SceneGraph) Updates() *SceneGraphUpdates {
	return &s.updates
}
