// Package engine owns a vector graphic and the scene graph built from it.
//
// An Engine is the single downstream accessor for renderers: SceneGraph
// builds the graphic on first use and afterwards applies pending property
// changes, returning the top layer together with the layers created,
// changed or resized since the last EndFrame.
//
//	e := engine.New(graphic, engine.Config{AllowLayers: true})
//	scene := e.SceneGraph()
//	render(scene)
//	e.EndFrame()
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-drift/scenegraph/pkg/avg"
	"github.com/go-drift/scenegraph/pkg/graphics"
	"github.com/go-drift/scenegraph/pkg/sg"
)

// MediaLayerName is the name of the layer hosting the graphic output.
const MediaLayerName = "graphic"

// Engine is the root context of one graphic.
//
// Locking contract: mu is held for the whole of SceneGraph, SetProperty and
// EndFrame, and while debug handlers serialize the tree. Renderers must not
// hold on to the returned scene graph across EndFrame while the debug
// server runs.
type Engine struct {
	mu         sync.Mutex
	cfg        Config
	graphic    *avg.Graphic
	sceneGraph *sg.SceneGraph
	media      *sg.Layer
	frames     int

	frameTrace     *FrameTraceBuffer
	runtimeSamples *RuntimeSampleBuffer
	sampler        runtimeSampler
	debug          debugServer
}

// New returns an engine for g. Parameters in cfg are applied to g.
func New(g *avg.Graphic, cfg Config) *Engine {
	e := &Engine{
		cfg:        cfg,
		graphic:    g,
		sceneGraph: sg.NewSceneGraph(),
		frameTrace: NewFrameTraceBuffer(cfg.FrameSamples, cfg.SlowFrameThreshold),
	}
	for name, value := range cfg.Parameters {
		if !g.SetProperty(name, value) {
			sg.Logger().Warn("engine: parameter not applied", "name", name)
		}
	}
	return e
}

// Open loads the AVG document at path and returns an engine for it.
func Open(path string, cfg Config, opts ...avg.Option) (*Engine, error) {
	doc, err := avg.Load(path)
	if err != nil {
		return nil, err
	}
	opts = append(opts, avg.WithParameters(cfg.Parameters))
	g, err := avg.New(doc, opts...)
	if err != nil {
		return nil, fmt.Errorf("inflate %s: %w", path, err)
	}
	cfg.Parameters = nil
	return New(g, cfg), nil
}

// Graphic returns the graphic driven by the engine.
func (e *Engine) Graphic() *avg.Graphic {
	return e.graphic
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetProperty changes a graphic parameter. The change reaches the scene
// graph on the next call to SceneGraph.
func (e *Engine) SetProperty(name string, value any) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graphic.SetProperty(name, value)
}

// Dirty reports whether the next SceneGraph call has work to do.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sceneGraph.Layer() == nil || e.graphic.IsDirty()
}

// SceneGraph returns the scene graph, building it on first use and
// applying pending property changes afterwards. The caller consumes the
// updates and then calls EndFrame.
func (e *Engine) SceneGraph() *sg.SceneGraph {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	updates := e.sceneGraph.Updates()
	var sample FrameSample

	if e.sceneGraph.Layer() == nil {
		e.build(updates)
		sample.Flags.Rebuilt = true
		sample.Phases.BuildMs = durationToMillis(time.Since(start))
	} else {
		e.graphic.UpdateSceneGraph(updates)
		sample.Phases.UpdateMs = durationToMillis(time.Since(start))
	}

	resizeStart := time.Now()
	sample.Counts.Resized = len(updates.ResizeLayers())
	updates.ProcessResize()
	sample.Phases.ResizeMs = durationToMillis(time.Since(resizeStart))

	sample.Counts.Created = len(updates.CreatedLayers())
	sample.Counts.Changed = len(updates.ChangedLayers())
	sample.Counts.Modified = len(updates.ModifiedNodes())
	sample.Counts.LayerCount, sample.Counts.NodeCount = countSceneGraph(e.sceneGraph.Layer())
	sample.Flags.AllowLayers = e.cfg.AllowLayers

	e.frames++
	elapsed := time.Since(start)
	sample.Timestamp = start.UnixMilli()
	sample.Frame = e.frames
	sample.FrameMs = durationToMillis(elapsed)
	e.frameTrace.Add(sample, elapsed)

	return e.sceneGraph
}

// EndFrame clears the updates of the frame handed out by SceneGraph.
func (e *Engine) EndFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sceneGraph.Updates().Clear()
}

// Frames returns the number of frames produced so far.
func (e *Engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// FrameTrace returns the buffer of recent frame samples.
func (e *Engine) FrameTrace() *FrameTraceBuffer {
	return e.frameTrace
}

// build wraps the graphic in a media layer sized to the output, scaling
// the viewport coordinates up to it.
func (e *Engine) build(updates *sg.SceneGraphUpdates) {
	g := e.graphic
	bounds := graphics.RectFromLTWH(0, 0, g.Width(), g.Height())
	media := sg.NewLayer(MediaLayerName, bounds, 1, graphics.IdentityTransform())
	updates.Created(media)

	viewport := g.Viewport()
	scale := graphics.ScaleTransform(g.Width()/viewport.Width, g.Height()/viewport.Height)

	fragment := g.BuildSceneGraph(e.cfg.AllowLayers, updates)
	switch {
	case fragment.IsLayer():
		layer := fragment.Layer()
		offset := layer.ContentOffset()
		layer.SetTransform(graphics.TranslateTransform(-offset.X, -offset.Y).
			Mul(scale).
			Mul(graphics.TranslateTransform(offset.X, offset.Y)))
		media.AppendChild(layer)
	case fragment.IsNode():
		media.SetContent(sg.NewTransformNode(scale, fragment.Node()))
		fragment.AssignToLayer(media)
		g.SetTopLayer(media)
	}

	// Setters above flag the new layer; created layers start clean.
	media.ClearFlags()
	e.media = media
	e.sceneGraph.SetLayer(media)
}

// countSceneGraph returns the number of layers and nodes below layer.
func countSceneGraph(layer *sg.Layer) (layers, nodes int) {
	if layer == nil {
		return 0, 0
	}
	layers = 1
	nodes = countNodes(layer.Content())
	for _, child := range layer.Children() {
		l, n := countSceneGraph(child)
		layers += l
		nodes += n
	}
	return layers, nodes
}

func countNodes(node sg.Node) int {
	count := 0
	for ; node != nil; node = node.Next() {
		count += 1 + countNodes(node.Child())
	}
	return count
}
