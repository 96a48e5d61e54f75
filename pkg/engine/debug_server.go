package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/go-drift/scenegraph/pkg/errors"
	"github.com/go-drift/scenegraph/pkg/sg"
)

const runtimeSampleCapacity = 60

// debugServer manages the HTTP server for scene graph inspection.
type debugServer struct {
	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// StartDebugServer starts the HTTP debug server on addr and returns the
// bound address (useful with port 0). Calling it while the server runs
// returns the current address.
func (e *Engine) StartDebugServer(addr string) (string, error) {
	e.debug.mu.Lock()
	defer e.debug.mu.Unlock()

	if e.debug.server != nil {
		return e.debug.listener.Addr().String(), nil
	}

	// Bind listener first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}

	if e.runtimeSamples == nil {
		e.runtimeSamples = NewRuntimeSampleBuffer(runtimeSampleCapacity)
	}
	e.sampler.start(e.runtimeSamples, e.cfg.RuntimeSampleInterval)

	server := &http.Server{Handler: e.Handler()}
	e.debug.server = server
	e.debug.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			// Server failed - clear state so it can be restarted
			e.debug.mu.Lock()
			e.debug.server = nil
			e.debug.listener = nil
			e.debug.mu.Unlock()
			sg.Logger().Error("engine: debug server failed", "err", err)
		}
	}()

	return listener.Addr().String(), nil
}

// StopDebugServer gracefully shuts down the debug server.
func (e *Engine) StopDebugServer() {
	e.debug.mu.Lock()
	server := e.debug.server
	e.debug.server = nil
	e.debug.listener = nil
	e.debug.mu.Unlock()

	e.sampler.halt()
	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// Handler returns the debug endpoints:
//
//	GET  /health      liveness probe
//	GET  /scenegraph  the last scene graph as JSON
//	GET  /dump        the layer tree as indented text
//	GET  /parameters  current parameter values
//	POST /parameters  set parameters from a JSON object
//	GET  /frames      recent frame samples (limit, min_ms, build_ms, update_ms, resize_ms, rebuilt)
//	GET  /runtime     recent memory samples (limit)
//	GET  /debug       engine state summary
func (e *Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/scenegraph", e.handleSceneGraph)
	mux.HandleFunc("/dump", e.handleDump)
	mux.HandleFunc("/parameters", e.handleParameters)
	mux.HandleFunc("/frames", e.handleFrameTimeline)
	mux.HandleFunc("/runtime", e.handleRuntime)
	mux.HandleFunc("/debug", e.handleDebug)
	return mux
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// panicResponse answers with a 500 once a recovered panic was reported.
func panicResponse(w http.ResponseWriter) func(any) {
	return func(rec any) {
		http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
	}
}

// serialize runs fn under the engine lock. It reports false when nothing
// was built yet.
func (e *Engine) serialize(fn func(layer *sg.Layer)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	layer := e.sceneGraph.Layer()
	if layer == nil {
		return false
	}
	fn(layer)
	return true
}

// handleSceneGraph returns the last scene graph as JSON. It never builds
// or updates the graph: the updates shown are those of the current frame.
func (e *Engine) handleSceneGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer errors.RecoverWithCallback("engine.debug.scenegraph", panicResponse(w))

	var tree map[string]any
	if !e.serialize(func(*sg.Layer) { tree = e.sceneGraph.Serialize() }) {
		http.Error(w, "no scene graph", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, tree)
}

// handleDump returns the layer tree in the indented debug format.
func (e *Engine) handleDump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer errors.RecoverWithCallback("engine.debug.dump", panicResponse(w))

	var dump string
	if !e.serialize(func(layer *sg.Layer) { dump = layer.DumpTree() }) {
		http.Error(w, "no scene graph", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(dump))
}

// handleParameters reports parameter values on GET and applies a JSON
// object of name/value pairs on POST. Applied changes show up in the next
// frame.
func (e *Engine) handleParameters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		e.mu.Lock()
		values := make(map[string]any)
		for _, name := range e.graphic.ParameterNames() {
			values[name], _ = e.graphic.Parameter(name)
		}
		e.mu.Unlock()
		writeJSON(w, values)

	case http.MethodPost:
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}
		resp := struct {
			Applied  []string `json:"applied"`
			Rejected []string `json:"rejected"`
		}{Applied: []string{}, Rejected: []string{}}
		for _, name := range slices.Sorted(maps.Keys(body)) {
			if e.SetProperty(name, body[name]) {
				resp.Applied = append(resp.Applied, name)
			} else {
				resp.Rejected = append(resp.Rejected, name)
			}
		}
		writeJSON(w, resp)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleFrameTimeline returns recent frame timing samples as JSON.
func (e *Engine) handleFrameTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := e.frameTrace.Snapshot()
	applyFrameFilters(r, &resp)
	writeJSON(w, resp)
}

// handleRuntime returns recent runtime/GC samples as JSON.
func (e *Engine) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	e.debug.mu.Lock()
	buffer := e.runtimeSamples
	e.debug.mu.Unlock()
	if buffer == nil {
		http.Error(w, "runtime sampling disabled", http.StatusServiceUnavailable)
		return
	}

	samples := buffer.Snapshot()
	if limit := parseLimit(r); limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}

	writeJSON(w, struct {
		Samples []RuntimeSample `json:"samples"`
	}{Samples: samples})
}

// handleDebug returns a summary of the engine state.
func (e *Engine) handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	e.mu.Lock()
	var info struct {
		HasSceneGraph bool     `json:"hasSceneGraph"`
		AllowLayers   bool     `json:"allowLayers"`
		Frames        int      `json:"frames"`
		Size          string   `json:"size"`
		Viewport      string   `json:"viewport"`
		Elements      []string `json:"elements"`
		PendingUpdate bool     `json:"pendingUpdate"`
		Layers        int      `json:"layers"`
		Nodes         int      `json:"nodes"`
	}
	g := e.graphic
	info.HasSceneGraph = e.sceneGraph.Layer() != nil
	info.AllowLayers = e.cfg.AllowLayers
	info.Frames = e.frames
	info.Size = fmt.Sprintf("%gx%g", g.Width(), g.Height())
	viewport := g.Viewport()
	info.Viewport = fmt.Sprintf("%gx%g", viewport.Width, viewport.Height)
	info.Elements = g.ElementIDs()
	info.PendingUpdate = g.IsDirty()
	info.Layers, info.Nodes = countSceneGraph(e.sceneGraph.Layer())
	e.mu.Unlock()

	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	var filters []func(FrameSample) bool

	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.FrameMs >= v })
	}
	if v := parseFloatQuery(r, "build_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.Phases.BuildMs >= v })
	}
	if v := parseFloatQuery(r, "update_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.Phases.UpdateMs >= v })
	}
	if v := parseFloatQuery(r, "resize_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.Phases.ResizeMs >= v })
	}
	if value := r.URL.Query().Get("rebuilt"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil && parsed {
			filters = append(filters, func(s FrameSample) bool { return s.Flags.Rebuilt })
		}
	}

	if len(filters) > 0 {
		filtered := make([]FrameSample, 0, len(resp.Samples))
	outer:
		for _, sample := range resp.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		resp.Samples = filtered
	}

	if limit := parseLimit(r); limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func parseLimit(r *http.Request) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
