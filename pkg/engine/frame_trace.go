package engine

import (
	"sync"
	"time"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each phase of a frame (ms).
type FramePhaseTimings struct {
	BuildMs  float64 `json:"buildMs"`
	UpdateMs float64 `json:"updateMs"`
	ResizeMs float64 `json:"resizeMs"`
}

// FrameCounts captures what a frame reported to the renderer.
type FrameCounts struct {
	Created    int `json:"created"`
	Changed    int `json:"changed"`
	Resized    int `json:"resized"`
	Modified   int `json:"modified"`
	LayerCount int `json:"layerCount"`
	NodeCount  int `json:"nodeCount"`
}

// FrameFlags captures contextual flags for a frame.
type FrameFlags struct {
	Rebuilt     bool `json:"rebuilt,omitempty"`
	AllowLayers bool `json:"allowLayers"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Timestamp int64             `json:"ts"`
	Frame     int               `json:"frame"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
	Flags     FrameFlags        `json:"flags"`
}

// FrameTimeline is the /frames response shape.
type FrameTimeline struct {
	Samples     []FrameSample `json:"samples"`
	SlowFrames  int           `json:"slowFrames"`
	ThresholdMs float64       `json:"thresholdMs"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   []FrameSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer. Non-positive
// arguments select the defaults.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   make([]FrameSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Threshold returns the slow frame threshold.
func (b *FrameTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a frame sample and counts it as slow when frameDuration
// exceeds the threshold.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if frameDuration > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return FrameTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]FrameSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return FrameTimeline{
		Samples:     result,
		SlowFrames:  b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
