package engine

import (
	"runtime"
	"sync"
	"time"
)

const (
	runtimeSampleIntervalDefault = 5 * time.Second
	runtimeSampleMinInterval     = 100 * time.Millisecond
	runtimeSampleMaxSamples      = 120
)

// RuntimeSample captures a snapshot of runtime memory/GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	Goroutines   int    `json:"goroutines"`
}

// RuntimeSampleBuffer stores recent runtime samples in a ring buffer.
type RuntimeSampleBuffer struct {
	mu      sync.RWMutex
	samples []RuntimeSample
	index   int
	count   int
}

// NewRuntimeSampleBuffer creates a buffer holding up to capacity samples.
func NewRuntimeSampleBuffer(capacity int) *RuntimeSampleBuffer {
	capacity = min(max(capacity, 1), runtimeSampleMaxSamples)
	return &RuntimeSampleBuffer{samples: make([]RuntimeSample, capacity)}
}

// Add stores a runtime sample.
func (b *RuntimeSampleBuffer) Add(sample RuntimeSample) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	b.mu.Unlock()
}

// Snapshot returns samples in chronological order.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	result := make([]RuntimeSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}
	return result
}

func normalizeRuntimeInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return runtimeSampleIntervalDefault
	}
	return max(interval, runtimeSampleMinInterval)
}

func readRuntimeSample() RuntimeSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// runtimeSampler feeds a RuntimeSampleBuffer from a ticker goroutine.
type runtimeSampler struct {
	mu   sync.Mutex
	stop chan struct{}
}

func (s *runtimeSampler) start(buffer *RuntimeSampleBuffer, interval time.Duration) {
	interval = normalizeRuntimeInterval(interval)

	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
	}
	stopCh := make(chan struct{})
	s.stop = stopCh
	s.mu.Unlock()

	buffer.Add(readRuntimeSample())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				buffer.Add(readRuntimeSample())
			case <-stopCh:
				return
			}
		}
	}()
}

func (s *runtimeSampler) halt() {
	s.mu.Lock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
}
