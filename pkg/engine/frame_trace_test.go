package engine

import (
	"testing"
	"time"
)

func TestFrameTraceBuffer_Wraps(t *testing.T) {
	b := NewFrameTraceBuffer(3, 10*time.Millisecond)
	for i := 1; i <= 5; i++ {
		b.Add(FrameSample{Frame: i}, time.Duration(i)*4*time.Millisecond)
	}

	timeline := b.Snapshot()
	if len(timeline.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(timeline.Samples))
	}
	for i, want := range []int{3, 4, 5} {
		if timeline.Samples[i].Frame != want {
			t.Errorf("sample %d: expected frame %d, got %d", i, want, timeline.Samples[i].Frame)
		}
	}
	// 12ms, 16ms and 20ms exceed the threshold.
	if timeline.SlowFrames != 3 {
		t.Errorf("expected 3 slow frames, got %d", timeline.SlowFrames)
	}
	if timeline.ThresholdMs != 10 {
		t.Errorf("expected threshold 10ms, got %v", timeline.ThresholdMs)
	}
}

func TestFrameTraceBuffer_Defaults(t *testing.T) {
	b := NewFrameTraceBuffer(0, 0)
	if b.Capacity() != frameTraceSamplesDefault {
		t.Errorf("expected capacity %d, got %d", frameTraceSamplesDefault, b.Capacity())
	}
	if b.Threshold() != defaultFrameTraceThreshold {
		t.Errorf("expected threshold %v, got %v", defaultFrameTraceThreshold, b.Threshold())
	}
	if timeline := b.Snapshot(); timeline.Samples != nil {
		t.Errorf("expected no samples, got %d", len(timeline.Samples))
	}
}

func TestRuntimeSampleBuffer(t *testing.T) {
	b := NewRuntimeSampleBuffer(2)
	if b.Snapshot() != nil {
		t.Error("expected an empty snapshot")
	}
	for i := int64(1); i <= 3; i++ {
		b.Add(RuntimeSample{Timestamp: i})
	}
	samples := b.Snapshot()
	if len(samples) != 2 || samples[0].Timestamp != 2 || samples[1].Timestamp != 3 {
		t.Errorf("expected the two latest samples, got %+v", samples)
	}

	if got := normalizeRuntimeInterval(0); got != runtimeSampleIntervalDefault {
		t.Errorf("expected the default interval, got %v", got)
	}
	if got := normalizeRuntimeInterval(time.Millisecond); got != runtimeSampleMinInterval {
		t.Errorf("expected the minimum interval, got %v", got)
	}
}
