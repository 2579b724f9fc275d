package playback

import (
	"sync"
	"testing"
	"time"
)

// sinkRecorder collects typing sink invocations.
type sinkRecorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *sinkRecorder) sink(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]string, len(names))
	copy(cp, names)
	r.calls = append(r.calls, cp)
}

func (r *sinkRecorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func TestTriggerAndAutoClear(t *testing.T) {
	rec := &sinkRecorder{}
	sig := NewTypingSignal(rec.sink, nil, DefaultTypingOptions())

	sig.Trigger([]string{"Lena"}, 50*time.Millisecond)
	if !sig.IsActive() {
		t.Fatalf("signal inactive right after trigger")
	}
	if got := rec.last(); len(got) != 1 || got[0] != "Lena" {
		t.Fatalf("sink saw %v, want [Lena]", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for sig.IsActive() {
		if time.Now().After(deadline) {
			t.Fatalf("signal never auto-cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := rec.last(); len(got) != 0 {
		t.Fatalf("clear did not reach sink, last call %v", got)
	}
}

// Re-triggering replaces the pending auto-clear rather than stacking: the
// clear fires relative to the second trigger, not the first.
func TestRetriggerReplacesPendingClear(t *testing.T) {
	sig := NewTypingSignal(nil, nil, DefaultTypingOptions())
	sig.Trigger([]string{"Omar"}, 40*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	sig.Trigger([]string{"Omar"}, 400*time.Millisecond)
	time.Sleep(50 * time.Millisecond) // past first trigger's deadline
	if !sig.IsActive() {
		t.Fatalf("second trigger's window was cut short by the first clear")
	}
	sig.Clear()
}

// A timer whose callback is already running when the re-trigger lands must
// not clear the new window. Looping across the expiry boundary makes the
// race land on some iteration regardless of scheduler timing.
func TestRetriggerAtClearBoundary(t *testing.T) {
	sig := NewTypingSignal(nil, nil, DefaultTypingOptions())
	for i := 0; i < 50; i++ {
		sig.Trigger([]string{"Ada"}, 2*time.Millisecond)
		time.Sleep(2 * time.Millisecond)
		sig.Trigger([]string{"Omar"}, 10*time.Second)
		time.Sleep(20 * time.Millisecond)
		if !sig.IsActive() {
			t.Fatalf("iteration %d: expired timer cleared the new window", i)
		}
		sig.Clear()
	}
}

func TestClearIsImmediateAndIdempotent(t *testing.T) {
	sig := NewTypingSignal(nil, nil, DefaultTypingOptions())
	sig.Trigger([]string{"Priya"}, time.Minute)
	sig.Clear()
	if sig.IsActive() {
		t.Fatalf("signal active after Clear")
	}
	sig.Clear() // no-op
}

func TestFallbackPlaceholderWithoutDirectory(t *testing.T) {
	sig := NewTypingSignal(nil, nil, DefaultTypingOptions())
	sig.Trigger(nil, time.Minute)
	defer sig.Clear()
	names := sig.ActiveNames()
	if len(names) != 1 || names[0] != "Someone" {
		t.Fatalf("fallback names = %v, want [Someone]", names)
	}
}

func TestSinkPanicIsContained(t *testing.T) {
	sig := NewTypingSignal(func([]string) { panic("ui broke") }, nil, DefaultTypingOptions())
	sig.Trigger([]string{"Felix"}, 10*time.Millisecond)
	if !sig.IsActive() {
		t.Fatalf("panic in sink corrupted signal state")
	}
	sig.Clear()
}
