package playback

import (
	"math/rand"
	"sync"
	"time"

	"chatsim/pkg/directory"
	"chatsim/pkg/logger"
)

// TypingSink receives the set of names currently typing. An empty slice
// means the indicator should be cleared.
type TypingSink func(names []string)

// TypingOptions tune the fallback behavior when Trigger is called without
// explicit names or duration.
type TypingOptions struct {
	MaxNames        int
	AutoPerName     time.Duration
	AutoDurationMin time.Duration
	AutoDurationMax time.Duration
}

// DefaultTypingOptions returns the stock tuning.
func DefaultTypingOptions() TypingOptions {
	return TypingOptions{
		MaxNames:        3,
		AutoPerName:     1200 * time.Millisecond,
		AutoDurationMin: 900 * time.Millisecond,
		AutoDurationMax: 4 * time.Second,
	}
}

// TypingSignal tracks which synthetic names are "currently typing" and
// auto-clears after the trigger duration. Re-triggering replaces the
// pending clear rather than stacking.
type TypingSignal struct {
	mu    sync.Mutex
	sink  TypingSink
	dir   *directory.Directory
	opts  TypingOptions
	names []string
	timer *time.Timer
	// gen invalidates auto-clear timers that already fired: Stop returns
	// false once the callback is running, so an expired timer from a
	// previous trigger would otherwise wipe the new one.
	gen uint64
}

// NewTypingSignal wires a signal to a sink. The directory may be nil; it is
// only used to sample fallback names. A nil sink is tolerated.
func NewTypingSignal(sink TypingSink, dir *directory.Directory, opts TypingOptions) *TypingSignal {
	if opts.MaxNames < 1 {
		opts.MaxNames = 1
	}
	if opts.AutoDurationMax < opts.AutoDurationMin {
		opts.AutoDurationMax = opts.AutoDurationMin
	}
	return &TypingSignal{sink: sink, dir: dir, opts: opts}
}

// Trigger marks the given names as typing for d. Empty names fall back to a
// random sample of directory members; zero duration is derived from the
// name count.
func (t *TypingSignal) Trigger(names []string, d time.Duration) {
	if len(names) == 0 {
		names = t.sampleNames()
	}
	if d <= 0 {
		d = time.Duration(len(names)) * t.opts.AutoPerName
		if d < t.opts.AutoDurationMin {
			d = t.opts.AutoDurationMin
		}
		if d > t.opts.AutoDurationMax {
			d = t.opts.AutoDurationMax
		}
	}

	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.names = names
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() { t.expire(gen) })
	t.mu.Unlock()

	t.notify(names)
}

// Clear force-clears the indicator immediately. Safe to call at any time.
func (t *TypingSignal) Clear() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	wasActive := t.names != nil
	t.names = nil
	t.mu.Unlock()

	if wasActive {
		t.notify(nil)
	}
}

// expire is the auto-clear path. It no-ops when a newer trigger or an
// explicit Clear has superseded the timer that scheduled it.
func (t *TypingSignal) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	wasActive := t.names != nil
	t.names = nil
	t.mu.Unlock()

	if wasActive {
		t.notify(nil)
	}
}

// IsActive reports whether any name is currently marked typing.
func (t *TypingSignal) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.names != nil
}

// ActiveNames returns a copy of the names currently typing.
func (t *TypingSignal) ActiveNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *TypingSignal) sampleNames() []string {
	if t.dir == nil || t.dir.Len() == 0 {
		return []string{"Someone"}
	}
	n := 1 + rand.Intn(t.opts.MaxNames)
	if n > t.dir.Len() {
		n = t.dir.Len()
	}
	out := make([]string, 0, n)
	for _, i := range rand.Perm(t.dir.Len())[:n] {
		out = append(out, t.dir.Person(i).DisplayName)
	}
	return out
}

// notify invokes the sink, swallowing panics so a misbehaving UI callback
// cannot take down the signal.
func (t *TypingSignal) notify(names []string) {
	if t.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("typing_sink_failed", "error", r)
		}
	}()
	if names == nil {
		names = []string{}
	}
	t.sink(names)
}
