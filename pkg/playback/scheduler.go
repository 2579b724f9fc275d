// Package playback replays the synthetic message pool over time: a
// scheduler pulls messages through the windowed pool at a configured rate
// with jitter, optionally preceding each emission with a simulated typing
// indicator.
package playback

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"chatsim/pkg/logger"
	"chatsim/pkg/models"
	"chatsim/pkg/pool"
	"chatsim/pkg/seedrand"
)

// RenderSink receives each emitted message. live distinguishes playback
// emissions from bulk backfill renders.
type RenderSink func(msg models.Message, live bool)

// Strategy is resolved once at Start and never re-probed.
type Strategy int

const (
	// StrategyManualPaged walks pages one message at a time with full
	// jitter and typing simulation.
	StrategyManualPaged Strategy = iota
	// StrategyBulkStream delegates pacing to the pool's stream primitive.
	// Best-effort fast path: ordering holds, jitter distribution does not
	// match manual mode.
	StrategyBulkStream
)

// minLoopDelay floors the inter-emission delay regardless of rate/jitter.
const minLoopDelay = 20 * time.Millisecond

// renderJitter is the symmetric slop applied after a typing delay before
// the render fires.
const renderJitter = 90 * time.Millisecond

// opportunisticTypingFraction is the chance per stream emission of firing a
// liveliness typing signal in bulk mode.
const opportunisticTypingFraction = 0.02

// ErrNoPool is returned by Start when no pool view was supplied.
var ErrNoPool = errors.New("playback: no pool view")

// Options configure a scheduler run. Out-of-range values are clamped, never
// rejected; the demo must stay resilient to sloppy configuration.
type Options struct {
	UseStreamAPI             bool
	SimulateTypingBeforeSend bool
	RatePerMin               float64
	JitterFraction           float64
	TypingMin                time.Duration
	TypingMax                time.Duration
	TypingPerChar            time.Duration
	SimulateTypingFraction   float64
	// SeedBase, when non-nil, makes every jitter and typing decision
	// reproducible. Nil means non-deterministic playback.
	SeedBase *uint32
}

// DefaultOptions returns the stock playback tuning.
func DefaultOptions() Options {
	return Options{
		SimulateTypingBeforeSend: true,
		RatePerMin:               20,
		JitterFraction:           0.35,
		TypingMin:                800 * time.Millisecond,
		TypingMax:                3500 * time.Millisecond,
		TypingPerChar:            45 * time.Millisecond,
		SimulateTypingFraction:   0.4,
	}
}

func (o Options) clamped() Options {
	if o.RatePerMin < 1 {
		o.RatePerMin = 1
	}
	if o.JitterFraction < 0 {
		o.JitterFraction = 0
	}
	if o.JitterFraction > 1 {
		o.JitterFraction = 1
	}
	if o.SimulateTypingFraction < 0 {
		o.SimulateTypingFraction = 0
	}
	if o.SimulateTypingFraction > 1 {
		o.SimulateTypingFraction = 1
	}
	if o.TypingMin < 0 {
		o.TypingMin = 0
	}
	if o.TypingMax < o.TypingMin {
		o.TypingMax = o.TypingMin
	}
	if o.TypingPerChar <= 0 {
		o.TypingPerChar = 45 * time.Millisecond
	}
	return o
}

// floatSource is the draw interface shared by the seeded and unseeded
// decision streams.
type floatSource interface {
	Float64() float64
}

// Scheduler owns one playback run at a time: Idle -> Running -> Idle. The
// cursor survives Stop, so a later Start resumes instead of restarting.
type Scheduler struct {
	mu      sync.Mutex
	opts    Options
	view    *pool.WindowedPool
	render  RenderSink
	typing  *TypingSignal
	rnd     floatSource
	cursor  int
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	pending *time.Timer
}

// New builds a scheduler over the given pool view. typing may be nil to
// disable indicator signaling entirely.
func New(view *pool.WindowedPool, render RenderSink, typing *TypingSignal, opts Options) *Scheduler {
	opts = opts.clamped()
	s := &Scheduler{opts: opts, view: view, render: render, typing: typing}
	if opts.SeedBase != nil {
		s.rnd = seedrand.New(*opts.SeedBase)
	} else {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// BaseInterval returns the nominal inter-emission delay for the configured
// rate.
func (s *Scheduler) BaseInterval() time.Duration {
	return time.Duration(math.Round(60000/s.opts.RatePerMin)) * time.Millisecond
}

// Strategy reports which emission path the scheduler will take at Start.
func (s *Scheduler) Strategy() Strategy {
	if s.opts.UseStreamAPI && !s.opts.SimulateTypingBeforeSend {
		return StrategyBulkStream
	}
	return StrategyManualPaged
}

// Cursor returns the absolute index of the next message to emit.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Running reports whether a run is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins (or resumes) playback. A Start while running fully stops the
// previous run first. Starting without a pool view keeps the scheduler Idle
// and returns ErrNoPool.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.view == nil {
		logger.Warn("playback_start_no_pool")
		return ErrNoPool
	}
	s.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.running = true
	s.cancel = cancel
	s.done = done
	strategy := s.Strategy()
	s.mu.Unlock()

	logger.Info("playback_started",
		"strategy", int(strategy),
		"rate_per_min", s.opts.RatePerMin,
		"cursor", s.cursor)

	go func() {
		defer close(done)
		defer s.markIdle()
		if strategy == StrategyBulkStream {
			s.runStream(runCtx)
			return
		}
		s.runManual(runCtx)
	}()
	return nil
}

// Stop is idempotent: it cancels any pending timer and stream handle, waits
// for the run goroutine to exit, and leaves the cursor intact.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) markIdle() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	logger.Info("playback_idle", "cursor", s.Cursor())
}

// runManual is the paged loop: fetch, optionally simulate typing, render,
// sleep out the jittered interval.
func (s *Scheduler) runManual(ctx context.Context) {
	base := s.BaseInterval()
	for {
		if ctx.Err() != nil {
			return
		}
		msg, ok := s.advance()
		if !ok {
			logger.Info("playback_pool_exhausted", "cursor", s.Cursor())
			return
		}
		s.emit(ctx, msg)

		delay := base + s.symmetricJitter(time.Duration(float64(base)*s.opts.JitterFraction))
		if delay < minLoopDelay {
			delay = minLoopDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

// runStream delegates pacing to the pool's bulk stream, only tracking the
// cursor and occasionally firing a liveliness typing signal.
func (s *Scheduler) runStream(ctx context.Context) {
	start := s.Cursor()
	err := s.view.Stream(ctx, pool.StreamOptions{
		StartIndex: start,
		RatePerMin: s.opts.RatePerMin,
	}, func(index int, msg models.Message) {
		s.mu.Lock()
		s.cursor = index + 1
		typingDraw := s.rnd.Float64()
		s.mu.Unlock()
		if s.typing != nil && typingDraw < opportunisticTypingFraction {
			s.typing.Trigger([]string{msg.Sender.DisplayName}, 0)
		}
		s.safeRender(msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("playback_stream_error", "error", err)
	}
}

// advance fetches the message at the cursor and moves it forward. A nil
// result means exhaustion: the pool maps wrap-around itself, so a bounded
// pool with wrap enabled never exhausts.
func (s *Scheduler) advance() (models.Message, bool) {
	s.mu.Lock()
	cursor := s.cursor
	s.mu.Unlock()

	m := s.view.Get(cursor)
	if m == nil {
		return models.Message{}, false
	}

	s.mu.Lock()
	s.cursor = cursor + 1
	s.mu.Unlock()
	return *m, true
}

// emit applies the typing-or-immediate decision and renders. The typing
// delay suspends the loop, so typing-extended gaps fall outside the normal
// jitter envelope by design.
func (s *Scheduler) emit(ctx context.Context, msg models.Message) {
	if s.shouldSimulateTyping() {
		d := s.typingDuration(msg.Text)
		if s.typing != nil {
			s.typing.Trigger([]string{msg.Sender.DisplayName}, d)
		}
		wait := d + s.symmetricJitter(renderJitter)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
		if s.typing != nil {
			s.typing.Clear()
		}
	}
	s.safeRender(msg)
}

func (s *Scheduler) shouldSimulateTyping() bool {
	if !s.opts.SimulateTypingBeforeSend {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64() < s.opts.SimulateTypingFraction
}

// typingDuration derives the simulated composition time from message
// length, clamped to the configured window.
func (s *Scheduler) typingDuration(text string) time.Duration {
	d := time.Duration(len(text)) * s.opts.TypingPerChar
	if d < s.opts.TypingMin {
		d = s.opts.TypingMin
	}
	if d > s.opts.TypingMax {
		d = s.opts.TypingMax
	}
	return d
}

func (s *Scheduler) symmetricJitter(mag time.Duration) time.Duration {
	if mag <= 0 {
		return 0
	}
	s.mu.Lock()
	f := s.rnd.Float64()
	s.mu.Unlock()
	return time.Duration((f*2 - 1) * float64(mag))
}

// TriggerOnce emits exactly one message outside the timer loop, applying
// the same typing-or-immediate logic. The typing-delayed render is
// scheduled on a timer that Stop cancels.
func (s *Scheduler) TriggerOnce() bool {
	if s.view == nil {
		logger.Warn("playback_trigger_no_pool")
		return false
	}
	msg, ok := s.advance()
	if !ok {
		return false
	}
	if !s.shouldSimulateTyping() {
		s.safeRender(msg)
		return true
	}
	d := s.typingDuration(msg.Text)
	if s.typing != nil {
		s.typing.Trigger([]string{msg.Sender.DisplayName}, d)
	}
	wait := d + s.symmetricJitter(renderJitter)
	if wait < 0 {
		wait = 0
	}
	s.mu.Lock()
	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = time.AfterFunc(wait, func() {
		if s.typing != nil {
			s.typing.Clear()
		}
		s.safeRender(msg)
	})
	s.mu.Unlock()
	return true
}

// safeRender hands the message to the sink, recovering panics so one bad
// render cannot halt playback.
func (s *Scheduler) safeRender(msg models.Message) {
	if s.render == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("render_failed", "id", msg.ID, "error", r)
		}
	}()
	s.render(msg, true)
	emittedTotal.Inc()
}
