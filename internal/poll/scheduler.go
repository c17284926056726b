package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultFocusInterval = 10 * time.Second
	defaultBlurInterval  = 60 * time.Second
)

// State is the scheduler lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePolling
	StatePaused
	StateStopped
	// StateHalted means a terminal snapshot was seen; nothing is scheduled
	// until the next Start.
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePolling:
		return "polling"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateHalted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FetchFunc fetches one fresh snapshot.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Sink receives the outcome of each cycle. state.Store implements it.
type Sink[T any] interface {
	Publish(session uint64, v T) bool
	Fail(err error)
}

// Options configure a Scheduler.
type Options[T any] struct {
	Name          string
	FocusInterval time.Duration // delay between cycles while the console has focus
	BlurInterval  time.Duration // delay between cycles in the background
	// Terminal, when set, halts polling after a snapshot for which it
	// returns true.
	Terminal func(T) bool
	Logger   *zap.Logger
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Session   uint64
	Published uint64
	Discarded uint64
	Failures  uint64
}

// Scheduler drives repeated fetch → publish cycles.
//
// Every cycle takes a new session number. A response is published only if
// its session is still the newest when it arrives; anything else was
// superseded by a later cycle or by Stop and is dropped. The pending timer
// is a Task tagged with a token, and a fired timer starts its cycle only if
// the token is still current, so once Pause or Stop returns no queued cycle
// can begin.
type Scheduler[T any] struct {
	fetch  FetchFunc[T]
	sink   Sink[T]
	opts   Options[T]
	logger *zap.Logger

	mu         sync.Mutex
	ctx        context.Context
	state      State
	loaded     bool
	focused    bool
	session    uint64
	timer      *Task
	timerToken uint64
	stats      Stats
}

// New returns an idle scheduler.
func New[T any](fetch FetchFunc[T], sink Sink[T], opts Options[T]) *Scheduler[T] {
	if opts.FocusInterval <= 0 {
		opts.FocusInterval = defaultFocusInterval
	}
	if opts.BlurInterval <= 0 {
		opts.BlurInterval = defaultBlurInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Name != "" {
		logger = logger.Named(opts.Name)
	}
	return &Scheduler[T]{
		fetch:   fetch,
		sink:    sink,
		opts:    opts,
		logger:  logger,
		ctx:     context.Background(),
		focused: true,
	}
}

// Start begins polling. When already polling with data it does nothing; when
// paused it resumes and fetches right away in the background. Otherwise it
// runs the first cycle before returning, and if nothing has loaded since
// construction or the last Stop(true), that cycle's error is returned.
// ctx bounds every fetch made until the next Start.
func (s *Scheduler[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded && s.state == StatePolling {
		s.mu.Unlock()
		return nil
	}
	s.ctx = ctx
	s.cancelTimerLocked()
	if s.loaded && s.state == StatePaused {
		s.state = StatePolling
		run := s.beginLocked()
		s.mu.Unlock()
		go func() { _ = run() }()
		return nil
	}
	if s.loaded {
		s.state = StatePolling
	} else {
		s.state = StateLoading
	}
	run := s.beginLocked()
	s.mu.Unlock()
	return run()
}

// StartAfter waits d and then calls Start. Cancelling the returned task
// during the wait makes Wait return an error satisfying IsAborted.
func (s *Scheduler[T]) StartAfter(ctx context.Context, d time.Duration) *Task {
	return Go(ctx, func(waitCtx context.Context) error {
		if err := Delay(waitCtx, d); err != nil {
			return err
		}
		return s.Start(ctx)
	})
}

// Pause cancels the pending cycle and keeps the session, so Start resumes.
func (s *Scheduler[T]) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	if s.state == StatePolling || s.state == StateLoading {
		s.state = StatePaused
	}
}

// Stop cancels the pending cycle and invalidates any fetch in flight; its
// result is discarded when it arrives. With reset the next Start loads from
// scratch and reports its error again.
func (s *Scheduler[T]) Stop(reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.session++
	s.state = StateStopped
	if reset {
		s.loaded = false
	}
}

// Refresh fetches now instead of waiting for the pending cycle. It does
// nothing unless the scheduler is polling.
func (s *Scheduler[T]) Refresh() {
	s.mu.Lock()
	if s.state != StatePolling {
		s.mu.Unlock()
		return
	}
	s.cancelTimerLocked()
	run := s.beginLocked()
	s.mu.Unlock()
	go func() { _ = run() }()
}

// SetFocused selects the short (focused) or long interval. The change
// applies from the next scheduled cycle.
func (s *Scheduler[T]) SetFocused(focused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = focused
}

// State returns the current lifecycle state.
func (s *Scheduler[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a copy of the counters.
func (s *Scheduler[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.Session = s.session
	return stats
}

// beginLocked claims a new session and returns the function that performs
// the fetch and settles the cycle.
func (s *Scheduler[T]) beginLocked() func() error {
	s.session++
	session := s.session
	initial := !s.loaded
	ctx := s.ctx
	return func() error {
		v, err := s.fetch(ctx)
		return s.finish(ctx, session, initial, v, err)
	}
}

func (s *Scheduler[T]) finish(ctx context.Context, session uint64, initial bool, v T, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session != s.session {
		s.stats.Discarded++
		s.logger.Debug("discarding superseded snapshot",
			zap.Uint64("session", session),
			zap.Uint64("current", s.session))
		return nil
	}

	if err != nil {
		s.stats.Failures++
		s.sink.Fail(err)
		if initial {
			s.state = StateStopped
			return fmt.Errorf("initial %s fetch: %w", s.name(), err)
		}
		if ctx.Err() != nil {
			s.state = StateStopped
			return nil
		}
		s.logger.Warn("poll failed", zap.Uint64("session", session), zap.Error(err))
		s.scheduleLocked()
		return nil
	}

	if s.sink.Publish(session, v) {
		s.stats.Published++
	} else {
		s.stats.Discarded++
	}
	s.loaded = true
	if s.state == StateLoading {
		s.state = StatePolling
	}
	if s.opts.Terminal != nil && s.opts.Terminal(v) {
		s.cancelTimerLocked()
		s.state = StateHalted
		s.logger.Info("terminal snapshot, polling halted", zap.Uint64("session", session))
		return nil
	}
	s.scheduleLocked()
	return nil
}

func (s *Scheduler[T]) scheduleLocked() {
	if s.state != StatePolling {
		return
	}
	s.cancelTimerLocked()
	token := s.timerToken
	interval := s.opts.BlurInterval
	if s.focused {
		interval = s.opts.FocusInterval
	}
	ctx := s.ctx
	s.timer = Go(ctx, func(waitCtx context.Context) error {
		if err := Delay(waitCtx, interval); err != nil {
			if ctx.Err() != nil {
				s.stopForContext(token)
			}
			return err
		}
		s.mu.Lock()
		if token != s.timerToken || s.state != StatePolling {
			s.mu.Unlock()
			return ErrAborted
		}
		s.timer = nil
		run := s.beginLocked()
		s.mu.Unlock()
		return run()
	})
}

// stopForContext marks the scheduler stopped after the Start context ended
// a pending wait, so the next Start polls again. A newer timer or state
// change since the wait began wins.
func (s *Scheduler[T]) stopForContext(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.timerToken || s.state != StatePolling {
		return
	}
	s.timer = nil
	s.state = StateStopped
	s.logger.Debug("context done, polling stopped")
}

// cancelTimerLocked cancels the pending cycle and retires its token, so a
// timer that already fired and is waiting for the lock gives up.
func (s *Scheduler[T]) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
	s.timerToken++
}

func (s *Scheduler[T]) name() string {
	if s.opts.Name == "" {
		return "snapshot"
	}
	return s.opts.Name
}
