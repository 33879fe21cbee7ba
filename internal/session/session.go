// Package session orchestrates one scan: it owns the cancellation handle,
// runs the walk on a background goroutine, and exposes a pull-based Poll for
// progress and results. The engine never calls into the presentation layer;
// consumers poll at whatever cadence suits them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/devpatel/spacelens/internal/aggregate"
	"github.com/devpatel/spacelens/internal/classify"
	"github.com/devpatel/spacelens/internal/walker"
)

// ErrAlreadyRunning is returned by Start when the session left Idle.
var ErrAlreadyRunning = errors.New("scan already running")

// State is the lifecycle phase of a session.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCancelling
	StateCompleted
	StateCancelled
	StateFailed
)

// String returns the phase name used in reports and logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has stopped for good.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Status is one Poll observation. Result is the latest published snapshot:
// partial while running, final once Completed or Cancelled, nil when Failed
// (no meaningful aggregation happened).
type Status struct {
	State    State
	Result   *aggregate.Result
	Visited  int64
	Warnings []string
	Err      error
}

// Session runs at most one scan over its root. Sessions are independent
// values: any number may run concurrently against different roots.
type Session struct {
	root string
	topN int

	state  atomic.Int32
	agg    *aggregate.Aggregator
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	warnings []string
	failure  error
}

// Option configures a session at construction.
type Option func(*Session)

// WithTopN sets how many largest files the session tracks.
func WithTopN(n int) Option {
	return func(s *Session) { s.topN = n }
}

// New creates an idle session for root.
func New(root string, opts ...Option) *Session {
	s := &Session{
		root: root,
		topN: aggregate.DefaultTopN,
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.agg = aggregate.New(s.topN)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Root returns the path this session scans.
func (s *Session) Root() string {
	return s.root
}

// Start transitions Idle to Running and launches the walk in the background.
// A session is single-shot: Start fails with ErrAlreadyRunning once the
// session has left Idle, including after completion.
func (s *Session) Start() error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	go s.run()
	return nil
}

// Cancel requests cooperative cancellation. It is idempotent and returns
// immediately; the walk observes the signal at its next directory boundary.
// Use Done to wait for the session to actually stop.
func (s *Session) Cancel() {
	if s.state.CompareAndSwap(int32(StateRunning), int32(StateCancelling)) {
		s.cancel()
	}
}

// Done is closed when the background walk has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session reaches a terminal state and returns the
// final status.
func (s *Session) Wait() Status {
	<-s.done
	return s.Poll()
}

// Poll returns a consistent observation of the session. Safe to call from
// any goroutine at any time; concurrent polls while the scan runs read the
// aggregator's atomically published snapshot, never a torn update.
func (s *Session) Poll() Status {
	st := State(s.state.Load())

	s.mu.Lock()
	warnings := make([]string, len(s.warnings))
	copy(warnings, s.warnings)
	failure := s.failure
	s.mu.Unlock()

	status := Status{
		State:    st,
		Visited:  s.agg.Visited(),
		Warnings: warnings,
		Err:      failure,
	}
	if st != StateFailed {
		status.Result = s.agg.Snapshot()
	}
	return status
}

// run executes the walk and drives the terminal state transition.
func (s *Session) run() {
	defer close(s.done)

	cls, err := classify.ForRoot(s.root)
	if err != nil {
		s.fail(fmt.Errorf("%w: %v", walker.ErrRootUnreadable, err))
		return
	}

	w := walker.New(cls)
	w.OnWarning(s.addWarning)

	err = w.Walk(s.ctx, s.root, s.agg.Add)
	s.agg.Flush()

	switch {
	case err == nil:
		// If Cancel won the race after the last directory, the scan still
		// reports Cancelled: a cancelled scan never completes.
		if !s.state.CompareAndSwap(int32(StateRunning), int32(StateCompleted)) {
			s.state.CompareAndSwap(int32(StateCancelling), int32(StateCancelled))
		}
	case errors.Is(err, context.Canceled):
		s.state.Store(int32(StateCancelled))
	default:
		s.fail(err)
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.failure = err
	s.mu.Unlock()
	s.state.Store(int32(StateFailed))
}

func (s *Session) addWarning(msg string) {
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}
