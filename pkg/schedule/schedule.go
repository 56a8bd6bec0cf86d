// Package schedule defers work behind a cancellable timer. The wizard uses it
// for the delayed focus hand-off after a step transition.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Cancel stops a scheduled callback. It reports whether the callback was
// stopped before running and is safe to call more than once.
type Cancel func() bool

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Cancel
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(delay time.Duration, fn func()) Cancel

func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) Cancel {
	return f(delay, fn)
}

// Timer schedules on the runtime clock.
type Timer struct{}

// NewTimer returns the default wall-clock scheduler.
func NewTimer() Timer { return Timer{} }

func (Timer) Schedule(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	return t.Stop
}

// Slot holds at most one pending callback: scheduling replaces and cancels the
// previous one, so the last schedule wins.
type Slot struct {
	mu        sync.Mutex
	scheduler Scheduler
	cancel    Cancel
	gen       uint64
}

// NewSlot creates a Slot backed by scheduler. A nil scheduler uses Timer.
func NewSlot(scheduler Scheduler) *Slot {
	if scheduler == nil {
		scheduler = Timer{}
	}
	return &Slot{scheduler: scheduler}
}

// Schedule cancels any pending callback and schedules fn. A callback that
// already started racing with a replacement is suppressed.
func (s *Slot) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = s.scheduler.Schedule(delay, func() {
		s.mu.Lock()
		current := s.gen == gen
		if current {
			s.cancel = nil
		}
		s.mu.Unlock()
		if current {
			fn()
		}
	})
	s.mu.Unlock()
}

// ScheduleContext behaves like Schedule and additionally cancels when ctx is
// done first.
func (s *Slot) ScheduleContext(ctx context.Context, delay time.Duration, fn func()) {
	if ctx == nil {
		s.Schedule(delay, fn)
		return
	}
	if ctx.Err() != nil {
		s.Stop()
		return
	}
	s.Schedule(delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn()
	})
}

// Stop cancels the pending callback, if any. It reports whether something was
// pending.
func (s *Slot) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel == nil {
		return false
	}
	stopped := s.cancel()
	s.cancel = nil
	return stopped
}

// Pending reports whether a callback is scheduled and has not run.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
