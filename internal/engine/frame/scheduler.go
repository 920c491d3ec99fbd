// Package frame provides the single-threaded callback scheduler that drives
// the render loop: one pending frame callback, one-shot timers and a
// goroutine-safe task queue, all executed from Tick.
package frame

import (
	"sort"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// FrameID identifies a requested frame callback.
type FrameID uint64

// TimerID identifies a scheduled timer.
type TimerID uint64

type timer struct {
	id  TimerID
	due time.Time
	fn  func()
}

// Scheduler runs callbacks on the loop goroutine. Only Post may be called
// from other goroutines.
type Scheduler struct {
	clock Clock

	mu     sync.Mutex
	posted []func()

	nextID  uint64
	frameID FrameID
	frame   func(now time.Time)
	timers  map[TimerID]*timer
}

// New creates a scheduler. A nil clock uses time.Now.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		clock:  clock,
		timers: make(map[TimerID]*timer),
	}
}

// Now returns the scheduler clock's time.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

func (s *Scheduler) id() uint64 {
	s.nextID++
	return s.nextID
}

// RequestFrame schedules cb for the next Tick, replacing any frame
// callback still pending.
func (s *Scheduler) RequestFrame(cb func(now time.Time)) FrameID {
	s.frameID = FrameID(s.id())
	s.frame = cb
	return s.frameID
}

// CancelFrame cancels the pending frame if id still refers to it.
func (s *Scheduler) CancelFrame(id FrameID) {
	if s.frame != nil && s.frameID == id {
		s.frame = nil
		s.frameID = 0
	}
}

// After runs fn on the first Tick at or after d from now.
func (s *Scheduler) After(d time.Duration, fn func()) TimerID {
	id := TimerID(s.id())
	s.timers[id] = &timer{id: id, due: s.clock().Add(d), fn: fn}
	return id
}

// CancelTimer cancels a timer that has not fired.
func (s *Scheduler) CancelTimer(id TimerID) {
	delete(s.timers, id)
}

// Post queues fn to run at the start of the next Tick. Safe for
// concurrent use.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending returns the number of scheduled callbacks: the pending frame,
// if any, plus unfired timers. Posted tasks are not counted.
func (s *Scheduler) Pending() int {
	n := len(s.timers)
	if s.frame != nil {
		n++
	}
	return n
}

// Tick drains posted tasks, fires due timers in deadline order and runs
// the pending frame callback. Callbacks may schedule more work, which
// runs on a later Tick.
func (s *Scheduler) Tick(now time.Time) {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	var due []*timer
	for _, t := range s.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		// An earlier timer in this batch may have cancelled it.
		if _, ok := s.timers[t.id]; !ok {
			continue
		}
		delete(s.timers, t.id)
		t.fn()
	}

	if cb := s.frame; cb != nil {
		s.frame = nil
		s.frameID = 0
		cb(now)
	}
}
