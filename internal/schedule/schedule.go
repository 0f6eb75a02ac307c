// Package schedule runs deferred game tasks on the session clock.
//
// Tasks are plain records processed by the owning game's tick instead of
// timers or goroutines. Every task remembers the generation it was scheduled
// under; Reset bumps the generation so tasks from a superseded session never
// run.
package schedule

import (
	"slices"
	"time"
)

// Task is a deferred callback.
type Task struct {
	Name string

	due        time.Duration
	generation uint64
	seq        uint64
	fn         func()
	cancelled  bool
	done       bool
}

// Cancel prevents the task from running. Safe on nil and finished tasks.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Pending returns true while the task is waiting to run.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && !t.done
}

// Scheduler holds pending tasks and the elapsed session clock.
type Scheduler struct {
	now        time.Duration
	generation uint64
	seq        uint64
	tasks      []*Task

	// Guard, when set, is checked before each task runs. A false result
	// drops the task without running it.
	Guard func() bool
}

// New creates an empty scheduler at time zero, generation zero.
func New() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once d has elapsed on the scheduler clock.
func (s *Scheduler) After(d time.Duration, name string, fn func()) *Task {
	s.seq++
	t := &Task{
		Name:       name,
		due:        s.now + max(d, 0),
		generation: s.generation,
		seq:        s.seq,
		fn:         fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by delta and runs every due task in due
// order (ties in scheduling order). Tasks scheduled by a running task are
// considered in the same Advance if they are already due.
func (s *Scheduler) Advance(delta time.Duration) {
	s.now += max(delta, 0)

	for {
		t := s.nextDue()
		if t == nil {
			break
		}
		t.done = true
		s.remove(t)

		if t.cancelled || t.generation != s.generation {
			continue
		}
		if s.Guard != nil && !s.Guard() {
			continue
		}
		t.fn()
	}
}

// Reset drops all pending tasks and starts a new generation. Tasks held by
// callers from earlier generations will never run.
func (s *Scheduler) Reset() {
	for _, t := range s.tasks {
		t.cancelled = true
	}
	clear(s.tasks)
	s.tasks = s.tasks[:0]
	s.generation++
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Generation returns the current session generation.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}

// Len returns the number of tasks waiting to run.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if t.Pending() {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue() *Task {
	var next *Task
	for _, t := range s.tasks {
		if t.due > s.now {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *Scheduler) remove(t *Task) {
	if i := slices.Index(s.tasks, t); i >= 0 {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
}
