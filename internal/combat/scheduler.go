package combat

import "time"

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due time.Time
	fn  func()
}

// Scheduler is a deferred task queue for a single execution context.
// It never runs anything on its own: the owner's loop calls RunDue, and due
// tasks run on that goroutine in due order (ties in scheduling order).
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	tasks  []*task
	nextID TaskID
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once d has elapsed from now.
func (s *Scheduler) After(now time.Time, d time.Duration, fn func()) TaskID {
	s.nextID++
	s.tasks = append(s.tasks, &task{id: s.nextID, due: now.Add(d), fn: fn})
	return s.nextID
}

// Cancel removes a pending task. Returns false if it already ran or was cancelled.
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// RunDue runs every task due at or before now and returns how many ran.
// Tasks scheduled while running wait for the next call, even if already due.
func (s *Scheduler) RunDue(now time.Time) int {
	limit := s.nextID
	ran := 0
	for {
		idx := s.nextDue(now, limit)
		if idx < 0 {
			return ran
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		t.fn()
		ran++
	}
}

// nextDue finds the earliest due task with an id no greater than limit.
func (s *Scheduler) nextDue(now time.Time, limit TaskID) int {
	best := -1
	for i, t := range s.tasks {
		if t.id > limit || t.due.After(now) {
			continue
		}
		if best < 0 || t.due.Before(s.tasks[best].due) ||
			(t.due.Equal(s.tasks[best].due) && t.id < s.tasks[best].id) {
			best = i
		}
	}
	return best
}
