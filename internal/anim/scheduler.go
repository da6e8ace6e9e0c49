package anim

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id  TaskID
	due float64
	fn  func()
}

// Scheduler runs deferred calls against accumulated frame time instead of
// wall-clock timers, so everything stays on the frame thread.
//
// A task scheduled during a frame never runs before the next Advance call,
// even with a zero delay.
type Scheduler struct {
	now    float64
	nextID TaskID
	tasks  []task
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once delay seconds of frame time have passed.
func (s *Scheduler) After(delay float64, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: s.now + delay, fn: fn})
	return s.nextID
}

// Cancel removes a scheduled task. It reports whether the task was still pending.
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of tasks not yet run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves frame time forward by dt and runs every task that came due,
// in scheduling order. Tasks scheduled by a running task wait for the next Advance.
func (s *Scheduler) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	if len(s.tasks) == 0 {
		return
	}

	due := s.tasks[:0:0]
	keep := s.tasks[:0]
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	s.tasks = keep

	for _, t := range due {
		t.fn()
	}
}
