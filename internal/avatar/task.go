package avatar

import (
	"sync"
	"time"
)

// Task is a fire-once delayed action with a cancellation handle, so
// pending clip transitions and blink holds do not leak timers when the
// driver is torn down.
type Task struct {
	timer *time.Timer
	once  sync.Once
}

// After schedules fn to run once after d. fn runs on the timer's
// goroutine; callers are responsible for their own locking.
func After(d time.Duration, fn func()) *Task {
	return &Task{timer: time.AfterFunc(d, fn)}
}

// Cancel stops the task if it has not fired yet. Safe to call multiple
// times and on an already-fired task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() { t.timer.Stop() })
}
