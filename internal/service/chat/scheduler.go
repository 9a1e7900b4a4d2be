package chat

import "time"

// Timer is a pending delayed action.
type Timer interface {
	Stop() bool
}

// Scheduler runs delayed actions. Sessions keep every Timer they are handed
// so teardown can stop callbacks that have not fired yet.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
