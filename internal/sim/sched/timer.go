package sched

import "time"

// Timer is a recurring callback. A cancelled timer never fires again, including a fire
// that was already due in the same Advance call.
type Timer struct {
	s         *Scheduler
	period    time.Duration
	fn        func()
	entry     *entry
	cancelled bool
	fires     int
}

// Every schedules fn to run after delay and then every period. A non-positive period
// makes the timer one-shot.
func (s *Scheduler) Every(delay, period time.Duration, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	t := &Timer{s: s, period: period, fn: fn}
	t.entry = &entry{due: s.now + delay, timer: t}
	s.push(t.entry)
	return t
}

// Cancel stops the timer. Cancelling a stopped timer is a no-op.
func (t *Timer) Cancel() {
	if t == nil || t.cancelled {
		return
	}
	t.cancelled = true
	t.entry = nil
}

// Active reports whether the timer will fire again.
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled && t.entry != nil
}

// Fires reports how many times the callback ran.
func (t *Timer) Fires() int {
	if t == nil {
		return 0
	}
	return t.fires
}

func (s *Scheduler) fire(t *Timer) {
	due := t.entry.due
	if t.period > 0 {
		next := &entry{due: due + t.period, timer: t}
		t.entry = next
		s.push(next)
	} else {
		t.entry = nil
	}
	t.fires++
	if t.fn != nil {
		t.fn()
	}
}
