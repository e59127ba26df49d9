package sched

import "time"

// StepFunc runs one slice of a task. It returns more=false when the task is finished;
// otherwise the task resumes after wait. A zero wait continues in the same call
// without giving control back.
type StepFunc func() (wait time.Duration, more bool)

// Task is a suspendable, cancellable job.
type Task struct {
	s         *Scheduler
	step      StepFunc
	entry     *entry
	cancelled bool
	done      bool
	yields    int
}

// Start runs step immediately until it first suspends or finishes.
func (s *Scheduler) Start(step StepFunc) *Task {
	t := &Task{s: s, step: step}
	s.resume(t)
	return t
}

// Cancel stops the task; no further steps run. Cancelling a finished task is a no-op.
func (t *Task) Cancel() {
	if t == nil || t.done || t.cancelled {
		return
	}
	t.cancelled = true
	t.entry = nil
}

// Done reports whether the task ran to completion.
func (t *Task) Done() bool { return t != nil && t.done }

// Cancelled reports whether the task was cancelled before completing.
func (t *Task) Cancelled() bool { return t != nil && t.cancelled }

// Running reports whether the task still has steps to run.
func (t *Task) Running() bool { return t != nil && !t.done && !t.cancelled }

// Yields counts how many times the task suspended.
func (t *Task) Yields() int {
	if t == nil {
		return 0
	}
	return t.yields
}

func (s *Scheduler) resume(t *Task) {
	t.entry = nil
	for !t.cancelled {
		wait, more := t.step()
		if t.cancelled {
			return
		}
		if !more {
			t.done = true
			return
		}
		if wait > 0 {
			t.yields++
			t.entry = &entry{due: s.now + wait, task: t}
			s.push(t.entry)
			return
		}
	}
}
