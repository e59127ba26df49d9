// Package sched is the cooperative scheduler the world drives once per tick.
//
// It owns a virtual clock. Recurring timers and step-function tasks are queued by due
// time and run on the caller's goroutine from Advance; nothing here is safe for use
// from more than one goroutine.
package sched

import (
	"container/heap"
	"time"
)

type Scheduler struct {
	now time.Duration
	seq uint64
	q   queue
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now reports the virtual clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending reports how many live timers and suspended tasks are queued.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.q {
		if e.live() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by dt, running everything that falls due in due-time
// order (ties broken by scheduling order).
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for s.q.Len() > 0 {
		e := s.q[0]
		if e.due > target {
			break
		}
		heap.Pop(&s.q)
		if !e.live() {
			continue
		}
		if e.due > s.now {
			s.now = e.due
		}
		switch {
		case e.timer != nil:
			s.fire(e.timer)
		case e.task != nil:
			s.resume(e.task)
		}
	}
	s.now = target
}

func (s *Scheduler) push(e *entry) {
	s.seq++
	e.seq = s.seq
	heap.Push(&s.q, e)
}

type entry struct {
	due   time.Duration
	seq   uint64
	timer *Timer
	task  *Task
	index int
}

func (e *entry) live() bool {
	if e.timer != nil {
		return e.timer.entry == e && !e.timer.cancelled
	}
	if e.task != nil {
		return e.task.entry == e && !e.task.cancelled && !e.task.done
	}
	return false
}

type queue []*entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q queue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *queue) Push(x any) {
	e := x.(*entry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}
