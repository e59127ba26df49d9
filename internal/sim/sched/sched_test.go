package sched

import (
	"testing"
	"time"
)

func TestEveryDelayThenPeriod(t *testing.T) {
	s := New()
	var at []time.Duration
	tm := s.Every(time.Second, 2*time.Second, func() { at = append(at, s.Now()) })

	s.Advance(999 * time.Millisecond)
	if len(at) != 0 {
		t.Fatalf("fired early at %v", at)
	}
	s.Advance(5 * time.Second)
	want := []time.Duration{time.Second, 3 * time.Second, 5 * time.Second}
	if len(at) != len(want) {
		t.Fatalf("fires=%v want %v", at, want)
	}
	for i := range want {
		if at[i] != want[i] {
			t.Fatalf("fire %d at %v want %v", i, at[i], want[i])
		}
	}
	if !tm.Active() || tm.Fires() != 3 {
		t.Fatalf("unexpected timer state active=%v fires=%d", tm.Active(), tm.Fires())
	}
}

func TestCancelBeatsSameStepFire(t *testing.T) {
	s := New()
	var b *Timer
	bFires := 0
	// a is scheduled first, so at the shared due time it runs before b and cancels it.
	s.Every(time.Second, time.Second, func() { b.Cancel() })
	b = s.Every(time.Second, time.Second, func() { bFires++ })

	s.Advance(10 * time.Second)
	if bFires != 0 {
		t.Fatalf("cancelled timer fired %d times", bFires)
	}
	if b.Active() {
		t.Fatalf("cancelled timer still active")
	}
	b.Cancel()
}

func TestCancelFromOwnCallback(t *testing.T) {
	s := New()
	var tm *Timer
	n := 0
	tm = s.Every(0, time.Second, func() {
		n++
		tm.Cancel()
	})
	s.Advance(5 * time.Second)
	if n != 1 {
		t.Fatalf("fires=%d want 1", n)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending=%d want 0", s.Pending())
	}
}

func TestTaskYieldsAndResumes(t *testing.T) {
	s := New()
	i := 0
	task := s.Start(func() (time.Duration, bool) {
		i++
		if i >= 4 {
			return 0, false
		}
		return 10 * time.Millisecond, true
	})
	if i != 1 || !task.Running() {
		t.Fatalf("first step should run synchronously, i=%d", i)
	}
	s.Advance(9 * time.Millisecond)
	if i != 1 {
		t.Fatalf("resumed early, i=%d", i)
	}
	s.Advance(time.Second)
	if !task.Done() || i != 4 {
		t.Fatalf("task not finished: done=%v i=%d", task.Done(), i)
	}
	if task.Yields() != 3 {
		t.Fatalf("yields=%d want 3", task.Yields())
	}
}

func TestTaskZeroWaitRunsToCompletion(t *testing.T) {
	s := New()
	i := 0
	task := s.Start(func() (time.Duration, bool) {
		i++
		return 0, i < 1000
	})
	if !task.Done() || i != 1000 || task.Yields() != 0 {
		t.Fatalf("done=%v i=%d yields=%d", task.Done(), i, task.Yields())
	}
}

func TestTaskCancel(t *testing.T) {
	s := New()
	i := 0
	task := s.Start(func() (time.Duration, bool) {
		i++
		return time.Millisecond, true
	})
	task.Cancel()
	s.Advance(time.Second)
	if i != 1 {
		t.Fatalf("cancelled task kept running, i=%d", i)
	}
	if !task.Cancelled() || task.Running() {
		t.Fatalf("unexpected task state")
	}
	task.Cancel()
}
