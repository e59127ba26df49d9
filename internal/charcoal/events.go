package charcoal

import "bettercharcoal.ai/internal/sim/mathx"

type EventKind string

const (
	EventAttach     EventKind = "ATTACH"
	EventDetach     EventKind = "DETACH"
	EventTimerStart EventKind = "TIMER_START"
	EventTimerStop  EventKind = "TIMER_STOP"
	EventYield      EventKind = "YIELD"
	EventDrop       EventKind = "DROP"
	EventFuel       EventKind = "FUEL"
	EventScanStart  EventKind = "SCAN_START"
	EventScanDone   EventKind = "SCAN_DONE"
)

// Event is one production log line.
type Event struct {
	RunID    string         `json:"run_id,omitempty"`
	AtMS     int64          `json:"at_ms"`
	Kind     EventKind      `json:"kind"`
	EntityID string         `json:"entity_id,omitempty"`
	Item     string         `json:"item,omitempty"`
	Count    int            `json:"count,omitempty"`
	Pos      *mathx.Vec3    `json:"pos,omitempty"`
	Reason   string         `json:"reason,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// EventSink receives production events. Write errors are logged and otherwise ignored.
type EventSink interface {
	WriteEvent(Event) error
}

func (c *Controller) emit(ev Event) {
	if c.events == nil {
		return
	}
	ev.RunID = c.runID
	ev.AtMS = c.sched.Now().Milliseconds()
	if err := c.events.WriteEvent(ev); err != nil && !c.eventErrLogged {
		c.eventErrLogged = true
		c.logger.Printf("warning: event log: %v", err)
	}
}
