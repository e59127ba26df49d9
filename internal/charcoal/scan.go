package charcoal

import (
	"time"

	"bettercharcoal.ai/internal/sim/sched"
)

// ScanAndAttachAll attaches a behavior to every furnace already in the world and
// starts the timer of electric furnaces that are on. Above ScanThrottleHz the scan
// yields ScanYieldDelay between entities; at or below it the scan finishes before
// returning. A scan already in flight is cancelled first.
//
// Entities spawned while the scan is suspended go through the spawn path; attaching
// is idempotent, so interleaving cannot double-attach.
func (c *Controller) ScanAndAttachAll() *sched.Task {
	c.CancelScan()

	ents := c.world.Entities()
	throttle := c.world.SimRateHz() > ScanThrottleHz
	attached := 0
	i := 0
	c.emit(Event{Kind: EventScanStart, Details: map[string]any{"entities": len(ents), "throttled": throttle}})

	c.scan = c.sched.Start(func() (time.Duration, bool) {
		if i < len(ents) {
			if c.scanOne(ents[i]) {
				attached++
			}
			i++
		}
		if i >= len(ents) {
			c.logger.Printf("scan complete: %d entities, %d furnaces attached", len(ents), attached)
			c.emit(Event{Kind: EventScanDone, Details: map[string]any{"entities": len(ents), "attached": attached}})
			return 0, false
		}
		if throttle {
			return ScanYieldDelay, true
		}
		return 0, true
	})
	return c.scan
}

func (c *Controller) scanOne(e Entity) bool {
	if e == nil || !e.IsValid() {
		return false
	}
	f, ok := e.(Furnace)
	if !ok {
		return false
	}
	b, created := c.AttachOne(f)
	if b == nil {
		return false
	}
	if f.IsElectric() && f.IsOn() && c.cfg.ElectricProductionEnabled {
		b.SetPowered(true)
	}
	return created
}

// Scan returns the most recent scan task, or nil.
func (c *Controller) Scan() *sched.Task { return c.scan }

// CancelScan stops an in-flight scan. Cancelling when none runs is a no-op.
func (c *Controller) CancelScan() {
	if c.scan != nil {
		c.scan.Cancel()
	}
}
