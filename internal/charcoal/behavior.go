package charcoal

import (
	"time"

	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/sched"
)

type State int

const (
	Idle State = iota
	Producing
)

func (s State) String() string {
	if s == Producing {
		return "PRODUCING"
	}
	return "IDLE"
}

// Behavior is the production state attached to one furnace. It never owns the furnace.
type Behavior struct {
	id        string
	furnace   Furnace
	ctl       *Controller
	timer     *sched.Timer
	destroyed bool
}

func newBehavior(c *Controller, f Furnace) *Behavior {
	return &Behavior{id: f.EntityID(), furnace: f, ctl: c}
}

func (b *Behavior) EntityID() string { return b.id }

func (b *Behavior) Furnace() Furnace { return b.furnace }

func (b *Behavior) State() State {
	if b.timer.Active() {
		return Producing
	}
	return Idle
}

func (b *Behavior) Producing() bool { return b.State() == Producing }

func (b *Behavior) Destroyed() bool { return b.destroyed }

// SetPowered starts the recurring yield timer when powered and stops it otherwise.
// Starting a running timer and stopping an idle one are no-ops.
func (b *Behavior) SetPowered(on bool) {
	if b.destroyed {
		return
	}
	if on {
		b.startTimer()
		return
	}
	b.stopTimer("power off")
}

func (b *Behavior) startTimer() {
	if b.timer.Active() {
		return
	}
	period := time.Duration(b.ctl.cfg.ElectricYieldIntervalSeconds * float64(time.Second))
	if period <= 0 {
		period = time.Duration(config.Defaults().ElectricYieldIntervalSeconds * float64(time.Second))
	}
	b.timer = b.ctl.sched.Every(TimerStartDelay, period, b.onTimer)
	b.ctl.emit(Event{Kind: EventTimerStart, EntityID: b.id, Details: map[string]any{"period_ms": period.Milliseconds()}})
}

func (b *Behavior) stopTimer(reason string) {
	if !b.timer.Active() {
		return
	}
	b.timer.Cancel()
	b.timer = nil
	b.ctl.emit(Event{Kind: EventTimerStop, EntityID: b.id, Reason: reason})
}

func (b *Behavior) onTimer() {
	if !b.furnace.IsValid() {
		b.Destroy("entity invalid")
		return
	}
	b.YieldCharcoal()
}

// YieldCharcoal runs one production attempt. When the furnace cannot take the yield
// it is marked full, the yield is dropped beside it, and the timer stops until the
// furnace is powered again.
func (b *Behavior) YieldCharcoal() {
	if b.destroyed {
		return
	}
	cfg := b.ctl.cfg
	if !cfg.ProductionEnabled {
		return
	}
	if b.ctl.rng.Intn(100) >= cfg.YieldChancePercent {
		return
	}
	qty := b.ctl.randRange(cfg.MinYield, cfg.MaxYield) * cfg.ProductionRateMultiplier
	if qty <= 0 {
		return
	}
	stack, err := b.ctl.world.CreateItem(Byproduct, qty)
	if err != nil {
		b.ctl.logger.Printf("warning: create %s x%d: %v", Byproduct, qty, err)
		return
	}
	if b.furnace.MoveToInventory(stack) {
		b.ctl.emit(Event{Kind: EventYield, EntityID: b.id, Item: stack.Item, Count: stack.Count})
		return
	}
	b.furnace.MarkFull()
	pos, vel := b.furnace.DropPoint()
	b.ctl.world.DropItem(stack, pos, vel)
	b.ctl.emit(Event{Kind: EventDrop, EntityID: b.id, Item: stack.Item, Count: stack.Count, Pos: &pos, Reason: "inventory full"})
	b.stopTimer("inventory full")
}

// ConsumeFuel replaces the host's default burn for one fuel step: it may yield
// charcoal, then burns fuelConsumptionRate units of fuel (or the whole stack when one
// unit or less is left) and refills the burn measure.
func (b *Behavior) ConsumeFuel(fuel Fuel, burnable catalogs.Burnable) {
	if b.furnace.AllowByproductCreation() && burnable.Byproduct != "" {
		b.YieldCharcoal()
	}
	if fuel.Amount() <= 1 {
		fuel.Remove()
		b.ctl.emit(Event{Kind: EventFuel, EntityID: b.id, Reason: "stack exhausted"})
		return
	}
	n := b.ctl.cfg.FuelConsumptionRateMultiplier
	fuel.Use(n)
	fuel.SetFuel(burnable.FuelAmount)
	fuel.MarkDirty()
	b.ctl.emit(Event{Kind: EventFuel, EntityID: b.id, Count: n})
}

// Destroy cancels the timer and removes b from its controller. Destroying twice is a
// no-op.
func (b *Behavior) Destroy(reason string) {
	if b.destroyed {
		return
	}
	b.stopTimer(reason)
	b.destroyed = true
	b.ctl.Unregister(b)
	b.ctl.emit(Event{Kind: EventDetach, EntityID: b.id, Reason: reason})
}
