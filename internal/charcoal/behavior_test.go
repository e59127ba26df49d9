package charcoal

import (
	"testing"
	"time"

	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/sim/catalogs"
)

func TestYieldBounds(t *testing.T) {
	cfg := certainConfig()
	cfg.MinYield, cfg.MaxYield, cfg.ProductionRateMultiplier = 1, 1, 3
	h := newHarness(t, cfg)
	f := furnace("F1")
	b, _ := h.ctl.AttachOne(f)

	for i := 0; i < 100; i++ {
		b.YieldCharcoal()
	}
	if len(h.world.created) != 100 {
		t.Fatalf("created=%d want 100", len(h.world.created))
	}
	for _, s := range h.world.created {
		if s.Item != Byproduct || s.Count != 3 {
			t.Fatalf("unexpected yield %#v", s)
		}
	}
	if f.stored != 300 {
		t.Fatalf("stored=%d want 300", f.stored)
	}
}

func TestYieldRangeIsInclusive(t *testing.T) {
	cfg := certainConfig()
	cfg.MinYield, cfg.MaxYield, cfg.ProductionRateMultiplier = 2, 4, 1
	h := newHarness(t, cfg)
	b, _ := h.ctl.AttachOne(furnace("F1"))

	seen := map[int]int{}
	for i := 0; i < 3000; i++ {
		b.YieldCharcoal()
	}
	for _, s := range h.world.created {
		seen[s.Count]++
	}
	for q := 2; q <= 4; q++ {
		if seen[q] == 0 {
			t.Fatalf("quantity %d never drawn: %#v", q, seen)
		}
	}
	if len(seen) != 3 {
		t.Fatalf("out of range quantities: %#v", seen)
	}
}

func TestChanceGateExtremes(t *testing.T) {
	cfg := config.Defaults()
	cfg.YieldChancePercent = 0
	h := newHarness(t, cfg)
	b, _ := h.ctl.AttachOne(furnace("F1"))
	for i := 0; i < 10000; i++ {
		b.YieldCharcoal()
	}
	if len(h.world.created) != 0 {
		t.Fatalf("chance 0 produced %d stacks", len(h.world.created))
	}

	cfg.YieldChancePercent = 100
	h = newHarness(t, cfg)
	b, _ = h.ctl.AttachOne(furnace("F1"))
	for i := 0; i < 10000; i++ {
		b.YieldCharcoal()
	}
	if len(h.world.created) != 10000 {
		t.Fatalf("chance 100 produced %d of 10000", len(h.world.created))
	}
}

func TestProductionDisabled(t *testing.T) {
	cfg := certainConfig()
	cfg.ProductionEnabled = false
	h := newHarness(t, cfg)
	b, _ := h.ctl.AttachOne(furnace("F1"))
	b.YieldCharcoal()
	if len(h.world.created) != 0 {
		t.Fatalf("disabled production created items")
	}
}

func TestZeroMultiplierCreatesNothing(t *testing.T) {
	cfg := certainConfig()
	cfg.ProductionRateMultiplier = 0
	h := newHarness(t, cfg)
	f := furnace("F1")
	f.capacity = 0
	b, _ := h.ctl.AttachOne(f)
	b.YieldCharcoal()
	if len(h.world.created) != 0 || f.full != 0 || len(h.world.drops) != 0 {
		t.Fatalf("zero quantity reached the inventory")
	}
}

func TestSetPoweredStateMachine(t *testing.T) {
	cfg := certainConfig()
	cfg.ElectricYieldIntervalSeconds = 2
	h := newHarness(t, cfg)
	f := furnace("F1")
	f.electric = true
	b, _ := h.ctl.AttachOne(f)

	b.SetPowered(false) // idle -> idle
	if b.State() != Idle || h.sink.count(EventTimerStop) != 0 {
		t.Fatalf("power off while idle should be a no-op")
	}
	b.SetPowered(true)
	b.SetPowered(true) // producing -> producing
	if b.State() != Producing || h.sink.count(EventTimerStart) != 1 {
		t.Fatalf("double power on should start one timer, starts=%d", h.sink.count(EventTimerStart))
	}

	h.sched.Advance(999 * time.Millisecond)
	if len(h.world.created) != 0 {
		t.Fatalf("fired before the start delay")
	}
	h.sched.Advance(time.Millisecond) // t=1s
	h.sched.Advance(4 * time.Second)  // t=5s: fires at 1s, 3s, 5s
	if len(h.world.created) != 3 {
		t.Fatalf("timed yields=%d want 3", len(h.world.created))
	}

	b.SetPowered(false)
	if b.State() != Idle {
		t.Fatalf("power off should idle the behavior")
	}
	h.sched.Advance(10 * time.Second)
	if len(h.world.created) != 3 {
		t.Fatalf("idle behavior kept producing")
	}
}

func TestFullInventoryHaltsTimer(t *testing.T) {
	h := newHarness(t, certainConfig())
	f := furnace("F1")
	f.electric = true
	f.capacity = 0
	b, _ := h.ctl.AttachOne(f)

	b.SetPowered(true)
	h.sched.Advance(TimerStartDelay)
	if b.State() != Idle {
		t.Fatalf("full inventory should stop the timer")
	}
	if len(h.world.drops) != 1 || f.stored != 0 || f.full != 1 {
		t.Fatalf("drops=%d stored=%d full=%d", len(h.world.drops), f.stored, f.full)
	}

	h.sched.Advance(time.Minute)
	if len(h.world.drops) != 1 {
		t.Fatalf("halted behavior kept producing: drops=%d", len(h.world.drops))
	}

	f.capacity = -1
	b.SetPowered(true)
	h.sched.Advance(TimerStartDelay)
	if b.State() != Producing || f.stored == 0 {
		t.Fatalf("re-powering should resume production, state=%v stored=%d", b.State(), f.stored)
	}
}

func TestFullInventoryFromFuelDropsWithoutTimer(t *testing.T) {
	h := newHarness(t, certainConfig())
	f := furnace("F1")
	f.capacity = 0
	b, _ := h.ctl.AttachOne(f)
	b.ConsumeFuel(&fakeFuel{amount: 5}, catalogs.Burnable{FuelAmount: 10, Byproduct: Byproduct})
	if len(h.world.drops) != 1 || f.full != 1 || b.State() != Idle {
		t.Fatalf("drops=%d full=%d state=%v", len(h.world.drops), f.full, b.State())
	}
}

func TestConsumeFuelExactness(t *testing.T) {
	cfg := config.Defaults()
	cfg.FuelConsumptionRateMultiplier = 2
	h := newHarness(t, cfg)
	b, _ := h.ctl.AttachOne(furnace("F1"))
	burnable := catalogs.Burnable{FuelAmount: 10, Byproduct: Byproduct}

	fuel := &fakeFuel{amount: 5, fuel: 0.5}
	b.ConsumeFuel(fuel, burnable)
	if fuel.amount != 3 || fuel.fuel != 10 || !fuel.dirty || fuel.removed {
		t.Fatalf("after one step: %#v", fuel)
	}

	last := &fakeFuel{amount: 1}
	b.ConsumeFuel(last, burnable)
	if !last.removed || last.dirty {
		t.Fatalf("single unit should be removed without further mutation: %#v", last)
	}
}

func TestConsumeFuelByproductGate(t *testing.T) {
	h := newHarness(t, certainConfig())
	f := furnace("F1")
	b, _ := h.ctl.AttachOne(f)

	b.ConsumeFuel(&fakeFuel{amount: 5}, catalogs.Burnable{FuelAmount: 10})
	if len(h.world.created) != 0 {
		t.Fatalf("burnable without byproduct yielded charcoal")
	}
	f.byprod = false
	b.ConsumeFuel(&fakeFuel{amount: 5}, catalogs.Burnable{FuelAmount: 10, Byproduct: Byproduct})
	if len(h.world.created) != 0 {
		t.Fatalf("furnace without byproduct creation yielded charcoal")
	}
	f.byprod = true
	b.ConsumeFuel(&fakeFuel{amount: 5}, catalogs.Burnable{FuelAmount: 10, Byproduct: Byproduct})
	if len(h.world.created) != 1 {
		t.Fatalf("expected one fuel-driven yield, got %d", len(h.world.created))
	}
}

func TestDestroyCancelsTimer(t *testing.T) {
	h := newHarness(t, certainConfig())
	f := furnace("F1")
	b, _ := h.ctl.AttachOne(f)
	b.SetPowered(true)
	b.Destroy("test")
	b.Destroy("again")
	h.sched.Advance(time.Minute)
	if len(h.world.created) != 0 {
		t.Fatalf("destroyed behavior produced")
	}
	if h.ctl.Len() != 0 || !b.Destroyed() {
		t.Fatalf("destroy did not unregister")
	}
	if h.sink.count(EventDetach) != 1 {
		t.Fatalf("detach events=%d want 1", h.sink.count(EventDetach))
	}
	b.SetPowered(true)
	if b.State() != Idle {
		t.Fatalf("destroyed behavior restarted its timer")
	}
}
