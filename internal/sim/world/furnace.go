package world

import (
	"fmt"

	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/mathx"
)

// Furnace is an oven entity. Fuel furnaces burn items from their container while lit;
// electric furnaces run on power and never burn fuel.
type Furnace struct {
	id       string
	Owner    string
	Electric bool
	Pos      mathx.Vec3

	on             bool
	allowByproduct bool
	dead           bool
	burnTicks      int
	dropSpeed      float64
	inv            *Container
}

type FurnaceSpec struct {
	Owner    string
	Electric bool
	Pos      mathx.Vec3
	// NoByproduct disables byproduct creation on a fuel furnace.
	NoByproduct bool
}

func (f *Furnace) EntityID() string             { return f.id }
func (f *Furnace) IsValid() bool                { return f != nil && !f.dead }
func (f *Furnace) Position() mathx.Vec3         { return f.Pos }
func (f *Furnace) OwnerID() string              { return f.Owner }
func (f *Furnace) IsElectric() bool             { return f.Electric }
func (f *Furnace) IsOn() bool                   { return f.on }
func (f *Furnace) AllowByproductCreation() bool { return f.allowByproduct }
func (f *Furnace) Inventory() *Container        { return f.inv }

func (f *Furnace) MoveToInventory(stack catalogs.ItemStack) bool { return f.inv.Insert(stack) }

func (f *Furnace) MarkFull() { f.inv.MarkFull() }

// DropPoint is where overflow leaves the furnace: just above it, thrown upward.
func (f *Furnace) DropPoint() (pos, vel mathx.Vec3) {
	return f.Pos.Add(mathx.Vec3{Y: 1}), mathx.Vec3{Y: f.dropSpeed}
}

func (w *World) SpawnFurnace(spec FurnaceSpec) *Furnace {
	slots := w.cfg.FurnaceSlots
	prefix := "F"
	if spec.Electric {
		slots = w.cfg.ElectricSlots
		prefix = "EF"
	}
	f := &Furnace{
		id:             w.newEntityID(prefix),
		Owner:          spec.Owner,
		Electric:       spec.Electric,
		Pos:            spec.Pos,
		allowByproduct: !spec.Electric && !spec.NoByproduct,
		dropSpeed:      w.cfg.DropSpeed,
	}
	f.inv = newContainer(slots, w.catalogs, w.newStackID)
	w.register(f)
	return f
}

func (w *World) newStackID() string {
	w.nextStackNum++
	return fmt.Sprintf("S%06d", w.nextStackNum)
}

// AddToFurnace puts a stack into a furnace container, the way a player loads fuel.
func (w *World) AddToFurnace(id string, stack catalogs.ItemStack) error {
	f, ok := w.Furnace(id)
	if !ok || !f.IsValid() {
		return fmt.Errorf("add to %s: no such furnace", id)
	}
	if _, err := w.CreateItem(stack.Item, stack.Count); err != nil {
		return fmt.Errorf("add to %s: %w", id, err)
	}
	if !f.inv.Insert(stack) {
		return fmt.Errorf("add to %s: container full", id)
	}
	return nil
}

// SetOn lights or powers a furnace. A fuel furnace cannot be lit without fuel.
func (w *World) SetOn(id string, on bool) error {
	f, ok := w.Furnace(id)
	if !ok || !f.IsValid() {
		return fmt.Errorf("toggle %s: no such furnace", id)
	}
	if f.on == on {
		return nil
	}
	if on && !f.Electric {
		if _, _, ok := f.inv.firstBurnable(); !ok {
			return fmt.Errorf("toggle %s: no fuel", id)
		}
	}
	w.setOn(f, on, "TOGGLE")
	return nil
}

func (w *World) Toggle(id string) error {
	f, ok := w.Furnace(id)
	if !ok {
		return fmt.Errorf("toggle %s: no such furnace", id)
	}
	return w.SetOn(id, !f.on)
}

func (w *World) setOn(f *Furnace, on bool, reason string) {
	f.on = on
	f.burnTicks = 0
	w.auditEvent(w.tick, f.Owner, "OVEN_TOGGLE", f.Pos, reason, map[string]any{
		"entity_id": f.id,
		"on":        on,
	})
	w.hooks.OnOvenToggle(f, on)
}

// systemFuel runs one burn step per lit fuel furnace every FuelBurnTicks.
func (w *World) systemFuel() {
	for _, id := range append([]string(nil), w.order...) {
		f, ok := w.entities[id].(*Furnace)
		if !ok || !f.IsValid() || f.Electric || !f.on {
			continue
		}
		f.burnTicks++
		if f.burnTicks < w.cfg.FuelBurnTicks {
			continue
		}
		f.burnTicks = 0
		w.consumeFuel(f)
	}
}

func (w *World) consumeFuel(f *Furnace) {
	fuel, burnable, ok := f.inv.firstBurnable()
	if !ok {
		w.setOn(f, false, "NO_FUEL")
		return
	}
	if w.hooks.OnFuelConsume(f, fuel, burnable) {
		return
	}
	w.defaultBurn(f, fuel, burnable)
}

// defaultBurn is the stock burn step: one unit per step and a chance-based byproduct.
func (w *World) defaultBurn(f *Furnace, fuel *Item, b catalogs.Burnable) {
	if f.allowByproduct && b.Byproduct != "" && w.rng.Float64() < b.ByproductChance {
		n := b.ByproductAmount
		if n <= 0 {
			n = 1
		}
		if stack, err := w.CreateItem(b.Byproduct, n); err == nil && !f.MoveToInventory(stack) {
			f.MarkFull()
			pos, vel := f.DropPoint()
			w.DropItem(stack, pos, vel)
		}
	}
	if fuel.Amount() <= 1 {
		fuel.Remove()
		return
	}
	fuel.Use(1)
	fuel.SetFuel(b.FuelAmount)
	fuel.MarkDirty()
}
