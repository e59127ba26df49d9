package world

import "bettercharcoal.ai/internal/sim/catalogs"

// Hooks is the event surface extensions subscribe to. Every callback runs on the tick
// goroutine.
type Hooks interface {
	OnWorldReady()
	OnWorldUnloading()
	OnEntitySpawned(e Entity)
	OnEntityKilled(e Entity)
	// OnFuelConsume runs once per burn step of a lit fuel furnace. Returning true means
	// the hook handled the step and the default burn must not run.
	OnFuelConsume(f *Furnace, fuel *Item, burnable catalogs.Burnable) bool
	OnOvenToggle(f *Furnace, on bool)
}

type NopHooks struct{}

func (NopHooks) OnWorldReady()                                         {}
func (NopHooks) OnWorldUnloading()                                     {}
func (NopHooks) OnEntitySpawned(Entity)                                {}
func (NopHooks) OnEntityKilled(Entity)                                 {}
func (NopHooks) OnFuelConsume(*Furnace, *Item, catalogs.Burnable) bool { return false }
func (NopHooks) OnOvenToggle(*Furnace, bool)                           {}

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"`
	Pos     [3]float64     `json:"pos"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type AuditLogger interface {
	WriteAudit(e AuditEntry) error
}
