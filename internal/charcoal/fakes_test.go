package charcoal

import (
	"fmt"
	"math/rand"
	"testing"

	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/mathx"
	"bettercharcoal.ai/internal/sim/sched"
)

type fakeFurnace struct {
	id       string
	owner    string
	electric bool
	on       bool
	byprod   bool
	dead     bool

	capacity int // max charcoal units the inventory accepts; <0 means unlimited
	stored   int
	full     int
}

func (f *fakeFurnace) EntityID() string             { return f.id }
func (f *fakeFurnace) IsValid() bool                { return !f.dead }
func (f *fakeFurnace) OwnerID() string              { return f.owner }
func (f *fakeFurnace) IsElectric() bool             { return f.electric }
func (f *fakeFurnace) IsOn() bool                   { return f.on }
func (f *fakeFurnace) AllowByproductCreation() bool { return f.byprod }
func (f *fakeFurnace) MarkFull()                    { f.full++ }

func (f *fakeFurnace) MoveToInventory(s catalogs.ItemStack) bool {
	if f.capacity >= 0 && f.stored+s.Count > f.capacity {
		return false
	}
	f.stored += s.Count
	return true
}

func (f *fakeFurnace) DropPoint() (mathx.Vec3, mathx.Vec3) {
	return mathx.Vec3{X: 1, Y: 2, Z: 3}, mathx.Vec3{Y: 1}
}

// plainEntity is not a furnace.
type plainEntity struct{ id string }

func (e plainEntity) EntityID() string { return e.id }
func (e plainEntity) IsValid() bool    { return true }

type fakeWorld struct {
	ents    []Entity
	rate    int
	created []catalogs.ItemStack
	drops   []catalogs.ItemStack
}

func (w *fakeWorld) Entities() []Entity { return append([]Entity(nil), w.ents...) }
func (w *fakeWorld) SimRateHz() int     { return w.rate }

func (w *fakeWorld) CreateItem(name string, count int) (catalogs.ItemStack, error) {
	if name != Byproduct {
		return catalogs.ItemStack{}, fmt.Errorf("unknown item %q", name)
	}
	s := catalogs.ItemStack{Item: name, Count: count}
	w.created = append(w.created, s)
	return s, nil
}

func (w *fakeWorld) DropItem(s catalogs.ItemStack, pos, vel mathx.Vec3) {
	w.drops = append(w.drops, s)
}

type fakeAuth struct {
	valid map[string]bool
	perms map[string]bool
}

func (a fakeAuth) PlayerValid(id string) bool         { return a.valid[id] }
func (a fakeAuth) HasPermission(id, perm string) bool { return perm == PermissionUse && a.perms[id] }

type fakeFuel struct {
	amount  int
	fuel    float64
	removed bool
	dirty   bool
}

func (f *fakeFuel) Amount() int       { return f.amount }
func (f *fakeFuel) Remove()           { f.removed = true; f.amount = 0 }
func (f *fakeFuel) Use(n int)         { f.amount -= n }
func (f *fakeFuel) SetFuel(v float64) { f.fuel = v }
func (f *fakeFuel) MarkDirty()        { f.dirty = true }

type recordSink struct{ events []Event }

func (r *recordSink) WriteEvent(ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recordSink) count(k EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}

type harness struct {
	ctl   *Controller
	world *fakeWorld
	sched *sched.Scheduler
	sink  *recordSink
}

func newHarness(t *testing.T, cfg config.Configuration) *harness {
	t.Helper()
	w := &fakeWorld{rate: 30}
	s := sched.New()
	sink := &recordSink{}
	ctl := NewController(Options{
		Config:    cfg,
		World:     w,
		Auth:      fakeAuth{valid: map[string]bool{"P1": true, "P2": true}, perms: map[string]bool{"P1": true}},
		Scheduler: s,
		Rand:      rand.New(rand.NewSource(1)),
		Events:    sink,
	})
	return &harness{ctl: ctl, world: w, sched: s, sink: sink}
}

func furnace(id string) *fakeFurnace {
	return &fakeFurnace{id: id, owner: "P1", byprod: true, capacity: -1}
}

func certainConfig() config.Configuration {
	cfg := config.Defaults()
	cfg.YieldChancePercent = 100
	cfg.ElectricProductionEnabled = true
	return cfg
}
