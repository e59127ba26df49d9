package main

import (
	"fmt"

	"bettercharcoal.ai/internal/charcoal"
	"bettercharcoal.ai/internal/charcoal/plugin"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/mathx"
	"bettercharcoal.ai/internal/sim/tuning"
	"bettercharcoal.ai/internal/sim/world"
)

// seedWorld creates the players and furnaces listed in tuning. Grants need the
// plugin's permission registered first.
func seedWorld(w *world.World, tune tuning.Tuning) error {
	for _, ps := range tune.Players {
		if _, err := w.AddPlayer(ps.ID, ps.Name, ps.Connected); err != nil {
			return err
		}
		for _, perm := range ps.Permissions {
			if err := w.Permissions().Grant(ps.ID, perm); err != nil {
				return fmt.Errorf("player %s: %w", ps.ID, err)
			}
		}
	}
	for row, fs := range tune.Furnaces {
		for n := 0; n < fs.Count; n++ {
			f := w.SpawnFurnace(world.FurnaceSpec{
				Owner:    fs.Owner,
				Electric: fs.Electric,
				Pos:      mathx.Vec3{X: float64(n) * 2, Z: float64(row) * 2},
			})
			for _, it := range fs.Fuel {
				if err := w.AddToFurnace(f.EntityID(), catalogs.ItemStack{Item: it.Item, Count: it.Count}); err != nil {
					return fmt.Errorf("furnaces[%d]: %w", row, err)
				}
			}
			if fs.On {
				if err := w.SetOn(f.EntityID(), true); err != nil {
					return fmt.Errorf("furnaces[%d]: %w", row, err)
				}
			}
		}
	}
	return nil
}

type summary struct {
	Tick      uint64
	Furnaces  int
	Attached  int
	Producing int
	Stored    int // byproduct sitting in furnace containers
	Dropped   int // byproduct lying on the ground
}

func (s summary) String() string {
	return fmt.Sprintf("tick=%d furnaces=%d attached=%d producing=%d charcoal_stored=%d charcoal_dropped=%d",
		s.Tick, s.Furnaces, s.Attached, s.Producing, s.Stored, s.Dropped)
}

// summarize must run on the world goroutine.
func summarize(w *world.World, p *plugin.Plugin) summary {
	s := summary{Tick: w.CurrentTick()}
	for _, e := range w.Entities() {
		f, ok := e.(*world.Furnace)
		if !ok {
			continue
		}
		s.Furnaces++
		s.Stored += f.Inventory().Count(charcoal.Byproduct)
	}
	if ctl := p.Controller(); ctl != nil {
		s.Attached = ctl.Len()
		for _, b := range ctl.Behaviors() {
			if b.Producing() {
				s.Producing++
			}
		}
	}
	for _, it := range w.ItemEntities() {
		if it.Item == charcoal.Byproduct {
			s.Dropped += it.Count
		}
	}
	return s
}
