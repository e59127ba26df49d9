package main

import (
	"os"
	"path/filepath"
	"testing"

	"bettercharcoal.ai/internal/charcoal"
	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/charcoal/plugin"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/tuning"
	"bettercharcoal.ai/internal/sim/world"
)

func TestSeedWorldAndSummarize(t *testing.T) {
	tune := tuning.Defaults()
	tune.Players = []tuning.PlayerSeed{
		{ID: "P1", Name: "alice", Connected: true, Permissions: []string{charcoal.PermissionUse}},
		{ID: "P2", Name: "bob", Connected: true},
	}
	tune.Furnaces = []tuning.FurnaceSeed{
		{Owner: "P1", Count: 3, On: true, Fuel: []tuning.ItemSeed{{Item: "wood", Count: 10}}},
		{Owner: "P1", Count: 2, Electric: true, On: true},
		{Owner: "P2", Count: 1},
	}

	w, err := world.New(world.WorldConfig{ID: "test", TickRateHz: tune.TickRateHz, FuelBurnTicks: tune.FuelBurnTicks}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	cfg := config.Defaults()
	cfg.ElectricProductionEnabled = true
	p := plugin.New(w, cfg, plugin.Options{})
	if err := p.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := seedWorld(w, tune); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w.Ready()

	s := summarize(w, p)
	if s.Furnaces != 6 || s.Attached != 6 {
		t.Fatalf("furnaces=%d attached=%d", s.Furnaces, s.Attached)
	}
	if s.Producing != 2 {
		t.Fatalf("producing=%d want the two powered electric furnaces", s.Producing)
	}
	if s.String() == "" {
		t.Fatalf("empty summary")
	}
}

func TestSeedWorldRejectsUnregisteredPermission(t *testing.T) {
	tune := tuning.Defaults()
	tune.Players = []tuning.PlayerSeed{{ID: "P1", Permissions: []string{"other.use"}}}
	w, err := world.New(world.WorldConfig{ID: "test", TickRateHz: 30}, nil)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	if err := seedWorld(w, tune); err == nil {
		t.Fatalf("expected an error granting an unregistered permission")
	}
}

func TestOpenSettingsStore(t *testing.T) {
	dir := t.TempDir()
	store, closeStore, err := openSettingsStore(dir, "")
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := config.Load(store, config.RunningVersion, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	closeStore()
	if _, err := os.Stat(filepath.Join(dir, plugin.Name+".yaml")); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	store, closeStore, err = openSettingsStore(dir, filepath.Join(dir, "db", "settings.db"))
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	defer closeStore()
	if _, err := config.Load(store, config.RunningVersion, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.Read(); err != nil {
		t.Fatalf("sqlite store empty after load: %v", err)
	}
}

func TestShippedConfigsLoad(t *testing.T) {
	dir := filepath.Join("..", "..", "configs")
	cats, err := catalogs.Load(dir)
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(dir, "tuning.yaml"))
	if err != nil {
		t.Fatalf("tuning: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, plugin.Name+".yaml"))
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	store := &config.MemoryStore{Raw: raw}
	cfg, err := config.Load(store, config.RunningVersion, nil)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if store.Writes != 0 {
		t.Fatalf("shipped settings needed a migration")
	}

	w, err := world.New(world.WorldConfig{ID: "shipped", TickRateHz: tune.TickRateHz, FuelBurnTicks: tune.FuelBurnTicks}, cats)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	p := plugin.New(w, cfg, plugin.Options{})
	if err := p.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := seedWorld(w, tune); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w.Ready()
	for i := 0; i < tune.FuelBurnTicks*10; i++ {
		w.Step()
	}
	if s := summarize(w, p); s.Furnaces != 8 || s.Attached != 8 {
		t.Fatalf("summary: %s", s)
	}
}
