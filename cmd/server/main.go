package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/charcoal/plugin"
	persistlog "bettercharcoal.ai/internal/persistence/log"
	"bettercharcoal.ai/internal/persistence/settingsdb"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/tuning"
	"bettercharcoal.ai/internal/sim/world"
)

func main() {
	var (
		worldID     = flag.String("world", "world_1", "world id")
		seed        = flag.Int64("seed", 1337, "world seed")
		configDir   = flag.String("configs", "./configs", "config directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		settingsDB  = flag.String("settings_db", "", "sqlite database for plugin settings (default: <configs>/BetterCharcoal.yaml)")
		reportEvery = flag.Duration("report_every", time.Minute, "production summary interval (0 disables)")
	)
	flag.Parse()

	flags := log.LstdFlags | log.Lmicroseconds
	logger := log.New(os.Stdout, "[server] ", flags)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatalf("load catalogs: %v", err)
		}
		logger.Printf("items.json not found in %s; using builtin catalog", *configDir)
		cats = catalogs.Defaults()
	}
	logger.Printf("catalog items=%d palette_digest=%s defs_digest=%s", len(cats.Palette), cats.PaletteDigest, cats.DefsDigest)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	store, closeStore, err := openSettingsStore(*configDir, *settingsDB)
	if err != nil {
		logger.Fatalf("open settings store: %v", err)
	}
	defer closeStore()
	pluginLogger := log.New(os.Stdout, "[charcoal] ", flags)
	cfg, err := config.Load(store, config.RunningVersion, pluginLogger)
	if err != nil {
		logger.Printf("warning: %v", err)
	}

	w, err := world.New(world.WorldConfig{
		ID:               *worldID,
		TickRateHz:       tune.TickRateHz,
		Seed:             *seed,
		FuelBurnTicks:    tune.FuelBurnTicks,
		ItemDespawnTicks: tune.ItemDespawnTicks,
		FurnaceSlots:     tune.FurnaceSlots,
		ElectricSlots:    tune.ElectricSlots,
		DropSpeed:        tune.DropSpeed,
	}, cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	w.SetLogger(log.New(os.Stdout, "[world] ", flags))

	worldDir := filepath.Join(*dataDir, "worlds", *worldID)
	_ = os.MkdirAll(worldDir, 0o755)
	auditLog := persistlog.NewAuditLogger(worldDir)
	defer auditLog.Close()
	w.SetAuditLogger(auditLog)

	// The plugin closes the event log when it unloads.
	p := plugin.New(w, cfg, plugin.Options{
		Events: persistlog.NewProductionLogger(worldDir),
		Logger: pluginLogger,
	})
	if err := p.Init(); err != nil {
		logger.Fatalf("plugin init: %v", err)
	}
	if err := seedWorld(w, tune); err != nil {
		logger.Fatalf("seed world: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if *reportEvery > 0 {
		go reportLoop(ctx, w, p, *reportEvery, logger)
	}

	logger.Printf("world=%s tick_rate=%d entities=%d settings=%s", *worldID, tune.TickRateHz, len(w.Entities()), cfg.SchemaVersion)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("world stopped: %v", err)
	}
	logger.Printf("shutdown complete at tick %d", w.CurrentTick())
}

func openSettingsStore(configDir, dbPath string) (config.Store, func(), error) {
	if p := strings.TrimSpace(dbPath); p != "" {
		s, err := settingsdb.OpenSQLite(p, plugin.Name)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return config.NewFileStore(filepath.Join(configDir, plugin.Name+".yaml")), func() {}, nil
}

func reportLoop(ctx context.Context, w *world.World, p *plugin.Plugin, every time.Duration, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = w.Do(ctx, func(w *world.World) {
				logger.Printf("%s", summarize(w, p))
			})
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
