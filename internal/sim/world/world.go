package world

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"sort"
	"time"

	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/mathx"
	"bettercharcoal.ai/internal/sim/permissions"
	"bettercharcoal.ai/internal/sim/sched"
)

type WorldConfig struct {
	ID               string
	TickRateHz       int
	Seed             int64
	FuelBurnTicks    int
	ItemDespawnTicks int
	FurnaceSlots     int
	ElectricSlots    int
	DropSpeed        float64
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.ItemCatalog
	logger   *log.Logger
	rng      *rand.Rand

	tick  uint64
	sched *sched.Scheduler
	hooks Hooks

	entities map[string]Entity
	order    []string // spawn order

	players map[string]*Player
	perms   *permissions.Registry

	items   map[string]*ItemEntity
	itemsAt map[mathx.Vec3][]string

	auditLogger AuditLogger

	nextEntityNum uint64
	nextItemNum   uint64
	nextStackNum  uint64

	ready    bool
	unloaded bool

	cmds chan func(*World)
	stop chan struct{}
}

func New(cfg WorldConfig, cats *catalogs.ItemCatalog) (*World, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("tick rate must be > 0")
	}
	if cfg.FuelBurnTicks <= 0 {
		cfg.FuelBurnTicks = cfg.TickRateHz
	}
	if cfg.ItemDespawnTicks <= 0 {
		cfg.ItemDespawnTicks = cfg.TickRateHz * 300
	}
	if cfg.FurnaceSlots <= 0 {
		cfg.FurnaceSlots = 6
	}
	if cfg.ElectricSlots <= 0 {
		cfg.ElectricSlots = 4
	}
	if cats == nil {
		cats = catalogs.Defaults()
	}
	return &World{
		cfg:      cfg,
		catalogs: cats,
		logger:   log.New(io.Discard, "", 0),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		sched:    sched.New(),
		hooks:    NopHooks{},
		entities: map[string]Entity{},
		players:  map[string]*Player{},
		perms:    permissions.NewRegistry(),
		items:    map[string]*ItemEntity{},
		itemsAt:  map[mathx.Vec3][]string{},
		cmds:     make(chan func(*World), 64),
		stop:     make(chan struct{}),
	}, nil
}

func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	w.logger = l
}

func (w *World) SetHooks(h Hooks) {
	if h == nil {
		h = NopHooks{}
	}
	w.hooks = h
}

func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

// SimRateHz is the configured tick rate.
func (w *World) SimRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.TickRateHz
}

func (w *World) CurrentTick() uint64 { return w.tick }

func (w *World) Scheduler() *sched.Scheduler { return w.sched }

func (w *World) Catalogs() *catalogs.ItemCatalog { return w.catalogs }

func (w *World) Permissions() *permissions.Registry { return w.perms }

// Rand is the world's seeded source; only the tick goroutine may draw from it.
func (w *World) Rand() *rand.Rand { return w.rng }

func (w *World) tickInterval() time.Duration {
	return time.Second / time.Duration(w.cfg.TickRateHz)
}

// Ready fires the world-ready hook once.
func (w *World) Ready() {
	if w.ready {
		return
	}
	w.ready = true
	w.logger.Printf("world %s ready: %d entities, %d players", w.cfg.ID, len(w.order), len(w.players))
	w.hooks.OnWorldReady()
}

// Unload fires the world-unloading hook once.
func (w *World) Unload() {
	if w.unloaded {
		return
	}
	w.unloaded = true
	w.hooks.OnWorldUnloading()
}

// Step advances the world by a single tick. Deferred work due within the tick runs
// before the tick's systems.
func (w *World) Step() {
	w.tick++
	w.sched.Advance(w.tickInterval())
	w.systemFuel()
	w.cleanupExpiredItemEntities(w.tick)
}

// CreateItem builds a stack of a catalog item.
func (w *World) CreateItem(name string, count int) (catalogs.ItemStack, error) {
	if count <= 0 {
		return catalogs.ItemStack{}, fmt.Errorf("create %s: count must be > 0", name)
	}
	if _, err := w.catalogs.Def(name); err != nil {
		return catalogs.ItemStack{}, err
	}
	return catalogs.ItemStack{Item: name, Count: count}, nil
}

// DropItem spawns stack as an item entity where a thrown stack would land.
func (w *World) DropItem(stack catalogs.ItemStack, pos, vel mathx.Vec3) {
	w.spawnItemEntity(w.tick, "WORLD", pos.Add(vel), stack.Item, stack.Count, "DROP")
}

func (w *World) auditEvent(tick uint64, actor string, action string, pos mathx.Vec3, reason string, details map[string]any) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:    tick,
		Actor:   actor,
		Action:  action,
		Pos:     pos.ToArray(),
		Reason:  reason,
		Details: details,
	})
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
