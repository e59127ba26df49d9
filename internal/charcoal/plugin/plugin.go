// Package plugin installs the charcoal controller into a world: it registers the
// permission, subscribes to the world hooks and adapts the world to the controller's
// collaborator interfaces.
package plugin

import (
	"io"
	"log"
	"math/rand"

	"bettercharcoal.ai/internal/charcoal"
	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/world"
)

// Name owns the permission in the registry.
const Name = "BetterCharcoal"

type Options struct {
	// Events receives production events. It is closed on Unload when it is an
	// io.Closer.
	Events charcoal.EventSink
	// Rand defaults to the world's source.
	Rand   *rand.Rand
	Logger *log.Logger
}

type Plugin struct {
	w      *world.World
	cfg    config.Configuration
	opts   Options
	logger *log.Logger

	ctl      *charcoal.Controller
	unloaded bool
}

var _ world.Hooks = (*Plugin)(nil)

func New(w *world.World, cfg config.Configuration, opts Options) *Plugin {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Plugin{w: w, cfg: cfg, opts: opts, logger: logger}
}

// Controller is nil until Init succeeds.
func (p *Plugin) Controller() *charcoal.Controller { return p.ctl }

// Init registers the use permission, builds the controller and subscribes to the
// world.
func (p *Plugin) Init() error {
	if err := p.w.Permissions().Register(charcoal.PermissionUse, Name); err != nil {
		return err
	}
	rng := p.opts.Rand
	if rng == nil {
		rng = p.w.Rand()
	}
	p.ctl = charcoal.NewController(charcoal.Options{
		Config:    p.cfg,
		World:     host{p.w},
		Auth:      p.w,
		Scheduler: p.w.Scheduler(),
		Rand:      rng,
		Events:    p.opts.Events,
		Logger:    p.logger,
	})
	p.w.SetHooks(p)
	return nil
}

// OnServerInitialized starts the bulk scan.
func (p *Plugin) OnServerInitialized() {
	if p.ctl == nil {
		return
	}
	p.ctl.ScanAndAttachAll()
}

// Unload cancels the scan, detaches every behavior and closes the event log.
func (p *Plugin) Unload() {
	if p.ctl == nil || p.unloaded {
		return
	}
	p.unloaded = true
	p.ctl.Stop()
	p.w.SetHooks(nil)
	if c, ok := p.opts.Events.(io.Closer); ok {
		if err := c.Close(); err != nil {
			p.logger.Printf("warning: close event log: %v", err)
		}
	}
}

func (p *Plugin) OnWorldReady()     { p.OnServerInitialized() }
func (p *Plugin) OnWorldUnloading() { p.Unload() }

func (p *Plugin) OnEntitySpawned(e world.Entity) {
	if f, ok := e.(*world.Furnace); ok && p.ctl != nil {
		p.ctl.AttachOne(f)
	}
}

func (p *Plugin) OnEntityKilled(e world.Entity) {
	if p.ctl != nil {
		p.ctl.EntityDestroyed(e.EntityID())
	}
}

// OnFuelConsume takes over the burn step of eligible furnaces.
func (p *Plugin) OnFuelConsume(f *world.Furnace, fuel *world.Item, burnable catalogs.Burnable) bool {
	if p.ctl == nil || !p.ctl.Eligible(f) {
		return false
	}
	b := p.behavior(f)
	if b == nil {
		return false
	}
	b.ConsumeFuel(fuel, burnable)
	return true
}

// OnOvenToggle powers the timer of eligible electric furnaces up or down.
func (p *Plugin) OnOvenToggle(f *world.Furnace, on bool) {
	if p.ctl == nil || !f.IsElectric() || !p.cfg.ElectricProductionEnabled || !p.ctl.Eligible(f) {
		return
	}
	if b := p.behavior(f); b != nil {
		b.SetPowered(on)
	}
}

func (p *Plugin) behavior(f *world.Furnace) *charcoal.Behavior {
	if b := p.ctl.Behavior(f.EntityID()); b != nil {
		return b
	}
	b, _ := p.ctl.AttachOne(f)
	return b
}

// host narrows the world's entity list to the controller's Entity type.
type host struct{ *world.World }

func (h host) Entities() []charcoal.Entity {
	ents := h.World.Entities()
	out := make([]charcoal.Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, e)
	}
	return out
}
