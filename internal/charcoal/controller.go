package charcoal

import (
	"io"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"bettercharcoal.ai/internal/charcoal/config"
	"bettercharcoal.ai/internal/sim/sched"
)

const (
	// ScanThrottleHz is the simulation rate above which the startup scan yields
	// between entities.
	ScanThrottleHz = 80
	// ScanYieldDelay is how long the scan sleeps between entities when throttled.
	ScanYieldDelay = 10 * time.Millisecond
	// TimerStartDelay is the delay before a powered furnace's first timed yield.
	TimerStartDelay = time.Second
)

type Options struct {
	Config    config.Configuration
	World     World
	Auth      Authorizer
	Scheduler *sched.Scheduler
	// Rand drives the chance gate and yield sizes. Nil seeds from the clock.
	Rand   *rand.Rand
	Events EventSink
	// RunID tags every event of this controller; empty generates one.
	RunID  string
	Logger *log.Logger
}

// Controller owns every attached Behavior.
type Controller struct {
	cfg    config.Configuration
	world  World
	auth   Authorizer
	sched  *sched.Scheduler
	rng    *rand.Rand
	events EventSink
	runID  string
	logger *log.Logger

	behaviors map[string]*Behavior
	scan      *sched.Task

	eventErrLogged bool
}

func NewController(opts Options) *Controller {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := opts.Scheduler
	if s == nil {
		s = sched.New()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Controller{
		cfg:       opts.Config,
		world:     opts.World,
		auth:      opts.Auth,
		sched:     s,
		rng:       rng,
		events:    opts.Events,
		runID:     runID,
		logger:    logger,
		behaviors: map[string]*Behavior{},
	}
}

func (c *Controller) Config() config.Configuration { return c.cfg }

// RunID tags this controller's events.
func (c *Controller) RunID() string { return c.runID }

// Len reports how many behaviors are attached.
func (c *Controller) Len() int {
	c.prune()
	return len(c.behaviors)
}

// Behavior returns the behavior attached to entity id, if any.
func (c *Controller) Behavior(id string) *Behavior {
	b := c.behaviors[id]
	if b != nil && !b.furnace.IsValid() {
		b.Destroy("entity invalid")
		return nil
	}
	return b
}

// Behaviors returns the attached behaviors ordered by entity id.
func (c *Controller) Behaviors() []*Behavior {
	c.prune()
	out := make([]*Behavior, 0, len(c.behaviors))
	for _, b := range c.behaviors {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// prune destroys behaviors whose furnace went away without a destroy notification.
func (c *Controller) prune() {
	for _, b := range c.behaviors {
		if !b.furnace.IsValid() {
			b.Destroy("entity invalid")
		}
	}
}

// AttachOne attaches a behavior to e when it is a live furnace without one. It returns
// the behavior now attached to e (nil for anything else) and whether it was created here.
func (c *Controller) AttachOne(e Entity) (*Behavior, bool) {
	f, ok := e.(Furnace)
	if !ok || f == nil || !f.IsValid() {
		return nil, false
	}
	id := f.EntityID()
	if b := c.Behavior(id); b != nil {
		return b, false
	}
	b := newBehavior(c, f)
	c.Register(b)
	c.emit(Event{Kind: EventAttach, EntityID: id})
	return b, true
}

// Register adds b to the attached set. Registering an already registered behavior is
// a no-op; a second behavior for the same entity is refused.
func (c *Controller) Register(b *Behavior) bool {
	if b == nil || b.destroyed {
		return false
	}
	if cur := c.behaviors[b.id]; cur != nil {
		return cur == b
	}
	c.behaviors[b.id] = b
	return true
}

// Unregister removes b from the attached set. Unknown behaviors are ignored.
func (c *Controller) Unregister(b *Behavior) {
	if b == nil {
		return
	}
	if c.behaviors[b.id] == b {
		delete(c.behaviors, b.id)
	}
}

// EntityDestroyed tears down the behavior of a destroyed entity, if it had one.
func (c *Controller) EntityDestroyed(id string) {
	if b := c.behaviors[id]; b != nil {
		b.Destroy("entity destroyed")
	}
}

// DetachAll destroys every attached behavior.
func (c *Controller) DetachAll() {
	for _, b := range c.Behaviors() {
		b.Destroy("detach all")
	}
}

// Stop cancels an in-flight scan and detaches everything.
func (c *Controller) Stop() {
	c.CancelScan()
	c.DetachAll()
}

// Eligible reports whether f's owner is a valid player holding PermissionUse.
func (c *Controller) Eligible(f Furnace) bool {
	if f == nil || c.auth == nil {
		return false
	}
	owner := f.OwnerID()
	if owner == "" || !c.auth.PlayerValid(owner) {
		return false
	}
	return c.auth.HasPermission(owner, PermissionUse)
}

// randRange draws uniformly from [lo, hi], both ends included.
func (c *Controller) randRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.Intn(hi-lo+1)
}
