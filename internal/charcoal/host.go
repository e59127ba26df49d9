// Package charcoal makes furnaces yield charcoal as a byproduct of burning fuel, and
// lets powered electric furnaces yield it on a recurring timer.
//
// A Controller owns one Behavior per furnace, kept in a side table keyed by entity id.
// Everything here runs on the world's tick goroutine; none of it is safe for concurrent
// use.
package charcoal

import (
	"bettercharcoal.ai/internal/sim/catalogs"
	"bettercharcoal.ai/internal/sim/mathx"
)

// PermissionUse is the grant a furnace owner needs for augmented production.
const PermissionUse = "bettercharcoal.use"

// Byproduct is the item the production algorithm creates.
const Byproduct = "charcoal"

// Entity is anything in the world registry.
type Entity interface {
	EntityID() string
	IsValid() bool
}

// Furnace is a fuel burning entity with an inventory.
type Furnace interface {
	Entity
	OwnerID() string
	IsElectric() bool
	IsOn() bool
	AllowByproductCreation() bool
	// MoveToInventory moves stack into the furnace container, stacking onto existing
	// slots and without forcing a slot. It reports false when the container rejects it.
	MoveToInventory(stack catalogs.ItemStack) bool
	// MarkFull tells the furnace its output is full so it stops taking items in.
	MarkFull()
	DropPoint() (pos, vel mathx.Vec3)
}

// Fuel is the item stack a furnace is burning.
type Fuel interface {
	Amount() int
	Remove()
	Use(n int)
	SetFuel(v float64)
	MarkDirty()
}

// World is the part of the host the controller needs.
type World interface {
	// Entities lists live entities in registry order.
	Entities() []Entity
	// SimRateHz is the configured simulation rate.
	SimRateHz() int
	CreateItem(name string, count int) (catalogs.ItemStack, error)
	DropItem(stack catalogs.ItemStack, pos, vel mathx.Vec3)
}

// Authorizer resolves furnace owners and their grants.
type Authorizer interface {
	// PlayerValid reports whether id resolves to a currently valid player.
	PlayerValid(id string) bool
	HasPermission(playerID, perm string) bool
}
