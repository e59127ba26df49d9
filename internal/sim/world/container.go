package world

import (
	"sort"

	"bettercharcoal.ai/internal/sim/catalogs"
)

// Item is a stack sitting in a container slot.
type Item struct {
	ID   string
	Name string

	amount int
	fuel   float64 // burn measure left in the unit being burned
	dirty  bool
	parent *Container
}

func (it *Item) Amount() int   { return it.amount }
func (it *Item) Fuel() float64 { return it.fuel }
func (it *Item) Dirty() bool   { return it.dirty }
func (it *Item) ClearDirty()   { it.dirty = false }
func (it *Item) MarkDirty()    { it.dirty = true }
func (it *Item) Removed() bool { return it.parent == nil }

func (it *Item) SetFuel(v float64) { it.fuel = v }

// Remove takes the whole stack out of its container.
func (it *Item) Remove() {
	if it.parent != nil {
		it.parent.removeItem(it)
	}
	it.amount = 0
}

// Use consumes n units, removing the stack when it runs out.
func (it *Item) Use(n int) {
	if n <= 0 {
		return
	}
	it.amount -= n
	if it.amount <= 0 {
		it.Remove()
		return
	}
	it.dirty = true
}

type Container struct {
	Capacity int

	slots []*Item
	full  bool
	cats  *catalogs.ItemCatalog
	newID func() string
}

func newContainer(capacity int, cats *catalogs.ItemCatalog, newID func() string) *Container {
	return &Container{Capacity: capacity, cats: cats, newID: newID}
}

// Items returns the occupied slots in slot order.
func (c *Container) Items() []*Item { return append([]*Item(nil), c.slots...) }

func (c *Container) Count(name string) int {
	n := 0
	for _, it := range c.slots {
		if it.Name == name {
			n += it.amount
		}
	}
	return n
}

// Full reports whether the container was marked full and has not been emptied since.
func (c *Container) Full() bool { return c.full }

func (c *Container) MarkFull() { c.full = true }

func (c *Container) stackLimit(name string) int {
	d, err := c.cats.Def(name)
	if err != nil {
		return catalogs.ItemDef{}.StackLimit()
	}
	return d.StackLimit()
}

// Insert places the whole stack, topping up existing stacks of the same item before
// opening new slots. Nothing is inserted when it does not fit.
func (c *Container) Insert(stack catalogs.ItemStack) bool {
	if stack.Item == "" || stack.Count <= 0 || c.full {
		return false
	}
	limit := c.stackLimit(stack.Item)
	space := (c.Capacity - len(c.slots)) * limit
	for _, it := range c.slots {
		if it.Name == stack.Item {
			space += limit - it.amount
		}
	}
	if space < stack.Count {
		return false
	}

	left := stack.Count
	for _, it := range c.slots {
		if left == 0 {
			break
		}
		if it.Name != stack.Item || it.amount >= limit {
			continue
		}
		n := min(limit-it.amount, left)
		it.amount += n
		it.dirty = true
		left -= n
	}
	for left > 0 {
		n := min(limit, left)
		c.slots = append(c.slots, &Item{ID: c.newID(), Name: stack.Item, amount: n, dirty: true, parent: c})
		left -= n
	}
	return true
}

// Take removes up to n units of name and returns how many were taken. Taking anything
// clears the full mark.
func (c *Container) Take(name string, n int) int {
	taken := 0
	for _, it := range c.Items() {
		if taken >= n {
			break
		}
		if it.Name != name {
			continue
		}
		k := min(it.amount, n-taken)
		it.Use(k)
		taken += k
	}
	if taken > 0 {
		c.full = false
	}
	return taken
}

// firstBurnable returns the first slot holding fuel.
func (c *Container) firstBurnable() (*Item, catalogs.Burnable, bool) {
	for _, it := range c.slots {
		d, err := c.cats.Def(it.Name)
		if err != nil || d.Burnable == nil {
			continue
		}
		return it, *d.Burnable, true
	}
	return nil, catalogs.Burnable{}, false
}

func (c *Container) removeItem(it *Item) {
	for i, s := range c.slots {
		if s == it {
			c.slots = append(c.slots[:i], c.slots[i+1:]...)
			break
		}
	}
	it.parent = nil
}

// Inventory sums the container by item, sorted by item id.
func (c *Container) Inventory() []catalogs.ItemStack {
	sum := map[string]int{}
	for _, it := range c.slots {
		sum[it.Name] += it.amount
	}
	out := make([]catalogs.ItemStack, 0, len(sum))
	for item, n := range sum {
		out = append(out, catalogs.ItemStack{Item: item, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}
