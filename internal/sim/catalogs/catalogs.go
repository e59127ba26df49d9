package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type ItemCatalog struct {
	Palette       []string
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"` // "FUEL","MATERIAL","ORE","TOOL"
	MaxStack int       `json:"max_stack"`
	Burnable *Burnable `json:"burnable,omitempty"`
}

// Burnable describes how an item behaves as furnace fuel.
type Burnable struct {
	// FuelAmount is the burn measure one unit carries.
	FuelAmount float64 `json:"fuel_amount"`
	// Byproduct is the item left behind by burning, empty when there is none.
	Byproduct string `json:"byproduct,omitempty"`
	// ByproductChance is the per-unit chance in [0,1] used by the default burn.
	ByproductChance float64 `json:"byproduct_chance,omitempty"`
	ByproductAmount int     `json:"byproduct_amount,omitempty"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

const defaultMaxStack = 1000

// Load reads items.json from configDir.
func Load(configDir string) (*ItemCatalog, error) {
	var c ItemCatalog
	if err := loadItems(filepath.Join(configDir, "items.json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Defaults is the builtin catalog used when no items.json is shipped.
func Defaults() *ItemCatalog {
	defs := []ItemDef{
		{ID: "wood", Kind: "FUEL", MaxStack: 1000, Burnable: &Burnable{FuelAmount: 10, Byproduct: "charcoal", ByproductChance: 0.25, ByproductAmount: 1}},
		{ID: "lowgradefuel", Kind: "FUEL", MaxStack: 500, Burnable: &Burnable{FuelAmount: 10}},
		{ID: "charcoal", Kind: "MATERIAL", MaxStack: 1000},
		{ID: "metal.ore", Kind: "ORE", MaxStack: 1000},
		{ID: "metal.fragments", Kind: "MATERIAL", MaxStack: 1000},
		{ID: "sulfur.ore", Kind: "ORE", MaxStack: 1000},
		{ID: "sulfur", Kind: "MATERIAL", MaxStack: 1000},
	}
	return FromDefs(defs)
}

// FromDefs builds a catalog from in-memory definitions.
func FromDefs(defs []ItemDef) *ItemCatalog {
	c := &ItemCatalog{}
	raw, _ := json.Marshal(defs)
	c.DefsDigest = sha256Hex(raw)
	c.index(defs)
	return c
}

// Def returns the definition for id, with a suggestion in the error when the name is
// close to a known item.
func (c *ItemCatalog) Def(id string) (ItemDef, error) {
	if c == nil {
		return ItemDef{}, fmt.Errorf("unknown item %q", id)
	}
	if d, ok := c.Defs[id]; ok {
		return d, nil
	}
	if s := c.Suggest(id); s != "" {
		return ItemDef{}, fmt.Errorf("unknown item %q (did you mean %q?)", id, s)
	}
	return ItemDef{}, fmt.Errorf("unknown item %q", id)
}

// Suggest returns the closest known item id, or "" when nothing is near enough.
func (c *ItemCatalog) Suggest(id string) string {
	needle := strings.ToLower(strings.TrimSpace(id))
	if needle == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, cand := range c.Palette {
		dist := levenshtein.ComputeDistance(needle, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best = cand
			bestDist = dist
		}
	}
	return best
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func (d ItemDef) StackLimit() int {
	if d.MaxStack <= 0 {
		return defaultMaxStack
	}
	return d.MaxStack
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if b := d.Burnable; b != nil && b.FuelAmount <= 0 {
			return fmt.Errorf("items.json: %s: fuel_amount must be > 0", d.ID)
		}
	}
	out.index(defs)
	for _, d := range defs {
		if b := d.Burnable; b != nil && b.Byproduct != "" {
			if _, ok := out.Defs[b.Byproduct]; !ok {
				return fmt.Errorf("items.json: %s: unknown byproduct %q", d.ID, b.Byproduct)
			}
		}
	}
	return nil
}

func (c *ItemCatalog) index(defs []ItemDef) {
	c.Defs = map[string]ItemDef{}
	for _, d := range defs {
		c.Defs[d.ID] = d
	}
	ids := make([]string, 0, len(c.Defs))
	for id := range c.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	c.Palette = ids
	palJSON, _ := json.Marshal(ids)
	c.PaletteDigest = sha256Hex(palJSON)
}
