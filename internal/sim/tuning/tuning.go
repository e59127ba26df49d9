package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	// FuelBurnTicks is how many ticks one fuel consumption step takes.
	FuelBurnTicks    int     `yaml:"fuel_burn_ticks"`
	ItemDespawnTicks int     `yaml:"item_despawn_ticks"`
	FurnaceSlots     int     `yaml:"furnace_slots"`
	ElectricSlots    int     `yaml:"electric_furnace_slots"`
	DropSpeed        float64 `yaml:"drop_speed"`

	Players  []PlayerSeed  `yaml:"players"`
	Furnaces []FurnaceSeed `yaml:"furnaces"`
}

type PlayerSeed struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Connected   bool     `yaml:"connected"`
	Permissions []string `yaml:"permissions"`
}

// FurnaceSeed spawns Count furnaces owned by Owner when the world starts.
type FurnaceSeed struct {
	Owner    string     `yaml:"owner"`
	Count    int        `yaml:"count"`
	Electric bool       `yaml:"electric"`
	On       bool       `yaml:"on"`
	Fuel     []ItemSeed `yaml:"fuel"`
}

type ItemSeed struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:       30,
		FuelBurnTicks:    30,
		ItemDespawnTicks: 30 * 300,
		FurnaceSlots:     6,
		ElectricSlots:    4,
		DropSpeed:        1,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be > 0, got %d", t.TickRateHz)
	}
	if t.FuelBurnTicks <= 0 {
		return fmt.Errorf("fuel_burn_ticks must be > 0, got %d", t.FuelBurnTicks)
	}
	if t.FurnaceSlots <= 0 || t.ElectricSlots <= 0 {
		return fmt.Errorf("furnace slot counts must be > 0")
	}
	for i, f := range t.Furnaces {
		if f.Count < 0 {
			return fmt.Errorf("furnaces[%d]: count must be >= 0", i)
		}
	}
	return nil
}
