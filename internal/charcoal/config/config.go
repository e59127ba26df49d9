// Package config holds the charcoal production settings: the document persisted by the
// host, its schema, versioned migration, and the immutable Configuration decoded from it.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RunningVersion is the settings schema version this build writes.
const RunningVersion = "2.2.0"

// Document keys. They are the labels operators see in the settings file.
const (
	KeyVersion                 = "Version"
	KeyProductionEnabled       = "Enable Charcoal Production"
	KeyYieldChance             = "Charcoal Yield Chance"
	KeyMinYield                = "Lowest Charcoal Yield"
	KeyMaxYield                = "Highest Charcoal Yield"
	KeyProductionRate          = "Charcoal Production Rate"
	KeyFuelConsumptionRate     = "Fuel Consumption Rate"
	KeyElectricEnabled         = "Enable Electric Furnace Charcoal Production"
	KeyElectricIntervalSeconds = "Electric Furnace Charcoal Yield Interval"
)

// Configuration is read-only once loaded; a reload replaces it wholesale.
type Configuration struct {
	SchemaVersion                 string  `yaml:"Version"`
	ProductionEnabled             bool    `yaml:"Enable Charcoal Production"`
	YieldChancePercent            int     `yaml:"Charcoal Yield Chance"`
	MinYield                      int     `yaml:"Lowest Charcoal Yield"`
	MaxYield                      int     `yaml:"Highest Charcoal Yield"`
	ProductionRateMultiplier      int     `yaml:"Charcoal Production Rate"`
	FuelConsumptionRateMultiplier int     `yaml:"Fuel Consumption Rate"`
	ElectricProductionEnabled     bool    `yaml:"Enable Electric Furnace Charcoal Production"`
	ElectricYieldIntervalSeconds  float64 `yaml:"Electric Furnace Charcoal Yield Interval"`
}

func Defaults() Configuration {
	return Configuration{
		SchemaVersion:                 RunningVersion,
		ProductionEnabled:             true,
		YieldChancePercent:            75,
		MinYield:                      1,
		MaxYield:                      1,
		ProductionRateMultiplier:      1,
		FuelConsumptionRateMultiplier: 1,
		ElectricProductionEnabled:     false,
		ElectricYieldIntervalSeconds:  2,
	}
}

// Validate checks the cross-field rules the schema cannot express.
func (c Configuration) Validate() error {
	if c.YieldChancePercent < 0 || c.YieldChancePercent > 100 {
		return fmt.Errorf("%s must be within [0,100], got %d", KeyYieldChance, c.YieldChancePercent)
	}
	if c.MinYield < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyMinYield, c.MinYield)
	}
	if c.MaxYield < c.MinYield {
		return fmt.Errorf("%s (%d) is below %s (%d)", KeyMaxYield, c.MaxYield, KeyMinYield, c.MinYield)
	}
	if c.ProductionRateMultiplier < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyProductionRate, c.ProductionRateMultiplier)
	}
	if c.FuelConsumptionRateMultiplier < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", KeyFuelConsumptionRate, c.FuelConsumptionRateMultiplier)
	}
	if !(c.ElectricYieldIntervalSeconds > 0) {
		return fmt.Errorf("%s must be > 0, got %v", KeyElectricIntervalSeconds, c.ElectricYieldIntervalSeconds)
	}
	return nil
}

// Document is the persisted key/value form of a Configuration.
type Document map[string]any

// Document renders c with every key present.
func (c Configuration) Document() Document {
	return Document{
		KeyVersion:                 c.SchemaVersion,
		KeyProductionEnabled:       c.ProductionEnabled,
		KeyYieldChance:             c.YieldChancePercent,
		KeyMinYield:                c.MinYield,
		KeyMaxYield:                c.MaxYield,
		KeyProductionRate:          c.ProductionRateMultiplier,
		KeyFuelConsumptionRate:     c.FuelConsumptionRateMultiplier,
		KeyElectricEnabled:         c.ElectricProductionEnabled,
		KeyElectricIntervalSeconds: c.ElectricYieldIntervalSeconds,
	}
}

// Version returns the document's schema version, or "" when it carries none.
func (d Document) Version() string {
	s, _ := d[KeyVersion].(string)
	return s
}

// Clone returns a shallow copy; values are scalars.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Decode converts the document into a Configuration. Keys the document lacks keep
// their zero value; run Migrate first to backfill them.
func (d Document) Decode() (Configuration, error) {
	var c Configuration
	raw, err := yaml.Marshal(map[string]any(d))
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("decode settings: %w", err)
	}
	return c, nil
}

// Encode renders the document as YAML.
func (d Document) Encode() ([]byte, error) {
	return yaml.Marshal(map[string]any(d))
}

// Parse decodes a YAML (or JSON) settings document.
func Parse(raw []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("parse settings: empty document")
	}
	return d, nil
}
