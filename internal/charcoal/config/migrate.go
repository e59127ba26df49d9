package config

import (
	"github.com/Masterminds/semver/v3"
)

// migration backfills the keys introduced at Version.
type migration struct {
	Version string
	Keys    []string
}

// Ascending by version. 1.0.0 covers documents written before versioning existed.
var migrations = []migration{
	{Version: "1.0.0", Keys: []string{
		KeyProductionEnabled,
		KeyYieldChance,
		KeyMinYield,
		KeyMaxYield,
		KeyProductionRate,
		KeyFuelConsumptionRate,
	}},
	{Version: "2.1.0", Keys: []string{KeyElectricIntervalSeconds}},
	{Version: "2.2.0", Keys: []string{KeyElectricEnabled}},
}

var zeroVersion = semver.MustParse("0.0.0")

// parseVersion treats missing or unparseable versions as 0.0.0 so that every rule
// applies to them.
func parseVersion(s string) *semver.Version {
	if s == "" {
		return zeroVersion
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return zeroVersion
	}
	return v
}

// CompareVersions orders a and b by major.minor.patch, numerically per segment.
func CompareVersions(a, b string) int {
	return parseVersion(a).Compare(parseVersion(b))
}

// NeedsMigration reports whether doc was written by an older schema than running.
func NeedsMigration(doc Document, running string) bool {
	return CompareVersions(doc.Version(), running) < 0
}

// Migrate returns a copy of doc with every rule in (doc.Version, running] applied and
// the version stamped to running. Rules only fill keys the document lacks, so an
// already-migrated value is never touched and migrating twice changes nothing.
func Migrate(doc Document, running string) Document {
	out := doc.Clone()
	from := parseVersion(doc.Version())
	to := parseVersion(running)
	if !from.LessThan(to) {
		return out
	}
	defaults := Defaults().Document()
	for _, m := range migrations {
		at := semver.MustParse(m.Version)
		if !from.LessThan(at) || at.GreaterThan(to) {
			continue
		}
		for _, k := range m.Keys {
			if _, ok := out[k]; ok {
				continue
			}
			out[k] = defaults[k]
		}
	}
	out[KeyVersion] = running
	return out
}
