package config

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Load reads the settings from store. The returned Configuration is always usable:
//   - no document: defaults, written back to the store;
//   - unreadable or malformed document: defaults plus a warning, the stored document is
//     left untouched;
//   - older document: migrated to running and written back immediately.
//
// The error is non-nil only when writing the store failed.
func Load(store Store, running string, logger *log.Logger) (Configuration, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	defaults := Defaults()
	defaults.SchemaVersion = running

	raw, err := store.Read()
	if errors.Is(err, ErrNotFound) {
		logger.Printf("creating default settings (version %s)", running)
		return defaults, save(store, defaults.Document())
	}
	if err != nil {
		logger.Printf("warning: read settings: %v; using defaults", err)
		return defaults, nil
	}

	doc, err := Parse(raw)
	if err != nil {
		logger.Printf("warning: %v; using defaults", err)
		return defaults, nil
	}

	migrated := false
	if NeedsMigration(doc, running) {
		from := doc.Version()
		logger.Printf("warning: detected changes in settings, updating")
		doc = Migrate(doc, running)
		migrated = true
		logger.Printf("warning: settings update complete, updated from version %q to %s", from, running)
	}

	cfg, err := decodeValid(doc)
	if err != nil {
		logger.Printf("warning: %v; using defaults", err)
		return defaults, nil
	}
	if migrated {
		return cfg, save(store, doc)
	}
	return cfg, nil
}

func decodeValid(doc Document) (Configuration, error) {
	if err := ValidateDocument(doc); err != nil {
		return Configuration{}, err
	}
	cfg, err := doc.Decode()
	if err != nil {
		return Configuration{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}

func save(store Store, doc Document) error {
	raw, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := store.Write(raw); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
