package settingsdb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bettercharcoal.ai/internal/charcoal/config"
)

// SQLiteStore keeps named settings documents in SQLite. Every write is also appended
// to a history table with the document's version and digest.
type SQLiteStore struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

var _ config.Store = (*SQLiteStore)(nil)

func OpenSQLite(path, name string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if name == "" {
		return nil, fmt.Errorf("empty settings name")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, name: name, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			doc BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			digest TEXT NOT NULL,
			written_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS settings_history_name ON settings_history(name, id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Read() ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT doc FROM settings WHERE name=?`, s.name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, config.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", s.name, err)
	}
	return doc, nil
}

func (s *SQLiteStore) Write(raw []byte) error {
	at := s.now().UTC().Format(time.RFC3339Nano)
	version := "unknown"
	if doc, err := config.Parse(raw); err == nil {
		version = doc.Version()
	}
	sum := sha256.Sum256(raw)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO settings(name, doc, updated_at) VALUES(?,?,?)`, s.name, raw, at); err != nil {
		return fmt.Errorf("write settings %s: %w", s.name, err)
	}
	if _, err := tx.Exec(`INSERT INTO settings_history(name, version, digest, written_at) VALUES(?,?,?,?)`,
		s.name, version, hex.EncodeToString(sum[:]), at); err != nil {
		return fmt.Errorf("write settings history %s: %w", s.name, err)
	}
	return tx.Commit()
}

// Revision is one recorded write.
type Revision struct {
	Version   string
	Digest    string
	WrittenAt string
}

// History lists the writes of this store's document, oldest first.
func (s *SQLiteStore) History() ([]Revision, error) {
	rows, err := s.db.Query(`SELECT version, digest, written_at FROM settings_history WHERE name=? ORDER BY id`, s.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.Version, &r.Digest, &r.WrittenAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
