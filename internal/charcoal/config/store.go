package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a Store that holds no settings document yet.
var ErrNotFound = errors.New("settings not found")

// Store persists the raw settings document.
type Store interface {
	Read() ([]byte, error)
	Write(raw []byte) error
}

// FileStore keeps the document in a single file, written atomically.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (s *FileStore) Read() ([]byte, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *FileStore) Write(raw []byte) error {
	if s.Path == "" {
		return fmt.Errorf("settings file: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// MemoryStore is a Store backed by a byte slice.
type MemoryStore struct {
	Raw    []byte
	Writes int
}

func (s *MemoryStore) Read() ([]byte, error) {
	if s.Raw == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), s.Raw...), nil
}

func (s *MemoryStore) Write(raw []byte) error {
	s.Raw = append([]byte(nil), raw...)
	s.Writes++
	return nil
}
