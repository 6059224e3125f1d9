// Package storage keeps JSON documents on the local filesystem under a
// base directory, one file per key.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrInvalidKey = errors.New("invalid key segment")
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// SafeSegment checks that s can be used as a single path component.
func SafeSegment(s string) error {
	if s == "." || s == ".." || !segmentPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return nil
}

type DocumentStore struct{ base string }

func NewDocumentStore(base string) (*DocumentStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &DocumentStore{base: base}, nil
}

func (s *DocumentStore) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return filepath.Join(s.base, filepath.Clean("/"+key)), nil
}

// SaveJSON writes v as indented JSON. The document is written to a temp
// file in the same directory and renamed into place, so readers never see
// a partial write.
func (s *DocumentStore) SaveJSON(key string, v any) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// LoadJSON decodes the document at key into v, or returns ErrNotFound.
func (s *DocumentStore) LoadJSON(key string, v any) error {
	src, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
