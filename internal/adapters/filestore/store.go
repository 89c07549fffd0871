// Package filestore persists captured records as a single human-readable
// JSON document, rewritten in full on every successful insert. Last writer
// wins; multi-process coordination is explicitly out of scope.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rfarias/geocapture/internal/core/domain"
)

// Store implements ports.RecordRepository over one JSON file. The in-memory
// slice mirrors the file exactly: a failed write leaves both untouched.
type Store struct {
	path string

	mu      sync.Mutex
	records []domain.CapturedRecord
}

// Open loads the record collection at path. A missing file is an empty
// store; the file is created on first insert.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read record store: %w", err)
	}

	// A touched-but-never-written file counts as empty, same as no file.
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse record store %s: %w", path, err)
	}
	return s, nil
}

// Insert applies the dedup guard and appends the record. added is false when
// an equivalent record already exists (no mutation). The sequence number is
// the current record count plus one.
func (s *Store) Insert(ctx context.Context, rec domain.CapturedRecord) (domain.CapturedRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if domain.Equivalent(existing, rec) {
			return domain.CapturedRecord{}, false, nil
		}
	}

	rec.Seq = len(s.records) + 1

	next := make([]domain.CapturedRecord, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, rec)

	if err := s.rewrite(next); err != nil {
		return domain.CapturedRecord{}, false, err
	}

	s.records = next
	return rec, true, nil
}

// rewrite serializes the whole collection and swaps it in atomically so a
// partial write never replaces a good file.
func (s *Store) rewrite(records []domain.CapturedRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".records-*.json")
	if err != nil {
		return fmt.Errorf("write record store: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write record store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write record store: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write record store: %w", err)
	}
	return nil
}

// List returns all records in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.CapturedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CapturedRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// GetBySeq returns the record with the given sequence number.
func (s *Store) GetBySeq(ctx context.Context, seq int) (*domain.CapturedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].Seq == seq {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("record %d not found", seq)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}
