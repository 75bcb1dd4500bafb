package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// JSONStore persists named collections of keyed records to a single
// JSON file. The whole dataset lives in memory; every mutation writes
// the file back atomically.
type JSONStore struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]json.RawMessage
}

func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path: path,
		data: make(map[string]map[string]json.RawMessage),
	}

	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("starting with empty store")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	if len(buf) > 0 {
		if err := json.Unmarshal(buf, &s.data); err != nil {
			return nil, fmt.Errorf("parsing store file: %w", err)
		}
	}

	log.Info().Str("path", path).Int("collections", len(s.data)).Msg("loaded store")

	return s, nil
}

func (s *JSONStore) Get(_ context.Context, collection, key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[collection][key]
	s.mu.Unlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}

	return true, nil
}

func (s *JSONStore) Set(_ context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][key] = raw

	return s.persist()
}

func (s *JSONStore) Update(_ context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[collection][key]
	if !ok {
		return fmt.Errorf("updating %s/%s: record not found", collection, key)
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}

	for k, v := range fields {
		record[k] = v
	}

	merged, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}
	s.data[collection][key] = merged

	return s.persist()
}

func (s *JSONStore) Delete(_ context.Context, collection, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.data[collection][key]
	if !ok {
		return false, nil
	}

	delete(s.data[collection], key)

	return true, s.persist()
}

func (s *JSONStore) Has(_ context.Context, collection, key string) (bool, error) {
	s.mu.Lock()
	_, ok := s.data[collection][key]
	s.mu.Unlock()

	return ok, nil
}

func (s *JSONStore) Find(_ context.Context, collection string, filter map[string]any, out any) error {
	s.mu.Lock()
	raws := make([]json.RawMessage, 0)
	for _, raw := range s.data[collection] {
		matched, err := matches(raw, filter)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if matched {
			raws = append(raws, raw)
		}
	}
	s.mu.Unlock()

	all, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	return json.Unmarshal(all, out)
}

func (s *JSONStore) All(ctx context.Context, collection string, out any) error {
	return s.Find(ctx, collection, nil, out)
}

// matches compares filter fields against the record after JSON
// normalization, so callers can filter on numbers without caring about
// decode types.
func matches(raw json.RawMessage, filter map[string]any) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		return false, fmt.Errorf("decoding record: %w", err)
	}

	for k, v := range filter {
		want, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("encoding filter field %s: %w", k, err)
		}
		got, ok := record[k]
		if !ok || !bytes.Equal(got, want) {
			return false, nil
		}
	}

	return true, nil
}

// persist writes the dataset to a temp file and renames it into place.
// Caller holds the lock.
func (s *JSONStore) persist() error {
	buf, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing store file: %w", err)
	}

	return nil
}
