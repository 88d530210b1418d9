package memory

import (
	"context"
	"sync"

	"github.com/yndnr/securetoken-go/internal/core/domain"
	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// Store provides in-memory record storage with token value indexes.
type Store struct {
	mu sync.RWMutex

	// Primary index: RecordID -> Record
	records map[string]*domain.Record

	// Token index: attribute -> value -> RecordID
	tokens map[string]map[string]string
}

var _ securetoken.Repository = (*Store)(nil)

// New creates a store that maintains a value index for each of the
// given token attributes. Existence checks on other attributes fall
// back to a full scan.
func New(indexed ...string) *Store {
	s := &Store{
		records: make(map[string]*domain.Record),
		tokens:  make(map[string]map[string]string),
	}
	for _, attr := range indexed {
		s.tokens[attr] = make(map[string]string)
	}
	return s
}

// Create stores a new record.
//
// Indexed token values are checked for conflicts at write time; this is
// the storage-level constraint backing the library's best-effort
// uniqueness check.
func (s *Store) Create(_ context.Context, rec *domain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; ok {
		return domain.ErrRecordConflict
	}

	for attr, idx := range s.tokens {
		value := rec.Field(attr)
		if value == "" {
			continue
		}
		if _, taken := idx[value]; taken {
			return domain.ErrTokenValueConflict.WithDetails(attr)
		}
	}

	clone := rec.Clone()
	s.records[rec.ID] = clone

	for attr, idx := range s.tokens {
		if value := clone.Field(attr); value != "" {
			idx[value] = clone.ID
		}
	}

	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// List retrieves all records, optionally filtered by kind ("" = all).
func (s *Store) List(_ context.Context, kind string) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Record
	for _, rec := range s.records {
		if kind != "" && rec.Kind != kind {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// Delete removes a record and its index entries.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	for attr, idx := range s.tokens {
		if value := rec.Field(attr); value != "" {
			delete(idx, value)
		}
	}
	delete(s.records, id)

	return nil
}

// Count returns the total number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Exists reports whether any stored record has the given value for the
// named attribute. Indexed attributes answer in O(1); others scan.
func (s *Store) Exists(_ context.Context, attribute, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx, ok := s.tokens[attribute]; ok {
		_, taken := idx[value]
		return taken, nil
	}

	for _, rec := range s.records {
		if rec.Field(attribute) == value {
			return true, nil
		}
	}
	return false, nil
}

// UpdateField persists a single-field change for an existing record.
//
// The caller's in-memory record is synchronized with the stored version
// and timestamps on success.
func (s *Store) UpdateField(_ context.Context, rec securetoken.Record, attribute, value string) error {
	dr, ok := rec.(*domain.Record)
	if !ok {
		return domain.ErrRecordValidation.WithDetails("unexpected record type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[dr.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}

	if idx, indexed := s.tokens[attribute]; indexed {
		if owner, taken := idx[value]; taken && owner != dr.ID {
			return domain.ErrTokenValueConflict.WithDetails(attribute)
		}
		if old := stored.Field(attribute); old != "" {
			delete(idx, old)
		}
		idx[value] = dr.ID
	}

	stored.SetField(attribute, value)
	stored.Touch()
	stored.IncrVersion()

	dr.Version = stored.Version
	dr.UpdatedAt = stored.UpdatedAt

	return nil
}
