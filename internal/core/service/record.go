// Package service provides domain services for securetoken.
package service

import (
	"context"
	"log/slog"

	"github.com/yndnr/securetoken-go/internal/core/domain"
	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// RecordRepository defines the storage interface for record operations.
//
// Implementations also act as the securetoken persistence collaborator:
// the same store is handed to securetoken.Schema.Declare so that
// uniqueness checks and regeneration updates hit the same data.
type RecordRepository interface {
	// Create persists a new record.
	Create(ctx context.Context, rec *domain.Record) error

	// Get retrieves a record by ID.
	Get(ctx context.Context, id string) (*domain.Record, error)

	// List retrieves all records, optionally filtered by kind ("" = all).
	List(ctx context.Context, kind string) ([]*domain.Record, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error
}

// RecordService orchestrates record persistence and token field lifecycle.
//
// Create invokes the schema's pre-create hook exactly once, before the
// first successful write; this is the collaborator-side half of the
// contract that replaces the source framework's implicit lifecycle hook.
type RecordService struct {
	repo   RecordRepository
	schema *securetoken.Schema
	logger *slog.Logger
}

// NewRecordService creates a record service.
func NewRecordService(repo RecordRepository, schema *securetoken.Schema, logger *slog.Logger) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{
		repo:   repo,
		schema: schema,
		logger: logger,
	}
}

// Create builds a record of the given kind, populates its declared token
// fields, and persists it.
//
// Fields supplied by the caller win over generation: a pre-assigned token
// attribute is left untouched. Generation and persistence errors
// propagate unmodified.
func (s *RecordService) Create(ctx context.Context, kind string, fields map[string]string) (*domain.Record, error) {
	rec, err := domain.NewRecord(kind)
	if err != nil {
		return nil, err
	}
	for name, value := range fields {
		rec.SetField(name, value)
	}

	if err := s.schema.BeforeCreate(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("record created",
		"record_id", rec.ID,
		"kind", rec.Kind,
		"token_fields", s.schema.Attributes())

	return rec, nil
}

// Regenerate rotates one declared token field on an existing record and
// persists the new value immediately.
//
// On persistence failure the returned record holds the unpersisted
// candidate while storage keeps the old value; callers should discard it.
func (s *RecordService) Regenerate(ctx context.Context, id, attribute string) (*domain.Record, error) {
	field, ok := s.schema.Field(attribute)
	if !ok {
		return nil, domain.ErrUnknownTokenField.WithDetails(attribute)
	}

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := field.Regenerate(ctx, rec); err != nil {
		s.logger.Warn("token regeneration failed",
			"record_id", id,
			"attribute", attribute,
			"error", err)
		return nil, err
	}

	s.logger.Info("token regenerated",
		"record_id", id,
		"attribute", attribute)

	return rec, nil
}

// Get retrieves a record by ID.
func (s *RecordService) Get(ctx context.Context, id string) (*domain.Record, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves records, optionally filtered by kind ("" = all).
func (s *RecordService) List(ctx context.Context, kind string) ([]*domain.Record, error) {
	return s.repo.List(ctx, kind)
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", "record_id", id)
	return nil
}

// Schema returns the token field schema the service was built with.
func (s *RecordService) Schema() *securetoken.Schema {
	return s.schema
}
