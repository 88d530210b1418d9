// Package domain defines the core domain models for securetoken.
package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// RecordIDPrefix is the prefix for record IDs.
const RecordIDPrefix = "sr-"

// MaxFieldNameLength bounds field names to keep index keys small.
const MaxFieldNameLength = 64

// Record is a persisted entity carrying named string fields.
//
// Records are generic on purpose: the token machinery only cares about
// a kind (the record type name) and a flat field map. Version supports
// optimistic locking in the stores.
type Record struct {
	// ID is the unique identifier. Format: sr-{ulid_lowercase}.
	ID string `json:"id"`

	// Kind is the record type name (e.g., "user", "api_client").
	Kind string `json:"kind"`

	// Fields holds the named string attributes, token fields included.
	Fields map[string]string `json:"fields"`

	// CreatedAt is the creation timestamp (Unix MS).
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the last update timestamp (Unix MS).
	UpdatedAt int64 `json:"updated_at"`

	// Version is the optimistic lock version number.
	Version uint64 `json:"version"`
}

// NewRecord creates a record of the given kind with a generated ID.
func NewRecord(kind string) (*Record, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		return nil, ErrStorageError.WithCause(err)
	}

	now := currentTimeMillis()
	return &Record{
		ID:        RecordIDPrefix + strings.ToLower(id.String()),
		Kind:      kind,
		Fields:    make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

// IsValidRecordID checks if a string is a valid record ID format.
func IsValidRecordID(id string) bool {
	if !strings.HasPrefix(id, RecordIDPrefix) {
		return false
	}
	// sr- (3) + ULID (26) = 29 characters
	if len(id) != 29 {
		return false
	}
	_, err := ulid.Parse(strings.ToUpper(id[len(RecordIDPrefix):]))
	return err == nil
}

// Field returns the current value of a named field, or "" if unset.
// Implements securetoken.Record.
func (r *Record) Field(name string) string {
	return r.Fields[name]
}

// SetField assigns a value to a named field.
// Implements securetoken.Record.
func (r *Record) SetField(name, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[name] = value
}

// Touch updates the UpdatedAt timestamp.
func (r *Record) Touch() {
	r.UpdatedAt = currentTimeMillis()
}

// IncrVersion increments the version number for optimistic locking.
func (r *Record) IncrVersion() {
	r.Version++
}

// Validate validates the record fields.
func (r *Record) Validate() error {
	var violations []string

	if r.ID == "" {
		violations = append(violations, "id is required")
	} else if !IsValidRecordID(r.ID) {
		violations = append(violations, "id format invalid")
	}

	if r.Kind == "" {
		violations = append(violations, "kind is required")
	}

	for name := range r.Fields {
		if name == "" {
			violations = append(violations, "field name must not be empty")
		} else if len(name) > MaxFieldNameLength {
			violations = append(violations, "field name exceeds 64 characters")
		}
	}

	if len(violations) > 0 {
		return ErrRecordValidation.WithDetails(strings.Join(violations, "; "))
	}

	return nil
}

// Clone creates a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	if r.Fields != nil {
		clone.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			clone.Fields[k] = v
		}
	}
	return &clone
}

// CreatedAtTime returns CreatedAt as time.Time.
func (r *Record) CreatedAtTime() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (r *Record) UpdatedAtTime() time.Time {
	return time.UnixMilli(r.UpdatedAt)
}

// currentTimeMillis returns the current Unix timestamp in milliseconds.
var currentTimeMillis = func() int64 {
	return timeNow().UnixMilli()
}

// timeNow is a hook for testing.
var timeNow = time.Now
