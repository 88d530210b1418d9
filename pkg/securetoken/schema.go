// Package securetoken populates record fields with secure random tokens.
package securetoken

import (
	"context"
	"fmt"
)

// Schema is the set of secure-token fields declared for one record type.
//
// It replaces framework-wide mixin injection with explicit opt-in
// registration: an application declares each token-bearing attribute
// once, during type setup, and hands the schema to its persistence
// layer. Declaration is not safe for concurrent use; once setup is
// complete the schema is immutable and safe to share.
type Schema struct {
	fields []*Field
	byAttr map[string]*Field
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		byAttr: make(map[string]*Field),
	}
}

// Declare registers a secure-token field on the schema and returns its
// handle. Declaring the same attribute twice is an error.
func (s *Schema) Declare(repo Repository, attribute string, opts ...Option) (*Field, error) {
	f, err := NewField(repo, attribute, opts...)
	if err != nil {
		return nil, err
	}

	if _, dup := s.byAttr[f.attribute]; dup {
		return nil, fmt.Errorf("securetoken: attribute %q already declared", f.attribute)
	}

	s.fields = append(s.fields, f)
	s.byAttr[f.attribute] = f
	return f, nil
}

// Field returns the declared field for an attribute.
func (s *Schema) Field(attribute string) (*Field, bool) {
	f, ok := s.byAttr[attribute]
	return f, ok
}

// Attributes returns the declared attribute names in declaration order.
func (s *Schema) Attributes() []string {
	attrs := make([]string, len(s.fields))
	for i, f := range s.fields {
		attrs[i] = f.attribute
	}
	return attrs
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// BeforeCreate runs every declared field's pre-create hook against rec,
// in declaration order. Fields that already carry a value are skipped.
// The first error aborts the run and propagates to the caller.
func (s *Schema) BeforeCreate(ctx context.Context, rec Record) error {
	for _, f := range s.fields {
		if err := f.BeforeCreate(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
