// Package securetoken populates record fields with secure random tokens.
package securetoken

import (
	"context"
	"errors"
)

// DefaultAttribute is the attribute name used when none is given.
const DefaultAttribute = "token"

// maxGenerateAttempts bounds the uniqueness retry loop. With the default
// size the candidate space is 58^24, so reaching this limit means the
// caller chose a size far too small for the number of stored values.
const maxGenerateAttempts = 1000

// ErrSpaceExhausted indicates the uniqueness loop gave up because every
// candidate it produced was already persisted. Choosing a larger token
// size is the caller's responsibility.
var ErrSpaceExhausted = errors.New("securetoken: no unused token value found, increase the token size")

// ErrNilRepository indicates a field was declared without a repository.
var ErrNilRepository = errors.New("securetoken: repository is required")

// Record is an in-memory record instance with named string fields.
// The surrounding persistence layer owns the record; this package only
// reads and writes the declared attribute.
type Record interface {
	// Field returns the current value of a named field, or "" if unset.
	Field(name string) string

	// SetField assigns a value to a named field.
	SetField(name, value string)
}

// Repository is the persistence collaborator a token field is bound to.
type Repository interface {
	// Exists reports whether any persisted record has the given value
	// for the named attribute.
	Exists(ctx context.Context, attribute, value string) (bool, error)

	// UpdateField persists a single-field change for an existing record.
	UpdateField(ctx context.Context, rec Record, attribute, value string) error
}

// Instrumentation observes token generation. Implementations must be
// safe for concurrent use; a nil Instrumentation disables observation.
type Instrumentation interface {
	// TokenGenerated is called after a successful generation with the
	// number of candidates produced (1 unless uniqueness retries occurred).
	TokenGenerated(attribute string, attempts int)

	// TokenRegenerated is called after a regeneration attempt; err is
	// the persistence error, if any.
	TokenRegenerated(attribute string, err error)
}

// Field is one declared secure-token attribute on a record type.
//
// Configuration is fixed at declaration time and immutable afterwards,
// so a Field is safe for concurrent use.
type Field struct {
	repo      Repository
	attribute string
	size      int
	unique    bool
	instr     Instrumentation
}

// Option configures a Field at declaration time.
type Option func(*Field)

// WithSize sets the character length of generated values.
func WithSize(n int) Option {
	return func(f *Field) {
		f.size = n
	}
}

// WithUniqueness requires generated values not to collide with values
// already persisted for the attribute.
//
// The check is best effort: two concurrent generations can both pass it
// before either persists. A storage-level unique constraint remains the
// real guarantee.
func WithUniqueness() Option {
	return func(f *Field) {
		f.unique = true
	}
}

// WithInstrumentation attaches an observer for generation statistics.
func WithInstrumentation(in Instrumentation) Option {
	return func(f *Field) {
		f.instr = in
	}
}

// NewField declares a secure-token field bound to repo.
//
// An empty attribute falls back to DefaultAttribute. A non-positive size
// fails fast with ErrInvalidSize rather than surfacing later during
// record creation.
func NewField(repo Repository, attribute string, opts ...Option) (*Field, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	f := &Field{
		repo:      repo,
		attribute: attribute,
		size:      DefaultSize,
	}
	if f.attribute == "" {
		f.attribute = DefaultAttribute
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.size < 1 {
		return nil, ErrInvalidSize
	}

	return f, nil
}

// Attribute returns the declared attribute name.
func (f *Field) Attribute() string { return f.attribute }

// Size returns the declared token length in characters.
func (f *Field) Size() int { return f.size }

// Unique reports whether the field requires uniqueness at generation time.
func (f *Field) Unique() bool { return f.unique }

// Generate produces a token value for this field.
//
// Without uniqueness it returns a single candidate and performs no
// repository queries. With uniqueness it regenerates until Exists reports
// a candidate unused; a failing Exists query aborts generation
// immediately, and after maxGenerateAttempts candidates the loop gives
// up with ErrSpaceExhausted.
func (f *Field) Generate(ctx context.Context) (string, error) {
	value, attempts, err := f.generate(ctx)
	if err != nil {
		return "", err
	}
	if f.instr != nil {
		f.instr.TokenGenerated(f.attribute, attempts)
	}
	return value, nil
}

func (f *Field) generate(ctx context.Context) (string, int, error) {
	for attempts := 1; attempts <= maxGenerateAttempts; attempts++ {
		candidate, err := Generate(f.size)
		if err != nil {
			return "", attempts, err
		}

		if !f.unique {
			return candidate, attempts, nil
		}

		taken, err := f.repo.Exists(ctx, f.attribute, candidate)
		if err != nil {
			return "", attempts, err
		}
		if !taken {
			return candidate, attempts, nil
		}
	}

	return "", maxGenerateAttempts, ErrSpaceExhausted
}

// BeforeCreate populates the field on rec if it is currently empty.
//
// The persistence collaborator must invoke this exactly once, before the
// record's first successful write. A value assigned by the caller
// beforehand is left untouched.
func (f *Field) BeforeCreate(ctx context.Context, rec Record) error {
	if rec.Field(f.attribute) != "" {
		return nil
	}

	value, err := f.Generate(ctx)
	if err != nil {
		return err
	}

	rec.SetField(f.attribute, value)
	return nil
}

// Regenerate assigns a fresh token value to rec and immediately persists
// it through the repository. The new value is returned.
//
// On persistence failure the stored value is unchanged while rec keeps
// the unpersisted candidate in memory; callers should reload or discard
// the instance. The repository error propagates unmodified.
func (f *Field) Regenerate(ctx context.Context, rec Record) (string, error) {
	value, err := f.Generate(ctx)
	if err != nil {
		return "", err
	}

	rec.SetField(f.attribute, value)

	err = f.repo.UpdateField(ctx, rec, f.attribute, value)
	if f.instr != nil {
		f.instr.TokenRegenerated(f.attribute, err)
	}
	if err != nil {
		return "", err
	}

	return value, nil
}
