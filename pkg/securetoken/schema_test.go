// Package securetoken populates record fields with secure random tokens.
package securetoken

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func TestSchema_Declare(t *testing.T) {
	s := NewSchema()
	repo := &mockRepo{}

	f, err := s.Declare(repo, "")
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if f.Attribute() != DefaultAttribute {
		t.Errorf("Attribute() = %q, want %q", f.Attribute(), DefaultAttribute)
	}

	if _, err := s.Declare(repo, "auth_token", WithUniqueness()); err != nil {
		t.Fatalf("Declare(auth_token) error = %v", err)
	}

	got, ok := s.Field("auth_token")
	if !ok {
		t.Fatal("Field(auth_token) not found")
	}
	if !got.Unique() {
		t.Error("auth_token should require uniqueness")
	}

	attrs := s.Attributes()
	if len(attrs) != 2 || attrs[0] != "token" || attrs[1] != "auth_token" {
		t.Errorf("Attributes() = %v, want declaration order [token auth_token]", attrs)
	}
}

func TestSchema_Declare_Duplicate(t *testing.T) {
	s := NewSchema()
	repo := &mockRepo{}

	if _, err := s.Declare(repo, "token"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if _, err := s.Declare(repo, "token"); err == nil {
		t.Error("Declare() of a duplicate attribute should fail")
	}
}

func TestSchema_Declare_InvalidConfig(t *testing.T) {
	s := NewSchema()
	if _, err := s.Declare(&mockRepo{}, "token", WithSize(-1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Declare() error = %v, want ErrInvalidSize", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after failed declaration, want 0", s.Len())
	}
}

func TestSchema_BeforeCreate(t *testing.T) {
	s := NewSchema()
	repo := &mockRepo{}

	if _, err := s.Declare(repo, "token"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if _, err := s.Declare(repo, "api_key", WithSize(36)); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	rec := mockRecord{"api_key": "preset"}
	if err := s.BeforeCreate(context.Background(), rec); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}

	if len(rec["token"]) != DefaultSize {
		t.Errorf("token length = %d, want %d", len(rec["token"]), DefaultSize)
	}
	if rec["api_key"] != "preset" {
		t.Errorf("api_key = %q, pre-assigned value must survive", rec["api_key"])
	}
}

// Default-options scenario: declare "token", create with the field unset,
// expect 24 unambiguous base58 characters and no collaborator queries.
func TestSchema_DefaultScenario(t *testing.T) {
	s := NewSchema()
	repo := &mockRepo{}

	if _, err := s.Declare(repo, "token"); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	rec := mockRecord{}
	if err := s.BeforeCreate(context.Background(), rec); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}

	pattern := regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{24}$`)
	if !pattern.MatchString(rec["token"]) {
		t.Errorf("token = %q, want ^[1-9A-HJ-NP-Za-km-z]{24}$", rec["token"])
	}
	if repo.existsCalls != 0 {
		t.Errorf("Exists called %d times, want 0", repo.existsCalls)
	}
}

// Collision scenario: "auth_token" with uniqueness, one existing collision,
// expect exactly two candidate generations and a value distinct from the
// collided candidate.
func TestSchema_CollisionScenario(t *testing.T) {
	s := NewSchema()
	repo := &mockRepo{collideFirstN: 1}

	if _, err := s.Declare(repo, "auth_token", WithUniqueness()); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	rec := mockRecord{}
	if err := s.BeforeCreate(context.Background(), rec); err != nil {
		t.Fatalf("BeforeCreate() error = %v", err)
	}

	if repo.existsCalls != 2 {
		t.Errorf("Exists called %d times, want 2", repo.existsCalls)
	}
	if len(repo.collided) != 1 {
		t.Fatalf("collided candidates = %d, want 1", len(repo.collided))
	}
	if rec["auth_token"] == repo.collided[0] {
		t.Errorf("auth_token = %q equals the collided candidate", rec["auth_token"])
	}
}
