package logger

import (
	"log/slog"
	"testing"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"token", true},
		{"auth_token", true},
		{"api_key", true},
		{"password", true},
		{"Authorization", true},
		{"token_attribute", false},
		{"token_size", false},
		{"attribute", false},
		{"record_id", false},
		{"kind", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsSensitiveKey(tt.key); got != tt.want {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"default size token", "4kDy9WvnJZ3mTq8rB2xXhGc5", "4kD...Gc5"},
		{"short value fully redacted", "abc123", redactedValue},
		{"boundary 12 chars", "abcdefghijkl", "abc...jkl"},
		{"boundary 11 chars", "abcdefghijk", redactedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskToken(tt.value); got != tt.want {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRedactSensitive(t *testing.T) {
	t.Run("sensitive key masked", func(t *testing.T) {
		a := redactSensitive(slog.String("auth_token", "4kDy9WvnJZ3mTq8rB2xXhGc5"))
		if a.Value.String() != "4kD...Gc5" {
			t.Errorf("value = %q, want masked", a.Value.String())
		}
	})

	t.Run("plain key untouched", func(t *testing.T) {
		a := redactSensitive(slog.String("kind", "user"))
		if a.Value.String() != "user" {
			t.Errorf("value = %q, want user", a.Value.String())
		}
	})

	t.Run("empty value untouched", func(t *testing.T) {
		a := redactSensitive(slog.String("token", ""))
		if a.Value.String() != "" {
			t.Errorf("value = %q, want empty", a.Value.String())
		}
	})

	t.Run("nested group", func(t *testing.T) {
		group := slog.Group("record",
			slog.String("id", "sr-01h2xcejqtf2nbrexx3vqjhp41"),
			slog.String("token", "4kDy9WvnJZ3mTq8rB2xXhGc5"))

		a := redactSensitive(group)
		attrs := a.Value.Group()
		if attrs[0].Value.String() != "sr-01h2xcejqtf2nbrexx3vqjhp41" {
			t.Error("non-sensitive group member was modified")
		}
		if attrs[1].Value.String() != "4kD...Gc5" {
			t.Errorf("group token = %q, want masked", attrs[1].Value.String())
		}
	})
}
