package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("hello", "kind", "user")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["kind"] != "user" {
		t.Errorf("kind = %v, want user", entry["kind"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "text", Output: &buf})

	l.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output missing message: %q", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})
	defer SetLevel("info")

	l.Debug("nope")
	l.Info("nope")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("yes")
	if buf.Len() == 0 {
		t.Error("expected warn output")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})
	defer SetLevel("info")

	SetLevel("debug")
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}

	l.Debug("now visible")
	if buf.Len() == 0 {
		t.Error("expected debug output after SetLevel(debug)")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_RedactsTokenAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("record created", "token", "4kDy9WvnJZ3mTq8rB2xXhGc5")

	out := buf.String()
	if strings.Contains(out, "4kDy9WvnJZ3mTq8rB2xXhGc5") {
		t.Errorf("token value leaked into log output: %q", out)
	}
	if !strings.Contains(out, "4kD...Gc5") {
		t.Errorf("expected masked token in output: %q", out)
	}
}
