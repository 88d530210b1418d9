package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleTable() *Table {
	t := &Table{}
	t.SetHeaders("ID", "KIND", "TOKEN")
	t.AddRow("sr-01h2xcejqtf2nbrexx3vqjhp41", "user", "4kD...Gc5")
	t.AddRow("sr-01h2xcejqtf2nbrexx3vqjhp42", "api_client", "9Qw...Xy2")
	return t
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatTable, "*output.TableFormatter"},
		{FormatJSON, "*output.JSONFormatter"},
		{FormatYAML, "*output.YAMLFormatter"},
		{Format("bogus"), "*output.TableFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format)
			if got := typeName(f); got != tt.want {
				t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *TableFormatter:
		return "*output.TableFormatter"
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *YAMLFormatter:
		return "*output.YAMLFormatter"
	default:
		return "unknown"
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	if err := f.Format(&buf, sampleTable()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output lines = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") {
		t.Errorf("first line should be headers: %q", lines[0])
	}
	if !strings.Contains(lines[1], "user") {
		t.Errorf("row missing kind: %q", lines[1])
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}

	if err := f.Format(&buf, sampleTable()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if strings.Contains(buf.String(), "KIND") {
		t.Errorf("headers present despite NoHeaders: %q", buf.String())
	}
}

func TestTableFormatter_FallbackJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	data := map[string]string{"id": "sr-x"}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]string
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("fallback output is not JSON: %v", err)
	}
	if parsed["id"] != "sr-x" {
		t.Errorf("id = %q, want sr-x", parsed["id"])
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}

	data := map[string]any{"kind": "user", "version": 3}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if parsed["kind"] != "user" {
		t.Errorf("kind = %v, want user", parsed["kind"])
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &YAMLFormatter{}

	data := map[string]string{"kind": "user"}
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(buf.String(), "kind: user") {
		t.Errorf("unexpected YAML output: %q", buf.String())
	}
}
