package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigShow(t *testing.T) {
	cfgPath := writeTestConfig(t, t.TempDir())

	out, err := runCLI(t, cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}

	parsed := parseJSON(t, out)
	if parsed["Output"] != "json" {
		t.Errorf("Output = %v, want json", parsed["Output"])
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")

	out, err := runCLI(t, path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "wrote") {
		t.Errorf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	// Second init without --force must refuse.
	if _, err := runCLI(t, path, "config", "init"); err == nil {
		t.Error("expected error when file exists")
	}

	if _, err := runCLI(t, path, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		cfgPath := writeTestConfig(t, t.TempDir())

		out, err := runCLI(t, cfgPath, "config", "validate")
		if err != nil {
			t.Fatalf("config validate: %v", err)
		}
		if !strings.Contains(out, "config ok") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope.yaml")

		out, err := runCLI(t, path, "config", "validate")
		if err != nil {
			t.Fatalf("config validate: %v", err)
		}
		if !strings.Contains(out, "defaults apply") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cli.yaml")
		content := "fields:\n  - attribute: token\n    size: 0\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := runCLI(t, path, "config", "validate"); err == nil {
			t.Error("expected error for invalid config")
		}
	})
}
