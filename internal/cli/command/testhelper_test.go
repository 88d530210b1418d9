package command

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// testConfigYAML declares two token fields over a store rooted in the
// test directory. JSON output so tests can parse results.
const testConfigYAML = `
storage:
  dir: %DATA_DIR%
  sync_writes: false
output: json
log:
  level: error
  format: text
fields:
  - attribute: token
    size: 24
  - attribute: auth_token
    size: 36
    unique: true
`

// writeTestConfig writes a CLI config into dir and returns its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	dataDir := filepath.Join(dir, "data")
	content := bytes.ReplaceAll([]byte(testConfigYAML), []byte("%DATA_DIR%"), []byte(dataDir))

	path := filepath.Join(dir, "cli.yaml")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

// runCLI executes the app with the given args against the config at
// cfgPath and returns captured stdout.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	full := append([]string{"securetoken-cli", "--config", cfgPath}, args...)
	err := app.Run(full)
	return buf.String(), err
}

// parseJSON decodes a single JSON document from CLI output.
func parseJSON(t *testing.T, out string) map[string]any {
	t.Helper()

	var parsed map[string]any
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return parsed
}

// createRecord creates a record and returns its parsed detail.
func createRecord(t *testing.T, cfgPath, kind string, extra ...string) map[string]any {
	t.Helper()

	args := append([]string{"record", "create", "--kind", kind}, extra...)
	out, err := runCLI(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("record create: %v", err)
	}
	return parseJSON(t, out)
}
