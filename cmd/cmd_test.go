// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/userevent/api/schemas"
)

const passingScenario = `
name: check
html: <input id="c" type="checkbox">
steps:
  - action: click
    target: "#c"
expect:
  - target: "#c"
    checked: true
`

const failingScenario = `
name: broken
html: <input id="c" type="checkbox" disabled>
steps:
  - action: click
    target: "#c"
expect:
  - target: "#c"
    checked: true
`

// isolate keeps config discovery away from the developer's files.
func isolate(t *testing.T) string {
	t.Helper()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USEREVENT_LOGGER_LEVEL", "error")
	t.Chdir(dir)
	return dir
}

// executeCommand runs a fresh command tree and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestKeysParse(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "keys", "parse", "a{Shift>}B{/Shift}{Enter>3/}")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Regexp(t, `"a"\s+KeyA\s+65\s+false\s+true\s+1`, out)
	assert.Regexp(t, `"Shift"\s+ShiftLeft\s+16\s+false\s+false\s+1`, out)
	assert.Regexp(t, `"Enter"\s+Enter\s+13\s+false\s+true\s+3`, out)

	_, err = executeCommand(t, "keys", "parse", "{Shift")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing keyboard input")
}

func TestKeysParsePointer(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "keys", "parse", "--pointer", "[MouseRight][TouchA>]")
	require.NoError(t, err)
	assert.Regexp(t, `MouseRight\s+mouse\s+2\s+false\s+true`, out)
	assert.Regexp(t, `TouchA\s+touch\s+0\s+false\s+false`, out)
}

func TestReplayCommand(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "scenarios", "a.yaml"), passingScenario)
	writeFile(t, filepath.Join(dir, "scenarios", "b.yml"), passingScenario)

	report := filepath.Join(dir, "report.json")
	_, err := executeCommand(t, "replay", "scenarios", "-f", "json", "-o", report, "--trace-dir", "traces", "-j", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var results []schemas.ScenarioResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, schemas.StatusPassed, res.Status)
		_, err := os.Stat(filepath.Join(dir, "traces", res.RunID+".json"))
		assert.NoError(t, err)
	}
}

func TestReplayReportsFailures(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), failingScenario)
	good := writeFile(t, filepath.Join(dir, "good.yaml"), passingScenario)

	out, err := executeCommand(t, "replay", bad, good)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScenariosFailed)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "#c: checked is false, want true")
	assert.Contains(t, out, "1 passed, 1 failed, 0 errors")
}

func TestReplayConfigFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "a.yaml"), passingScenario)
	cfgFile := writeFile(t, filepath.Join(dir, "conf", "custom.yaml"), "replay:\n  format: json\n")

	out, err := executeCommand(t, "-c", cfgFile, "replay", path)
	require.NoError(t, err)
	var results []schemas.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(out), &results), out)
	assert.Equal(t, "check", results[0].Scenario)
}

func TestReplayValidation(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, filepath.Join(dir, "a.yaml"), passingScenario)

	_, err := executeCommand(t, "replay", path, "-j", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be a positive integer")

	_, err = executeCommand(t, "replay", path, "-f", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be")

	_, err = executeCommand(t, "replay")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0o755))
	_, err = executeCommand(t, "replay", "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenario files in empty")

	_, err = executeCommand(t, "-c", filepath.Join(dir, "missing.yaml"), "replay", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load or validate config")
}

func TestConfigFromContext(t *testing.T) {
	_, err := configFromContext(context.Background())
	assert.EqualError(t, err, "configuration not loaded")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 0, ExitCode(fmt.Errorf("replay: %w", context.Canceled)))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("1 of 3: %w", ErrScenariosFailed)))
	assert.Equal(t, 1, ExitCode(errors.New("bad config")))
}

func TestExitCodeForFailedReplay(t *testing.T) {
	dir := isolate(t)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), failingScenario)

	_, err := executeCommand(t, "replay", bad)
	assert.Equal(t, 2, ExitCode(err))

	_, err = executeCommand(t, "replay", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 1, ExitCode(err))
}
