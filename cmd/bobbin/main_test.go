package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig(t *testing.T, extra string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bobbin.yaml")
	content := "log:\n  level: error\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestGraphCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "graph", "--config", quietConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, "○ Orders ← Pricing, Inventory, Journal\n")
	assert.Contains(t, out, "○ Pricing ← Catalog")
	assert.Contains(t, out, "● Settings\n")
}

func TestGraphCommand_Started(t *testing.T) {
	t.Parallel()

	out, err := run(t, "graph", "--started", "--config", quietConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "● Catalog ← Settings")
	assert.NotContains(t, out, "○")
}

func TestGraphCommand_DOT(t *testing.T) {
	t.Parallel()

	out, err := run(t, "graph", "--dot", "--config", quietConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "digraph beans {")
	assert.Contains(t, out, `"Pricing" -> "Catalog";`)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "validate", "--config", quietConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 7 beans valid")

	out, err = run(t, "validate", "--broken", "--config", quietConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, out, "✗ validation failed")
	assert.Contains(t, out, "Left -> Right -> Left")
}

func TestStartCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, "start", "--config", quietConfig(t, "container:\n  metrics: true\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "plan\n")
	assert.Contains(t, out, "✓ started 7 beans")
	assert.Contains(t, out, "bobbin_bean_creations_total 5")
	assert.Contains(t, out, "bobbin_beans_registered_total 7")
	assert.Contains(t, out, "✓ closed")
}

func TestStartCommand_SkipsValidation(t *testing.T) {
	t.Parallel()

	out, err := run(t, "start", "--broken", "--config", quietConfig(t, "container:\n  validate_on_start: false\n"))
	require.Error(t, err)
	assert.NotContains(t, out, "validation failed")
}

func TestMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := run(t, "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
