package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/fixups"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/postprocessors/repair"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	v := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, v)
	assert.Equal(t, "v", v.Shorthand)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"extract", "batch", "watch", "fixups", "config", "mcp", "version"} {
		assert.True(t, names[want], want)
	}
}

// withAutoWire enables real wiring for one test.
func withAutoWire(t *testing.T) {
	t.Helper()
	cleanup := setupTestServices()
	autoWire = true
	t.Cleanup(func() {
		autoWire = false
		cleanup()
	})
}

func TestWiring_ConfigDir(t *testing.T) {
	withAutoWire(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "--config-dir", dir, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)
}

func TestWiring_DefaultFixups(t *testing.T) {
	withAutoWire(t)
	dir := t.TempDir()

	out, err := executeCommand(t, "--config-dir", dir, "fixups", "list")

	require.NoError(t, err)
	assert.Contains(t, out, `"SELFWAY" -> clientNumber = 7202210726 (fill)`)
}

func TestWiring_FixupFileOverlay(t *testing.T) {
	withAutoWire(t)
	dir := t.TempDir()
	table := filepath.Join(dir, "fixups.toml")
	require.NoError(t, os.WriteFile(table, []byte(`
replace = true

[[fixup]]
match = "PADARIA"
field = "clientNumber"
value = "1234567"
`), 0o600))

	_, err := executeCommand(t, "--config-dir", dir, "config", "set", "repair.fixups_file", table)
	require.NoError(t, err)

	out, err := executeCommand(t, "--config-dir", dir, "fixups", "list")

	require.NoError(t, err)
	assert.Contains(t, out, `[1] "PADARIA" -> clientNumber = 1234567 (fill)`)
	assert.NotContains(t, out, "SELFWAY")
}

func TestWiring_MissingFixupFileFailsFullWiring(t *testing.T) {
	withAutoWire(t)
	dir := t.TempDir()

	_, err := executeCommand(t, "--config-dir", dir, "config", "set", "repair.fixups_file", filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	_, err = executeCommand(t, "--config-dir", dir, "fixups", "list")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Settings commands still work.
	out, err := executeCommand(t, "--config-dir", dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "missing.toml")
}

func TestWiring_UnknownRepairStep(t *testing.T) {
	withAutoWire(t)
	dir := t.TempDir()

	_, err := executeCommand(t, "--config-dir", dir, "config", "set", "repair.steps", "fixups,polish")
	require.NoError(t, err)

	_, err = executeCommand(t, "--config-dir", dir, "fixups", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "repair steps")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "fixups.toml"), expandHome("~/fixups.toml"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/etc/fixups.toml", expandHome("/etc/fixups.toml"))
	assert.Equal(t, "~user/fixups.toml", expandHome("~user/fixups.toml"))
}

func TestFixupSource(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		rows, err := fixupSource(true, "").Load()
		require.NoError(t, err)
		assert.Len(t, rows, len(repair.DefaultFixups()))
	})

	t.Run("defaults disabled", func(t *testing.T) {
		rows, err := fixupSource(false, "").Load()
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("with file", func(t *testing.T) {
		src := fixupSource(true, "/tmp/fixups.toml")
		layered, ok := src.(*fixups.Layered)
		require.True(t, ok)
		assert.Equal(t, "/tmp/fixups.toml", layered.Overlay.Path())
	})
}
