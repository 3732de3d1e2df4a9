package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/l1jgo/genslot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotsim.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nticks = 5\nscenario = \"a.yaml\"\n"), 0o644))

	cfg, err := loadConfig(flags{config: path})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Sim.Ticks)
	assert.Equal(t, "a.yaml", cfg.Sim.Scenario)

	cfg, err = loadConfig(flags{config: path, ticks: 9, scenario: "b.yaml", scripts: "lua"})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Sim.Ticks)
	assert.Equal(t, "b.yaml", cfg.Sim.Scenario)
	assert.Equal(t, "lua", cfg.Sim.Scripts)
}

func TestLoadConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nticks = 3\n"), 0o644))
	t.Setenv("GENSLOT_CONFIG", path)

	cfg, err := loadConfig(flags{})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sim.Ticks)

	t.Setenv("GENSLOT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	_, err = loadConfig(flags{})
	assert.Error(t, err, "an explicit path must exist")
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger(config.LoggingConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(-1))
	}
	log, err := newLogger(config.LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "bad level falls back to info")
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	scenarioPath := filepath.Join(dir, "waves.yaml")
	require.NoError(t, os.WriteFile(scenarioPath, []byte("waves:\n  - name: d\n    count: 3\n    every: 1\n    lifetime: 2\n"), 0o644))
	scripts := filepath.Join(dir, "lua")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "hook.lua"), []byte(`
function on_tick(tick)
  if tick == 0 then spawn("boss", 0, 0) end
end
`), 0o644))
	cfgPath := filepath.Join(dir, "slotsim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[logging]\nlevel = \"error\"\nformat = \"json\"\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfgPath, "--ticks", "20", "--scenario", scenarioPath, "--scripts", scripts})
	assert.NoError(t, cmd.ExecuteContext(context.Background()))
}
