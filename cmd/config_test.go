package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/wayland"
)

// isolate points the config search path at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	reset := func() {
		viper.Reset()
		config.Set(nil)
		config.SetConfigPath("")
	}
	reset()
	t.Cleanup(reset)
	return dir
}

// executeCommand runs the root command with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel = "", ""
	require.NoError(t, configInitCmd.Flags().Set("force", "false"))
	require.NoError(t, configInitCmd.Flags().Set("interactive", "false"))
	viper.Reset()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	configFile := filepath.Join(dir, "wlscene", "wlscene.toml")

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		_, err := executeCommand(t, "config", "init")
		require.NoError(t, err)
		assert.FileExists(t, configFile)
	})

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configFile, []byte("[runner]\nframe_rate = 30\n"), 0600))
		_, err := executeCommand(t, "config", "init")
		require.NoError(t, err)
		content, _ := os.ReadFile(configFile)
		assert.Equal(t, "[runner]\nframe_rate = 30\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		_, err := executeCommand(t, "config", "init", "--force")
		require.NoError(t, err)
		content, _ := os.ReadFile(configFile)
		assert.Contains(t, string(content), "namespace")
	})
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	out, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Frame rate")
	assert.Contains(t, out, "60")
	assert.Contains(t, out, "on_demand")
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)
	custom := filepath.Join(dir, "custom.toml")
	out, err := executeCommand(t, "--config", custom, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, custom+"\n", out)
}

func TestConfigInvalidFileFailsEveryCommand(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wlscene.toml"), []byte("[window]\nlayer = \"sideways\"\n"), 0600))
	_, err := executeCommand(t, "config", "show")
	assert.ErrorContains(t, err, "window.layer")
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, validateSize("1920"))
	assert.NoError(t, validateSize(" 32 "))
	assert.Error(t, validateSize("0"))
	assert.Error(t, validateSize("-4"))
	assert.Error(t, validateSize("wide"))
}

func TestFormatSeen(t *testing.T) {
	assert.Equal(t, "no events", formatSeen(nil))
	assert.Equal(t, "closed=1 created=2 key=5", formatSeen(map[string]int{"key": 5, "created": 2, "closed": 1}))
}

func TestRenderInspect(t *testing.T) {
	out := renderInspect(inspectReport{
		Display: "wayland-1",
		Globals: []wayland.Global{
			{Name: 1, Interface: "wl_compositor", Version: 6},
			{Name: 7, Interface: "wl_seat", Version: 9},
		},
		Outputs: []handlers.Output{{ID: 3, Name: "eDP-1", Width: 2560, Height: 1600, RefreshMHz: 60000, Scale: 2, Make: "BOE", Model: "NE160QDM"}},
		Seat:    "seat0",
		Devices: []string{"keyboard", "pointer"},
	})
	for _, want := range []string{"wayland-1", "wl_compositor", "eDP-1", "2560x1600", "60.00 Hz", "BOE NE160QDM", "seat0", "keyboard, pointer"} {
		assert.Contains(t, out, want)
	}
}
