package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "focus_data", cfg.TableName)
	assert.Equal(t, []string{"ALL"}, cfg.ActiveTags)
	assert.Equal(t, 0, cfg.Parallel)
	assert.NotEmpty(t, cfg.RunID)
	assert.NotNil(t, cfg.Logger)
}

func TestDefaultConfig_DistinctRunIDs(t *testing.T) {
	first, err := DefaultConfig()
	require.NoError(t, err)
	second, err := DefaultConfig()
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestLoad_NoPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "focus_data", cfg.TableName)
	assert.Equal(t, []string{"ALL"}, cfg.ActiveTags)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "table_name: billing_account\nactive_tags: [US, Commitment]\nparallel: 4\nstop_on_first_error: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "billing_account", cfg.TableName)
	assert.Equal(t, []string{"US", "Commitment"}, cfg.ActiveTags)
	assert.Equal(t, 4, cfg.Parallel)
	assert.True(t, cfg.StopOnFirstError)
}

func TestLoad_EmptyActiveTagsFallsBackToAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table_name: costs\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ALL"}, cfg.ActiveTags)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table_name: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{TableName: "focus_data", Parallel: 2}
	assert.NoError(t, cfg.Validate())

	cfg.TableName = ""
	assert.Error(t, cfg.Validate())

	cfg.TableName = "focus_data"
	cfg.Parallel = -1
	assert.Error(t, cfg.Validate())
}

func TestSetVerbose_RaisesAndLowersLogLevel(t *testing.T) {
	Logging.SetVerbose(true)
	assert.Equal(t, "debug", Logging.AtomicLogLevel.Level().String())

	Logging.SetVerbose(false)
	assert.Equal(t, "info", Logging.AtomicLogLevel.Level().String())
}
