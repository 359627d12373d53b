package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3tea/journal-sentinel/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromTOML(t *testing.T) {
	path := writeConfig(t, "sentinel.toml", `
log_level = "debug"

[service]
address = "127.0.0.1:9471"

[capturer]
journal_name = "JRN"
journal_library = "JRNLIB"
include_files = ["APPLIB/ORDERS"]
max_server_side_entries = 1000

[processor]
enable_transformation = true

[processor.filter]
types = ["INSERT", "UPDATE", "DELETE"]

[sink]
type = "stdout"

[checkpoint]
dir = "/var/lib/sentinel"
interval_seconds = 30
`)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9471", cfg.Service.Address)
	assert.Equal(t, "JRN", cfg.Capturer.JournalName)
	assert.Equal(t, "JRNLIB", cfg.Capturer.JournalLibrary)
	assert.Equal(t, []string{"APPLIB/ORDERS"}, cfg.Capturer.IncludeFiles)
	assert.Equal(t, uint64(1000), cfg.Capturer.MaxServerSideEntries)
	assert.True(t, cfg.Processor.EnableTransformation)
	assert.Equal(t, []string{"INSERT", "UPDATE", "DELETE"}, cfg.Processor.Filter.Types)
	assert.Equal(t, "stdout", cfg.Sink.Type)
	assert.Equal(t, "/var/lib/sentinel", cfg.Checkpoint.Dir)
	assert.Equal(t, 30, cfg.Checkpoint.IntervalSeconds)

	// defaults survive where the file is silent
	assert.Equal(t, "journal-sentinel", cfg.AppName)
}

func TestLoadFromJSON(t *testing.T) {
	path := writeConfig(t, "sentinel.json", `{
  "service": {"address": "127.0.0.1:9471"},
  "capturer": {"journal_name": "JRN", "journal_library": "JRNLIB"}
}`)

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "JRN", cfg.Capturer.JournalName)
	assert.Equal(t, "console", cfg.Sink.Type)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, "sentinel.ini", "address=nope")
	_, err := config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, "sentinel.toml", `
[capturer]
journal_name = "JRN"
journal_library = "JRNLIB"
`)
	_, err := config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.address")

	path = writeConfig(t, "sentinel.toml", `
[service]
address = "127.0.0.1:9471"
`)
	_, err = config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal_name")
}
