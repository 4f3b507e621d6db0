package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, 4, config.Analysis.Concurrency)
	assert.Equal(t, 50.0, config.Analysis.DefaultIVRank)
	assert.Equal(t, "SPY", config.Benchmarks.Primary)
	assert.Empty(t, config.Sectors)
	assert.NoError(t, config.Validate())
	assert.False(t, config.IsProduction())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
environment = "production"

[analysis]
concurrency = 8
default_iv_rank = 40

[benchmarks]
primary = "IVV"
`), 0644))
	require.NoError(t, os.WriteFile(override, []byte(`
[analysis]
concurrency = 2

[[sectors]]
name = "Technology"
etf = "XLK"
`), 0644))

	config, err := LoadFromFiles(base, "", override)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, 2, config.Analysis.Concurrency)
	assert.Equal(t, 40.0, config.Analysis.DefaultIVRank)
	assert.Equal(t, "IVV", config.Benchmarks.Primary)
	assert.Equal(t, "QQQ", config.Benchmarks.Secondary)
	require.Len(t, config.Sectors, 1)
	assert.Equal(t, "XLK", config.Sectors[0].ETF)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TRADEPILOT_LOG_LEVEL", "debug")
	t.Setenv("TRADEPILOT_LOG_OUTPUT", "stdout, file")
	t.Setenv("TRADEPILOT_ANALYSIS_CONCURRENCY", "16")
	t.Setenv("TRADEPILOT_DEFAULT_IV_RANK", "35.5")
	t.Setenv("TRADEPILOT_DATA_DIR", "/tmp/bars")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.Equal(t, 16, config.Analysis.Concurrency)
	assert.Equal(t, 35.5, config.Analysis.DefaultIVRank)
	assert.Equal(t, "/tmp/bars", config.Data.Dir)
	assert.Len(t, config.Sectors, 11)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[analysis\n"), 0644))
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[analysis]\nconcurrency = 0\n"), 0644))
	_, err = LoadFromFiles(invalid)
	assert.ErrorContains(t, err, "concurrency")
}

func TestSplitString(t *testing.T) {
	assert.Equal(t, []string{}, splitString("", ","))
	assert.Equal(t, []string{"a", "b"}, splitString(" a , ,b ", ","))
}
