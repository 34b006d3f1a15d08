package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/chat-tracker/internal/domain"
	"github.com/bnema/chat-tracker/internal/logging"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultBuckets, cfg.Buckets)
	assert.Equal(t, logging.LevelWarn, cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.True(t, cfg.Strict)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Empty(t, cfg.File)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `[tracker]
buckets = 101

[log]
level = "debug"
json = true

[replay]
strict = false

[report]
format = "TOML"
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 101, cfg.Buckets)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.False(t, cfg.Strict)
	assert.Equal(t, FormatTOML, cfg.Format)
	assert.Equal(t, filepath.Join(home, ".chattracker", "config.toml"), cfg.File)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[tracker]\nbuckets = 101\n")
	t.Setenv("CHATTRACKER_TRACKER_BUCKETS", "31")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 31, cfg.Buckets)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr string
	}{
		{name: "zero buckets", key: KeyBuckets, value: 0, wantErr: "bucket count must be positive"},
		{name: "unknown format", key: KeyReportFormat, value: "yaml", wantErr: "unsupported report format"},
		{name: "unknown level", key: KeyLogLevel, value: "loud", wantErr: "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())

			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[tracker\nbuckets = ")

	_, err := Load(viper.New())
	assert.ErrorContains(t, err, "read config file")
}

func TestValidateBucketError(t *testing.T) {
	err := Config{Buckets: -1, Format: FormatJSON}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidBucketSize)
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()

	dir := filepath.Join(home, ".chattracker")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
}
