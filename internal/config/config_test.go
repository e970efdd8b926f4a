package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlagSet() *pflag.FlagSet {
	return pflag.NewFlagSet("test", pflag.ContinueOnError)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 8080, BaseURL: "https://timesup.example/"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://timesup.example", cfg.BaseURL, "trailing slash trimmed")

	cfg = &Config{Port: 0, BaseURL: "https://timesup.example"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: 70000, BaseURL: "https://timesup.example"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: 8080}
	assert.Error(t, cfg.Validate())
}

func TestBindDefaults(t *testing.T) {
	cfg := &Config{}
	fs := newTestFlagSet()
	Bind(fs, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Bind)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "./snapshots", cfg.SnapshotDir)
	assert.Empty(t, cfg.SnapshotDSN)
	assert.False(t, cfg.Verbose)
}

func TestBindEnvOverride(t *testing.T) {
	t.Setenv("TIMESUP_PORT", "9999")
	t.Setenv("TIMESUP_BASE_URL", "https://party.example")

	cfg := &Config{}
	Bind(newTestFlagSet(), cfg)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "https://party.example", cfg.BaseURL)
}
