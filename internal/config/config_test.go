package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLatitude, EnvLongitude, EnvTimezone, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.False(t, cfg.FromDotEnv)
	assert.Equal(t, 0.0, cfg.Lat)
	assert.Equal(t, 0.0, cfg.Lon)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_DotEnvAndOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "SUNPOSITION_LAT=49.4499314\nSUNPOSITION_LON=8.6712089\nSUNPOSITION_TZ=Europe/Berlin\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Already-set variables win over the file.
	t.Setenv(EnvLongitude, "-8.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.FromDotEnv)
	assert.InDelta(t, 49.4499314, cfg.Lat, 1e-12)
	assert.InDelta(t, -8.5, cfg.Lon, 1e-12)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_BadFloat(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLatitude, "north")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvLatitude)
}

func TestConfigLocation(t *testing.T) {
	loc, err := Config{}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = Config{Timezone: "Mars/Olympus_Mons"}.Location()
	assert.Error(t, err)
}
