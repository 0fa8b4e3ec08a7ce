// Package config loads defaults for the command-line tools from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/thurmanmarka/sunposition/internal/logging"
)

// Environment variables read by Load.
const (
	EnvLatitude  = "SUNPOSITION_LAT"
	EnvLongitude = "SUNPOSITION_LON"
	EnvTimezone  = "SUNPOSITION_TZ"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config holds tool defaults. Command-line flags override it.
type Config struct {
	Lat      float64
	Lon      float64
	Timezone string
	Logging  logging.Config

	// FromDotEnv is true when a .env file was found and loaded.
	FromDotEnv bool
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the given .env files (default ".env") if present and then the
// process environment. Variables already set in the environment win over
// the file, which is godotenv's behavior.
func Load(files ...string) (Config, error) {
	cfg := Config{}

	if err := godotenv.Load(files...); err == nil {
		cfg.FromDotEnv = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	var err error
	if cfg.Lat, err = floatEnv(EnvLatitude); err != nil {
		return Config{}, err
	}
	if cfg.Lon, err = floatEnv(EnvLongitude); err != nil {
		return Config{}, err
	}

	cfg.Timezone = getEnv(EnvTimezone, "UTC")
	cfg.Logging = logging.Config{
		Level:  getEnv(EnvLogLevel, "info"),
		Format: getEnv(EnvLogFormat, "text"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func floatEnv(key string) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, v, err)
	}
	return f, nil
}
