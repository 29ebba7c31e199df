// Package logging configures the process-wide zerolog logger for the
// rodlayout binaries and tests.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variables read when the logger is configured.
const (
	EnvLogLevel   = "RODLAYOUT_LOG_LEVEL"
	EnvLogNoColor = "RODLAYOUT_LOG_NOCOLOR"
)

// Profile selects the default level and output style.
type Profile int

// Logging profiles.
const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	level   zerolog.Level
	noColor bool
	out     io.Writer
}

var configureOnce sync.Once

// ConfigureRuntime configures logging for the rodlayout binary.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests silences logging unless RODLAYOUT_LOG_LEVEL asks otherwise.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the global logger once per process. Later calls are
// no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)
		install(cfg)
	})
}

// SetLevel overrides the global level, e.g. from a config file value.
// Unknown names are ignored and reported as false.
func SetLevel(raw string) bool {
	lvl, ok := ParseLevel(raw)
	if ok {
		zerolog.SetGlobalLevel(lvl)
	}
	return ok
}

// Component returns a child of the global logger tagged with name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func defaultConfig(profile Profile) config {
	cfg := config{out: os.Stderr}
	switch profile {
	case ProfileTest:
		cfg.level = zerolog.Disabled
		cfg.noColor = true
	default:
		cfg.level = zerolog.InfoLevel
	}
	return cfg
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
}

func install(cfg config) {
	output := zerolog.ConsoleWriter{
		Out:        cfg.out,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.noColor,
	}
	zerolog.SetGlobalLevel(cfg.level)
	log.Logger = zerolog.New(output).With().Timestamp().Str("app", "rodlayout").Logger()
}

// ParseLevel maps a user-facing level name to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
