// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envAddr            = "CALCULATOR_ADDR"
	envSessionTTL      = "CALCULATOR_SESSION_TTL"
	envMaxSessions     = "CALCULATOR_MAX_SESSIONS"
	envSweepInterval   = "CALCULATOR_SWEEP_INTERVAL"
	envShutdownTimeout = "CALCULATOR_SHUTDOWN_TIMEOUT"
	envOTLPLogs        = "CALCULATOR_OTLP_LOGS"
)

// Config holds the service settings.
type Config struct {
	Addr            string
	SessionTTL      time.Duration
	MaxSessions     int
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
	// OTLPLogs tees zap output to the OTLP log exporter.
	OTLPLogs bool
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:            ":8080",
		SessionTTL:      30 * time.Minute,
		MaxSessions:     10000,
		SweepInterval:   time.Minute,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load starts from Default and applies any variables that are set.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(envAddr); ok && v != "" {
		cfg.Addr = v
	}

	var err error
	if cfg.SessionTTL, err = durationVar(lookup, envSessionTTL, cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationVar(lookup, envSweepInterval, cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationVar(lookup, envShutdownTimeout, cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	if v, ok := lookup(envMaxSessions); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: invalid count %q", envMaxSessions, v)
		}
		cfg.MaxSessions = n
	}

	if v, ok := lookup(envOTLPLogs); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", envOTLPLogs, err)
		}
		cfg.OTLPLogs = b
	}

	return cfg, nil
}

func durationVar(lookup func(string) (string, bool), name string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %q", name, v)
	}
	return d, nil
}
