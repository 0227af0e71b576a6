package config

import (
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg != Default() {
		t.Fatalf("expected defaults %+v, got %+v", Default(), cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(lookupFrom(map[string]string{
		envAddr:            ":9090",
		envSessionTTL:      "90s",
		envMaxSessions:     "3",
		envSweepInterval:   "10s",
		envShutdownTimeout: "1s",
		envOTLPLogs:        "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Config{
		Addr:            ":9090",
		SessionTTL:      90 * time.Second,
		MaxSessions:     3,
		SweepInterval:   10 * time.Second,
		ShutdownTimeout: time.Second,
		OTLPLogs:        true,
	}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadFromProcessEnvironment(t *testing.T) {
	t.Setenv(envAddr, ":7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected addr %q, got %q", ":7070", cfg.Addr)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: envSessionTTL, value: "soon"},
		{key: envSweepInterval, value: "-1s"},
		{key: envMaxSessions, value: "lots"},
		{key: envMaxSessions, value: "-2"},
		{key: envOTLPLogs, value: "maybe"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			_, err := load(lookupFrom(map[string]string{tc.key: tc.value}))
			if err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
