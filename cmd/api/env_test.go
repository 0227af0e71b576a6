package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	t.Setenv(envFileVar, filepath.Join(t.TempDir(), "absent.env"))

	if err := loadDotEnv(); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CALCULATOR_ADDR=:9999\nCALCULATOR_TEST_ONLY=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	t.Setenv(envFileVar, path)
	t.Setenv("CALCULATOR_ADDR", ":1234")
	t.Setenv("CALCULATOR_TEST_ONLY", "")
	os.Unsetenv("CALCULATOR_TEST_ONLY")

	if err := loadDotEnv(); err != nil {
		t.Fatalf("loading env file: %v", err)
	}

	if got := os.Getenv("CALCULATOR_ADDR"); got != ":1234" {
		t.Fatalf("expected process env to win, got %q", got)
	}
	if got := os.Getenv("CALCULATOR_TEST_ONLY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
