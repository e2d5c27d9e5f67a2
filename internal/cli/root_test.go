package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brain-battle/internal/config"
)

func TestPortFlagDefaultsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "")
	if got := newRootCmd().PersistentFlags().Lookup("port").DefValue; got != "" {
		t.Fatalf("expected empty port default without PORT, got %q", got)
	}

	t.Setenv("PORT", "9090")
	if got := newRootCmd().PersistentFlags().Lookup("port").DefValue; got != "9090" {
		t.Fatalf("expected PORT to seed the flag, got %q", got)
	}
}

func TestResolvePortFallsBackToConfig(t *testing.T) {
	var cfg config.Config
	if got := resolvePort("", cfg); got != "8080" {
		t.Fatalf("expected 8080 fallback, got %q", got)
	}

	cfg.Server.Port = "7000"
	if got := resolvePort("", cfg); got != "7000" {
		t.Fatalf("expected config port, got %q", got)
	}
	if got := resolvePort("9000", cfg); got != "9000" {
		t.Fatalf("expected flag to win, got %q", got)
	}
}

func TestExecuteReportsUnreadableEnvFile(t *testing.T) {
	dir := t.TempDir()
	// A directory named .env exists but cannot be parsed.
	if err := os.Mkdir(filepath.Join(dir, ".env"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	err = Execute()
	if err == nil || !strings.Contains(err.Error(), "load .env") {
		t.Fatalf("expected .env error, got %v", err)
	}
}
