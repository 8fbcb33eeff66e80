package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("INVENTORY_TEST_LOCALE=it-IT\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INVENTORY_TEST_LOCALE", "")
	os.Unsetenv("INVENTORY_TEST_LOCALE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("INVENTORY_TEST_LOCALE"); got != "it-IT" {
		t.Errorf("INVENTORY_TEST_LOCALE = %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "nope")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Error("expected validation error")
	}
	t.Setenv("PORT", "8090")
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
}

func TestSetupLogger(t *testing.T) {
	if l := SetupLogger("debug"); l == nil {
		t.Fatal("nil logger")
	}
	if l := SetupLogger("bogus"); l.Component() != "app" {
		t.Errorf("Component = %q", l.Component())
	}
}
