package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnvFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "MONDAY_BOARD_ID=123\nADMIN_ALLOWLIST=Lead@Example.org, ops@example.org\nFRONTEND_URL=http://front.example/\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("MONDAY_BOARD_ID", "456")
	t.Setenv("PORT", "9000")

	cfg := LoadFrom(path)

	if cfg.MondayBoardID != "456" {
		t.Fatalf("environment should win, got board %q", cfg.MondayBoardID)
	}
	if cfg.Port != "9000" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.FrontendURL != "http://front.example" {
		t.Fatalf("frontend url not trimmed: %q", cfg.FrontendURL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://front.example" {
		t.Fatalf("cors origins should default to frontend, got %v", cfg.CORSOrigins)
	}
	if cfg.MondayTimeout != 15*time.Second {
		t.Fatalf("unexpected monday timeout %v", cfg.MondayTimeout)
	}
	if cfg.ForwarderPageSize != 100 || cfg.MondayPageSize != 50 {
		t.Fatalf("unexpected page sizes %d/%d", cfg.ForwarderPageSize, cfg.MondayPageSize)
	}
	if !cfg.IsAdminAllowed("lead@example.org") || !cfg.IsAdminAllowed("OPS@example.org") {
		t.Fatalf("allow-list lookups should be case-insensitive: %v", cfg.AdminAllowList)
	}
	if cfg.IsAdminAllowed("someone@example.org") || cfg.IsAdminAllowed("") {
		t.Fatal("unexpected allow-list match")
	}
}
