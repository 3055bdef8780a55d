package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("MODE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("ALLOW_FORCE_SAVE", "")

	cfg := FromEnv()
	if cfg.Mode != ModeOffline || cfg.HTTPAddr == "" || cfg.DBDriver == "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 8*time.Hour {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if !cfg.AllowForceSave {
		t.Error("offline mode should allow force save by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestFromEnvDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	body := "DB_DRIVER=postgres\nCORS_ORIGINS=https://a.example, https://b.example\nTOKEN_TTL=90m\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("MODE", "online")
	// godotenv never overrides what is already set; t.Setenv restores these afterwards.
	t.Setenv("DB_DRIVER", "")
	os.Unsetenv("DB_DRIVER")
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("CORS_ORIGINS")
	t.Setenv("TOKEN_TTL", "")
	os.Unsetenv("TOKEN_TTL")
	t.Setenv("ALLOW_FORCE_SAVE", "")

	cfg := FromEnv()
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if cfg.AllowForceSave {
		t.Error("online mode should not allow force save by default")
	}
}
