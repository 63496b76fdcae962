package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Calendar.Timezone != "UTC" {
		t.Errorf("Expected timezone UTC, got %s", cfg.Calendar.Timezone)
	}

	if cfg.Calendar.SessionOpen != "09:00" {
		t.Errorf("Expected session open 09:00, got %s", cfg.Calendar.SessionOpen)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("CAL_SESSION_OPEN", "09:30")
	os.Setenv("DB_MAX_CONNS", "50")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("CAL_SESSION_OPEN")
		os.Unsetenv("DB_MAX_CONNS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Calendar.SessionOpen != "09:30" {
		t.Errorf("Expected session open 09:30, got %s", cfg.Calendar.SessionOpen)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "nonsense")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid ENV")
	}
}

func TestLoadRejectsInvalidSessionTime(t *testing.T) {
	os.Setenv("CAL_SESSION_CLOSE", "25:99")
	defer os.Unsetenv("CAL_SESSION_CLOSE")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid session close")
	}
}
