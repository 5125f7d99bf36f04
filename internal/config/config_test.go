package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() unexpected error: %v", err)
	}
	if cfg.Host != defaultHost || cfg.Port != defaultPort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.IdleTimeout != defaultIdleTimeout || cfg.MaxSessions != defaultMaxSessions {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Fatalf("unexpected backend url: %q", cfg.BackendURL)
	}
	if cfg.SettingsPath != "" {
		t.Fatalf("settings path should default to empty, got %q", cfg.SettingsPath)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LUMEN_SSH_HOST", "127.0.0.1")
	t.Setenv("LUMEN_SSH_PORT", "2022")
	t.Setenv("LUMEN_SSH_IDLE_TIMEOUT", "45s")
	t.Setenv("LUMEN_SSH_MAX_SESSIONS", "8")
	t.Setenv("LUMEN_SETTINGS_PATH", "/var/lib/lumen/appsettings.json")
	t.Setenv("LUMEN_SIM_BACKEND_URL", "https://sim.internal:8443")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() unexpected error: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 2022 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.IdleTimeout != 45*time.Second || cfg.MaxSessions != 8 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.SettingsPath != "/var/lib/lumen/appsettings.json" {
		t.Fatalf("settings path = %q", cfg.SettingsPath)
	}
	if cfg.BackendURL != "https://sim.internal:8443" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
}

func TestLoadFromEnvInvalidPort(t *testing.T) {
	t.Setenv("LUMEN_SSH_PORT", "not-a-number")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for invalid port")
	}
}

func TestLoadFromEnvPortOutOfRange(t *testing.T) {
	t.Setenv("LUMEN_SSH_PORT", "70000")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for out-of-range port")
	}
}

func TestLoadFromEnvEmptyHost(t *testing.T) {
	t.Setenv("LUMEN_SSH_HOST", "")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for empty host")
	}
}

func TestLoadFromEnvInvalidHostKeyPath(t *testing.T) {
	t.Setenv("LUMEN_SSH_HOST_KEY_PATH", ".")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for host key path resolving to current directory")
	}
}

func TestLoadFromEnvInvalidIdleTimeout(t *testing.T) {
	t.Setenv("LUMEN_SSH_IDLE_TIMEOUT", "not-duration")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for invalid duration")
	}
}

func TestLoadFromEnvInvalidMaxSessions(t *testing.T) {
	t.Setenv("LUMEN_SSH_MAX_SESSIONS", "0")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for invalid max sessions")
	}
}

func TestLoadFromEnvInvalidBackendURL(t *testing.T) {
	t.Setenv("LUMEN_SIM_BACKEND_URL", "ftp://sim.internal")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() expected error for non-http backend url")
	}
}
