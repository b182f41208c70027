package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.TemplateDir != "./templates" || cfg.MediaDir != "./media" {
		t.Errorf("dirs = %q, %q", cfg.TemplateDir, cfg.MediaDir)
	}
	if cfg.DevMode {
		t.Error("dev mode defaults on")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RUMBO_PORT", "9000")
	t.Setenv("RUMBO_DATABASE_URL", "postgres://localhost/rumbo")
	t.Setenv("RUMBO_DEV_MODE", "true")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/rumbo" {
		t.Errorf("database url = %q", cfg.DatabaseURL)
	}
	if !cfg.DevMode {
		t.Error("dev mode not enabled")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("RUMBO_PORT", "eighty")
	t.Setenv("RUMBO_DEV_MODE", "maybe")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Port)
	}
	if cfg.DevMode {
		t.Error("malformed bool enabled dev mode")
	}
}
