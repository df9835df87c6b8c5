package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "JWT_SECRET", "TOKEN_TTL", "STORE_DRIVER", "MONGO_URI", "DATABASE_URL", "UPLOAD_DIR", "UPLOAD_MAX_BYTES", "CONFIG_FILE"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 30*24*time.Hour {
		t.Errorf("expected 30 day token TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Upload.MaxBytes != 10<<20 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Store.Driver != DriverMongo {
		t.Errorf("expected mongo driver by default, got %q", cfg.Store.Driver)
	}
	if cfg.Addr() != ":5000" {
		t.Errorf("expected addr :5000, got %q", cfg.Addr())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BAN_DURATION", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("expected secret from env, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.RateLimit.BanDuration != 30*time.Second {
		t.Errorf("expected 30s ban, got %v", cfg.RateLimit.BanDuration)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 9090\nupload_dir: /tmp/imports\nstore_driver: memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from file, got %d", cfg.Server.Port)
	}
	if cfg.Upload.Dir != "/tmp/imports" {
		t.Errorf("expected upload dir from file, got %q", cfg.Upload.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantError string
	}{
		{name: "Unknown driver", env: map[string]string{"STORE_DRIVER": "sqlite"}, wantError: "unknown STORE_DRIVER"},
		{name: "Bad port", env: map[string]string{"PORT": "0"}, wantError: "PORT must be between"},
		{name: "Postgres without URL", env: map[string]string{"STORE_DRIVER": "postgres"}, wantError: "DATABASE_URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantError)
			}
			if !strings.Contains(err.Error(), tt.wantError) {
				t.Errorf("expected error containing %q, got %v", tt.wantError, err)
			}
		})
	}
}
