package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "NODE_ENV", "ENV", "STORE_DRIVER", "JWT_SECRET", "JWT_EXPIRY", "HASH_ALGORITHM", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.Env != EnvDevelopment || cfg.IsProduction() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, DriverMongo)
	}
	if cfg.JWTExpiry != 30*24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 720h", cfg.JWTExpiry)
	}
	if cfg.HashAlgorithm != "bcrypt" {
		t.Errorf("HashAlgorithm = %q, want bcrypt", cfg.HashAlgorithm)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("NODE_ENV", "")
	t.Setenv("ENV", "staging")
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("HASH_ALGORITHM", "argon2id")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://atlas.example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8081" || cfg.Env != "staging" {
		t.Errorf("unexpected port/env: %q %q", cfg.Port, cfg.Env)
	}
	if cfg.StoreDriver != DriverMySQL {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, DriverMySQL)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://atlas.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "thirty days")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid JWT_EXPIRY")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Env:           EnvDevelopment,
		StoreDriver:   DriverMongo,
		HashAlgorithm: "bcrypt",
		JWTSecret:     defaultJWTSecret,
		JWTExpiry:     time.Hour,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, true},
		{"unknown hash", func(c *Config) { c.HashAlgorithm = "md5" }, true},
		{"zero expiry", func(c *Config) { c.JWTExpiry = 0 }, true},
		{"default secret in production", func(c *Config) { c.Env = EnvProduction }, true},
		{"custom secret in production", func(c *Config) { c.Env = EnvProduction; c.JWTSecret = "s3cr3t" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	prod := valid
	prod.Env = EnvProduction
	if err := prod.Validate(); !errors.Is(err, ErrDefaultSecret) {
		t.Errorf("Validate() error = %v, want %v", err, ErrDefaultSecret)
	}
}
