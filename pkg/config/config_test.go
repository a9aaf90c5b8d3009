package config

import (
	"strings"
	"testing"
	"time"
)

func validProduction() *Config {
	return &Config{
		Environment:           EnvProduction,
		LogLevel:              "info",
		StorageDriver:         DriverPostgres,
		SweepInterval:         time.Minute,
		ReservationDefaultTTL: 15 * time.Minute,
	}
}

func TestValidateForProduction(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid production config", func(*Config) {}, ""},
		{"debug logging", func(c *Config) { c.LogLevel = "debug" }, "LOG_LEVEL"},
		{"memory storage", func(c *Config) { c.StorageDriver = DriverMemory }, "STORAGE_DRIVER"},
		{"zero sweep interval", func(c *Config) { c.SweepInterval = 0 }, "SWEEP_INTERVAL"},
		{"zero ttl", func(c *Config) { c.ReservationDefaultTTL = 0 }, "RESERVATION_DEFAULT_TTL"},
		{"non production skips checks", func(c *Config) {
			c.Environment = EnvDevelopment
			c.LogLevel = "debug"
			c.StorageDriver = DriverMemory
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validProduction()
			tt.mutate(cfg)
			err := ValidateForProduction(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDriver != DriverMemory {
		t.Errorf("StorageDriver: got %q", cfg.StorageDriver)
	}
	if cfg.ReservationDefaultTTL != 15*time.Minute {
		t.Errorf("ReservationDefaultTTL: got %s, want 15m", cfg.ReservationDefaultTTL)
	}
	if cfg.BusinessUTCOffsetHours != 8 {
		t.Errorf("BusinessUTCOffsetHours: got %d, want 8", cfg.BusinessUTCOffsetHours)
	}
	if cfg.HTTPRateLimit != 300 || cfg.HTTPBodyLimit != 1<<20 || cfg.HTTPRequestTimeout != 30*time.Second {
		t.Errorf("HTTP limits: got %d/%d/%s", cfg.HTTPRateLimit, cfg.HTTPBodyLimit, cfg.HTTPRequestTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_RATE_LIMIT", "50")
	t.Setenv("SWEEP_INTERVAL", "15s")
	t.Setenv("DEFAULT_THRESHOLDS", "pieces=3")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPRateLimit != 50 {
		t.Errorf("HTTPRateLimit: got %d, want 50", cfg.HTTPRateLimit)
	}
	if cfg.SweepInterval != 15*time.Second {
		t.Errorf("SweepInterval: got %s, want 15s", cfg.SweepInterval)
	}
	if cfg.DefaultThresholds != "pieces=3" {
		t.Errorf("DefaultThresholds: got %q", cfg.DefaultThresholds)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown storage driver")
	}
}
