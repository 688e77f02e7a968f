package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Printer.CharWidth != 48 {
		t.Errorf("Printer.CharWidth = %d, want 48", cfg.Printer.CharWidth)
	}
	if cfg.Pricing.InclusiveBase != 105 {
		t.Errorf("Pricing.InclusiveBase = %v, want 105", cfg.Pricing.InclusiveBase)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Backend.Timeout = %v, want 10s", cfg.Backend.Timeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PRICING_VAT_PERCENT", "5")
	t.Setenv("PRICING_SERVICE_PERCENT", "5")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()

	if cfg.Pricing.VATPercent != 5 || cfg.Pricing.ServicePercent != 5 {
		t.Errorf("pricing = %+v, want 5/5", cfg.Pricing)
	}
	if cfg.Store.Driver != "redis" {
		t.Errorf("Store.Driver = %q, want redis", cfg.Store.Driver)
	}
	if got := cfg.Redis.Addr(); got != "localhost:6380" {
		t.Errorf("Redis.Addr() = %q, want localhost:6380", got)
	}
}

func TestBusinessLocation(t *testing.T) {
	tests := []struct {
		name string
		zone string
		want string
	}{
		{"known zone", "Europe/London", "Europe/London"},
		{"unknown zone falls back", "Mars/Olympus", "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BusinessConfig{TimeZone: tt.zone}
			if got := b.Location().String(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}
