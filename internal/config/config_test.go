package config

import (
	"log/slog"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "DB_HOST", "CORS_ORIGINS", "LOG_LEVEL", "PAYMENT_ON_MANUAL_ADD", "STRICT_PAYMENTS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.Store != StorePostgres || cfg.Database.Host != "localhost" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
	if cfg.PaymentOnManualAdd || cfg.StrictPayments {
		t.Error("business toggles should default to off")
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE", "Memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://portal.example, https://admin.example,")
	t.Setenv("PAYMENT_ON_MANUAL_ADD", "true")
	t.Setenv("STRICT_PAYMENTS", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreMemory || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("store = %s, level = %v", cfg.Store, cfg.LogLevel)
	}
	if !cfg.PaymentOnManualAdd || !cfg.StrictPayments {
		t.Error("toggles not applied")
	}
	want := []string{"https://portal.example", "https://admin.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("cors = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct{ key, value string }{
		{"STORE", "sqlite"},
		{"LOG_LEVEL", "chatty"},
		{"STRICT_PAYMENTS", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}
