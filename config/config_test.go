package config

import (
	"context"
	"testing"

	"github.com/farellandr/mealpass/internal/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreDriver != DriverPostgres || cfg.Port != "8080" || cfg.RateLimitRPS != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.CORSOrigins)
	}
}

func TestQRSecretFallsBackToJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("QR_SECRET", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QRSecret != "jwt" {
		t.Errorf("QRSecret = %q; want jwt", cfg.QRSecret)
	}

	t.Setenv("QR_SECRET", "qr")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.QRSecret != "qr" || cfg.JWTSecret != "jwt" {
		t.Errorf("secrets = %q/%q", cfg.QRSecret, cfg.JWTSecret)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Error("missing secret accepted")
	}

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "sqlite")
	if _, err := LoadConfig(); err == nil {
		t.Error("unknown driver accepted")
	}

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	if _, err := LoadConfig(); err == nil {
		t.Error("bad rate accepted")
	}
}

func TestInitMemoryStore(t *testing.T) {
	s, locker, err := InitStore(context.Background(), &Config{StoreDriver: DriverMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("store = %T", s)
	}
	if _, ok := locker.(*store.LocalLocker); !ok {
		t.Errorf("locker = %T", locker)
	}
}
