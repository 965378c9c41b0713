package config

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestParseDurationWithDays(t *testing.T) {
	cases := map[string]time.Duration{
		"90d":   90 * 24 * time.Hour,
		"2s":    2 * time.Second,
		"1h30m": 90 * time.Minute,
		"bad":   0,
		"xd":    0,
	}
	for in, want := range cases {
		if got := parseDurationWithDays(in); got != want {
			t.Fatalf("parseDurationWithDays(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" a:9092, ,b:9092 ")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %#v", got)
	}
	if splitAndTrim("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestLoad_DefaultsAndRequired(t *testing.T) {
	for k, v := range map[string]string{
		"APP_PORT":     ":8080",
		"DB_HOST":      "localhost",
		"DB_PORT":      "5432",
		"DB_USER":      "store",
		"DB_PASSWORD":  "store",
		"DB_NAME":      "store",
		"DB_SSLMODE":   "disable",
		"JWT_SECRET":   "secret",
		"JWT_ISSUER":   "store",
		"JWT_AUDIENCE": "store-api",
	} {
		t.Setenv(k, v)
	}
	t.Setenv("STORE_CURRENCY", "eur")

	cfg := Load(zap.NewNop())
	if cfg.Store.Currency != "EUR" {
		t.Fatalf("currency = %q", cfg.Store.Currency)
	}
	if cfg.Store.DefaultCarrier != "Default Carrier" {
		t.Fatalf("carrier = %q", cfg.Store.DefaultCarrier)
	}
	if cfg.NotificationRetention != 90*24*time.Hour {
		t.Fatalf("retention = %v", cfg.NotificationRetention)
	}
	if cfg.Kafka.Enabled() {
		t.Fatal("kafka must be disabled without brokers")
	}
}

func TestLoad_MissingRequiredPanics(t *testing.T) {
	t.Setenv("APP_PORT", ":8080")
	// Setenv first so the original value is restored after the test
	t.Setenv("DB_HOST", "")
	os.Unsetenv("DB_HOST")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing DB_HOST")
		}
	}()
	Load(zap.NewNop())
}

func TestLoadJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_ISSUER", "store")
	t.Setenv("JWT_AUDIENCE", "store-api")
	t.Setenv("ACCESS_EXP", "7d")

	j := LoadJWT(zap.NewNop())
	if j.Secret != "secret" || j.Issuer != "store" || j.Audience != "store-api" {
		t.Fatalf("unexpected jwt config: %+v", j)
	}
	if j.AccessExp != 7*24*time.Hour {
		t.Fatalf("access exp = %v", j.AccessExp)
	}
}
