package config

import "testing"

type testConfig struct {
	Addr string `env:"DROGVYN_TEST_ADDR"`
	Path string `env:"DROGVYN_TEST_PATH"`
}

func TestParseEnv(t *testing.T) {
	t.Setenv("DROGVYN_TEST_ADDR", "localhost:9000")
	t.Setenv("DROGVYN_TEST_PATH", "/tmp/saga.db")

	cfg := testConfig{}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:9000" {
		t.Fatalf("expected addr localhost:9000, got %q", cfg.Addr)
	}
	if cfg.Path != "/tmp/saga.db" {
		t.Fatalf("expected path /tmp/saga.db, got %q", cfg.Path)
	}
}

func TestParseEnvKeepsDefaults(t *testing.T) {
	cfg := testConfig{Addr: "localhost:8088"}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:8088" {
		t.Fatalf("expected default addr to survive, got %q", cfg.Addr)
	}
}
