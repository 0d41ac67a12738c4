package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":8081" {
		t.Fatalf("GRPCAddr = %q, want :8081", cfg.GRPCAddr)
	}
	if cfg.DBPath != "data/admissions.db" {
		t.Fatalf("DBPath = %q, want data/admissions.db", cfg.DBPath)
	}
}

func TestParseConfigEnvOverride(t *testing.T) {
	t.Setenv("ADMISSIONS_HTTP_ADDR", ":9090")
	t.Setenv("ADMISSIONS_DB_PATH", "/tmp/test.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Fatalf("DBPath = %q, want /tmp/test.db", cfg.DBPath)
	}
}

func TestParseConfigFlagOverride(t *testing.T) {
	t.Setenv("ADMISSIONS_HTTP_ADDR", ":9090")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", ":7070"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("HTTPAddr = %q, want :7070", cfg.HTTPAddr)
	}
}
