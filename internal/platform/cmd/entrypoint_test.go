package cmd

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigFromArgs(t *testing.T) {
	type cfg struct {
		Addr string `env:"ADMISSIONS_TEST_ADDR"`
	}
	t.Setenv("ADMISSIONS_TEST_ADDR", ":9000")

	var c cfg
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	if err := ParseConfigFromArgs(&c, fs, nil); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if c.Addr != ":9000" {
		t.Fatalf("addr = %q, want %q", c.Addr, ":9000")
	}

	if err := ParseConfigFromArgs(&c, fs, []string{"-addr", ":9001"}); err != nil {
		t.Fatalf("parse config with flags: %v", err)
	}
	if c.Addr != ":9001" {
		t.Fatalf("flag override addr = %q, want %q", c.Addr, ":9001")
	}
}

func TestRunWithTelemetryRequiresInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for empty service name")
	}
	if err := RunWithTelemetry(context.Background(), ServiceServer, nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryExecutesRun(t *testing.T) {
	ran := false
	err := RunWithTelemetry(context.Background(), ServiceServer, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("run with telemetry: %v", err)
	}
	if !ran {
		t.Fatal("expected run function to execute")
	}
}
