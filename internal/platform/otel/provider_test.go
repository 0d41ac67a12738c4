package otel

import (
	"context"
	"testing"
)

func TestSetupDisabledByFlag(t *testing.T) {
	t.Setenv("ADMISSIONS_OTEL_ENABLED", "false")
	t.Setenv("ADMISSIONS_OTEL_ENDPOINT", "http://localhost:4318")

	shutdown, err := Setup(context.Background(), "admissions")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupNoEndpointIsNoop(t *testing.T) {
	t.Setenv("ADMISSIONS_OTEL_ENABLED", "")
	t.Setenv("ADMISSIONS_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "admissions")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
