package pricing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	schedule, err := Parse([]byte("tuition_amount: 300000\ncurrency: eur\nmax_installments: 6\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if schedule.TuitionAmount != 300000 {
		t.Fatalf("tuition = %d, want 300000", schedule.TuitionAmount)
	}
	if schedule.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", schedule.Currency)
	}
	if schedule.MaxInstallments != 6 {
		t.Fatalf("max installments = %d, want 6", schedule.MaxInstallments)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty payload", "   \n"},
		{"zero tuition", "tuition_amount: 0\ncurrency: USD\n"},
		{"missing currency", "tuition_amount: 100\n"},
		{"negative cap", "tuition_amount: 100\ncurrency: USD\nmax_installments: -1\n"},
		{"malformed yaml", "tuition_amount: [\n"},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	if err := os.WriteFile(path, []byte("tuition_amount: 500000\ncurrency: USD\nmax_installments: 4\n"), 0o600); err != nil {
		t.Fatalf("write pricing file: %v", err)
	}

	schedule, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if schedule.TuitionAmount != 500000 {
		t.Fatalf("tuition = %d, want 500000", schedule.TuitionAmount)
	}
}

func TestLoadDefault(t *testing.T) {
	schedule, err := Load("")
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if schedule != Default {
		t.Fatalf("schedule = %+v, want default", schedule)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
