// Package pricing loads the per-season tuition schedule from a YAML file.
// Pricing is configuration, not data: it changes between seasons, not between
// requests, so it is read once at startup.
package pricing

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lakemont/admissions/internal/ledger"
)

// Schedule holds the tuition pricing used when an application is promoted.
type Schedule struct {
	// TuitionAmount is the full tuition in currency minor units.
	TuitionAmount ledger.Amount `yaml:"tuition_amount"`
	// Currency is the ISO 4217 code all invoices are issued in.
	Currency string `yaml:"currency"`
	// MaxInstallments caps payment plan length. Zero means no cap.
	MaxInstallments int `yaml:"max_installments"`
}

// Default is the schedule used when no pricing file is configured.
var Default = Schedule{
	TuitionAmount:   250000,
	Currency:        "USD",
	MaxInstallments: 12,
}

// Parse decodes and validates a schedule payload.
func Parse(data []byte) (Schedule, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Schedule{}, fmt.Errorf("pricing: schedule payload is empty")
	}
	var schedule Schedule
	if err := yaml.Unmarshal(data, &schedule); err != nil {
		return Schedule{}, fmt.Errorf("pricing: decode schedule: %w", err)
	}
	if err := schedule.Validate(); err != nil {
		return Schedule{}, err
	}
	schedule.Currency = strings.ToUpper(strings.TrimSpace(schedule.Currency))
	return schedule, nil
}

// Load reads a schedule from disk. An empty path returns the default schedule.
func Load(path string) (Schedule, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("pricing: read %s: %w", path, err)
	}
	schedule, err := Parse(data)
	if err != nil {
		return Schedule{}, fmt.Errorf("pricing: %s: %w", path, err)
	}
	return schedule, nil
}

// Validate checks schedule invariants.
func (s Schedule) Validate() error {
	if s.TuitionAmount <= 0 {
		return fmt.Errorf("pricing: tuition_amount must be positive")
	}
	if strings.TrimSpace(s.Currency) == "" {
		return fmt.Errorf("pricing: currency is required")
	}
	if s.MaxInstallments < 0 {
		return fmt.Errorf("pricing: max_installments must not be negative")
	}
	return nil
}
