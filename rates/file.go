/*
file.go - YAML rate and LHA file loading

PURPOSE:
  Parses operator-supplied YAML files into the engine's immutable tables.
  Amounts are written as strings ("424.90") and parsed strictly; a typo'd
  amount or a missing required rate fails the load, never a later claim.

RATE FILE:
  tax_year: "2026-27"
  effective_from: "2026-04-01"
  rates:
    standard_allowance.single_25_plus: "424.90"
    earnings.taper_rate: "0.55"
    ...

LHA FILE:
  effective_from: "2026-04-01"
  brmas:
    - brma_code: "E08000032"
      brma_name: "Bradford & South Dales"
      local_authority: "City of Bradford MDC"
      monthly_rates:
        studio: "550.00"
        one_bedroom: "650.00"
        two_bedrooms: "800.00"
        three_bedrooms: "950.00"
        four_bedrooms: "1150.00"

SEE ALSO:
  - rates.go: Compiled-in defaults used when no file is configured
  - cmd/server: Chooses file vs default from settings
*/
package rates

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/claimkit/uc-engine/engine"
)

const dateLayout = "2006-01-02"

// =============================================================================
// YAML SCHEMA TYPES
// =============================================================================

// RateFileYAML is the on-disk rate table shape.
type RateFileYAML struct {
	TaxYear       string            `yaml:"tax_year"`
	EffectiveFrom string            `yaml:"effective_from"`
	Rates         map[string]string `yaml:"rates"`
}

// LHAFileYAML is the on-disk LHA schedule shape.
type LHAFileYAML struct {
	EffectiveFrom string     `yaml:"effective_from"`
	BRMAs         []BRMAYAML `yaml:"brmas"`
}

// BRMAYAML is one BRMA entry in an LHA file.
type BRMAYAML struct {
	BRMACode       string           `yaml:"brma_code"`
	BRMAName       string           `yaml:"brma_name"`
	LocalAuthority string           `yaml:"local_authority"`
	MonthlyRates   MonthlyRatesYAML `yaml:"monthly_rates"`
}

// MonthlyRatesYAML carries the five band amounts as strings.
type MonthlyRatesYAML struct {
	Studio        string `yaml:"studio"`
	OneBedroom    string `yaml:"one_bedroom"`
	TwoBedrooms   string `yaml:"two_bedrooms"`
	ThreeBedrooms string `yaml:"three_bedrooms"`
	FourBedrooms  string `yaml:"four_bedrooms"`
}

// =============================================================================
// RATE TABLE LOADING
// =============================================================================

// LoadRateTable reads and parses a YAML rate file.
func LoadRateTable(path string) (*engine.RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate file: %w", err)
	}
	table, err := ParseRateTable(data)
	if err != nil {
		return nil, fmt.Errorf("parse rate file %s: %w", path, err)
	}
	return table, nil
}

// ParseRateTable parses rate file bytes into an immutable table. The table
// must carry every rate the engine can ask for.
func ParseRateTable(data []byte) (*engine.RateTable, error) {
	var file RateFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if file.TaxYear == "" {
		return nil, fmt.Errorf("tax_year is required")
	}

	effectiveFrom, err := parseDate(file.EffectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("effective_from: %w", err)
	}

	parsed := make(map[engine.RateName]decimal.Decimal, len(file.Rates))
	for name, raw := range file.Rates {
		amount, err := parseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", name, err)
		}
		parsed[engine.RateName(name)] = amount
	}

	table := engine.NewRateTable(file.TaxYear, effectiveFrom, parsed)
	if missing := table.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("rate file for %s is missing required rates: %v", file.TaxYear, missing)
	}
	return table, nil
}

// =============================================================================
// LHA SCHEDULE LOADING
// =============================================================================

// LoadLHATable reads and parses a YAML LHA file.
func LoadLHATable(path string) (*LHATable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read LHA file: %w", err)
	}
	table, err := ParseLHATable(data)
	if err != nil {
		return nil, fmt.Errorf("parse LHA file %s: %w", path, err)
	}
	return table, nil
}

// ParseLHATable parses LHA file bytes. Every BRMA needs a code and all five
// band amounts; duplicate codes are rejected rather than silently merged.
func ParseLHATable(data []byte) (*LHATable, error) {
	var file LHAFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(file.BRMAs) == 0 {
		return nil, fmt.Errorf("no brmas defined")
	}

	effectiveFrom, err := parseDate(file.EffectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("effective_from: %w", err)
	}

	seen := make(map[string]bool, len(file.BRMAs))
	schedules := make([]BRMASchedule, 0, len(file.BRMAs))
	for i, b := range file.BRMAs {
		if b.BRMACode == "" {
			return nil, fmt.Errorf("brmas[%d]: brma_code is required", i)
		}
		if seen[b.BRMACode] {
			return nil, fmt.Errorf("brmas[%d]: duplicate brma_code %q", i, b.BRMACode)
		}
		seen[b.BRMACode] = true

		schedule, err := b.toSchedule(effectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("brmas[%d] (%s): %w", i, b.BRMACode, err)
		}
		schedules = append(schedules, schedule)
	}
	return NewLHATable(schedules...), nil
}

func (b BRMAYAML) toSchedule(effectiveFrom time.Time) (BRMASchedule, error) {
	bands := []struct {
		name string
		raw  string
	}{
		{"studio", b.MonthlyRates.Studio},
		{"one_bedroom", b.MonthlyRates.OneBedroom},
		{"two_bedrooms", b.MonthlyRates.TwoBedrooms},
		{"three_bedrooms", b.MonthlyRates.ThreeBedrooms},
		{"four_bedrooms", b.MonthlyRates.FourBedrooms},
	}

	amounts := make([]decimal.Decimal, len(bands))
	for i, band := range bands {
		amount, err := parseAmount(band.raw)
		if err != nil {
			return BRMASchedule{}, fmt.Errorf("monthly_rates.%s: %w", band.name, err)
		}
		amounts[i] = amount
	}

	return BRMASchedule{
		BRMACode:       b.BRMACode,
		BRMAName:       b.BRMAName,
		LocalAuthority: b.LocalAuthority,
		EffectiveFrom:  effectiveFrom,
		Studio:         amounts[0],
		OneBed:         amounts[1],
		TwoBed:         amounts[2],
		ThreeBed:       amounts[3],
		FourBed:        amounts[4],
	}, nil
}

// =============================================================================
// PARSE HELPERS
// =============================================================================

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", raw)
	}
	return amount, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}
