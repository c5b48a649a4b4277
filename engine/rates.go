/*
rates.go - Rate table contract and the named rates the pipeline reads

PURPOSE:
  A RateTable is an immutable mapping from rate name to monetary amount,
  versioned by tax year. The engine reads rates by name and fails with a
  ConfigurationError when a required one is absent; it never hardcodes a
  published figure.

KEY CONCEPTS:
  - RateName: typed key, dotted by component ("standard_allowance.single_25_plus")
  - RateTable: copied on construction, read-only afterwards, safe for any
    number of concurrent readers
  - RequiredRates: the closed set of names Calculate can ask for

SEE ALSO:
  - rates/ package: Compiled-in defaults and YAML file loading
  - engine.go: The only consumer of these names
*/
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE NAMES
// =============================================================================

type RateName string

const (
	// Standard allowance, 4-way by household and age bracket.
	RateStandardSingleUnder25 RateName = "standard_allowance.single_under_25"
	RateStandardSingle25Plus  RateName = "standard_allowance.single_25_plus"
	RateStandardJointUnder25  RateName = "standard_allowance.joint_under_25"
	RateStandardJoint25Plus   RateName = "standard_allowance.joint_25_plus"

	// Child element.
	RateFirstChild            RateName = "child_element.first_child"
	RateAdditionalChild       RateName = "child_element.additional_child"
	RateDisabledChildAddition RateName = "child_element.disabled_child_addition"

	// Childcare element. The caps bound the eligible costs before the
	// reimbursement percentage is applied.
	RateChildcarePercentage  RateName = "childcare.reimbursement_rate"
	RateChildcareCapOneChild RateName = "childcare.cap_one_child"
	RateChildcareCapTwoPlus  RateName = "childcare.cap_two_plus"

	// Disability and carer elements. The pipeline pays the limited-capability
	// rate for has_disability; the work-activity rate is published alongside
	// it in the same table.
	RateDisabilityLCW   RateName = "disability.limited_capability"
	RateDisabilityLCWRA RateName = "disability.limited_capability_work_activity"
	RateCarer           RateName = "carer.standard"

	// Earnings taper.
	RateEarningsTaper RateName = "earnings.taper_rate"
	RateWorkAllowance RateName = "earnings.work_allowance"
)

// RequiredRates returns every rate name Calculate may read. Loaders check
// this set up front so a truncated rate file fails at startup, not mid-claim.
func RequiredRates() []RateName {
	return []RateName{
		RateStandardSingleUnder25,
		RateStandardSingle25Plus,
		RateStandardJointUnder25,
		RateStandardJoint25Plus,
		RateFirstChild,
		RateAdditionalChild,
		RateDisabledChildAddition,
		RateChildcarePercentage,
		RateChildcareCapOneChild,
		RateChildcareCapTwoPlus,
		RateDisabilityLCW,
		RateCarer,
		RateEarningsTaper,
		RateWorkAllowance,
	}
}

// =============================================================================
// RATE TABLE
// =============================================================================

// RateTable holds the published rates for one assessment period. Construct
// with NewRateTable; the map is copied so later caller mutations cannot leak
// into in-flight calculations.
type RateTable struct {
	taxYear       string
	effectiveFrom time.Time
	rates         map[RateName]decimal.Decimal
}

func NewRateTable(taxYear string, effectiveFrom time.Time, rates map[RateName]decimal.Decimal) *RateTable {
	copied := make(map[RateName]decimal.Decimal, len(rates))
	for name, amount := range rates {
		copied[name] = amount
	}
	return &RateTable{taxYear: taxYear, effectiveFrom: effectiveFrom, rates: copied}
}

// TaxYear is the period label, e.g. "2026-27".
func (t *RateTable) TaxYear() string { return t.taxYear }

// EffectiveFrom is the first day the table applies.
func (t *RateTable) EffectiveFrom() time.Time { return t.effectiveFrom }

// Rate returns the amount for a named rate, or a ConfigurationError when the
// table does not carry it.
func (t *RateTable) Rate(name RateName) (decimal.Decimal, error) {
	amount, ok := t.rates[name]
	if !ok {
		return decimal.Zero, &ConfigurationError{Rate: name, TaxYear: t.taxYear}
	}
	return amount, nil
}

// Has reports whether the table carries a named rate.
func (t *RateTable) Has(name RateName) bool {
	_, ok := t.rates[name]
	return ok
}

// Missing returns the required rates this table lacks, sorted for stable
// error messages. Empty means the table can serve any calculation.
func (t *RateTable) Missing() []RateName {
	var missing []RateName
	for _, name := range RequiredRates() {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Names returns every rate name in the table, sorted.
func (t *RateTable) Names() []RateName {
	names := make([]RateName, 0, len(t.rates))
	for name := range t.rates {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
