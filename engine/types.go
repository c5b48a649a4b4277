/*
Package engine provides the Universal Credit entitlement calculation core.

PURPOSE:
  This package contains the types and algorithm for turning a claimant's
  circumstances into a monthly entitlement breakdown. The calculation is a
  pure function over three inputs: the circumstances, a rate table for the
  assessment period, and an LHA lookup for housing caps. Nothing is retained
  between calls.

KEY CONCEPTS IN THIS FILE (types.go):
  - Circumstances: Everything the claimant declares for an assessment month
  - Child: One dependent child (order matters, the first child has its own rate)
  - Breakdown: The immutable per-element result of one calculation
  - Monetary values: decimal.Decimal throughout, never float64

DESIGN PRINCIPLES:
  1. Purity: Calculate has no clock, no I/O, no hidden configuration
  2. Precision: decimal arithmetic, rounded once per element (see money.go)
  3. Explicit inputs: rate table and LHA lookup are parameters, not globals
  4. Auditability: the breakdown echoes the inputs that shaped it

USAGE:
  circ := engine.Circumstances{
      ClaimantType:    engine.ClaimantSingle,
      ClaimantAge:     30,
      HousingType:     engine.HousingRenter,
      MonthlyRent:     engine.MustParseDecimal("600.00"),
      BRMACode:        "E92000001",
      BedroomsNeeded:  1,
      AssessmentMonth: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
  }
  breakdown, err := engine.Calculate(circ, rateTable, lhaTable)

SEE ALSO:
  - engine.go: The calculation pipeline
  - rates.go: Rate table contract and rate names
  - lha.go: LHA lookup contract and bedroom band policy
  - validate.go: Pre-calculation invariant checks
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLAIMANT CLASSIFICATION
// =============================================================================

// ClaimantType distinguishes single and joint claims. Joint claims carry
// partner age and partner earnings; single claims must not.
type ClaimantType string

const (
	ClaimantSingle ClaimantType = "single"
	ClaimantJoint  ClaimantType = "joint"
)

// Valid reports whether the claimant type is one of the known values.
func (t ClaimantType) Valid() bool {
	return t == ClaimantSingle || t == ClaimantJoint
}

// HousingType drives the housing element. Only renters receive one.
type HousingType string

const (
	HousingRenter HousingType = "renter"
	HousingOwner  HousingType = "owner"
	HousingNone   HousingType = "none"
)

func (t HousingType) Valid() bool {
	return t == HousingRenter || t == HousingOwner || t == HousingNone
}

// =============================================================================
// CIRCUMSTANCES - Declared input for one assessment month
// =============================================================================

// Child is one dependent child. Order within Circumstances.Children matters:
// the first child attracts the first-child rate, every later child the
// additional-child rate. The disabled addition stacks per flagged child.
type Child struct {
	Age        int
	IsDisabled bool
}

// Circumstances is the full declared input for a calculation. All monetary
// fields are monthly GBP amounts and must be non-negative. Partner fields are
// present exactly when ClaimantType is joint; Validate enforces this before
// any arithmetic runs.
type Circumstances struct {
	ClaimantType ClaimantType
	ClaimantAge  int
	PartnerAge   *int
	Children     []Child

	HousingType    HousingType
	BedroomsNeeded int
	MonthlyRent    decimal.Decimal
	BRMACode       string

	MonthlyEarnings        decimal.Decimal
	PartnerMonthlyEarnings decimal.Decimal
	HasWorkAllowance       bool

	HasChildcareCosts     bool
	MonthlyChildcareCosts decimal.Decimal

	HasDisability bool
	IsCarer       bool

	AssessmentMonth time.Time
}

// CombinedEarnings is claimant plus partner earnings. Partner earnings are
// zero for single claims, so this is safe to call unconditionally.
func (c Circumstances) CombinedEarnings() decimal.Decimal {
	return c.MonthlyEarnings.Add(c.PartnerMonthlyEarnings)
}

// =============================================================================
// BREAKDOWN - Result of one calculation
// =============================================================================

// Breakdown is the per-element entitlement result. Every monetary field is
// rounded to two decimal places exactly once during calculation. A Breakdown
// is never mutated after Calculate returns it; the claim reference and
// calculation timestamp are assigned by the persistence edge, not by the
// arithmetic, so two calls with identical inputs produce identical elements.
type Breakdown struct {
	ClaimReference string

	ClaimantType    ClaimantType
	ClaimantAge     int
	AssessmentMonth time.Time
	TaxYear         string

	StandardAllowance decimal.Decimal
	HousingElement    decimal.Decimal
	ChildElement      decimal.Decimal
	ChildcareElement  decimal.Decimal
	DisabilityElement decimal.Decimal
	CarerElement      decimal.Decimal

	GrossEntitlement  decimal.Decimal
	TotalEarnings     decimal.Decimal
	WorkAllowance     decimal.Decimal
	EarningsDeduction decimal.Decimal
	TotalEntitlement  decimal.Decimal

	CalculatedAt time.Time
}

// Elements returns the six gross elements in documented order. Used by
// callers that render or total the breakdown without naming each field.
func (b *Breakdown) Elements() []decimal.Decimal {
	return []decimal.Decimal{
		b.StandardAllowance,
		b.HousingElement,
		b.ChildElement,
		b.ChildcareElement,
		b.DisabilityElement,
		b.CarerElement,
	}
}
