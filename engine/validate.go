/*
validate.go - Pre-calculation invariant checks

PURPOSE:
  Every data-model invariant is enforced here, before any arithmetic, so a
  calculation either runs on clean input or not at all. Field names in the
  errors use the wire spelling (snake_case) because the REST and MCP layers
  report them verbatim.

INVARIANTS:
  - claimant_type and housing_type are known values
  - adult ages within 16-120, child ages within 0-17
  - partner fields present exactly when the claim is joint
  - every monetary field non-negative
  - bedrooms_needed non-negative (upper excess is clamped at lookup, not here)
  - assessment_month set

SEE ALSO:
  - errors.go: ValidationError
  - api/dto.go: Schema-level bounds checked before circumstances are built
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// Adult age bounds for claimant and partner.
	MinAdultAge = 16
	MaxAdultAge = 120

	// Dependent children are 0-17 for these purposes.
	MaxChildAge = 17
)

// Validate checks every data-model invariant and returns a ValidationError
// naming the first offending field, or nil when the circumstances are fit
// for calculation.
func (c Circumstances) Validate() error {
	if !c.ClaimantType.Valid() {
		return &ValidationError{Field: "claimant_type", Message: fmt.Sprintf("must be %q or %q", ClaimantSingle, ClaimantJoint)}
	}
	if c.ClaimantAge < MinAdultAge || c.ClaimantAge > MaxAdultAge {
		return &ValidationError{Field: "claimant_age", Message: fmt.Sprintf("must be between %d and %d", MinAdultAge, MaxAdultAge)}
	}

	switch c.ClaimantType {
	case ClaimantJoint:
		if c.PartnerAge == nil {
			return &ValidationError{Field: "partner_age", Message: "required for joint claims"}
		}
		if *c.PartnerAge < MinAdultAge || *c.PartnerAge > MaxAdultAge {
			return &ValidationError{Field: "partner_age", Message: fmt.Sprintf("must be between %d and %d", MinAdultAge, MaxAdultAge)}
		}
	case ClaimantSingle:
		if c.PartnerAge != nil {
			return &ValidationError{Field: "partner_age", Message: "not allowed for single claims"}
		}
		if c.PartnerMonthlyEarnings.IsPositive() {
			return &ValidationError{Field: "partner_monthly_earnings", Message: "not allowed for single claims"}
		}
	}

	for i, child := range c.Children {
		if child.Age < 0 || child.Age > MaxChildAge {
			return &ValidationError{
				Field:   fmt.Sprintf("children[%d].age", i),
				Message: fmt.Sprintf("must be between 0 and %d", MaxChildAge),
			}
		}
	}

	if !c.HousingType.Valid() {
		return &ValidationError{Field: "housing_type", Message: fmt.Sprintf("must be %q, %q or %q", HousingRenter, HousingOwner, HousingNone)}
	}
	if c.BedroomsNeeded < 0 {
		return &ValidationError{Field: "bedrooms_needed", Message: "must not be negative"}
	}

	for _, m := range []struct {
		field  string
		amount decimal.Decimal
	}{
		{"monthly_rent", c.MonthlyRent},
		{"monthly_earnings", c.MonthlyEarnings},
		{"partner_monthly_earnings", c.PartnerMonthlyEarnings},
		{"monthly_childcare_costs", c.MonthlyChildcareCosts},
	} {
		if m.amount.IsNegative() {
			return &ValidationError{Field: m.field, Message: "must not be negative"}
		}
	}

	if c.AssessmentMonth.IsZero() {
		return &ValidationError{Field: "assessment_month", Message: "required"}
	}
	return nil
}
