/*
engine.go - The entitlement calculation pipeline

PURPOSE:
  Calculate turns validated circumstances into a per-element breakdown.
  Six gross elements are computed independently, summed, then the earnings
  taper is applied. Single pass, no retained state, no I/O.

PIPELINE:
  1. Standard allowance   4-way table by household type and age bracket
  2. Housing element      min(rent, LHA cap) for renters, rent when uncapped
  3. Child element        first child rate + additional rates + disabled additions
  4. Childcare element    85% of capped eligible costs
  5. Disability element   flat limited-capability rate
  6. Carer element        flat carer rate
  7. Earnings deduction   55% taper on earnings above the work allowance
  8. Total                max(0, gross - deduction); never negative

  Every element is rounded to pennies exactly once, where it is produced.

FAILURE SEMANTICS:
  Invalid circumstances are rejected before step 1 (ValidationError).
  A missing required rate aborts the calculation (ConfigurationError).
  An unknown BRMA is NOT an error: the housing element falls back to the
  actual rent, uncapped.

SEE ALSO:
  - validate.go: The invariants enforced before step 1
  - rates.go: Rate names read by each step
  - reference.go: Claim references, assigned by the persistence edge
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// Calculate computes the monthly entitlement for one set of circumstances.
// The rate table and LHA source are read-only collaborators; two calls with
// the same inputs return identical breakdowns.
func Calculate(c Circumstances, rates *RateTable, lha LHASource) (*Breakdown, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	standard, err := standardAllowance(c, rates)
	if err != nil {
		return nil, err
	}
	housing := housingElement(c, lha)
	child, err := childElement(c, rates)
	if err != nil {
		return nil, err
	}
	childcare, err := childcareElement(c, rates)
	if err != nil {
		return nil, err
	}
	disability, err := disabilityElement(c, rates)
	if err != nil {
		return nil, err
	}
	carer, err := carerElement(c, rates)
	if err != nil {
		return nil, err
	}

	gross := standard.Add(housing).Add(child).Add(childcare).Add(disability).Add(carer)

	allowance, err := workAllowance(c, rates)
	if err != nil {
		return nil, err
	}
	deduction, err := earningsDeduction(c, allowance, rates)
	if err != nil {
		return nil, err
	}

	total := decimal.Max(decimal.Zero, gross.Sub(deduction))

	return &Breakdown{
		ClaimantType:    c.ClaimantType,
		ClaimantAge:     c.ClaimantAge,
		AssessmentMonth: c.AssessmentMonth,
		TaxYear:         rates.TaxYear(),

		StandardAllowance: standard,
		HousingElement:    housing,
		ChildElement:      child,
		ChildcareElement:  childcare,
		DisabilityElement: disability,
		CarerElement:      carer,

		GrossEntitlement:  gross,
		TotalEarnings:     RoundMoney(c.CombinedEarnings()),
		WorkAllowance:     allowance,
		EarningsDeduction: deduction,
		TotalEntitlement:  total,
	}, nil
}

// =============================================================================
// ELEMENTS
// =============================================================================

// standardAllowance selects from the 4-way table. Joint claims bracket on
// the claimant's own age, matching the published rate descriptions.
func standardAllowance(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	under25 := c.ClaimantAge < 25

	var name RateName
	switch {
	case c.ClaimantType == ClaimantSingle && under25:
		name = RateStandardSingleUnder25
	case c.ClaimantType == ClaimantSingle:
		name = RateStandardSingle25Plus
	case under25:
		name = RateStandardJointUnder25
	default:
		name = RateStandardJoint25Plus
	}

	amount, err := rates.Rate(name)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(amount), nil
}

// housingElement caps the declared rent at the LHA rate for the claimant's
// BRMA and bedroom need. No cap on record means the rent stands as-is.
// Non-renters receive nothing.
func housingElement(c Circumstances, lha LHASource) decimal.Decimal {
	if c.HousingType != HousingRenter {
		return decimal.Zero
	}
	if lha != nil {
		if cap, ok := lha.Lookup(c.BRMACode, c.BedroomsNeeded); ok {
			return RoundMoney(decimal.Min(c.MonthlyRent, cap))
		}
	}
	return RoundMoney(c.MonthlyRent)
}

// childElement pays the first-child rate for the first child in declared
// order, the additional rate for every later child, and stacks the disabled
// addition per flagged child.
func childElement(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	if len(c.Children) == 0 {
		return decimal.Zero, nil
	}

	first, err := rates.Rate(RateFirstChild)
	if err != nil {
		return decimal.Zero, err
	}
	additional, err := rates.Rate(RateAdditionalChild)
	if err != nil {
		return decimal.Zero, err
	}
	addition, err := rates.Rate(RateDisabledChildAddition)
	if err != nil {
		return decimal.Zero, err
	}

	total := first
	total = total.Add(additional.Mul(decimal.NewFromInt(int64(len(c.Children) - 1))))
	for _, child := range c.Children {
		if child.IsDisabled {
			total = total.Add(addition)
		}
	}
	return RoundMoney(total), nil
}

// childcareElement reimburses the configured percentage of declared costs,
// after capping the eligible costs by child count. The cap applies to the
// costs, not to the reimbursed amount.
func childcareElement(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	if !c.HasChildcareCosts || !c.MonthlyChildcareCosts.IsPositive() || len(c.Children) == 0 {
		return decimal.Zero, nil
	}

	capName := RateChildcareCapTwoPlus
	if len(c.Children) == 1 {
		capName = RateChildcareCapOneChild
	}
	costCap, err := rates.Rate(capName)
	if err != nil {
		return decimal.Zero, err
	}
	percentage, err := rates.Rate(RateChildcarePercentage)
	if err != nil {
		return decimal.Zero, err
	}

	eligible := decimal.Min(c.MonthlyChildcareCosts, costCap)
	return RoundMoney(eligible.Mul(percentage)), nil
}

func disabilityElement(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	if !c.HasDisability {
		return decimal.Zero, nil
	}
	amount, err := rates.Rate(RateDisabilityLCW)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(amount), nil
}

func carerElement(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	if !c.IsCarer {
		return decimal.Zero, nil
	}
	amount, err := rates.Rate(RateCarer)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(amount), nil
}

// =============================================================================
// EARNINGS TAPER
// =============================================================================

// workAllowance is the configured amount when the claimant declares an
// entitlement to one, zero otherwise. Eligibility is declared, not derived.
func workAllowance(c Circumstances, rates *RateTable) (decimal.Decimal, error) {
	if !c.HasWorkAllowance {
		return decimal.Zero, nil
	}
	amount, err := rates.Rate(RateWorkAllowance)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(amount), nil
}

// earningsDeduction tapers combined earnings above the work allowance.
// Earnings at or below the allowance deduct nothing.
func earningsDeduction(c Circumstances, allowance decimal.Decimal, rates *RateTable) (decimal.Decimal, error) {
	deductible := decimal.Max(decimal.Zero, c.CombinedEarnings().Sub(allowance))
	if deductible.IsZero() {
		return decimal.Zero, nil
	}
	taper, err := rates.Rate(RateEarningsTaper)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(deductible.Mul(taper)), nil
}
