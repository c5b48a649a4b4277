/*
tools.go - Argument parsing and result shapes for the MCP tools

PURPOSE:
  MCP tool arguments arrive as map[string]any decoded from JSON, so every
  number is a float64 and every value needs checking before it reaches the
  engine. The parse helpers here turn that map into engine.Circumstances
  with field-named errors; the result types mirror the REST responses with
  two-decimal money strings.

SEE ALSO:
  - server.go: Tool definitions and handlers
  - api/dto.go: The HTTP equivalents of these shapes
*/
package mcpserver

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
)

const assessmentMonthLayout = "2006-01"

// =============================================================================
// CALCULATE ARGUMENTS
// =============================================================================

// parseCalculateArgs builds engine.Circumstances from raw tool arguments.
// Only shape errors surface here; semantic rules stay with engine.Validate.
func parseCalculateArgs(args map[string]any) (engine.Circumstances, error) {
	var circumstances engine.Circumstances

	claimantType, err := stringArg(args, "claimant_type")
	if err != nil {
		return circumstances, err
	}
	circumstances.ClaimantType = engine.ClaimantType(claimantType)

	claimantAge, err := intArg(args, "claimant_age")
	if err != nil {
		return circumstances, err
	}
	circumstances.ClaimantAge = claimantAge

	if raw, present := args["partner_age"]; present {
		age, err := intValue(raw)
		if err != nil {
			return circumstances, fmt.Errorf("partner_age must be an integer")
		}
		circumstances.PartnerAge = &age
	}

	children, err := parseChildren(args)
	if err != nil {
		return circumstances, err
	}
	circumstances.Children = children

	circumstances.HousingType = engine.HousingNone
	if raw, present := args["housing_type"]; present {
		housingType, ok := raw.(string)
		if !ok {
			return circumstances, fmt.Errorf("housing_type must be a string")
		}
		circumstances.HousingType = engine.HousingType(housingType)
	}

	if raw, present := args["bedrooms_needed"]; present {
		bedrooms, err := intValue(raw)
		if err != nil {
			return circumstances, fmt.Errorf("bedrooms_needed must be an integer")
		}
		circumstances.BedroomsNeeded = bedrooms
	}

	if circumstances.MonthlyRent, err = decimalArg(args, "monthly_rent"); err != nil {
		return circumstances, err
	}
	if raw, present := args["brma_code"]; present {
		code, ok := raw.(string)
		if !ok {
			return circumstances, fmt.Errorf("brma_code must be a string")
		}
		circumstances.BRMACode = code
	}

	if circumstances.MonthlyEarnings, err = decimalArg(args, "monthly_earnings"); err != nil {
		return circumstances, err
	}
	if circumstances.PartnerMonthlyEarnings, err = decimalArg(args, "partner_monthly_earnings"); err != nil {
		return circumstances, err
	}
	if circumstances.MonthlyChildcareCosts, err = decimalArg(args, "monthly_childcare_costs"); err != nil {
		return circumstances, err
	}

	if circumstances.HasWorkAllowance, err = boolArg(args, "has_work_allowance"); err != nil {
		return circumstances, err
	}
	if circumstances.HasChildcareCosts, err = boolArg(args, "has_childcare_costs"); err != nil {
		return circumstances, err
	}
	if circumstances.HasDisability, err = boolArg(args, "has_disability"); err != nil {
		return circumstances, err
	}
	if circumstances.IsCarer, err = boolArg(args, "is_carer"); err != nil {
		return circumstances, err
	}

	circumstances.AssessmentMonth = time.Now().UTC()
	if raw, present := args["assessment_month"]; present {
		text, ok := raw.(string)
		if !ok {
			return circumstances, fmt.Errorf("assessment_month must be a string")
		}
		month, err := time.Parse(assessmentMonthLayout, text)
		if err != nil {
			return circumstances, fmt.Errorf("assessment_month must be formatted as YYYY-MM")
		}
		circumstances.AssessmentMonth = month
	}

	return circumstances, nil
}

// parseChildren zips children_ages with the optional children_disabled flags.
func parseChildren(args map[string]any) ([]engine.Child, error) {
	rawAges, present := args["children_ages"]
	if !present {
		return nil, nil
	}
	ages, ok := rawAges.([]any)
	if !ok {
		return nil, fmt.Errorf("children_ages must be an array of integers")
	}

	var disabled []any
	if rawDisabled, present := args["children_disabled"]; present {
		disabled, ok = rawDisabled.([]any)
		if !ok {
			return nil, fmt.Errorf("children_disabled must be an array of booleans")
		}
		if len(disabled) > len(ages) {
			return nil, fmt.Errorf("children_disabled has more entries than children_ages")
		}
	}

	children := make([]engine.Child, len(ages))
	for i, rawAge := range ages {
		age, err := intValue(rawAge)
		if err != nil {
			return nil, fmt.Errorf("children_ages[%d] must be an integer", i)
		}
		children[i].Age = age

		if i < len(disabled) {
			flag, ok := disabled[i].(bool)
			if !ok {
				return nil, fmt.Errorf("children_disabled[%d] must be a boolean", i)
			}
			children[i].IsDisabled = flag
		}
	}
	return children, nil
}

// =============================================================================
// VALUE COERCION
// =============================================================================

func stringArg(args map[string]any, key string) (string, error) {
	raw, present := args[key]
	if !present {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return value, nil
}

func intArg(args map[string]any, key string) (int, error) {
	raw, present := args[key]
	if !present {
		return 0, fmt.Errorf("%s is required", key)
	}
	value, err := intValue(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return value, nil
}

// intValue accepts the shapes a JSON decode can hand us for a whole number.
func intValue(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer")
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("not an integer")
	}
}

// decimalArg reads an optional money argument; absent means zero. Strings
// are accepted so callers can pass exact amounts like "600.10".
func decimalArg(args map[string]any, key string) (decimal.Decimal, error) {
	raw, present := args[key]
	if !present {
		return decimal.Zero, nil
	}
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		value, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s must be a monetary amount", key)
		}
		return value, nil
	default:
		return decimal.Zero, fmt.Errorf("%s must be a monetary amount", key)
	}
}

func boolArg(args map[string]any, key string) (bool, error) {
	raw, present := args[key]
	if !present {
		return false, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return value, nil
}

// =============================================================================
// RESULT SHAPES
// =============================================================================

// breakdownResult is the calculate_uc payload. Amounts are fixed to two
// decimal places; no claim reference is minted because nothing is stored.
type breakdownResult struct {
	ClaimantType    string `json:"claimant_type"`
	AssessmentMonth string `json:"assessment_month"`
	TaxYear         string `json:"tax_year"`

	StandardAllowance string `json:"standard_allowance"`
	HousingElement    string `json:"housing_element"`
	ChildElement      string `json:"child_element"`
	ChildcareElement  string `json:"childcare_element"`
	DisabilityElement string `json:"disability_element"`
	CarerElement      string `json:"carer_element"`

	GrossEntitlement  string `json:"gross_entitlement"`
	TotalEarnings     string `json:"total_earnings"`
	WorkAllowance     string `json:"work_allowance"`
	EarningsDeduction string `json:"earnings_deduction"`
	TotalEntitlement  string `json:"total_entitlement"`
}

func toBreakdownResult(b engine.Breakdown) breakdownResult {
	return breakdownResult{
		ClaimantType:      string(b.ClaimantType),
		AssessmentMonth:   b.AssessmentMonth.Format(assessmentMonthLayout),
		TaxYear:           b.TaxYear,
		StandardAllowance: b.StandardAllowance.StringFixed(2),
		HousingElement:    b.HousingElement.StringFixed(2),
		ChildElement:      b.ChildElement.StringFixed(2),
		ChildcareElement:  b.ChildcareElement.StringFixed(2),
		DisabilityElement: b.DisabilityElement.StringFixed(2),
		CarerElement:      b.CarerElement.StringFixed(2),
		GrossEntitlement:  b.GrossEntitlement.StringFixed(2),
		TotalEarnings:     b.TotalEarnings.StringFixed(2),
		WorkAllowance:     b.WorkAllowance.StringFixed(2),
		EarningsDeduction: b.EarningsDeduction.StringFixed(2),
		TotalEntitlement:  b.TotalEntitlement.StringFixed(2),
	}
}

type lhaRateResult struct {
	BRMACode   string `json:"brma_code"`
	BRMAName   string `json:"brma_name"`
	Bedrooms   int    `json:"bedrooms"`
	MonthlyCap string `json:"monthly_cap"`
}

func toLHARateResult(schedule rates.BRMASchedule, bedrooms int) lhaRateResult {
	return lhaRateResult{
		BRMACode:   schedule.BRMACode,
		BRMAName:   schedule.BRMAName,
		Bedrooms:   engine.ClampBedroomBand(bedrooms),
		MonthlyCap: schedule.Band(bedrooms).StringFixed(2),
	}
}

type lhaScheduleResult struct {
	BRMACode       string `json:"brma_code"`
	BRMAName       string `json:"brma_name"`
	LocalAuthority string `json:"local_authority"`
	EffectiveFrom  string `json:"effective_from"`

	Studio        string `json:"studio"`
	OneBedroom    string `json:"one_bedroom"`
	TwoBedrooms   string `json:"two_bedrooms"`
	ThreeBedrooms string `json:"three_bedrooms"`
	FourBedrooms  string `json:"four_bedrooms"`
}

func toLHAScheduleResult(schedule rates.BRMASchedule) lhaScheduleResult {
	return lhaScheduleResult{
		BRMACode:       schedule.BRMACode,
		BRMAName:       schedule.BRMAName,
		LocalAuthority: schedule.LocalAuthority,
		EffectiveFrom:  schedule.EffectiveFrom.Format("2006-01-02"),
		Studio:         schedule.Studio.StringFixed(2),
		OneBedroom:     schedule.OneBed.StringFixed(2),
		TwoBedrooms:    schedule.TwoBed.StringFixed(2),
		ThreeBedrooms:  schedule.ThreeBed.StringFixed(2),
		FourBedrooms:   schedule.FourBed.StringFixed(2),
	}
}
