/*
tools_test.go - Tests for MCP argument parsing, handlers and result shapes

Handlers are exercised directly with constructed requests; no stdio
transport is involved.
*/
package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return content.Text
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParseCalculateArgs_FullHousehold(t *testing.T) {
	// GIVEN every argument a joint renting household can declare
	args := map[string]any{
		"claimant_type":            "joint",
		"claimant_age":             float64(35),
		"partner_age":              float64(33),
		"children_ages":            []any{float64(8), float64(5)},
		"children_disabled":        []any{false, true},
		"housing_type":             "renter",
		"bedrooms_needed":          float64(2),
		"monthly_rent":             float64(900),
		"brma_code":                "E92000001",
		"monthly_earnings":         "833.33",
		"partner_monthly_earnings": float64(200),
		"has_work_allowance":       true,
		"has_childcare_costs":      true,
		"monthly_childcare_costs":  "500.50",
		"has_disability":           true,
		"is_carer":                 true,
		"assessment_month":         "2026-06",
	}

	// WHEN the arguments are parsed
	circumstances, err := parseCalculateArgs(args)
	require.NoError(t, err)

	// THEN every field lands where the engine expects it
	assert.Equal(t, engine.ClaimantJoint, circumstances.ClaimantType)
	assert.Equal(t, 35, circumstances.ClaimantAge)
	require.NotNil(t, circumstances.PartnerAge)
	assert.Equal(t, 33, *circumstances.PartnerAge)

	require.Len(t, circumstances.Children, 2)
	assert.Equal(t, engine.Child{Age: 8}, circumstances.Children[0])
	assert.Equal(t, engine.Child{Age: 5, IsDisabled: true}, circumstances.Children[1])

	assert.Equal(t, engine.HousingRenter, circumstances.HousingType)
	assert.Equal(t, 2, circumstances.BedroomsNeeded)
	assert.True(t, circumstances.MonthlyRent.Equal(engine.MustParseDecimal("900")))
	assert.Equal(t, "E92000001", circumstances.BRMACode)

	assert.True(t, circumstances.MonthlyEarnings.Equal(engine.MustParseDecimal("833.33")))
	assert.True(t, circumstances.PartnerMonthlyEarnings.Equal(engine.MustParseDecimal("200")))
	assert.True(t, circumstances.HasWorkAllowance)

	assert.True(t, circumstances.HasChildcareCosts)
	assert.True(t, circumstances.MonthlyChildcareCosts.Equal(engine.MustParseDecimal("500.50")))
	assert.True(t, circumstances.HasDisability)
	assert.True(t, circumstances.IsCarer)

	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), circumstances.AssessmentMonth)
}

func TestParseCalculateArgs_MinimalDefaults(t *testing.T) {
	// GIVEN only the two required arguments
	circumstances, err := parseCalculateArgs(map[string]any{
		"claimant_type": "single",
		"claimant_age":  float64(30),
	})
	require.NoError(t, err)

	// THEN everything else takes its zero-value default
	assert.Equal(t, engine.ClaimantSingle, circumstances.ClaimantType)
	assert.Nil(t, circumstances.PartnerAge)
	assert.Empty(t, circumstances.Children)
	assert.Equal(t, engine.HousingNone, circumstances.HousingType)
	assert.True(t, circumstances.MonthlyRent.IsZero())
	assert.True(t, circumstances.MonthlyEarnings.IsZero())
	assert.False(t, circumstances.HasWorkAllowance)
	assert.False(t, circumstances.AssessmentMonth.IsZero())
}

func TestParseCalculateArgs_ShapeErrors(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"claimant_type": "single",
			"claimant_age":  float64(30),
		}
	}

	tests := []struct {
		name    string
		mutate  func(args map[string]any)
		wantErr string
	}{
		{
			name:    "missing claimant type",
			mutate:  func(args map[string]any) { delete(args, "claimant_type") },
			wantErr: "claimant_type",
		},
		{
			name:    "missing claimant age",
			mutate:  func(args map[string]any) { delete(args, "claimant_age") },
			wantErr: "claimant_age",
		},
		{
			name:    "fractional claimant age",
			mutate:  func(args map[string]any) { args["claimant_age"] = 30.5 },
			wantErr: "claimant_age",
		},
		{
			name:    "partner age not a number",
			mutate:  func(args map[string]any) { args["partner_age"] = "thirty" },
			wantErr: "partner_age",
		},
		{
			name:    "children ages not an array",
			mutate:  func(args map[string]any) { args["children_ages"] = "8" },
			wantErr: "children_ages",
		},
		{
			name: "child age not a number",
			mutate: func(args map[string]any) {
				args["children_ages"] = []any{"eight"}
			},
			wantErr: "children_ages[0]",
		},
		{
			name: "more disabled flags than children",
			mutate: func(args map[string]any) {
				args["children_ages"] = []any{float64(8)}
				args["children_disabled"] = []any{true, false}
			},
			wantErr: "children_disabled",
		},
		{
			name: "disabled flag not a boolean",
			mutate: func(args map[string]any) {
				args["children_ages"] = []any{float64(8)}
				args["children_disabled"] = []any{float64(1)}
			},
			wantErr: "children_disabled[0]",
		},
		{
			name:    "rent not monetary",
			mutate:  func(args map[string]any) { args["monthly_rent"] = true },
			wantErr: "monthly_rent",
		},
		{
			name:    "unparseable money string",
			mutate:  func(args map[string]any) { args["monthly_earnings"] = "lots" },
			wantErr: "monthly_earnings",
		},
		{
			name:    "flag not a boolean",
			mutate:  func(args map[string]any) { args["is_carer"] = "yes" },
			wantErr: "is_carer",
		},
		{
			name:    "bad assessment month",
			mutate:  func(args map[string]any) { args["assessment_month"] = "June 2026" },
			wantErr: "assessment_month",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := base()
			tt.mutate(args)

			_, err := parseCalculateArgs(args)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecimalArg_AcceptsNumberAndString(t *testing.T) {
	fromFloat, err := decimalArg(map[string]any{"amount": 600.1}, "amount")
	require.NoError(t, err)
	assert.True(t, fromFloat.Equal(engine.MustParseDecimal("600.10")))

	fromString, err := decimalArg(map[string]any{"amount": "600.10"}, "amount")
	require.NoError(t, err)
	assert.True(t, fromString.Equal(engine.MustParseDecimal("600.10")))

	absent, err := decimalArg(map[string]any{}, "amount")
	require.NoError(t, err)
	assert.True(t, absent.IsZero())
}

// =============================================================================
// TOOL HANDLERS
// =============================================================================

func TestCalculateHandler_SingleRenter(t *testing.T) {
	// GIVEN a single renter inside the Bradford LHA cap
	handler := calculateHandler(rates.Default(), rates.DefaultLHA())
	req := callRequest(map[string]any{
		"claimant_type":    "single",
		"claimant_age":     float64(30),
		"housing_type":     "renter",
		"bedrooms_needed":  float64(1),
		"monthly_rent":     float64(600),
		"brma_code":        "E08000032",
		"assessment_month": "2026-06",
	})

	// WHEN the tool runs
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	// THEN the payload carries the full two-decimal breakdown
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))

	assert.Equal(t, "single", payload["claimant_type"])
	assert.Equal(t, "2026-06", payload["assessment_month"])
	assert.Equal(t, "2026-27", payload["tax_year"])
	assert.Equal(t, "424.90", payload["standard_allowance"])
	assert.Equal(t, "600.00", payload["housing_element"])
	assert.Equal(t, "0.00", payload["earnings_deduction"])
	assert.Equal(t, "1024.90", payload["total_entitlement"])
}

func TestCalculateHandler_ValidationFailure(t *testing.T) {
	// GIVEN a joint claim with no partner age
	handler := calculateHandler(rates.Default(), rates.DefaultLHA())
	req := callRequest(map[string]any{
		"claimant_type": "joint",
		"claimant_age":  float64(35),
	})

	// WHEN the tool runs
	result, err := handler(context.Background(), req)
	require.NoError(t, err)

	// THEN the failure is a tool error, not a transport error
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "partner_age")
}

func TestCalculateHandler_BadArguments(t *testing.T) {
	handler := calculateHandler(rates.Default(), rates.DefaultLHA())
	req := callRequest(map[string]any{"claimant_age": float64(30)})

	result, err := handler(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "claimant_type")
}

func TestLHARateHandler_ClampsBedrooms(t *testing.T) {
	handler := lhaRateHandler(rates.DefaultLHA())
	req := callRequest(map[string]any{
		"brma_code": "E08000032",
		"bedrooms":  float64(9),
	})

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload lhaRateResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))

	assert.Equal(t, "E08000032", payload.BRMACode)
	assert.Equal(t, "Bradford & South Dales", payload.BRMAName)
	assert.Equal(t, 4, payload.Bedrooms)
	assert.Equal(t, "1150.00", payload.MonthlyCap)
}

func TestLHARateHandler_DefaultsToOneBedroom(t *testing.T) {
	handler := lhaRateHandler(rates.DefaultLHA())

	result, err := handler(context.Background(), callRequest(map[string]any{
		"brma_code": "E08000032",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload lhaRateResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, 1, payload.Bedrooms)
	assert.Equal(t, "650.00", payload.MonthlyCap)
}

func TestLHARateHandler_UnknownBRMA(t *testing.T) {
	handler := lhaRateHandler(rates.DefaultLHA())

	result, err := handler(context.Background(), callRequest(map[string]any{
		"brma_code": "E00000000",
	}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "E00000000")
}

func TestLHARateHandler_MissingCode(t *testing.T) {
	handler := lhaRateHandler(rates.DefaultLHA())

	result, err := handler(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "brma_code")
}

func TestLHAListHandler_ReturnsEverySchedule(t *testing.T) {
	table := rates.DefaultLHA()
	handler := lhaListHandler(table)

	result, err := handler(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var payload []lhaScheduleResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))

	require.Len(t, payload, table.Len())
	assert.Equal(t, "E08000016", payload[0].BRMACode)
	assert.Equal(t, "550.00", payload[0].Studio)
	assert.Equal(t, "1200.00", payload[0].FourBedrooms)
}

func TestNew_RegistersServer(t *testing.T) {
	s := New(rates.Default(), rates.DefaultLHA())
	require.NotNil(t, s)
}
