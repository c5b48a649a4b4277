/*
Package mcpserver exposes the entitlement engine over the Model Context
Protocol, so AI assistants can run calculations and rate lookups as tools.

PURPOSE:
  A stdio JSON-RPC surface beside the REST API. The server is read-only
  and stateless: tools compute against the configured rate book and LHA
  schedule, nothing is persisted.

TOOLS:
  calculate_uc    Full entitlement calculation from flattened arguments
  get_lha_rate    One BRMA cap for a bedroom count
  list_lha_rates  Every configured BRMA schedule

USAGE:
  Typically started as a subprocess by an MCP-capable assistant:

    uc-mcp

  The process reads requests from stdin and writes responses to stdout
  until EOF.

SEE ALSO:
  - tools.go: Argument parsing and result shapes
  - cmd/mcp/main.go: The entry point
  - api/handlers.go: The same operations over HTTP
*/
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
)

const serverVersion = "1.0.0"

// New builds the MCP server with all tools registered against the given
// rate book and LHA schedule.
func New(rateTable *engine.RateTable, lhaTable *rates.LHATable) *server.MCPServer {
	s := server.NewMCPServer(
		"uc-engine",
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(calculateTool(), calculateHandler(rateTable, lhaTable))
	s.AddTool(lhaRateTool(), lhaRateHandler(lhaTable))
	s.AddTool(lhaListTool(), lhaListHandler(lhaTable))

	return s
}

// ServeStdio runs the server over stdin/stdout until EOF.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// =============================================================================
// TOOL DEFINITIONS
// =============================================================================

func calculateTool() mcp.Tool {
	return mcp.NewTool("calculate_uc",
		mcp.WithDescription("Calculate a monthly Universal Credit entitlement from a household's circumstances. Returns every element of the award plus the earnings deduction."),
		mcp.WithString("claimant_type",
			mcp.Required(),
			mcp.Description("single or joint"),
		),
		mcp.WithNumber("claimant_age",
			mcp.Required(),
			mcp.Description("Claimant age in years (16 to 120)"),
		),
		mcp.WithNumber("partner_age",
			mcp.Description("Partner age in years, required for joint claims"),
		),
		mcp.WithArray("children_ages",
			mcp.Description("Ages of dependent children (0 to 17)"),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithArray("children_disabled",
			mcp.Description("Per-child disabled flags, aligned with children_ages; omitted entries default to false"),
			mcp.Items(map[string]any{"type": "boolean"}),
		),
		mcp.WithString("housing_type",
			mcp.Description("renter, owner or none (default none)"),
		),
		mcp.WithNumber("bedrooms_needed",
			mcp.Description("Bedrooms the household needs; bands above four are capped"),
		),
		mcp.WithNumber("monthly_rent",
			mcp.Description("Monthly rent in pounds, renters only"),
		),
		mcp.WithString("brma_code",
			mcp.Description("Broad Rental Market Area code for the LHA cap; unknown codes fall back to full rent"),
		),
		mcp.WithNumber("monthly_earnings",
			mcp.Description("Claimant net monthly earnings in pounds"),
		),
		mcp.WithNumber("partner_monthly_earnings",
			mcp.Description("Partner net monthly earnings in pounds, joint claims only"),
		),
		mcp.WithBoolean("has_work_allowance",
			mcp.Description("Whether a work allowance applies before the taper"),
		),
		mcp.WithBoolean("has_childcare_costs",
			mcp.Description("Whether registered childcare costs are claimed"),
		),
		mcp.WithNumber("monthly_childcare_costs",
			mcp.Description("Monthly registered childcare costs in pounds"),
		),
		mcp.WithBoolean("has_disability",
			mcp.Description("Limited capability for work"),
		),
		mcp.WithBoolean("is_carer",
			mcp.Description("Caring for a severely disabled person 35+ hours a week"),
		),
		mcp.WithString("assessment_month",
			mcp.Description("Assessment month as YYYY-MM (default: current month)"),
		),
	)
}

func lhaRateTool() mcp.Tool {
	return mcp.NewTool("get_lha_rate",
		mcp.WithDescription("Look up the Local Housing Allowance cap for a BRMA and bedroom count."),
		mcp.WithString("brma_code",
			mcp.Required(),
			mcp.Description("Broad Rental Market Area code, e.g. E08000032"),
		),
		mcp.WithNumber("bedrooms",
			mcp.Description("Bedroom count (default 1); bands above four are capped"),
		),
	)
}

func lhaListTool() mcp.Tool {
	return mcp.NewTool("list_lha_rates",
		mcp.WithDescription("List every configured BRMA with its five bedroom-band caps."),
	)
}

// =============================================================================
// TOOL HANDLERS
// =============================================================================

func calculateHandler(rateTable *engine.RateTable, lhaTable *rates.LHATable) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		circumstances, err := parseCalculateArgs(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		breakdown, err := engine.Calculate(circumstances, rateTable, lhaTable)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return jsonResult(toBreakdownResult(*breakdown))
	}
}

func lhaRateHandler(lhaTable *rates.LHATable) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		brmaCode, err := stringArg(args, "brma_code")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		bedrooms := 1
		if raw, present := args["bedrooms"]; present {
			parsed, err := intValue(raw)
			if err != nil || parsed < 0 {
				return mcp.NewToolResultError("bedrooms must be a non-negative integer"), nil
			}
			bedrooms = parsed
		}

		schedule, ok := lhaTable.Schedule(brmaCode)
		if !ok {
			return mcp.NewToolResultError("unknown BRMA code: " + brmaCode), nil
		}

		return jsonResult(toLHARateResult(schedule, bedrooms))
	}
}

func lhaListHandler(lhaTable *rates.LHATable) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		schedules := lhaTable.Schedules()

		results := make([]lhaScheduleResult, len(schedules))
		for i, s := range schedules {
			results[i] = toLHAScheduleResult(s)
		}
		return jsonResult(results)
	}
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
