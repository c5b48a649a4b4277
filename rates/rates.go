/*
Package rates provides rate tables and LHA schedules to the calculation engine.

PURPOSE:
  The engine reads published figures by name; this package is where those
  figures live. It ships the compiled-in 2026-27 tables and can load
  replacement tables from YAML files, so a rates uprating is a config
  change, not a code change.

WHY YAML?
  - Policy teams can review a rates file without reading Go
  - Annual upratings ship as data
  - The same file format feeds the REST server and the MCP server

SOURCES:
  Figures mirror the published 2026-27 monthly rates: standard allowance
  four ways, child element rates, childcare caps and percentage, the
  limited-capability and carer elements, the 55% taper and the 290.00
  work allowance.

USAGE:
  table := rates.Default()
  lha := rates.DefaultLHA()
  breakdown, err := engine.Calculate(circ, table, lha)

  // or from files
  table, err := rates.LoadRateTable("/etc/uc/rates-2026.yaml")
  lha, err := rates.LoadLHATable("/etc/uc/lha-2026.yaml")

SEE ALSO:
  - engine/rates.go: The RateTable contract and rate names
  - file.go: YAML schema and loaders
  - lha.go: LHA schedule types
*/
package rates

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/engine"
)

// DefaultTaxYear labels the compiled-in tables.
const DefaultTaxYear = "2026-27"

func defaultEffectiveFrom() time.Time {
	return time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// Default returns the compiled-in 2026-27 rate table.
func Default() *engine.RateTable {
	return engine.NewRateTable(DefaultTaxYear, defaultEffectiveFrom(), map[engine.RateName]decimal.Decimal{
		engine.RateStandardSingleUnder25: engine.MustParseDecimal("338.58"),
		engine.RateStandardSingle25Plus:  engine.MustParseDecimal("424.90"),
		engine.RateStandardJointUnder25:  engine.MustParseDecimal("528.34"),
		engine.RateStandardJoint25Plus:   engine.MustParseDecimal("666.97"),

		engine.RateFirstChild:            engine.MustParseDecimal("284.89"),
		engine.RateAdditionalChild:       engine.MustParseDecimal("237.05"),
		engine.RateDisabledChildAddition: engine.MustParseDecimal("137.45"),

		engine.RateChildcarePercentage:  engine.MustParseDecimal("0.85"),
		engine.RateChildcareCapOneChild: engine.MustParseDecimal("175.00"),
		engine.RateChildcareCapTwoPlus:  engine.MustParseDecimal("300.00"),

		engine.RateDisabilityLCW:   engine.MustParseDecimal("134.88"),
		engine.RateDisabilityLCWRA: engine.MustParseDecimal("285.58"),
		engine.RateCarer:           engine.MustParseDecimal("163.44"),

		engine.RateEarningsTaper: engine.MustParseDecimal("0.55"),
		engine.RateWorkAllowance: engine.MustParseDecimal("290.00"),
	})
}
