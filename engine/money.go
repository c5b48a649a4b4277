/*
money.go - Monetary parsing and the rounding policy

PURPOSE:
  One place for the two money conventions every other file relies on:
  amounts are decimal.Decimal, and rounding happens once per element at
  two decimal places.

ROUNDING POLICY:
  RoundMoney rounds half away from zero (conventional half-up for the
  non-negative amounts this system deals in): 0.125 -> 0.13, 0.124 -> 0.12.
  This is decimal.Round semantics. Sub-steps are never rounded; each
  breakdown element is rounded exactly once when it is produced.

SEE ALSO:
  - engine.go: Applies RoundMoney at element construction
  - rates.go: Rate amounts are stored pre-rounded to pennies
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// MustParseDecimal parses a decimal string, returning zero on malformed
// input. Intended for literals in tests and compiled-in rate tables where
// the strings are known good.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds an amount to whole pennies, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
