/*
lha.go - LHA lookup contract and the bedroom band policy

PURPOSE:
  The housing element is capped by the Local Housing Allowance for the
  claimant's Broad Rental Market Area and bedroom need. The engine only
  needs a lookup; where the schedule comes from (compiled-in sample,
  YAML file, database) is the rates package's business.

BEDROOM BAND POLICY:
  Published LHA schedules define five bands: studio (0) through four or
  more bedrooms (4). Lookups clamp out-of-band values to the nearest
  defined band, so a claim needing 6 bedrooms is capped at the 4-bed
  rate. Negative bedroom counts never reach a lookup; validation rejects
  them first.

SEE ALSO:
  - rates/lha.go: The in-memory schedule implementing this interface
  - engine.go: Falls back to actual rent when Lookup reports no cap
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// MaxBedroomBand is the highest band in published LHA schedules; larger
// households use this band's rate.
const MaxBedroomBand = 4

// LHASource resolves a monthly housing cap for a BRMA and bedroom need.
// ok is false when the BRMA (or its band) is not in the schedule; the
// caller treats that as "no cap", not as a failure.
type LHASource interface {
	Lookup(brmaCode string, bedrooms int) (rate decimal.Decimal, ok bool)
}

// ClampBedroomBand maps a bedroom count onto the defined 0-4 band.
func ClampBedroomBand(bedrooms int) int {
	if bedrooms < 0 {
		return 0
	}
	if bedrooms > MaxBedroomBand {
		return MaxBedroomBand
	}
	return bedrooms
}
