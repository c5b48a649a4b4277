/*
lha.go - LHA schedules and the in-memory lookup table

PURPOSE:
  A BRMASchedule holds one Broad Rental Market Area's five bedroom-band
  caps plus the naming metadata the listing endpoints serve. LHATable is
  the immutable lookup the engine consumes; replacing rates means building
  a new table and swapping the pointer, never mutating in place.

BEDROOM BANDS:
  Band 0 is studio/shared accommodation; bands 1-4 are one to four
  bedrooms. Larger needs use the 4-bed cap (engine.ClampBedroomBand).

SEE ALSO:
  - engine/lha.go: The LHASource contract and clamp policy
  - store/sqlite: Persists schedules for audit and admin upserts
*/
package rates

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/engine"
)

// =============================================================================
// BRMA SCHEDULE
// =============================================================================

// BRMASchedule is one BRMA's monthly caps across the five bedroom bands.
type BRMASchedule struct {
	BRMACode       string
	BRMAName       string
	LocalAuthority string
	EffectiveFrom  time.Time

	Studio   decimal.Decimal
	OneBed   decimal.Decimal
	TwoBed   decimal.Decimal
	ThreeBed decimal.Decimal
	FourBed  decimal.Decimal
}

// Band returns the cap for a bedroom count, clamped onto the 0-4 band.
func (s BRMASchedule) Band(bedrooms int) decimal.Decimal {
	switch engine.ClampBedroomBand(bedrooms) {
	case 0:
		return s.Studio
	case 1:
		return s.OneBed
	case 2:
		return s.TwoBed
	case 3:
		return s.ThreeBed
	default:
		return s.FourBed
	}
}

// =============================================================================
// LHA TABLE
// =============================================================================

// LHATable maps BRMA codes to schedules. Build once, read from anywhere;
// admin updates produce a fresh table via With.
type LHATable struct {
	schedules map[string]BRMASchedule
}

// Compile-time check that the table satisfies the engine contract.
var _ engine.LHASource = (*LHATable)(nil)

// NewLHATable builds a table from schedules. Later entries with a repeated
// BRMA code replace earlier ones.
func NewLHATable(schedules ...BRMASchedule) *LHATable {
	table := &LHATable{schedules: make(map[string]BRMASchedule, len(schedules))}
	for _, s := range schedules {
		table.schedules[s.BRMACode] = s
	}
	return table
}

// Lookup implements engine.LHASource.
func (t *LHATable) Lookup(brmaCode string, bedrooms int) (decimal.Decimal, bool) {
	s, ok := t.schedules[brmaCode]
	if !ok {
		return decimal.Zero, false
	}
	return s.Band(bedrooms), true
}

// Schedule returns the full schedule for one BRMA.
func (t *LHATable) Schedule(brmaCode string) (BRMASchedule, bool) {
	s, ok := t.schedules[brmaCode]
	return s, ok
}

// Schedules returns every schedule, sorted by BRMA code.
func (t *LHATable) Schedules() []BRMASchedule {
	out := make([]BRMASchedule, 0, len(t.schedules))
	for _, s := range t.schedules {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BRMACode < out[j].BRMACode })
	return out
}

// With returns a new table containing this table's schedules with the given
// ones added or replaced. The receiver is untouched.
func (t *LHATable) With(schedules ...BRMASchedule) *LHATable {
	merged := make([]BRMASchedule, 0, len(t.schedules)+len(schedules))
	merged = append(merged, t.Schedules()...)
	merged = append(merged, schedules...)
	return NewLHATable(merged...)
}

// Len reports how many BRMAs the table covers.
func (t *LHATable) Len() int { return len(t.schedules) }

// =============================================================================
// DEFAULT SCHEDULE - Published sample BRMAs
// =============================================================================

// DefaultLHA returns the compiled-in sample schedule: four BRMAs spanning
// rural, northern-city, midlands and London rent levels.
func DefaultLHA() *LHATable {
	from := defaultEffectiveFrom()
	return NewLHATable(
		BRMASchedule{
			BRMACode:       "E92000001",
			BRMAName:       "North Yorkshire",
			LocalAuthority: "North Yorkshire Council",
			EffectiveFrom:  from,
			Studio:         engine.MustParseDecimal("600.00"),
			OneBed:         engine.MustParseDecimal("700.00"),
			TwoBed:         engine.MustParseDecimal("850.00"),
			ThreeBed:       engine.MustParseDecimal("1000.00"),
			FourBed:        engine.MustParseDecimal("1200.00"),
		},
		BRMASchedule{
			BRMACode:       "E08000032",
			BRMAName:       "Bradford & South Dales",
			LocalAuthority: "City of Bradford MDC",
			EffectiveFrom:  from,
			Studio:         engine.MustParseDecimal("550.00"),
			OneBed:         engine.MustParseDecimal("650.00"),
			TwoBed:         engine.MustParseDecimal("800.00"),
			ThreeBed:       engine.MustParseDecimal("950.00"),
			FourBed:        engine.MustParseDecimal("1150.00"),
		},
		BRMASchedule{
			BRMACode:       "E08000016",
			BRMAName:       "Birmingham",
			LocalAuthority: "Birmingham City Council",
			EffectiveFrom:  from,
			Studio:         engine.MustParseDecimal("550.00"),
			OneBed:         engine.MustParseDecimal("700.00"),
			TwoBed:         engine.MustParseDecimal("850.00"),
			ThreeBed:       engine.MustParseDecimal("1000.00"),
			FourBed:        engine.MustParseDecimal("1200.00"),
		},
		BRMASchedule{
			BRMACode:       "E09000002",
			BRMAName:       "Outer North London",
			LocalAuthority: "London Borough of Barnet",
			EffectiveFrom:  from,
			Studio:         engine.MustParseDecimal("950.00"),
			OneBed:         engine.MustParseDecimal("1100.00"),
			TwoBed:         engine.MustParseDecimal("1350.00"),
			ThreeBed:       engine.MustParseDecimal("1600.00"),
			FourBed:        engine.MustParseDecimal("1900.00"),
		},
	)
}
