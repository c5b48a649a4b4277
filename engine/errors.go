/*
errors.go - Centralized error types for the calculation core

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Outer layers (REST, MCP) map these to their own status codes.

ERROR CATEGORIES:
  1. Validation errors - Circumstances violate a data-model invariant;
     rejected before any arithmetic runs, reported with the offending field
  2. Configuration errors - The rate table is missing a rate the pipeline
     needs; the calculation cannot proceed
  An absent BRMA/bedroom cap is NOT an error: the housing element falls
  back to the actual rent (see engine.go).

USAGE:
  breakdown, err := engine.Calculate(circ, rates, lha)
  if engine.IsValidation(err) {
      var verr *engine.ValidationError
      errors.As(err, &verr)
      // verr.Field names the rejected input
  }

SEE ALSO:
  - validate.go: Produces ValidationError
  - rates.go: Produces ConfigurationError
  - api/handlers.go: Maps these to HTTP 400/500
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidCircumstances is the sentinel behind every ValidationError.
	ErrInvalidCircumstances = errors.New("invalid claimant circumstances")

	// ErrRateNotConfigured is the sentinel behind every ConfigurationError.
	ErrRateNotConfigured = errors.New("rate not configured")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a single rejected input field. Calculation never
// starts while one of these is pending, so there are no partial results.
type ValidationError struct {
	Field   string // e.g., "partner_age", "monthly_rent"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCircumstances
}

// ConfigurationError reports a rate the table should carry but does not.
// This is a deployment fault, not a claimant fault.
type ConfigurationError struct {
	Rate    RateName
	TaxYear string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rate %q not configured for tax year %s", e.Rate, e.TaxYear)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrRateNotConfigured
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true if the error is due to invalid claimant input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidCircumstances)
}

// IsConfiguration returns true if the error is due to an incomplete rate table.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrRateNotConfigured)
}
