/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ON THE WIRE:
  Requests carry amounts as JSON numbers or strings; decimal.Decimal
  parses the raw token so "600.10" never becomes 600.0999... Responses
  always render amounts as strings with two decimal places ("424.90"),
  so clients display pennies without reformatting.

VALIDATION:
  Struct tags catch missing fields and malformed shapes before the
  engine runs; engine.Validate remains the authority on the domain
  rules (age bounds, partner consistency, child ages).

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: The domain model behind them
*/
package api

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
	"github.com/claimkit/uc-engine/store/sqlite"
)

// Request validation tool
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// jsonFieldName reports struct fields under their wire names, so a failed
// rule points at "claimant_type" rather than "ClaimantType".
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// checkRequest runs the struct tags and returns the first offending field,
// or ok when the request is well formed.
func checkRequest(req any) (field string, message string, ok bool) {
	err := validate.Struct(req)
	if err == nil {
		return "", "", true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		switch first.Tag() {
		case "required":
			return first.Field(), first.Field() + " is required", false
		case "email":
			return first.Field(), first.Field() + " must be a valid email address", false
		default:
			return first.Field(), first.Field() + " is invalid", false
		}
	}
	return "", "invalid request", false
}

// =============================================================================
// CALCULATION TYPES
// =============================================================================

// ChildDTO is one dependent child on a claim.
type ChildDTO struct {
	Age        int  `json:"age"`
	IsDisabled bool `json:"is_disabled,omitempty"`
}

// CalculateRequest is the declared circumstances for one assessment period.
type CalculateRequest struct {
	ClaimantType           string          `json:"claimant_type" validate:"required"`
	ClaimantAge            int             `json:"claimant_age" validate:"required"`
	PartnerAge             *int            `json:"partner_age,omitempty"`
	Children               []ChildDTO      `json:"children,omitempty"`
	HousingType            string          `json:"housing_type" validate:"required"`
	BedroomsNeeded         int             `json:"bedrooms_needed,omitempty"`
	MonthlyRent            decimal.Decimal `json:"monthly_rent,omitempty"`
	BRMACode               string          `json:"brma_code,omitempty"`
	MonthlyEarnings        decimal.Decimal `json:"monthly_earnings,omitempty"`
	PartnerMonthlyEarnings decimal.Decimal `json:"partner_monthly_earnings,omitempty"`
	HasWorkAllowance       bool            `json:"has_work_allowance,omitempty"`
	HasChildcareCosts      bool            `json:"has_childcare_costs,omitempty"`
	MonthlyChildcareCosts  decimal.Decimal `json:"monthly_childcare_costs,omitempty"`
	HasDisability          bool            `json:"has_disability,omitempty"`
	IsCarer                bool            `json:"is_carer,omitempty"`
	AssessmentMonth        string          `json:"assessment_month,omitempty"`
}

// BreakdownDTO is one calculated entitlement, element by element.
type BreakdownDTO struct {
	ClaimReference    string `json:"claim_reference"`
	ClaimantType      string `json:"claimant_type"`
	TaxYear           string `json:"tax_year"`
	AssessmentMonth   string `json:"assessment_month"`
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
	CalculatedAt      string `json:"calculated_at"`
}

// ClaimDTO is a stored calculation: the circumstances as declared plus the
// breakdown they produced.
type ClaimDTO struct {
	ClaimReference string           `json:"claim_reference"`
	Circumstances  CalculateRequest `json:"circumstances"`
	Breakdown      BreakdownDTO     `json:"breakdown"`
}

// ClaimSummaryDTO is one row in the recent-calculations listing.
type ClaimSummaryDTO struct {
	ClaimReference   string `json:"claim_reference"`
	ClaimantType     string `json:"claimant_type"`
	TaxYear          string `json:"tax_year"`
	TotalEntitlement string `json:"total_entitlement"`
	CalculatedAt     string `json:"calculated_at"`
}

// =============================================================================
// RATE TYPES
// =============================================================================

// LHARateDTO answers "what is the cap for this BRMA and bedroom count".
type LHARateDTO struct {
	BRMACode   string `json:"brma_code"`
	BRMAName   string `json:"brma_name"`
	Bedrooms   int    `json:"bedrooms"`
	MonthlyCap string `json:"monthly_cap"`
}

// LHAScheduleDTO is one BRMA's full five-band schedule.
type LHAScheduleDTO struct {
	BRMACode       string `json:"brma_code"`
	BRMAName       string `json:"brma_name"`
	LocalAuthority string `json:"local_authority,omitempty"`
	EffectiveFrom  string `json:"effective_from"`
	Studio         string `json:"studio"`
	OneBedroom     string `json:"one_bedroom"`
	TwoBedrooms    string `json:"two_bedrooms"`
	ThreeBedrooms  string `json:"three_bedrooms"`
	FourBedrooms   string `json:"four_bedrooms"`
}

// UpsertLHARequest replaces or creates one BRMA's schedule.
type UpsertLHARequest struct {
	BRMACode       string          `json:"brma_code" validate:"required"`
	BRMAName       string          `json:"brma_name" validate:"required"`
	LocalAuthority string          `json:"local_authority,omitempty"`
	EffectiveFrom  string          `json:"effective_from" validate:"required"`
	Studio         decimal.Decimal `json:"studio"`
	OneBedroom     decimal.Decimal `json:"one_bedroom"`
	TwoBedrooms    decimal.Decimal `json:"two_bedrooms"`
	ThreeBedrooms  decimal.Decimal `json:"three_bedrooms"`
	FourBedrooms   decimal.Decimal `json:"four_bedrooms"`
}

// RateBookDTO is the published rate book for the configured tax year.
type RateBookDTO struct {
	TaxYear       string            `json:"tax_year"`
	EffectiveFrom string            `json:"effective_from"`
	Rates         map[string]string `json:"rates"`
}

// =============================================================================
// AUTH / USER TYPES
// =============================================================================

// TokenRequest exchanges credentials for a bearer token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserDTO represents a user in API responses. Never carries the hash.
type UserDTO struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name,omitempty"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest changes a user. Omitted fields keep their value.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// =============================================================================
// ITEM TYPES
// =============================================================================

// ItemDTO represents an item in API responses.
type ItemDTO struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	OwnerID     int    `json:"owner_id"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateItemRequest creates an item.
type CreateItemRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	OwnerID     int             `json:"owner_id" validate:"required"`
}

// UpdateItemRequest changes an item. Omitted fields keep their value.
type UpdateItemRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	OwnerID     *int             `json:"owner_id,omitempty"`
}

// =============================================================================
// SHARED TYPES
// =============================================================================

// ErrorResponse is the standard error response. Field names the offending
// input when a validation rule rejected the request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	TaxYear string `json:"tax_year"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

const assessmentMonthLayout = "2006-01"

// toCircumstances maps the request onto the domain model. The assessment
// month defaults to the current month when omitted.
func toCircumstances(req CalculateRequest) (engine.Circumstances, error) {
	assessment := time.Now().UTC()
	if req.AssessmentMonth != "" {
		parsed, err := time.Parse(assessmentMonthLayout, req.AssessmentMonth)
		if err != nil {
			return engine.Circumstances{}, err
		}
		assessment = parsed
	}

	children := make([]engine.Child, len(req.Children))
	for i, c := range req.Children {
		children[i] = engine.Child{Age: c.Age, IsDisabled: c.IsDisabled}
	}

	return engine.Circumstances{
		ClaimantType:           engine.ClaimantType(req.ClaimantType),
		ClaimantAge:            req.ClaimantAge,
		PartnerAge:             req.PartnerAge,
		Children:               children,
		HousingType:            engine.HousingType(req.HousingType),
		BedroomsNeeded:         req.BedroomsNeeded,
		MonthlyRent:            req.MonthlyRent,
		BRMACode:               req.BRMACode,
		MonthlyEarnings:        req.MonthlyEarnings,
		PartnerMonthlyEarnings: req.PartnerMonthlyEarnings,
		HasWorkAllowance:       req.HasWorkAllowance,
		HasChildcareCosts:      req.HasChildcareCosts,
		MonthlyChildcareCosts:  req.MonthlyChildcareCosts,
		HasDisability:          req.HasDisability,
		IsCarer:                req.IsCarer,
		AssessmentMonth:        assessment,
	}, nil
}

func toBreakdownDTO(b engine.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		ClaimReference:    b.ClaimReference,
		ClaimantType:      string(b.ClaimantType),
		TaxYear:           b.TaxYear,
		AssessmentMonth:   b.AssessmentMonth.Format(assessmentMonthLayout),
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
		CalculatedAt:      b.CalculatedAt.Format(time.RFC3339),
	}
}

func toClaimDTO(claim sqlite.ClaimRecord) ClaimDTO {
	children := make([]ChildDTO, len(claim.Children))
	for i, c := range claim.Children {
		children[i] = ChildDTO{Age: c.Age, IsDisabled: c.IsDisabled}
	}

	return ClaimDTO{
		ClaimReference: claim.ClaimReference,
		Circumstances: CalculateRequest{
			ClaimantType:           claim.ClaimantType,
			ClaimantAge:            claim.ClaimantAge,
			PartnerAge:             claim.PartnerAge,
			Children:               children,
			HousingType:            claim.HousingType,
			BedroomsNeeded:         claim.BedroomsNeeded,
			MonthlyRent:            claim.MonthlyRent,
			BRMACode:               claim.BRMACode,
			MonthlyEarnings:        claim.MonthlyEarnings,
			PartnerMonthlyEarnings: claim.PartnerMonthlyEarnings,
			HasWorkAllowance:       claim.HasWorkAllowance,
			HasChildcareCosts:      claim.HasChildcareCosts,
			MonthlyChildcareCosts:  claim.MonthlyChildcareCosts,
			HasDisability:          claim.HasDisability,
			IsCarer:                claim.IsCarer,
			AssessmentMonth:        claim.AssessmentMonth.Format(assessmentMonthLayout),
		},
		Breakdown: BreakdownDTO{
			ClaimReference:    claim.ClaimReference,
			ClaimantType:      claim.ClaimantType,
			TaxYear:           claim.TaxYear,
			AssessmentMonth:   claim.AssessmentMonth.Format(assessmentMonthLayout),
			StandardAllowance: claim.StandardAllowance.StringFixed(2),
			HousingElement:    claim.HousingElement.StringFixed(2),
			ChildElement:      claim.ChildElement.StringFixed(2),
			ChildcareElement:  claim.ChildcareElement.StringFixed(2),
			DisabilityElement: claim.DisabilityElement.StringFixed(2),
			CarerElement:      claim.CarerElement.StringFixed(2),
			GrossEntitlement:  claim.GrossEntitlement.StringFixed(2),
			TotalEarnings:     claim.TotalEarnings.StringFixed(2),
			WorkAllowance:     claim.WorkAllowance.StringFixed(2),
			EarningsDeduction: claim.EarningsDeduction.StringFixed(2),
			TotalEntitlement:  claim.TotalEntitlement.StringFixed(2),
			CalculatedAt:      claim.CalculatedAt.Format(time.RFC3339),
		},
	}
}

func toClaimSummaryDTO(claim sqlite.ClaimRecord) ClaimSummaryDTO {
	return ClaimSummaryDTO{
		ClaimReference:   claim.ClaimReference,
		ClaimantType:     claim.ClaimantType,
		TaxYear:          claim.TaxYear,
		TotalEntitlement: claim.TotalEntitlement.StringFixed(2),
		CalculatedAt:     claim.CalculatedAt.Format(time.RFC3339),
	}
}

func toScheduleDTO(s rates.BRMASchedule) LHAScheduleDTO {
	return LHAScheduleDTO{
		BRMACode:       s.BRMACode,
		BRMAName:       s.BRMAName,
		LocalAuthority: s.LocalAuthority,
		EffectiveFrom:  s.EffectiveFrom.Format("2006-01-02"),
		Studio:         s.Studio.StringFixed(2),
		OneBedroom:     s.OneBed.StringFixed(2),
		TwoBedrooms:    s.TwoBed.StringFixed(2),
		ThreeBedrooms:  s.ThreeBed.StringFixed(2),
		FourBedrooms:   s.FourBed.StringFixed(2),
	}
}

func toUserDTO(u sqlite.UserRecord) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toItemDTO(item sqlite.ItemRecord) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
	}
}
