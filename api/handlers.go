/*
handlers.go - HTTP API handlers for the UC entitlement service

PURPOSE:
  Exposes the entitlement engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculations:
    POST   /api/uc/calculate                    Calculate entitlement, store the claim
    GET    /api/uc/calculation/{claimReference} Replay a stored calculation
    GET    /api/uc/calculations                 Recent calculations, newest first

  Rates:
    GET    /api/uc/rates                        Published rate book
    GET    /api/uc/lha-rate/{brmaCode}          One cap for ?bedrooms=n
    GET    /api/uc/lha-rates                    Every BRMA schedule
    GET    /api/uc/lha-rates/{brmaCode}         One BRMA's full schedule

  Admin (bearer token):
    POST   /api/admin/lha-rates                 Upsert a BRMA schedule

  Auth:
    POST   /api/auth/token                      Exchange credentials for a token

  Users / Items:
    Standard CRUD under /api/users and /api/items

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Settings: Runtime configuration
  - Rate book and LHA schedule behind a RWMutex, so admin upserts
    swap them without a restart

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (field names the culprit)
  - 401: Bad or missing credentials
  - 404: Resource not found
  - 409: Conflict (duplicate email, username, claim reference)
  - 500: Internal errors, incomplete rate book
  - 503: Auth surface used without a configured secret

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - engine/engine.go: The calculation itself
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/auth"
	"github.com/claimkit/uc-engine/config"
	"github.com/claimkit/uc-engine/engine"
	"github.com/claimkit/uc-engine/rates"
	"github.com/claimkit/uc-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Settings config.Settings

	// Rate book and LHA schedule, swappable at runtime by admin upserts
	mu        sync.RWMutex
	rateTable *engine.RateTable
	lhaTable  *rates.LHATable
}

// NewHandler creates a new handler with the given store and rate sources.
func NewHandler(store *sqlite.Store, settings config.Settings, rateTable *engine.RateTable, lhaTable *rates.LHATable) *Handler {
	return &Handler{
		Store:     store,
		Settings:  settings,
		rateTable: rateTable,
		lhaTable:  lhaTable,
	}
}

func (h *Handler) currentRates() *engine.RateTable {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rateTable
}

func (h *Handler) currentLHA() *rates.LHATable {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lhaTable
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate runs one entitlement calculation and stores it under a fresh
// claim reference.
// POST /api/uc/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}

	circumstances, err := toCircumstances(req)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "Invalid assessment_month format (use YYYY-MM)", "assessment_month")
		return
	}

	breakdown, err := engine.Calculate(circumstances, h.currentRates(), h.currentLHA())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	breakdown.ClaimReference = engine.NewClaimReference()
	breakdown.CalculatedAt = time.Now().UTC()

	claim := toClaimRecord(circumstances, *breakdown)
	if err := h.Store.SaveClaim(r.Context(), claim); err != nil {
		if errors.Is(err, sqlite.ErrDuplicateReference) {
			breakdown.ClaimReference = engine.NewClaimReference()
			claim.ClaimReference = breakdown.ClaimReference
			err = h.Store.SaveClaim(r.Context(), claim)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to store calculation", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toBreakdownDTO(*breakdown))
}

// GetCalculation replays a stored calculation without recomputing it.
// GET /api/uc/calculation/{claimReference}
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "claimReference")

	claim, err := h.Store.GetClaim(r.Context(), reference)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calculation", err)
		return
	}
	if claim == nil {
		writeError(w, http.StatusNotFound, "Calculation not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toClaimDTO(*claim))
}

// ListCalculations returns recent calculations, newest first.
// GET /api/uc/calculations?limit=n
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeFieldError(w, http.StatusBadRequest, "limit must be a positive integer", "limit")
			return
		}
		limit = parsed
	}

	claims, err := h.Store.ListClaims(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}

	dtos := make([]ClaimSummaryDTO, len(claims))
	for i, claim := range claims {
		dtos[i] = toClaimSummaryDTO(claim)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func toClaimRecord(c engine.Circumstances, b engine.Breakdown) sqlite.ClaimRecord {
	return sqlite.ClaimRecord{
		ClaimReference: b.ClaimReference,

		ClaimantType:           string(c.ClaimantType),
		ClaimantAge:            c.ClaimantAge,
		PartnerAge:             c.PartnerAge,
		Children:               c.Children,
		HousingType:            string(c.HousingType),
		BedroomsNeeded:         c.BedroomsNeeded,
		MonthlyRent:            c.MonthlyRent,
		BRMACode:               c.BRMACode,
		MonthlyEarnings:        c.MonthlyEarnings,
		PartnerMonthlyEarnings: c.PartnerMonthlyEarnings,
		HasWorkAllowance:       c.HasWorkAllowance,
		HasChildcareCosts:      c.HasChildcareCosts,
		MonthlyChildcareCosts:  c.MonthlyChildcareCosts,
		HasDisability:          c.HasDisability,
		IsCarer:                c.IsCarer,
		AssessmentMonth:        c.AssessmentMonth,
		TaxYear:                b.TaxYear,

		StandardAllowance: b.StandardAllowance,
		HousingElement:    b.HousingElement,
		ChildElement:      b.ChildElement,
		ChildcareElement:  b.ChildcareElement,
		DisabilityElement: b.DisabilityElement,
		CarerElement:      b.CarerElement,
		GrossEntitlement:  b.GrossEntitlement,
		TotalEarnings:     b.TotalEarnings,
		WorkAllowance:     b.WorkAllowance,
		EarningsDeduction: b.EarningsDeduction,
		TotalEntitlement:  b.TotalEntitlement,

		CalculatedAt: b.CalculatedAt,
	}
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// GetRateBook publishes the configured rate book.
// GET /api/uc/rates
func (h *Handler) GetRateBook(w http.ResponseWriter, r *http.Request) {
	table := h.currentRates()

	published := make(map[string]string, len(table.Names()))
	for _, name := range table.Names() {
		value, err := table.Rate(name)
		if err != nil {
			continue
		}
		published[string(name)] = value.String()
	}

	writeJSON(w, http.StatusOK, RateBookDTO{
		TaxYear:       table.TaxYear(),
		EffectiveFrom: table.EffectiveFrom().Format("2006-01-02"),
		Rates:         published,
	})
}

// GetLHARate answers one cap lookup for a BRMA and bedroom count.
// GET /api/uc/lha-rate/{brmaCode}?bedrooms=n
func (h *Handler) GetLHARate(w http.ResponseWriter, r *http.Request) {
	brmaCode := chi.URLParam(r, "brmaCode")

	bedrooms := 1
	if raw := r.URL.Query().Get("bedrooms"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeFieldError(w, http.StatusBadRequest, "bedrooms must be a non-negative integer", "bedrooms")
			return
		}
		bedrooms = parsed
	}

	schedule, ok := h.currentLHA().Schedule(brmaCode)
	if !ok {
		writeError(w, http.StatusNotFound, "BRMA not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, LHARateDTO{
		BRMACode:   schedule.BRMACode,
		BRMAName:   schedule.BRMAName,
		Bedrooms:   engine.ClampBedroomBand(bedrooms),
		MonthlyCap: schedule.Band(bedrooms).StringFixed(2),
	})
}

// GetLHASchedule returns one BRMA's full five-band schedule.
// GET /api/uc/lha-rates/{brmaCode}
func (h *Handler) GetLHASchedule(w http.ResponseWriter, r *http.Request) {
	brmaCode := chi.URLParam(r, "brmaCode")

	schedule, ok := h.currentLHA().Schedule(brmaCode)
	if !ok {
		writeError(w, http.StatusNotFound, "BRMA not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// ListLHASchedules returns every configured BRMA schedule.
// GET /api/uc/lha-rates
func (h *Handler) ListLHASchedules(w http.ResponseWriter, r *http.Request) {
	schedules := h.currentLHA().Schedules()

	dtos := make([]LHAScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = toScheduleDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertLHARate replaces or creates one BRMA's schedule, in the store and
// in the live table.
// POST /api/admin/lha-rates
func (h *Handler) UpsertLHARate(w http.ResponseWriter, r *http.Request) {
	var req UpsertLHARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		writeFieldError(w, http.StatusBadRequest, "Invalid effective_from format (use YYYY-MM-DD)", "effective_from")
		return
	}
	for _, band := range []struct {
		field  string
		amount decimal.Decimal
	}{
		{"studio", req.Studio},
		{"one_bedroom", req.OneBedroom},
		{"two_bedrooms", req.TwoBedrooms},
		{"three_bedrooms", req.ThreeBedrooms},
		{"four_bedrooms", req.FourBedrooms},
	} {
		if band.amount.IsNegative() {
			writeFieldError(w, http.StatusBadRequest, band.field+" must not be negative", band.field)
			return
		}
	}

	schedule := rates.BRMASchedule{
		BRMACode:       req.BRMACode,
		BRMAName:       req.BRMAName,
		LocalAuthority: req.LocalAuthority,
		EffectiveFrom:  effectiveFrom,
		Studio:         req.Studio,
		OneBed:         req.OneBedroom,
		TwoBed:         req.TwoBedrooms,
		ThreeBed:       req.ThreeBedrooms,
		FourBed:        req.FourBedrooms,
	}

	record := sqlite.LHARateRecord{
		BRMACode:       schedule.BRMACode,
		BRMAName:       schedule.BRMAName,
		LocalAuthority: schedule.LocalAuthority,
		EffectiveFrom:  schedule.EffectiveFrom,
		Studio:         schedule.Studio,
		OneBed:         schedule.OneBed,
		TwoBed:         schedule.TwoBed,
		ThreeBed:       schedule.ThreeBed,
		FourBed:        schedule.FourBed,
	}
	if err := h.Store.UpsertLHARate(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store LHA rate", err)
		return
	}

	h.mu.Lock()
	h.lhaTable = h.lhaTable.With(schedule)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// IssueToken exchanges a username and password for a bearer token.
// POST /api/auth/token
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !h.Settings.AuthEnabled() {
		writeError(w, http.StatusServiceUnavailable, "Authentication is not configured", nil)
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up user", err)
		return
	}
	if user == nil {
		// Dummy comparison keeps response timing flat for unknown usernames
		auth.CheckPassword(auth.DummyHash, req.Password)
		writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusUnauthorized, "Account is disabled", nil)
		return
	}

	token, err := auth.IssueToken(h.Settings.SecretKey, user.Username, h.Settings.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(h.Settings.TokenTTL.Seconds()),
	})
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// CreateUser registers a user.
// POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}
	if err := auth.CheckUsername(req.Username); err != nil {
		writeFieldError(w, http.StatusBadRequest, err.Error(), "username")
		return
	}
	if err := auth.CheckPasswordStrength(req.Password); err != nil {
		writeFieldError(w, http.StatusBadRequest, err.Error(), "password")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), sqlite.UserRecord{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		writeUserStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(*user))
}

// GetUser returns a single user.
// GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// ListUsers returns all users.
// GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = toUserDTO(user)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateUser changes a user. Omitted fields keep their value.
// PUT /api/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}

	user, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Username != nil {
		if err := auth.CheckUsername(*req.Username); err != nil {
			writeFieldError(w, http.StatusBadRequest, err.Error(), "username")
			return
		}
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		if err := auth.CheckPasswordStrength(*req.Password); err != nil {
			writeFieldError(w, http.StatusBadRequest, err.Error(), "password")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to hash password", err)
			return
		}
		user.PasswordHash = hash
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.Store.UpdateUser(r.Context(), *user); err != nil {
		writeUserStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// DeleteUser removes a user.
// DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	if err := h.Store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeUserStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sqlite.ErrEmailTaken):
		writeFieldError(w, http.StatusConflict, "Email already registered", "email")
	case errors.Is(err, sqlite.ErrUsernameTaken):
		writeFieldError(w, http.StatusConflict, "Username already taken", "username")
	case errors.Is(err, sqlite.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to save user", err)
	}
}

// =============================================================================
// ITEM HANDLERS
// =============================================================================

// CreateItem creates an item owned by an existing user.
// POST /api/items
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if field, message, ok := checkRequest(req); !ok {
		writeFieldError(w, http.StatusBadRequest, message, field)
		return
	}
	if req.Price.IsNegative() {
		writeFieldError(w, http.StatusBadRequest, "price must not be negative", "price")
		return
	}

	owner, err := h.Store.GetUser(r.Context(), req.OwnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get owner", err)
		return
	}
	if owner == nil {
		writeFieldError(w, http.StatusBadRequest, "owner_id does not reference a known user", "owner_id")
		return
	}

	item, err := h.Store.CreateItem(r.Context(), sqlite.ItemRecord{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create item", err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemDTO(*item))
}

// GetItem returns a single item.
// GET /api/items/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toItemDTO(*item))
}

// ListItems returns all items.
// GET /api/items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list items", err)
		return
	}

	dtos := make([]ItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateItem changes an item. Omitted fields keep their value.
// PUT /api/items/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			writeFieldError(w, http.StatusBadRequest, "price must not be negative", "price")
			return
		}
		item.Price = *req.Price
	}
	if req.OwnerID != nil {
		owner, err := h.Store.GetUser(r.Context(), *req.OwnerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to get owner", err)
			return
		}
		if owner == nil {
			writeFieldError(w, http.StatusBadRequest, "owner_id does not reference a known user", "owner_id")
			return
		}
		item.OwnerID = *req.OwnerID
	}

	if err := h.Store.UpdateItem(r.Context(), *item); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Item not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update item", err)
		return
	}

	writeJSON(w, http.StatusOK, toItemDTO(*item))
}

// DeleteItem removes an item.
// DELETE /api/items/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	if err := h.Store.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Item not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete item", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and the configured tax year.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	payload := HealthResponse{
		Status:  "ok",
		App:     h.Settings.AppName,
		TaxYear: h.currentRates().TaxYear(),
	}
	if err := h.Store.Ping(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		payload.Status = "degraded"
	}
	writeJSON(w, status, payload)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeFieldError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, ErrorResponse{Error: message, Field: field})
}

// writeEngineError maps engine failures onto the HTTP contract: rejected
// circumstances are the client's fault, an incomplete rate book is ours.
func writeEngineError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		writeFieldError(w, http.StatusBadRequest, verr.Error(), verr.Field)
		return
	}
	if engine.IsConfiguration(err) {
		writeError(w, http.StatusInternalServerError, "Rate book is incomplete", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Calculation failed", err)
}
