/*
handlers_test.go - Endpoint tests for the UC API

Tests for:
- Calculation endpoint, stored-claim replay, listing
- LHA and rate book lookups
- Admin upserts behind the bearer token
- Token issuing and the user/item CRUD scaffold
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimkit/uc-engine/config"
	"github.com/claimkit/uc-engine/rates"
	"github.com/claimkit/uc-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testSecret = "handlers-test-secret"

func testSettings() config.Settings {
	return config.Settings{
		AppName:     "UC Entitlement Engine",
		CORSOrigins: []string{"*"},
		SecretKey:   testSecret,
		TokenTTL:    30 * time.Minute,
	}
}

func newTestRouter(t *testing.T, settings config.Settings) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, settings, rates.Default(), rates.DefaultLHA())
	return NewRouter(h)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

// singleRenterRequest is a 30 year old single renter: rent 600 against the
// Bradford one-bed cap of 650, no earnings.
func singleRenterRequest() map[string]any {
	return map[string]any{
		"claimant_type":    "single",
		"claimant_age":     30,
		"housing_type":     "renter",
		"bedrooms_needed":  1,
		"monthly_rent":     600,
		"brma_code":        "E08000032",
		"assessment_month": "2026-06",
	}
}

func registerUser(t *testing.T, router http.Handler, username, password string) UserDTO {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/users", "", map[string]any{
		"email":    username + "@example.com",
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var user UserDTO
	decodeJSON(t, rec, &user)
	return user
}

func obtainToken(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/auth/token", "", map[string]any{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var token TokenResponse
	decodeJSON(t, rec, &token)
	return token.AccessToken
}

// =============================================================================
// CALCULATION ENDPOINT TESTS
// =============================================================================

func TestCalculate_SingleRenter(t *testing.T) {
	// GIVEN: A single 30 year old renter below the LHA cap with no earnings
	// WHEN: Calculating
	// THEN: Standard allowance 424.90 + housing 600.00 = total 1024.90

	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", singleRenterRequest())
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var breakdown BreakdownDTO
	decodeJSON(t, rec, &breakdown)

	assert.Equal(t, "424.90", breakdown.StandardAllowance)
	assert.Equal(t, "600.00", breakdown.HousingElement)
	assert.Equal(t, "0.00", breakdown.EarningsDeduction)
	assert.Equal(t, "1024.90", breakdown.TotalEntitlement)
	assert.Equal(t, "2026-27", breakdown.TaxYear)
	assert.Equal(t, "2026-06", breakdown.AssessmentMonth)
	assert.Regexp(t, `^UC-[0-9A-F]{8}$`, breakdown.ClaimReference)
	assert.NotEmpty(t, breakdown.CalculatedAt)
}

func TestCalculate_RentAboveCap_Capped(t *testing.T) {
	router := newTestRouter(t, testSettings())

	req := singleRenterRequest()
	req["monthly_rent"] = 700

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var breakdown BreakdownDTO
	decodeJSON(t, rec, &breakdown)
	assert.Equal(t, "650.00", breakdown.HousingElement, "Bradford one-bed cap should apply")
}

func TestCalculate_UnknownBRMA_FallsBackToRent(t *testing.T) {
	router := newTestRouter(t, testSettings())

	req := singleRenterRequest()
	req["brma_code"] = "E99999999"
	req["monthly_rent"] = 2400

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var breakdown BreakdownDTO
	decodeJSON(t, rec, &breakdown)
	assert.Equal(t, "2400.00", breakdown.HousingElement, "unknown BRMA should fall back to full rent")
}

func TestCalculate_EarningsBelowWorkAllowance_NoDeduction(t *testing.T) {
	// GIVEN: A single parent earning 200 with a 290 work allowance
	// WHEN: Calculating
	// THEN: Earnings stay below the allowance, so nothing is tapered

	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", map[string]any{
		"claimant_type":      "single",
		"claimant_age":       30,
		"housing_type":       "none",
		"children":           []map[string]any{{"age": 4}},
		"monthly_earnings":   200,
		"has_work_allowance": true,
		"assessment_month":   "2026-06",
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var breakdown BreakdownDTO
	decodeJSON(t, rec, &breakdown)
	assert.Equal(t, "290.00", breakdown.WorkAllowance)
	assert.Equal(t, "0.00", breakdown.EarningsDeduction)
	assert.Equal(t, "200.00", breakdown.TotalEarnings)
}

func TestCalculate_JointEarnings_Tapered(t *testing.T) {
	// GIVEN: A joint claim, both 25+, combined earnings 500, no work allowance
	// WHEN: Calculating
	// THEN: Deduction is 500 * 0.55 = 275.00 against the 666.97 allowance

	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", map[string]any{
		"claimant_type":            "joint",
		"claimant_age":             32,
		"partner_age":              29,
		"housing_type":             "none",
		"monthly_earnings":         300,
		"partner_monthly_earnings": 200,
		"assessment_month":         "2026-06",
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var breakdown BreakdownDTO
	decodeJSON(t, rec, &breakdown)
	assert.Equal(t, "666.97", breakdown.StandardAllowance)
	assert.Equal(t, "500.00", breakdown.TotalEarnings)
	assert.Equal(t, "275.00", breakdown.EarningsDeduction)
	assert.Equal(t, "391.97", breakdown.TotalEntitlement)
}

func TestCalculate_ValidationRejected_FieldNamed(t *testing.T) {
	// GIVEN: A joint claim without a partner age
	// WHEN: Calculating
	// THEN: 400 naming partner_age, nothing stored

	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", map[string]any{
		"claimant_type":    "joint",
		"claimant_age":     32,
		"housing_type":     "none",
		"assessment_month": "2026-06",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "partner_age", resp.Field)

	list := doRequest(t, router, http.MethodGet, "/api/uc/calculations", "", nil)
	var summaries []ClaimSummaryDTO
	decodeJSON(t, list, &summaries)
	assert.Empty(t, summaries, "rejected calculations must not be stored")
}

func TestCalculate_MissingClaimantType_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", map[string]any{
		"claimant_age": 30,
		"housing_type": "none",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "claimant_type", resp.Field)
}

func TestCalculate_BadAssessmentMonth_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	req := singleRenterRequest()
	req["assessment_month"] = "June 2026"

	rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "assessment_month", resp.Field)
}

func TestCalculate_MalformedBody_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	req := httptest.NewRequest(http.MethodPost, "/api/uc/calculate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// STORED CALCULATION TESTS
// =============================================================================

func TestGetCalculation_ReplaysStoredBreakdown(t *testing.T) {
	// GIVEN: A stored calculation
	// WHEN: Fetching it by claim reference
	// THEN: The breakdown and the declared circumstances come back unchanged

	router := newTestRouter(t, testSettings())

	req := singleRenterRequest()
	req["children"] = []map[string]any{{"age": 8}, {"age": 5, "is_disabled": true}}

	calc := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", req)
	require.Equal(t, http.StatusOK, calc.Code)

	var breakdown BreakdownDTO
	decodeJSON(t, calc, &breakdown)

	rec := doRequest(t, router, http.MethodGet, "/api/uc/calculation/"+breakdown.ClaimReference, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var claim ClaimDTO
	decodeJSON(t, rec, &claim)

	assert.Equal(t, breakdown.ClaimReference, claim.ClaimReference)
	assert.Equal(t, breakdown.TotalEntitlement, claim.Breakdown.TotalEntitlement)
	assert.Equal(t, breakdown.ChildElement, claim.Breakdown.ChildElement)
	assert.Equal(t, "single", claim.Circumstances.ClaimantType)
	require.Len(t, claim.Circumstances.Children, 2)
	assert.True(t, claim.Circumstances.Children[1].IsDisabled)
	assert.Equal(t, "2026-06", claim.Circumstances.AssessmentMonth)
}

func TestGetCalculation_NotFound(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/calculation/UC-DEADBEEF", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCalculations(t *testing.T) {
	router := newTestRouter(t, testSettings())

	for i := 0; i < 3; i++ {
		rec := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", singleRenterRequest())
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/uc/calculations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []ClaimSummaryDTO
	decodeJSON(t, rec, &summaries)
	require.Len(t, summaries, 3)
	assert.Equal(t, "1024.90", summaries[0].TotalEntitlement)

	limited := doRequest(t, router, http.MethodGet, "/api/uc/calculations?limit=2", "", nil)
	var two []ClaimSummaryDTO
	decodeJSON(t, limited, &two)
	assert.Len(t, two, 2)

	bad := doRequest(t, router, http.MethodGet, "/api/uc/calculations?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

// =============================================================================
// RATE LOOKUP TESTS
// =============================================================================

func TestGetLHARate(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rate/E08000032?bedrooms=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rate LHARateDTO
	decodeJSON(t, rec, &rate)
	assert.Equal(t, "Bradford & South Dales", rate.BRMAName)
	assert.Equal(t, 1, rate.Bedrooms)
	assert.Equal(t, "650.00", rate.MonthlyCap)
}

func TestGetLHARate_BedroomsClamped(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rate/E08000032?bedrooms=9", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rate LHARateDTO
	decodeJSON(t, rec, &rate)
	assert.Equal(t, 4, rate.Bedrooms, "bands above four bedrooms clamp to four")
	assert.Equal(t, "1150.00", rate.MonthlyCap)
}

func TestGetLHARate_UnknownBRMA_404(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rate/E99999999?bedrooms=1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetLHARate_BadBedrooms_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rate/E08000032?bedrooms=two", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLHASchedules(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var schedules []LHAScheduleDTO
	decodeJSON(t, rec, &schedules)
	require.Len(t, schedules, rates.DefaultLHA().Len())
	assert.Equal(t, "E08000016", schedules[0].BRMACode, "schedules are ordered by code")
}

func TestGetLHASchedule(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/lha-rates/E08000032", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var schedule LHAScheduleDTO
	decodeJSON(t, rec, &schedule)
	assert.Equal(t, "550.00", schedule.Studio)
	assert.Equal(t, "1150.00", schedule.FourBedrooms)

	missing := doRequest(t, router, http.MethodGet, "/api/uc/lha-rates/E99999999", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestGetRateBook(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/api/uc/rates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var book RateBookDTO
	decodeJSON(t, rec, &book)
	assert.Equal(t, "2026-27", book.TaxYear)
	assert.Equal(t, "0.55", book.Rates["earnings.taper_rate"])
	assert.Equal(t, "424.9", book.Rates["standard_allowance.single_25_plus"])
}

// =============================================================================
// ADMIN TESTS
// =============================================================================

func upsertBody() map[string]any {
	return map[string]any{
		"brma_code":       "E08000003",
		"brma_name":       "Central Manchester",
		"local_authority": "Manchester City Council",
		"effective_from":  "2026-04-01",
		"studio":          575,
		"one_bedroom":     700,
		"two_bedrooms":    875,
		"three_bedrooms":  1025,
		"four_bedrooms":   1250,
	}
}

func TestAdminUpsertLHA_RequiresToken(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/admin/lha-rates", "", upsertBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUpsertLHA_UpdatesLiveTable(t *testing.T) {
	// GIVEN: An authenticated admin upserting a new BRMA
	// WHEN: The upsert succeeds
	// THEN: Lookups and calculations immediately use the new schedule

	router := newTestRouter(t, testSettings())
	registerUser(t, router, "admin", "AdminPass1")
	token := obtainToken(t, router, "admin", "AdminPass1")

	rec := doRequest(t, router, http.MethodPost, "/api/admin/lha-rates", token, upsertBody())
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	lookup := doRequest(t, router, http.MethodGet, "/api/uc/lha-rate/E08000003?bedrooms=2", "", nil)
	require.Equal(t, http.StatusOK, lookup.Code)

	var rate LHARateDTO
	decodeJSON(t, lookup, &rate)
	assert.Equal(t, "875.00", rate.MonthlyCap)

	calc := doRequest(t, router, http.MethodPost, "/api/uc/calculate", "", map[string]any{
		"claimant_type":    "single",
		"claimant_age":     30,
		"housing_type":     "renter",
		"bedrooms_needed":  2,
		"monthly_rent":     950,
		"brma_code":        "E08000003",
		"assessment_month": "2026-06",
	})
	require.Equal(t, http.StatusOK, calc.Code)

	var breakdown BreakdownDTO
	decodeJSON(t, calc, &breakdown)
	assert.Equal(t, "875.00", breakdown.HousingElement, "calculation should cap at the upserted rate")
}

func TestAdminUpsertLHA_NegativeBand_400(t *testing.T) {
	router := newTestRouter(t, testSettings())
	registerUser(t, router, "admin", "AdminPass1")
	token := obtainToken(t, router, "admin", "AdminPass1")

	body := upsertBody()
	body["two_bedrooms"] = -10

	rec := doRequest(t, router, http.MethodPost, "/api/admin/lha-rates", token, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "two_bedrooms", resp.Field)
}

func TestAdmin_NoSecret_503(t *testing.T) {
	settings := testSettings()
	settings.SecretKey = ""
	router := newTestRouter(t, settings)

	rec := doRequest(t, router, http.MethodPost, "/api/admin/lha-rates", "anything", upsertBody())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// =============================================================================
// AUTH AND USER TESTS
// =============================================================================

func TestToken_WrongPassword_401(t *testing.T) {
	router := newTestRouter(t, testSettings())
	registerUser(t, router, "alice", "AlicePass1")

	rec := doRequest(t, router, http.MethodPost, "/api/auth/token", "", map[string]any{
		"username": "alice",
		"password": "WrongPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_UnknownUser_401(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/auth/token", "", map[string]any{
		"username": "nobody",
		"password": "AnyPass12",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_NoSecret_503(t *testing.T) {
	settings := testSettings()
	settings.SecretKey = ""
	router := newTestRouter(t, settings)

	rec := doRequest(t, router, http.MethodPost, "/api/auth/token", "", map[string]any{
		"username": "alice",
		"password": "AlicePass1",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestToken_InactiveUser_401(t *testing.T) {
	router := newTestRouter(t, testSettings())
	user := registerUser(t, router, "alice", "AlicePass1")

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), "", map[string]any{
		"is_active": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	denied := doRequest(t, router, http.MethodPost, "/api/auth/token", "", map[string]any{
		"username": "alice",
		"password": "AlicePass1",
	})
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
}

func TestCreateUser_WeakPassword_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "weak",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "password", resp.Field)
}

func TestCreateUser_BadEmail_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "not-an-email",
		"username": "alice",
		"password": "AlicePass1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "email", resp.Field)
}

func TestCreateUser_DuplicateEmail_409(t *testing.T) {
	router := newTestRouter(t, testSettings())
	registerUser(t, router, "alice", "AlicePass1")

	rec := doRequest(t, router, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "AlicePass1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserCRUD(t *testing.T) {
	router := newTestRouter(t, testSettings())
	user := registerUser(t, router, "alice", "AlicePass1")

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	update := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), "", map[string]any{
		"full_name": "Alice Smith",
	})
	require.Equal(t, http.StatusOK, update.Code)

	var updated UserDTO
	decodeJSON(t, update, &updated)
	assert.Equal(t, "Alice Smith", updated.FullName)
	assert.Equal(t, "alice@example.com", updated.Email, "omitted fields keep their value")

	del := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), "", nil)
	require.Equal(t, http.StatusOK, del.Code)

	gone := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

// =============================================================================
// ITEM TESTS
// =============================================================================

func TestItemCRUD(t *testing.T) {
	router := newTestRouter(t, testSettings())
	owner := registerUser(t, router, "alice", "AlicePass1")

	created := doRequest(t, router, http.MethodPost, "/api/items", "", map[string]any{
		"title":    "Budgeting guide",
		"price":    12.99,
		"owner_id": owner.ID,
	})
	require.Equal(t, http.StatusCreated, created.Code, "body: %s", created.Body.String())

	var item ItemDTO
	decodeJSON(t, created, &item)
	assert.Equal(t, "12.99", item.Price)

	list := doRequest(t, router, http.MethodGet, "/api/items", "", nil)
	var items []ItemDTO
	decodeJSON(t, list, &items)
	assert.Len(t, items, 1)

	update := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/items/%d", item.ID), "", map[string]any{
		"price": 14.50,
	})
	require.Equal(t, http.StatusOK, update.Code)

	var updated ItemDTO
	decodeJSON(t, update, &updated)
	assert.Equal(t, "14.50", updated.Price)
	assert.Equal(t, "Budgeting guide", updated.Title)

	del := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/items/%d", item.ID), "", nil)
	require.Equal(t, http.StatusOK, del.Code)

	gone := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/items/%d", item.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, gone.Code)
}

func TestCreateItem_UnknownOwner_400(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodPost, "/api/items", "", map[string]any{
		"title":    "Orphan",
		"price":    5,
		"owner_id": 42,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "owner_id", resp.Field)
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	router := newTestRouter(t, testSettings())

	rec := doRequest(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	decodeJSON(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "2026-27", health.TaxYear)
}
