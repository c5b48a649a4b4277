/*
Package sqlite provides SQLite-backed persistence for the UC service.

PURPOSE:
  One store for everything the service persists: the claims audit trail,
  the LHA rate schedule, and the users/items scaffold. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  claims:     One row per calculation, keyed by claim reference. Full input
              echo (children as JSON) plus every breakdown element, so a
              stored calculation can be replayed without recomputing.
  lha_rates:  One row per BRMA with the five bedroom-band caps. Seeded from
              the configured schedule at startup, updated by admin upserts.
  users:      Unique email and username, bcrypt password hash only.
  items:      Generic owned records with a decimal price.

AUDIT SEMANTICS:
  Claims are write-once: the INSERT has no conflict clause, so a repeated
  claim reference fails with ErrDuplicateReference instead of silently
  rewriting history.

MONEY:
  Monetary columns are TEXT holding decimal.String() output. SQLite REAL
  would reintroduce the float drift the engine exists to avoid.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/uc.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/types.go: The breakdown a ClaimRecord snapshots
  - rates/lha.go: The in-memory schedule lha_rates mirrors
  - api/handlers.go: The only writer
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/claimkit/uc-engine/engine"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrNotFound is returned by updates and deletes that matched no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateReference is returned when a claim reference is reused.
	ErrDuplicateReference = errors.New("duplicate claim reference")

	// ErrEmailTaken is returned when a user's email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken is returned when a username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store implements all persistence for the service using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Claims (write-once audit trail, one row per calculation)
	CREATE TABLE IF NOT EXISTS claims (
		claim_reference TEXT PRIMARY KEY,
		claimant_type TEXT NOT NULL,
		claimant_age INTEGER NOT NULL,
		partner_age INTEGER,
		children_json TEXT,
		housing_type TEXT NOT NULL,
		bedrooms_needed INTEGER NOT NULL DEFAULT 0,
		monthly_rent TEXT NOT NULL,
		brma_code TEXT,
		monthly_earnings TEXT NOT NULL,
		partner_monthly_earnings TEXT NOT NULL,
		has_work_allowance BOOLEAN NOT NULL DEFAULT FALSE,
		has_childcare_costs BOOLEAN NOT NULL DEFAULT FALSE,
		monthly_childcare_costs TEXT NOT NULL,
		has_disability BOOLEAN NOT NULL DEFAULT FALSE,
		is_carer BOOLEAN NOT NULL DEFAULT FALSE,
		assessment_month TEXT NOT NULL,
		tax_year TEXT NOT NULL,

		standard_allowance TEXT NOT NULL,
		housing_element TEXT NOT NULL,
		child_element TEXT NOT NULL,
		childcare_element TEXT NOT NULL,
		disability_element TEXT NOT NULL,
		carer_element TEXT NOT NULL,
		gross_entitlement TEXT NOT NULL,
		total_earnings TEXT NOT NULL,
		work_allowance TEXT NOT NULL,
		earnings_deduction TEXT NOT NULL,
		total_entitlement TEXT NOT NULL,

		calculated_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Recent-claims listing (hot path for the audit endpoint)
	CREATE INDEX IF NOT EXISTS idx_claims_calculated_at
		ON claims(calculated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_claims_brma
		ON claims(brma_code) WHERE brma_code IS NOT NULL;

	-- LHA rates (one row per BRMA)
	CREATE TABLE IF NOT EXISTS lha_rates (
		brma_code TEXT PRIMARY KEY,
		brma_name TEXT NOT NULL,
		local_authority TEXT,
		effective_from TEXT NOT NULL,
		studio_rate TEXT NOT NULL,
		one_bed_rate TEXT NOT NULL,
		two_bed_rate TEXT NOT NULL,
		three_bed_rate TEXT NOT NULL,
		four_bed_rate TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Users (CRUD scaffold; only the bcrypt hash is stored)
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Items (CRUD scaffold)
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		price TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_owner
		ON items(owner_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLAIMS - Write-once audit trail
// =============================================================================

// ClaimRecord is one stored calculation: the declared circumstances plus
// the breakdown they produced.
type ClaimRecord struct {
	ClaimReference string

	ClaimantType           string
	ClaimantAge            int
	PartnerAge             *int
	Children               []engine.Child
	HousingType            string
	BedroomsNeeded         int
	MonthlyRent            decimal.Decimal
	BRMACode               string
	MonthlyEarnings        decimal.Decimal
	PartnerMonthlyEarnings decimal.Decimal
	HasWorkAllowance       bool
	HasChildcareCosts      bool
	MonthlyChildcareCosts  decimal.Decimal
	HasDisability          bool
	IsCarer                bool
	AssessmentMonth        time.Time
	TaxYear                string

	StandardAllowance decimal.Decimal
	HousingElement    decimal.Decimal
	ChildElement      decimal.Decimal
	ChildcareElement  decimal.Decimal
	DisabilityElement decimal.Decimal
	CarerElement      decimal.Decimal
	GrossEntitlement  decimal.Decimal
	TotalEarnings     decimal.Decimal
	WorkAllowance     decimal.Decimal
	EarningsDeduction decimal.Decimal
	TotalEntitlement  decimal.Decimal

	CalculatedAt time.Time
	CreatedAt    time.Time
}

// SaveClaim stores one calculation. Claims are write-once; a duplicate
// reference fails with ErrDuplicateReference rather than updating.
func (s *Store) SaveClaim(ctx context.Context, claim ClaimRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	childrenJSON, _ := json.Marshal(claim.Children)

	query := `
		INSERT INTO claims
		(claim_reference, claimant_type, claimant_age, partner_age, children_json,
		 housing_type, bedrooms_needed, monthly_rent, brma_code,
		 monthly_earnings, partner_monthly_earnings, has_work_allowance,
		 has_childcare_costs, monthly_childcare_costs, has_disability, is_carer,
		 assessment_month, tax_year,
		 standard_allowance, housing_element, child_element, childcare_element,
		 disability_element, carer_element, gross_entitlement, total_earnings,
		 work_allowance, earnings_deduction, total_entitlement,
		 calculated_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		claim.ClaimReference,
		claim.ClaimantType,
		claim.ClaimantAge,
		claim.PartnerAge,
		string(childrenJSON),
		claim.HousingType,
		claim.BedroomsNeeded,
		claim.MonthlyRent.String(),
		nullString(claim.BRMACode),
		claim.MonthlyEarnings.String(),
		claim.PartnerMonthlyEarnings.String(),
		claim.HasWorkAllowance,
		claim.HasChildcareCosts,
		claim.MonthlyChildcareCosts.String(),
		claim.HasDisability,
		claim.IsCarer,
		claim.AssessmentMonth.Format(time.RFC3339),
		claim.TaxYear,
		claim.StandardAllowance.String(),
		claim.HousingElement.String(),
		claim.ChildElement.String(),
		claim.ChildcareElement.String(),
		claim.DisabilityElement.String(),
		claim.CarerElement.String(),
		claim.GrossEntitlement.String(),
		claim.TotalEarnings.String(),
		claim.WorkAllowance.String(),
		claim.EarningsDeduction.String(),
		claim.TotalEntitlement.String(),
		claim.CalculatedAt.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to save claim: %w", err)
	}
	return nil
}

const claimColumns = `claim_reference, claimant_type, claimant_age, partner_age, children_json,
	housing_type, bedrooms_needed, monthly_rent, brma_code,
	monthly_earnings, partner_monthly_earnings, has_work_allowance,
	has_childcare_costs, monthly_childcare_costs, has_disability, is_carer,
	assessment_month, tax_year,
	standard_allowance, housing_element, child_element, childcare_element,
	disability_element, carer_element, gross_entitlement, total_earnings,
	work_allowance, earnings_deduction, total_entitlement,
	calculated_at, created_at`

// GetClaim retrieves a stored calculation by reference. Returns (nil, nil)
// when no claim carries the reference.
func (s *Store) GetClaim(ctx context.Context, claimReference string) (*ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+claimColumns+" FROM claims WHERE claim_reference = ?",
		claimReference,
	)
	claim, err := scanClaim(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// ListClaims returns the most recent calculations, newest first.
func (s *Store) ListClaims(ctx context.Context, limit int) ([]ClaimRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+claimColumns+" FROM claims ORDER BY calculated_at DESC, claim_reference LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []ClaimRecord
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, *claim)
	}
	return claims, rows.Err()
}

// CountClaims reports how many calculations have been stored.
func (s *Store) CountClaims(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM claims").Scan(&count)
	return count, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClaim(row scanner) (*ClaimRecord, error) {
	var (
		claim           ClaimRecord
		partnerAge      sql.NullInt64
		childrenJSON    sql.NullString
		brmaCode        sql.NullString
		monthlyRent     string
		earnings        string
		partnerEarnings string
		childcareCosts  string
		assessmentMonth string
		standard        string
		housing         string
		child           string
		childcare       string
		disability      string
		carer           string
		gross           string
		totalEarnings   string
		workAllowance   string
		deduction       string
		total           string
		calculatedAt    string
		createdAt       string
	)

	err := row.Scan(
		&claim.ClaimReference, &claim.ClaimantType, &claim.ClaimantAge, &partnerAge, &childrenJSON,
		&claim.HousingType, &claim.BedroomsNeeded, &monthlyRent, &brmaCode,
		&earnings, &partnerEarnings, &claim.HasWorkAllowance,
		&claim.HasChildcareCosts, &childcareCosts, &claim.HasDisability, &claim.IsCarer,
		&assessmentMonth, &claim.TaxYear,
		&standard, &housing, &child, &childcare,
		&disability, &carer, &gross, &totalEarnings,
		&workAllowance, &deduction, &total,
		&calculatedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	if partnerAge.Valid {
		age := int(partnerAge.Int64)
		claim.PartnerAge = &age
	}
	if childrenJSON.Valid && childrenJSON.String != "" {
		json.Unmarshal([]byte(childrenJSON.String), &claim.Children)
	}
	claim.BRMACode = brmaCode.String
	claim.MonthlyRent = engine.MustParseDecimal(monthlyRent)
	claim.MonthlyEarnings = engine.MustParseDecimal(earnings)
	claim.PartnerMonthlyEarnings = engine.MustParseDecimal(partnerEarnings)
	claim.MonthlyChildcareCosts = engine.MustParseDecimal(childcareCosts)
	claim.AssessmentMonth, _ = time.Parse(time.RFC3339, assessmentMonth)
	claim.StandardAllowance = engine.MustParseDecimal(standard)
	claim.HousingElement = engine.MustParseDecimal(housing)
	claim.ChildElement = engine.MustParseDecimal(child)
	claim.ChildcareElement = engine.MustParseDecimal(childcare)
	claim.DisabilityElement = engine.MustParseDecimal(disability)
	claim.CarerElement = engine.MustParseDecimal(carer)
	claim.GrossEntitlement = engine.MustParseDecimal(gross)
	claim.TotalEarnings = engine.MustParseDecimal(totalEarnings)
	claim.WorkAllowance = engine.MustParseDecimal(workAllowance)
	claim.EarningsDeduction = engine.MustParseDecimal(deduction)
	claim.TotalEntitlement = engine.MustParseDecimal(total)
	claim.CalculatedAt, _ = time.Parse(time.RFC3339, calculatedAt)
	claim.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &claim, nil
}

// =============================================================================
// LHA RATES
// =============================================================================

// LHARateRecord is one BRMA's stored schedule.
type LHARateRecord struct {
	BRMACode       string
	BRMAName       string
	LocalAuthority string
	EffectiveFrom  time.Time
	Studio         decimal.Decimal
	OneBed         decimal.Decimal
	TwoBed         decimal.Decimal
	ThreeBed       decimal.Decimal
	FourBed        decimal.Decimal
	UpdatedAt      time.Time
}

// UpsertLHARate inserts or replaces one BRMA's schedule.
func (s *Store) UpsertLHARate(ctx context.Context, rate LHARateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.upsertLHARate(ctx, s.db, rate)
}

func (s *Store) upsertLHARate(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, rate LHARateRecord) error {
	query := `
		INSERT INTO lha_rates
		(brma_code, brma_name, local_authority, effective_from,
		 studio_rate, one_bed_rate, two_bed_rate, three_bed_rate, four_bed_rate, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(brma_code) DO UPDATE SET
			brma_name = excluded.brma_name,
			local_authority = excluded.local_authority,
			effective_from = excluded.effective_from,
			studio_rate = excluded.studio_rate,
			one_bed_rate = excluded.one_bed_rate,
			two_bed_rate = excluded.two_bed_rate,
			three_bed_rate = excluded.three_bed_rate,
			four_bed_rate = excluded.four_bed_rate,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		rate.BRMACode,
		rate.BRMAName,
		nullString(rate.LocalAuthority),
		rate.EffectiveFrom.Format(time.RFC3339),
		rate.Studio.String(),
		rate.OneBed.String(),
		rate.TwoBed.String(),
		rate.ThreeBed.String(),
		rate.FourBed.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert LHA rate: %w", err)
	}
	return nil
}

// SeedLHARates upserts a whole schedule atomically. Used at startup to
// mirror the configured table into the database.
func (s *Store) SeedLHARates(ctx context.Context, rates []LHARateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, rate := range rates {
		if err := s.upsertLHARate(ctx, sqlTx, rate); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

const lhaColumns = `brma_code, brma_name, local_authority, effective_from,
	studio_rate, one_bed_rate, two_bed_rate, three_bed_rate, four_bed_rate, updated_at`

// GetLHARate retrieves one BRMA's schedule. Returns (nil, nil) when the
// BRMA is not stored.
func (s *Store) GetLHARate(ctx context.Context, brmaCode string) (*LHARateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+lhaColumns+" FROM lha_rates WHERE brma_code = ?",
		brmaCode,
	)
	rate, err := scanLHARate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// ListLHARates returns every stored schedule ordered by BRMA code.
func (s *Store) ListLHARates(ctx context.Context) ([]LHARateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+lhaColumns+" FROM lha_rates ORDER BY brma_code",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []LHARateRecord
	for rows.Next() {
		rate, err := scanLHARate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}

func scanLHARate(row scanner) (*LHARateRecord, error) {
	var (
		rate           LHARateRecord
		localAuthority sql.NullString
		effectiveFrom  string
		studio         string
		oneBed         string
		twoBed         string
		threeBed       string
		fourBed        string
		updatedAt      string
	)

	err := row.Scan(
		&rate.BRMACode, &rate.BRMAName, &localAuthority, &effectiveFrom,
		&studio, &oneBed, &twoBed, &threeBed, &fourBed, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rate.LocalAuthority = localAuthority.String
	rate.EffectiveFrom, _ = time.Parse(time.RFC3339, effectiveFrom)
	rate.Studio = engine.MustParseDecimal(studio)
	rate.OneBed = engine.MustParseDecimal(oneBed)
	rate.TwoBed = engine.MustParseDecimal(twoBed)
	rate.ThreeBed = engine.MustParseDecimal(threeBed)
	rate.FourBed = engine.MustParseDecimal(fourBed)
	rate.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &rate, nil
}

// =============================================================================
// USERS
// =============================================================================

// UserRecord is a stored user. PasswordHash is the bcrypt hash; the clear
// password never reaches the store.
type UserRecord struct {
	ID           int
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns it with the assigned ID.
func (s *Store) CreateUser(ctx context.Context, user UserRecord) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, username, full_name, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		user.Email, user.Username, nullString(user.FullName), user.PasswordHash,
		user.IsActive, now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "users.email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	user.ID = int(id)
	user.CreatedAt = now
	user.UpdatedAt = now
	return &user, nil
}

const userColumns = `id, email, username, full_name, password_hash, is_active, created_at, updated_at`

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (s *Store) GetUser(ctx context.Context, id int) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username. Returns (nil, nil) when absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UpdateUser updates a user's mutable fields. ErrNotFound when the ID does
// not exist; uniqueness violations map to the same sentinels as CreateUser.
func (s *Store) UpdateUser(ctx context.Context, user UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, username = ?, full_name = ?, password_hash = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`,
		user.Email, user.Username, nullString(user.FullName), user.PasswordHash,
		user.IsActive, time.Now().UTC().Format(time.RFC3339), user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "users.email") {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. ErrNotFound when the ID does not exist.
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row scanner) (*UserRecord, error) {
	var (
		user      UserRecord
		fullName  sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &fullName,
		&user.PasswordHash, &user.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName.String
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	user.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &user, nil
}

// =============================================================================
// ITEMS
// =============================================================================

// ItemRecord is a stored item.
type ItemRecord struct {
	ID          int
	Title       string
	Description string
	Price       decimal.Decimal
	OwnerID     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateItem inserts an item and returns it with the assigned ID.
func (s *Store) CreateItem(ctx context.Context, item ItemRecord) (*ItemRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (title, description, price, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		item.Title, nullString(item.Description), item.Price.String(), item.OwnerID,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	item.ID = int(id)
	item.CreatedAt = now
	item.UpdatedAt = now
	return &item, nil
}

const itemColumns = `id, title, description, price, owner_id, created_at, updated_at`

// GetItem retrieves an item by ID. Returns (nil, nil) when absent.
func (s *Store) GetItem(ctx context.Context, id int) (*ItemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns all items ordered by ID.
func (s *Store) ListItems(ctx context.Context) ([]ItemRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+itemColumns+" FROM items ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item. ErrNotFound when the ID does not exist.
func (s *Store) UpdateItem(ctx context.Context, item ItemRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET title = ?, description = ?, price = ?, owner_id = ?, updated_at = ?
		WHERE id = ?
	`,
		item.Title, nullString(item.Description), item.Price.String(), item.OwnerID,
		time.Now().UTC().Format(time.RFC3339), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item. ErrNotFound when the ID does not exist.
func (s *Store) DeleteItem(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row scanner) (*ItemRecord, error) {
	var (
		item        ItemRecord
		description sql.NullString
		price       string
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(
		&item.ID, &item.Title, &description, &price, &item.OwnerID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Description = description.String
	item.Price = engine.MustParseDecimal(price)
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	item.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &item, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
