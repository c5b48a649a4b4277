/*
Package auth issues and verifies the bearer tokens protecting the admin
surface, and owns the password rules for the user scaffold.

PURPOSE:
  Keep all credential handling in one place. The API layer only ever sees
  "issue a token for this subject" and "which subject does this request
  carry" - signing keys, hashing costs and claim shapes stay here.

TOKENS:
  HS256-signed JWTs with sub, iat and exp claims. The secret comes from
  configuration; when it is empty the protected routes answer 503 rather
  than silently accepting unsigned requests.

PASSWORDS:
  bcrypt with the default cost. Only hashes are stored. Strength and
  username rules are enforced before hashing so the store never holds a
  credential that could not be created through the API.

USAGE:
  token, err := auth.IssueToken(secret, username, 30*time.Minute)
  subject, err := auth.ParseToken(secret, token)

  router.Group(func(r chi.Router) {
      r.Use(auth.Middleware(secret))
      r.Post("/api/admin/lha-rates", handler.UpsertLHARate)
  })

SEE ALSO:
  - api/handlers.go: Token endpoint and protected routes
  - store/sqlite/sqlite.go: Where password hashes live
*/
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidToken is returned for malformed, unsigned or tampered tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's exp claim has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrMissingSubject is returned when a valid token carries no sub claim.
	ErrMissingSubject = errors.New("token has no subject")
)

// =============================================================================
// TOKEN ISSUE / VERIFY
// =============================================================================

// IssueToken signs an HS256 JWT for the subject, valid for ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and returns the sub claim.
func ParseToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}

// =============================================================================
// HTTP MIDDLEWARE
// =============================================================================

type contextKey string

const subjectKey contextKey = "auth.subject"

// SubjectFromContext returns the authenticated subject set by Middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// Middleware enforces a Bearer token on every request it wraps. With an
// empty secret the protected surface is disabled and answers 503.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeAuthError(w, http.StatusServiceUnavailable, "authentication is not configured")
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				writeAuthError(w, http.StatusUnauthorized, "authorization header must use the Bearer scheme")
				return
			}

			subject, err := ParseToken(secret, tokenString)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
