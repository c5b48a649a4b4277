/*
reference.go - Claim reference generation

PURPOSE:
  Every persisted calculation is keyed by a short human-quotable reference
  ("UC-3F9A21BC"). References are minted by the persistence edge, one per
  stored breakdown; Calculate itself never generates one, which keeps the
  arithmetic referentially transparent.

SEE ALSO:
  - api/handlers.go: Assigns a reference before writing the audit row
  - store/sqlite: Enforces reference uniqueness
*/
package engine

import (
	"strings"

	"github.com/google/uuid"
)

// ClaimReferencePrefix prefixes every generated claim reference.
const ClaimReferencePrefix = "UC-"

// NewClaimReference returns a fresh reference: the prefix plus the first
// eight hex digits of a random UUID, uppercased.
func NewClaimReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return ClaimReferencePrefix + strings.ToUpper(raw[:8])
}

// ValidClaimReference reports whether s looks like a generated reference.
// Used to reject obviously malformed lookups before touching the store.
func ValidClaimReference(s string) bool {
	if !strings.HasPrefix(s, ClaimReferencePrefix) {
		return false
	}
	suffix := strings.TrimPrefix(s, ClaimReferencePrefix)
	if len(suffix) != 8 {
		return false
	}
	for _, r := range suffix {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return true
}
