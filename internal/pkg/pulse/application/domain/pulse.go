package pulse

import (
	"strings"
	"time"
)

// DurationPreset selects how long a pulse stays live after creation.
type DurationPreset string

const (
	DurationShort  DurationPreset = "short"  // 1 hour
	DurationMedium DurationPreset = "medium" // 24 hours
	DurationLong   DurationPreset = "long"   // 7 days
)

// TTL maps a preset to its lifetime. Unknown presets report ErrUnknownPreset.
func (p DurationPreset) TTL() (time.Duration, error) {
	switch p {
	case DurationShort:
		return time.Hour, nil
	case DurationMedium:
		return 24 * time.Hour, nil
	case DurationLong:
		return 168 * time.Hour, nil
	default:
		return 0, ErrUnknownPreset
	}
}

// Pulse is an ephemeral chat channel identified by a short code.
//
// Lifecycle: CREATED -> LIVE (while now < ExpiresAt) -> EXPIRED -> DELETED.
// EXPIRED is derived from the clock, never persisted; every read path must
// treat an expired row as nonexistent. DELETED is terminal.
type Pulse struct {
	Code      string    `db:"pulse_code"`
	CreatorID string    `db:"creator_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Live reports whether the pulse is still readable at the given instant.
func (p Pulse) Live(now time.Time) bool {
	return now.Before(p.ExpiresAt)
}

// Role of an operator relative to a pulse.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// RoleOf derives the operator's role for a pulse. This is the single place
// the host comparison lives; consumers carry the result as data instead of
// re-checking creator identity inline.
func RoleOf(p Pulse, operatorID string) Role {
	if SameOperator(p.CreatorID, operatorID) {
		return RoleHost
	}
	return RoleGuest
}

// SameOperator compares two operator identities. Nicknames are self-asserted
// and case-insensitive.
func SameOperator(a, b string) bool {
	return strings.EqualFold(a, b)
}
