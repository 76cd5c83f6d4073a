package pulse

import "time"

// Membership links a guest operator to a pulse they joined.
// Primary key: (PulseCode, OperatorID). A host never holds a membership in
// their own pulse, and a membership only exists while the pulse is live.
type Membership struct {
	PulseCode  string    `db:"pulse_code"`
	OperatorID string    `db:"operator_id"`
	JoinedAt   time.Time `db:"joined_at"`
}
