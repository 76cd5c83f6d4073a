package pulse

import "errors"

// Domain-level errors. Validation outcomes are decided locally and surfaced
// as typed values; transport faults are wrapped separately at the use case
// boundary.
var (
	ErrSignalLost       = errors.New("pulse: signal not found or expired")
	ErrSelfJoin         = errors.New("pulse: operator is already the host of this signal")
	ErrAlreadyConnected = errors.New("pulse: operator already holds a link to this signal")
	ErrAccessDenied     = errors.New("pulse: action requires host privileges")
	ErrInvalidCode      = errors.New("pulse: code must match the XX-XX-XX format")
	ErrEmptyMessage     = errors.New("pulse: message content is empty")
	ErrUnknownPreset    = errors.New("pulse: unknown duration preset")
)
