package repository

import (
	"context"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
)

// PulseRepository is the contract over the backing store for the pulse
// domain: row storage plus the server-enforced procedures (cascading delete,
// operator wipe, owned-plus-joined listing).
//
// Reads return raw rows; liveness filtering against the clock happens in the
// use cases so expiry stays a pure, testable predicate.
type PulseRepository interface {
	// CreatePulse inserts a pulse row. The store's uniqueness constraint on
	// live codes is the only collision handling; a violation surfaces as an
	// error from this call.
	CreatePulse(ctx context.Context, p pulse.Pulse) error

	// GetPulseByCode returns the row for code, or (nil, nil) when absent.
	// Expired rows are still returned; callers decide liveness.
	GetPulseByCode(ctx context.Context, code string) (*pulse.Pulse, error)

	// DeletePulse removes the pulse and, cascading, its memberships and
	// messages. Deleting an unknown code is not an error.
	DeletePulse(ctx context.Context, code string) error

	// AddMembership records a guest link for (code, operator).
	AddMembership(ctx context.Context, m pulse.Membership) error

	// HasMembership reports whether (code, operator) already holds a link.
	HasMembership(ctx context.Context, code, operatorID string) (bool, error)

	// SaveMessage appends a message and returns the store-assigned id.
	SaveMessage(ctx context.Context, m pulse.Message) (string, error)

	// GetMessagesByPulse returns messages for a pulse ordered newest first
	// (created_at DESC, id DESC) honoring limit/offset.
	GetMessagesByPulse(ctx context.Context, code string, limit, offset int) ([]pulse.Message, error)

	// CountMessages reports how many messages a pulse holds.
	CountMessages(ctx context.Context, code string) (int, error)

	// ListPulsesByOperator returns every pulse the operator created or
	// joined, deduplicated by code. Expired rows may be included.
	ListPulsesByOperator(ctx context.Context, operatorID string) ([]pulse.Pulse, error)

	// DeletePulsesByCreator cascades deletion of every pulse the operator
	// created. Part of the panic protocol.
	DeletePulsesByCreator(ctx context.Context, operatorID string) error
}
