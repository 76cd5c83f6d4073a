package repository

import (
	"context"
	"time"
)

// Operator is a self-asserted display identity. No credentials: uniqueness
// is advisory and re-registering the same nickname reuses the identity.
type Operator struct {
	ID           string    `db:"operator_id"`
	RegisteredAt time.Time `db:"registered_at"`
}

// OperatorRepository is the contract over operator profile rows.
type OperatorRepository interface {
	// Register upserts the operator identity.
	Register(ctx context.Context, id string) (*Operator, error)

	// FindByID returns the operator, or (nil, nil) when unknown.
	FindByID(ctx context.Context, id string) (*Operator, error)

	// Delete removes the operator profile. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error
}
