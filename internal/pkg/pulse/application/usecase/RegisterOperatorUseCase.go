package usecase

import (
	"context"
	"fmt"
	"strings"

	operators "github.com/Backora/pulse-app/internal/repository/port"
)

// RegisterOperatorInput carries the self-asserted nickname.
type RegisterOperatorInput struct {
	OperatorID string
}

// RegisterOperatorUseCase records a display identity. Identities carry no
// credentials; re-registering the same nickname reuses it.
type RegisterOperatorUseCase struct {
	Operators operators.OperatorRepository
}

func NewRegisterOperatorUseCase(ops operators.OperatorRepository) *RegisterOperatorUseCase {
	return &RegisterOperatorUseCase{Operators: ops}
}

func (uc *RegisterOperatorUseCase) Execute(ctx context.Context, in RegisterOperatorInput) (*operators.Operator, error) {
	id := strings.TrimSpace(in.OperatorID)
	if id == "" {
		return nil, fmt.Errorf("operator_id is required")
	}

	op, err := uc.Operators.Register(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return op, nil
}
