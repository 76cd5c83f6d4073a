package usecase

import (
	"context"
	"fmt"

	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
	operators "github.com/Backora/pulse-app/internal/repository/port"
)

// WipeOperatorInput identifies the operator burning everything they made.
type WipeOperatorInput struct {
	OperatorID string
}

// WipeOperatorUseCase is the self-service half of the panic protocol: every
// pulse the operator created is cascaded away, then the profile itself. The
// caller is expected to drop into the unauthenticated state afterwards
// whether or not this returns an error.
type WipeOperatorUseCase struct {
	Pulses    repository.PulseRepository
	Operators operators.OperatorRepository
}

func NewWipeOperatorUseCase(pulses repository.PulseRepository, ops operators.OperatorRepository) *WipeOperatorUseCase {
	return &WipeOperatorUseCase{Pulses: pulses, Operators: ops}
}

func (uc *WipeOperatorUseCase) Execute(ctx context.Context, in WipeOperatorInput) error {
	if in.OperatorID == "" {
		return fmt.Errorf("operator_id is required")
	}

	if err := uc.Pulses.DeletePulsesByCreator(ctx, in.OperatorID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if uc.Operators != nil {
		if err := uc.Operators.Delete(ctx, in.OperatorID); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}
