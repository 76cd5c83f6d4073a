package usecase

import (
	"context"
	"fmt"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// AttachStreamInput validates a request to subscribe an operator's session
// to a pulse's live message stream.
type AttachStreamInput struct {
	Code       string
	OperatorID string
}

// AttachStreamUseCase ensures the operator may listen to the pulse before
// the realtime room subscription is opened: the pulse must be live and the
// operator must be its host or hold a membership.
type AttachStreamUseCase struct {
	Repo repository.PulseRepository
}

func NewAttachStreamUseCase(repo repository.PulseRepository) *AttachStreamUseCase {
	return &AttachStreamUseCase{Repo: repo}
}

func (uc *AttachStreamUseCase) Execute(ctx context.Context, in AttachStreamInput) (*pulse.Pulse, error) {
	if in.OperatorID == "" {
		return nil, fmt.Errorf("operator_id is required")
	}
	code, err := pulse.ParseCode(in.Code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p, err := uc.Repo.GetPulseByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if p == nil || !p.Live(now) {
		return nil, pulse.ErrSignalLost
	}

	if pulse.RoleOf(*p, in.OperatorID) == pulse.RoleHost {
		return p, nil
	}

	linked, err := uc.Repo.HasMembership(ctx, code, in.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !linked {
		return nil, pulse.ErrAccessDenied
	}
	return p, nil
}
