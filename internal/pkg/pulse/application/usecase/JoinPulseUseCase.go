package usecase

import (
	"context"
	"fmt"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// JoinPulseInput carries a guest's request to link into a pulse by code.
type JoinPulseInput struct {
	OperatorID string
	Code       string
}

// JoinPulseUseCase enforces the membership rules, in order, with no partial
// side effects on failure:
//
//  1. the code must resolve to a live pulse        -> ErrSignalLost
//  2. the operator must not be the pulse's host    -> ErrSelfJoin
//  3. the operator must not already hold a link    -> ErrAlreadyConnected
//
// The ordering is deliberate: existence is checked before identity before
// duplication, so a duplicate joiner never learns more than they already
// know and the most actionable error always wins.
type JoinPulseUseCase struct {
	Repo repository.PulseRepository
}

func NewJoinPulseUseCase(repo repository.PulseRepository) *JoinPulseUseCase {
	return &JoinPulseUseCase{Repo: repo}
}

func (uc *JoinPulseUseCase) Execute(ctx context.Context, in JoinPulseInput) (*pulse.Membership, error) {
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

	if pulse.SameOperator(p.CreatorID, in.OperatorID) {
		return nil, pulse.ErrSelfJoin
	}

	linked, err := uc.Repo.HasMembership(ctx, code, in.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if linked {
		return nil, pulse.ErrAlreadyConnected
	}

	m := pulse.Membership{
		PulseCode:  code,
		OperatorID: in.OperatorID,
		JoinedAt:   now,
	}
	if err := uc.Repo.AddMembership(ctx, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &m, nil
}
