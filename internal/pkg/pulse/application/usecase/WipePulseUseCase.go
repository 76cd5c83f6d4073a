package usecase

import (
	"context"
	"fmt"

	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// WipePulseInput carries a host's request to destroy a single pulse.
type WipePulseInput struct {
	Code        string
	RequesterID string
}

// WipePulseUseCase is the host-only destructive half of the panic protocol.
// A non-host requester gets ErrAccessDenied and the pulse stays intact. The
// host check here is a UX correctness property; the store's own procedures
// are the actual security boundary.
//
// Wiping an already-gone code succeeds: the requester wanted it gone and it
// is.
type WipePulseUseCase struct {
	Repo   repository.PulseRepository
	Delete *DeletePulseUseCase
}

func NewWipePulseUseCase(repo repository.PulseRepository, cache cport.Cache) *WipePulseUseCase {
	return &WipePulseUseCase{
		Repo:   repo,
		Delete: NewDeletePulseUseCase(repo, cache),
	}
}

func (uc *WipePulseUseCase) Execute(ctx context.Context, in WipePulseInput) error {
	if in.RequesterID == "" {
		return fmt.Errorf("requester_id is required")
	}
	code, err := pulse.ParseCode(in.Code)
	if err != nil {
		return err
	}

	p, err := uc.Repo.GetPulseByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if p == nil {
		return nil
	}

	// Authorization is checked against the raw row even when it has already
	// expired, so a guest can never reap someone else's leftovers.
	if pulse.RoleOf(*p, in.RequesterID) != pulse.RoleHost {
		return pulse.ErrAccessDenied
	}

	return uc.Delete.Execute(ctx, DeletePulseInput{Code: code})
}
