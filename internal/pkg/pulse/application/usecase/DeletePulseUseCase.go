package usecase

import (
	"context"
	"fmt"

	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// DeletePulseInput identifies the pulse to remove.
type DeletePulseInput struct {
	Code string
}

// DeletePulseUseCase cascades removal of a pulse with its memberships and
// messages. Idempotent: deleting an unknown code succeeds. Authorization is
// not checked here; the panic protocol wraps this use case with the host
// check.
type DeletePulseUseCase struct {
	Repo  repository.PulseRepository
	Cache cport.Cache
}

func NewDeletePulseUseCase(repo repository.PulseRepository, cache cport.Cache) *DeletePulseUseCase {
	return &DeletePulseUseCase{Repo: repo, Cache: cache}
}

func (uc *DeletePulseUseCase) Execute(ctx context.Context, in DeletePulseInput) error {
	code, err := pulse.ParseCode(in.Code)
	if err != nil {
		return err
	}

	if err := uc.Repo.DeletePulse(ctx, code); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, cacheKey(code))
	}
	return nil
}
