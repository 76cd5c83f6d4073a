package usecase

import (
	"context"
	"fmt"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// CreatePulseInput carries the data to open a new pulse.
type CreatePulseInput struct {
	CreatorID string
	Preset    pulse.DurationPreset
}

// CreatePulseUseCase opens a new time-boxed pulse and makes the creator its
// host. A single code-generation attempt is issued; the store's uniqueness
// constraint on live codes turns a collision into a creation failure.
type CreatePulseUseCase struct {
	Repo repository.PulseRepository
}

func NewCreatePulseUseCase(repo repository.PulseRepository) *CreatePulseUseCase {
	return &CreatePulseUseCase{Repo: repo}
}

func (uc *CreatePulseUseCase) Execute(ctx context.Context, in CreatePulseInput) (*pulse.Pulse, error) {
	if in.CreatorID == "" {
		return nil, fmt.Errorf("creator_id is required")
	}
	ttl, err := in.Preset.TTL()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := pulse.Pulse{
		Code:      pulse.GenerateCode(),
		CreatorID: in.CreatorID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := uc.Repo.CreatePulse(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &p, nil
}
