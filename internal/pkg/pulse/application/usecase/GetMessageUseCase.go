package usecase

import (
	"context"
	"fmt"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// GetMessageInput selects a page of a pulse's history.
type GetMessageInput struct {
	Code   string
	Limit  int
	Offset int
}

// GetMessageUseCase fetches message history for a live pulse.
//
// The store orders newest first; this use case reverses each page so the
// one canonical direction exposed to consumers is chronological (oldest
// first). Offset still counts from the newest message, so offset 0 is
// always the most recent page.
type GetMessageUseCase struct {
	Repo repository.PulseRepository
}

func NewGetMessageUseCase(repo repository.PulseRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Repo: repo}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) ([]pulse.Message, error) {
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

	msgs, err := uc.Repo.GetMessagesByPulse(ctx, code, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
