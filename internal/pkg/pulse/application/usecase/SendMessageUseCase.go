package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// SendMessageInput carries the data to append a message to a pulse.
type SendMessageInput struct {
	Code    string
	Sender  string
	Content string
}

// SendMessageUseCase appends a message to a live pulse.
//
// Empty or whitespace-only content is a silent no-op: (nil, nil), nothing
// persisted. The sender must be the host or hold a membership; anyone else
// gets ErrAccessDenied. Delivery back to subscribers happens on the push
// path, so the caller must not insert the returned message a second time.
type SendMessageUseCase struct {
	Repo repository.PulseRepository
}

func NewSendMessageUseCase(repo repository.PulseRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*pulse.Message, error) {
	if in.Sender == "" {
		return nil, fmt.Errorf("sender is required")
	}
	code, err := pulse.ParseCode(in.Code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	msg, err := pulse.NewMessage(code, in.Sender, in.Content, now)
	if errors.Is(err, pulse.ErrEmptyMessage) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := uc.Repo.GetPulseByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if p == nil || !p.Live(now) {
		return nil, pulse.ErrSignalLost
	}

	if pulse.RoleOf(*p, in.Sender) != pulse.RoleHost {
		linked, err := uc.Repo.HasMembership(ctx, code, in.Sender)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !linked {
			return nil, pulse.ErrAccessDenied
		}
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}
