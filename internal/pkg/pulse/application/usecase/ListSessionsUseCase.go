package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// ListSessionsInput identifies the operator whose catalog is requested.
type ListSessionsInput struct {
	OperatorID string
}

// PulseSummary is a catalog row: the pulse plus the operator's derived role,
// so consumers decide host-only affordances from data instead of re-deriving
// the creator comparison.
type PulseSummary struct {
	Pulse pulse.Pulse
	Role  pulse.Role
}

// ListSessionsUseCase aggregates the pulses visible to an operator: owned
// plus joined, live only, deduplicated by code, newest first.
type ListSessionsUseCase struct {
	Repo repository.PulseRepository
}

func NewListSessionsUseCase(repo repository.PulseRepository) *ListSessionsUseCase {
	return &ListSessionsUseCase{Repo: repo}
}

func (uc *ListSessionsUseCase) Execute(ctx context.Context, in ListSessionsInput) ([]PulseSummary, error) {
	if in.OperatorID == "" {
		return nil, fmt.Errorf("operator_id is required")
	}

	rows, err := uc.Repo.ListPulsesByOperator(ctx, in.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	now := time.Now().UTC()
	seen := make(map[string]struct{}, len(rows))
	summaries := make([]PulseSummary, 0, len(rows))
	for _, p := range rows {
		if !p.Live(now) {
			continue
		}
		if _, dup := seen[p.Code]; dup {
			continue
		}
		seen[p.Code] = struct{}{}
		summaries = append(summaries, PulseSummary{
			Pulse: p,
			Role:  pulse.RoleOf(p, in.OperatorID),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].Pulse, summaries[j].Pulse
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return strings.Compare(a.Code, b.Code) < 0
	})
	return summaries, nil
}
