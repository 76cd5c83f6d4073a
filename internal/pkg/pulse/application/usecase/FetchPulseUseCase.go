package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cport "github.com/Backora/pulse-app/internal/infrastructure/cache/port"
	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
	repository "github.com/Backora/pulse-app/internal/pkg/pulse/persistence/repository/port"
)

// FetchPulseInput identifies the pulse to resolve. Code may be raw user
// input; it is normalized before lookup.
type FetchPulseInput struct {
	Code string
}

// FetchPulseUseCase resolves a code to a live pulse. Expired rows are
// reported as ErrSignalLost even while they still exist in the store: expiry
// is a read-side predicate, never a deletion.
//
// Cache is optional; when present, live pulses are cached under their code
// with a TTL clamped to the time left before expiry, so a stale entry can
// never outlive its pulse.
type FetchPulseUseCase struct {
	Repo  repository.PulseRepository
	Cache cport.Cache
}

func NewFetchPulseUseCase(repo repository.PulseRepository, cache cport.Cache) *FetchPulseUseCase {
	return &FetchPulseUseCase{Repo: repo, Cache: cache}
}

func (uc *FetchPulseUseCase) Execute(ctx context.Context, in FetchPulseInput) (*pulse.Pulse, error) {
	code, err := pulse.ParseCode(in.Code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if p := uc.cached(ctx, code); p != nil {
		if !p.Live(now) {
			return nil, pulse.ErrSignalLost
		}
		return p, nil
	}

	p, err := uc.Repo.GetPulseByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if p == nil || !p.Live(now) {
		return nil, pulse.ErrSignalLost
	}

	uc.remember(ctx, *p, now)
	return p, nil
}

func (uc *FetchPulseUseCase) cached(ctx context.Context, code string) *pulse.Pulse {
	if uc.Cache == nil {
		return nil
	}
	raw, err := uc.Cache.Get(ctx, cacheKey(code))
	if err != nil {
		// Misses and cache faults both fall through to the store.
		if !errors.Is(err, cport.ErrMiss) {
			return nil
		}
		return nil
	}
	var p pulse.Pulse
	if json.Unmarshal([]byte(raw), &p) != nil {
		return nil
	}
	return &p
}

func (uc *FetchPulseUseCase) remember(ctx context.Context, p pulse.Pulse, now time.Time) {
	if uc.Cache == nil {
		return
	}
	ttl := p.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return
	}
	if raw, err := json.Marshal(p); err == nil {
		// Best effort; a failed cache write never fails the fetch.
		_ = uc.Cache.Set(ctx, cacheKey(p.Code), string(raw), ttl)
	}
}

func cacheKey(code string) string {
	return "pulse:" + code
}
