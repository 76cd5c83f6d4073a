package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
)

func TestJoinPulse(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	uc := NewJoinPulseUseCase(repo)

	m, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "ab cd ef"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.PulseCode != "AB-CD-EF" || m.OperatorID != "guest-1" {
		t.Errorf("unexpected membership: %+v", m)
	}

	linked, err := repo.HasMembership(context.Background(), "AB-CD-EF", "guest-1")
	if err != nil || !linked {
		t.Fatalf("membership not persisted (linked=%v, err=%v)", linked, err)
	}
}

func TestJoinPulseUnknownCode(t *testing.T) {
	uc := NewJoinPulseUseCase(newFakePulseRepository())

	_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "ZZ-ZZ-ZZ"})
	if !errors.Is(err, pulse.ErrSignalLost) {
		t.Fatalf("error = %v, want ErrSignalLost", err)
	}
}

func TestJoinPulseExpired(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC().Add(-2*time.Hour), time.Hour)
	uc := NewJoinPulseUseCase(repo)

	_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "AB-CD-EF"})
	if !errors.Is(err, pulse.ErrSignalLost) {
		t.Fatalf("error = %v, want ErrSignalLost for expired pulse", err)
	}
}

func TestJoinPulseSelfJoin(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "Host-1", time.Now().UTC(), time.Hour)
	uc := NewJoinPulseUseCase(repo)

	// Identity comparison is case-insensitive.
	for _, id := range []string{"Host-1", "host-1", "HOST-1"} {
		_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: id, Code: "AB-CD-EF"})
		if !errors.Is(err, pulse.ErrSelfJoin) {
			t.Errorf("operator %q: error = %v, want ErrSelfJoin", id, err)
		}
	}

	linked, _ := repo.HasMembership(context.Background(), "AB-CD-EF", "host-1")
	if linked {
		t.Error("a rejected self-join must leave no membership behind")
	}
}

func TestJoinPulseAlreadyConnected(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	uc := NewJoinPulseUseCase(repo)

	if _, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "AB-CD-EF"}); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "Guest-1", Code: "AB-CD-EF"})
	if !errors.Is(err, pulse.ErrAlreadyConnected) {
		t.Fatalf("second join: error = %v, want ErrAlreadyConnected", err)
	}
}

// An expired pulse the operator created must report ErrSignalLost, not
// ErrSelfJoin: existence is checked before identity.
func TestJoinPulseErrorOrdering(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC().Add(-2*time.Hour), time.Hour)
	uc := NewJoinPulseUseCase(repo)

	_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "host-1", Code: "AB-CD-EF"})
	if !errors.Is(err, pulse.ErrSignalLost) {
		t.Fatalf("error = %v, want ErrSignalLost to win over ErrSelfJoin", err)
	}
}

func TestJoinPulseInvalidCode(t *testing.T) {
	uc := NewJoinPulseUseCase(newFakePulseRepository())

	_, err := uc.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "nope"})
	if !errors.Is(err, pulse.ErrInvalidCode) {
		t.Fatalf("error = %v, want ErrInvalidCode", err)
	}
}
