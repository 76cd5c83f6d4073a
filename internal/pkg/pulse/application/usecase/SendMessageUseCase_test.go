package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pulse "github.com/Backora/pulse-app/internal/pkg/pulse/application/domain"
)

func TestSendMessageAsHost(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	uc := NewSendMessageUseCase(repo)

	msg, err := uc.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "host-1", Content: "  hello  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" {
		t.Error("saved message should carry the store-assigned id")
	}
	if msg.Content != "hello" {
		t.Errorf("content = %q, want trimmed %q", msg.Content, "hello")
	}

	n, _ := repo.CountMessages(context.Background(), "AB-CD-EF")
	if n != 1 {
		t.Errorf("message count = %d, want 1", n)
	}
}

func TestSendMessageAsMember(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	join := NewJoinPulseUseCase(repo)
	if _, err := join.Execute(context.Background(), JoinPulseInput{OperatorID: "guest-1", Code: "AB-CD-EF"}); err != nil {
		t.Fatal(err)
	}
	uc := NewSendMessageUseCase(repo)

	if _, err := uc.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "guest-1", Content: "hi"}); err != nil {
		t.Fatalf("member send: %v", err)
	}
}

func TestSendMessageWhitespaceNoOp(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	uc := NewSendMessageUseCase(repo)

	for _, content := range []string{"", "   ", "\t\n"} {
		msg, err := uc.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "host-1", Content: content})
		if err != nil {
			t.Errorf("content %q: unexpected error: %v", content, err)
		}
		if msg != nil {
			t.Errorf("content %q: expected silent no-op, got %+v", content, msg)
		}
	}

	n, _ := repo.CountMessages(context.Background(), "AB-CD-EF")
	if n != 0 {
		t.Errorf("message count = %d, want 0 after no-op sends", n)
	}
}

func TestSendMessageOutsider(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "stranger", Content: "hi"})
	if !errors.Is(err, pulse.ErrAccessDenied) {
		t.Fatalf("error = %v, want ErrAccessDenied", err)
	}

	n, _ := repo.CountMessages(context.Background(), "AB-CD-EF")
	if n != 0 {
		t.Errorf("rejected send persisted a message (count = %d)", n)
	}
}

func TestSendMessageExpiredPulse(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC().Add(-2*time.Hour), time.Hour)
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "host-1", Content: "hi"})
	if !errors.Is(err, pulse.ErrSignalLost) {
		t.Fatalf("error = %v, want ErrSignalLost", err)
	}
}

// Messages sent in order must read back in the same order.
func TestSendMessagePreservesOrder(t *testing.T) {
	repo := newFakePulseRepository()
	repo.seedPulse("AB-CD-EF", "host-1", time.Now().UTC(), time.Hour)
	send := NewSendMessageUseCase(repo)
	read := NewGetMessageUseCase(repo)

	const n = 20
	for i := 0; i < n; i++ {
		content := fmt.Sprintf("message %02d", i)
		if _, err := send.Execute(context.Background(), SendMessageInput{Code: "AB-CD-EF", Sender: "host-1", Content: content}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	msgs, err := read.Execute(context.Background(), GetMessageInput{Code: "AB-CD-EF", Limit: n})
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != n {
		t.Fatalf("got %d messages, want %d", len(msgs), n)
	}
	for i, m := range msgs {
		want := fmt.Sprintf("message %02d", i)
		if m.Content != want {
			t.Fatalf("position %d: content = %q, want %q", i, m.Content, want)
		}
	}
}
