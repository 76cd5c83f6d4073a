package pulse

import (
	"strings"
	"time"
)

// Message is an immutable, append-only log entry inside a pulse.
// Within a pulse, messages are totally ordered by CreatedAt with ID as
// tie-break; the canonical direction everywhere in this codebase is
// chronological (oldest first).
type Message struct {
	ID        string    `db:"id"`
	PulseCode string    `db:"pulse_code"`
	Sender    string    `db:"sender"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// NewMessage validates and shapes a message ready to persist.
// Content is trimmed; whitespace-only content yields ErrEmptyMessage so the
// caller can turn the send into a no-op.
func NewMessage(code, sender, content string, now time.Time) (*Message, error) {
	if code == "" || sender == "" {
		return nil, ErrSignalLost
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}

	if now.IsZero() {
		now = time.Now().UTC()
	}

	return &Message{
		PulseCode: code,
		Sender:    sender,
		Content:   trimmed,
		CreatedAt: now,
	}, nil
}
