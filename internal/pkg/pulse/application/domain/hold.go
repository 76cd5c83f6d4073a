package pulse

import "time"

// HoldTimer models the press-and-hold confirmation required before a wipe.
// The gesture must be sustained for the full threshold; releasing early
// cancels with zero effect and resets progress. Completion fires once.
//
// This is the canonical gesture logic for clients to run: the server does
// not track hold progress itself, it accepts the completed gesture as the
// confirm=true marker on the wipe endpoints.
//
// The timer is driven by the caller's clock (explicit now arguments), so it
// has no goroutines and nothing to leak on teardown.
type HoldTimer struct {
	threshold time.Duration
	pressedAt time.Time
	pressed   bool
	completed bool
}

// NewHoldTimer builds a timer that confirms after threshold of sustained
// pressure. Non-positive thresholds are clamped to a deliberate minimum so a
// misconfigured caller cannot turn the wipe into a single tap.
func NewHoldTimer(threshold time.Duration) *HoldTimer {
	if threshold <= 0 {
		threshold = 2 * time.Second
	}
	return &HoldTimer{threshold: threshold}
}

// Press starts (or restarts) the countdown. Pressing while already pressed
// restarts from zero.
func (h *HoldTimer) Press(now time.Time) {
	if h.completed {
		return
	}
	h.pressed = true
	h.pressedAt = now
}

// Progress reports how much of the threshold has elapsed, in [0, 1].
func (h *HoldTimer) Progress(now time.Time) float64 {
	if h.completed {
		return 1
	}
	if !h.pressed {
		return 0
	}
	held := now.Sub(h.pressedAt)
	if held <= 0 {
		return 0
	}
	if held >= h.threshold {
		return 1
	}
	return float64(held) / float64(h.threshold)
}

// Release ends the gesture. It returns true exactly once, when the press was
// sustained for the full threshold; any earlier release resets the timer.
func (h *HoldTimer) Release(now time.Time) bool {
	if h.completed || !h.pressed {
		h.pressed = false
		return false
	}
	h.pressed = false
	if now.Sub(h.pressedAt) >= h.threshold {
		h.completed = true
		return true
	}
	h.pressedAt = time.Time{}
	return false
}

// Completed reports whether the gesture has already confirmed.
func (h *HoldTimer) Completed() bool {
	return h.completed
}
