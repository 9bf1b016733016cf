package entities

import "time"

// Timing holds every wait bound used while driving the console
type Timing struct {
	// PollInterval is the period of poll-until-condition waits.
	PollInterval time.Duration
	// ElementTimeout bounds waiting for an element to become present and visible.
	ElementTimeout time.Duration
	// VerifyTimeout bounds waiting for the location to leave the login view.
	VerifyTimeout time.Duration
	// ReloadSettle is the pause after a page reload.
	ReloadSettle time.Duration
	// ActionSettle is the pause after a click that triggers an animated transition.
	ActionSettle time.Duration
	// DropdownSettle is the pause for a dropdown list to render.
	DropdownSettle time.Duration
	// ScrollSettle is the pause after scrolling a dropdown list.
	ScrollSettle time.Duration
	// CyclePause is the pause between two authorization cycles.
	CyclePause time.Duration
}

// DefaultTiming - returns the timing used against the live console
func DefaultTiming() Timing {
	return Timing{
		PollInterval:   250 * time.Millisecond,
		ElementTimeout: 15 * time.Second,
		VerifyTimeout:  5 * time.Second,
		ReloadSettle:   2 * time.Second,
		ActionSettle:   500 * time.Millisecond,
		DropdownSettle: 300 * time.Millisecond,
		ScrollSettle:   100 * time.Millisecond,
		CyclePause:     3 * time.Second,
	}
}
