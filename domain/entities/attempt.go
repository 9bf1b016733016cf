package entities

import "time"

// Mechanism names how an action was delivered to an element
type Mechanism string

const (
	MechanismNative  Mechanism = "native"
	MechanismScript  Mechanism = "script"
	MechanismPointer Mechanism = "pointer"
)

// AttemptResult is the outcome of locating and acting on one role
type AttemptResult struct {
	Role      Role          `json:"role"`
	Succeeded bool          `json:"succeeded"`
	Strategy  string        `json:"strategy,omitempty"`
	Mechanism Mechanism     `json:"mechanism,omitempty"`
	Attempts  int           `json:"attempts"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       error         `json:"-"`
}
