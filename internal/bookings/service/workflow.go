package service

import "fmt"

// State is the phase of one confirmation attempt. An attempt either
// walks the happy path to StateDone or drops to StateFailed; there is
// no way back out of either terminal state.
type State string

const (
	StateEditing            State = "editing"
	StateValidating         State = "validating"
	StatePricingAndSettling State = "pricing_and_settling"
	StateCommitting         State = "committing"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// AllowTransition is the confirmation state machine as a directed graph.
var AllowTransition = map[State][]State{
	StateEditing:            {StateValidating},
	StateValidating:         {StatePricingAndSettling, StateFailed},
	StatePricingAndSettling: {StateCommitting, StateFailed},
	StateCommitting:         {StateDone, StateFailed},
	StateDone:               {},
	StateFailed:             {},
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// attempt tracks the state of a single in-flight confirmation.
type attempt struct {
	state State
}

func newAttempt() *attempt {
	return &attempt{state: StateEditing}
}

func (a *attempt) advance(to State) error {
	if !CanTransition(a.state, to) {
		return fmt.Errorf("invalid confirmation transition: %s -> %s", a.state, to)
	}
	a.state = to
	return nil
}

// fail moves the attempt to the terminal failed state. Safe to call
// from any non-terminal phase.
func (a *attempt) fail() {
	if a.state != StateDone {
		a.state = StateFailed
	}
}
