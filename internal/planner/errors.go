package planner

import (
	"errors"
	"fmt"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// Sentinel errors for planner failures. Every one of them is fatal for the tick that
// raised it; the planner never retries and never substitutes a fallback action.
var (
	// ErrMissingConfiguration indicates the phase or scorer was not set before the
	// first decision.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrMissingExplorationRate indicates the train phase is active without an
	// exploration probability.
	ErrMissingExplorationRate = errors.New("missing exploration rate")

	// ErrScorerFailure wraps any failure of the external scorer, including a result
	// batch of the wrong size.
	ErrScorerFailure = errors.New("scorer failure")

	// ErrForecastFailure wraps a failure of the neighbor forecaster.
	ErrForecastFailure = errors.New("forecast failure")

	ErrInvalidStateKind = kinematics.ErrInvalidStateKind
	ErrNoNeighbors      = state.ErrNoNeighbors
)

// Error kinds.
const (
	KindConfiguration = "configuration"
	KindValidation    = "validation"
	KindExecution     = "execution"
)

// Error records the planner operation that failed and the category of failure.
// It unwraps to the underlying sentinel so errors.Is works on either.
type Error struct {
	Op   string
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("planner: %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, kind string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
