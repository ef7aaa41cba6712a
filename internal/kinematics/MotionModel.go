// Package kinematics defines the one-step motion models used by the planner to look
// ahead: how the ego agent moves under a candidate action and how neighbors are
// extrapolated.
//
// Positions are in metres, velocities in m/s, headings and turn rates in radians, and
// time in seconds.
package kinematics

import (
	"errors"
	"fmt"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// DefaultTimeStep is the nominal tick used when a caller leaves dt unset.
const DefaultTimeStep = 0.2

var (
	// ErrInvalidStateKind is returned when propagation is given a state variant it
	// does not recognise.
	ErrInvalidStateKind = errors.New("invalid state kind")

	// ErrInvalidAction is returned for a nil action or one from another mode.
	ErrInvalidAction = errors.New("invalid action")
)

// MotionModel is the propagation contract used by the planner.
type MotionModel interface {
	// Mode returns the kinematic mode ego actions are interpreted under.
	Mode() Mode

	// Propagate advances agent by dt seconds. A FullState is moved by action
	// under the model's mode; an ObservableState is extrapolated at constant
	// velocity and the action is ignored. dt <= 0 falls back to DefaultTimeStep.
	Propagate(agent state.Agent, action Action, dt float64) (state.Agent, error)
}

// Model implements MotionModel for both kinematic modes.
type Model struct {
	mode Mode
}

// NewModel returns the motion model for mode.
func NewModel(mode Mode) (Model, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return Model{}, err
	}
	return Model{mode: mode}, nil
}

func (m Model) Mode() Mode { return m.mode }

func (m Model) Propagate(agent state.Agent, action Action, dt float64) (state.Agent, error) {
	switch s := agent.(type) {
	case state.FullState:
		next, err := m.PropagateSelf(s, action, dt)
		if err != nil {
			return nil, err
		}
		return next, nil
	case state.ObservableState:
		return PropagateNeighbor(s, dt), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidStateKind, agent)
	}
}

// PropagateSelf moves the ego agent one tick under action.
//
// Unicycle actions rotate first and then translate along the new heading.
func (m Model) PropagateSelf(s state.FullState, action Action, dt float64) (state.FullState, error) {
	dt = timeStep(dt)
	if action == nil || action.Mode() != m.mode {
		return state.FullState{}, fmt.Errorf("%w: %T under %s kinematics", ErrInvalidAction, action, m.mode)
	}

	next := s
	switch a := action.(type) {
	case HolonomicAction:
		next.VX, next.VY = a.VX, a.VY
	case UnicycleAction:
		next.Theta = s.Theta + a.R
		v := a.Velocity(s.Theta)
		next.VX, next.VY = v.X, v.Y
	default:
		return state.FullState{}, fmt.Errorf("%w: %T", ErrInvalidAction, action)
	}
	next.PX = s.PX + next.VX*dt
	next.PY = s.PY + next.VY*dt
	return next, nil
}

// PropagateNeighbor extrapolates an observed agent at constant velocity.
func PropagateNeighbor(o state.ObservableState, dt float64) state.ObservableState {
	dt = timeStep(dt)
	o.PX += o.VX * dt
	o.PY += o.VY * dt
	return o
}

func timeStep(dt float64) float64 {
	if dt <= 0 {
		return DefaultTimeStep
	}
	return dt
}
