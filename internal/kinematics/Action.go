package kinematics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Action is a velocity command in one kinematic mode: HolonomicAction or
// UnicycleAction. An action is only ever interpreted under its own mode.
type Action interface {
	Mode() Mode
	// Velocity returns the world-frame velocity the action commands for an agent
	// whose heading is theta.
	Velocity(theta float64) r2.Point
	IsZero() bool
}

// HolonomicAction commands a world-frame velocity directly.
type HolonomicAction struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// Mode returns ModeHolonomic.
func (HolonomicAction) Mode() Mode { return ModeHolonomic }

// Velocity returns (vx, vy); heading plays no part.
func (a HolonomicAction) Velocity(float64) r2.Point { return r2.Point{X: a.VX, Y: a.VY} }

// IsZero reports whether a is the stay action.
func (a HolonomicAction) IsZero() bool { return a.VX == 0 && a.VY == 0 }

// UnicycleAction commands a forward speed V and a heading change R applied over
// one tick.
type UnicycleAction struct {
	V float64 `json:"v"`
	R float64 `json:"r"`
}

// Mode returns ModeUnicycle.
func (UnicycleAction) Mode() Mode { return ModeUnicycle }

// Velocity returns V along the heading theta+R reached after the turn.
func (a UnicycleAction) Velocity(theta float64) r2.Point {
	return r2.Point{X: a.V * math.Cos(a.R+theta), Y: a.V * math.Sin(a.R+theta)}
}

// IsZero reports whether a is the stay action.
func (a UnicycleAction) IsZero() bool { return a.V == 0 && a.R == 0 }

// Zero returns the stay action in the mode's native form.
func Zero(mode Mode) Action {
	if mode == ModeUnicycle {
		return UnicycleAction{}
	}
	return HolonomicAction{}
}

// actionJSON is the wire shape of an Action: a "kind" discriminator plus the
// fields of the concrete variant.
type actionJSON struct {
	Kind Mode     `json:"kind"`
	VX   *float64 `json:"vx,omitempty"`
	VY   *float64 `json:"vy,omitempty"`
	V    *float64 `json:"v,omitempty"`
	R    *float64 `json:"r,omitempty"`
}

// MarshalAction encodes a with its kind discriminator.
func MarshalAction(a Action) ([]byte, error) {
	switch act := a.(type) {
	case HolonomicAction:
		return json.Marshal(actionJSON{Kind: ModeHolonomic, VX: &act.VX, VY: &act.VY})
	case UnicycleAction:
		return json.Marshal(actionJSON{Kind: ModeUnicycle, V: &act.V, R: &act.R})
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidAction, a)
	}
}
