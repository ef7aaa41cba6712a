// Package state defines the agent states exchanged between the simulation and the
// planner: what an agent reveals to others, what it knows about itself, and the
// joint view a planner decides on.
package state

import (
	"errors"
	"math"

	"github.com/golang/geo/r2"
)

// ErrNoNeighbors is returned when a joint state carries no neighbor observations.
var ErrNoNeighbors = errors.New("joint state has no neighbors")

// Agent is the tagged variant ObservableState | FullState. The unexported marker
// method seals the set so that a type switch over the two variants is exhaustive.
type Agent interface {
	Observable() ObservableState
	isAgent()
}

// ObservableState is what one agent reveals to the others at a single tick.
type ObservableState struct {
	PX     float64 `json:"px" yaml:"px"`
	PY     float64 `json:"py" yaml:"py"`
	VX     float64 `json:"vx" yaml:"vx"`
	VY     float64 `json:"vy" yaml:"vy"`
	Radius float64 `json:"radius" yaml:"radius"`
}

func (ObservableState) isAgent() {}

// Observable returns the state itself.
func (o ObservableState) Observable() ObservableState { return o }

// Position returns (px, py).
func (o ObservableState) Position() r2.Point { return r2.Point{X: o.PX, Y: o.PY} }

// Velocity returns (vx, vy).
func (o ObservableState) Velocity() r2.Point { return r2.Point{X: o.VX, Y: o.VY} }

// FullState is the ego agent's own state. Goal, preferred speed and heading are
// private to the agent and never observed by others.
type FullState struct {
	ObservableState `yaml:",inline"`
	GX              float64 `json:"gx" yaml:"gx"`
	GY              float64 `json:"gy" yaml:"gy"`
	PrefSpeed       float64 `json:"v_pref" yaml:"v_pref"`
	Theta           float64 `json:"theta" yaml:"theta"` // heading, radians
}

func (FullState) isAgent() {}

// Observable returns the part of the state other agents can see.
func (f FullState) Observable() ObservableState { return f.ObservableState }

// Goal returns (gx, gy).
func (f FullState) Goal() r2.Point { return r2.Point{X: f.GX, Y: f.GY} }

// GoalDistance returns the Euclidean distance from the agent's position to its goal.
func (f FullState) GoalDistance() float64 {
	return f.Goal().Sub(f.Position()).Norm()
}

// JointState is the ego state plus the ordered neighbor observations for one tick.
// Neighbor order is significant: index 0 is treated as the most relevant neighbor.
type JointState struct {
	Self   FullState         `json:"self" yaml:"self"`
	Others []ObservableState `json:"others" yaml:"others"`
}

// Validate reports an empty neighbor list or non-finite values.
func (j JointState) Validate() error {
	if len(j.Others) == 0 {
		return ErrNoNeighbors
	}
	if !finite(j.Self.PX, j.Self.PY, j.Self.VX, j.Self.VY, j.Self.Radius, j.Self.GX, j.Self.GY, j.Self.PrefSpeed, j.Self.Theta) {
		return errors.New("self state has non-finite values")
	}
	for _, o := range j.Others {
		if !finite(o.PX, o.PY, o.VX, o.VY, o.Radius) {
			return errors.New("neighbor state has non-finite values")
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
