// Package frame encodes a joint (ego, neighbor) state in the ego-centric frame: the
// origin is the ego position and the +x axis points at the ego goal. The encoding is
// invariant to where the scene sits in the world and how it is oriented, which is what
// a learned value function relies on.
package frame

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// VectorLen is the number of scalar fields in a StateVector.
const VectorLen = 13

// StateVector is the canonical encoding of one (ego, neighbor) pair. It is the only
// representation a scorer sees.
type StateVector struct {
	GoalDist  float64 `json:"dg"`
	PrefSpeed float64 `json:"v_pref"`
	Theta     float64 `json:"theta"`
	Radius    float64 `json:"radius"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	PX1       float64 `json:"px1"`
	PY1       float64 `json:"py1"`
	VX1       float64 `json:"vx1"`
	VY1       float64 `json:"vy1"`
	Radius1   float64 `json:"radius1"`
	Dist      float64 `json:"da"`
	RadiusSum float64 `json:"radius_sum"`
}

// Slice returns the fields in canonical order.
func (v StateVector) Slice() []float64 {
	return []float64{
		v.GoalDist, v.PrefSpeed, v.Theta, v.Radius,
		v.VX, v.VY,
		v.PX1, v.PY1, v.VX1, v.VY1, v.Radius1,
		v.Dist, v.RadiusSum,
	}
}

// Normalizer encodes joint states for one kinematic mode.
type Normalizer struct {
	Mode kinematics.Mode
}

// Normalize encodes self against a single neighbor.
func (n Normalizer) Normalize(self state.FullState, other state.ObservableState) StateVector {
	toGoal := self.Goal().Sub(self.Position())
	rot := math.Atan2(toGoal.Y, toGoal.X)
	sin, cos := math.Sincos(rot)
	// rotate by -rot: goal direction becomes +x
	local := func(p r2.Point) r2.Point {
		return r2.Point{X: p.X*cos + p.Y*sin, Y: p.Y*cos - p.X*sin}
	}

	v := local(self.Velocity())
	v1 := local(other.Velocity())
	offset := other.Position().Sub(self.Position())
	p1 := local(offset)

	var theta float64
	if n.Mode == kinematics.ModeUnicycle {
		theta = self.Theta - rot
	}

	return StateVector{
		GoalDist:  toGoal.Norm(),
		PrefSpeed: self.PrefSpeed,
		Theta:     theta,
		Radius:    self.Radius,
		VX:        v.X,
		VY:        v.Y,
		PX1:       p1.X,
		PY1:       p1.Y,
		VX1:       v1.X,
		VY1:       v1.Y,
		Radius1:   other.Radius,
		Dist:      offset.Norm(),
		RadiusSum: self.Radius + other.Radius,
	}
}

// NormalizeJoint encodes the ego state against every neighbor, preserving neighbor
// order so scorer batches line up with the input.
func (n Normalizer) NormalizeJoint(js state.JointState) []StateVector {
	return n.NormalizeAgainst(js.Self, js.Others)
}

// NormalizeAgainst encodes self against each of others in order.
func (n Normalizer) NormalizeAgainst(self state.FullState, others []state.ObservableState) []StateVector {
	out := make([]StateVector, len(others))
	for i, o := range others {
		out[i] = n.Normalize(self, o)
	}
	return out
}
