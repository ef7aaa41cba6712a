// Package reward scores a one-step lookahead transition for collision, goal arrival
// and discomfort.
package reward

import (
	"github.com/golang/geo/r2"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// Kind classifies a transition. Exactly one kind applies to any transition.
type Kind string

const (
	KindCollision    Kind = "collision"
	KindReachingGoal Kind = "reaching_goal"
	KindDiscomfort   Kind = "discomfort"
	KindNeutral      Kind = "neutral"
)

// Params holds the reward constants.
type Params struct {
	CollisionPenalty  float64 `json:"collision_penalty" yaml:"collision_penalty"`
	GoalReward        float64 `json:"goal_reward" yaml:"goal_reward"`
	DiscomfortPenalty float64 `json:"discomfort_penalty" yaml:"discomfort_penalty"`
	// DiscomfortScale times the agent radius is the width of the discomfort band.
	DiscomfortScale float64 `json:"discomfort_scale" yaml:"discomfort_scale"`
}

// DefaultParams returns the standard reward constants.
func DefaultParams() Params {
	return Params{
		CollisionPenalty:  -0.25,
		GoalReward:        1.0,
		DiscomfortPenalty: -0.1,
		DiscomfortScale:   0.5,
	}
}

// Outcome is the classified result of scoring one transition.
type Outcome struct {
	Kind        Kind    `json:"kind"`
	Reward      float64 `json:"reward"`
	ClosestDist float64 `json:"closest_dist"`
}

// Model scores transitions over a fixed tick length.
type Model struct {
	TimeStep float64
	Params   Params
}

// NewModel returns a reward model with the default constants.
func NewModel(dt float64) Model {
	return Model{TimeStep: dt, Params: DefaultParams()}
}

// Score classifies the transition that produced agentNext.
//
// neighbor is the neighbor's observed state before propagation, and action is the
// action that produced agentNext. The closing check uses the action's commanded
// velocity so it covers the upcoming interval rather than the state already
// reached. The classification order is fixed: collision, reaching goal, discomfort,
// neutral.
func (m Model) Score(agentNext state.FullState, neighbor state.ObservableState, action kinematics.Action) Outcome {
	dt := m.TimeStep
	if dt <= 0 {
		dt = kinematics.DefaultTimeStep
	}

	rel := neighbor.Position().Sub(agentNext.Position())
	var own r2.Point
	if action != nil {
		own = action.Velocity(agentNext.Theta)
	}
	relVel := neighbor.Velocity().Sub(own)
	end := rel.Add(relVel.Mul(dt))

	// both agents are approximated with the ego radius
	closest := PointToSegmentDist(rel, end, r2.Point{}) - 2*agentNext.Radius

	switch {
	case closest < 0:
		return Outcome{Kind: KindCollision, Reward: m.Params.CollisionPenalty, ClosestDist: closest}
	case agentNext.GoalDistance() <= agentNext.Radius:
		return Outcome{Kind: KindReachingGoal, Reward: m.Params.GoalReward, ClosestDist: closest}
	case closest < agentNext.Radius*m.Params.DiscomfortScale:
		return Outcome{Kind: KindDiscomfort, Reward: m.Params.DiscomfortPenalty, ClosestDist: closest}
	default:
		return Outcome{Kind: KindNeutral, Reward: 0, ClosestDist: closest}
	}
}

// PointToSegmentDist returns the distance from p to the segment a-b. A zero-length
// segment degrades to the distance between p and a.
func PointToSegmentDist(a, b, p r2.Point) float64 {
	seg := b.Sub(a)
	denom := seg.Dot(seg)
	if denom == 0 {
		return p.Sub(a).Norm()
	}
	u := p.Sub(a).Dot(seg) / denom
	if u > 1 {
		u = 1
	} else if u < 0 {
		u = 0
	}
	return a.Add(seg.Mul(u)).Sub(p).Norm()
}
