package reward

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

func agentAt(px, py, gx, gy, radius float64) state.FullState {
	return state.FullState{
		ObservableState: state.ObservableState{PX: px, PY: py, Radius: radius},
		GX:              gx,
		GY:              gy,
		PrefSpeed:       1,
	}
}

func TestPointToSegmentDist(t *testing.T) {
	tests := []struct {
		name string
		a, b r2.Point
		p    r2.Point
		want float64
	}{
		{name: "degenerate segment", a: r2.Point{X: 3, Y: 4}, b: r2.Point{X: 3, Y: 4}, want: 5},
		{name: "interior projection", a: r2.Point{X: -1, Y: 1}, b: r2.Point{X: 1, Y: 1}, want: 1},
		{name: "clamped to start", a: r2.Point{X: 1, Y: 1}, b: r2.Point{X: 2, Y: 1}, want: math.Sqrt2},
		{name: "clamped to end", a: r2.Point{X: -2, Y: -1}, b: r2.Point{X: -1, Y: -1}, want: math.Sqrt2},
		{name: "point on segment", a: r2.Point{X: -1, Y: 0}, b: r2.Point{X: 1, Y: 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointToSegmentDist(tt.a, tt.b, tt.p)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestScoreClassification(t *testing.T) {
	m := NewModel(0.2)
	still := kinematics.HolonomicAction{}

	tests := []struct {
		name     string
		agent    state.FullState
		neighbor state.ObservableState
		action   kinematics.Action
		want     Kind
		reward   float64
	}{
		{
			name:     "collision dominates goal",
			agent:    agentAt(0, 0, 0, 0.1, 0.5),
			neighbor: state.ObservableState{PX: 0.5, Radius: 0.5},
			action:   still,
			want:     KindCollision,
			reward:   -0.25,
		},
		{
			name:     "reaching goal",
			agent:    agentAt(1, 1, 1.2, 1, 0.5),
			neighbor: state.ObservableState{PX: 10, PY: 10, Radius: 0.5},
			action:   still,
			want:     KindReachingGoal,
			reward:   1.0,
		},
		{
			name:     "goal distance equal to radius counts",
			agent:    agentAt(0, 0, 0.5, 0, 0.5),
			neighbor: state.ObservableState{PX: -10, Radius: 0.5},
			action:   still,
			want:     KindReachingGoal,
			reward:   1.0,
		},
		{
			name:     "discomfort band",
			agent:    agentAt(0, 0, 5, 5, 0.5),
			neighbor: state.ObservableState{PX: 1.2, Radius: 0.5},
			action:   still,
			want:     KindDiscomfort,
			reward:   -0.1,
		},
		{
			name:     "neutral",
			agent:    agentAt(0, 0, 5, 5, 0.5),
			neighbor: state.ObservableState{PX: 3, Radius: 0.5},
			action:   still,
			want:     KindNeutral,
			reward:   0,
		},
		{
			name:     "closing holonomic action collides over the interval",
			agent:    agentAt(0, 0, -5, 5, 0.3),
			neighbor: state.ObservableState{PX: 2, Radius: 0.3},
			action:   kinematics.HolonomicAction{VX: 10},
			want:     KindCollision,
			reward:   -0.25,
		},
		{
			name:     "moving away from the neighbor stays neutral",
			agent:    agentAt(0, 0, -5, 5, 0.3),
			neighbor: state.ObservableState{PX: 2, Radius: 0.3},
			action:   kinematics.HolonomicAction{VX: -10},
			want:     KindNeutral,
			reward:   0,
		},
		{
			name: "unicycle velocity uses turn plus heading",
			agent: func() state.FullState {
				a := agentAt(0, 0, -5, 5, 0.3)
				a.Theta = math.Pi / 2
				return a
			}(),
			neighbor: state.ObservableState{PX: 2, Radius: 0.3},
			action:   kinematics.UnicycleAction{V: 10, R: -math.Pi / 2},
			want:     KindCollision,
			reward:   -0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.Score(tt.agent, tt.neighbor, tt.action)
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, tt.reward, out.Reward)
		})
	}
}

func TestScoreExactlyOneKind(t *testing.T) {
	m := NewModel(0.2)
	valid := map[Kind]float64{
		KindCollision:    -0.25,
		KindReachingGoal: 1.0,
		KindDiscomfort:   -0.1,
		KindNeutral:      0,
	}

	for x := -3.0; x <= 3.0; x += 0.25 {
		for gx := -1.0; gx <= 1.0; gx += 0.5 {
			agent := agentAt(0, 0, gx, 0.2, 0.4)
			neighbor := state.ObservableState{PX: x, PY: 0.3, VX: -x, Radius: 0.4}
			out := m.Score(agent, neighbor, kinematics.HolonomicAction{VX: 0.5})

			want, ok := valid[out.Kind]
			if assert.True(t, ok, "unexpected kind %q", out.Kind) {
				assert.Equal(t, want, out.Reward)
			}
			if out.ClosestDist < 0 {
				assert.Equal(t, KindCollision, out.Kind)
			}
		}
	}
}

func TestScoreCustomParams(t *testing.T) {
	m := Model{TimeStep: 0.2, Params: Params{CollisionPenalty: -1, GoalReward: 2, DiscomfortPenalty: -0.5, DiscomfortScale: 2}}

	// 0.2 clearance is outside the default band but inside a 2*radius band
	out := m.Score(agentAt(0, 0, 5, 5, 0.5), state.ObservableState{PX: 1.6, Radius: 0.5}, kinematics.HolonomicAction{})
	assert.Equal(t, KindDiscomfort, out.Kind)
	assert.Equal(t, -0.5, out.Reward)
	assert.InDelta(t, 0.6, out.ClosestDist, 1e-12)
}
