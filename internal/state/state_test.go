package state

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGoalDistance(t *testing.T) {
	f := FullState{ObservableState: ObservableState{PX: 1, PY: 1}, GX: 4, GY: 5}
	assert.InDelta(t, 5, f.GoalDistance(), 1e-12)
}

func TestObservable(t *testing.T) {
	f := FullState{ObservableState: ObservableState{PX: 1, VY: 2, Radius: 0.3}, GX: 9, Theta: 1}
	var a Agent = f
	assert.Equal(t, ObservableState{PX: 1, VY: 2, Radius: 0.3}, a.Observable())
}

func TestValidate(t *testing.T) {
	ok := JointState{
		Self:   FullState{ObservableState: ObservableState{Radius: 0.3}, GX: 1, PrefSpeed: 1},
		Others: []ObservableState{{PX: 2, Radius: 0.3}},
	}
	require.NoError(t, ok.Validate())

	empty := ok
	empty.Others = nil
	assert.ErrorIs(t, empty.Validate(), ErrNoNeighbors)

	badSelf := ok
	badSelf.Self.Theta = math.NaN()
	assert.Error(t, badSelf.Validate())

	badOther := ok
	badOther.Others = []ObservableState{{PX: math.Inf(1)}}
	assert.Error(t, badOther.Validate())
}

func TestJointStateDecoding(t *testing.T) {
	want := JointState{
		Self: FullState{
			ObservableState: ObservableState{PX: 1, PY: 2, VX: 0.5, Radius: 0.3},
			GX:              4, GY: 6, PrefSpeed: 1, Theta: 0.25,
		},
		Others: []ObservableState{{PX: -1, VY: 1, Radius: 0.4}},
	}

	var fromJSON JointState
	require.NoError(t, json.Unmarshal([]byte(`{
		"self": {"px": 1, "py": 2, "vx": 0.5, "vy": 0, "radius": 0.3, "gx": 4, "gy": 6, "v_pref": 1, "theta": 0.25},
		"others": [{"px": -1, "py": 0, "vx": 0, "vy": 1, "radius": 0.4}]
	}`), &fromJSON))
	assert.Equal(t, want, fromJSON)

	var fromYAML JointState
	require.NoError(t, yaml.Unmarshal([]byte(`
self: {px: 1, py: 2, vx: 0.5, radius: 0.3, gx: 4, gy: 6, v_pref: 1, theta: 0.25}
others:
  - {px: -1, vy: 1, radius: 0.4}
`), &fromYAML))
	assert.Equal(t, want, fromYAML)
}
