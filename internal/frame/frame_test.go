package frame

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

const tol = 1e-9

type rigid struct {
	phi   float64
	shift r2.Point
}

func (t rigid) point(p r2.Point) r2.Point {
	sin, cos := math.Sincos(t.phi)
	return r2.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}.Add(t.shift)
}

func (t rigid) vec(v r2.Point) r2.Point {
	sin, cos := math.Sincos(t.phi)
	return r2.Point{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

func (t rigid) observable(o state.ObservableState) state.ObservableState {
	p, v := t.point(o.Position()), t.vec(o.Velocity())
	return state.ObservableState{PX: p.X, PY: p.Y, VX: v.X, VY: v.Y, Radius: o.Radius}
}

func (t rigid) joint(js state.JointState, rotateHeading bool) state.JointState {
	self := js.Self
	self.ObservableState = t.observable(js.Self.ObservableState)
	g := t.point(js.Self.Goal())
	self.GX, self.GY = g.X, g.Y
	if rotateHeading {
		self.Theta += t.phi
	}
	others := make([]state.ObservableState, len(js.Others))
	for i, o := range js.Others {
		others[i] = t.observable(o)
	}
	return state.JointState{Self: self, Others: others}
}

// wrap maps an angle to (-π, π].
func wrap(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

func scene() state.JointState {
	return state.JointState{
		Self: state.FullState{
			ObservableState: state.ObservableState{PX: 1, PY: 2, VX: 0.3, VY: -0.4, Radius: 0.3},
			GX:              4,
			GY:              6,
			PrefSpeed:       1.2,
			Theta:           0.4,
		},
		Others: []state.ObservableState{
			{PX: 2, PY: 2.5, VX: -0.5, VY: 0.1, Radius: 0.25},
			{PX: -1, PY: 0, VX: 0, VY: 1, Radius: 0.4},
		},
	}
}

func assertVectorsEqual(t *testing.T, want, got StateVector, skipTheta bool) {
	t.Helper()
	w, g := want.Slice(), got.Slice()
	for i := range w {
		if skipTheta && i == 2 {
			continue
		}
		assert.InDelta(t, w[i], g[i], tol, "field %d", i)
	}
}

func TestNormalizeFields(t *testing.T) {
	js := state.JointState{
		Self: state.FullState{
			ObservableState: state.ObservableState{PX: 1, PY: 1, VX: 0, VY: 1, Radius: 0.3},
			GX:              1,
			GY:              4,
			PrefSpeed:       1,
			Theta:           math.Pi,
		},
		Others: []state.ObservableState{{PX: 3, PY: 1, VX: -1, VY: 0, Radius: 0.2}},
	}

	v := Normalizer{Mode: kinematics.ModeUnicycle}.Normalize(js.Self, js.Others[0])

	// goal straight up: rot = π/2, so world +y becomes local +x
	assert.InDelta(t, 3, v.GoalDist, tol)
	assert.InDelta(t, 1, v.PrefSpeed, tol)
	assert.InDelta(t, math.Pi/2, v.Theta, tol)
	assert.InDelta(t, 0.3, v.Radius, tol)
	assert.InDelta(t, 1, v.VX, tol)
	assert.InDelta(t, 0, v.VY, tol)
	// neighbor sits to the world right = local -y
	assert.InDelta(t, 0, v.PX1, tol)
	assert.InDelta(t, -2, v.PY1, tol)
	assert.InDelta(t, 0, v.VX1, tol)
	assert.InDelta(t, 1, v.VY1, tol)
	assert.InDelta(t, 0.2, v.Radius1, tol)
	assert.InDelta(t, 2, v.Dist, tol)
	assert.InDelta(t, 0.5, v.RadiusSum, tol)
	assert.Len(t, v.Slice(), VectorLen)
}

func TestNormalizeHolonomicZeroesHeading(t *testing.T) {
	js := scene()
	v := Normalizer{Mode: kinematics.ModeHolonomic}.Normalize(js.Self, js.Others[0])
	assert.Equal(t, 0.0, v.Theta)
}

func TestNormalizeFrameInvariance(t *testing.T) {
	transforms := []rigid{
		{phi: 0, shift: r2.Point{X: 10, Y: -3}},
		{phi: math.Pi / 2, shift: r2.Point{}},
		{phi: -2.1, shift: r2.Point{X: -7.5, Y: 0.25}},
		{phi: 3.0, shift: r2.Point{X: 100, Y: 100}},
	}

	for _, mode := range []kinematics.Mode{kinematics.ModeHolonomic, kinematics.ModeUnicycle} {
		n := Normalizer{Mode: mode}
		base := scene()
		want := n.NormalizeJoint(base)

		for _, tr := range transforms {
			got := n.NormalizeJoint(tr.joint(base, true))
			require.Len(t, got, len(want))
			for i := range want {
				assertVectorsEqual(t, want[i], got[i], true)
				assert.InDelta(t, 0, wrap(got[i].Theta-want[i].Theta), tol, "mode %s phi %v", mode, tr.phi)
			}
		}
	}
}

func TestNormalizeHeadingShiftsWithRotation(t *testing.T) {
	n := Normalizer{Mode: kinematics.ModeUnicycle}
	base := scene()
	want := n.Normalize(base.Self, base.Others[0])

	tr := rigid{phi: 0.75, shift: r2.Point{X: 2, Y: 2}}
	moved := tr.joint(base, false)
	got := n.Normalize(moved.Self, moved.Others[0])

	assertVectorsEqual(t, want, got, true)
	assert.InDelta(t, 0, wrap(got.Theta-(want.Theta-tr.phi)), tol)
}

func TestNormalizeJointPreservesOrder(t *testing.T) {
	js := scene()
	vs := Normalizer{Mode: kinematics.ModeHolonomic}.NormalizeJoint(js)
	require.Len(t, vs, 2)
	assert.Equal(t, 0.25, vs[0].Radius1)
	assert.Equal(t, 0.4, vs[1].Radius1)
}
