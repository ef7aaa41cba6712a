// Package actionspace builds the discretised candidate actions the planner evaluates
// at every tick.
package actionspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
)

// MaxUnicycleTurn bounds the heading change a unicycle agent may make in one tick.
// It does not scale with dt.
const MaxUnicycleTurn = math.Pi / 4

var (
	ErrInvalidSamples   = errors.New("sample counts must be positive")
	ErrInvalidPrefSpeed = errors.New("preferred speed must be finite and non-negative")
)

// Space is an immutable, ordered candidate set: the stay action first, then every
// rotation × speed pair in rotation-major, speed-minor order. Selection breaks ties
// by this order.
type Space struct {
	Mode      kinematics.Mode
	PrefSpeed float64
	Speeds    []float64
	Rotations []float64
	Actions   []kinematics.Action
}

// Len returns the number of candidate actions.
func (s Space) Len() int { return len(s.Actions) }

// Build returns the action space for an agent with preferred speed vPref.
//
// Speeds are spaced exponentially, (e^((i+1)/N) - 1) / (e - 1) * vPref, so samples
// are denser near zero and the last one equals vPref. Holonomic rotations cover
// [0, 2π) uniformly; unicycle turns cover [-π/4, π/4] inclusive.
func Build(vPref float64, mode kinematics.Mode, speedSamples, rotationSamples int) (Space, error) {
	if speedSamples <= 0 || rotationSamples <= 0 {
		return Space{}, fmt.Errorf("%w: speed=%d rotation=%d", ErrInvalidSamples, speedSamples, rotationSamples)
	}
	if math.IsNaN(vPref) || math.IsInf(vPref, 0) || vPref < 0 {
		return Space{}, fmt.Errorf("%w: %v", ErrInvalidPrefSpeed, vPref)
	}
	if _, err := kinematics.ParseMode(string(mode)); err != nil {
		return Space{}, err
	}

	speeds := make([]float64, speedSamples)
	for i := range speeds {
		speeds[i] = (math.Exp(float64(i+1)/float64(speedSamples)) - 1) / (math.E - 1) * vPref
	}
	// exp(1) and math.E can differ in the last bit
	speeds[speedSamples-1] = vPref

	var rotations []float64
	if mode == kinematics.ModeHolonomic {
		rotations = linspace(0, 2*math.Pi, rotationSamples, false)
	} else {
		rotations = linspace(-MaxUnicycleTurn, MaxUnicycleTurn, rotationSamples, true)
	}

	actions := make([]kinematics.Action, 0, 1+len(rotations)*len(speeds))
	actions = append(actions, kinematics.Zero(mode))
	for _, rot := range rotations {
		for _, speed := range speeds {
			if mode == kinematics.ModeHolonomic {
				actions = append(actions, kinematics.HolonomicAction{VX: speed * math.Cos(rot), VY: speed * math.Sin(rot)})
			} else {
				actions = append(actions, kinematics.UnicycleAction{V: speed, R: rot})
			}
		}
	}

	return Space{
		Mode:      mode,
		PrefSpeed: vPref,
		Speeds:    speeds,
		Rotations: rotations,
		Actions:   actions,
	}, nil
}

// linspace returns n evenly spaced samples from start to stop. With endpoint false
// stop itself is excluded. A single sample is start.
func linspace(start, stop float64, n int, endpoint bool) []float64 {
	out := make([]float64, n)
	div := float64(n)
	if endpoint {
		div = float64(n - 1)
	}
	if div == 0 {
		out[0] = start
		return out
	}
	step := (stop - start) / div
	for i := range out {
		out[i] = start + float64(i)*step
	}
	if endpoint {
		out[n-1] = stop
	}
	return out
}
