package kinematics

import "github.com/meghdeepj/Social-Navigation-Simulator/internal/state"

// Forecaster predicts where neighbors will be one tick ahead. Learned trajectory
// predictors plug in here; the planner only depends on this contract.
type Forecaster interface {
	Forecast(neighbors []state.ObservableState, dt float64) ([]state.ObservableState, error)
}

// ConstantVelocity forecasts every neighbor by straight-line extrapolation.
type ConstantVelocity struct{}

func (ConstantVelocity) Forecast(neighbors []state.ObservableState, dt float64) ([]state.ObservableState, error) {
	out := make([]state.ObservableState, len(neighbors))
	for i, n := range neighbors {
		out[i] = PropagateNeighbor(n, dt)
	}
	return out, nil
}
