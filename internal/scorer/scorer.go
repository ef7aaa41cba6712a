// Package scorer defines the value-function capability the planner consults and a
// few implementations of it.
//
// The planner treats a Scorer as opaque: any pure mapping from canonical state
// vectors to values can be plugged in. Adding a new model only requires implementing
// Scorer and, for config-driven construction, registering it in New.
package scorer

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
)

// Model discriminators accepted by Config.
const (
	LinearModelName = "linear"
	MLPModelName    = "mlp"
)

// ErrInvalidModel is returned when a scorer configuration is malformed.
var ErrInvalidModel = errors.New("invalid scorer model")

// Scorer estimates the long-horizon value of each state in a batch. Implementations
// must return exactly one value per input, in input order.
type Scorer interface {
	Evaluate(ctx context.Context, batch []frame.StateVector) ([]float64, error)
}

// Func adapts a plain function to Scorer.
type Func func(ctx context.Context, batch []frame.StateVector) ([]float64, error)

func (f Func) Evaluate(ctx context.Context, batch []frame.StateVector) ([]float64, error) {
	return f(ctx, batch)
}

// Config selects and parameterises a built-in scorer.
//
// JSON/YAML discriminator: "model": "linear" | "mlp"
type Config struct {
	Model string `json:"model" yaml:"model"`

	// linear
	Weights []float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	Bias    float64   `json:"bias,omitempty" yaml:"bias,omitempty"`

	// mlp
	Layers []LayerConfig `json:"layers,omitempty" yaml:"layers,omitempty"`
}

// LayerConfig is one dense layer. Weights has one row per input and one column per
// output.
type LayerConfig struct {
	Weights [][]float64 `json:"weights" yaml:"weights"`
	Bias    []float64   `json:"bias" yaml:"bias"`
}

// New builds the scorer described by cfg.
func New(cfg Config) (Scorer, error) {
	switch cfg.Model {
	case LinearModelName:
		return NewLinear(cfg.Weights, cfg.Bias)
	case MLPModelName:
		return NewMLP(cfg.Layers)
	default:
		return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidModel, cfg.Model)
	}
}

// batchMatrix lays the batch out as an n × frame.VectorLen matrix.
func batchMatrix(batch []frame.StateVector) *mat.Dense {
	data := make([]float64, 0, len(batch)*frame.VectorLen)
	for _, v := range batch {
		data = append(data, v.Slice()...)
	}
	return mat.NewDense(len(batch), frame.VectorLen, data)
}
