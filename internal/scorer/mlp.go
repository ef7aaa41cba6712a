package scorer

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
)

type dense struct {
	w *mat.Dense
	b []float64
}

// MLP is a fully connected value network: ReLU between layers, linear output.
// A whole batch goes through each layer as one matrix product.
type MLP struct {
	layers []dense
}

// NewMLP builds an MLP from its layers. The first layer takes frame.VectorLen inputs,
// each layer's inputs match the previous layer's outputs, and the last layer has a
// single output.
func NewMLP(layers []LayerConfig) (*MLP, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: mlp needs at least one layer", ErrInvalidModel)
	}

	in := frame.VectorLen
	out := make([]dense, 0, len(layers))
	for i, l := range layers {
		if len(l.Weights) != in {
			return nil, fmt.Errorf("%w: layer %d has %d input rows, want %d", ErrInvalidModel, i, len(l.Weights), in)
		}
		cols := len(l.Weights[0])
		if cols == 0 {
			return nil, fmt.Errorf("%w: layer %d has no outputs", ErrInvalidModel, i)
		}
		data := make([]float64, 0, in*cols)
		for r, row := range l.Weights {
			if len(row) != cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d", ErrInvalidModel, i, r, len(row), cols)
			}
			data = append(data, row...)
		}
		if len(l.Bias) != cols {
			return nil, fmt.Errorf("%w: layer %d has %d biases, want %d", ErrInvalidModel, i, len(l.Bias), cols)
		}
		b := make([]float64, cols)
		copy(b, l.Bias)
		out = append(out, dense{w: mat.NewDense(in, cols, data), b: b})
		in = cols
	}
	if in != 1 {
		return nil, fmt.Errorf("%w: last layer has %d outputs, want 1", ErrInvalidModel, in)
	}
	return &MLP{layers: out}, nil
}

func (m *MLP) Evaluate(_ context.Context, batch []frame.StateVector) ([]float64, error) {
	if len(batch) == 0 {
		return []float64{}, nil
	}

	var x mat.Matrix = batchMatrix(batch)
	last := len(m.layers) - 1
	for i, l := range m.layers {
		var h mat.Dense
		h.Mul(x, l.w)
		relu := i != last
		h.Apply(func(_, j int, v float64) float64 {
			v += l.b[j]
			if relu && v < 0 {
				return 0
			}
			return v
		}, &h)
		x = &h
	}
	return mat.Col(nil, 0, x), nil
}
