package scorer

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
)

// Linear scores a state as w · x + b.
type Linear struct {
	weights *mat.VecDense
	bias    float64
}

// NewLinear returns a linear scorer. weights must have one entry per state field.
func NewLinear(weights []float64, bias float64) (*Linear, error) {
	if len(weights) != frame.VectorLen {
		return nil, fmt.Errorf("%w: linear needs %d weights, got %d", ErrInvalidModel, frame.VectorLen, len(weights))
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &Linear{weights: mat.NewVecDense(len(w), w), bias: bias}, nil
}

func (l *Linear) Evaluate(_ context.Context, batch []frame.StateVector) ([]float64, error) {
	if len(batch) == 0 {
		return []float64{}, nil
	}
	var out mat.VecDense
	out.MulVec(batchMatrix(batch), l.weights)

	values := make([]float64, len(batch))
	for i := range values {
		values[i] = out.AtVec(i) + l.bias
	}
	return values, nil
}
