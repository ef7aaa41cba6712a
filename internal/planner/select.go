package planner

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/actionspace"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/reward"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// Path records how a decision was reached.
type Path string

const (
	PathGoal     Path = "goal"     // already at the goal, no evaluation
	PathExplore  Path = "explore"  // random train-phase action, no evaluation
	PathEvaluate Path = "evaluate" // full lookahead over the action space
)

// Candidate is one evaluated action.
type Candidate struct {
	Action kinematics.Action
	Reward reward.Outcome
	// MinValue is the smallest scorer value over the neighbor batch.
	MinValue float64
	Value    float64
}

// Decision is the result of one tick.
type Decision struct {
	Action kinematics.Action
	Path   Path
	// Index is the action's position in the action space, -1 on the goal path.
	Index int
	// Value is the winning candidate value; zero unless Path is PathEvaluate.
	Value      float64
	Candidates []Candidate
}

// SelectAction returns the action for js.
func (s *Selector) SelectAction(ctx context.Context, js state.JointState) (kinematics.Action, error) {
	d, err := s.Decide(ctx, js)
	if err != nil {
		return nil, err
	}
	return d.Action, nil
}

// Decide runs one decision tick and reports the chosen action with the values of
// every evaluated candidate.
func (s *Selector) Decide(ctx context.Context, js state.JointState) (Decision, error) {
	ctx, span := s.tracer.Start(ctx, "planner.Decide", trace.WithAttributes(
		attribute.String("planner.kinematics", string(s.cfg.Kinematics)),
		attribute.String("planner.phase", string(s.phase)),
		attribute.Int("planner.neighbors", len(js.Others)),
	))
	defer span.End()

	d, err := s.decide(ctx, js)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("decision failed", "component", "planner", "error", err)
		return Decision{}, err
	}

	span.SetAttributes(
		attribute.String("planner.path", string(d.Path)),
		attribute.Int("planner.action_index", d.Index),
		attribute.Float64("planner.value", d.Value),
	)
	s.metrics.record(ctx, d)
	s.logger.Debug("decided", "component", "planner", "path", d.Path, "index", d.Index, "value", d.Value)
	return d, nil
}

func (s *Selector) decide(ctx context.Context, js state.JointState) (Decision, error) {
	const op = "Decide"

	if s.phase == "" || s.scorer == nil {
		return Decision{}, newError(op, KindConfiguration, fmt.Errorf("%w: phase and scorer must be set", ErrMissingConfiguration))
	}
	if s.phase == PhaseTrain && s.epsilon == nil {
		return Decision{}, newError(op, KindConfiguration, ErrMissingExplorationRate)
	}
	s.snapshot = nil

	self := js.Self
	if self.GoalDistance() <= self.Radius {
		s.status = StatusDecided
		return Decision{Action: kinematics.Zero(s.cfg.Kinematics), Path: PathGoal, Index: -1}, nil
	}
	if err := js.Validate(); err != nil {
		return Decision{}, newError(op, KindValidation, err)
	}

	space, built, err := s.cache.Get(self.PrefSpeed)
	if err != nil {
		return Decision{}, newError(op, KindValidation, err)
	}
	if built {
		s.status = StatusActionSpaceReady
		s.logger.Info("action space built", "component", "planner",
			"kinematics", space.Mode, "v_pref", space.PrefSpeed, "actions", space.Len())
	}

	var d Decision
	if s.phase == PhaseTrain && s.randFloat() < *s.epsilon {
		i := s.randIntN(space.Len())
		d = Decision{Action: space.Actions[i], Path: PathExplore, Index: i}
	} else {
		s.status = StatusEvaluating
		d, err = s.evaluate(ctx, js, space)
		if err != nil {
			s.status = StatusActionSpaceReady
			return Decision{}, err
		}
	}

	if s.phase == PhaseTrain {
		v := s.normalizer.Normalize(self, js.Others[0])
		s.snapshot = &v
	}
	s.status = StatusDecided
	return d, nil
}

// evaluate ranks every action in space. Accumulators are local so the selector
// carries no per-tick state between calls.
func (s *Selector) evaluate(ctx context.Context, js state.JointState, space actionspace.Space) (Decision, error) {
	const op = "evaluate"

	dt := s.cfg.TimeStep
	neighbors, err := s.forecaster.Forecast(js.Others, dt)
	if err != nil {
		return Decision{}, newError(op, KindExecution, fmt.Errorf("%w: %w", ErrForecastFailure, err))
	}
	if len(neighbors) != len(js.Others) {
		return Decision{}, newError(op, KindExecution,
			fmt.Errorf("%w: %d forecasts for %d neighbors", ErrForecastFailure, len(neighbors), len(js.Others)))
	}

	discount := math.Pow(s.cfg.Gamma, dt*js.Self.PrefSpeed)
	candidates := make([]Candidate, 0, space.Len())
	best, bestIdx := math.Inf(-1), -1

	for i, action := range space.Actions {
		next, err := s.model.Propagate(js.Self, action, dt)
		if err != nil {
			return Decision{}, newError(op, KindExecution, err)
		}
		nextSelf, ok := next.(state.FullState)
		if !ok {
			return Decision{}, newError(op, KindExecution, fmt.Errorf("%w: propagated ego is %T", ErrInvalidStateKind, next))
		}

		outcome := s.reward.Score(nextSelf, js.Others[0], action)

		batch := s.normalizer.NormalizeAgainst(nextSelf, neighbors)
		values, err := s.scorer.Evaluate(ctx, batch)
		if err != nil {
			return Decision{}, newError(op, KindExecution, fmt.Errorf("%w: %w", ErrScorerFailure, err))
		}
		if len(values) != len(batch) {
			return Decision{}, newError(op, KindExecution,
				fmt.Errorf("%w: %d values for a batch of %d", ErrScorerFailure, len(values), len(batch)))
		}

		for j, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Decision{}, newError(op, KindExecution, fmt.Errorf("%w: non-finite value at %d", ErrScorerFailure, j))
			}
		}

		minValue := lo.Min(values)
		value := outcome.Reward + discount*minValue
		candidates = append(candidates, Candidate{Action: action, Reward: outcome, MinValue: minValue, Value: value})
		if value > best {
			best, bestIdx = value, i
		}
	}

	if bestIdx < 0 {
		return Decision{}, newError(op, KindExecution, fmt.Errorf("%w: no candidate has a comparable value", ErrScorerFailure))
	}
	return Decision{
		Action:     space.Actions[bestIdx],
		Path:       PathEvaluate,
		Index:      bestIdx,
		Value:      best,
		Candidates: candidates,
	}, nil
}

func (s *Selector) randFloat() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

func (s *Selector) randIntN(n int) int {
	if s.rng != nil {
		return s.rng.IntN(n)
	}
	return rand.IntN(n)
}
