// Package planner implements the lookahead action selector.
//
// At every tick the selector evaluates each candidate action in two parts:
//
//  1. Lookahead - the ego state is propagated one tick under the action and the
//     transition is rewarded against the first neighbor.
//
//  2. Value - the propagated ego state is encoded against every forecast neighbor
//     and the scorer values the batch; the most pessimistic neighbor sets the
//     candidate's worth.
//
// The candidate value is reward + γ^(dt·v_pref) · min(values), and the earliest
// action in action-space order wins ties.
package planner

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/actionspace"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/reward"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/scorer"
)

const instrumentationName = "github.com/meghdeepj/Social-Navigation-Simulator/internal/planner"

// Phase controls exploration and snapshot capture.
type Phase string

const (
	PhaseTrain Phase = "train"
	PhaseTest  Phase = "test"
)

// Status is the selector's position in its decision cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusActionSpaceReady
	StatusEvaluating
	StatusDecided
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActionSpaceReady:
		return "action_space_ready"
	case StatusEvaluating:
		return "evaluating"
	case StatusDecided:
		return "decided"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Config holds the static parameters of a selector.
type Config struct {
	Kinematics      kinematics.Mode
	TimeStep        float64 // seconds; <= 0 means kinematics.DefaultTimeStep
	Gamma           float64 // discount factor in (0, 1]
	SpeedSamples    int
	RotationSamples int
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) { s.logger = logger }
}

// WithTracer sets the tracer used for one span per decision.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Selector) { s.tracer = tracer }
}

// WithMeter sets the meter used for decision metrics.
func WithMeter(meter metric.Meter) Option {
	return func(s *Selector) { s.meter = meter }
}

// WithRand sets the random source used for exploration.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithForecaster replaces the constant-velocity neighbor forecaster.
func WithForecaster(f kinematics.Forecaster) Option {
	return func(s *Selector) { s.forecaster = f }
}

// WithRewardParams replaces the default reward constants.
func WithRewardParams(p reward.Params) Option {
	return func(s *Selector) { s.reward.Params = p }
}

// Selector chooses one action per tick for a single agent. It is not safe for
// concurrent use; distinct selectors share nothing.
type Selector struct {
	cfg        Config
	model      kinematics.Model
	normalizer frame.Normalizer
	reward     reward.Model
	forecaster kinematics.Forecaster
	cache      *actionspace.Cache

	phase   Phase
	epsilon *float64
	scorer  scorer.Scorer

	status   Status
	snapshot *frame.StateVector

	rng     *rand.Rand
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

// New returns a selector in the Idle state. Phase and scorer must be set before the
// first decision.
func New(cfg Config, opts ...Option) (*Selector, error) {
	const op = "New"

	model, err := kinematics.NewModel(cfg.Kinematics)
	if err != nil {
		return nil, newError(op, KindConfiguration, err)
	}
	if cfg.TimeStep <= 0 {
		cfg.TimeStep = kinematics.DefaultTimeStep
	}
	if math.IsNaN(cfg.Gamma) || cfg.Gamma <= 0 || cfg.Gamma > 1 {
		return nil, newError(op, KindConfiguration, fmt.Errorf("gamma %v outside (0, 1]", cfg.Gamma))
	}
	if cfg.SpeedSamples <= 0 || cfg.RotationSamples <= 0 {
		return nil, newError(op, KindConfiguration, actionspace.ErrInvalidSamples)
	}

	s := &Selector{
		cfg:        cfg,
		model:      model,
		normalizer: frame.Normalizer{Mode: cfg.Kinematics},
		reward:     reward.NewModel(cfg.TimeStep),
		forecaster: kinematics.ConstantVelocity{},
		cache:      actionspace.NewCache(cfg.Kinematics, cfg.SpeedSamples, cfg.RotationSamples),
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.tracer == nil {
		s.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if s.meter == nil {
		s.meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
	}
	s.metrics, err = newMetrics(s.meter)
	if err != nil {
		return nil, newError(op, KindConfiguration, err)
	}
	return s, nil
}

// SetPhase selects train or test behaviour. Switching to test drops any snapshot.
func (s *Selector) SetPhase(p Phase) error {
	switch p {
	case PhaseTrain, PhaseTest:
	default:
		return newError("SetPhase", KindConfiguration, fmt.Errorf("unknown phase %q", p))
	}
	s.phase = p
	if p == PhaseTest {
		s.snapshot = nil
	}
	return nil
}

// SetEpsilon sets the train-phase exploration probability.
func (s *Selector) SetEpsilon(eps float64) error {
	if math.IsNaN(eps) || eps < 0 || eps > 1 {
		return newError("SetEpsilon", KindConfiguration, fmt.Errorf("epsilon %v outside [0, 1]", eps))
	}
	s.epsilon = &eps
	return nil
}

// SetScorer attaches the value function.
func (s *Selector) SetScorer(sc scorer.Scorer) {
	s.scorer = sc
}

// SetTimeStep changes dt for propagation and reward. dt <= 0 restores the default.
func (s *Selector) SetTimeStep(dt float64) {
	if dt <= 0 {
		dt = kinematics.DefaultTimeStep
	}
	s.cfg.TimeStep = dt
	s.reward.TimeStep = dt
}

// Config returns the selector's configuration.
func (s *Selector) Config() Config { return s.cfg }

// Phase returns the current phase, empty if unset.
func (s *Selector) Phase() Phase { return s.phase }

// Status returns where the selector is in its decision cycle.
func (s *Selector) Status() Status { return s.status }

// LastDecisionSnapshot returns the encoding of the joint state seen by the last
// train-phase decision. It is cleared on every call to Decide.
func (s *Selector) LastDecisionSnapshot() (frame.StateVector, bool) {
	if s.snapshot == nil {
		return frame.StateVector{}, false
	}
	return *s.snapshot, true
}
