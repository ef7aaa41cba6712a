// Package engine replays recorded joint states through the action selector.
//
// A replay treats every recorded tick as an independent observation: the selector
// decides an action for the ego agent, the decision is logged, and the next tick is
// read as recorded. No physics is stepped between ticks.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/config"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/planner"
)

//go:embed replay.schema.json
var replaySchemaJSON string

var replaySchema = jsonschema.MustCompileString("replay.schema.json", replaySchemaJSON)

type options struct {
	config    *config.Config
	sink      Sink
	logger    *slog.Logger
	selectors []planner.Option
}

// Option configures a replay.
type Option func(*options)

// WithConfig replaces the config carried by the input.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.config = &cfg }
}

// WithSink streams every decision row to s as it is produced.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithLogger sets the logger for the engine and its selector.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPlannerOptions passes extra options to the selector.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(o *options) { o.selectors = append(o.selectors, opts...) }
}

// NewReplay constructs a Replay from a ReplayInput, building the selector from the
// input config unless WithConfig overrides it.
func NewReplay(input ReplayInput, opts ...Option) (*Replay, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := input.Config
	if o.config != nil {
		cfg = *o.config
	}

	meta := input.Meta
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.TimeStep <= 0 {
		meta.TimeStep = cfg.Planner.TimeStep
	}
	if meta.TimeStep <= 0 {
		meta.TimeStep = kinematics.DefaultTimeStep
	}

	plannerOpts := append([]planner.Option{planner.WithLogger(o.logger)}, o.selectors...)
	sel, err := cfg.NewSelector(plannerOpts...)
	if err != nil {
		return nil, fmt.Errorf("building selector: %w", err)
	}

	return &Replay{
		meta:     meta,
		selector: sel,
		ticks:    input.Ticks,
		sink:     o.sink,
		opts:     o,
	}, nil
}

// Run decides every tick in order and returns the log. The first failing tick
// aborts the run.
func (r *Replay) Run(ctx context.Context) (ReplayLog, error) {
	log := ReplayLog{Meta: r.meta, Output: make([]DecisionRow, 0, len(r.ticks))}
	r.opts.logger.Info("replay started", "component", "engine", "run_id", r.meta.RunID, "ticks", len(r.ticks))

	for i := range r.ticks {
		if err := ctx.Err(); err != nil {
			return ReplayLog{}, err
		}
		row, err := r.step(ctx, i)
		if err != nil {
			return ReplayLog{}, fmt.Errorf("at tick %d: %w", i, err)
		}
		if r.sink != nil {
			if err := r.sink.Write(row); err != nil {
				return ReplayLog{}, fmt.Errorf("writing tick %d: %w", i, err)
			}
		}
		log.Output = append(log.Output, row)
	}

	r.opts.logger.Info("replay finished", "component", "engine", "run_id", r.meta.RunID)
	return log, nil
}

// step decides tick i and returns the resulting log row.
func (r *Replay) step(ctx context.Context, i int) (DecisionRow, error) {
	d, err := r.selector.Decide(ctx, r.ticks[i])
	if err != nil {
		return DecisionRow{}, err
	}
	action, err := kinematics.MarshalAction(d.Action)
	if err != nil {
		return DecisionRow{}, fmt.Errorf("encoding action: %w", err)
	}

	row := DecisionRow{
		Tick:      i,
		Timestamp: float64(i) * r.meta.TimeStep,
		Action:    action,
		Path:      d.Path,
		Index:     d.Index,
		BestValue: d.Value,
	}
	if d.Path == planner.PathEvaluate {
		row.RewardKind = d.Candidates[d.Index].Reward.Kind
	}
	if snap, ok := r.selector.LastDecisionSnapshot(); ok {
		row.Snapshot = &snap
	}
	return row, nil
}

// DecodeInput validates raw against the replay schema and decodes it over the
// default config.
func DecodeInput(raw []byte) (ReplayInput, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ReplayInput{}, fmt.Errorf("invalid input JSON: %w", err)
	}
	if err := replaySchema.Validate(doc); err != nil {
		return ReplayInput{}, fmt.Errorf("input does not match schema: %w", err)
	}

	input := ReplayInput{Config: config.Default()}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return ReplayInput{}, fmt.Errorf("invalid input JSON: %w", err)
	}
	return input, nil
}

// RunJSON is the entry point shared by the CLI and WASM targets. It accepts a
// JSON-encoded ReplayInput, runs the replay, and returns a JSON-encoded ReplayLog.
func RunJSON(jsonInput string, opts ...Option) (string, error) {
	input, err := DecodeInput([]byte(jsonInput))
	if err != nil {
		return "", err
	}

	replay, err := NewReplay(input, opts...)
	if err != nil {
		return "", err
	}

	log, err := replay.Run(context.Background())
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(log)
	if err != nil {
		return "", fmt.Errorf("marshaling output: %w", err)
	}
	return string(out), nil
}
