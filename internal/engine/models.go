package engine

import (
	"encoding/json"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/config"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/planner"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/reward"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/state"
)

// ReplayMeta holds the identity and timing of a replay run.
//
// TimeStep is the spacing of the recording and only sets row timestamps. The
// planner looks ahead by config.planner.time_step; TimeStep falls back to that
// value when left out.
type ReplayMeta struct {
	RunID    string  `json:"run_id"`
	TimeStep float64 `json:"time_step"` // seconds between recorded ticks
}

// ReplayInput is the JSON-serialisable input to the engine. Config is decoded over
// config.Default, so any field may be left out.
type ReplayInput struct {
	Meta   ReplayMeta         `json:"meta"`
	Config config.Config      `json:"config"`
	Ticks  []state.JointState `json:"ticks"`
}

// DecisionRow is the planner's decision for one recorded tick.
type DecisionRow struct {
	Tick      int             `json:"tick"`
	Timestamp float64         `json:"timestamp"` // seconds
	Action    json.RawMessage `json:"action"`
	Path      planner.Path    `json:"path"`
	Index     int             `json:"index"`
	BestValue float64         `json:"best_value"`
	// RewardKind classifies the chosen transition; empty unless the action was evaluated.
	RewardKind reward.Kind        `json:"reward_kind,omitempty"`
	Snapshot   *frame.StateVector `json:"snapshot,omitempty"`
}

// ReplayLog is the complete output of a replay run.
type ReplayLog struct {
	Meta   ReplayMeta    `json:"meta"`
	Output []DecisionRow `json:"output"`
}

// Sink receives every decision row as it is produced.
type Sink interface {
	Write(v any) error
}

// Replay drives one selector over a recorded sequence of joint states.
type Replay struct {
	meta     ReplayMeta
	selector *planner.Selector
	ticks    []state.JointState
	sink     Sink
	opts     options
}
