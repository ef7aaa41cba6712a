// Package config loads planner settings from YAML and turns them into a ready
// action selector.
package config

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/frame"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/planner"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/reward"
	"github.com/meghdeepj/Social-Navigation-Simulator/internal/scorer"
)

// Config mirrors the sections of a planner config file.
type Config struct {
	RL          RL            `json:"rl" yaml:"rl"`
	ActionSpace ActionSpace   `json:"action_space" yaml:"action_space"`
	Planner     Planner       `json:"planner" yaml:"planner"`
	Reward      reward.Params `json:"reward" yaml:"reward"`
	Scorer      scorer.Config `json:"scorer" yaml:"scorer"`
}

type RL struct {
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

type ActionSpace struct {
	Kinematics      kinematics.Mode `json:"kinematics" yaml:"kinematics"`
	SpeedSamples    int             `json:"speed_samples" yaml:"speed_samples"`
	RotationSamples int             `json:"rotation_samples" yaml:"rotation_samples"`
}

type Planner struct {
	Phase    planner.Phase `json:"phase" yaml:"phase"`
	Epsilon  *float64      `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
	TimeStep float64       `json:"time_step" yaml:"time_step"` // seconds
	// Seed fixes the exploration stream; nil draws from the global source.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Default returns the settings used when a file leaves a field out. The default
// scorer prefers states closer to the goal.
func Default() Config {
	weights := make([]float64, frame.VectorLen)
	weights[0] = -1
	return Config{
		RL: RL{Gamma: 0.9},
		ActionSpace: ActionSpace{
			Kinematics:      kinematics.ModeHolonomic,
			SpeedSamples:    5,
			RotationSamples: 16,
		},
		Planner: Planner{
			Phase:    planner.PhaseTest,
			TimeStep: kinematics.DefaultTimeStep,
		},
		Reward: reward.DefaultParams(),
		Scorer: scorer.Config{Model: scorer.LinearModelName, Weights: weights},
	}
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if math.IsNaN(c.RL.Gamma) || c.RL.Gamma <= 0 || c.RL.Gamma > 1 {
		err = multierr.Append(err, fmt.Errorf("rl.gamma %v outside (0, 1]", c.RL.Gamma))
	}
	if _, perr := kinematics.ParseMode(string(c.ActionSpace.Kinematics)); perr != nil {
		err = multierr.Append(err, fmt.Errorf("action_space.kinematics: %w", perr))
	}
	if c.ActionSpace.SpeedSamples <= 0 {
		err = multierr.Append(err, errors.New("action_space.speed_samples must be positive"))
	}
	if c.ActionSpace.RotationSamples <= 0 {
		err = multierr.Append(err, errors.New("action_space.rotation_samples must be positive"))
	}
	switch c.Planner.Phase {
	case planner.PhaseTrain:
		if c.Planner.Epsilon == nil {
			err = multierr.Append(err, errors.New("planner.epsilon is required in the train phase"))
		}
	case planner.PhaseTest:
	default:
		err = multierr.Append(err, fmt.Errorf("planner.phase %q is not train or test", c.Planner.Phase))
	}
	if e := c.Planner.Epsilon; e != nil && (math.IsNaN(*e) || *e < 0 || *e > 1) {
		err = multierr.Append(err, fmt.Errorf("planner.epsilon %v outside [0, 1]", *e))
	}
	if c.Planner.TimeStep < 0 {
		err = multierr.Append(err, fmt.Errorf("planner.time_step %v is negative", c.Planner.TimeStep))
	}
	if c.Scorer.Model == "" {
		err = multierr.Append(err, errors.New("scorer.model is required"))
	}
	return err
}

// SelectorConfig returns the static part of the selector configuration.
func (c Config) SelectorConfig() planner.Config {
	return planner.Config{
		Kinematics:      c.ActionSpace.Kinematics,
		TimeStep:        c.Planner.TimeStep,
		Gamma:           c.RL.Gamma,
		SpeedSamples:    c.ActionSpace.SpeedSamples,
		RotationSamples: c.ActionSpace.RotationSamples,
	}
}

// NewSelector builds a selector with phase, exploration rate and scorer already
// set. opts are applied after the options derived from c.
func (c Config) NewSelector(opts ...planner.Option) (*planner.Selector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sc, err := scorer.New(c.Scorer)
	if err != nil {
		return nil, err
	}

	base := []planner.Option{planner.WithRewardParams(c.Reward)}
	if c.Planner.Seed != nil {
		seed := *c.Planner.Seed
		base = append(base, planner.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	s, err := planner.New(c.SelectorConfig(), append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := s.SetPhase(c.Planner.Phase); err != nil {
		return nil, err
	}
	if c.Planner.Epsilon != nil {
		if err := s.SetEpsilon(*c.Planner.Epsilon); err != nil {
			return nil, err
		}
	}
	s.SetScorer(sc)
	return s, nil
}
