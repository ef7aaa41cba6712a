package actionspace

import (
	"slices"

	"github.com/meghdeepj/Social-Navigation-Simulator/internal/kinematics"
)

// Cache holds one agent's action space, built on first use and rebuilt only when the
// preferred speed changes. It is owned by a single selector and is not safe for
// concurrent use.
type Cache struct {
	mode            kinematics.Mode
	speedSamples    int
	rotationSamples int

	space *Space
}

// NewCache returns an empty cache for the given mode and sampling resolution.
func NewCache(mode kinematics.Mode, speedSamples, rotationSamples int) *Cache {
	return &Cache{mode: mode, speedSamples: speedSamples, rotationSamples: rotationSamples}
}

// Get returns the action space for vPref. The second result reports whether a
// (re)build happened. The returned slices are copies; mutating them leaves the
// cached space intact.
func (c *Cache) Get(vPref float64) (Space, bool, error) {
	if c.space != nil && c.space.PrefSpeed == vPref {
		return c.space.clone(), false, nil
	}
	s, err := Build(vPref, c.mode, c.speedSamples, c.rotationSamples)
	if err != nil {
		return Space{}, false, err
	}
	c.space = &s
	return s.clone(), true, nil
}

func (s Space) clone() Space {
	s.Speeds = slices.Clone(s.Speeds)
	s.Rotations = slices.Clone(s.Rotations)
	s.Actions = slices.Clone(s.Actions)
	return s
}
