package kinematics

import (
	"encoding/json"
	"fmt"
)

// Mode selects how an agent's actions are interpreted. It is fixed per agent for
// its lifetime.
type Mode string

const (
	// ModeHolonomic lets velocity point in any direction independent of heading.
	ModeHolonomic Mode = "holonomic"
	// ModeUnicycle constrains motion to forward speed plus a turn rate.
	ModeUnicycle Mode = "unicycle"
)

// ParseMode resolves a mode discriminator string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeHolonomic, ModeUnicycle:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown kinematics %q", s)
	}
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown modes.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler so YAML decoding validates too.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
