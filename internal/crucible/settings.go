package crucible

import (
	"fmt"

	"github.com/san-kum/tensegrity/internal/physics"
)

// Settings tune how a crucible drives its fabric.
type Settings struct {
	IterationsPerFrame int     `yaml:"iterations_per_frame"`
	GrowCountdown      int     `yaml:"grow_countdown"`
	PretenseCountdown  int     `yaml:"pretense_countdown"`
	SettleSpeed        float64 `yaml:"settle_speed"`

	// SettleLimit caps the ticks spent waiting for a pretensed fabric to come to rest.
	SettleLimit int `yaml:"settle_limit"`

	// PretenseFactor overrides the plan's factor when positive.
	PretenseFactor float64 `yaml:"pretense_factor"`

	// Interactive keeps a finished fabric running in the lab instead of stopping.
	Interactive bool `yaml:"interactive"`

	// Lab replaces the physics a finished fabric stands in.
	Lab *physics.Physics `yaml:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		IterationsPerFrame: 125,
		GrowCountdown:      1500,
		PretenseCountdown:  20000,
		SettleLimit:        50000,
		SettleSpeed:        1e-6,
	}
}

func (s Settings) Validate() error {
	if s.IterationsPerFrame <= 0 {
		return fmt.Errorf("crucible: iterations per frame must be positive, got %d", s.IterationsPerFrame)
	}
	if s.GrowCountdown < 0 || s.PretenseCountdown < 0 || s.SettleLimit < 0 {
		return fmt.Errorf("crucible: countdowns must not be negative")
	}
	if s.SettleSpeed <= 0 {
		return fmt.Errorf("crucible: settle speed must be positive, got %g", s.SettleSpeed)
	}
	if s.PretenseFactor < 0 {
		return fmt.Errorf("crucible: pretense factor must not be negative, got %g", s.PretenseFactor)
	}
	if s.Lab != nil {
		return s.Lab.Validate()
	}
	return nil
}
