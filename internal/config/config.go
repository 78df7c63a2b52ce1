package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/physics"
)

const (
	DefaultPlan     = "flagellum"
	DefaultFrames   = 4000
	DefaultDataDir  = "runs"
	DefaultLogLevel = "info"
)

type Config struct {
	Plan     string            `yaml:"plan"`
	PlanDir  string            `yaml:"plan_dir,omitempty"`
	Frames   int               `yaml:"frames"`
	Seed     int64             `yaml:"seed"`
	Physics  PhysicsConfig     `yaml:"physics"`
	Crucible crucible.Settings `yaml:"crucible"`
	Storage  StorageConfig     `yaml:"storage"`
	Log      LogConfig         `yaml:"log"`
}

// PhysicsConfig picks the environment a finished fabric stands in. An
// empty preset keeps the one chosen by the plan's pretense section.
type PhysicsConfig struct {
	Preset    string           `yaml:"preset"`
	Surface   *physics.Surface `yaml:"surface,omitempty"`
	Gravity   *float64         `yaml:"gravity,omitempty"`
	Viscosity *float64         `yaml:"viscosity,omitempty"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Plan:     DefaultPlan,
		Frames:   DefaultFrames,
		Crucible: crucible.DefaultSettings(),
		Storage:  StorageConfig{DataDir: DefaultDataDir},
		Log:      LogConfig{Level: DefaultLogLevel},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve applies the overrides to the named preset. It returns nil when
// no preset is named.
func (p PhysicsConfig) Resolve() (*physics.Physics, error) {
	if p.Preset == "" {
		return nil, nil
	}
	preset := GetPreset(p.Preset)
	if preset == nil {
		return nil, fmt.Errorf("config: unknown physics preset %q", p.Preset)
	}
	if p.Surface != nil {
		preset.Surface = *p.Surface
	}
	if p.Gravity != nil {
		preset.Gravity = *p.Gravity
	}
	if p.Viscosity != nil {
		preset.Viscosity = *p.Viscosity
	}
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return preset, nil
}

// Settings returns the crucible settings with the physics preset applied.
func (c *Config) Settings() (crucible.Settings, error) {
	settings := c.Crucible
	lab, err := c.Physics.Resolve()
	if err != nil {
		return settings, err
	}
	settings.Lab = lab
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: %w", err)
	}
	return level, nil
}
