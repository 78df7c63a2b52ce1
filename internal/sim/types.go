package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/fabric"
)

type Metric interface {
	Name() string
	Observe(f *fabric.Fabric, frame int)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(c *crucible.Crucible, frame int)
}

// ObserverFunc adapts a plain function to an Observer.
type ObserverFunc func(c *crucible.Crucible, frame int)

func (fn ObserverFunc) OnFrame(c *crucible.Crucible, frame int) { fn(c, frame) }

type Config struct {
	MaxFrames   int  `yaml:"max_frames"`
	SampleEvery int  `yaml:"sample_every"`
	StopAtRest  bool `yaml:"stop_at_rest"`
}

func DefaultConfig() Config {
	return Config{
		MaxFrames:   4000,
		SampleEvery: 10,
		StopAtRest:  true,
	}
}

func (c Config) Validate() error {
	if c.MaxFrames <= 0 {
		return fmt.Errorf("max frames must be positive, got %d", c.MaxFrames)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", c.SampleEvery)
	}
	return nil
}

// Sample is one row of run history, taken every SampleEvery frames.
type Sample struct {
	Frame     int     `json:"frame"`
	Age       int     `json:"age"`
	Stage     string  `json:"stage"`
	Speed     float64 `json:"speed"`
	Energy    float64 `json:"energy"`
	Height    float64 `json:"height"`
	Joints    int     `json:"joints"`
	Intervals int     `json:"intervals"`
}

type Result struct {
	Plan     string             `json:"plan"`
	Frames   int                `json:"frames"`
	Stage    string             `json:"stage"`
	Built    bool               `json:"built"`
	Unstable bool               `json:"unstable"`
	History  []Sample           `json:"history"`
	Metrics  map[string]float64 `json:"metrics"`
	Stats    fabric.Stats       `json:"stats"`
	Snapshot *fabric.Snapshot   `json:"snapshot,omitempty"`
	Elapsed  time.Duration      `json:"elapsed"`
}

// SimError reports where in a run the crucible gave up.
type SimError struct {
	Plan  string
	Frame int
	Stage string
	Err   error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("%s: frame %d (%s): %v", e.Plan, e.Frame, e.Stage, e.Err)
}

func (e *SimError) Unwrap() error { return e.Err }
