package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roboscan/vrviewer/internal/engine"
	"github.com/roboscan/vrviewer/internal/viewer"
)

// StdinInput selects the process standard input as the message channel.
const StdinInput = "-"

// Tuning are the scene conversion parameters. Zero values fall back to the
// built-in defaults, so a tuning file only needs the values it overrides.
type Tuning struct {
	MinDistanceCM        float64 `yaml:"minDistanceCM"`
	MaxDistanceCM        float64 `yaml:"maxDistanceCM"`
	PointSize            float32 `yaml:"pointSize"`
	HueSpan              float64 `yaml:"hueSpan"`
	SphereRadius         float32 `yaml:"sphereRadius"`
	SphereWidthSegments  int     `yaml:"sphereWidthSegments"`
	SphereHeightSegments int     `yaml:"sphereHeightSegments"`
}

// Config represents the viewer configuration.
type Config struct {
	Input      string // message source: a FIFO/file path, or "-" for stdin
	TuningFile string
	FrameRate  int
	Verbose    bool

	Tuning Tuning
}

// NewConfig returns a configuration with built-in defaults.
func NewConfig() *Config {
	return &Config{
		Input:     StdinInput,
		FrameRate: engine.DefaultFrameRate,
		Tuning: Tuning{
			MinDistanceCM:        viewer.MinDistanceCM,
			MaxDistanceCM:        viewer.MaxDistanceCM,
			PointSize:            viewer.DefaultPointSize,
			HueSpan:              viewer.HueSpan,
			SphereRadius:         viewer.SphereRadius,
			SphereWidthSegments:  viewer.SphereWidthSegments,
			SphereHeightSegments: viewer.SphereHeightSegments,
		},
	}
}

// NewConfigFromCLI builds the configuration from command line flags and the
// optional tuning file.
func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.Input, "i", StdinInput, "Message source: path to a FIFO or file, '-' for stdin")
	flag.StringVar(&c.TuningFile, "tuning", "", "Optional YAML tuning file")
	flag.IntVar(&c.FrameRate, "fps", engine.DefaultFrameRate, "Target frame rate")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	if c.TuningFile != "" {
		if err := c.loadTuning(c.TuningFile); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		flag.Usage()
		return nil, err
	}

	return c, nil
}

func (c *Config) loadTuning(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tuning file: %w", err)
	}

	var t Tuning
	if err = yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parsing tuning file: %w", err)
	}

	c.Tuning.apply(t)
	return nil
}

// apply overlays the non-zero values of t.
func (t *Tuning) apply(o Tuning) {
	if o.MinDistanceCM != 0 {
		t.MinDistanceCM = o.MinDistanceCM
	}
	if o.MaxDistanceCM != 0 {
		t.MaxDistanceCM = o.MaxDistanceCM
	}
	if o.PointSize != 0 {
		t.PointSize = o.PointSize
	}
	if o.HueSpan != 0 {
		t.HueSpan = o.HueSpan
	}
	if o.SphereRadius != 0 {
		t.SphereRadius = o.SphereRadius
	}
	if o.SphereWidthSegments != 0 {
		t.SphereWidthSegments = o.SphereWidthSegments
	}
	if o.SphereHeightSegments != 0 {
		t.SphereHeightSegments = o.SphereHeightSegments
	}
}

// CloudConfig returns the point cloud conversion parameters.
func (c *Config) CloudConfig() viewer.CloudConfig {
	return viewer.CloudConfig{
		MinDistanceCM: c.Tuning.MinDistanceCM,
		MaxDistanceCM: c.Tuning.MaxDistanceCM,
		PointSize:     c.Tuning.PointSize,
		HueSpan:       c.Tuning.HueSpan,
	}
}

// SphereConfig returns the photosphere parameters.
func (c *Config) SphereConfig() viewer.SphereConfig {
	return viewer.SphereConfig{
		Radius:         c.Tuning.SphereRadius,
		WidthSegments:  c.Tuning.SphereWidthSegments,
		HeightSegments: c.Tuning.SphereHeightSegments,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("message source is required")
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate: %d", c.FrameRate)
	}
	if err := c.CloudConfig().Validate(); err != nil {
		return err
	}
	return c.SphereConfig().Validate()
}
