package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/roboscan/vrviewer/internal/viewer"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

// Config represents the snapshot tool configuration.
type Config struct {
	LogPath    string // NDJSON message log, one inbound message per line
	OutputFile string
	Format     ImageFormat
	PlotSize   int // side of the square plot area in pixels
	MinDist    *float64
	MaxDist    *float64
	Verbose    bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format:   ImagePNG,
		PlotSize: defaultPlotSize,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	var minDist, maxDist float64
	flag.StringVar(&c.LogPath, "i", "", "Path to the recorded message log")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.IntVar(&c.PlotSize, "size", defaultPlotSize, "Plot area size in pixels")
	flag.Float64Var(&minDist, "min-dist", 0, "Override the minimum accepted distance in cm (format nn.n)")
	flag.Float64Var(&maxDist, "max-dist", 0, "Override the maximum accepted distance in cm (format nn.n)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min-dist" {
			c.MinDist = &minDist
		}
		if f.Name == "max-dist" {
			c.MaxDist = &maxDist
		}
	})

	var err error
	if c.LogPath == "" {
		err = errors.New("message log path is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if c.PlotSize <= 0 {
		err = fmt.Errorf("invalid plot size: %d", c.PlotSize)
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}

// CloudConfig returns the point cloud conversion parameters with any CLI
// overrides applied.
func (c *Config) CloudConfig() viewer.CloudConfig {
	cfg := viewer.DefaultCloudConfig()
	if c.MinDist != nil {
		cfg.MinDistanceCM = *c.MinDist
	}
	if c.MaxDist != nil {
		cfg.MaxDistanceCM = *c.MaxDist
	}
	return cfg
}
