package viewer

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roboscan/vrviewer/internal/engine"
	"github.com/roboscan/vrviewer/internal/scan"
)

// Point cloud defaults. The distance window excludes the ultrasonic sensor's
// noise floor below and out-of-range returns above; both bounds are
// exclusive.
const (
	MinDistanceCM = 0.1
	MaxDistanceCM = 400.0

	DefaultPointSize = 2.0

	// HueSpan is the hue at zero distance; hue falls linearly to 0 (red) as
	// distance approaches the far bound, so near returns render hot and far
	// returns cool.
	HueSpan = 0.7
)

// CloudConfig are the tunables of the point cloud conversion.
type CloudConfig struct {
	MinDistanceCM float64
	MaxDistanceCM float64
	PointSize     float32
	HueSpan       float64
}

// DefaultCloudConfig returns the conversion parameters of the original
// viewer.
func DefaultCloudConfig() CloudConfig {
	return CloudConfig{
		MinDistanceCM: MinDistanceCM,
		MaxDistanceCM: MaxDistanceCM,
		PointSize:     DefaultPointSize,
		HueSpan:       HueSpan,
	}
}

// CloudStats summarizes one table conversion.
type CloudStats struct {
	Rows     int // rows in the decoded table
	Accepted int // rows emitted as points
	Skipped  int // rows dropped for invalid fields or out-of-window distance
}

// CloudBuilder converts point tables into colored point-cloud renderables.
type CloudBuilder struct {
	config CloudConfig
}

// NewCloudBuilder creates a builder with the given conversion parameters.
func NewCloudBuilder(config CloudConfig) *CloudBuilder {
	return &CloudBuilder{config: config}
}

// Build converts a point table, given as JSON text, into a point cloud.
// Rows with non-numeric fields or a distance outside the accepted window are
// skipped; an empty table produces a valid empty cloud. A malformed table is
// an error and no renderable is produced.
func (b *CloudBuilder) Build(tableJSON string) (*engine.Points, CloudStats, error) {
	var stats CloudStats

	table, err := scan.Decode([]byte(tableJSON))
	if err != nil {
		return nil, stats, err
	}

	xi := table.Index(scan.ColumnX)
	yi := table.Index(scan.ColumnY)
	zi := table.Index(scan.ColumnZ)
	di := table.Index(scan.ColumnDistance)

	stats.Rows = len(table.Rows) + table.SkippedRows
	stats.Skipped = table.SkippedRows

	positions := make([]float32, 0, len(table.Rows)*3)
	colors := make([]float32, 0, len(table.Rows)*3)

	for _, row := range table.Rows {
		x, okX := scan.Field(row, xi)
		y, okY := scan.Field(row, yi)
		z, okZ := scan.Field(row, zi)
		dist, okD := scan.Field(row, di)

		if !okX || !okY || !okZ || !okD {
			stats.Skipped++
			continue
		}
		if dist <= b.config.MinDistanceCM || dist >= b.config.MaxDistanceCM {
			stats.Skipped++
			continue
		}

		// Sensor axes map onto the engine's right-handed, Y-up world:
		// sensor Y -> render X, sensor Z -> render Y, sensor X -> render Z.
		positions = append(positions, float32(y), float32(z), float32(x))

		cr, cg, cb := b.pointColor(dist)
		colors = append(colors, cr, cg, cb)
		stats.Accepted++
	}

	geometry := &engine.Geometry{
		Positions: positions,
		Colors:    colors,
	}
	material := &engine.Material{
		PointSize:    b.config.PointSize,
		VertexColors: true,
		Unlit:        true,
	}

	return engine.NewPoints(geometry, material), stats, nil
}

// hue returns the hue fraction [0..1) for a distance within the window.
func (b *CloudBuilder) hue(dist float64) float64 {
	return b.config.HueSpan - b.config.HueSpan*(dist/b.config.MaxDistanceCM)
}

// pointColor maps a distance to linear RGB via HSL at full saturation and
// half lightness.
func (b *CloudBuilder) pointColor(dist float64) (r, g, bl float32) {
	c := colorful.Hsl(b.hue(dist)*360, 1, 0.5)
	lr, lg, lb := c.LinearRgb()
	return float32(lr), float32(lg), float32(lb)
}

// Color exposes the distance-to-color mapping for renderers that draw points
// outside the engine, such as the snapshot tool. The returned color is in
// sRGB.
func (b *CloudBuilder) Color(dist float64) colorful.Color {
	return colorful.Hsl(b.hue(dist)*360, 1, 0.5)
}

// Validate reports whether the configuration is usable.
func (c CloudConfig) Validate() error {
	if c.MinDistanceCM >= c.MaxDistanceCM {
		return fmt.Errorf("invalid distance window: min=%0.1f, max=%0.1f", c.MinDistanceCM, c.MaxDistanceCM)
	}
	if c.PointSize <= 0 {
		return fmt.Errorf("invalid point size: %0.1f", c.PointSize)
	}
	return nil
}
