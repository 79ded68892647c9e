package app

import (
	"image/color"

	"github.com/roboscan/vrviewer/internal/viewer"
)

// DefaultColorMapSize is the default number of colors in the lookup table.
const DefaultColorMapSize = 256

// DistanceMapper provides distance-to-color mapping through a pre-computed
// lookup table, sharing the exact mapping the geometry builder applies to
// live point clouds.
type DistanceMapper struct {
	colorMap     []color.Color
	min          float64
	distPerIndex float64
	size         int
}

// NewDistanceMapper creates a mapper over the distance window of cfg. A size
// of zero or less selects DefaultColorMapSize.
func NewDistanceMapper(cfg viewer.CloudConfig, size int) *DistanceMapper {
	if size <= 0 {
		size = DefaultColorMapSize
	}

	builder := viewer.NewCloudBuilder(cfg)

	m := DistanceMapper{
		colorMap:     make([]color.Color, size),
		min:          cfg.MinDistanceCM,
		distPerIndex: (cfg.MaxDistanceCM - cfg.MinDistanceCM) / float64(size-1),
		size:         size,
	}

	for i := 0; i < size; i++ {
		dist := cfg.MinDistanceCM + float64(i)*m.distPerIndex
		m.colorMap[i] = builder.Color(dist).Clamped()
	}

	return &m
}

// GetColor returns the color for the given distance, clamped to the window.
func (m *DistanceMapper) GetColor(dist float64) color.Color {
	index := int((dist - m.min) / m.distPerIndex)

	if index < 0 {
		return m.colorMap[0]
	}
	if index >= m.size {
		return m.colorMap[m.size-1]
	}
	return m.colorMap[index]
}

// Size returns the color map size.
func (m *DistanceMapper) Size() int {
	return m.size
}
