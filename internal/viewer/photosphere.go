package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/roboscan/vrviewer/internal/engine"
)

// Photosphere defaults: a large sphere surrounding the camera, tessellated
// finely enough that the equirectangular mapping does not visibly kink.
const (
	SphereRadius         = 500.0
	SphereWidthSegments  = 60
	SphereHeightSegments = 40
)

// SphereConfig are the tunables of the photosphere mesh.
type SphereConfig struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
}

// DefaultSphereConfig returns the photosphere parameters of the original
// viewer.
func DefaultSphereConfig() SphereConfig {
	return SphereConfig{
		Radius:         SphereRadius,
		WidthSegments:  SphereWidthSegments,
		HeightSegments: SphereHeightSegments,
	}
}

// Validate reports whether the configuration is usable.
func (c SphereConfig) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("invalid sphere radius: %0.1f", c.Radius)
	}
	if c.WidthSegments < 3 || c.HeightSegments < 2 {
		return fmt.Errorf("invalid sphere tessellation: %dx%d", c.WidthSegments, c.HeightSegments)
	}
	return nil
}

// WithSphereLogger sets the logger for the sphere builder; it is used for
// texture load outcomes, which resolve outside the message handling path.
func WithSphereLogger(logger *slog.Logger) func(*SphereBuilder) {
	return func(b *SphereBuilder) {
		b.logger = logger
	}
}

// SphereBuilder builds inward-facing textured spheres for 360° images.
type SphereBuilder struct {
	config SphereConfig
	loader *engine.TextureLoader
	logger *slog.Logger
}

// NewSphereBuilder creates a builder that loads textures through the given
// loader.
func NewSphereBuilder(config SphereConfig, loader *engine.TextureLoader, options ...func(*SphereBuilder)) *SphereBuilder {
	b := SphereBuilder{
		config: config,
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&b)
	}

	return &b
}

// Build constructs the untextured sphere mesh. The X axis is mirrored, which
// inverts the winding so the visible surface faces a camera placed near the
// center. Rendering can start before any texture arrives.
func (b *SphereBuilder) Build() *engine.Mesh {
	widthSegs := b.config.WidthSegments
	heightSegs := b.config.HeightSegments
	radius := b.config.Radius

	numVertex := (widthSegs + 1) * (heightSegs + 1)
	positions := make([]float32, 0, numVertex*3)
	normals := make([]float32, 0, numVertex*3)
	uvs := make([]float32, 0, numVertex*2)

	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		theta := v * math32.Pi

		for x := 0; x <= widthSegs; x++ {
			u := float32(x) / float32(widthSegs)
			phi := u * 2 * math32.Pi

			// X is mirrored relative to the outward equirectangular
			// convention, which flips the winding inward.
			px := radius * math32.Cos(phi) * math32.Sin(theta)
			py := radius * math32.Cos(theta)
			pz := radius * math32.Sin(phi) * math32.Sin(theta)

			positions = append(positions, px, py, pz)
			normals = append(normals, -px/radius, -py/radius, -pz/radius)
			uvs = append(uvs, u, 1-v)
		}
	}

	indices := make([]uint32, 0, widthSegs*heightSegs*6)
	stride := uint32(widthSegs + 1)
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			a := uint32(y)*stride + uint32(x)
			d := a + 1
			c := a + stride + 1
			bIdx := a + stride

			indices = append(indices, a, bIdx, d, bIdx, c, d)
		}
	}

	geometry := &engine.Geometry{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
	}
	material := &engine.Material{Unlit: true}

	return engine.NewMesh(geometry, material)
}

// LoadTexture starts the background texture fetch for the sphere. When the
// load resolves, the texture is swapped in place only if active still reports
// the sphere as the slot's current object; a failed load is logged and leaves
// the sphere untextured.
func (b *SphereBuilder) LoadTexture(ctx context.Context, mesh *engine.Mesh, url string, active func() bool) {
	b.loader.Load(ctx, url,
		func(tex *engine.Texture) {
			if !active() {
				b.logger.Debug("photosphere replaced before texture load resolved", slog.String("url", url))
				return
			}
			mesh.Material.SetTexture(tex)
			b.logger.Info("photosphere texture applied", slog.String("url", url))
		},
		func(err error) {
			b.logger.Error("loading photosphere texture", slog.String("url", url), slog.String("error", err.Error()))
		})
}
