package engine

import "sync"

// Object is anything that can be attached to the scene graph. Disposing an
// object releases the graphics resources it owns; the object must not be
// attached again afterwards.
type Object interface {
	Dispose()
}

// Geometry holds flat vertex buffers in the layout the GPU upload path
// expects: three floats per position, three per color, two per UV.
type Geometry struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	UVs       []float32
	Indices   []uint32

	disposed bool
}

// VertexCount returns the number of vertices in the position buffer.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Dispose releases the vertex buffers.
func (g *Geometry) Dispose() {
	g.Positions = nil
	g.Normals = nil
	g.Colors = nil
	g.UVs = nil
	g.Indices = nil
	g.disposed = true
}

// Disposed reports whether Dispose has been called.
func (g *Geometry) Disposed() bool {
	return g.disposed
}

// Material describes how an object is shaded. The zero value is an unlit,
// untextured material.
type Material struct {
	// PointSize is the rasterized size for point primitives.
	PointSize float32

	// VertexColors enables per-vertex coloring from Geometry.Colors.
	VertexColors bool

	// Unlit disables lighting so the texture or vertex colors appear as
	// authored.
	Unlit bool

	mu       sync.Mutex
	texture  *Texture
	disposed bool
}

// SetTexture swaps the material texture in place. Safe to call from the
// texture loader goroutine while the render loop reads the material.
func (m *Material) SetTexture(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	m.texture = t
}

// Texture returns the currently applied texture, or nil while the
// asynchronous load has not resolved.
func (m *Material) Texture() *Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}

// Dispose releases the material and detaches its texture.
func (m *Material) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texture = nil
	m.disposed = true
}

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// Points is a point-cloud renderable: one point per vertex, colored from the
// geometry color buffer.
type Points struct {
	Geometry *Geometry
	Material *Material
}

// NewPoints creates a point-cloud renderable from the given buffers.
func NewPoints(g *Geometry, m *Material) *Points {
	return &Points{Geometry: g, Material: m}
}

// Dispose releases the geometry and material owned by the point cloud.
func (p *Points) Dispose() {
	p.Geometry.Dispose()
	p.Material.Dispose()
}

// Mesh is an indexed triangle renderable.
type Mesh struct {
	Geometry *Geometry
	Material *Material
}

// NewMesh creates a triangle mesh renderable from the given buffers.
func NewMesh(g *Geometry, m *Material) *Mesh {
	return &Mesh{Geometry: g, Material: m}
}

// Dispose releases the geometry and material owned by the mesh.
func (m *Mesh) Dispose() {
	m.Geometry.Dispose()
	m.Material.Dispose()
}
