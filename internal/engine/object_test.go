package engine

import "testing"

func TestGeometry_VertexCount(t *testing.T) {
	g := &Geometry{Positions: []float32{1, 2, 3, 4, 5, 6}}
	if n := g.VertexCount(); n != 2 {
		t.Errorf("Expected 2 vertices, got %d", n)
	}
}

func TestPoints_Dispose(t *testing.T) {
	p := NewPoints(
		&Geometry{Positions: []float32{1, 2, 3}, Colors: []float32{1, 0, 0}},
		&Material{PointSize: 2, VertexColors: true},
	)

	p.Dispose()

	if !p.Geometry.Disposed() || !p.Material.Disposed() {
		t.Error("Expected geometry and material to be disposed")
	}
	if p.Geometry.Positions != nil || p.Geometry.Colors != nil {
		t.Error("Expected vertex buffers to be released")
	}
}

func TestMesh_Dispose(t *testing.T) {
	m := NewMesh(&Geometry{Positions: []float32{1, 2, 3}}, &Material{Unlit: true})
	m.Material.SetTexture(&Texture{SRGB: true})

	m.Dispose()

	if !m.Geometry.Disposed() || !m.Material.Disposed() {
		t.Error("Expected geometry and material to be disposed")
	}
	if m.Material.Texture() != nil {
		t.Error("Expected texture to be detached")
	}
}

func TestMaterial_SetTextureAfterDispose(t *testing.T) {
	m := &Material{}
	m.Dispose()

	// A texture load resolving after the material was replaced must not
	// resurrect it.
	m.SetTexture(&Texture{})

	if m.Texture() != nil {
		t.Error("Expected no texture on a disposed material")
	}
}
