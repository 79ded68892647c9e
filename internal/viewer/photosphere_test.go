package viewer

import (
	"context"
	"image"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roboscan/vrviewer/internal/engine"
)

func TestSphereBuilder_Build_Tessellation(t *testing.T) {
	builder := NewSphereBuilder(DefaultSphereConfig(), engine.NewTextureLoader())
	mesh := builder.Build()

	wantVertices := (SphereWidthSegments + 1) * (SphereHeightSegments + 1)
	if n := mesh.Geometry.VertexCount(); n != wantVertices {
		t.Errorf("Expected %d vertices, got %d", wantVertices, n)
	}

	wantIndices := SphereWidthSegments * SphereHeightSegments * 6
	if n := len(mesh.Geometry.Indices); n != wantIndices {
		t.Errorf("Expected %d indices, got %d", wantIndices, n)
	}

	if len(mesh.Geometry.UVs) != wantVertices*2 {
		t.Errorf("Expected %d UV components, got %d", wantVertices*2, len(mesh.Geometry.UVs))
	}
	if len(mesh.Geometry.Normals) != wantVertices*3 {
		t.Errorf("Expected %d normal components, got %d", wantVertices*3, len(mesh.Geometry.Normals))
	}

	if !mesh.Material.Unlit {
		t.Error("Expected unlit material")
	}
	if mesh.Material.Texture() != nil {
		t.Error("Expected no texture before the load resolves")
	}
}

func TestSphereBuilder_Build_Radius(t *testing.T) {
	builder := NewSphereBuilder(DefaultSphereConfig(), engine.NewTextureLoader())
	mesh := builder.Build()

	pos := mesh.Geometry.Positions
	for i := 0; i < len(pos); i += 3 {
		r := math.Sqrt(float64(pos[i])*float64(pos[i]) +
			float64(pos[i+1])*float64(pos[i+1]) +
			float64(pos[i+2])*float64(pos[i+2]))
		if math.Abs(r-SphereRadius) > 0.01 {
			t.Fatalf("Vertex %d: expected radius %v, got %v", i/3, float64(SphereRadius), r)
		}
	}
}

func TestSphereBuilder_Build_UVCorners(t *testing.T) {
	builder := NewSphereBuilder(DefaultSphereConfig(), engine.NewTextureLoader())
	mesh := builder.Build()

	uvs := mesh.Geometry.UVs

	// First vertex is the top-left of the equirectangular map, last is the
	// bottom-right; V is flipped so the image is not upside down.
	if uvs[0] != 0 || uvs[1] != 1 {
		t.Errorf("Expected first UV (0, 1), got (%v, %v)", uvs[0], uvs[1])
	}
	last := len(uvs) - 2
	if uvs[last] != 1 || uvs[last+1] != 0 {
		t.Errorf("Expected last UV (1, 0), got (%v, %v)", uvs[last], uvs[last+1])
	}
}

// TestSphereBuilder_Build_InwardWinding verifies that every non-degenerate
// triangle faces the center: the geometric normal from the index order must
// point against the triangle's position on the sphere.
func TestSphereBuilder_Build_InwardWinding(t *testing.T) {
	builder := NewSphereBuilder(DefaultSphereConfig(), engine.NewTextureLoader())
	mesh := builder.Build()

	pos := mesh.Geometry.Positions
	idx := mesh.Geometry.Indices

	vertex := func(i uint32) [3]float64 {
		return [3]float64{float64(pos[i*3]), float64(pos[i*3+1]), float64(pos[i*3+2])}
	}

	var inward int
	for i := 0; i < len(idx); i += 3 {
		a, b, c := vertex(idx[i]), vertex(idx[i+1]), vertex(idx[i+2])

		e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cross := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}

		norm := math.Sqrt(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])
		if norm < 1e-6 {
			// Pole quads collapse one triangle to a line.
			continue
		}

		centroid := [3]float64{
			(a[0] + b[0] + c[0]) / 3,
			(a[1] + b[1] + c[1]) / 3,
			(a[2] + b[2] + c[2]) / 3,
		}
		dot := cross[0]*centroid[0] + cross[1]*centroid[1] + cross[2]*centroid[2]
		if dot >= 0 {
			t.Fatalf("Triangle %d faces outward (dot=%v)", i/3, dot)
		}
		inward++
	}

	if inward == 0 {
		t.Fatal("Expected at least one non-degenerate triangle")
	}
}

func TestSphereBuilder_Build_InwardNormals(t *testing.T) {
	builder := NewSphereBuilder(DefaultSphereConfig(), engine.NewTextureLoader())
	mesh := builder.Build()

	pos := mesh.Geometry.Positions
	normals := mesh.Geometry.Normals

	for i := 0; i < len(pos); i += 3 {
		dot := float64(pos[i])*float64(normals[i]) +
			float64(pos[i+1])*float64(normals[i+1]) +
			float64(pos[i+2])*float64(normals[i+2])
		if math.Abs(dot+SphereRadius) > 0.01 {
			t.Fatalf("Vertex %d: expected inward unit normal, got dot product %v", i/3, dot)
		}
	}
}

func TestSphereConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*SphereConfig)
		wantErr bool
	}{
		{"defaults", func(c *SphereConfig) {}, false},
		{"zero radius", func(c *SphereConfig) { c.Radius = 0 }, true},
		{"too few width segments", func(c *SphereConfig) { c.WidthSegments = 2 }, true},
		{"too few height segments", func(c *SphereConfig) { c.HeightSegments = 1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultSphereConfig()
			tc.mutate(&config)
			if err := config.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Expected wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

// textureServer serves a small valid PNG on every request.
func textureServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := png.Encode(w, image.NewRGBA(image.Rect(0, 0, 4, 2))); err != nil {
			t.Errorf("Failed to encode texture: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSphereBuilder_LoadTexture_Applied(t *testing.T) {
	srv := textureServer(t)

	loader := engine.NewTextureLoader(engine.WithLoaderClient(srv.Client()))
	builder := NewSphereBuilder(DefaultSphereConfig(), loader)
	mesh := builder.Build()

	builder.LoadTexture(context.Background(), mesh, srv.URL, func() bool { return true })

	deadline := time.Now().Add(5 * time.Second)
	for mesh.Material.Texture() == nil {
		if time.Now().After(deadline) {
			t.Fatal("Texture load did not resolve")
		}
		time.Sleep(10 * time.Millisecond)
	}

	tex := mesh.Material.Texture()
	if !tex.SRGB {
		t.Error("Expected texture flagged as sRGB")
	}
	if tex.Image == nil {
		t.Error("Expected decoded texture image")
	}
}

func TestSphereBuilder_LoadTexture_ReplacedSphereSkipsSwap(t *testing.T) {
	srv := textureServer(t)

	loader := engine.NewTextureLoader(engine.WithLoaderClient(srv.Client()))
	builder := NewSphereBuilder(DefaultSphereConfig(), loader)
	mesh := builder.Build()

	checked := make(chan struct{})
	builder.LoadTexture(context.Background(), mesh, srv.URL, func() bool {
		defer close(checked)
		return false
	})

	select {
	case <-checked:
	case <-time.After(5 * time.Second):
		t.Fatal("Texture load did not resolve")
	}

	if mesh.Material.Texture() != nil {
		t.Error("Texture was swapped into a replaced photosphere")
	}
}
