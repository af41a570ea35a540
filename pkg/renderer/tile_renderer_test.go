package renderer

import (
	"image"
	"math"
	"sync/atomic"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// MockIntegrator returns a fixed color and counts its calls
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   atomic.Int64
}

func (m *MockIntegrator) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	m.callCount.Add(1)
	return m.returnColor
}

// noiseIntegrator returns values drawn from the sampler so the image depends
// on every pixel's sample stream
type noiseIntegrator struct{}

func (noiseIntegrator) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	return core.NewVec3(sampler.Get1D(), sampler.Get1D(), math.Abs(ray.Direction.X))
}

// createTestScene creates an activated scene with a single sphere
func createTestScene(t *testing.T, integrator scene.Integrator, width, height int) *scene.Scene {
	t.Helper()

	config := geometry.DefaultCameraConfig()
	config.Width = width
	config.Height = height
	config.ToWorld = core.LookAt(core.NewVec3(0, 0, -3), core.Vec3{}, core.NewVec3(0, 1, 0))

	s := scene.New()
	for _, child := range []interface{}{geometry.NewCamera(config), geometry.NewSphere(core.Vec3{}, 0.5), integrator} {
		if err := s.AddChild(child); err != nil {
			t.Fatalf("AddChild failed: %v", err)
		}
	}
	if err := s.Activate(core.NopLogger{}); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	return s
}

func TestTileRendererPixelSampling(t *testing.T) {
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(0.7, 0.3, 0.1)}
	s := createTestScene(t, mockIntegrator, 8, 8)
	renderer := NewTileRenderer(s, DefaultConfig())

	tile := NewTile(0, image.Rect(2, 2, 4, 4))
	targetSamples := 4
	stats := renderer.RenderTile(tile, 1, targetSamples)

	if got := mockIntegrator.callCount.Load(); got != 16 {
		t.Errorf("Expected 16 integrator calls, got %d", got)
	}
	if stats.TotalPixels != 4 || stats.TotalSamples != 16 {
		t.Errorf("Expected 4 pixels and 16 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.MaxSamples != targetSamples || stats.AverageSamples != 4 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			ps := tile.pixel(x, y)
			if ps.SampleCount != targetSamples {
				t.Errorf("Pixel (%d,%d) has %d samples, want %d", x, y, ps.SampleCount, targetSamples)
			}
			if ps.GetColor().Subtract(mockIntegrator.returnColor).Length() > 1e-12 {
				t.Errorf("Pixel (%d,%d) color %v, want %v", x, y, ps.GetColor(), mockIntegrator.returnColor)
			}
		}
	}
}

func TestTileRendererAdaptiveSampling(t *testing.T) {
	s := createTestScene(t, &MockIntegrator{returnColor: core.NewVec3(0.5, 0.5, 0.5)}, 4, 4)

	config := DefaultConfig()
	config.AdaptiveMinSamples = 0.1
	config.AdaptiveThreshold = 0.001
	renderer := NewTileRenderer(s, config)

	tile := NewTile(0, image.Rect(0, 0, 1, 1))
	stats := renderer.RenderTile(tile, 1, 100)

	// A constant pixel converges as soon as the minimum is reached
	if got := tile.pixel(0, 0).SampleCount; got != 10 {
		t.Errorf("Expected adaptive sampling to stop at 10 samples, got %d", got)
	}
	if stats.MaxSamplesUsed != 10 || stats.MinSamples != 10 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestTileRendererNoAdaptiveStopWhenDisabled(t *testing.T) {
	s := createTestScene(t, &MockIntegrator{returnColor: core.NewVec3(0.5, 0.5, 0.5)}, 4, 4)
	renderer := NewTileRenderer(s, DefaultConfig())

	tile := NewTile(0, image.Rect(0, 0, 1, 1))
	renderer.RenderTile(tile, 1, 30)
	if got := tile.pixel(0, 0).SampleCount; got != 30 {
		t.Errorf("Expected all 30 samples, got %d", got)
	}
}

func TestTileRendererInvalidSamples(t *testing.T) {
	s := createTestScene(t, &MockIntegrator{returnColor: core.NewVec3(math.NaN(), 1, 1)}, 4, 4)
	renderer := NewTileRenderer(s, DefaultConfig())

	tile := NewTile(0, image.Rect(0, 0, 2, 1))
	stats := renderer.RenderTile(tile, 1, 3)

	if stats.InvalidSamples != 6 {
		t.Errorf("Expected 6 invalid samples, got %d", stats.InvalidSamples)
	}
	if c := tile.pixel(1, 0).GetColor(); c != (core.Vec3{}) {
		t.Errorf("Expected invalid samples to count as black, got %v", c)
	}
}

func TestTileRendererResumesAcrossPasses(t *testing.T) {
	mockIntegrator := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	s := createTestScene(t, mockIntegrator, 4, 4)
	renderer := NewTileRenderer(s, DefaultConfig())

	tile := NewTile(0, image.Rect(0, 0, 1, 1))
	renderer.RenderTile(tile, 1, 2)
	stats := renderer.RenderTile(tile, 2, 5)

	if got := tile.pixel(0, 0).SampleCount; got != 5 {
		t.Errorf("Expected 5 accumulated samples, got %d", got)
	}
	if stats.TotalSamples != 3 {
		t.Errorf("Expected 3 new samples in the second pass, got %d", stats.TotalSamples)
	}
}

func TestTileRendererPixelSeeding(t *testing.T) {
	s := createTestScene(t, noiseIntegrator{}, 8, 8)
	renderer := NewTileRenderer(s, DefaultConfig())

	// The same pixel rendered as part of different tiles gets the same samples
	small := NewTile(0, image.Rect(3, 3, 4, 4))
	large := NewTile(1, image.Rect(0, 0, 8, 8))
	renderer.RenderTile(small, 1, 4)
	renderer.RenderTile(large, 1, 4)

	if small.pixel(3, 3).GetColor() != large.pixel(3, 3).GetColor() {
		t.Errorf("Pixel estimate depends on the tile: %v vs %v",
			small.pixel(3, 3).GetColor(), large.pixel(3, 3).GetColor())
	}
	if large.pixel(3, 3).GetColor() == large.pixel(4, 3).GetColor() {
		t.Error("Neighbouring pixels should use different sample streams")
	}
}
