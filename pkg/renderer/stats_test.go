package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/imageio"
)

func TestCalculateAverageLuminance(t *testing.T) {
	img := imageio.NewImageData(2, 2)
	img.Set(0, 0, core.NewVec3(1, 0, 0))
	img.Set(1, 0, core.NewVec3(0, 1, 0))
	img.Set(0, 1, core.NewVec3(0, 0, 1))

	// Luminance weights sum to one, so the three primaries average to 1/4
	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-0.25) > 1e-9 {
		t.Errorf("Expected average luminance 0.25, got %f", avgLum)
	}

	if CalculateAverageLuminance(imageio.NewImageData(0, 0)) != 0 {
		t.Error("Expected zero luminance for an empty image")
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Expected black for an unsampled pixel, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewVec3(1, 2, 3))
	ps.AddSample(core.NewVec3(3, 2, 1))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if ps.GetColor() != core.NewVec3(2, 2, 2) {
		t.Errorf("Expected mean (2, 2, 2), got %v", ps.GetColor())
	}
	wantLum := core.NewVec3(1, 2, 3).Luminance() + core.NewVec3(3, 2, 1).Luminance()
	if math.Abs(ps.LuminanceAccum-wantLum) > 1e-12 {
		t.Errorf("LuminanceAccum = %v, want %v", ps.LuminanceAccum, wantLum)
	}
}
