package renderer

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/imageio"
)

// RenderStats summarises how many samples a tile or pass took
type RenderStats struct {
	TotalPixels    int
	TotalSamples   int
	AverageSamples float64
	MaxSamples     int // Per-pixel sample target
	MinSamples     int // Fewest samples taken by any pixel
	MaxSamplesUsed int // Most samples taken by any pixel
	InvalidSamples int // Samples discarded because Li was not finite
}

func newRenderStats(targetSamples int) RenderStats {
	return RenderStats{MaxSamples: targetSamples, MinSamples: targetSamples}
}

// addPixel records the sample count of one pixel
func (s *RenderStats) addPixel(samples int) {
	s.TotalPixels++
	s.TotalSamples += samples
	s.MinSamples = min(s.MinSamples, samples)
	s.MaxSamplesUsed = max(s.MaxSamplesUsed, samples)
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats accumulates the radiance samples of one pixel, plus the
// luminance moments used by adaptive sampling
type PixelStats struct {
	ColorAccum       core.Vec3
	LuminanceAccum   float64
	LuminanceSqAccum float64
	SampleCount      int
}

// AddSample adds one radiance sample
func (ps *PixelStats) AddSample(color core.Vec3) {
	lum := color.Luminance()
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.LuminanceAccum += lum
	ps.LuminanceSqAccum += lum * lum
	ps.SampleCount++
}

// GetColor returns the mean of the samples so far, black before the first
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1 / float64(ps.SampleCount))
}

// luminanceMoments returns the sample mean and variance of the luminance
func (ps *PixelStats) luminanceMoments() (mean, variance float64) {
	n := float64(ps.SampleCount)
	mean = ps.LuminanceAccum / n
	variance = math.Max(0, ps.LuminanceSqAccum/n-mean*mean)
	return mean, variance
}

// CalculateAverageLuminance returns the mean luminance of an image
func CalculateAverageLuminance(img *imageio.ImageData) float64 {
	if len(img.Pixels) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range img.Pixels {
		sum += c.Luminance()
	}
	return sum / float64(len(img.Pixels))
}
