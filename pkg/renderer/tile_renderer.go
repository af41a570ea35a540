package renderer

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// TileRenderer renders individual tiles using the scene's integrator
type TileRenderer struct {
	scene  *scene.Scene
	config Config
}

// NewTileRenderer creates a new tile renderer for an activated scene
func NewTileRenderer(s *scene.Scene, config Config) *TileRenderer {
	return &TileRenderer{
		scene:  s,
		config: config,
	}
}

// RenderTile adds samples to the tile's own pixel buffer until every pixel
// reaches targetSamples or converges. The tile gets one sampler cloned from
// the scene's prototype, re-seeded per pixel and pass, so the result does not
// depend on which worker renders the tile.
func (tr *TileRenderer) RenderTile(tile *Tile, pass, targetSamples int) RenderStats {
	sampler := tr.scene.Sampler().Clone()
	bounds := tile.Bounds
	stats := newRenderStats(targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			sampler.Seed(core.PixelSeed(core.PixelSeed(tr.config.Seed, i, j), pass, 0))
			samplesUsed, invalid := tr.samplePixel(sampler, i, j, tile.pixel(i, j), targetSamples)
			stats.InvalidSamples += invalid
			stats.addPixel(samplesUsed)
		}
	}

	stats.finalize()
	return stats
}

// samplePixel takes jittered camera samples until the pixel reaches
// maxSamples or converges. Non-finite radiance is recorded as black.
func (tr *TileRenderer) samplePixel(sampler core.Sampler, i, j int, ps *PixelStats, maxSamples int) (int, int) {
	camera := tr.scene.Camera()
	integrator := tr.scene.Integrator()
	before := ps.SampleCount
	invalid := 0

	for ps.SampleCount < maxSamples && !tr.converged(ps, maxSamples) {
		jitter := sampler.Get2D()
		ray := camera.SampleRay(float64(i)+jitter.X, float64(j)+jitter.Y)
		color := integrator.Li(tr.scene, sampler, ray)
		if !color.IsFinite() {
			invalid++
			color = core.Vec3{}
		}
		ps.AddSample(color)
	}

	return ps.SampleCount - before, invalid
}

// converged reports whether the standard error of the pixel's luminance,
// relative to its mean, fell below the adaptive threshold
func (tr *TileRenderer) converged(ps *PixelStats, maxSamples int) bool {
	if tr.config.AdaptiveThreshold <= 0 {
		return false
	}
	minSamples := max(1, int(float64(maxSamples)*tr.config.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean, variance := ps.luminanceMoments()
	if mean <= 1e-8 {
		// Black pixel
		return variance < 1e-6
	}
	return math.Sqrt(variance/float64(ps.SampleCount))/mean < tr.config.AdaptiveThreshold
}
