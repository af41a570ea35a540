package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// AmbientOcclusion estimates the cosine-weighted fraction of the hemisphere
// above a hit point that is not blocked by other geometry
type AmbientOcclusion struct {
	NSamples int
	Warp     warp.Kind // UniformHemisphere or CosineHemisphere
}

// NewAmbientOcclusion creates an ambient occlusion integrator
func NewAmbientOcclusion(nSamples int, kind warp.Kind) *AmbientOcclusion {
	return &AmbientOcclusion{NSamples: nSamples, Warp: kind}
}

// NewAmbientOcclusionFromProperties reads "nSamples" and "warp-type"
func NewAmbientOcclusionFromProperties(props *core.Properties) (*AmbientOcclusion, error) {
	nSamples, err := props.Int("nSamples", 1)
	if err != nil {
		return nil, err
	}
	if nSamples < 1 {
		return nil, core.NewConfigurationError("ao", "nSamples must be positive, got %d", nSamples)
	}
	name, err := props.String("warp-type", "")
	if err != nil {
		return nil, err
	}
	kind, err := warp.ForMeasure(core.MeasureHemisphere, name)
	if err != nil {
		return nil, err
	}
	return NewAmbientOcclusion(nSamples, kind), nil
}

// Li returns the unoccluded fraction at the first hit, or zero on a miss
func (ao *AmbientOcclusion) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	its, hit := s.RayIntersect(ray)
	if !hit {
		return core.Vec3{}
	}

	maxT := s.BoundingBox().Extents().Length()
	visible := 0.0
	for i := 0; i < ao.NSamples; i++ {
		q := warp.Warp(ao.Warp, sampler.Get2D(), 0)
		if q.PDF <= 0 {
			continue
		}
		wi := its.ToWorld(q.Point).Normalize()
		if s.Occluded(core.NewRaySegment(its.P, wi, core.Epsilon, maxT)) {
			continue
		}

		// the cosine warp already accounts for the cosine term
		weight := 1.0
		if ao.Warp == warp.UniformHemisphere {
			weight = max(core.CosTheta(q.Point), 0)
		}
		visible += weight
	}

	scale := 1 / float64(ao.NSamples)
	if ao.Warp == warp.UniformHemisphere {
		scale *= 2
	}
	return core.Splat(visible * scale)
}
