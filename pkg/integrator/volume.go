package integrator

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/medium"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// Volume estimates single scattering in the scene's homogeneous medium.
// Camera rays are expected to have unit directions.
type Volume struct {
	LightMeasure core.Measure
}

// NewVolume creates a single scattering integrator
func NewVolume() *Volume {
	return &Volume{LightMeasure: core.MeasureSolidAngle}
}

// NewVolumeFromProperties reads "measure", the emitter sampling measure
func NewVolumeFromProperties(props *core.Properties) (*Volume, error) {
	v := NewVolume()
	name, err := props.String("measure", v.LightMeasure.String())
	if err != nil {
		return nil, err
	}
	if v.LightMeasure, err = core.ParseMeasure(name); err != nil {
		return nil, err
	}
	if v.LightMeasure != core.MeasureArea && v.LightMeasure != core.MeasureSolidAngle {
		return nil, core.NewConfigurationError("volume", "lights cannot be sampled under the %s measure", v.LightMeasure)
	}
	return v, nil
}

// Preprocess requires the scene to contain a medium
func (v *Volume) Preprocess(s *scene.Scene) error {
	if s.Medium() == nil {
		return core.NewConfigurationError("volume", "the volume integrator needs a scene medium")
	}
	return nil
}

// Li samples a free-flight distance along the ray. Past the first surface the
// event is a surface interaction; before it, light from one chosen emitter is
// scattered towards the camera by the phase function.
func (v *Volume) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	m := s.Medium()
	if m == nil {
		return core.Vec3{}
	}

	its, hit := s.RayIntersect(ray)
	maxT := math.Inf(1)
	if hit {
		maxT = its.T
	}

	ds := m.SampleDistance(maxT, sampler)
	if ds.PDF <= 0 || (!ds.Scattered && !hit) {
		return core.Vec3{}
	}
	weight := ds.Weight.Multiply(1 / ds.PDF)

	wo := ray.Direction.Negate()
	if ds.Scattered {
		x := ray.At(ds.T)
		phase := m.Phase()
		inscattered := v.sampleOneLight(s, m, sampler, x, func(wi core.Vec3) core.Vec3 {
			return core.Splat(phase.Eval(wo, wi))
		})
		return weight.MultiplyVec(inscattered)
	}

	if its.Shape.Emitter() != nil {
		return weight.MultiplyVec(hitEmission(its, ray.Origin))
	}
	bsdf := its.Shape.BSDF()
	if bsdf == nil || bsdf.IsDelta() {
		return core.Vec3{}
	}
	woLocal := its.ToLocal(wo)
	reflected := v.sampleOneLight(s, m, sampler, its.P, func(wi core.Vec3) core.Vec3 {
		wiLocal := its.ToLocal(wi)
		cosTheta := core.CosTheta(wiLocal)
		if cosTheta <= 0 {
			return core.Vec3{}
		}
		return bsdf.Eval(material.NewBSDFQuery(wiLocal, woLocal, its.UV)).Multiply(cosTheta)
	})
	return weight.MultiplyVec(reflected)
}

// sampleOneLight chooses one emitter uniformly and returns the light it sends
// to p, attenuated by the medium and scaled by scattering(wi)
func (v *Volume) sampleOneLight(s *scene.Scene, m *medium.Homogeneous, sampler core.Sampler, p core.Vec3, scattering func(wi core.Vec3) core.Vec3) core.Vec3 {
	emitter, selectPdf := lights.ChooseOneLight(s.Emitters(), sampler.Get1D())
	u := sampler.Get2D()
	if emitter == nil {
		return core.Vec3{}
	}

	es, ok := sampleEmitter(s, emitter, v.LightMeasure, u, p)
	if !ok {
		return core.Vec3{}
	}

	distance := es.Rec.Distance
	if !math.IsInf(distance, 1) {
		distance = es.Rec.Point.Subtract(p).Length()
	}
	tr := m.Transmittance(distance)
	return scattering(es.Wi).MultiplyVec(es.Li).MultiplyVec(tr).Multiply(1 / selectPdf)
}
