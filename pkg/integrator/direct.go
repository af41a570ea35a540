package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// Strategy is one way of drawing direct lighting samples: on the emitters
// (area or solid-angle measure) or over directions at the shading point
// (hemisphere warp or BSDF sampling)
type Strategy struct {
	Measure  core.Measure
	Warp     warp.Kind // Hemisphere warp, used only by MeasureHemisphere
	NSamples int       // Samples per emitter
}

// NewStrategy validates a measure name and its optional warp type
func NewStrategy(measureName, warpName string, nSamples int) (Strategy, error) {
	measure, err := core.ParseMeasure(measureName)
	if err != nil {
		return Strategy{}, err
	}
	switch measure {
	case core.MeasureArea, core.MeasureSolidAngle, core.MeasureHemisphere, core.MeasureBSDF:
	default:
		return Strategy{}, core.NewConfigurationError("direct", "cannot sample direct lighting under the %s measure", measure)
	}
	if nSamples < 1 {
		return Strategy{}, core.NewConfigurationError("direct", "nSamples must be positive, got %d", nSamples)
	}

	kind := warp.None
	if measure == core.MeasureHemisphere {
		if kind, err = warp.ForMeasure(measure, warpName); err != nil {
			return Strategy{}, err
		}
	}
	return Strategy{Measure: measure, Warp: kind, NSamples: nSamples}, nil
}

// samplesEmitter reports whether the strategy draws points on the emitters
func (st Strategy) samplesEmitter() bool {
	return st.Measure == core.MeasureArea || st.Measure == core.MeasureSolidAngle
}

// pdf returns the solid angle density with which the strategy produces the
// local direction wi towards the point (with normal) on emitter
func (st Strategy) pdf(emitter core.Emitter, bsdf material.BSDF, its geometry.Intersection, wi, wo, point, normal core.Vec3) float64 {
	switch st.Measure {
	case core.MeasureArea, core.MeasureSolidAngle:
		if emitter.IsDelta() {
			return 0
		}
		return emitterPDF(emitter, st.Measure, point, normal, its.P)
	case core.MeasureHemisphere:
		return warp.PDF(st.Warp, wi, 0)
	case core.MeasureBSDF:
		if bsdf.IsDelta() {
			return 0
		}
		return bsdf.PDF(material.NewBSDFQuery(wi, wo, its.UV))
	}
	return 0
}

// misPartner is the sibling strategy a Direct integrator is weighted against
type misPartner struct {
	strategy  Strategy
	heuristic warp.Heuristic
}

// Direct estimates direct illumination from all emitters with a single strategy
type Direct struct {
	Strategy Strategy

	partner *misPartner
}

// NewDirect creates a direct lighting integrator
func NewDirect(strategy Strategy) *Direct {
	return &Direct{Strategy: strategy}
}

// NewDirectFromProperties reads "measure", "warp-type" and "nSamples"
func NewDirectFromProperties(props *core.Properties) (*Direct, error) {
	measure, err := props.String("measure", "area")
	if err != nil {
		return nil, err
	}
	warpName, err := props.String("warp-type", "")
	if err != nil {
		return nil, err
	}
	nSamples, err := props.Int("nSamples", 1)
	if err != nil {
		return nil, err
	}
	strategy, err := NewStrategy(measure, warpName, nSamples)
	if err != nil {
		return nil, err
	}
	return NewDirect(strategy), nil
}

// Li returns the emitted radiance when the camera ray hits an emitter and the
// reflected direct illumination otherwise
func (d *Direct) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	its, hit := s.RayIntersect(ray)
	if !hit {
		return core.Vec3{}
	}
	if emitter := its.Shape.Emitter(); emitter != nil {
		return emitter.Radiance()
	}
	return d.estimate(s, sampler, its, ray)
}

// estimate averages NSamples samples per emitter at the hit point
func (d *Direct) estimate(s *scene.Scene, sampler core.Sampler, its geometry.Intersection, ray core.Ray) core.Vec3 {
	bsdf := its.Shape.BSDF()
	if bsdf == nil {
		return core.Vec3{}
	}
	wo := its.ToLocal(ray.Direction.Negate().Normalize())

	sum := core.Vec3{}
	for i := 0; i < d.Strategy.NSamples; i++ {
		for _, emitter := range s.Emitters() {
			var contribution core.Vec3
			if d.Strategy.samplesEmitter() {
				contribution = d.sampleEmitter(s, sampler, emitter, bsdf, its, wo)
			} else {
				contribution = d.sampleDirection(s, sampler, emitter, bsdf, its, wo)
			}
			sum = sum.Add(contribution)
		}
	}
	return sum.Multiply(1 / float64(d.Strategy.NSamples))
}

// sampleEmitter draws a point on the emitter and evaluates f·Le·cosθ/pdf
func (d *Direct) sampleEmitter(s *scene.Scene, sampler core.Sampler, emitter core.Emitter, bsdf material.BSDF, its geometry.Intersection, wo core.Vec3) core.Vec3 {
	es, ok := sampleEmitter(s, emitter, d.Strategy.Measure, sampler.Get2D(), its.P)
	if !ok {
		return core.Vec3{}
	}
	wi := its.ToLocal(es.Wi)
	cosTheta := core.CosTheta(wi)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	f := bsdf.Eval(material.NewBSDFQuery(wi, wo, its.UV))
	contribution := f.MultiplyVec(es.Li).Multiply(cosTheta)

	if d.partner != nil {
		contribution = contribution.Multiply(d.emitterSampleWeight(emitter, bsdf, its, wi, wo, es))
	}
	return contribution
}

// emitterSampleWeight returns the MIS weight of an emitter sample against the
// partner strategy. A delta light can only be reached by emitter sampling, so
// when both strategies sample emitters they share it with equal densities.
func (d *Direct) emitterSampleWeight(emitter core.Emitter, bsdf material.BSDF, its geometry.Intersection, wi, wo core.Vec3, es emitterSample) float64 {
	nf, ng := d.Strategy.NSamples, d.partner.strategy.NSamples
	if es.Delta() {
		if !d.partner.strategy.samplesEmitter() {
			return 1
		}
		return d.partner.heuristic.Weight(nf, 1, ng, 1)
	}
	other := d.partner.strategy.pdf(emitter, bsdf, its, wi, wo, es.Rec.Point, es.Rec.Normal)
	return d.partner.heuristic.Weight(nf, es.PDF, ng, other)
}

// sampleDirection draws a direction at the shading point and keeps the
// radiance found along it if the first hit is the emitter
func (d *Direct) sampleDirection(s *scene.Scene, sampler core.Sampler, emitter core.Emitter, bsdf material.BSDF, its geometry.Intersection, wo core.Vec3) core.Vec3 {
	if emitter.IsDelta() {
		return core.Vec3{}
	}

	var wi, weight core.Vec3
	var pdf float64
	discrete := false
	if d.Strategy.Measure == core.MeasureHemisphere {
		q := warp.Warp(d.Strategy.Warp, sampler.Get2D(), 0)
		if q.PDF <= 0 {
			return core.Vec3{}
		}
		wi, pdf = q.Point, q.PDF
		f := bsdf.Eval(material.NewBSDFQuery(wi, wo, its.UV))
		weight = f.Multiply(max(core.CosTheta(wi), 0) / pdf)
	} else {
		query := material.BSDFQuery{Wo: wo, UV: its.UV}
		weight, pdf = bsdf.Sample(&query, sampler.Get2D())
		if pdf <= 0 {
			return core.Vec3{}
		}
		wi = query.Wi
		discrete = query.Measure == core.MeasureDiscrete
	}
	if weight.IsZero() {
		return core.Vec3{}
	}

	light, hit := s.RayIntersect(core.NewRay(its.P, its.ToWorld(wi).Normalize()))
	if !hit || light.Shape.Emitter() != emitter {
		return core.Vec3{}
	}
	contribution := hitEmission(light, its.P).MultiplyVec(weight)

	if d.partner != nil && !discrete {
		other := d.partner.strategy.pdf(emitter, bsdf, its, wi, wo, light.P, light.GeoFrame.N)
		contribution = contribution.Multiply(d.partner.heuristic.Weight(d.Strategy.NSamples, pdf, d.partner.strategy.NSamples, other))
	}
	return contribution
}
