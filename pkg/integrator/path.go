package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// PathMode selects how a path collects emitted light
type PathMode int

const (
	// PathImplicit only counts light found by hitting an emitter
	PathImplicit PathMode = iota
	// PathExplicit samples one light at every vertex and ignores emitter hits
	// except after delta scattering
	PathExplicit
)

// Termination selects how a path stops
type Termination int

const (
	// TerminateMaxDepth stops after MaxDepth path segments
	TerminateMaxDepth Termination = iota
	// TerminateRussianRoulette stops each bounce with probability
	// 1-RRProbability; surviving paths are divided by RRProbability
	TerminateRussianRoulette
)

// PathConfig holds the path tracing parameters
type PathConfig struct {
	Mode          PathMode
	Termination   Termination
	MaxDepth      int          // Maximum number of path segments for TerminateMaxDepth
	RRProbability float64      // Continuation probability for TerminateRussianRoulette
	LightMeasure  core.Measure // Emitter sampling measure for PathExplicit
}

// DefaultPathConfig returns implicit path tracing terminated at depth 10
func DefaultPathConfig() PathConfig {
	return PathConfig{
		Mode:          PathImplicit,
		Termination:   TerminateMaxDepth,
		MaxDepth:      10,
		RRProbability: 0.8,
		LightMeasure:  core.MeasureSolidAngle,
	}
}

// Path implements unidirectional path tracing
type Path struct {
	config PathConfig
}

// NewPath creates a path tracer
func NewPath(config PathConfig) *Path {
	return &Path{config: config}
}

// NewPathFromProperties reads "mode", "termination", "maxDepth",
// "rrProbability" and "measure"
func NewPathFromProperties(props *core.Properties) (*Path, error) {
	config := DefaultPathConfig()

	mode, err := props.String("mode", "implicit")
	if err != nil {
		return nil, err
	}
	switch mode {
	case "implicit":
		config.Mode = PathImplicit
	case "explicit":
		config.Mode = PathExplicit
	default:
		return nil, core.NewConfigurationError("path", "unknown mode %q", mode)
	}

	termination, err := props.String("termination", "max-depth")
	if err != nil {
		return nil, err
	}
	switch termination {
	case "max-depth":
		config.Termination = TerminateMaxDepth
	case "russian-roulette":
		config.Termination = TerminateRussianRoulette
	default:
		return nil, core.NewConfigurationError("path", "unknown termination %q", termination)
	}

	if config.MaxDepth, err = props.Int("maxDepth", config.MaxDepth); err != nil {
		return nil, err
	}
	if config.MaxDepth < 1 {
		return nil, core.NewConfigurationError("path", "maxDepth must be positive, got %d", config.MaxDepth)
	}
	if config.RRProbability, err = props.Float("rrProbability", config.RRProbability); err != nil {
		return nil, err
	}
	if config.RRProbability <= 0 || config.RRProbability >= 1 {
		return nil, core.NewConfigurationError("path", "rrProbability must lie in (0, 1), got %g", config.RRProbability)
	}

	measure, err := props.String("measure", config.LightMeasure.String())
	if err != nil {
		return nil, err
	}
	if config.LightMeasure, err = core.ParseMeasure(measure); err != nil {
		return nil, err
	}
	if config.LightMeasure != core.MeasureArea && config.LightMeasure != core.MeasureSolidAngle {
		return nil, core.NewConfigurationError("path", "lights cannot be sampled under the %s measure", config.LightMeasure)
	}

	return NewPath(config), nil
}

// Config returns the path tracing parameters
func (p *Path) Config() PathConfig {
	return p.config
}

// Li traces a random walk from the camera ray
func (p *Path) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	if p.config.Mode == PathExplicit {
		return p.explicitLi(s, sampler, ray)
	}
	return p.implicitLi(s, sampler, ray)
}

// implicitLi returns throughput × Le at the first emitter the walk hits
func (p *Path) implicitLi(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	throughput := core.Splat(1)
	for depth := 0; ; depth++ {
		its, hit := s.RayIntersect(ray)
		if !hit {
			return core.Vec3{}
		}
		if its.Shape.Emitter() != nil {
			return throughput.MultiplyVec(hitEmission(its, ray.Origin))
		}

		var survive bool
		if throughput, survive = p.continuePath(depth, throughput, sampler); !survive {
			return core.Vec3{}
		}

		var ok bool
		if ray, throughput, _, ok = scatter(its, ray, throughput, sampler); !ok {
			return core.Vec3{}
		}
	}
}

// explicitLi adds next event estimation from one chosen light at every
// vertex. Emitter hits only count for camera rays and after delta scattering,
// since every other path to them is already covered by the light samples.
func (p *Path) explicitLi(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	result := core.Vec3{}
	throughput := core.Splat(1)
	countEmitted := true
	for depth := 0; ; depth++ {
		its, hit := s.RayIntersect(ray)
		if !hit {
			return result
		}
		if its.Shape.Emitter() != nil {
			if countEmitted {
				result = result.Add(throughput.MultiplyVec(hitEmission(its, ray.Origin)))
			}
			return result
		}

		bsdf := its.Shape.BSDF()
		if bsdf != nil && !bsdf.IsDelta() {
			direct := sampleOneLight(s, sampler, p.config.LightMeasure, its, ray)
			result = result.Add(throughput.MultiplyVec(direct))
		}

		var survive bool
		if throughput, survive = p.continuePath(depth, throughput, sampler); !survive {
			return result
		}

		var ok, discrete bool
		if ray, throughput, discrete, ok = scatter(its, ray, throughput, sampler); !ok {
			return result
		}
		countEmitted = discrete
	}
}

// continuePath decides whether the walk scatters again after the vertex at
// depth and returns the throughput compensated for Russian roulette
func (p *Path) continuePath(depth int, throughput core.Vec3, sampler core.Sampler) (core.Vec3, bool) {
	if p.config.Termination == TerminateRussianRoulette {
		if sampler.Get1D() >= p.config.RRProbability {
			return core.Vec3{}, false
		}
		return throughput.Multiply(1 / p.config.RRProbability), true
	}
	return throughput, depth+1 < p.config.MaxDepth
}

// scatter samples the BSDF at its and returns the continuation ray, the
// updated throughput and whether the sampled direction was discrete
func scatter(its geometry.Intersection, ray core.Ray, throughput core.Vec3, sampler core.Sampler) (core.Ray, core.Vec3, bool, bool) {
	bsdf := its.Shape.BSDF()
	if bsdf == nil {
		return core.Ray{}, core.Vec3{}, false, false
	}

	query := material.BSDFQuery{Wo: its.ToLocal(ray.Direction.Negate().Normalize()), UV: its.UV}
	weight, pdf := bsdf.Sample(&query, sampler.Get2D())
	if pdf <= 0 || weight.IsZero() {
		return core.Ray{}, core.Vec3{}, false, false
	}

	next := core.NewRay(its.P, its.ToWorld(query.Wi).Normalize())
	return next, throughput.MultiplyVec(weight), query.Measure == core.MeasureDiscrete, true
}

// sampleOneLight estimates direct illumination at a surface hit from one
// uniformly chosen emitter
func sampleOneLight(s *scene.Scene, sampler core.Sampler, measure core.Measure, its geometry.Intersection, ray core.Ray) core.Vec3 {
	emitter, selectPdf := lights.ChooseOneLight(s.Emitters(), sampler.Get1D())
	u := sampler.Get2D()
	if emitter == nil {
		return core.Vec3{}
	}

	es, ok := sampleEmitter(s, emitter, measure, u, its.P)
	if !ok {
		return core.Vec3{}
	}
	wi := its.ToLocal(es.Wi)
	cosTheta := core.CosTheta(wi)
	if cosTheta <= 0 {
		return core.Vec3{}
	}

	wo := its.ToLocal(ray.Direction.Negate().Normalize())
	f := its.Shape.BSDF().Eval(material.NewBSDFQuery(wi, wo, its.UV))
	return f.MultiplyVec(es.Li).Multiply(cosTheta / selectPdf)
}
