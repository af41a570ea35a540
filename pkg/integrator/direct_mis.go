package integrator

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// DirectMIS combines two direct lighting strategies with multiple importance
// sampling. Each strategy's samples are weighted against the density the
// other strategy assigns to them and both weighted estimates are summed.
type DirectMIS struct {
	first  *Direct
	second *Direct
}

// NewDirectMIS pairs two different strategies under the given heuristic
func NewDirectMIS(first, second Strategy, heuristic warp.Heuristic) (*DirectMIS, error) {
	if first.Measure == second.Measure && first.Warp == second.Warp {
		return nil, core.NewConfigurationError("direct-mis", "both strategies sample the %s measure; use the direct integrator instead", first.Measure)
	}
	return &DirectMIS{
		first:  &Direct{Strategy: first, partner: &misPartner{strategy: second, heuristic: heuristic}},
		second: &Direct{Strategy: second, partner: &misPartner{strategy: first, heuristic: heuristic}},
	}, nil
}

// NewDirectMISFromProperties reads "measure1", "measure2", "warp-type1",
// "warp-type2", "nSamples1", "nSamples2" and "heuristic"
func NewDirectMISFromProperties(props *core.Properties) (*DirectMIS, error) {
	first, err := strategyFromProperties(props, "1", "area")
	if err != nil {
		return nil, err
	}
	second, err := strategyFromProperties(props, "2", "bsdf")
	if err != nil {
		return nil, err
	}
	name, err := props.String("heuristic", "balance")
	if err != nil {
		return nil, err
	}
	heuristic, err := warp.ParseHeuristic(name)
	if err != nil {
		return nil, err
	}
	return NewDirectMIS(first, second, heuristic)
}

func strategyFromProperties(props *core.Properties, suffix, defaultMeasure string) (Strategy, error) {
	measure, err := props.String("measure"+suffix, defaultMeasure)
	if err != nil {
		return Strategy{}, err
	}
	warpName, err := props.String("warp-type"+suffix, "")
	if err != nil {
		return Strategy{}, err
	}
	nSamples, err := props.Int("nSamples"+suffix, 1)
	if err != nil {
		return Strategy{}, err
	}
	return NewStrategy(measure, warpName, nSamples)
}

// Strategies returns the two combined strategies
func (m *DirectMIS) Strategies() (Strategy, Strategy) {
	return m.first.Strategy, m.second.Strategy
}

// Li returns the emitted radiance on an emitter hit and the sum of both
// weighted estimates otherwise
func (m *DirectMIS) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	its, hit := s.RayIntersect(ray)
	if !hit {
		return core.Vec3{}
	}
	if emitter := its.Shape.Emitter(); emitter != nil {
		return emitter.Radiance()
	}
	return m.first.estimate(s, sampler, its, ray).Add(m.second.estimate(s, sampler, its, ray))
}
