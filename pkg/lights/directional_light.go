package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// DirectionalLight is a distant light arriving from a single direction without falloff
type DirectionalLight struct {
	Direction core.Vec3 // Direction the light travels in
	Emission  core.Vec3
}

// NewDirectionalLight creates a directional light travelling along direction
func NewDirectionalLight(direction, emission core.Vec3) *DirectionalLight {
	return &DirectionalLight{Direction: direction.Normalize(), Emission: emission}
}

// NewDirectionalLightFromProperties reads "direction" and "radiance"
func NewDirectionalLightFromProperties(props *core.Properties) (*DirectionalLight, error) {
	direction, err := props.Vector("direction", core.NewVec3(0, -1, 0))
	if err != nil {
		return nil, err
	}
	if direction.IsZero() {
		return nil, core.NewConfigurationError("directional light", "direction must be non-zero")
	}
	emission, err := props.Color("radiance", core.Splat(1))
	if err != nil {
		return nil, err
	}
	return NewDirectionalLight(direction, emission), nil
}

// Radiance returns the emitted radiance
func (l *DirectionalLight) Radiance() core.Vec3 {
	return l.Emission
}

// IsDelta returns true
func (l *DirectionalLight) IsDelta() bool {
	return true
}

// Eval returns the constant radiance arriving from the light's direction
func (l *DirectionalLight) Eval(shadingPoint core.Vec3, rec core.SampleRecord) core.EmitterQuery {
	return core.EmitterQuery{Le: l.Emission, Wi: l.Direction.Negate()}
}

// Sample returns the direction towards the light with probability 1. The
// sample lies at infinity; shadow rays run to the scene extent.
func (l *DirectionalLight) Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error) {
	return core.SampleRecord{
		Direction: l.Direction.Negate(),
		Distance:  math.Inf(1),
		PDF:       1,
		Measure:   core.MeasureDiscrete,
		Color:     l.Emission,
	}, nil
}

// PDF is zero for every continuous query
func (l *DirectionalLight) PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error) {
	return 0, nil
}
