package lights

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// PointLight emits uniformly in all directions from a single position
type PointLight struct {
	Position  core.Vec3
	Intensity core.Vec3 // Radiant intensity; irradiance falls off with 1/d²
}

// NewPointLight creates a point light
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// NewPointLightFromProperties reads "position" and "radiance"
func NewPointLightFromProperties(props *core.Properties) (*PointLight, error) {
	position, err := props.Point("position", core.Vec3{})
	if err != nil {
		return nil, err
	}
	intensity, err := props.Color("radiance", core.Splat(1))
	if err != nil {
		return nil, err
	}
	return NewPointLight(position, intensity), nil
}

// Radiance returns the light's intensity
func (l *PointLight) Radiance() core.Vec3 {
	return l.Intensity
}

// IsDelta returns true
func (l *PointLight) IsDelta() bool {
	return true
}

// Eval returns intensity/d² arriving at shadingPoint
func (l *PointLight) Eval(shadingPoint core.Vec3, rec core.SampleRecord) core.EmitterQuery {
	d := l.Position.Subtract(shadingPoint)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return core.EmitterQuery{}
	}
	return core.EmitterQuery{
		Le: l.Intensity.Multiply(1 / dist2),
		Wi: d.Multiply(1 / math.Sqrt(dist2)),
	}
}

// Sample returns the light position with probability 1
func (l *PointLight) Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error) {
	d := l.Position.Subtract(ref)
	dist := d.Length()
	if dist == 0 {
		return core.SampleRecord{Measure: core.MeasureDiscrete}, nil
	}
	return core.SampleRecord{
		Point:     l.Position,
		Direction: d.Multiply(1 / dist),
		Distance:  dist,
		PDF:       1,
		Measure:   core.MeasureDiscrete,
		Color:     l.Intensity,
	}, nil
}

// PDF is zero: a point light cannot be reached by a sampled direction
func (l *PointLight) PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error) {
	return 0, nil
}
