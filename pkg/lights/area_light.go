package lights

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
)

// AreaLight emits constant radiance from the surface of the shape it is attached to.
// It refers to the shape by its index in the scene's shape list.
type AreaLight struct {
	Emission   core.Vec3
	TwoSided   bool
	ShapeIndex int

	shape geometry.Shape
}

// NewAreaLight creates an unbound area light
func NewAreaLight(emission core.Vec3, twoSided bool) *AreaLight {
	return &AreaLight{Emission: emission, TwoSided: twoSided, ShapeIndex: -1}
}

// NewAreaLightFromProperties reads "radiance" and "twoSided"
func NewAreaLightFromProperties(props *core.Properties) (*AreaLight, error) {
	emission, err := props.Color("radiance", core.Splat(1))
	if err != nil {
		return nil, err
	}
	twoSided, err := props.Bool("twoSided", false)
	if err != nil {
		return nil, err
	}
	return NewAreaLight(emission, twoSided), nil
}

// BindShape records the shape this light is attached to
func (l *AreaLight) BindShape(index int, shape geometry.Shape) {
	l.ShapeIndex = index
	l.shape = shape
}

// Radiance returns the emitted radiance
func (l *AreaLight) Radiance() core.Vec3 {
	return l.Emission
}

// IsDelta returns false
func (l *AreaLight) IsDelta() bool {
	return false
}

// Eval returns the radiance leaving rec.Point towards shadingPoint. Only the
// side the normal points to emits unless the light is two-sided.
func (l *AreaLight) Eval(shadingPoint core.Vec3, rec core.SampleRecord) core.EmitterQuery {
	wi := rec.Point.Subtract(shadingPoint).Normalize()
	if !l.TwoSided && rec.Normal.Dot(wi) >= 0 {
		return core.EmitterQuery{Wi: wi}
	}
	return core.EmitterQuery{Le: l.Emission, Wi: wi}
}

// Sample delegates to the attached shape
func (l *AreaLight) Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error) {
	if l.shape == nil {
		return core.SampleRecord{}, core.NewConfigurationError("area light", "light is not attached to a shape")
	}
	rec, err := l.shape.Sample(measure, u, ref)
	if err != nil {
		return core.SampleRecord{}, err
	}
	rec.Color = l.Emission
	return rec, nil
}

// PDF delegates to the attached shape
func (l *AreaLight) PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error) {
	if l.shape == nil {
		return 0, core.NewConfigurationError("area light", "light is not attached to a shape")
	}
	return l.shape.PDF(measure, rec, ref)
}
