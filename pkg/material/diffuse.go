package material

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// Diffuse represents a perfectly diffuse (Lambertian) surface
type Diffuse struct {
	Albedo core.Vec3
}

// NewDiffuse creates a diffuse BSDF with the given reflectance
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// NewDiffuseFromProperties reads the "albedo" property (default 0.5)
func NewDiffuseFromProperties(props *core.Properties) (*Diffuse, error) {
	albedo, err := props.Color("albedo", core.Splat(0.5))
	if err != nil {
		return nil, err
	}
	return NewDiffuse(albedo), nil
}

// Eval returns albedo/π for directions above the surface
func (d *Diffuse) Eval(q BSDFQuery) core.Vec3 {
	if q.Measure != core.MeasureSolidAngle || core.CosTheta(q.Wi) <= 0 || core.CosTheta(q.Wo) <= 0 {
		return core.Vec3{}
	}
	return d.Albedo.Multiply(core.InvPi)
}

// PDF returns the cosine-weighted hemisphere density cosθi/π
func (d *Diffuse) PDF(q BSDFQuery) float64 {
	if q.Measure != core.MeasureSolidAngle || core.CosTheta(q.Wi) <= 0 || core.CosTheta(q.Wo) <= 0 {
		return 0
	}
	return core.CosTheta(q.Wi) * core.InvPi
}

// Sample draws a cosine-weighted direction; the weight reduces to the albedo
func (d *Diffuse) Sample(q *BSDFQuery, u core.Vec2) (core.Vec3, float64) {
	if core.CosTheta(q.Wo) <= 0 {
		return core.Vec3{}, 0
	}

	q.Measure = core.MeasureSolidAngle
	q.Wi = warp.SquareToCosineHemisphere(u)

	pdf := d.PDF(*q)
	if pdf == 0 {
		return core.Vec3{}, 0
	}
	return d.Albedo, pdf
}

// IsDelta returns false
func (d *Diffuse) IsDelta() bool {
	return false
}
