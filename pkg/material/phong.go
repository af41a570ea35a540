package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// Phong is the energy-normalized modified Phong model: a diffuse lobe plus a
// cosⁿ lobe around the mirror direction
type Phong struct {
	Kd           core.Vec3
	Ks           core.Vec3
	Exponent     float64
	specularProb float64
}

// NewPhong creates a Phong BSDF. Coefficients whose sum exceeds 1 in some
// channel are rescaled so that kd+ks <= 1.
func NewPhong(kd, ks core.Vec3, exponent float64) *Phong {
	if m := kd.Add(ks).MaxComponent(); m > 1 {
		kd = kd.Multiply(1 / m)
		ks = ks.Multiply(1 / m)
	}

	p := &Phong{Kd: kd, Ks: ks, Exponent: exponent}
	if total := kd.Luminance() + ks.Luminance(); total > 0 {
		p.specularProb = ks.Luminance() / total
	}
	return p
}

// NewPhongFromProperties reads "diffuse-coefficients", "specular-coefficients" and "exponent"
func NewPhongFromProperties(props *core.Properties) (*Phong, error) {
	kd, err := props.Color("diffuse-coefficients", core.Splat(0.5))
	if err != nil {
		return nil, err
	}
	ks, err := props.Color("specular-coefficients", core.Splat(0.2))
	if err != nil {
		return nil, err
	}
	exponent, err := props.Float("exponent", 20)
	if err != nil {
		return nil, err
	}
	if exponent < 0 {
		return nil, core.NewConfigurationError("phong", "exponent must be non-negative, got %g", exponent)
	}
	return NewPhong(kd, ks, exponent), nil
}

// SpecularProbability returns the probability of sampling the specular lobe
func (p *Phong) SpecularProbability() float64 {
	return p.specularProb
}

// Eval returns kd/π + ks·(n+2)/(2π)·cosⁿα where α is the angle to the mirror direction
func (p *Phong) Eval(q BSDFQuery) core.Vec3 {
	if q.Measure != core.MeasureSolidAngle || core.CosTheta(q.Wi) <= 0 || core.CosTheta(q.Wo) <= 0 {
		return core.Vec3{}
	}

	result := p.Kd.Multiply(core.InvPi)
	if cosAlpha := core.Reflect(q.Wo).Dot(q.Wi); cosAlpha > 0 {
		specular := (p.Exponent + 2) * core.InvTwoPi * math.Pow(cosAlpha, p.Exponent)
		result = result.Add(p.Ks.Multiply(specular))
	}
	return result
}

// PDF returns the lobe mixture density
func (p *Phong) PDF(q BSDFQuery) float64 {
	if q.Measure != core.MeasureSolidAngle || core.CosTheta(q.Wi) <= 0 || core.CosTheta(q.Wo) <= 0 {
		return 0
	}

	diffusePdf := warp.SquareToCosineHemispherePDF(q.Wi)

	specularPdf := 0.0
	if cosAlpha := core.Reflect(q.Wo).Dot(q.Wi); cosAlpha > 0 {
		specularPdf = (p.Exponent + 1) * core.InvTwoPi * math.Pow(cosAlpha, p.Exponent)
	}

	return p.specularProb*specularPdf + (1-p.specularProb)*diffusePdf
}

// Sample picks a lobe with u.X, reuses the rescaled u.X to sample it and
// returns eval·cosθi/pdf under the mixture density
func (p *Phong) Sample(q *BSDFQuery, u core.Vec2) (core.Vec3, float64) {
	if core.CosTheta(q.Wo) <= 0 {
		return core.Vec3{}, 0
	}

	q.Measure = core.MeasureSolidAngle
	if u.X < p.specularProb {
		// Specular lobe around the mirror direction
		u.X = rescale(u.X / p.specularProb)
		lobe := core.NewFrame(core.Reflect(q.Wo))
		q.Wi = lobe.ToWorld(warp.SquareToPowerCosine(u, p.Exponent))
	} else {
		u.X = rescale((u.X - p.specularProb) / (1 - p.specularProb))
		q.Wi = warp.SquareToCosineHemisphere(u)
	}

	// Specular samples can land below the surface
	if core.CosTheta(q.Wi) <= 0 {
		return core.Vec3{}, 0
	}

	pdf := p.PDF(*q)
	if pdf == 0 {
		return core.Vec3{}, 0
	}
	return p.Eval(*q).Multiply(core.CosTheta(q.Wi) / pdf), pdf
}

// IsDelta returns false
func (p *Phong) IsDelta() bool {
	return false
}

// rescale keeps a reused sample dimension inside [0,1)
func rescale(u float64) float64 {
	return math.Min(math.Max(u, 0), math.Nextafter(1, 0))
}
