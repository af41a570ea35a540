package medium

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// PhaseFunction describes the angular distribution of scattering in a medium.
// Directions are in world space; wo points back along the incoming ray.
type PhaseFunction interface {
	Eval(wo, wi core.Vec3) float64
	Sample(wo core.Vec3, u core.Vec2) (wi core.Vec3, pdf float64)
	PDF(wo, wi core.Vec3) float64
}

// Isotropic scatters uniformly over the sphere
type Isotropic struct{}

// NewIsotropic creates an isotropic phase function
func NewIsotropic() *Isotropic {
	return &Isotropic{}
}

// Eval returns 1/(4π)
func (Isotropic) Eval(wo, wi core.Vec3) float64 {
	return core.InvFourPi
}

// Sample draws a uniform direction on the sphere
func (Isotropic) Sample(wo core.Vec3, u core.Vec2) (core.Vec3, float64) {
	return warp.SquareToUniformSphere(u), core.InvFourPi
}

// PDF returns 1/(4π)
func (Isotropic) PDF(wo, wi core.Vec3) float64 {
	return core.InvFourPi
}
