// Package medium implements participating media for volumetric integrators.
package medium

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// DistanceSample is the outcome of sampling a free-flight distance along a ray
type DistanceSample struct {
	T         float64   // Sampled distance, clamped to the ray's end for surface events
	Scattered bool      // True when the interaction happens inside the medium
	Weight    core.Vec3 // Tr·σs for medium events, Tr for surface events
	PDF       float64   // Density of the event averaged over the color channels
}

// Homogeneous is a medium with constant absorption and scattering coefficients
type Homogeneous struct {
	SigmaA core.Vec3
	SigmaS core.Vec3
	SigmaT core.Vec3
	phase  PhaseFunction
}

// NewHomogeneous creates a medium with an isotropic phase function
func NewHomogeneous(sigmaA, sigmaS core.Vec3) *Homogeneous {
	return &Homogeneous{
		SigmaA: sigmaA,
		SigmaS: sigmaS,
		SigmaT: sigmaA.Add(sigmaS),
		phase:  NewIsotropic(),
	}
}

// NewHomogeneousFromProperties reads "sigmaA" and "sigmaS"
func NewHomogeneousFromProperties(props *core.Properties) (*Homogeneous, error) {
	sigmaA, err := props.Color("sigmaA", core.Splat(0.05))
	if err != nil {
		return nil, err
	}
	sigmaS, err := props.Color("sigmaS", core.Splat(0.1))
	if err != nil {
		return nil, err
	}
	if min(sigmaA.X, sigmaA.Y, sigmaA.Z, sigmaS.X, sigmaS.Y, sigmaS.Z) < 0 {
		return nil, core.NewConfigurationError("medium", "coefficients must be non-negative")
	}
	return NewHomogeneous(sigmaA, sigmaS), nil
}

// AddChild replaces the phase function
func (m *Homogeneous) AddChild(child interface{}) error {
	phase, ok := child.(PhaseFunction)
	if !ok {
		return core.NewConfigurationError("medium", "cannot attach %T", child)
	}
	m.phase = phase
	return nil
}

// Phase returns the medium's phase function
func (m *Homogeneous) Phase() PhaseFunction {
	return m.phase
}

// Transmittance returns exp(-σt·d) per channel. An infinite distance only
// transmits through channels that do not attenuate.
func (m *Homogeneous) Transmittance(distance float64) core.Vec3 {
	return core.NewVec3(
		transmittance(m.SigmaT.X, distance),
		transmittance(m.SigmaT.Y, distance),
		transmittance(m.SigmaT.Z, distance),
	)
}

func transmittance(sigmaT, distance float64) float64 {
	if sigmaT == 0 {
		return 1
	}
	return math.Exp(-sigmaT * distance)
}

// SampleDistance samples a free-flight distance along a ray segment of length
// maxT. A channel is chosen uniformly and the distance is drawn from its
// exponential distribution; the pdf is the average over all channels.
func (m *Homogeneous) SampleDistance(maxT float64, sampler core.Sampler) DistanceSample {
	channel := min(int(sampler.Get1D()*3), 2)
	sigma := m.SigmaT.Get(channel)

	t := math.Inf(1)
	if sigma > 0 {
		t = -math.Log(1-sampler.Get1D()) / sigma
	}

	scattered := t < maxT
	if !scattered {
		t = maxT
	}

	tr := m.Transmittance(t)
	density := tr
	if scattered {
		density = m.SigmaT.MultiplyVec(tr)
	}
	pdf := (density.X + density.Y + density.Z) / 3

	weight := tr
	if scattered {
		weight = tr.MultiplyVec(m.SigmaS)
	}

	return DistanceSample{T: t, Scattered: scattered, Weight: weight, PDF: pdf}
}
