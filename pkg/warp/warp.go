// Package warp maps uniform samples on [0,1)² to importance-sampled points
// and directions, each paired with the density of the point it produces.
package warp

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Kind names a warping function
type Kind int

const (
	None Kind = iota
	UniformSquare
	Tent
	UniformDisk
	ConcentricDisk
	UniformSphere
	UniformHemisphere
	CosineHemisphere
	Beckmann
	UniformCone
	PowerCosine
)

var kindNames = []string{
	None:              "none",
	UniformSquare:     "uniform-square",
	Tent:              "tent",
	UniformDisk:       "uniform-disk",
	ConcentricDisk:    "concentric-disk",
	UniformSphere:     "uniform-sphere",
	UniformHemisphere: "uniform-hemisphere",
	CosineHemisphere:  "cosine-hemisphere",
	Beckmann:          "beckmann",
	UniformCone:       "uniform-cone",
	PowerCosine:       "power-cosine",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind converts a warp name into a Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return None, core.NewConfigurationError("warp", "unknown warp type %q", name)
}

// Query is a warped point together with its density
type Query struct {
	Point core.Vec3
	PDF   float64
}

// Warp applies the warp of the given kind to a uniform sample. param is the
// Beckmann roughness, the cone's cos(θmax) or the power-cosine exponent.
func Warp(kind Kind, sample core.Vec2, param float64) Query {
	var p core.Vec3
	switch kind {
	case UniformSquare:
		s := SquareToUniformSquare(sample)
		p = core.NewVec3(s.X, s.Y, 0)
	case Tent:
		s := SquareToTent(sample)
		p = core.NewVec3(s.X, s.Y, 0)
	case UniformDisk:
		s := SquareToUniformDisk(sample)
		p = core.NewVec3(s.X, s.Y, 0)
	case ConcentricDisk:
		s := SquareToConcentricDisk(sample)
		p = core.NewVec3(s.X, s.Y, 0)
	case UniformSphere:
		p = SquareToUniformSphere(sample)
	case UniformHemisphere:
		p = SquareToUniformHemisphere(sample)
	case CosineHemisphere:
		p = SquareToCosineHemisphere(sample)
	case Beckmann:
		p = SquareToBeckmann(sample, param)
	case UniformCone:
		p = SquareToUniformCone(sample, param)
	case PowerCosine:
		p = SquareToPowerCosine(sample, param)
	default:
		return Query{}
	}
	return Query{Point: p, PDF: PDF(kind, p, param)}
}

// PDF returns the density of point under the warp of the given kind
func PDF(kind Kind, point core.Vec3, param float64) float64 {
	p2 := core.NewVec2(point.X, point.Y)
	switch kind {
	case UniformSquare:
		return SquareToUniformSquarePDF(p2)
	case Tent:
		return SquareToTentPDF(p2)
	case UniformDisk:
		return SquareToUniformDiskPDF(p2)
	case ConcentricDisk:
		return SquareToConcentricDiskPDF(p2)
	case UniformSphere:
		return SquareToUniformSpherePDF(point)
	case UniformHemisphere:
		return SquareToUniformHemispherePDF(point)
	case CosineHemisphere:
		return SquareToCosineHemispherePDF(point)
	case Beckmann:
		return SquareToBeckmannPDF(point, param)
	case UniformCone:
		return SquareToUniformConePDF(point, param)
	case PowerCosine:
		return SquareToPowerCosinePDF(point, param)
	}
	return 0
}

// ForMeasure selects the warp used to sample under a measure. The mapping is
// total: every measure resolves to exactly one warp or a ConfigurationError.
func ForMeasure(measure core.Measure, name string) (Kind, error) {
	switch measure {
	case core.MeasureSolidAngle:
		return UniformCone, nil
	case core.MeasureArea:
		return UniformSphere, nil
	case core.MeasureHemisphere:
		switch name {
		case "", "cosine-hemisphere":
			return CosineHemisphere, nil
		case "uniform-hemisphere":
			return UniformHemisphere, nil
		}
		return None, core.NewConfigurationError("warp", "warp type %q is not a hemisphere warp", name)
	case core.MeasureBSDF, core.MeasureDiscrete:
		return None, nil
	}
	if name == "" {
		return None, nil
	}
	return ParseKind(name)
}

// SquareToUniformSquare is the identity warp
func SquareToUniformSquare(sample core.Vec2) core.Vec2 {
	return sample
}

// SquareToUniformSquarePDF is 1 inside [0,1]² and 0 elsewhere
func SquareToUniformSquarePDF(p core.Vec2) float64 {
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return 0
	}
	return 1
}

// SquareToTent warps to the separable tent distribution on [-1,1]²
func SquareToTent(sample core.Vec2) core.Vec2 {
	return core.NewVec2(tentInverse(sample.X), tentInverse(sample.Y))
}

func tentInverse(u float64) float64 {
	if u < 0.5 {
		return math.Sqrt(2*u) - 1
	}
	return 1 - math.Sqrt(2-2*u)
}

// SquareToTentPDF returns (1-|x|)(1-|y|) inside [-1,1]²
func SquareToTentPDF(p core.Vec2) float64 {
	if math.Abs(p.X) > 1 || math.Abs(p.Y) > 1 {
		return 0
	}
	return (1 - math.Abs(p.X)) * (1 - math.Abs(p.Y))
}

// SquareToUniformDisk warps to the unit disk with polar mapping
func SquareToUniformDisk(sample core.Vec2) core.Vec2 {
	r := math.Sqrt(sample.X)
	phi := 2 * math.Pi * sample.Y
	return core.NewVec2(r*math.Cos(phi), r*math.Sin(phi))
}

// SquareToUniformDiskPDF is 1/π inside the unit disk
func SquareToUniformDiskPDF(p core.Vec2) float64 {
	if p.X*p.X+p.Y*p.Y > 1 {
		return 0
	}
	return core.InvPi
}

// SquareToConcentricDisk warps to the unit disk with Shirley's concentric mapping
func SquareToConcentricDisk(sample core.Vec2) core.Vec2 {
	// Map to [-1,1]²
	a := 2*sample.X - 1
	b := 2*sample.Y - 1
	if a == 0 && b == 0 {
		return core.NewVec2(0, 0)
	}

	var r, phi float64
	if a*a > b*b {
		r = a
		phi = (math.Pi / 4) * (b / a)
	} else {
		r = b
		phi = math.Pi/2 - (math.Pi/4)*(a/b)
	}
	return core.NewVec2(r*math.Cos(phi), r*math.Sin(phi))
}

// SquareToConcentricDiskPDF is 1/π inside the unit disk
func SquareToConcentricDiskPDF(p core.Vec2) float64 {
	if p.X*p.X+p.Y*p.Y > 1+1e-9 {
		return 0
	}
	return core.InvPi
}

// SquareToUniformSphere warps to a uniformly distributed unit direction
func SquareToUniformSphere(sample core.Vec2) core.Vec3 {
	z := 1 - 2*sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformSpherePDF is 1/(4π) on the unit sphere
func SquareToUniformSpherePDF(v core.Vec3) float64 {
	if math.Abs(v.LengthSquared()-1) > 1e-4 {
		return 0
	}
	return core.InvFourPi
}

// SquareToUniformHemisphere warps to a uniform direction with z >= 0
func SquareToUniformHemisphere(sample core.Vec2) core.Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformHemispherePDF is 1/(2π) for z >= 0 and 0 below the horizon
func SquareToUniformHemispherePDF(v core.Vec3) float64 {
	if v.Z < 0 {
		return 0
	}
	return core.InvTwoPi
}

// SquareToCosineHemisphere lifts a concentric disk sample onto the hemisphere
func SquareToCosineHemisphere(sample core.Vec2) core.Vec3 {
	d := SquareToConcentricDisk(sample)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return core.NewVec3(d.X, d.Y, z)
}

// SquareToCosineHemispherePDF is cosθ/π for z >= 0 and 0 below the horizon
func SquareToCosineHemispherePDF(v core.Vec3) float64 {
	if v.Z < 0 {
		return 0
	}
	return v.Z * core.InvPi
}

// SquareToBeckmann samples a microfacet normal from the Beckmann distribution
// weighted by cosθ
func SquareToBeckmann(sample core.Vec2, alpha float64) core.Vec3 {
	tan2Theta := -alpha * alpha * math.Log(1-sample.X)
	cosTheta := 1 / math.Sqrt(1+tan2Theta)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// SquareToBeckmannPDF returns D(m)·cosθ
func SquareToBeckmannPDF(m core.Vec3, alpha float64) float64 {
	if m.Z <= 0 || alpha <= 0 {
		return 0
	}
	cosTheta := m.Z
	cos2Theta := cosTheta * cosTheta
	tan2Theta := (1 - cos2Theta) / cos2Theta
	d := math.Exp(-tan2Theta/(alpha*alpha)) / (math.Pi * alpha * alpha * cos2Theta * cos2Theta)
	return d * cosTheta
}

// SquareToUniformCone warps to a uniform direction inside the cone around +Z
// with half-angle θmax
func SquareToUniformCone(sample core.Vec2, cosThetaMax float64) core.Vec3 {
	z := 1 - sample.X*(1-cosThetaMax)
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformConePDF is 1/(2π(1-cosθmax)) inside the cone
func SquareToUniformConePDF(v core.Vec3, cosThetaMax float64) float64 {
	if cosThetaMax >= 1 || v.Z < cosThetaMax-1e-9 {
		return 0
	}
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// SquareToPowerCosine samples a direction with density proportional to cosⁿθ
func SquareToPowerCosine(sample core.Vec2, exponent float64) core.Vec3 {
	cosTheta := math.Pow(sample.X, 1/(exponent+1))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * sample.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// SquareToPowerCosinePDF returns (n+1)/(2π)·cosⁿθ above the horizon
func SquareToPowerCosinePDF(v core.Vec3, exponent float64) float64 {
	if v.Z <= 0 {
		return 0
	}
	return (exponent + 1) * core.InvTwoPi * math.Pow(v.Z, exponent)
}
