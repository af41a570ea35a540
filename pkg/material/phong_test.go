package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

func TestPhong_Normalization(t *testing.T) {
	p := NewPhong(core.NewVec3(0.8, 0.5, 0.5), core.NewVec3(0.6, 0.2, 0.2), 10)

	sum := p.Kd.Add(p.Ks)
	if sum.MaxComponent() > 1+1e-12 {
		t.Errorf("kd+ks should not exceed 1, got %v", sum)
	}

	// Coefficients already below 1 are untouched
	q := NewPhong(core.NewVec3(0.3, 0.3, 0.3), core.NewVec3(0.2, 0.2, 0.2), 10)
	if q.Kd != core.Splat(0.3) || q.Ks != core.Splat(0.2) {
		t.Errorf("Coefficients should not be rescaled, got kd=%v ks=%v", q.Kd, q.Ks)
	}
	if math.Abs(q.SpecularProbability()-0.4) > 1e-12 {
		t.Errorf("Expected specular probability 0.4, got %f", q.SpecularProbability())
	}
}

func TestPhong_SampleMatchesPDFAndEval(t *testing.T) {
	p := NewPhong(core.Splat(0.4), core.Splat(0.4), 20)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0.3, 0.1, 0.9).Normalize()

	for i := 0; i < 1000; i++ {
		q := BSDFQuery{Wo: wo}
		weight, pdf := p.Sample(&q, core.NewVec2(random.Float64(), random.Float64()))
		if pdf == 0 {
			if !weight.IsZero() {
				t.Fatalf("Zero pdf sample should have zero weight, got %v", weight)
			}
			continue
		}

		if math.Abs(p.PDF(q)-pdf) > 1e-9*pdf {
			t.Fatalf("Sample pdf %f differs from PDF %f", pdf, p.PDF(q))
		}

		expected := p.Eval(q).Multiply(core.CosTheta(q.Wi) / pdf)
		if expected.Subtract(weight).Length() > 1e-9 {
			t.Fatalf("Weight %v differs from eval·cos/pdf %v", weight, expected)
		}
	}
}

func TestPhong_PDFIntegratesToOne(t *testing.T) {
	// With wo along the normal the specular lobe lies entirely above the surface
	p := NewPhong(core.Splat(0.3), core.Splat(0.5), 8)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0, 0, 1)

	const samples = 400000
	sum := 0.0
	for i := 0; i < samples; i++ {
		z := random.Float64()
		r := math.Sqrt(1 - z*z)
		phi := 2 * math.Pi * random.Float64()
		q := NewBSDFQuery(core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z), wo, core.Vec2{})
		sum += p.PDF(q) * 2 * math.Pi
	}

	if integral := sum / samples; math.Abs(integral-1) > 0.02 {
		t.Errorf("Phong pdf integrates to %f, expected 1", integral)
	}
}

func TestPhong_SampledEstimateMatchesReflectance(t *testing.T) {
	p := NewPhong(core.Splat(0.3), core.Splat(0.5), 8)
	random := rand.New(rand.NewSource(42))
	wo := core.NewVec3(0, 0, 1)

	// Importance-sampled estimate of ∫ f·cosθ dω
	const samples = 200000
	sampled := 0.0
	for i := 0; i < samples; i++ {
		q := BSDFQuery{Wo: wo}
		weight, _ := p.Sample(&q, core.NewVec2(random.Float64(), random.Float64()))
		sampled += weight.X
	}
	sampled /= samples

	// Same integral with uniform hemisphere sampling
	uniform := 0.0
	for i := 0; i < samples; i++ {
		z := random.Float64()
		r := math.Sqrt(1 - z*z)
		phi := 2 * math.Pi * random.Float64()
		q := NewBSDFQuery(core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z), wo, core.Vec2{})
		uniform += p.Eval(q).X * z * 2 * math.Pi
	}
	uniform /= samples

	if math.Abs(sampled-uniform) > 0.02 {
		t.Errorf("Sampled reflectance %f differs from uniform estimate %f", sampled, uniform)
	}
}
