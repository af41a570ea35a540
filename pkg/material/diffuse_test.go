package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

func TestDiffuse_SampleWeightEqualsAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	diffuse := NewDiffuse(albedo)
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		q := BSDFQuery{Wo: core.NewVec3(0, 0, 1)}
		weight, pdf := diffuse.Sample(&q, core.NewVec2(random.Float64(), random.Float64()))
		if pdf <= 0 {
			continue
		}

		if weight != albedo {
			t.Errorf("Expected sample weight %v, got %v", albedo, weight)
		}

		// eval·cosθ/pdf must reproduce the returned weight
		expected := diffuse.Eval(q).Multiply(core.CosTheta(q.Wi) / diffuse.PDF(q))
		if expected.Subtract(weight).Length() > 1e-9 {
			t.Errorf("Weight %v does not match eval·cos/pdf %v", weight, expected)
		}
	}
}

func TestDiffuse_EnergyConvergesToAlbedo(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	diffuse := NewDiffuse(albedo)
	random := rand.New(rand.NewSource(42))

	// Integrate f·cosθ with uniform hemisphere sampling (pdf 1/2π)
	const samples = 200000
	sum := 0.0
	for i := 0; i < samples; i++ {
		z := random.Float64()
		r := math.Sqrt(1 - z*z)
		phi := 2 * math.Pi * random.Float64()
		q := NewBSDFQuery(core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), z), core.NewVec3(0, 0, 1), core.Vec2{})
		sum += diffuse.Eval(q).X * z * 2 * math.Pi
	}

	estimate := sum / samples
	if math.Abs(estimate-0.5) > 0.01 {
		t.Errorf("Expected hemispherical reflectance 0.5, got %f", estimate)
	}
}

func TestDiffuse_BelowSurface(t *testing.T) {
	diffuse := NewDiffuse(core.NewVec3(0.8, 0.8, 0.8))

	tests := []struct {
		name string
		q    BSDFQuery
	}{
		{"wi below", NewBSDFQuery(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), core.Vec2{})},
		{"wo below", NewBSDFQuery(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1), core.Vec2{})},
		{"wrong measure", BSDFQuery{Wi: core.NewVec3(0, 0, 1), Wo: core.NewVec3(0, 0, 1), Measure: core.MeasureDiscrete}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !diffuse.Eval(tt.q).IsZero() {
				t.Error("Expected zero eval")
			}
			if diffuse.PDF(tt.q) != 0 {
				t.Error("Expected zero pdf")
			}
		})
	}

	q := BSDFQuery{Wo: core.NewVec3(0, 0, -1)}
	if w, _ := diffuse.Sample(&q, core.NewVec2(0.3, 0.3)); !w.IsZero() {
		t.Error("Sampling from a back-facing wo should return zero")
	}
}

func TestNewBSDFFromProperties(t *testing.T) {
	props := core.NewProperties().Set("albedo", "0.2, 0.4, 0.6")

	bsdf, err := NewBSDFFromProperties("diffuse", props)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d, ok := bsdf.(*Diffuse); !ok || d.Albedo != core.NewVec3(0.2, 0.4, 0.6) {
		t.Errorf("Expected diffuse with albedo (0.2,0.4,0.6), got %#v", bsdf)
	}

	if _, err := NewBSDFFromProperties("velvet", props); err == nil {
		t.Error("Expected error for unknown BSDF type")
	}
}
