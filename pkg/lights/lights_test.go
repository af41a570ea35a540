package lights

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
)

func TestPointLight_Eval(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 0, 5), core.Splat(1))

	q := light.Eval(core.Vec3{}, core.SampleRecord{})
	if math.Abs(q.Le.X-1.0/25) > 1e-12 {
		t.Errorf("Expected Le = I/d² = 0.04, got %f", q.Le.X)
	}
	if q.Wi != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected Wi towards the light, got %v", q.Wi)
	}

	rec, err := light.Sample(core.MeasureArea, core.NewVec2(0.3, 0.7), core.Vec3{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec.PDF != 1 || rec.Point != light.Position || rec.Distance != 5 {
		t.Errorf("Unexpected point light sample %+v", rec)
	}
	if !light.IsDelta() {
		t.Error("Point light should be a delta emitter")
	}
}

func TestDirectionalLight_NoFalloff(t *testing.T) {
	light := NewDirectionalLight(core.NewVec3(0, -2, 0), core.Splat(3))

	near := light.Eval(core.Vec3{}, core.SampleRecord{})
	far := light.Eval(core.NewVec3(100, -50, 7), core.SampleRecord{})
	if near.Le != far.Le {
		t.Errorf("Directional light radiance should not depend on position: %v vs %v", near.Le, far.Le)
	}
	if near.Wi != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected Wi opposite to the travel direction, got %v", near.Wi)
	}

	rec, _ := light.Sample(core.MeasureSolidAngle, core.NewVec2(0.5, 0.5), core.Vec3{})
	if !math.IsInf(rec.Distance, 1) || rec.PDF != 1 {
		t.Errorf("Expected an infinitely distant sample with pdf 1, got %+v", rec)
	}
}

func TestAreaLight_DelegatesToShape(t *testing.T) {
	quad, err := geometry.NewQuadMesh(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))
	if err != nil {
		t.Fatalf("Failed to create quad: %v", err)
	}
	light := NewAreaLight(core.Splat(2), false)

	if _, err := light.Sample(core.MeasureArea, core.NewVec2(0.5, 0.5), core.Vec3{}); err == nil {
		t.Error("Expected error sampling an unbound area light")
	}

	light.BindShape(3, quad)
	if light.ShapeIndex != 3 {
		t.Errorf("Expected shape index 3, got %d", light.ShapeIndex)
	}

	ref := core.NewVec3(0.5, 0.5, 2)
	rec, err := light.Sample(core.MeasureArea, core.NewVec2(0.25, 0.75), ref)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec.PDF != 1 {
		t.Errorf("Expected area pdf 1 for a unit quad, got %f", rec.PDF)
	}

	// The quad faces +Z, so only points above it receive light
	if q := light.Eval(ref, rec); q.Le != core.Splat(2) {
		t.Errorf("Front side should see the radiance, got %v", q.Le)
	}
	if q := light.Eval(core.NewVec3(0.5, 0.5, -2), rec); !q.Le.IsZero() {
		t.Errorf("Back side should see nothing, got %v", q.Le)
	}

	light.TwoSided = true
	if q := light.Eval(core.NewVec3(0.5, 0.5, -2), rec); q.Le != core.Splat(2) {
		t.Errorf("Two-sided light should emit on the back, got %v", q.Le)
	}

	_, err = light.Sample(core.MeasureHemisphere, core.NewVec2(0.5, 0.5), ref)
	var unsupported *core.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Errorf("Expected UnsupportedOperationError for the hemisphere measure, got %v", err)
	}
}

func TestChooseOneLight(t *testing.T) {
	a := NewPointLight(core.Vec3{}, core.Splat(1))
	b := NewPointLight(core.NewVec3(1, 0, 0), core.Splat(1))
	emitters := []core.Emitter{a, b}

	tests := []struct {
		u        float64
		expected core.Emitter
	}{
		{0, a},
		{0.49, a},
		{0.5, b},
		{0.999999, b},
		{1, b},
	}

	for _, tt := range tests {
		chosen, pdf := ChooseOneLight(emitters, tt.u)
		if chosen != tt.expected {
			t.Errorf("u=%f chose the wrong light", tt.u)
		}
		if pdf != 0.5 {
			t.Errorf("Expected selection pdf 0.5, got %f", pdf)
		}
	}

	if chosen, pdf := ChooseOneLight(nil, 0.5); chosen != nil || pdf != 0 {
		t.Error("Choosing from no lights should return nil")
	}
}

func TestNewEmitterFromProperties(t *testing.T) {
	props := core.NewProperties().Set("position", "0,0,5").Set("radiance", "1,1,1")
	emitter, err := NewEmitterFromProperties(LightTypePoint, props)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p, ok := emitter.(*PointLight); !ok || p.Position != core.NewVec3(0, 0, 5) {
		t.Errorf("Unexpected emitter %#v", emitter)
	}

	if _, err := NewEmitterFromProperties("spot", props); err == nil {
		t.Error("Expected error for unknown emitter type")
	}
}
