package integrator

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/medium"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

func TestVolume_RequiresMedium(t *testing.T) {
	s := scene.New()
	children := []interface{}{
		geometry.NewSphere(core.Vec3{}, 1),
		geometry.NewCamera(geometry.DefaultCameraConfig()),
		NewVolume(),
	}
	for _, child := range children {
		if err := s.AddChild(child); err != nil {
			t.Fatalf("AddChild(%T) failed: %v", child, err)
		}
	}

	err := s.Activate(core.NopLogger{})
	var cfgErr *core.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected a ConfigurationError without a medium, got %v", err)
	}
}

func TestVolume_VacuumMatchesDirectLighting(t *testing.T) {
	integrator := NewVolume()
	s := pointLightScene(t, integrator, medium.NewHomogeneous(core.Vec3{}, core.Vec3{}))

	sampler := core.NewRandomSampler(9)
	for i := 0; i < 4; i++ {
		got := integrator.Li(s, sampler, poleRay)
		assertClose(t, "Li", got, pointLightRadiance, 1e-12)
	}
}

func TestVolume_EmitterSeenThroughAbsorbingMedium(t *testing.T) {
	integrator := NewVolume()
	light := withChildren(t, geometry.NewSphere(core.NewVec3(0, 0, -1), 1), lights.NewAreaLight(core.Splat(2), false))
	s := buildScene(t, integrator, light, medium.NewHomogeneous(core.Splat(0.2), core.Vec3{}))

	// The light's surface is 3 units away
	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	got := average(s, integrator, ray, 20000)
	want := 2 * math.Exp(-0.2*3)
	assertClose(t, "mean Li", got, want, 0.03*want)
}

func TestVolume_InScattering(t *testing.T) {
	integrator := NewVolume()
	floor := newFloor(t, 20, material.NewDiffuse(core.Vec3{}))
	light := lights.NewPointLight(core.NewVec3(0, 3, 0), core.Splat(10))
	s := buildScene(t, integrator, floor, light, medium.NewHomogeneous(core.Vec3{}, core.Splat(0.5)))

	// A black floor reflects nothing, so all the light comes from the medium
	ray := core.NewRay(core.NewVec3(0, 1, 5), core.NewVec3(0, -1, -5).Normalize())
	got := average(s, integrator, ray, 5000)
	if !got.IsFinite() || got.X <= 0 {
		t.Errorf("mean Li = %v, want positive in-scattered radiance", got)
	}
	if got.X != got.Y || got.Y != got.Z {
		t.Errorf("mean Li = %v, want grey for a grey medium and light", got)
	}
}

func TestVolume_MissWithoutScatteringIsBlack(t *testing.T) {
	integrator := NewVolume()
	s := pointLightScene(t, integrator, medium.NewHomogeneous(core.Vec3{}, core.Vec3{}))
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 1, 0))
	if got := integrator.Li(s, core.NewRandomSampler(1), ray); got != (core.Vec3{}) {
		t.Errorf("Li = %v, want zero", got)
	}
}
