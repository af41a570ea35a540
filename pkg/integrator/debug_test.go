package integrator

import (
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
)

func TestNormals(t *testing.T) {
	integrator := NewNormals()
	s := pointLightScene(t, integrator)

	got := integrator.Li(s, core.NewRandomSampler(1), poleRay)
	if got.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Li = %v, want the pole normal (0, 0, 1)", got)
	}
}

func TestSimple_MatchesDirectForPointLight(t *testing.T) {
	integrator := NewSimple()
	s := pointLightScene(t, integrator)
	got := integrator.Li(s, core.NewRandomSampler(1), poleRay)
	assertClose(t, "Li", got, pointLightRadiance, 1e-12)

	occluder := withChildren(t, geometry.NewSphere(core.NewVec3(0, 0, 3), 0.5), material.NewDiffuse(core.Splat(0.5)))
	blocked := pointLightScene(t, integrator, occluder)
	if got := integrator.Li(blocked, core.NewRandomSampler(1), poleRay); got != (core.Vec3{}) {
		t.Errorf("Li = %v, want zero behind an occluder", got)
	}
}
