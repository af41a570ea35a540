package integrator

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// Normals visualizes the absolute shading normal at the first hit
type Normals struct{}

// NewNormals creates a normals integrator
func NewNormals() *Normals {
	return &Normals{}
}

// Li returns |n| per component, or zero on a miss
func (Normals) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	its, hit := s.RayIntersect(ray)
	if !hit {
		return core.Vec3{}
	}
	n := its.ShadingFrame.N
	return core.NewVec3(math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z))
}

// Simple evaluates every point and directional emitter once at the first hit.
// Area emitters need sampling and are skipped.
type Simple struct{}

// NewSimple creates a simple integrator
func NewSimple() *Simple {
	return &Simple{}
}

// Li sums f·Le·cosθ over the unoccluded delta emitters
func (Simple) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray) core.Vec3 {
	its, hit := s.RayIntersect(ray)
	if !hit {
		return core.Vec3{}
	}
	bsdf := its.Shape.BSDF()
	if bsdf == nil {
		return core.Vec3{}
	}
	wo := its.ToLocal(ray.Direction.Negate().Normalize())

	sum := core.Vec3{}
	for _, emitter := range s.Emitters() {
		if !emitter.IsDelta() {
			continue
		}
		rec, err := emitter.Sample(core.MeasureDiscrete, core.Vec2{}, its.P)
		if err != nil || rec.PDF <= 0 {
			continue
		}
		query := emitter.Eval(its.P, rec)
		if !emitterVisible(s, emitter, its.P, query.Wi, rec) {
			continue
		}
		wi := its.ToLocal(query.Wi)
		cosTheta := core.CosTheta(wi)
		if cosTheta <= 0 {
			continue
		}
		f := bsdf.Eval(material.NewBSDFQuery(wi, wo, its.UV))
		sum = sum.Add(f.MultiplyVec(query.Le).Multiply(cosTheta))
	}
	return sum
}
