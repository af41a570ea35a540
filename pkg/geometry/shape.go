package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/material"
)

// HitQuery carries what the cheap intersection test learned to the detail pass
type HitQuery struct {
	Primitive int     // Primitive to test, set by the accelerator
	U, V      float64 // Barycentric coordinates for triangle hits
}

// Intersection describes the closest surface hit along a ray
type Intersection struct {
	P            core.Vec3  // Hit position
	T            float64    // Ray parameter of the hit
	UV           core.Vec2  // Surface texture coordinates
	ShadingFrame core.Frame // Frame of the (possibly interpolated) shading normal
	GeoFrame     core.Frame // Frame of the true geometric normal
	Shape        Shape      // Shape that was hit
	ShapeIndex   int        // Index of Shape in the scene's shape list
}

// ToLocal converts a world direction into the shading frame
func (its *Intersection) ToLocal(d core.Vec3) core.Vec3 {
	return its.ShadingFrame.ToLocal(d)
}

// ToWorld converts a shading-frame direction into world space
func (its *Intersection) ToWorld(d core.Vec3) core.Vec3 {
	return its.ShadingFrame.ToWorld(d)
}

// Shape is an intersectable surface made of one or more primitives
type Shape interface {
	BoundingBox() core.AABB
	Centroid() core.Vec3
	Area() float64

	PrimitiveCount() int
	PrimitiveBoundingBox(prim int) core.AABB

	// RayIntersect tests primitive query.Primitive against the ray segment and
	// records whatever UpdateIntersection needs in query
	RayIntersect(ray core.Ray, query *HitQuery) (float64, bool)
	// UpdateIntersection fills in the details of the winning hit; its.T is already set
	UpdateIntersection(ray core.Ray, its *Intersection, query HitQuery)

	// Sample draws a surface point under the area or solid-angle measure as seen from ref
	Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error)
	// PDF returns the density of rec.Point (with rec.Normal) as seen from ref
	PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error)

	BSDF() material.BSDF
	Emitter() core.Emitter
	// AddChild attaches a BSDF or an emitter
	AddChild(child interface{}) error
}

// ShapeBinder is implemented by emitters that need a handle to the shape they
// are attached to
type ShapeBinder interface {
	BindShape(index int, shape Shape)
}

// surface holds the children shared by all shapes
type surface struct {
	bsdf    material.BSDF
	emitter core.Emitter
}

// BSDF returns the attached BSDF (nil before scene activation if none was added)
func (s *surface) BSDF() material.BSDF {
	return s.bsdf
}

// Emitter returns the attached emitter or nil
func (s *surface) Emitter() core.Emitter {
	return s.emitter
}

// AddChild attaches a BSDF or an emitter. Each may only be attached once.
func (s *surface) AddChild(child interface{}) error {
	switch c := child.(type) {
	case material.BSDF:
		if s.bsdf != nil {
			return core.NewConfigurationError("shape", "a shape can have only one BSDF")
		}
		s.bsdf = c
	case core.Emitter:
		if s.emitter != nil {
			return core.NewConfigurationError("shape", "a shape can have only one emitter")
		}
		s.emitter = c
	default:
		return core.NewConfigurationError("shape", "cannot attach %T", child)
	}
	return nil
}

// areaToSolidAngle converts an area density at point into a solid angle density at ref
func areaToSolidAngle(pdfArea float64, point, normal, ref core.Vec3) float64 {
	d := point.Subtract(ref)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	cosTheta := math.Abs(normal.Dot(d)) / math.Sqrt(dist2)
	if cosTheta == 0 {
		return 0
	}
	return pdfArea * dist2 / cosTheta
}

func unsupportedMeasure(shape string, measure core.Measure) error {
	return &core.UnsupportedOperationError{Type: shape, Operation: "sampling under the " + measure.String() + " measure"}
}
