package geometry

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Accelerator answers closest-hit and shadow queries over a fixed set of shapes
type Accelerator interface {
	Build(shapes []Shape)
	BoundingBox() core.AABB
	// RayIntersect finds the closest hit inside the ray segment
	RayIntersect(ray core.Ray) (Intersection, bool)
	// Occluded reports whether anything is hit inside the ray segment
	Occluded(ray core.Ray) bool
}

// NewAccelerator creates an accelerator by name: "bvh" or "linear"
func NewAccelerator(name string) (Accelerator, error) {
	switch name {
	case "", "bvh":
		return NewBVH(), nil
	case "linear":
		return NewLinearAccel(), nil
	}
	return nil, core.NewConfigurationError("accelerator", "unknown accelerator %q", name)
}

// primitiveRef identifies one primitive of one shape
type primitiveRef struct {
	shape int
	prim  int
}

// closestHit tracks the best candidate found so far during a traversal
type closestHit struct {
	found bool
	t     float64
	ref   primitiveRef
	query HitQuery
}

// collectPrimitives flattens every shape into primitive references
func collectPrimitives(shapes []Shape) ([]primitiveRef, core.AABB) {
	var refs []primitiveRef
	var bbox core.AABB
	for i, shape := range shapes {
		if i == 0 {
			bbox = shape.BoundingBox()
		} else {
			bbox = bbox.Union(shape.BoundingBox())
		}
		for p := 0; p < shape.PrimitiveCount(); p++ {
			refs = append(refs, primitiveRef{shape: i, prim: p})
		}
	}
	return refs, bbox
}

// testPrimitives intersects refs against the ray, shrinking ray.MaxT on every
// hit. With shadow set it returns on the first hit.
func testPrimitives(shapes []Shape, refs []primitiveRef, ray *core.Ray, shadow bool, best *closestHit) bool {
	hitAnything := false
	for _, ref := range refs {
		query := HitQuery{Primitive: ref.prim}
		t, ok := shapes[ref.shape].RayIntersect(*ray, &query)
		if !ok {
			continue
		}
		if shadow {
			return true
		}
		hitAnything = true
		ray.MaxT = t
		*best = closestHit{found: true, t: t, ref: ref, query: query}
	}
	return hitAnything
}

// finishIntersection runs the detail pass for the winning primitive only
func finishIntersection(shapes []Shape, ray core.Ray, best closestHit) Intersection {
	shape := shapes[best.ref.shape]
	its := Intersection{T: best.t, Shape: shape, ShapeIndex: best.ref.shape}
	shape.UpdateIntersection(ray, &its, best.query)
	return its
}

// LinearAccel tests every primitive for every ray
type LinearAccel struct {
	shapes []Shape
	refs   []primitiveRef
	bbox   core.AABB
}

// NewLinearAccel creates an empty linear accelerator
func NewLinearAccel() *LinearAccel {
	return &LinearAccel{}
}

// Build records the shapes and their primitives
func (a *LinearAccel) Build(shapes []Shape) {
	a.shapes = shapes
	a.refs, a.bbox = collectPrimitives(shapes)
}

// BoundingBox returns the bounds of all shapes
func (a *LinearAccel) BoundingBox() core.AABB {
	return a.bbox
}

// RayIntersect scans all primitives for the closest hit
func (a *LinearAccel) RayIntersect(ray core.Ray) (Intersection, bool) {
	var best closestHit
	if !testPrimitives(a.shapes, a.refs, &ray, false, &best) {
		return Intersection{}, false
	}
	return finishIntersection(a.shapes, ray, best), true
}

// Occluded returns on the first primitive hit
func (a *LinearAccel) Occluded(ray core.Ray) bool {
	var best closestHit
	return testPrimitives(a.shapes, a.refs, &ray, true, &best)
}
