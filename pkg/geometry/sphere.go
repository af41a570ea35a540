package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// Sphere represents a sphere defined by center and radius
type Sphere struct {
	surface
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// NewSphereFromProperties reads "center" and "radius"
func NewSphereFromProperties(props *core.Properties) (*Sphere, error) {
	center, err := props.Point("center", core.Vec3{})
	if err != nil {
		return nil, err
	}
	radius, err := props.Float("radius", 1)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, core.NewConfigurationError("sphere", "radius must be positive, got %g", radius)
	}
	return NewSphere(center, radius), nil
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := core.Splat(s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Centroid returns the sphere center
func (s *Sphere) Centroid() core.Vec3 {
	return s.Center
}

// Area returns the surface area 4πr²
func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// PrimitiveCount returns 1
func (s *Sphere) PrimitiveCount() int {
	return 1
}

// PrimitiveBoundingBox returns the sphere's bounding box
func (s *Sphere) PrimitiveBoundingBox(prim int) core.AABB {
	return s.BoundingBox()
}

// RayIntersect returns the nearest root of the ray-sphere quadratic inside the ray segment
func (s *Sphere) RayIntersect(ray core.Ray, query *HitQuery) (float64, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	b := 2 * ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	t0, t1, ok := SolveQuadratic(a, b, c)
	if !ok {
		return 0, false
	}

	// Try the nearer root first, then the farther one
	if t0 >= ray.MinT && t0 <= ray.MaxT {
		return t0, true
	}
	if t1 >= ray.MinT && t1 <= ray.MaxT {
		return t1, true
	}
	return 0, false
}

// UpdateIntersection computes position, normal frame and spherical UVs
func (s *Sphere) UpdateIntersection(ray core.Ray, its *Intersection, query HitQuery) {
	its.P = ray.At(its.T)
	n := its.P.Subtract(s.Center).Normalize()
	its.GeoFrame = core.NewFrame(n)
	its.ShadingFrame = its.GeoFrame
	its.UV = sphericalUV(n)
}

func sphericalUV(n core.Vec3) core.Vec2 {
	phi := math.Atan2(n.Y, n.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, n.Z)))
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Sample draws a point on the sphere. The area measure samples the whole
// surface uniformly; the solid angle measure samples the cone of directions
// subtended by the sphere, falling back to area sampling from inside.
func (s *Sphere) Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error) {
	switch measure {
	case core.MeasureArea:
		return s.sampleArea(u, ref), nil
	case core.MeasureSolidAngle:
		return s.sampleSolidAngle(u, ref), nil
	}
	return core.SampleRecord{}, unsupportedMeasure("sphere", measure)
}

func (s *Sphere) sampleArea(u core.Vec2, ref core.Vec3) core.SampleRecord {
	n := warp.SquareToUniformSphere(u)
	p := s.Center.Add(n.Multiply(s.Radius))
	return newSurfaceRecord(p, n, ref, 1/s.Area(), core.MeasureArea)
}

func (s *Sphere) sampleSolidAngle(u core.Vec2, ref core.Vec3) core.SampleRecord {
	toCenter := s.Center.Subtract(ref)
	dist2 := toCenter.LengthSquared()
	r2 := s.Radius * s.Radius

	// Inside the sphere every direction sees it: convert an area sample
	if dist2 <= r2 {
		rec := s.sampleArea(u, ref)
		rec.PDF = areaToSolidAngle(rec.PDF, rec.Point, rec.Normal, ref)
		rec.Measure = core.MeasureSolidAngle
		return rec
	}

	dist := math.Sqrt(dist2)
	cosThetaMax := math.Sqrt(math.Max(0, 1-r2/dist2))
	cone := core.NewFrame(toCenter.Multiply(1 / dist))
	wi := cone.ToWorld(warp.SquareToUniformCone(u, cosThetaMax))

	// Nearest intersection of the sampled direction with the sphere; grazing
	// directions that miss numerically use the tangent point
	oc := ref.Subtract(s.Center)
	b := wi.Dot(oc)
	disc := math.Max(0, b*b-(oc.LengthSquared()-r2))
	t := -b - math.Sqrt(disc)

	p := ref.Add(wi.Multiply(t))
	n := p.Subtract(s.Center).Normalize()
	return core.SampleRecord{
		Point:     p,
		Normal:    n,
		Direction: wi,
		Distance:  t,
		PDF:       warp.SquareToUniformConePDF(core.NewVec3(0, 0, 1), cosThetaMax),
		Measure:   core.MeasureSolidAngle,
	}
}

// PDF returns the density of rec.Point under the given measure
func (s *Sphere) PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error) {
	switch measure {
	case core.MeasureArea:
		return 1 / s.Area(), nil
	case core.MeasureSolidAngle:
		toCenter := s.Center.Subtract(ref)
		dist2 := toCenter.LengthSquared()
		r2 := s.Radius * s.Radius
		if dist2 <= r2 {
			n := rec.Point.Subtract(s.Center).Normalize()
			return areaToSolidAngle(1/s.Area(), rec.Point, n, ref), nil
		}

		cosThetaMax := math.Sqrt(math.Max(0, 1-r2/dist2))
		dir := rec.Point.Subtract(ref).Normalize()
		local := core.NewFrame(toCenter.Normalize()).ToLocal(dir)
		return warp.SquareToUniformConePDF(local, cosThetaMax), nil
	}
	return 0, unsupportedMeasure("sphere", measure)
}

// SolveQuadratic returns the real roots of a·x² + b·x + c = 0 in ascending
// order using the numerically stable formulation. A zero a degrades to the
// single linear root, reported twice.
func SolveQuadratic(a, b, c float64) (float64, float64, bool) {
	if a == 0 {
		if b == 0 {
			return 0, 0, false
		}
		x := -c / b
		return x, x, true
	}

	discrim := b*b - 4*a*c
	if discrim < 0 {
		return 0, 0, false
	}

	root := math.Sqrt(discrim)
	var q float64
	if b < 0 {
		q = -0.5 * (b - root)
	} else {
		q = -0.5 * (b + root)
	}
	if q == 0 {
		return 0, 0, true
	}

	x0 := q / a
	x1 := c / q
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return x0, x1, true
}

// newSurfaceRecord fills a sample record for a point on a surface seen from ref
func newSurfaceRecord(p, n, ref core.Vec3, pdf float64, measure core.Measure) core.SampleRecord {
	d := p.Subtract(ref)
	dist := d.Length()
	var dir core.Vec3
	if dist > 0 {
		dir = d.Multiply(1 / dist)
	}
	return core.SampleRecord{
		Point:     p,
		Normal:    n,
		Direction: dir,
		Distance:  dist,
		PDF:       pdf,
		Measure:   measure,
	}
}
