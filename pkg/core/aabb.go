package core

import "math"

// AABB is an axis-aligned bounding box. The zero value is the degenerate box
// at the origin; use EmptyAABB as the identity for Union and ExpandBy.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a box from its two corners
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any point or box expands
func EmptyAABB() AABB {
	return AABB{Min: Splat(math.Inf(1)), Max: Splat(math.Inf(-1))}
}

// NewAABBFromPoints bounds the given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := EmptyAABB()
	for _, p := range points {
		box = box.ExpandBy(p)
	}
	return box
}

func componentMin(a, b Vec3) Vec3 {
	return NewVec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z))
}

func componentMax(a, b Vec3) Vec3 {
	return NewVec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z))
}

// Clip intersects the ray's [MinT, MaxT] segment with the box using the slab
// method and returns the overlapping parameter interval
func (aabb AABB) Clip(ray Ray) (tNear, tFar float64, ok bool) {
	tNear, tFar = ray.MinT, ray.MaxT
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Get(axis)
		dir := ray.Direction.Get(axis)
		lo, hi := aabb.Min.Get(axis), aabb.Max.Get(axis)

		if math.Abs(dir) < 1e-8 {
			// Parallel to the slab
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		t0 := (lo - origin) / dir
		t1 := (hi - origin) / dir
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tNear = math.Max(tNear, t0)
		tFar = math.Min(tFar, t1)
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}

// Intersects reports whether the ray's segment overlaps the box
func (aabb AABB) Intersects(ray Ray) bool {
	_, _, ok := aabb.Clip(ray)
	return ok
}

// Union returns the box bounding both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: componentMin(aabb.Min, other.Min), Max: componentMax(aabb.Max, other.Max)}
}

// ExpandBy returns the box grown to contain point
func (aabb AABB) ExpandBy(point Vec3) AABB {
	return AABB{Min: componentMin(aabb.Min, point), Max: componentMax(aabb.Max, point)}
}

func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Extents returns the size of the box along each axis
func (aabb AABB) Extents() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns 0, 1 or 2 for the axis with the largest extent
func (aabb AABB) LongestAxis() int {
	e := aabb.Extents()
	switch {
	case e.X > e.Y && e.X > e.Z:
		return 0
	case e.Y > e.Z:
		return 1
	}
	return 2
}

// IsValid reports whether Min <= Max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X && aabb.Min.Y <= aabb.Max.Y && aabb.Min.Z <= aabb.Max.Z
}
