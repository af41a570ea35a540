package geometry

import (
	"math"
	"sort"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Mesh is an indexed triangle mesh. Vertex attributes live in parallel slices
// and a triangle is just an index into Indices.
type Mesh struct {
	surface
	Positions []core.Vec3
	Normals   []core.Vec3 // Optional per-vertex shading normals
	UVs       []core.Vec2 // Optional per-vertex texture coordinates
	Indices   [][3]int

	bbox      core.AABB
	areaCDF   []float64 // Running sum of triangle areas
	totalArea float64
}

// NewMesh validates the index buffer and precomputes bounds and the area
// distribution used for sampling. normals and uvs may be nil.
func NewMesh(positions []core.Vec3, indices [][3]int, normals []core.Vec3, uvs []core.Vec2) (*Mesh, error) {
	if len(positions) == 0 || len(indices) == 0 {
		return nil, core.NewConfigurationError("mesh", "mesh needs at least one triangle")
	}
	if len(normals) != 0 && len(normals) != len(positions) {
		return nil, core.NewConfigurationError("mesh", "got %d normals for %d vertices", len(normals), len(positions))
	}
	if len(uvs) != 0 && len(uvs) != len(positions) {
		return nil, core.NewConfigurationError("mesh", "got %d texture coordinates for %d vertices", len(uvs), len(positions))
	}
	for i, tri := range indices {
		for _, idx := range tri {
			if idx < 0 || idx >= len(positions) {
				return nil, core.NewConfigurationError("mesh", "triangle %d references vertex %d of %d", i, idx, len(positions))
			}
		}
	}

	m := &Mesh{
		Positions: positions,
		Normals:   normals,
		UVs:       uvs,
		Indices:   indices,
		areaCDF:   make([]float64, len(indices)),
	}

	m.bbox = core.NewAABBFromPoints(positions...)
	for i := range indices {
		m.totalArea += m.triangleArea(i)
		m.areaCDF[i] = m.totalArea
	}

	return m, nil
}

// NewQuadMesh builds a two-triangle mesh for the parallelogram corner, corner+u, corner+u+v, corner+v
func NewQuadMesh(corner, u, v core.Vec3) (*Mesh, error) {
	positions := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	return NewMesh(positions, [][3]int{{0, 1, 2}, {0, 2, 3}}, nil, nil)
}

func (m *Mesh) vertices(tri int) (core.Vec3, core.Vec3, core.Vec3) {
	idx := m.Indices[tri]
	return m.Positions[idx[0]], m.Positions[idx[1]], m.Positions[idx[2]]
}

func (m *Mesh) triangleArea(tri int) float64 {
	p0, p1, p2 := m.vertices(tri)
	return 0.5 * p1.Subtract(p0).Cross(p2.Subtract(p0)).Length()
}

func (m *Mesh) geometricNormal(tri int) core.Vec3 {
	p0, p1, p2 := m.vertices(tri)
	return p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
}

// BoundingBox returns the bounds of all vertices
func (m *Mesh) BoundingBox() core.AABB {
	return m.bbox
}

// Centroid returns the center of the bounding box
func (m *Mesh) Centroid() core.Vec3 {
	return m.bbox.Center()
}

// Area returns the total surface area
func (m *Mesh) Area() float64 {
	return m.totalArea
}

// PrimitiveCount returns the number of triangles
func (m *Mesh) PrimitiveCount() int {
	return len(m.Indices)
}

// PrimitiveBoundingBox returns the bounds of one triangle
func (m *Mesh) PrimitiveBoundingBox(tri int) core.AABB {
	p0, p1, p2 := m.vertices(tri)
	return core.NewAABBFromPoints(p0, p1, p2)
}

// RayIntersect tests triangle query.Primitive using the Möller-Trumbore algorithm
func (m *Mesh) RayIntersect(ray core.Ray, query *HitQuery) (float64, bool) {
	const epsilon = 1e-8

	p0, p1, p2 := m.vertices(query.Primitive)
	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	// If determinant is near zero, ray lies in plane of triangle
	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if det > -epsilon && det < epsilon {
		return 0, false
	}

	f := 1.0 / det
	s := ray.Origin.Subtract(p0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t < ray.MinT || t > ray.MaxT {
		return 0, false
	}

	query.U, query.V = u, v
	return t, true
}

// UpdateIntersection interpolates position, shading normal and UVs with the
// barycentrics {1-u-v, u, v}
func (m *Mesh) UpdateIntersection(ray core.Ray, its *Intersection, query HitQuery) {
	tri := query.Primitive
	idx := m.Indices[tri]
	b0, b1, b2 := 1-query.U-query.V, query.U, query.V

	p0, p1, p2 := m.vertices(tri)
	its.P = p0.Multiply(b0).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))

	its.GeoFrame = core.NewFrame(m.geometricNormal(tri))
	its.ShadingFrame = its.GeoFrame
	if len(m.Normals) > 0 {
		n := m.Normals[idx[0]].Multiply(b0).
			Add(m.Normals[idx[1]].Multiply(b1)).
			Add(m.Normals[idx[2]].Multiply(b2)).
			Normalize()
		if !n.IsZero() {
			its.ShadingFrame = core.NewFrame(n)
		}
	}

	if len(m.UVs) > 0 {
		uv0, uv1, uv2 := m.UVs[idx[0]], m.UVs[idx[1]], m.UVs[idx[2]]
		its.UV = uv0.Multiply(b0).Add(uv1.Multiply(b1)).Add(uv2.Multiply(b2))
	} else {
		its.UV = core.NewVec2(b1, b2)
	}
}

// Sample draws a point uniformly by area. Under the solid angle measure the
// density is converted with |p-ref|²/|cosθ|.
func (m *Mesh) Sample(measure core.Measure, u core.Vec2, ref core.Vec3) (core.SampleRecord, error) {
	if measure != core.MeasureArea && measure != core.MeasureSolidAngle {
		return core.SampleRecord{}, unsupportedMeasure("mesh", measure)
	}
	if m.totalArea == 0 {
		return core.SampleRecord{Measure: measure}, nil
	}

	// Choose a triangle proportionally to its area and reuse u.X inside it
	target := u.X * m.totalArea
	tri := sort.Search(len(m.areaCDF), func(i int) bool { return m.areaCDF[i] > target })
	tri = min(tri, len(m.areaCDF)-1)
	prev := 0.0
	if tri > 0 {
		prev = m.areaCDF[tri-1]
	}
	if area := m.areaCDF[tri] - prev; area > 0 {
		u.X = math.Min((target-prev)/area, math.Nextafter(1, 0))
	}

	// Uniform barycentrics
	su := math.Sqrt(u.X)
	b0 := 1 - su
	b1 := u.Y * su
	b2 := 1 - b0 - b1

	p0, p1, p2 := m.vertices(tri)
	p := p0.Multiply(b0).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))

	rec := newSurfaceRecord(p, m.geometricNormal(tri), ref, 1/m.totalArea, core.MeasureArea)
	if measure == core.MeasureSolidAngle {
		rec.PDF = areaToSolidAngle(rec.PDF, rec.Point, rec.Normal, ref)
		rec.Measure = core.MeasureSolidAngle
	}
	return rec, nil
}

// PDF returns the density of rec.Point; rec.Normal must be the surface normal there
func (m *Mesh) PDF(measure core.Measure, rec core.SampleRecord, ref core.Vec3) (float64, error) {
	if m.totalArea == 0 {
		return 0, nil
	}
	switch measure {
	case core.MeasureArea:
		return 1 / m.totalArea, nil
	case core.MeasureSolidAngle:
		return areaToSolidAngle(1/m.totalArea, rec.Point, rec.Normal, ref), nil
	}
	return 0, unsupportedMeasure("mesh", measure)
}
