package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/warp"
)

// randomShapes builds a mix of spheres and a many-triangle mesh
func randomShapes(t *testing.T, random *rand.Rand) []Shape {
	t.Helper()
	var shapes []Shape
	for i := 0; i < 40; i++ {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		shapes = append(shapes, NewSphere(center, 0.2+random.Float64()))
	}

	// A jittered grid mesh to exercise triangle primitives
	const n = 12
	var positions []core.Vec3
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			positions = append(positions, core.NewVec3(float64(x)-6, float64(y)-6, random.Float64()*0.5))
		}
	}
	var indices [][3]int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*(n+1) + x
			indices = append(indices, [3]int{i, i + 1, i + n + 2}, [3]int{i, i + n + 2, i + n + 1})
		}
	}
	mesh, err := NewMesh(positions, indices, nil, nil)
	if err != nil {
		t.Fatalf("Failed to create mesh: %v", err)
	}
	return append(shapes, mesh)
}

func TestBVH_MatchesLinearAccelerator(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	shapes := randomShapes(t, random)

	linear := NewLinearAccel()
	linear.Build(shapes)
	bvh := NewBVH()
	bvh.Build(shapes)

	if stats := bvh.Stats(); stats.TotalPrimitives != 40+2*12*12 {
		t.Fatalf("Expected every primitive in the BVH, got %d", stats.TotalPrimitives)
	}

	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
		dir := warp.SquareToUniformSphere(core.NewVec2(random.Float64(), random.Float64()))
		ray := core.NewRay(origin, dir)

		itsL, hitL := linear.RayIntersect(ray)
		itsB, hitB := bvh.RayIntersect(ray)
		if hitL != hitB {
			t.Fatalf("Ray %d: linear hit=%v, BVH hit=%v", i, hitL, hitB)
		}
		if hitL && (math.Abs(itsL.T-itsB.T) > 1e-9 || itsL.P.Subtract(itsB.P).Length() > 1e-9) {
			t.Fatalf("Ray %d: linear t=%f, BVH t=%f", i, itsL.T, itsB.T)
		}

		if linear.Occluded(ray) != bvh.Occluded(ray) {
			t.Fatalf("Ray %d: occlusion results differ", i)
		}
		if linear.Occluded(ray) != hitL {
			t.Fatalf("Ray %d: occlusion disagrees with closest hit", i)
		}
	}
}

func TestAccelerator_RespectsSegment(t *testing.T) {
	shapes := []Shape{NewSphere(core.NewVec3(0, 0, 5), 1)}

	for _, name := range []string{"linear", "bvh"} {
		t.Run(name, func(t *testing.T) {
			accel, err := NewAccelerator(name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			accel.Build(shapes)

			short := core.NewRaySegment(core.Vec3{}, core.NewVec3(0, 0, 1), core.Epsilon, 3)
			if accel.Occluded(short) {
				t.Error("Segment ending before the sphere should not be occluded")
			}

			its, hit := accel.RayIntersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)))
			if !hit || math.Abs(its.T-4) > 1e-9 {
				t.Fatalf("Expected hit at t=4, got hit=%v t=%f", hit, its.T)
			}
			if its.Shape != shapes[0] || its.ShapeIndex != 0 {
				t.Error("Intersection should reference the hit shape")
			}
		})
	}

	if _, err := NewAccelerator("kdtree"); err == nil {
		t.Error("Expected error for unknown accelerator")
	}
}

func TestCamera_CenterRay(t *testing.T) {
	config := DefaultCameraConfig()
	config.ToWorld = core.LookAt(core.NewVec3(0, 0, -5), core.Vec3{}, core.NewVec3(0, 1, 0))
	config.Width, config.Height = 100, 50
	camera := NewCamera(config)

	ray := camera.SampleRay(50, 25)
	if ray.Origin != core.NewVec3(0, 0, -5) {
		t.Errorf("Expected origin at the eye, got %v", ray.Origin)
	}
	if ray.Direction.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Center ray should look at the target, got %v", ray.Direction)
	}

	// Image x grows to the right (-X in a right-handed frame looking down +Z),
	// image y grows downwards
	right := camera.SampleRay(100, 25)
	if right.Direction.X >= 0 {
		t.Errorf("Right edge ray should point to -X when looking down +Z, got %v", right.Direction)
	}
	top := camera.SampleRay(50, 0)
	if top.Direction.Y <= 0 {
		t.Errorf("Top edge ray should point up, got %v", top.Direction)
	}
}
