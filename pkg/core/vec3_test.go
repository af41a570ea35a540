package core

import (
	"math"
	"testing"
)

func TestVec3_Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, 7, 9)},
		{"Subtract", b.Subtract(a), NewVec3(3, 3, 3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, 10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if a.Dot(b) != 32 {
		t.Errorf("Expected dot product 32, got %f", a.Dot(b))
	}
	if math.Abs(NewVec3(3, 4, 0).Normalize().Length()-1) > 1e-12 {
		t.Error("Normalized vector should have unit length")
	}
	if !NewVec3(0, 0, 0).Normalize().IsZero() {
		t.Error("Normalizing the zero vector should return the zero vector")
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(1, 0, 0),
		NewVec3(0.3, -0.8, 0.2).Normalize(),
	}

	for _, n := range normals {
		frame := NewFrame(n)

		if math.Abs(frame.S.Dot(frame.T)) > 1e-9 || math.Abs(frame.S.Dot(frame.N)) > 1e-9 || math.Abs(frame.T.Dot(frame.N)) > 1e-9 {
			t.Errorf("Frame for %v is not orthogonal", n)
		}

		local := frame.ToLocal(n)
		if math.Abs(local.Z-1) > 1e-9 {
			t.Errorf("Normal should map to +Z in local space, got %v", local)
		}

		v := NewVec3(0.2, 0.5, -0.7)
		back := frame.ToWorld(frame.ToLocal(v))
		if back.Subtract(v).Length() > 1e-9 {
			t.Errorf("Round trip failed: %v -> %v", v, back)
		}
	}
}

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		hit  bool
	}{
		{"Through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Miss to the side", NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1)), false},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"Segment too short", NewRaySegment(NewVec3(0, 0, -5), NewVec3(0, 0, 1), 0, 3), false},
		{"Origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Intersects(tt.ray); got != tt.hit {
				t.Errorf("Expected hit=%v, got %v", tt.hit, got)
			}
		})
	}
}

func TestAABB_ExpandBy(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1)).ExpandBy(NewVec3(2, -1, 0.5))
	if box.Min != NewVec3(0, -1, 0) || box.Max != NewVec3(2, 1, 1) {
		t.Errorf("Unexpected box after ExpandBy: %v", box)
	}
	if !box.IsValid() {
		t.Error("Expanded box should be valid")
	}
	if box.LongestAxis() != 0 {
		t.Errorf("Expected longest axis 0, got %d", box.LongestAxis())
	}
}

func TestLookAt(t *testing.T) {
	tr := LookAt(NewVec3(0, 0, -5), NewVec3(0, 0, 0), NewVec3(0, 1, 0))

	if p := tr.Point(NewVec3(0, 0, 0)); p != NewVec3(0, 0, -5) {
		t.Errorf("Origin should map to eye, got %v", p)
	}
	if d := tr.Vector(NewVec3(0, 0, 1)); d.Subtract(NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Local +Z should map to viewing direction, got %v", d)
	}
}
