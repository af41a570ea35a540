package core

import "math"

// Frame is an orthonormal basis used to move directions between world and local space.
// In local space the normal is +Z.
type Frame struct {
	S, T, N Vec3
}

// NewFrame builds a frame around the given unit normal
func NewFrame(n Vec3) Frame {
	s, t := CoordinateSystem(n)
	return Frame{S: s, T: t, N: n}
}

// CoordinateSystem returns two unit vectors that form an orthonormal basis with a
func CoordinateSystem(a Vec3) (Vec3, Vec3) {
	var c Vec3
	if math.Abs(a.X) > math.Abs(a.Y) {
		invLen := 1.0 / math.Sqrt(a.X*a.X+a.Z*a.Z)
		c = NewVec3(a.Z*invLen, 0, -a.X*invLen)
	} else {
		invLen := 1.0 / math.Sqrt(a.Y*a.Y+a.Z*a.Z)
		c = NewVec3(0, a.Z*invLen, -a.Y*invLen)
	}
	return c.Cross(a), c
}

// ToLocal converts a world-space vector into frame coordinates
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.S), v.Dot(f.T), v.Dot(f.N))
}

// ToWorld converts a frame-local vector into world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.S.Multiply(v.X).Add(f.T.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}

// CosTheta returns the cosine of the angle between a local direction and the normal
func CosTheta(v Vec3) float64 {
	return v.Z
}

// Reflect mirrors a local direction about the normal
func Reflect(v Vec3) Vec3 {
	return NewVec3(-v.X, -v.Y, v.Z)
}
