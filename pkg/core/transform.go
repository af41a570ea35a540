package core

// Transform is an affine 4x4 transformation stored row-major
type Transform struct {
	M [4][4]float64
}

// Identity returns the identity transform
func Identity() Transform {
	return Transform{M: [4][4]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}}
}

// Translate returns a translation by v
func Translate(v Vec3) Transform {
	t := Identity()
	t.M[0][3], t.M[1][3], t.M[2][3] = v.X, v.Y, v.Z
	return t
}

// Scale returns a per-axis scale
func Scale(v Vec3) Transform {
	t := Identity()
	t.M[0][0], t.M[1][1], t.M[2][2] = v.X, v.Y, v.Z
	return t
}

// LookAt returns a camera-to-world transform placing the origin at eye and
// the local +Z axis towards target
func LookAt(eye, target, up Vec3) Transform {
	dir := target.Subtract(eye).Normalize()
	left := up.Normalize().Cross(dir).Normalize()
	newUp := dir.Cross(left)

	return Transform{M: [4][4]float64{
		{left.X, newUp.X, dir.X, eye.X},
		{left.Y, newUp.Y, dir.Y, eye.Y},
		{left.Z, newUp.Z, dir.Z, eye.Z},
		{0, 0, 0, 1},
	}}
}

// Compose returns t applied after other
func (t Transform) Compose(other Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r.M[i][j] += t.M[i][k] * other.M[k][j]
			}
		}
	}
	return r
}

// Point transforms a position
func (t Transform) Point(p Vec3) Vec3 {
	return NewVec3(
		t.M[0][0]*p.X+t.M[0][1]*p.Y+t.M[0][2]*p.Z+t.M[0][3],
		t.M[1][0]*p.X+t.M[1][1]*p.Y+t.M[1][2]*p.Z+t.M[1][3],
		t.M[2][0]*p.X+t.M[2][1]*p.Y+t.M[2][2]*p.Z+t.M[2][3],
	)
}

// Vector transforms a direction, ignoring translation
func (t Transform) Vector(v Vec3) Vec3 {
	return NewVec3(
		t.M[0][0]*v.X+t.M[0][1]*v.Y+t.M[0][2]*v.Z,
		t.M[1][0]*v.X+t.M[1][1]*v.Y+t.M[1][2]*v.Z,
		t.M[2][0]*v.X+t.M[2][1]*v.Y+t.M[2][2]*v.Z,
	)
}
