package material

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Mirror is an ideal specular reflector
type Mirror struct{}

// NewMirror creates a mirror BSDF
func NewMirror() *Mirror {
	return &Mirror{}
}

// Eval is zero for every continuous query
func (m *Mirror) Eval(q BSDFQuery) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for every continuous query
func (m *Mirror) PDF(q BSDFQuery) float64 {
	return 0
}

// Sample reflects Wo about the normal
func (m *Mirror) Sample(q *BSDFQuery, u core.Vec2) (core.Vec3, float64) {
	if core.CosTheta(q.Wo) <= 0 {
		return core.Vec3{}, 0
	}

	q.Wi = core.Reflect(q.Wo)
	q.Measure = core.MeasureDiscrete
	return core.NewVec3(1, 1, 1), 1
}

// IsDelta returns true
func (m *Mirror) IsDelta() bool {
	return true
}
