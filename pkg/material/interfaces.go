package material

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// BSDFQuery describes a pair of directions in the local shading frame
// (normal along +Z). Wo points away from the surface towards the viewer.
type BSDFQuery struct {
	Wi      core.Vec3    // Incident direction, filled by Sample
	Wo      core.Vec3    // Outgoing direction
	Measure core.Measure // Measure of the query, filled by Sample
	UV      core.Vec2    // Surface texture coordinates
}

// NewBSDFQuery creates a query for evaluating the pair (wi, wo) under the solid angle measure
func NewBSDFQuery(wi, wo core.Vec3, uv core.Vec2) BSDFQuery {
	return BSDFQuery{Wi: wi, Wo: wo, Measure: core.MeasureSolidAngle, UV: uv}
}

// BSDF is a stateless scattering function evaluated in the local shading frame
type BSDF interface {
	// Eval returns the BSDF value for the query's direction pair
	Eval(q BSDFQuery) core.Vec3
	// PDF returns the density Sample would assign to q.Wi
	PDF(q BSDFQuery) float64
	// Sample chooses q.Wi given q.Wo and returns eval·cosθi/pdf with the pdf.
	// Discrete samples report pdf 1 and set q.Measure to MeasureDiscrete.
	Sample(q *BSDFQuery, u core.Vec2) (weight core.Vec3, pdf float64)
	// IsDelta reports whether the BSDF only scatters into discrete directions
	IsDelta() bool
}

// NewBSDFFromProperties creates a BSDF of the named type
func NewBSDFFromProperties(kind string, props *core.Properties) (BSDF, error) {
	switch kind {
	case "diffuse":
		return NewDiffuseFromProperties(props)
	case "mirror":
		return NewMirror(), nil
	case "phong":
		return NewPhongFromProperties(props)
	}
	return nil, core.NewConfigurationError("bsdf", "unknown BSDF type %q", kind)
}
