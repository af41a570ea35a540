package integrator

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

// distanceTolerance is the relative slack allowed between a sampled emitter
// distance and the distance at which the shadow ray hits that emitter
const distanceTolerance = 1e-3

// emitterSample is a visible sample on an emitter seen from a reference point
type emitterSample struct {
	Li  core.Vec3 // Incident radiance divided by PDF
	Wi  core.Vec3 // Unit direction from the reference point towards the emitter
	PDF float64   // Solid angle density of Wi, or 1 for delta emitters
	Rec core.SampleRecord
}

// Delta reports whether the sample came from a delta distribution
func (es emitterSample) Delta() bool {
	return es.Rec.Measure == core.MeasureDiscrete
}

// sampleEmitter draws a point on emitter under measure as seen from p and
// returns it when the emitter is visible from p. Area densities are converted
// to solid angle so that Li is Le·cosθo/(d²·pdf) for area sampling and
// Le/pdf otherwise; the cosine at p is left to the caller.
func sampleEmitter(s *scene.Scene, emitter core.Emitter, measure core.Measure, u core.Vec2, p core.Vec3) (emitterSample, bool) {
	rec, err := emitter.Sample(measure, u, p)
	if err != nil || rec.PDF <= 0 {
		return emitterSample{}, false
	}

	query := emitter.Eval(p, rec)
	if query.Le.IsZero() {
		return emitterSample{}, false
	}

	pdf := rec.PDF
	if rec.Measure == core.MeasureArea {
		pdf = areaToSolidAngle(rec.PDF, rec.Point, rec.Normal, p)
		if pdf <= 0 {
			return emitterSample{}, false
		}
	}

	if !emitterVisible(s, emitter, p, query.Wi, rec) {
		return emitterSample{}, false
	}

	return emitterSample{
		Li:  query.Le.Multiply(1 / pdf),
		Wi:  query.Wi,
		PDF: pdf,
		Rec: rec,
	}, true
}

// emitterVisible casts a shadow ray from p towards the sampled emitter point.
// Delta emitters only need the segment up to the light to be unoccluded; for
// area emitters the first hit must be the emitter itself at the sampled point.
func emitterVisible(s *scene.Scene, emitter core.Emitter, p, wi core.Vec3, rec core.SampleRecord) bool {
	if emitter.IsDelta() {
		if math.IsInf(rec.Distance, 1) {
			return !s.Occluded(core.NewRay(p, wi))
		}
		return !s.Occluded(core.NewRaySegment(p, wi, core.Epsilon, rec.Distance-core.Epsilon))
	}

	its, hit := s.RayIntersect(core.NewRay(p, wi))
	if !hit || its.Shape.Emitter() != emitter {
		return false
	}
	distance := rec.Point.Subtract(p).Length()
	return math.Abs(its.T-distance) <= distanceTolerance*distance+core.Epsilon
}

// emitterPDF returns the solid angle density with which sampling emitter under
// measure would produce point (with surface normal) as seen from p
func emitterPDF(emitter core.Emitter, measure core.Measure, point, normal, p core.Vec3) float64 {
	rec := core.SampleRecord{Point: point, Normal: normal, Measure: measure}
	pdf, err := emitter.PDF(measure, rec, p)
	if err != nil || pdf <= 0 {
		return 0
	}
	if measure == core.MeasureArea {
		return areaToSolidAngle(pdf, point, normal, p)
	}
	return pdf
}

// hitEmission returns the radiance an emitting surface hit sends back to origin
func hitEmission(its geometry.Intersection, origin core.Vec3) core.Vec3 {
	emitter := its.Shape.Emitter()
	if emitter == nil {
		return core.Vec3{}
	}
	rec := core.SampleRecord{Point: its.P, Normal: its.GeoFrame.N}
	return emitter.Eval(origin, rec).Le
}

// areaToSolidAngle converts an area density at point into a solid angle density seen from ref
func areaToSolidAngle(pdfArea float64, point, normal, ref core.Vec3) float64 {
	d := point.Subtract(ref)
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	cosTheta := math.Abs(normal.Dot(d)) / math.Sqrt(dist2)
	if cosTheta == 0 {
		return 0
	}
	return pdfArea * dist2 / cosTheta
}
