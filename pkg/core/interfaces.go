package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards all output
type NopLogger struct{}

// Printf does nothing
func (NopLogger) Printf(string, ...interface{}) {}

// SampleRecord carries the result of sampling a shape or emitter
type SampleRecord struct {
	Point     Vec3    // Sampled position (emitter position for delta lights)
	Normal    Vec3    // Surface normal at Point, zero for delta lights
	Direction Vec3    // Unit direction from the reference point towards Point
	Distance  float64 // Distance from the reference point, +Inf for directional lights
	PDF       float64 // Density under Measure
	Measure   Measure
	Color     Vec3 // Emitted radiance or importance weight carried with the sample
}

// EmitterQuery is the result of evaluating an emitter towards a shading point
type EmitterQuery struct {
	Le Vec3 // Incident radiance at the shading point
	Wi Vec3 // Unit direction from the shading point towards the emitter
}

// Emitter is a light source. Area emitters are attached to a shape and
// delegate their geometry queries to it.
type Emitter interface {
	// Radiance returns the emitted radiance (or intensity for point lights)
	Radiance() Vec3
	// IsDelta reports whether the emitter cannot be hit by a ray
	IsDelta() bool
	// Eval returns the radiance arriving at shadingPoint from the emitter sample rec
	Eval(shadingPoint Vec3, rec SampleRecord) EmitterQuery
	// Sample draws a point on the emitter as seen from ref under the given measure
	Sample(measure Measure, u Vec2, ref Vec3) (SampleRecord, error)
	// PDF returns the density of rec (Point and Normal) as seen from ref under measure
	PDF(measure Measure, rec SampleRecord, ref Vec3) (float64, error)
}
