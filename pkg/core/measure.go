package core

// Measure identifies the domain a density is expressed in
type Measure int

const (
	MeasureUnknown Measure = iota
	MeasureSolidAngle
	MeasureArea
	MeasureHemisphere
	MeasureBSDF
	MeasureDiscrete
)

var measureNames = map[Measure]string{
	MeasureUnknown:    "unknown",
	MeasureSolidAngle: "solid-angle",
	MeasureArea:       "area",
	MeasureHemisphere: "hemisphere",
	MeasureBSDF:       "bsdf",
	MeasureDiscrete:   "discrete",
}

func (m Measure) String() string {
	if name, ok := measureNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMeasure converts a property value into a Measure
func ParseMeasure(name string) (Measure, error) {
	for m, n := range measureNames {
		if n == name {
			return m, nil
		}
	}
	return MeasureUnknown, NewConfigurationError("measure", "unknown measure %q", name)
}
