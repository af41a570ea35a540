package lights

import "github.com/df07/go-mis-raytracer/pkg/core"

type LightType string

const (
	LightTypeArea        LightType = "area"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// NewEmitterFromProperties creates an emitter of the named type
func NewEmitterFromProperties(kind LightType, props *core.Properties) (core.Emitter, error) {
	switch kind {
	case LightTypePoint:
		return NewPointLightFromProperties(props)
	case LightTypeDirectional:
		return NewDirectionalLightFromProperties(props)
	case LightTypeArea:
		return NewAreaLightFromProperties(props)
	}
	return nil, core.NewConfigurationError("emitter", "unknown emitter type %q", kind)
}
