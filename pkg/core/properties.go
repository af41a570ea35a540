package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Properties is a typed property bag handed to component constructors.
// Values may be stored typed or as strings; getters parse strings on demand.
type Properties struct {
	values map[string]interface{}
}

// NewProperties creates an empty property bag
func NewProperties() *Properties {
	return &Properties{values: make(map[string]interface{})}
}

// Set stores a value, replacing any previous value with the same name
func (p *Properties) Set(name string, value interface{}) *Properties {
	p.values[name] = value
	return p
}

// Has reports whether a property is present
func (p *Properties) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Names returns the property names in sorted order
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Overlay returns a new bag holding p's properties with every property of
// other set on top. A nil other yields a copy of p.
func (p *Properties) Overlay(other *Properties) *Properties {
	merged := NewProperties()
	for name, value := range p.values {
		merged.values[name] = value
	}
	if other != nil {
		for name, value := range other.values {
			merged.values[name] = value
		}
	}
	return merged
}

// ParseAssignment stores a "key=value" string as an untyped property
func (p *Properties) ParseAssignment(assignment string) error {
	key, value, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return NewConfigurationError("properties", "expected key=value, got %q", assignment)
	}
	p.Set(key, strings.TrimSpace(value))
	return nil
}

// Float returns a floating point property or def when absent
func (p *Properties) Float(name string, def float64) (float64, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return def, p.typeError(name, "float", raw)
		}
		return f, nil
	}
	return def, p.typeError(name, "float", raw)
}

// Int returns an integer property or def when absent
func (p *Properties) Int(name string, def int) (int, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	case string:
		i, err := strconv.Atoi(v)
		if err == nil {
			return i, nil
		}
	}
	return def, p.typeError(name, "integer", raw)
}

// String returns a string property or def when absent
func (p *Properties) String(name string, def string) (string, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	if s, ok := raw.(string); ok {
		return s, nil
	}
	return def, p.typeError(name, "string", raw)
}

// Bool returns a boolean property or def when absent
func (p *Properties) Bool(name string, def bool) (bool, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b, nil
		}
	}
	return def, p.typeError(name, "boolean", raw)
}

// Color returns an RGB property or def when absent. A single number is
// accepted as a grey value.
func (p *Properties) Color(name string, def Vec3) (Vec3, error) {
	return p.vec3(name, def, "color", true)
}

// Vector returns a direction property or def when absent
func (p *Properties) Vector(name string, def Vec3) (Vec3, error) {
	return p.vec3(name, def, "vector", false)
}

// Point returns a position property or def when absent
func (p *Properties) Point(name string, def Vec3) (Vec3, error) {
	return p.vec3(name, def, "point", false)
}

// Transform returns a transform property or def when absent. The string form
// is "ox,oy,oz;tx,ty,tz;ux,uy,uz" describing a look-at.
func (p *Properties) Transform(name string, def Transform) (Transform, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case Transform:
		return v, nil
	case string:
		parts := strings.Split(v, ";")
		if len(parts) == 3 {
			var pts [3]Vec3
			for i, part := range parts {
				pt, err := parseVec3(part, false)
				if err != nil {
					return def, p.typeError(name, "look-at transform", raw)
				}
				pts[i] = pt
			}
			return LookAt(pts[0], pts[1], pts[2]), nil
		}
	}
	return def, p.typeError(name, "transform", raw)
}

func (p *Properties) vec3(name string, def Vec3, kind string, allowScalar bool) (Vec3, error) {
	raw, ok := p.values[name]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case Vec3:
		return v, nil
	case float64:
		if allowScalar {
			return Splat(v), nil
		}
	case string:
		vec, err := parseVec3(v, allowScalar)
		if err == nil {
			return vec, nil
		}
	}
	return def, p.typeError(name, kind, raw)
}

func (p *Properties) typeError(name, kind string, raw interface{}) error {
	return NewConfigurationError("properties", "property %q: cannot read %v as %s", name, raw, kind)
}

func parseVec3(s string, allowScalar bool) (Vec3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if allowScalar && len(fields) == 1 {
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Vec3{}, err
		}
		return Splat(f), nil
	}
	if len(fields) != 3 {
		return Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Vec3{}, err
		}
		c[i] = f
	}
	return NewVec3(c[0], c[1], c[2]), nil
}
