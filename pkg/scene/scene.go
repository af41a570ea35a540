package scene

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/medium"
)

// Integrator estimates the radiance arriving along a camera ray
type Integrator interface {
	Li(s *Scene, sampler core.Sampler, ray core.Ray) core.Vec3
}

// Preprocessor is implemented by integrators that validate or precompute
// against the activated scene
type Preprocessor interface {
	Preprocess(s *Scene) error
}

// Scene contains all the elements needed for rendering. It is built with
// AddChild, frozen by Activate and read-only afterwards.
type Scene struct {
	accel      geometry.Accelerator
	shapes     []geometry.Shape
	emitters   []core.Emitter
	camera     *geometry.Camera
	sampler    core.Sampler
	integrator Integrator
	medium     *medium.Homogeneous
	activated  bool
}

// New creates an empty scene using a BVH
func New() *Scene {
	return &Scene{accel: geometry.NewBVH()}
}

// NewFromProperties reads "accelerator" ("bvh" or "linear")
func NewFromProperties(props *core.Properties) (*Scene, error) {
	name, err := props.String("accelerator", "bvh")
	if err != nil {
		return nil, err
	}
	accel, err := geometry.NewAccelerator(name)
	if err != nil {
		return nil, err
	}
	return &Scene{accel: accel}, nil
}

// AddChild registers a shape, emitter, camera, sampler, integrator or medium.
// Shapes bring their attached emitter along; area emitters learn their
// shape's index here.
func (s *Scene) AddChild(child interface{}) error {
	if s.activated {
		return core.NewConfigurationError("scene", "cannot add %T after activation", child)
	}

	switch c := child.(type) {
	case geometry.Shape:
		index := len(s.shapes)
		s.shapes = append(s.shapes, c)
		if emitter := c.Emitter(); emitter != nil {
			if binder, ok := emitter.(geometry.ShapeBinder); ok {
				binder.BindShape(index, c)
			}
			s.emitters = append(s.emitters, emitter)
		}
	case core.Emitter:
		if _, ok := c.(geometry.ShapeBinder); ok {
			return core.NewConfigurationError("scene", "area emitters must be attached to a shape")
		}
		s.emitters = append(s.emitters, c)
	case *geometry.Camera:
		if s.camera != nil {
			return core.NewConfigurationError("scene", "there can only be one camera per scene")
		}
		s.camera = c
	case core.Sampler:
		if s.sampler != nil {
			return core.NewConfigurationError("scene", "there can only be one sampler per scene")
		}
		s.sampler = c
	case Integrator:
		if s.integrator != nil {
			return core.NewConfigurationError("scene", "there can only be one integrator per scene")
		}
		s.integrator = c
	case *medium.Homogeneous:
		if s.medium != nil {
			return core.NewConfigurationError("scene", "there can only be one medium per scene")
		}
		s.medium = c
	default:
		return core.NewConfigurationError("scene", "cannot add %T", child)
	}
	return nil
}

// Activate validates the scene, assigns default BSDFs and builds the accelerator
func (s *Scene) Activate(logger core.Logger) error {
	if s.activated {
		return core.NewConfigurationError("scene", "scene is already activated")
	}
	if s.camera == nil {
		return core.NewConfigurationError("scene", "no camera was specified")
	}
	if s.integrator == nil {
		return core.NewConfigurationError("scene", "no integrator was specified")
	}
	if s.sampler == nil {
		s.sampler = core.NewRandomSampler(0)
	}

	// Shapes without a BSDF become grey diffuse
	for _, shape := range s.shapes {
		if shape.BSDF() == nil {
			if err := shape.AddChild(material.NewDiffuse(core.Splat(0.5))); err != nil {
				return err
			}
		}
	}

	s.accel.Build(s.shapes)
	s.activated = true

	if p, ok := s.integrator.(Preprocessor); ok {
		if err := p.Preprocess(s); err != nil {
			s.activated = false
			return err
		}
	}

	if logger != nil {
		logger.Printf("Scene: %d shapes, %d primitives, %d emitters\n", len(s.shapes), s.PrimitiveCount(), len(s.emitters))
		if bvh, ok := s.accel.(*geometry.BVH); ok {
			stats := bvh.Stats()
			logger.Printf("BVH: %d nodes, %d leaves, max depth %d, avg leaf depth %.1f\n",
				stats.TotalNodes, stats.LeafNodes, stats.MaxDepth, stats.AvgDepth)
		}
	}
	return nil
}

// RayIntersect returns the closest hit along the ray segment
func (s *Scene) RayIntersect(ray core.Ray) (geometry.Intersection, bool) {
	return s.accel.RayIntersect(ray)
}

// Occluded reports whether anything blocks the ray segment
func (s *Scene) Occluded(ray core.Ray) bool {
	return s.accel.Occluded(ray)
}

// BoundingBox returns the bounds of all shapes
func (s *Scene) BoundingBox() core.AABB {
	return s.accel.BoundingBox()
}

// PrimitiveCount returns the total number of primitives in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.shapes {
		count += shape.PrimitiveCount()
	}
	return count
}

// Shapes returns the scene's shapes in registration order
func (s *Scene) Shapes() []geometry.Shape {
	return s.shapes
}

// Emitters returns all emitters, including area emitters attached to shapes
func (s *Scene) Emitters() []core.Emitter {
	return s.emitters
}

// Camera returns the scene camera
func (s *Scene) Camera() *geometry.Camera {
	return s.camera
}

// Sampler returns the sampler prototype
func (s *Scene) Sampler() core.Sampler {
	return s.sampler
}

// Integrator returns the scene integrator
func (s *Scene) Integrator() Integrator {
	return s.integrator
}

// Medium returns the participating medium or nil
func (s *Scene) Medium() *medium.Homogeneous {
	return s.medium
}
