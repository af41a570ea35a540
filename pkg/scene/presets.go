package scene

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/loaders"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/medium"
)

// addShape attaches children (BSDF or emitter) to the shape and registers it
func (s *Scene) addShape(shape geometry.Shape, children ...interface{}) error {
	for _, child := range children {
		if err := shape.AddChild(child); err != nil {
			return err
		}
	}
	return s.AddChild(shape)
}

// addQuad registers the parallelogram corner, corner+u, corner+u+v, corner+v facing u×v
func (s *Scene) addQuad(corner, u, v core.Vec3, children ...interface{}) error {
	quad, err := geometry.NewQuadMesh(corner, u, v)
	if err != nil {
		return err
	}
	return s.addShape(quad, children...)
}

// presetCamera creates the preset's look-at camera. Camera properties in
// props ("width", "height", "fov", "toWorld", "nearClip", "farClip")
// override the preset's choices.
func presetCamera(props *core.Properties, eye, target core.Vec3, fov float64, width, height int) (*geometry.Camera, error) {
	defaults := core.NewProperties().
		Set("toWorld", core.LookAt(eye, target, core.NewVec3(0, 1, 0))).
		Set("fov", fov).
		Set("width", width).
		Set("height", height)
	return geometry.NewCameraFromProperties(defaults.Overlay(props))
}

// NewPointLightScene creates a grey diffuse floor lit by a single point light
func NewPointLightScene(props *core.Properties) (*Scene, error) {
	s, err := NewFromProperties(props)
	if err != nil {
		return nil, err
	}

	camera, err := presetCamera(props, core.NewVec3(0, 4, -8), core.NewVec3(0, 0, 0), 40, 400, 300)
	if err != nil {
		return nil, err
	}
	if err := s.AddChild(camera); err != nil {
		return nil, err
	}

	intensity, err := props.Color("intensity", core.Splat(50))
	if err != nil {
		return nil, err
	}

	// Floor facing +Y
	if err := s.addQuad(core.NewVec3(-10, 0, -10), core.NewVec3(0, 0, 20), core.NewVec3(20, 0, 0),
		material.NewDiffuse(core.Splat(0.5))); err != nil {
		return nil, err
	}
	if err := s.addShape(geometry.NewSphere(core.NewVec3(0, 1, 0), 1), material.NewDiffuse(core.NewVec3(0.6, 0.3, 0.2))); err != nil {
		return nil, err
	}
	if err := s.AddChild(lights.NewPointLight(core.NewVec3(2, 5, -1), intensity)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCornellScene creates a Cornell box from quad meshes with a ceiling area
// light. The "mesh" property names a PLY file that replaces the mirror sphere.
func NewCornellScene(props *core.Properties) (*Scene, error) {
	s, err := NewFromProperties(props)
	if err != nil {
		return nil, err
	}

	camera, err := presetCamera(props, core.NewVec3(278, 278, -800), core.NewVec3(278, 278, 0), 40, 400, 400)
	if err != nil {
		return nil, err
	}
	if err := s.AddChild(camera); err != nil {
		return nil, err
	}

	white := core.NewVec3(0.73, 0.73, 0.73)
	red := core.NewVec3(0.65, 0.05, 0.05)
	green := core.NewVec3(0.12, 0.45, 0.15)

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	walls := []struct {
		corner, u, v core.Vec3
		albedo       core.Vec3
	}{
		{core.Vec3{}, z, x, white}, // floor
		{y, x, z, white},           // ceiling
		{z, y, x, white},           // back wall
		{core.Vec3{}, y, z, green}, // x=0 wall, right in the image
		{x, z, y, red},             // x=555 wall, left in the image
	}
	for _, wall := range walls {
		if err := s.addQuad(wall.corner, wall.u, wall.v, material.NewDiffuse(wall.albedo)); err != nil {
			return nil, err
		}
	}

	emission, err := props.Color("radiance", core.Splat(15))
	if err != nil {
		return nil, err
	}
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	if err := s.addQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		material.NewDiffuse(core.Splat(0)),
		lights.NewAreaLight(emission, false),
	); err != nil {
		return nil, err
	}

	if err := s.addShape(geometry.NewSphere(core.NewVec3(370, 90, 169), 90),
		material.NewPhong(core.NewVec3(0.5, 0.45, 0.2), core.Splat(0.3), 40)); err != nil {
		return nil, err
	}

	meshPath, err := props.String("mesh", "")
	if err != nil {
		return nil, err
	}
	if meshPath == "" {
		if err := s.addShape(geometry.NewSphere(core.NewVec3(185, 100, 351), 100), material.NewMirror()); err != nil {
			return nil, err
		}
		return s, nil
	}

	data, err := loaders.LoadPLY(meshPath)
	if err != nil {
		return nil, err
	}
	mesh, err := data.ToMesh(fitTransform(data.Bounds(), core.NewVec3(185, 0, 351), 220))
	if err != nil {
		return nil, err
	}
	if err := s.addShape(mesh, material.NewDiffuse(white)); err != nil {
		return nil, err
	}
	return s, nil
}

// fitTransform scales bounds uniformly to the given size and places the
// result on the floor, centered horizontally at base
func fitTransform(bounds core.AABB, base core.Vec3, size float64) core.Transform {
	extents := bounds.Extents()
	largest := math.Max(extents.X, math.Max(extents.Y, extents.Z))
	scale := 1.0
	if largest > 0 {
		scale = size / largest
	}
	center := bounds.Center()
	anchor := core.NewVec3(center.X, bounds.Min.Y, center.Z)
	return core.Translate(base).
		Compose(core.Scale(core.Splat(scale))).
		Compose(core.Translate(anchor.Negate()))
}

// NewSpheresScene creates a row of Phong spheres of increasing glossiness
// lit by a spherical area light and a directional light
func NewSpheresScene(props *core.Properties) (*Scene, error) {
	s, err := NewFromProperties(props)
	if err != nil {
		return nil, err
	}

	camera, err := presetCamera(props, core.NewVec3(0, 2.5, -9), core.NewVec3(0, 0.8, 0), 45, 640, 360)
	if err != nil {
		return nil, err
	}
	if err := s.AddChild(camera); err != nil {
		return nil, err
	}

	if err := s.addQuad(core.NewVec3(-20, 0, -20), core.NewVec3(0, 0, 40), core.NewVec3(40, 0, 0),
		material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8))); err != nil {
		return nil, err
	}

	exponents := []float64{5, 30, 150, 1000}
	for i, exponent := range exponents {
		center := core.NewVec3(3.6-2.4*float64(i), 1, 0)
		bsdf := material.NewPhong(core.NewVec3(0.1, 0.25, 0.6), core.Splat(0.5), exponent)
		if err := s.addShape(geometry.NewSphere(center, 0.9), bsdf); err != nil {
			return nil, err
		}
	}
	if err := s.addShape(geometry.NewSphere(core.NewVec3(0, 0.5, -2.2), 0.5), material.NewMirror()); err != nil {
		return nil, err
	}

	if err := s.addShape(geometry.NewSphere(core.NewVec3(-2, 5, -3), 0.6),
		lights.NewAreaLight(core.Splat(20), false)); err != nil {
		return nil, err
	}
	if err := s.AddChild(lights.NewDirectionalLight(core.NewVec3(-1, -2, 1), core.NewVec3(0.8, 0.7, 0.6))); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFogScene creates spheres on a floor inside a homogeneous medium. The
// medium reads "sigmaA" and "sigmaS".
func NewFogScene(props *core.Properties) (*Scene, error) {
	s, err := NewFromProperties(props)
	if err != nil {
		return nil, err
	}

	camera, err := presetCamera(props, core.NewVec3(0, 2, -10), core.NewVec3(0, 1, 0), 40, 480, 360)
	if err != nil {
		return nil, err
	}
	if err := s.AddChild(camera); err != nil {
		return nil, err
	}

	fog, err := medium.NewHomogeneousFromProperties(props)
	if err != nil {
		return nil, err
	}
	if err := s.AddChild(fog); err != nil {
		return nil, err
	}

	if err := s.addQuad(core.NewVec3(-10, 0, -10), core.NewVec3(0, 0, 20), core.NewVec3(20, 0, 0),
		material.NewDiffuse(core.Splat(0.6))); err != nil {
		return nil, err
	}
	if err := s.addShape(geometry.NewSphere(core.NewVec3(-1.5, 1, 1), 1), material.NewDiffuse(core.NewVec3(0.7, 0.2, 0.2))); err != nil {
		return nil, err
	}
	if err := s.addShape(geometry.NewSphere(core.NewVec3(1.5, 1, 0), 1), material.NewPhong(core.Splat(0.3), core.Splat(0.5), 60)); err != nil {
		return nil, err
	}
	if err := s.AddChild(lights.NewPointLight(core.NewVec3(0, 6, -1), core.Splat(60))); err != nil {
		return nil, err
	}
	if err := s.addShape(geometry.NewSphere(core.NewVec3(3, 3, 3), 0.4),
		lights.NewAreaLight(core.NewVec3(30, 24, 16), false)); err != nil {
		return nil, err
	}
	return s, nil
}
