package geometry

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Camera is a pinhole perspective camera that generates rays for image positions
type Camera struct {
	Width, Height int

	origin          core.Vec3
	forward         core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	nearClip        float64
	farClip         float64
}

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	ToWorld  core.Transform // Camera-to-world look-at transform
	Width    int            // Output width in pixels
	Height   int            // Output height in pixels
	FOV      float64        // Horizontal field of view in degrees
	NearClip float64
	FarClip  float64
}

// DefaultCameraConfig returns the default camera looking down +Z from the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		ToWorld:  core.Identity(),
		Width:    1280,
		Height:   720,
		FOV:      30,
		NearClip: 1e-4,
		FarClip:  1e4,
	}
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	aspect := float64(config.Width) / float64(config.Height)
	viewportWidth := 2 * math.Tan(config.FOV*math.Pi/360)
	viewportHeight := viewportWidth / aspect

	origin := config.ToWorld.Point(core.Vec3{})
	forward := config.ToWorld.Vector(core.NewVec3(0, 0, 1)).Normalize()
	up := config.ToWorld.Vector(core.NewVec3(0, 1, 0)).Normalize()
	// Local +X points left in a look-at frame
	right := config.ToWorld.Vector(core.NewVec3(-1, 0, 0)).Normalize()

	horizontal := right.Multiply(viewportWidth)
	vertical := up.Multiply(viewportHeight)
	lowerLeftCorner := origin.Add(forward).
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5))

	return &Camera{
		Width:           config.Width,
		Height:          config.Height,
		origin:          origin,
		forward:         forward,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		nearClip:        config.NearClip,
		farClip:         config.FarClip,
	}
}

// NewCameraFromProperties reads "toWorld", "width", "height", "fov", "nearClip" and "farClip"
func NewCameraFromProperties(props *core.Properties) (*Camera, error) {
	config := DefaultCameraConfig()
	var err error
	if config.ToWorld, err = props.Transform("toWorld", config.ToWorld); err != nil {
		return nil, err
	}
	if config.Width, err = props.Int("width", config.Width); err != nil {
		return nil, err
	}
	if config.Height, err = props.Int("height", config.Height); err != nil {
		return nil, err
	}
	if config.FOV, err = props.Float("fov", config.FOV); err != nil {
		return nil, err
	}
	if config.NearClip, err = props.Float("nearClip", config.NearClip); err != nil {
		return nil, err
	}
	if config.FarClip, err = props.Float("farClip", config.FarClip); err != nil {
		return nil, err
	}

	if config.Width <= 0 || config.Height <= 0 {
		return nil, core.NewConfigurationError("camera", "invalid output size %dx%d", config.Width, config.Height)
	}
	if config.FOV <= 0 || config.FOV >= 180 {
		return nil, core.NewConfigurationError("camera", "field of view must be in (0, 180), got %g", config.FOV)
	}
	return NewCamera(config), nil
}

// SampleRay returns the ray through the continuous image position (x, y),
// with y growing downwards. The segment is clipped to [nearClip, farClip]
// measured along the viewing axis.
func (c *Camera) SampleRay(x, y float64) core.Ray {
	s := x / float64(c.Width)
	t := 1 - y/float64(c.Height)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin).
		Normalize()

	cosTheta := direction.Dot(c.forward)
	return core.NewRaySegment(c.origin, direction, c.nearClip/cosTheta, c.farClip/cosTheta)
}
