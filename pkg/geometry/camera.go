package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter; 0 disables depth of field
	FocusDistance float64   // Distance to the focal plane; 0 means distance to LookAt
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}
	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// Camera maps pixel coordinates to world-space rays. It is immutable after
// construction and safe for concurrent use.
type Camera struct {
	origin     core.Vec3
	upperLeft  core.Vec3 // world position of the image plane's top-left corner
	horizontal core.Vec3 // full image-plane extent along the right axis
	vertical   core.Vec3 // full image-plane extent along the up axis
	right      core.Vec3
	up         core.Vec3
	forward    core.Vec3
	lensRadius float64
	width      int
	height     int
}

// NewCamera builds a camera for an image of width×height pixels
func NewCamera(config CameraConfig, width, height int) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if config.VFov <= 0 || config.VFov >= 180 {
		return nil, fmt.Errorf("vertical field of view %g out of range (0, 180)", config.VFov)
	}
	if config.Aperture < 0 || config.FocusDistance < 0 {
		return nil, fmt.Errorf("aperture and focus distance must be non-negative")
	}

	view, err := core.LookAt(config.Center, config.LookAt, config.Up)
	if err != nil {
		return nil, fmt.Errorf("camera orientation: %w", err)
	}
	right := view.ApplyVector(core.NewVec3(1, 0, 0)).Normalize()
	up := view.ApplyVector(core.NewVec3(0, 1, 0)).Normalize()
	forward := view.ApplyVector(core.NewVec3(0, 0, -1)).Normalize()

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2) * focusDistance
	viewportWidth := viewportHeight * float64(width) / float64(height)

	horizontal := right.Multiply(viewportWidth)
	vertical := up.Multiply(viewportHeight)
	upperLeft := config.Center.
		Add(forward.Multiply(focusDistance)).
		Subtract(horizontal.Multiply(0.5)).
		Add(vertical.Multiply(0.5))

	return &Camera{
		origin:     config.Center,
		upperLeft:  upperLeft,
		horizontal: horizontal,
		vertical:   vertical,
		right:      right,
		up:         up,
		forward:    forward,
		lensRadius: config.Aperture / 2,
		width:      width,
		height:     height,
	}, nil
}

// GetRay returns the ray through pixel (i, j), row 0 at the top. jitter
// offsets the sample inside the pixel and lens picks the point on the
// aperture; both are in [0,1)².
func (c *Camera) GetRay(i, j int, jitter, lens core.Vec2) core.Ray {
	s := (float64(i) + jitter.X) / float64(c.width)
	t := (float64(j) + jitter.Y) / float64(c.height)

	target := c.upperLeft.
		Add(c.horizontal.Multiply(s)).
		Subtract(c.vertical.Multiply(t))

	origin := c.origin
	if c.lensRadius > 0 {
		offset := core.SamplePointInUnitDisk(lens).Multiply(c.lensRadius)
		origin = origin.Add(c.right.Multiply(offset.X)).Add(c.up.Multiply(offset.Y))
	}

	return core.NewRay(origin, target.Subtract(origin).Normalize())
}

// GetCameraForward returns the unit viewing direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.forward
}

// Size returns the image dimensions the camera was built for
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}
