package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidConfig is wrapped by every scene validation failure
var ErrInvalidConfig = errors.New("invalid scene configuration")

// Scene contains all the elements needed for rendering. It is built once
// and shared read-only by every render worker.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	Shapes         []geometry.Shape // Objects in the scene, in tie-break order
	Background     Background       // Radiance for rays that escape the scene
	SamplingConfig SamplingConfig
	UseBVH         bool          // Build an acceleration structure in Preprocess
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int // Image width
	Height                    int // Image height
	SamplesPerPixel           int // Number of rays per pixel
	MaxDepth                  int // Maximum ray bounce depth
	RussianRouletteMinBounces int // Bounces before Russian roulette can terminate a path; 0 disables it
}

// Validate checks the sampling parameters
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidConfig, c.MaxDepth)
	}
	if c.RussianRouletteMinBounces < 0 {
		return fmt.Errorf("%w: russian roulette min bounces must be non-negative, got %d", ErrInvalidConfig, c.RussianRouletteMinBounces)
	}
	return nil
}

// NewGroundQuad creates a large horizontal quad centered at the given point
// with its normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points along +Y
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// Preprocess prepares the scene for rendering: it builds the camera for the
// configured image size, builds the BVH when enabled, and validates the result
func (s *Scene) Preprocess() error {
	if err := s.SamplingConfig.Validate(); err != nil {
		return err
	}

	camera, err := geometry.NewCamera(s.CameraConfig, s.SamplingConfig.Width, s.SamplingConfig.Height)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s.Camera = camera

	s.BVH = nil
	if s.UseBVH {
		s.BVH = geometry.NewBVH(s.Shapes)
	}

	return s.Validate()
}

// Validate reports whether the scene is complete enough to render
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return fmt.Errorf("%w: missing camera", ErrInvalidConfig)
	}
	if len(s.Shapes) == 0 {
		return fmt.Errorf("%w: no shapes", ErrInvalidConfig)
	}
	for i, shape := range s.Shapes {
		if shape == nil {
			return fmt.Errorf("%w: shape %d is nil", ErrInvalidConfig, i)
		}
	}
	if s.Background == nil {
		return fmt.Errorf("%w: missing background", ErrInvalidConfig)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return err
	}
	if width, height := s.Camera.Size(); width != s.SamplingConfig.Width || height != s.SamplingConfig.Height {
		return fmt.Errorf("%w: camera built for %dx%d, sampling config is %dx%d",
			ErrInvalidConfig, width, height, s.SamplingConfig.Width, s.SamplingConfig.Height)
	}
	return nil
}

// NearestHit returns the closest intersection with t in [tMin, tMax].
// Rays with a non-finite or zero-length direction never hit anything.
func (s *Scene) NearestHit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !ray.IsValid() {
		return nil, false
	}

	if s.BVH != nil {
		return s.BVH.Hit(ray, tMin, tMax)
	}

	var closest *material.HitRecord
	closestSoFar := tMax
	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// AddSphereLight adds an emissive sphere to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.Shapes = append(s.Shapes, geometry.NewSphere(center, radius, material.NewEmissive(emission)))
}

// AddQuadLight adds a rectangular emissive panel to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	s.Shapes = append(s.Shapes, geometry.NewQuad(corner, u, v, material.NewEmissive(emission)))
}
