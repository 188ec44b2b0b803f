package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to linear RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewSphereGridScene creates a gridSize×gridSize field of metal spheres on a
// ground plane. It is the one built-in scene large enough to want the BVH.
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(4.5, 6, 18),
		LookAt:        core.NewVec3(4.5, 0.8, 4.5), // center of grid, slightly lower
		Up:            core.NewVec3(0, 1, 0),
		VFov:          40.0,
		Aperture:      0.02,
		FocusDistance: 0.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
		Background: NewGradientBackground(
			core.NewVec3(0.5, 0.7, 1.0),
			core.NewVec3(1.0, 1.0, 1.0),
		),
		SamplingConfig: SamplingConfig{
			Width:                     800,
			Height:                    450,
			SamplesPerPixel:           100,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 12, // Moderate bounces for metallic reflections
		},
		UseBVH: true,
	}

	// Sun-like light high and to the side
	s.AddSphereLight(
		core.NewVec3(20, 25, 20),
		8,
		core.NewVec3(12.0, 11.5, 10.0),
	)

	groundPlane := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)),
	)
	s.Shapes = append(s.Shapes, groundPlane)

	gridSize := 20

	// Fit the grid into roughly 9x9 units regardless of gridSize
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			metalMaterial := material.NewMetal(oklchToRGB(lightness, chroma, hue), roughness)

			s.Shapes = append(s.Shapes, geometry.NewSphere(position, sphereRadius, metalMaterial))
		}
	}

	return s
}
