package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewTexturedSphereScene creates a diffuse sphere wrapped in an image texture,
// resting on a ground quad and lit by an overhead panel and the sky. A nil
// texture selects a generated globe-like texture.
func NewTexturedSphereScene(texture material.ColorSource, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 1.5, 4),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   35.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	if texture == nil {
		texture = newGlobeTexture()
	}

	s := &Scene{
		CameraConfig: cameraConfig,
		Background: NewGradientBackground(
			core.NewVec3(0.5, 0.7, 1.0),
			core.NewVec3(1.0, 1.0, 1.0),
		),
		SamplingConfig: SamplingConfig{
			Width:           400,
			Height:          300,
			SamplesPerPixel: 100,
			MaxDepth:        20,
		},
	}

	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewTexturedLambertian(texture)),
		NewGroundQuad(core.NewVec3(0, 0, 0), 20.0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	// u x v points along -Y so the panel faces the sphere
	s.AddQuadLight(
		core.NewVec3(-1, 4, -1),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 0, 2),
		core.NewVec3(4, 4, 4),
	)

	return s
}

// newGlobeTexture builds a 32x16 texture of hue bands by latitude with dark
// meridians every 45 degrees
func newGlobeTexture() *material.ImageTexture {
	const width, height = 32, 16
	pixels := make([]core.Vec3, 0, width*height)
	for y := 0; y < height; y++ {
		hue := 360 * float64(y) / height
		for x := 0; x < width; x++ {
			if x%(width/8) == 0 {
				pixels = append(pixels, core.NewVec3(0.05, 0.05, 0.05))
				continue
			}
			pixels = append(pixels, oklchToRGB(0.75, 0.12, hue))
		}
	}

	return &material.ImageTexture{Width: width, Height: height, Pixels: pixels}
}
