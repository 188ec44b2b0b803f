package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewShowcaseScene creates a 3x3 grid of spheres, one column per material
// family (metal, diffuse/emissive, glass), on a checkered ground sphere
func NewShowcaseScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(5, 5, 5),
		LookAt:        core.NewVec3(0, -1, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          60.0,
		Aperture:      0.2,
		FocusDistance: 8.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		CameraConfig: cameraConfig,
		Background: NewGradientBackground(
			core.NewVec3(0.5, 0.7, 0.9),
			core.NewVec3(1.0, 1.0, 1.0),
		),
		SamplingConfig: SamplingConfig{
			Width:           512,
			Height:          512,
			SamplesPerPixel: 128,
			MaxDepth:        8,
		},
	}

	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	unitSphere := func(center core.Vec3, m material.Material) geometry.Shape {
		return geometry.NewSphere(center, 1.0, m)
	}

	ground := geometry.NewSphere(core.NewVec3(0, -100, 0), 99,
		material.NewTexturedLambertian(material.NewChecker(white, black, 200)))

	// The center diffuse sphere is squashed into an ellipsoid resting on the ground
	squashed := geometry.NewInstance(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewLambertian(white)),
		core.Translate(0, -0.4, 0).Mul(core.MustScale(1, 0.6, 1)),
	)

	s.Shapes = []geometry.Shape{
		ground,

		unitSphere(core.NewVec3(-2.5, 0, -2.5), material.NewMetal(white, 0.0)),
		unitSphere(core.NewVec3(-2.5, 0, 0), material.NewMetal(core.NewVec3(0.9, 0.6, 0.3), 0.1)),
		unitSphere(core.NewVec3(-2.5, 0, 2.5), material.NewMetal(white, 0.2)),

		unitSphere(core.NewVec3(0, 0, -2.5), material.NewNormalShade()),
		squashed,
		unitSphere(core.NewVec3(0, 0, 2.5), material.NewEmissive(core.NewVec3(1, 1, 0))),

		unitSphere(core.NewVec3(2.5, 0, -2.5), material.NewDielectric(2.0)),
		unitSphere(core.NewVec3(2.5, 0, 0), material.NewTintedDielectric(1.75, core.NewVec3(0.3, 0.6, 0.9))),
		unitSphere(core.NewVec3(2.5, 0, 2.5), material.NewDielectric(1.5)),
	}

	return s
}
