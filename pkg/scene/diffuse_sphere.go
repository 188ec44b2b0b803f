package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DiffuseSphereAlbedo is the gray albedo of the diffuse-sphere scene. Under
// a unit white environment every camera ray that lands on the sphere
// converges to exactly this value, since a convex surface never sees itself.
const DiffuseSphereAlbedo = 0.5

// NewDiffuseSphereScene creates a single gray diffuse sphere of radius 0.5
// at the origin lit by a constant white background. The camera is close
// enough that the sphere covers the whole frame.
func NewDiffuseSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 2),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	albedo := core.NewVec3(DiffuseSphereAlbedo, DiffuseSphereAlbedo, DiffuseSphereAlbedo)
	return &Scene{
		CameraConfig: cameraConfig,
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5, material.NewLambertian(albedo)),
		},
		Background: NewConstantBackground(core.NewVec3(1, 1, 1)),
		SamplingConfig: SamplingConfig{
			Width:           4,
			Height:          4,
			SamplesPerPixel: 64,
			MaxDepth:        4,
		},
	}
}
