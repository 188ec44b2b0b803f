package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use: all per-call randomness
// comes from the sampler.
type Integrator interface {
	// Radiance estimates the radiance arriving at the ray origin along ray
	Radiance(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}
