package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material
type Emissive struct {
	Emission core.Vec3 // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter never scatters: a light terminates the path
func (e *Emissive) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns the emitted light for this material
func (e *Emissive) Emit(rayIn core.Ray, hit HitRecord) core.Vec3 {
	return e.Emission
}

// NormalShade is a debug material that emits its shading normal mapped to [0,1]
type NormalShade struct{}

// NewNormalShade creates a normal-visualizing material
func NewNormalShade() *NormalShade {
	return &NormalShade{}
}

// Scatter never scatters
func (n *NormalShade) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit returns 0.5*(normal+1)
func (n *NormalShade) Emit(rayIn core.Ray, hit HitRecord) core.Vec3 {
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
