package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material interface for objects that can scatter rays.
// Implementations are immutable and shared by every worker.
type Material interface {
	// Scatter samples an outgoing ray for rayIn arriving at hit. It returns
	// false when the surface absorbs the ray and the path ends here.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emit(rayIn core.Ray, hit HitRecord) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Transport weight applied to radiance arriving along Scattered
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Surface parameterization for textures
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// IsFinite reports whether the geometric fields of the record are usable
func (h *HitRecord) IsFinite() bool {
	return h.Point.IsFinite() && h.Normal.IsFinite() && !h.Normal.NearZero() &&
		!math.IsNaN(h.T) && !math.IsInf(h.T, 0)
}
