package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal
	Material material.Material // Material of the plane
	tangent  core.Vec3
	binormal core.Vec3
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, material material.Material) *Plane {
	n := normal.Normalize()
	tangent, binormal := core.OrthonormalBasis(n)
	return &Plane{
		Point:    point,
		Normal:   n,
		Material: material,
		tangent:  tangent,
		binormal: binormal,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never meet the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	local := hitPoint.Subtract(p.Point)
	hit := &material.HitRecord{
		T:        t,
		Point:    hitPoint,
		UV:       core.NewVec2(local.Dot(p.tangent), local.Dot(p.binormal)),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)

	return finalize(hit)
}

// BoundingBox is unbounded; the BVH keeps planes out of its tree
func (p *Plane) BoundingBox() core.AABB {
	inf := math.Inf(1)
	return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
}
