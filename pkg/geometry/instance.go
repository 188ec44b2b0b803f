package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Instance places a shape in the world through an affine transform
type Instance struct {
	Shape         Shape
	Transform     core.Transform // object-to-world
	worldToObject core.Transform
	bounds        core.AABB
}

// NewInstance wraps shape with an object-to-world transform
func NewInstance(shape Shape, transform core.Transform) *Instance {
	bounds := shape.BoundingBox()
	if bounds.IsBounded() {
		bounds = transform.ApplyAABB(bounds)
	}
	return &Instance{
		Shape:         shape,
		Transform:     transform,
		worldToObject: transform.Inverse(),
		bounds:        bounds,
	}
}

// Hit intersects in object space. The object-space direction is left
// unnormalized so t is the same in both spaces.
func (in *Instance) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	local := in.worldToObject.ApplyRay(ray)
	hit, ok := in.Shape.Hit(local, tMin, tMax)
	if !ok {
		return nil, false
	}

	outward := hit.Normal
	if !hit.FrontFace {
		outward = outward.Negate()
	}

	world := &material.HitRecord{
		T:        hit.T,
		Point:    ray.At(hit.T),
		UV:       hit.UV,
		Material: hit.Material,
	}
	world.SetFaceNormal(ray, in.Transform.ApplyNormal(outward))

	return finalize(world)
}

// BoundingBox returns the world-space bounds of the transformed shape
func (in *Instance) BoundingBox() core.AABB {
	return in.bounds
}
