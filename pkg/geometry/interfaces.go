package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit returns the nearest intersection with t in [tMin, tMax]. Shapes are
// immutable after construction and safe for concurrent use.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}

// finalize rejects hits whose geometry went non-finite so they read as misses
func finalize(hit *material.HitRecord) (*material.HitRecord, bool) {
	if !hit.IsFinite() {
		return nil, false
	}
	return hit, true
}
