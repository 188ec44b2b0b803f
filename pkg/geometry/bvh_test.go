package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MockShape for testing
type MockShape struct {
	boundingBox core.AABB
	hitFn       func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

func (m MockShape) BoundingBox() core.AABB {
	return m.boundingBox
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	// Exactly leafThreshold shapes should create a single leaf
	shapes := make([]Shape, leafThreshold)
	for i := range shapes {
		shapes[i] = MockShape{
			boundingBox: core.NewAABB(core.NewVec3(float64(i), 0, 0), core.NewVec3(float64(i)+1, 1, 1)),
			hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
				return nil, false
			},
		}
	}

	stats := NewBVH(shapes).getStats()
	if stats.totalNodes != 1 {
		t.Errorf("Expected 1 node for %d shapes, got %d", len(shapes), stats.totalNodes)
	}
	if stats.leafNodes != 1 {
		t.Errorf("Expected 1 leaf node, got %d", stats.leafNodes)
	}

	// One more shape forces a split
	shapes = append(shapes, MockShape{
		boundingBox: core.NewAABB(core.NewVec3(8, 0, 0), core.NewVec3(9, 1, 1)),
		hitFn: func(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
			return nil, false
		},
	})

	stats = NewBVH(shapes).getStats()
	if stats.totalNodes == 1 {
		t.Errorf("Expected split for %d shapes, but got single node", len(shapes))
	}
	if stats.totalShapes != len(shapes) {
		t.Errorf("Expected %d shapes in leaves, got %d", len(shapes), stats.totalShapes)
	}
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	var shapes []Shape
	for i := 0; i < 40; i++ {
		x := float64(i%8) - 3.5
		z := -float64(i/8) * 2.5
		shapes = append(shapes, NewSphere(core.NewVec3(x, 0, z-3), 0.4, testMaterial()))
	}
	shapes = append(shapes, NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0), testMaterial()))

	bvh := NewBVH(shapes)
	if len(bvh.Unbounded) != 1 {
		t.Fatalf("Expected 1 unbounded shape, got %d", len(bvh.Unbounded))
	}

	for i := 0; i < 200; i++ {
		fx := float64(i%20)/20*8 - 4
		fy := float64(i/20)/10*2 - 1
		ray := core.NewRay(core.NewVec3(0, 0.3, 2), core.NewVec3(fx, fy, -5).Normalize())

		expected, expectedHit := linearHit(shapes, ray)
		got, gotHit := bvh.Hit(ray, 0.001, math.Inf(1))

		if expectedHit != gotHit {
			t.Fatalf("Ray %d: expected hit=%t, got %t", i, expectedHit, gotHit)
		}
		if gotHit && math.Abs(expected.T-got.T) > 1e-9 {
			t.Errorf("Ray %d: expected t=%f, got t=%f", i, expected.T, got.T)
		}
	}
}

func TestBVH_DoesNotReorderInput(t *testing.T) {
	shapes := make([]Shape, 0, 20)
	for i := 20; i > 0; i-- {
		shapes = append(shapes, NewSphere(core.NewVec3(float64(i), 0, 0), 0.1, testMaterial()))
	}
	first := shapes[0]

	NewBVH(shapes)
	if shapes[0] != first {
		t.Error("Expected input slice order to be preserved")
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := bvh.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected empty BVH to miss")
	}
}

func linearHit(shapes []Shape, ray core.Ray) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := math.Inf(1)
	for _, shape := range shapes {
		if hit, ok := shape.Hit(ray, 0.001, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}
