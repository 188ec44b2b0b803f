package geometry

import (
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Multiple shapes for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// Shapes with unbounded boxes (planes) are kept aside and tested linearly.
type BVH struct {
	Root      *BVHNode
	Unbounded []Shape
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	bvh := &BVH{}

	// Work on a copy; sorting must not reorder the caller's slice
	var bounded []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().IsBounded() {
			bounded = append(bounded, shape)
		} else {
			bvh.Unbounded = append(bvh.Unbounded, shape)
		}
	}

	if len(bounded) > 0 {
		bvh.Root = buildBVH(bounded)
	}
	return bvh
}

// buildBVH uses a median split along the longest axis of the centroid bounds
func buildBVH(shapes []Shape) *BVHNode {
	box := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		box = box.Union(shape.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: box, Shapes: shapes}
	}

	axis := box.LongestAxis()
	sort.SliceStable(shapes, func(i, j int) bool {
		return core.Axis(shapes[i].BoundingBox().Center(), axis) <
			core.Axis(shapes[j].BoundingBox().Center(), axis)
	})

	mid := len(shapes) / 2
	return &BVHNode{
		BoundingBox: box,
		Left:        buildBVH(shapes[:mid]),
		Right:       buildBVH(shapes[mid:]),
	}
}

// Hit returns the closest hit among all shapes
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range bvh.Unbounded {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	if bvh.Root != nil {
		if hit, ok := bvh.hitNode(bvh.Root, ray, tMin, closestSoFar); ok {
			closest = hit
		}
	}

	return closest, closest != nil
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closest *material.HitRecord
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, ok := bvh.hitNode(child, ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats walks the tree and collects structure statistics
func (bvh *BVH) getStats() bvhStats {
	var stats bvhStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Shapes != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
