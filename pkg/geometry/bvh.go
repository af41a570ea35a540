package geometry

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	refs        []primitiveRef // Primitives for leaf nodes (nil for internal nodes)
}

// BVH is a Bounding Volume Hierarchy over individual primitives
type BVH struct {
	Root   *BVHNode
	shapes []Shape
}

// NewBVH creates an empty BVH; call Build before querying
func NewBVH() *BVH {
	return &BVH{}
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

// Build constructs the hierarchy using median splits along the longest axis
func (bvh *BVH) Build(shapes []Shape) {
	bvh.shapes = shapes
	refs, _ := collectPrimitives(shapes)
	if len(refs) == 0 {
		bvh.Root = nil
		return
	}

	boxes := make(map[primitiveRef]core.AABB, len(refs))
	for _, ref := range refs {
		boxes[ref] = shapes[ref.shape].PrimitiveBoundingBox(ref.prim)
	}
	bvh.Root = buildBVH(refs, boxes, 0)
}

// buildBVH recursively builds the BVH using fast median splitting
func buildBVH(refs []primitiveRef, boxes map[primitiveRef]core.AABB, depth int) *BVHNode {
	// Calculate bounding box for all primitives
	boundingBox := boxes[refs[0]]
	for _, ref := range refs[1:] {
		boundingBox = boundingBox.Union(boxes[ref])
	}

	// Base case: few primitives - create leaf node
	if len(refs) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, refs: refs}
	}

	bestAxis, splitPos := findBestSplitSimple(boundingBox)
	if bestAxis == -1 {
		return &BVHNode{BoundingBox: boundingBox, refs: refs}
	}

	left, right := partitionSimple(refs, boxes, bestAxis, splitPos)

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: boundingBox, refs: refs}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left, boxes, depth+1),
		Right:       buildBVH(right, boxes, depth+1),
	}
}

// findBestSplitSimple picks the longest axis and splits it at its midpoint
func findBestSplitSimple(boundingBox core.AABB) (bestAxis int, splitPos float64) {
	bestAxis = boundingBox.LongestAxis()
	minVal, maxVal := boundingBox.Min.Get(bestAxis), boundingBox.Max.Get(bestAxis)

	// Skip if no extent along this axis
	if maxVal <= minVal {
		return -1, 0
	}
	return bestAxis, (minVal + maxVal) * 0.5
}

// partitionSimple partitions primitives by their box center relative to splitPos
func partitionSimple(refs []primitiveRef, boxes map[primitiveRef]core.AABB, axis int, splitPos float64) ([]primitiveRef, []primitiveRef) {
	var left, right []primitiveRef
	for _, ref := range refs {
		if boxes[ref].Center().Get(axis) < splitPos {
			left = append(left, ref)
		} else {
			right = append(right, ref)
		}
	}
	return left, right
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// RayIntersect finds the closest hit, shrinking the ray segment as hits are found
func (bvh *BVH) RayIntersect(ray core.Ray) (Intersection, bool) {
	if bvh.Root == nil {
		return Intersection{}, false
	}
	var best closestHit
	if !bvh.hitNode(bvh.Root, &ray, false, &best) {
		return Intersection{}, false
	}
	return finishIntersection(bvh.shapes, ray, best), true
}

// Occluded stops at the first hit found
func (bvh *BVH) Occluded(ray core.Ray) bool {
	if bvh.Root == nil {
		return false
	}
	var best closestHit
	return bvh.hitNode(bvh.Root, &ray, true, &best)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray *core.Ray, shadow bool, best *closestHit) bool {
	// First check if ray hits the bounding box
	if !node.BoundingBox.Intersects(*ray) {
		return false
	}

	// Leaf node: test its primitives
	if node.refs != nil {
		return testPrimitives(bvh.shapes, node.refs, ray, shadow, best)
	}

	// Internal node - test both children; ray.MaxT carries the closest hit so far
	hitLeft := node.Left != nil && bvh.hitNode(node.Left, ray, shadow, best)
	if hitLeft && shadow {
		return true
	}
	hitRight := node.Right != nil && bvh.hitNode(node.Right, ray, shadow, best)
	return hitLeft || hitRight
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{}
	if bvh.Root == nil {
		return stats
	}

	bvh.collectStats(bvh.Root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.refs != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.refs)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
