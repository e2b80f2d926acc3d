package index

import (
	"github.com/turner-renderer/renderer/log"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

const (
	// Intersections closer to a segment endpoint than this parametric
	// distance are ignored so that rays leaving or arriving at a surface do
	// not report the surface itself as a blocker.
	segmentEpsilon float32 = 1e-4

	// Triangle lists of at most this size become BVH leaves without a split.
	minTrianglesPerLeaf = 2
)

// An Index answers visibility queries over the root triangles of a scene.
// The triangle order matches the scene insertion order; a triangle's position
// in that order serves as its root id.
type Index struct {
	logger log.Logger

	tris  []*scene.Triangle
	nodes []bvhNode
	items []int32
}

// Build a scene index over the scene root triangles.
func Build(s *scene.Scene) *Index {
	idx := &Index{
		logger: log.New("index"),
		tris:   s.Triangles,
	}

	workList := make([]BoundedVolume, len(s.Triangles))
	for i, tri := range s.Triangles {
		workList[i] = tri
	}
	idx.nodes, idx.items = buildBvh(workList, minTrianglesPerLeaf, SurfaceAreaHeuristic)

	idx.logger.Infof("indexed %d triangles (%d bvh nodes)", len(idx.tris), len(idx.nodes))
	return idx
}

// Get the indexed root triangles in insertion order.
func (idx *Index) Triangles() []*scene.Triangle {
	return idx.tris
}

// Get the number of indexed root triangles.
func (idx *Index) NumTriangles() int {
	return len(idx.tris)
}

// Get the root triangle with the given id.
func (idx *Index) Triangle(id int) *scene.Triangle {
	return idx.tris[id]
}

// Check whether the open segment between two points is blocked by any root
// triangle other than the excluded ones. Exclusion ids refer to positions in
// the scene triangle order; pass -1 to disable an exclusion slot.
func (idx *Index) Occluded(from, to types.Vec3, excludeA, excludeB int) bool {
	if len(idx.nodes) == 0 {
		return false
	}

	dir := to.Sub(from)

	var stack [64]int32
	stackLen := 0
	stack[stackLen] = 0
	stackLen++

	for stackLen > 0 {
		stackLen--
		node := &idx.nodes[stack[stackLen]]

		if !segmentHitsBox(from, dir, node.min, node.max) {
			continue
		}

		if !node.isLeaf() {
			stack[stackLen] = node.left
			stackLen++
			stack[stackLen] = node.right
			stackLen++
			continue
		}

		for i := node.firstItem; i < node.firstItem+node.numItems; i++ {
			triID := idx.items[i]
			if int(triID) == excludeA || int(triID) == excludeB {
				continue
			}
			t, hit := intersectTriangle(from, dir, idx.tris[triID])
			if hit && t > segmentEpsilon && t < 1-segmentEpsilon {
				return true
			}
		}
	}

	return false
}

// Slab test for a parametric segment origin + t*dir, t in [0, 1].
func segmentHitsBox(origin, dir, min, max types.Vec3) bool {
	tmin := float32(0)
	tmax := float32(1)

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < min[axis] || origin[axis] > max[axis] {
				return false
			}
			continue
		}

		inv := 1.0 / dir[axis]
		t0 := (min[axis] - origin[axis]) * inv
		t1 := (max[axis] - origin[axis]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return false
		}
	}

	return true
}

// Moeller-Trumbore segment/triangle intersection. Returns the parametric hit
// distance along dir.
func intersectTriangle(origin, dir types.Vec3, tri *scene.Triangle) (float32, bool) {
	e1 := tri.Vertices[1].Sub(tri.Vertices[0])
	e2 := tri.Vertices[2].Sub(tri.Vertices[0])

	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -1e-9 && det < 1e-9 {
		return 0, false
	}
	invDet := 1.0 / det

	tvec := origin.Sub(tri.Vertices[0])
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(e1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(qvec) * invDet
	if t <= 0 {
		return 0, false
	}
	return t, true
}
