package radiosity

import (
	"github.com/turner-renderer/renderer/radiosity/mesh"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

// Visit the leaf patches of every root subtree in root insertion order,
// children in quadrant order. The visit order is the canonical enumeration
// order shared by Triangles, TriangleIndex, Radiosity and RadiosityAtVertices.
func (s *Solver) visitLeaves(visit func(p *quadnode)) {
	for _, root := range s.nodes {
		stack := []*quadnode{root}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if node.isLeaf() {
				visit(node)
				continue
			}
			// Push in reverse so quadrant 0 is visited first.
			for i := 3; i >= 0; i-- {
				stack = append(stack, node.children[i])
			}
		}
	}
}

// Get the geometry of every leaf patch of the refined forest.
func (s *Solver) Triangles() []*scene.Triangle {
	var out []*scene.Triangle
	s.visitLeaves(func(p *quadnode) {
		out = append(out, p.geom)
	})
	return out
}

// Map each leaf patch triangle id to its position in the leaf enumeration.
func (s *Solver) TriangleIndex() map[int]int {
	out := make(map[int]int)
	i := 0
	s.visitLeaves(func(p *quadnode) {
		out[p.tri] = i
		i++
	})
	return out
}

// Get the solved radiosity of every leaf patch, in leaf enumeration order.
func (s *Solver) Radiosity() []types.Vec3 {
	var out []types.Vec3
	s.visitLeaves(func(p *quadnode) {
		out = append(out, p.radShoot)
	})
	return out
}

// Expand per-patch radiosity to per-corner values: three identical entries
// per leaf, matching the corner order of the leaf's geometry. Shading stays
// flat; the expansion exists for exporters that only support vertex colors.
func (s *Solver) RadiosityAtVertices(rad []types.Vec3) []types.Vec3 {
	out := make([]types.Vec3, 0, 3*len(rad))
	for _, b := range rad {
		out = append(out, b, b, b)
	}
	return out
}

// Get the subdivision mesh backing the forest.
func (s *Solver) Mesh() *mesh.Mesh {
	return s.mesh
}
