package radiosity

import (
	"github.com/turner-renderer/renderer/radiosity/mesh"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

// A linknode records that its owner patch p gathers radiosity from the
// shooting patch q with the precomputed form factor F(p<-q). The link never
// owns q; q belongs to its own root subtree which outlives the link.
type linknode struct {
	q          *quadnode
	formFactor float32
}

// A quadnode is a patch in the quadtree forest: either an original scene
// triangle (root) or one quadrant of a subdivided parent.
type quadnode struct {
	// Id of the original scene triangle this patch descends from. Invariant
	// along any root-to-leaf path.
	rootTri int

	// Id of the triangle this patch represents. Equal to rootTri for roots;
	// allocated from the solver counter for subdivided patches.
	tri int

	// Handle of the backing face in the mesh registry.
	face mesh.FaceHandle

	area float32

	radGather types.Vec3
	radShoot  types.Vec3
	emission  types.Vec3
	rho       types.Vec3

	parent   *quadnode
	children [4]*quadnode

	// Links owned by this patch.
	gatheringFrom []linknode

	// Patch geometry, derived from the registry face at creation time.
	geom *scene.Triangle
}

// Due to full 4-subdivision a missing first child implies a leaf.
func (p *quadnode) isLeaf() bool {
	return p.children[0] == nil
}
