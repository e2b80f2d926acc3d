// Package radiosity implements a hierarchical radiosity solver after Hanrahan,
// Salzman and Aupperle (https://graphics.stanford.edu/papers/rad/). Scene
// triangles become the roots of a quadtree forest that is refined adaptively:
// patch pairs are linked at the coarsest level a form factor oracle accepts,
// radiosity is propagated through the links by repeated gather and push-pull
// sweeps, and links carrying too much energy are replaced by links to
// subdivided children until the solution is refined to tolerance.
package radiosity

import (
	"math"
	"time"

	"github.com/turner-renderer/renderer/log"
	"github.com/turner-renderer/renderer/radiosity/mesh"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/scene/index"
	"github.com/turner-renderer/renderer/types"
)

// Bound on the outer solve/refine loop. Refinement normally stabilizes long
// before this; running out is reported as a warning and the current solution
// stands.
const maxOuterIterations = 64

type Solver struct {
	logger log.Logger

	idx  *index.Index
	opts Options

	mesh  *mesh.Mesh
	nodes []*quadnode

	// Next id to assign to a subdivided triangle. Ids below the root count
	// always denote root triangles.
	nextTri int

	stats Stats
}

// Create a new solver over the given scene index. The index is borrowed for
// the lifetime of the solver.
func New(idx *index.Index, opts Options) *Solver {
	return &Solver{
		logger: log.New("radiosity"),
		idx:    idx,
		opts:   opts,
	}
}

// Run the full pipeline: build the radiosity mesh and the root patches, seed
// the link graph by pairwise refinement, then alternate solving the system
// and refining links until no link needs further refinement.
func (s *Solver) Compute() {
	start := time.Now()

	s.mesh = mesh.Build(s.idx.Triangles())
	s.nextTri = s.idx.NumTriangles()

	s.nodes = make([]*quadnode, 0, s.idx.NumTriangles())
	for i, tri := range s.idx.Triangles() {
		s.nodes = append(s.nodes, &quadnode{
			rootTri:  i,
			tri:      i,
			face:     mesh.FaceHandle(i),
			area:     tri.Area(),
			radShoot: tri.Material.Emissive,
			emission: tri.Material.Emissive,
			rho:      tri.Material.Diffuse,
			geom:     tri,
		})
	}

	s.logger.Noticef("refining %d root patches", len(s.nodes))
	for _, p := range s.nodes {
		for _, q := range s.nodes {
			if p.rootTri == q.rootTri {
				continue
			}
			s.refine(p, q)
		}
	}

	iteration := 0
	for ; iteration < maxOuterIterations; iteration++ {
		s.solveSystem()
		if !s.refineLinks() {
			break
		}
	}
	s.stats.OuterIterations = iteration + 1
	if iteration == maxOuterIterations {
		s.logger.Warningf("link refinement did not stabilize after %d iterations; emitting current solution", maxOuterIterations)
		s.stats.OuterIterations = maxOuterIterations
	}

	s.stats.ComputeTime = time.Since(start)
	s.collectStats()
	s.logger.Noticef("computed radiosity for %d roots in %s", len(s.nodes), s.stats.ComputeTime)
}

// Cheap point-sample form factor estimate used to drive refinement. Treats
// both patches as point samples at their centroids; q contributes its full
// solid angle as seen from p. Asymmetric in general.
func (s *Solver) estimateFormFactor(p, q *quadnode) float32 {
	pMid := p.geom.Centroid()
	qMid := q.geom.Centroid()

	cosTheta := p.geom.Normal.Dot(qMid.Sub(pMid).Normalize())
	if math.IsNaN(float64(cosTheta)) {
		panic("radiosity: non-finite form factor estimate; degenerate input geometry")
	}
	if cosTheta < 0 {
		return 0
	}

	omega := solidAngle(pMid, q.geom)
	return cosTheta * omega / math.Pi
}

// Split a leaf patch into four children. Reports false when the area floor
// refuses the subdivision. Calling subdivide on an internal patch succeeds
// without side effects.
func (s *Solver) subdivide(p *quadnode) bool {
	if !p.isLeaf() {
		return true
	}

	childArea := p.area / 4
	if childArea < s.opts.AEps {
		return false
	}

	faces := s.mesh.Subdivide4(p.face)
	for i := 0; i < 4; i++ {
		v0, v1, v2 := s.mesh.Corners(faces[i])
		geom, err := scene.NewTriangle(
			[3]types.Vec3{s.mesh.Point(v0), s.mesh.Point(v1), s.mesh.Point(v2)},
			p.geom.Material,
		)
		if err != nil {
			panic("radiosity: subdivision produced a degenerate face")
		}

		p.children[i] = &quadnode{
			rootTri:  p.rootTri,
			tri:      s.nextTri,
			face:     faces[i],
			area:     childArea,
			radShoot: p.radShoot,
			emission: p.emission,
			rho:      p.rho,
			parent:   p,
			geom:     geom,
		}
		s.nextTri++
	}

	return true
}

// Link p to q s.t. p gathers energy from q. The link weight is the full
// visibility-aware form factor from the scene index.
func (s *Solver) link(p, q *quadnode) {
	fpq := s.idx.FormFactor(p.geom, q.geom, q.rootTri)
	p.gatheringFrom = append(p.gatheringFrom, linknode{q: q, formFactor: fpq})
}

// Pairwise refinement: link the two patches at the coarsest level the form
// factor estimate accepts, subdividing the smaller-receiving side on the way
// down. Runs on an explicit work stack since subtrees can be deep.
func (s *Solver) refine(p, q *quadnode) {
	type pair struct {
		p, q *quadnode
	}

	stack := []pair{{p, q}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p, q := top.p, top.q

		fpq := s.estimateFormFactor(p, q)
		fqp := s.estimateFormFactor(q, p)
		if fpq < s.opts.FEps && fqp < s.opts.FEps {
			s.link(p, q)
			continue
		}

		if fqp < fpq {
			if s.subdivide(q) {
				for _, child := range q.children {
					stack = append(stack, pair{p, child})
				}
				continue
			}
		} else {
			if s.subdivide(p) {
				for _, child := range p.children {
					stack = append(stack, pair{child, q})
				}
				continue
			}
		}

		s.link(p, q)
	}
}
