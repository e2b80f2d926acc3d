package radiosity

import (
	"math"
	"testing"

	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/scene/index"
	"github.com/turner-renderer/renderer/types"
)

func buildSolver(t *testing.T, sc *scene.Scene, opts Options) *Solver {
	t.Helper()
	return New(index.Build(sc), opts)
}

func facingSquares(t *testing.T) *scene.Scene {
	t.Helper()
	sc, err := scene.NewFacingSquaresScene()
	if err != nil {
		t.Fatalf("expected facing squares scene; got error %v", err)
	}
	return sc
}

// Visit every patch in the forest, roots first.
func (s *Solver) forEachPatch(visit func(p *quadnode)) {
	stack := append([]*quadnode(nil), s.nodes...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(p)
		if !p.isLeaf() {
			for _, child := range p.children {
				stack = append(stack, child)
			}
		}
	}
}

func TestSingleEmitter(t *testing.T) {
	emission := types.XYZ(2, 1, 0)
	sc := scene.NewScene()
	err := sc.AddTriangle(
		[3]types.Vec3{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)},
		scene.NewEmissiveMaterial(emission),
	)
	if err != nil {
		t.Fatalf("expected triangle; got error %v", err)
	}

	s := buildSolver(t, sc, DefaultOptions())
	s.Compute()

	// Nothing to exchange energy with: no links, no subdivision, and the
	// solution is the emission itself.
	stats := s.Stats()
	if stats.TotalPatches != 1 || stats.LeafPatches != 1 {
		t.Fatalf("expected a single unsubdivided patch; got %d total, %d leaves", stats.TotalPatches, stats.LeafPatches)
	}
	if stats.Links != 0 {
		t.Fatalf("expected no links; got %d", stats.Links)
	}

	rad := s.Radiosity()
	if len(rad) != 1 {
		t.Fatalf("expected one radiosity value; got %d", len(rad))
	}
	if rad[0] != emission {
		t.Fatalf("expected radiosity %v; got %v", emission, rad[0])
	}
}

func TestFacingSquares(t *testing.T) {
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          0.1,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 8,
	})
	s.Compute()

	stats := s.Stats()
	if stats.OuterIterations > maxOuterIterations {
		t.Fatalf("expected the outer loop to stay within its bound; ran %d iterations", stats.OuterIterations)
	}

	triIndex := s.TriangleIndex()
	rad := s.Radiosity()

	var emitterLeaves, receiverLeaves int
	s.forEachPatch(func(p *quadnode) {
		if !p.isLeaf() {
			return
		}
		b := rad[triIndex[p.tri]]

		for c := 0; c < 3; c++ {
			f := float64(b[c])
			if math.IsNaN(f) || math.IsInf(f, 0) {
				t.Fatalf("expected finite radiosity; got %v", b)
			}
			if b[c] < 0 {
				t.Fatalf("expected non-negative radiosity; got %v", b)
			}
		}

		if p.rootTri < 2 {
			emitterLeaves++
			// The emitter does not reflect, so its radiosity is its emission.
			if b != types.XYZ(1, 0, 0) {
				t.Fatalf("expected emitter leaf radiosity (1, 0, 0); got %v", b)
			}
			return
		}

		receiverLeaves++
		// The receiver sees only red light and reflects half of it.
		if b[0] <= 0 || b[0] >= 0.5 {
			t.Fatalf("expected receiver red channel in (0, 0.5); got %v", b)
		}
		if b[1] != 0 || b[2] != 0 {
			t.Fatalf("expected receiver green/blue channels to stay dark; got %v", b)
		}
	})

	if emitterLeaves == 0 || receiverLeaves == 0 {
		t.Fatalf("expected leaves on both squares; got %d and %d", emitterLeaves, receiverLeaves)
	}
}

func TestSubdivisionInvariants(t *testing.T) {
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          0.05,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 4,
	})
	s.Compute()

	subdivided := false
	s.forEachPatch(func(p *quadnode) {
		if p.isLeaf() {
			return
		}
		subdivided = true

		var childArea float32
		for _, child := range p.children {
			if child == nil {
				t.Fatalf("expected all four children to be present")
			}
			if child.parent != p {
				t.Fatalf("expected child to point back at its parent")
			}
			if child.rootTri != p.rootTri {
				t.Fatalf("expected children to stay in root %d; got %d", p.rootTri, child.rootTri)
			}
			if child.rho != p.rho || child.emission != p.emission {
				t.Fatalf("expected children to inherit the parent material")
			}
			childArea += child.area
		}
		if math.Abs(float64(childArea-p.area)) > 1e-6*float64(p.area) {
			t.Fatalf("expected child areas to sum to the parent area %f; got %f", p.area, childArea)
		}
	})
	if !subdivided {
		t.Fatalf("expected the facing squares to subdivide under these thresholds")
	}
}

func TestLinksNeverConnectTheSameRoot(t *testing.T) {
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          0.05,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 4,
	})
	s.Compute()

	links := 0
	s.forEachPatch(func(p *quadnode) {
		for _, ln := range p.gatheringFrom {
			links++
			if ln.q.rootTri == p.rootTri {
				t.Fatalf("expected links to connect different root subtrees; got a link within root %d", p.rootTri)
			}
			if ln.formFactor < 0 || ln.formFactor > 1 {
				t.Fatalf("expected link form factor in [0, 1]; got %f", ln.formFactor)
			}
		}
	})
	if links == 0 {
		t.Fatalf("expected the solve to create links")
	}
}

func TestAreaFloorStopsSubdivision(t *testing.T) {
	// An area floor larger than any root refuses all subdivision; every pair
	// of roots must still end up linked.
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          1e-6,
		AEps:          10,
		BFEps:         1e-6,
		MaxIterations: 4,
	})
	s.Compute()

	stats := s.Stats()
	if stats.TotalPatches != 4 || stats.MaxDepth != 0 {
		t.Fatalf("expected 4 unsubdivided roots; got %d patches at depth %d", stats.TotalPatches, stats.MaxDepth)
	}
	if stats.Links != 12 {
		t.Fatalf("expected each root pair to be linked; got %d links", stats.Links)
	}
}

func TestBlackAbsorber(t *testing.T) {
	sc := scene.NewScene()
	if err := sc.AddQuad(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0), scene.NewEmissiveMaterial(types.XYZ(1, 1, 1))); err != nil {
		t.Fatalf("expected emitter quad; got error %v", err)
	}
	if err := sc.AddQuad(types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), scene.NewDiffuseMaterial(types.XYZ(0, 0, 0))); err != nil {
		t.Fatalf("expected absorber quad; got error %v", err)
	}

	s := buildSolver(t, sc, DefaultOptions())
	s.Compute()

	triIndex := s.TriangleIndex()
	rad := s.Radiosity()
	s.forEachPatch(func(p *quadnode) {
		if !p.isLeaf() || p.rootTri < 2 {
			return
		}
		if got := rad[triIndex[p.tri]]; got != (types.Vec3{}) {
			t.Fatalf("expected the absorber to emit nothing; got %v", got)
		}
	})
}

func TestComputeIsRepeatable(t *testing.T) {
	opts := Options{
		FEps:          0.1,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 8,
	}
	sc := facingSquares(t)
	idx := index.Build(sc)

	first := New(idx, opts)
	first.Compute()
	second := New(idx, opts)
	second.Compute()

	radA, radB := first.Radiosity(), second.Radiosity()
	if len(radA) != len(radB) {
		t.Fatalf("expected identical leaf counts; got %d and %d", len(radA), len(radB))
	}
	for i := range radA {
		if radA[i] != radB[i] {
			t.Fatalf("expected identical solutions; leaf %d differs: %v vs %v", i, radA[i], radB[i])
		}
	}

	// Recomputing on the same solver rebuilds the forest from scratch.
	first.Compute()
	radC := first.Radiosity()
	if len(radC) != len(radA) {
		t.Fatalf("expected recompute to rebuild the same forest; got %d leaves, want %d", len(radC), len(radA))
	}
	for i := range radA {
		if radA[i] != radC[i] {
			t.Fatalf("expected recompute to reproduce the solution; leaf %d differs", i)
		}
	}
}

func TestCornellColorBleeding(t *testing.T) {
	sc, err := scene.NewCornellScene()
	if err != nil {
		t.Fatalf("expected cornell scene; got error %v", err)
	}

	s := buildSolver(t, sc, Options{
		FEps:          0.1,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 8,
	})
	s.Compute()

	triIndex := s.TriangleIndex()
	rad := s.Radiosity()

	// The floor is the first quad, so its leaves live in roots 0 and 1. Pick
	// the floor leaves closest to the red wall (x=0) and the green wall (x=1).
	var nearRed, nearGreen *quadnode
	s.forEachPatch(func(p *quadnode) {
		if !p.isLeaf() || p.rootTri > 1 {
			return
		}
		if nearRed == nil || p.geom.Centroid()[0] < nearRed.geom.Centroid()[0] {
			nearRed = p
		}
		if nearGreen == nil || p.geom.Centroid()[0] > nearGreen.geom.Centroid()[0] {
			nearGreen = p
		}
	})
	if nearRed == nil || nearGreen == nil {
		t.Fatalf("expected floor leaves after compute")
	}

	redSide := rad[triIndex[nearRed.tri]]
	if redSide[0] <= redSide[2] {
		t.Fatalf("expected red bleeding onto the floor near the red wall; got %v", redSide)
	}
	greenSide := rad[triIndex[nearGreen.tri]]
	if greenSide[1] <= greenSide[0] {
		t.Fatalf("expected green bleeding onto the floor near the green wall; got %v", greenSide)
	}
}

func TestResolveIsStable(t *testing.T) {
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          0.1,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 8,
	})
	s.Compute()

	before := s.Radiosity()
	s.solveSystem()
	after := s.Radiosity()

	if len(before) != len(after) {
		t.Fatalf("expected the solve sweep to leave the forest alone; got %d leaves, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].Sub(after[i]).Len() > 1e-5 {
			t.Fatalf("expected a converged solution to survive another solve sweep; leaf %d moved from %v to %v", i, before[i], after[i])
		}
	}
}

func TestClosedSceneEnergyDecays(t *testing.T) {
	sc, err := scene.NewCornellScene()
	if err != nil {
		t.Fatalf("expected cornell scene; got error %v", err)
	}

	s := buildSolver(t, sc, Options{
		FEps:          0.1,
		AEps:          0.05,
		BFEps:         1e-3,
		MaxIterations: 4,
	})
	s.Compute()

	// Switch the light off. With no emission anywhere and every reflectance
	// below one, each further sweep can only absorb energy.
	s.forEachPatch(func(p *quadnode) { p.emission = types.Vec3{} })

	norm := func() float32 {
		var peak float32
		s.forEachPatch(func(p *quadnode) {
			if !p.isLeaf() {
				return
			}
			if m := p.radShoot.MaxComponent(); m > peak {
				peak = m
			}
		})
		return peak
	}

	n0 := norm()
	s.solveSystem()
	n1 := norm()
	s.solveSystem()
	n2 := norm()

	if n1 > n0 || n2 > n1 {
		t.Fatalf("expected the leaf radiosity norm to be non-increasing; got %f, %f, %f", n0, n1, n2)
	}
	if n0 > 0 && n2 >= n0 {
		t.Fatalf("expected energy to decay without a light source; got %f -> %f", n0, n2)
	}
}

func TestEnumerationsAlign(t *testing.T) {
	s := buildSolver(t, facingSquares(t), Options{
		FEps:          0.1,
		AEps:          0.01,
		BFEps:         1e-3,
		MaxIterations: 8,
	})
	s.Compute()

	tris := s.Triangles()
	rad := s.Radiosity()
	triIndex := s.TriangleIndex()

	if len(tris) != len(rad) || len(tris) != len(triIndex) {
		t.Fatalf("expected aligned enumerations; got %d triangles, %d radiosity values, %d index entries", len(tris), len(rad), len(triIndex))
	}
	if len(tris) != s.Stats().LeafPatches {
		t.Fatalf("expected %d enumerated leaves; got %d", s.Stats().LeafPatches, len(tris))
	}

	// The index is a bijection onto enumeration positions.
	seen := make([]bool, len(tris))
	for _, pos := range triIndex {
		if pos < 0 || pos >= len(seen) || seen[pos] {
			t.Fatalf("expected index positions to form a permutation; position %d repeats or is out of range", pos)
		}
		seen[pos] = true
	}

	verts := s.RadiosityAtVertices(rad)
	if len(verts) != 3*len(rad) {
		t.Fatalf("expected 3 vertex values per leaf; got %d for %d leaves", len(verts), len(rad))
	}
	for i, b := range rad {
		if verts[3*i] != b || verts[3*i+1] != b || verts[3*i+2] != b {
			t.Fatalf("expected flat per-corner colors for leaf %d", i)
		}
	}
}
