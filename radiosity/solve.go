package radiosity

import (
	"github.com/turner-renderer/renderer/types"
)

// Run opts.MaxIterations relaxation steps. Each step gathers radiosity over
// every link in the forest and then reconciles the hierarchy with a push-pull
// sweep per root.
func (s *Solver) solveSystem() {
	for iter := 0; iter < s.opts.MaxIterations; iter++ {
		for _, root := range s.nodes {
			s.gatherRadiosity(root)
		}
		for _, root := range s.nodes {
			pushPullRadiosity(root, types.Vec3{})
		}
	}
}

// Gather incoming radiosity over the links of every patch in the subtree
// rooted at p. Each patch accumulates F(p<-q) * B_q over its links and scales
// by its own reflectance.
func (s *Solver) gatherRadiosity(p *quadnode) {
	stack := []*quadnode{p}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var incident types.Vec3
		for _, ln := range node.gatheringFrom {
			incident = incident.Add(ln.q.radShoot.Mul(ln.formFactor))
		}
		node.radGather = node.rho.MulVec(incident)

		if !node.isLeaf() {
			for _, child := range node.children {
				stack = append(stack, child)
			}
		}
	}
}

// Reconcile gathered radiosity across the hierarchy. Gathered energy at
// interior patches is pushed down to the leaves undiluted (radiosity is an
// area density), summed with the leaf's own gather and emission, and pulled
// back up as the area-weighted average of the children. Since subdivision is
// always into four equal-area quadrants the pull is a plain mean.
func pushPullRadiosity(p *quadnode, down types.Vec3) types.Vec3 {
	if p.isLeaf() {
		p.radShoot = p.emission.Add(p.radGather).Add(down)
		return p.radShoot
	}

	childDown := down.Add(p.radGather)
	var up types.Vec3
	for _, child := range p.children {
		up = up.Add(pushPullRadiosity(child, childDown))
	}
	p.radShoot = up.Mul(0.25)
	return p.radShoot
}
