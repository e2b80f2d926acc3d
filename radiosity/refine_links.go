package radiosity

// Walk every patch in the forest and refine links that carry too much energy.
// Reports whether any link was refined, in which case the system needs to be
// solved again before the next pass.
//
// Links appended to a patch during the pass (child links installed by
// refineLink) are not revisited: only the links present when the patch is
// first inspected are candidates. The walk is post-order so that links owned
// by children are processed before the parent's.
func (s *Solver) refineLinks() bool {
	refined := false

	for _, root := range s.nodes {
		for _, p := range postOrder(root) {
			// Detach the snapshot: refineLink appends replacement links to
			// p.gatheringFrom, which must not alias the list under iteration.
			links := p.gatheringFrom
			p.gatheringFrom = nil
			for _, ln := range links {
				if s.refineLink(p, ln) {
					refined = true
				} else {
					p.gatheringFrom = append(p.gatheringFrom, ln)
				}
			}
		}
	}

	return refined
}

// Collect the subtree rooted at p in post-order using an explicit stack:
// a preorder traversal pushed onto an output list that is then reversed.
func postOrder(p *quadnode) []*quadnode {
	var out []*quadnode

	stack := []*quadnode{p}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, node)

		if !node.isLeaf() {
			for _, child := range node.children {
				stack = append(stack, child)
			}
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Decide whether the link p<-q transfers enough energy to warrant pushing it
// down a level, and if so replace it by links from a subdivided side. Reports
// whether the link was refined; an unrefined link stays with its owner.
//
// The link is taken by value: refineLink appends to p.gatheringFrom, which
// may reallocate the backing array under a live reference.
func (s *Solver) refineLink(p *quadnode, ln linknode) bool {
	q := ln.q

	// Radiometric oracle: energy received by p over this link, per channel.
	energy := q.radShoot.Mul(ln.formFactor * q.area)
	if energy.MaxComponent() <= s.opts.BFEps {
		return false
	}

	// By reciprocity A_p F(p<-q) = A_q F(q<-p); the side the other patch
	// sees large is the one worth splitting.
	fpq := ln.formFactor
	fqp := fpq * p.area / q.area

	if fpq < fqp {
		if !s.subdivide(p) {
			return false
		}
		for _, child := range p.children {
			s.link(child, q)
		}
		// Child links belong to the children; nothing replaces the old
		// link on p itself.
		return true
	}

	if !s.subdivide(q) {
		return false
	}
	for _, child := range q.children {
		s.link(p, child)
	}
	return true
}
