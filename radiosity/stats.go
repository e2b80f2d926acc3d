package radiosity

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/turner-renderer/renderer/log"
)

// Aggregate counters for a completed solve.
type Stats struct {
	// Number of solve/refine cycles the outer loop ran.
	OuterIterations int

	// Patch counts over the whole forest.
	TotalPatches int
	LeafPatches  int

	// Total number of gathering links over all patches.
	Links int

	// Deepest patch level reached by subdivision; roots are level 0.
	MaxDepth int

	ComputeTime time.Duration
}

// Walk the forest and fill in the patch, link and depth counters.
func (s *Solver) collectStats() {
	type entry struct {
		node  *quadnode
		depth int
	}

	s.stats.TotalPatches = 0
	s.stats.LeafPatches = 0
	s.stats.Links = 0
	s.stats.MaxDepth = 0

	stack := make([]entry, 0, len(s.nodes))
	for _, root := range s.nodes {
		stack = append(stack, entry{root, 0})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s.stats.TotalPatches++
		s.stats.Links += len(top.node.gatheringFrom)
		if top.depth > s.stats.MaxDepth {
			s.stats.MaxDepth = top.depth
		}

		if top.node.isLeaf() {
			s.stats.LeafPatches++
			continue
		}
		for _, child := range top.node.children {
			stack = append(stack, entry{child, top.depth + 1})
		}
	}
}

// Get the stats of the last Compute call.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Log a tabular summary of the solve via the supplied logger.
func (st Stats) Log(logger log.Logger) {
	logger.Noticef("solver statistics:\n%s", st.table())
}

func (st Stats) table() string {
	var buf strings.Builder

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Outer iterations", fmt.Sprintf("%d", st.OuterIterations)})
	table.Append([]string{"Patches (total)", fmt.Sprintf("%d", st.TotalPatches)})
	table.Append([]string{"Patches (leaf)", fmt.Sprintf("%d", st.LeafPatches)})
	table.Append([]string{"Links", fmt.Sprintf("%d", st.Links)})
	table.Append([]string{"Max subdivision depth", fmt.Sprintf("%d", st.MaxDepth)})
	table.Append([]string{"Compute time", st.ComputeTime.String()})
	table.Render()

	return buf.String()
}
