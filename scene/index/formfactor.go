package index

import (
	"math"

	"github.com/turner-renderer/renderer/scene"
)

// Fixed barycentric sample pattern used for the form factor integration. The
// pattern is deterministic so repeated computations yield identical results.
var formFactorSamples = [4][3]float32{
	{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0},
	{2.0 / 3.0, 1.0 / 6.0, 1.0 / 6.0},
	{1.0 / 6.0, 2.0 / 3.0, 1.0 / 6.0},
	{1.0 / 6.0, 1.0 / 6.0, 2.0 / 3.0},
}

// Compute the form factor F(p<-q): the fraction of radiosity leaving q that
// arrives at p, accounting for visibility. The integration shoots rays from
// the centroid of p to a fixed sample pattern on q; rays blocked by any root
// triangle other than the one identified by excludeRootID do not contribute.
//
// The point-to-disc kernel cos(theta_p) * cos(theta_q) / (pi r^2 + A/n) keeps
// the estimate bounded when the patches nearly touch. The result is clamped
// to [0, 1]; clamps are reported on the debug logger since a value above one
// indicates the integration has been pushed past its accuracy range.
func (idx *Index) FormFactor(p, q *scene.Triangle, excludeRootID int) float32 {
	origin := p.Centroid()

	sampleArea := q.Area() / float32(len(formFactorSamples))

	var sum float32
	for _, bary := range formFactorSamples {
		sample := q.Vertices[0].Mul(bary[0]).
			Add(q.Vertices[1].Mul(bary[1])).
			Add(q.Vertices[2].Mul(bary[2]))

		dir := sample.Sub(origin)
		distSq := dir.Dot(dir)
		if distSq == 0 {
			continue
		}
		dist := float32(math.Sqrt(float64(distSq)))
		unit := dir.Mul(1.0 / dist)

		cosP := p.Normal.Dot(unit)
		cosQ := -q.Normal.Dot(unit)
		if cosP <= 0 || cosQ <= 0 {
			continue
		}

		if idx.Occluded(origin, sample, excludeRootID, -1) {
			continue
		}

		sum += cosP * cosQ / (math.Pi*distSq + sampleArea) * sampleArea
	}

	if sum > 1 {
		idx.logger.Debugf("form factor clamped: %f -> 1", sum)
		sum = 1
	}
	return sum
}
