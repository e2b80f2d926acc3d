package radiosity

import (
	"math"

	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

// Compute the solid angle subtended by a triangle as seen from a point,
// using the Van Oosterom-Strackee formula:
//
//	tan(omega/2) = r1 . (r2 x r3) / (r1 r2 r3 + (r1.r2) r3 + (r1.r3) r2 + (r2.r3) r1)
//
// The result is in [0, 2*pi].
func solidAngle(origin types.Vec3, tri *scene.Triangle) float32 {
	r1 := tri.Vertices[0].Sub(origin)
	r2 := tri.Vertices[1].Sub(origin)
	r3 := tri.Vertices[2].Sub(origin)

	l1 := float64(r1.Len())
	l2 := float64(r2.Len())
	l3 := float64(r3.Len())

	det := float64(r1.Dot(r2.Cross(r3)))
	denom := l1*l2*l3 +
		float64(r1.Dot(r2))*l3 +
		float64(r1.Dot(r3))*l2 +
		float64(r2.Dot(r3))*l1

	return float32(2 * math.Atan2(math.Abs(det), denom))
}
