package scene

import (
	"math"

	"github.com/turner-renderer/renderer/types"
)

// Defines a scene triangle. Triangles are the only primitive the radiosity
// solver operates on; quads and loaded meshes are triangulated on input.
type Triangle struct {
	// Vertex positions in winding order. The geometric normal follows the
	// right-hand rule on the winding.
	Vertices [3]types.Vec3

	// Unit geometric normal.
	Normal types.Vec3

	// The triangle material. Shared between triangles of the same surface.
	Material *Material

	area float32
}

// Create a new triangle primitive. Vertices should be specified in
// counter-clockwise order as seen from the front side. Returns
// ErrDegenerateTriangle if the triangle has zero area or a non-finite normal.
func NewTriangle(vertices [3]types.Vec3, material *Material) (*Triangle, error) {
	e1 := vertices[1].Sub(vertices[0])
	e2 := vertices[2].Sub(vertices[0])
	cross := e1.Cross(e2)

	area := 0.5 * cross.Len()
	if !isFinite(area) || area == 0 {
		return nil, ErrDegenerateTriangle
	}

	normal := cross.Normalize()
	if !isFinite(normal.Len()) {
		return nil, ErrDegenerateTriangle
	}

	return &Triangle{
		Vertices: vertices,
		Normal:   normal,
		Material: material,
		area:     area,
	}, nil
}

// Get the triangle surface area.
func (t *Triangle) Area() float32 {
	return t.area
}

// Get the triangle centroid.
func (t *Triangle) Centroid() types.Vec3 {
	return t.Vertices[0].Add(t.Vertices[1]).Add(t.Vertices[2]).Mul(1.0 / 3.0)
}

// Get the triangle AABB. Satisfies the bounded volume contract of the
// scene index builder.
func (t *Triangle) BBox() [2]types.Vec3 {
	min := types.MinVec3(types.MinVec3(t.Vertices[0], t.Vertices[1]), t.Vertices[2])
	max := types.MaxVec3(types.MaxVec3(t.Vertices[0], t.Vertices[1]), t.Vertices[2])
	return [2]types.Vec3{min, max}
}

// Get the triangle center. Satisfies the bounded volume contract of the
// scene index builder.
func (t *Triangle) Center() types.Vec3 {
	return t.Centroid()
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
