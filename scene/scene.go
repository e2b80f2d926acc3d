package scene

import "github.com/turner-renderer/renderer/types"

// A Scene is an ordered collection of triangles. The order in which triangles
// are added is significant: the radiosity solver treats it as the root
// traversal order and its output is aligned with it.
type Scene struct {
	Triangles []*Triangle
}

// Create a new empty scene.
func NewScene() *Scene {
	return &Scene{
		Triangles: make([]*Triangle, 0),
	}
}

// Append a triangle to the scene.
func (s *Scene) AddTriangle(vertices [3]types.Vec3, material *Material) error {
	tri, err := NewTriangle(vertices, material)
	if err != nil {
		return err
	}
	s.Triangles = append(s.Triangles, tri)
	return nil
}

// Append a quad to the scene as two triangles. The quad is spanned by two
// edge vectors starting at corner; its normal is u x v.
func (s *Scene) AddQuad(corner, u, v types.Vec3, material *Material) error {
	c0 := corner
	c1 := corner.Add(u)
	c2 := corner.Add(u).Add(v)
	c3 := corner.Add(v)

	if err := s.AddTriangle([3]types.Vec3{c0, c1, c2}, material); err != nil {
		return err
	}
	return s.AddTriangle([3]types.Vec3{c0, c2, c3}, material)
}
