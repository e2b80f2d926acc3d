// Package mesh tracks the triangle faces produced by recursive midpoint
// subdivision. It hands out stable handles for faces and vertices and keeps
// subdivision conforming: when two neighboring faces split the shared edge
// they agree on the midpoint vertex.
package mesh

import (
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

type FaceHandle int32
type VertexHandle int32

type face struct {
	corners [3]VertexHandle

	// Set when the face has been subdivided and replaced by four children.
	retired bool
}

// Key for the midpoint cache. Vertex handles are stored in ascending order so
// both faces sharing an edge address the same entry.
type edgeKey struct {
	a, b VertexHandle
}

func newEdgeKey(a, b VertexHandle) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{a, b}
}

type positionKey struct {
	x, y, z float32
}

// A Mesh is a dense arena of vertices and triangular faces. Handles are
// indices into the arenas and are never reused; subdividing a face retires it
// without invalidating outstanding handles.
type Mesh struct {
	points []types.Vec3
	faces  []face

	midpoints map[edgeKey]VertexHandle
	lookup    map[positionKey]VertexHandle
}

// Build a mesh with one face per input triangle. Vertices at identical
// positions are shared so that neighboring faces reference the same handles.
func Build(tris []*scene.Triangle) *Mesh {
	m := &Mesh{
		points:    make([]types.Vec3, 0, len(tris)*3),
		faces:     make([]face, 0, len(tris)),
		midpoints: make(map[edgeKey]VertexHandle),
		lookup:    make(map[positionKey]VertexHandle),
	}

	for _, tri := range tris {
		var corners [3]VertexHandle
		for i, pos := range tri.Vertices {
			corners[i] = m.addVertex(pos)
		}
		m.faces = append(m.faces, face{corners: corners})
	}

	return m
}

func (m *Mesh) addVertex(pos types.Vec3) VertexHandle {
	key := positionKey{pos[0], pos[1], pos[2]}
	if v, exists := m.lookup[key]; exists {
		return v
	}
	v := VertexHandle(len(m.points))
	m.points = append(m.points, pos)
	m.lookup[key] = v
	return v
}

// Get or create the midpoint vertex of an edge. The midpoint is cached by
// edge so subdivision stays conforming across neighboring faces.
func (m *Mesh) midpoint(a, b VertexHandle) VertexHandle {
	key := newEdgeKey(a, b)
	if v, exists := m.midpoints[key]; exists {
		return v
	}
	pos := m.points[a].Add(m.points[b]).Mul(0.5)
	v := m.addVertex(pos)
	m.midpoints[key] = v
	return v
}

// Split a face into four equal-area child faces by edge midpoint insertion.
// Children 0..2 keep corner i together with the two adjacent midpoints;
// child 3 is the center triangle. All children preserve the parent winding.
// The parent face is retired but its handle stays valid.
func (m *Mesh) Subdivide4(f FaceHandle) [4]FaceHandle {
	v0, v1, v2 := m.Corners(f)

	m01 := m.midpoint(v0, v1)
	m12 := m.midpoint(v1, v2)
	m20 := m.midpoint(v2, v0)

	children := [4][3]VertexHandle{
		{v0, m01, m20},
		{m01, v1, m12},
		{m20, m12, v2},
		{m01, m12, m20},
	}

	var handles [4]FaceHandle
	for i, corners := range children {
		handles[i] = FaceHandle(len(m.faces))
		m.faces = append(m.faces, face{corners: corners})
	}

	m.faces[f].retired = true
	return handles
}

// Get the corner vertex handles of a face.
func (m *Mesh) Corners(f FaceHandle) (VertexHandle, VertexHandle, VertexHandle) {
	c := m.faces[f].corners
	return c[0], c[1], c[2]
}

// Get the position of a vertex.
func (m *Mesh) Point(v VertexHandle) types.Vec3 {
	return m.points[v]
}

// Check whether a face has been subdivided.
func (m *Mesh) Retired(f FaceHandle) bool {
	return m.faces[f].retired
}

// Get the number of faces ever created, retired faces included.
func (m *Mesh) NumFaces() int {
	return len(m.faces)
}

// Get the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.points)
}
