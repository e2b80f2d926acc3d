package writer

import (
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

// The Writer interface is implemented by all mesh writers.
type Writer interface {
	// Write a colored triangle mesh. vertexColors carries one entry per
	// triangle corner, three consecutive entries per triangle.
	Write(tris []*scene.Triangle, vertexColors []types.Vec3) error
}

// Write a colored mesh to an ASCII PLY file.
func WriteMesh(tris []*scene.Triangle, vertexColors []types.Vec3, filename string) error {
	writer := newPlyWriter(filename)
	return writer.Write(tris, vertexColors)
}
