package reader

import (
	"fmt"
	"strings"

	"github.com/turner-renderer/renderer/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a file.
	Read(path string) (*scene.Scene, error)
}

// Read scene from file. The reader is selected by file extension.
func ReadScene(filename string) (*scene.Scene, error) {
	var reader Reader
	if strings.HasSuffix(filename, ".gltf") || strings.HasSuffix(filename, ".glb") {
		reader = newGltfReader()
	} else {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}
	return reader.Read(filename)
}
