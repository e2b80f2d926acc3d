package writer

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/turner-renderer/renderer/log"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

type plyWriter struct {
	logger   log.Logger
	meshFile string
}

// Create a new ascii PLY mesh writer.
func newPlyWriter(meshFile string) *plyWriter {
	return &plyWriter{
		logger:   log.New("plyWriter"),
		meshFile: meshFile,
	}
}

// Write the mesh as ascii PLY: three colored vertices per triangle followed
// by one face per triangle. Vertices are not shared between faces so each
// face keeps its flat color.
func (w *plyWriter) Write(tris []*scene.Triangle, vertexColors []types.Vec3) error {
	if len(vertexColors) != 3*len(tris) {
		return fmt.Errorf("plyWriter: got %d vertex colors for %d triangles; want %d", len(vertexColors), len(tris), 3*len(tris))
	}

	w.logger.Noticef("writing mesh to %s", w.meshFile)
	start := time.Now()

	meshFile, err := os.Create(w.meshFile)
	if err != nil {
		return err
	}
	defer meshFile.Close()

	buf := bufio.NewWriter(meshFile)
	if err := writeMesh(buf, tris, vertexColors); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	w.logger.Noticef("wrote %d triangles in %s", len(tris), time.Since(start))
	return nil
}

func writeMesh(out io.Writer, tris []*scene.Triangle, vertexColors []types.Vec3) error {
	fmt.Fprintf(out, "ply\nformat ascii 1.0\n")
	fmt.Fprintf(out, "element vertex %d\n", 3*len(tris))
	fmt.Fprintf(out, "property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(out, "property uchar red\nproperty uchar green\nproperty uchar blue\n")
	fmt.Fprintf(out, "element face %d\n", len(tris))
	fmt.Fprintf(out, "property list uchar int vertex_indices\n")
	fmt.Fprintf(out, "end_header\n")

	for triIndex, tri := range tris {
		for corner, pos := range tri.Vertices {
			red, green, blue := quantizeColor(vertexColors[3*triIndex+corner])
			if _, err := fmt.Fprintf(out, "%g %g %g %d %d %d\n", pos[0], pos[1], pos[2], red, green, blue); err != nil {
				return err
			}
		}
	}
	for triIndex := range tris {
		if _, err := fmt.Fprintf(out, "3 %d %d %d\n", 3*triIndex, 3*triIndex+1, 3*triIndex+2); err != nil {
			return err
		}
	}

	return nil
}

// Map a radiometric value to an 8-bit display color. Radiosity is unbounded
// above so each channel is clipped to [0, 1] before quantization.
func quantizeColor(c types.Vec3) (uint8, uint8, uint8) {
	quantize := func(v float32) uint8 {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		return uint8(math.Round(float64(v) * 255))
	}
	return quantize(c[0]), quantize(c[1]), quantize(c[2])
}
