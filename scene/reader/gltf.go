package reader

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/turner-renderer/renderer/log"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/types"
)

type gltfReader struct {
	logger log.Logger
}

func newGltfReader() *gltfReader {
	return &gltfReader{
		logger: log.New("gltfReader"),
	}
}

// Read a glTF or GLB document and flatten it into a triangle soup. Node
// transforms are not applied; geometry is consumed in mesh-local space.
func (r *gltfReader) Read(path string) (*scene.Scene, error) {
	r.logger.Noticef("parsing scene from %s", path)
	start := time.Now()

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltfReader: %v", err)
	}

	out := scene.NewScene()
	for _, m := range doc.Meshes {
		for primIndex, prim := range m.Primitives {
			if err := r.appendPrimitive(doc, prim, out); err != nil {
				return nil, fmt.Errorf("gltfReader: mesh %q, primitive %d: %v", m.Name, primIndex, err)
			}
		}
	}

	if len(out.Triangles) == 0 {
		return nil, fmt.Errorf("gltfReader: no triangles in %s", path)
	}

	r.logger.Noticef("parsed %d triangles in %s", len(out.Triangles), time.Since(start))
	return out, nil
}

func (r *gltfReader) appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, out *scene.Scene) error {
	// An absent mode also means triangles.
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}

	posIndex, exists := prim.Attributes[gltf.POSITION]
	if !exists {
		return fmt.Errorf("primitive defines no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
	if err != nil {
		return err
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return err
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	material := r.materialFor(doc, prim)

	for i := 0; i+2 < len(indices); i += 3 {
		var vertices [3]types.Vec3
		for corner := 0; corner < 3; corner++ {
			pos := positions[indices[i+corner]]
			vertices[corner] = types.XYZ(pos[0], pos[1], pos[2])
		}

		if err := out.AddTriangle(vertices, material); err != nil {
			r.logger.Warningf("skipping degenerate triangle at indices %d..%d", i, i+2)
		}
	}

	return nil
}

const emissiveStrengthExt = "KHR_materials_emissive_strength"

// Map a glTF PBR material to the diffuse/emissive pair the solver
// understands. Primitives without a material come out mid-grey.
func (r *gltfReader) materialFor(doc *gltf.Document, prim *gltf.Primitive) *scene.Material {
	grey := types.XYZ(0.5, 0.5, 0.5)
	if prim.Material == nil {
		return scene.NewDiffuseMaterial(grey)
	}

	src := doc.Materials[*prim.Material]
	mat := &scene.Material{
		Diffuse: grey,
		Emissive: types.XYZ(
			float32(src.EmissiveFactor[0]),
			float32(src.EmissiveFactor[1]),
			float32(src.EmissiveFactor[2]),
		).Mul(emissiveStrength(src)),
	}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		base := *pbr.BaseColorFactor
		mat.Diffuse = types.XYZ(float32(base[0]), float32(base[1]), float32(base[2]))
	}
	return mat
}

// Emissive factors are clamped to [0, 1] by the format; exporters encode
// brighter lights through the KHR_materials_emissive_strength multiplier.
// Unregistered extensions surface as raw JSON.
func emissiveStrength(src *gltf.Material) float32 {
	raw, exists := src.Extensions[emissiveStrengthExt]
	if !exists {
		return 1
	}
	data, ok := raw.(json.RawMessage)
	if !ok {
		return 1
	}
	var ext struct {
		EmissiveStrength *float32 `json:"emissiveStrength"`
	}
	if err := json.Unmarshal(data, &ext); err != nil || ext.EmissiveStrength == nil {
		return 1
	}
	return *ext.EmissiveStrength
}
