package scene

import "github.com/turner-renderer/renderer/types"

// Defines a scene material. Radiosity transport is diffuse-only so a material
// is fully described by its reflectivity and its emission.
type Material struct {
	// Diffuse reflectivity (rho). Each channel must be in [0, 1].
	Diffuse types.Vec3

	// Emissive color (if material is a light).
	Emissive types.Vec3
}

// Create a new diffuse material.
func NewDiffuseMaterial(diffuse types.Vec3) *Material {
	return &Material{Diffuse: diffuse}
}

// Create a new emissive material.
func NewEmissiveMaterial(emissive types.Vec3) *Material {
	return &Material{Emissive: emissive}
}
