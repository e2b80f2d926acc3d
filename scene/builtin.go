package scene

import "github.com/turner-renderer/renderer/types"

// Names of the builtin scenes that can be passed to Builtin.
var BuiltinNames = []string{"cornell", "facing-squares"}

// Look up a builtin scene by name.
func Builtin(name string) (*Scene, error) {
	switch name {
	case "cornell":
		return NewCornellScene()
	case "facing-squares":
		return NewFacingSquaresScene()
	}
	return nil, ErrUnknownScene
}

// Create a Cornell-style unit box: five diffuse walls (red left wall, green
// right wall, white floor, ceiling and back wall) and an emissive panel just
// below the ceiling. All wall normals point into the box.
func NewCornellScene() (*Scene, error) {
	white := NewDiffuseMaterial(types.XYZ(0.73, 0.73, 0.73))
	red := NewDiffuseMaterial(types.XYZ(0.65, 0.05, 0.05))
	green := NewDiffuseMaterial(types.XYZ(0.12, 0.45, 0.15))
	light := NewEmissiveMaterial(types.XYZ(5, 5, 5))

	s := NewScene()

	// Floor (y=0, normal +Y)
	if err := s.AddQuad(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), types.XYZ(1, 0, 0), white); err != nil {
		return nil, err
	}
	// Ceiling (y=1, normal -Y)
	if err := s.AddQuad(types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), types.XYZ(0, 0, 1), white); err != nil {
		return nil, err
	}
	// Back wall (z=1, normal -Z)
	if err := s.AddQuad(types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), white); err != nil {
		return nil, err
	}
	// Left wall (x=0, normal +X)
	if err := s.AddQuad(types.XYZ(0, 0, 0), types.XYZ(0, 1, 0), types.XYZ(0, 0, 1), red); err != nil {
		return nil, err
	}
	// Right wall (x=1, normal -X)
	if err := s.AddQuad(types.XYZ(1, 0, 0), types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), green); err != nil {
		return nil, err
	}
	// Light panel slightly below the ceiling (normal -Y)
	if err := s.AddQuad(types.XYZ(0.3, 0.999, 0.3), types.XYZ(0.4, 0, 0), types.XYZ(0, 0, 0.4), light); err != nil {
		return nil, err
	}

	return s, nil
}

// Create two parallel unit squares one unit apart, facing each other: a red
// emitter and a grey diffuse receiver.
func NewFacingSquaresScene() (*Scene, error) {
	emitter := NewEmissiveMaterial(types.XYZ(1, 0, 0))
	receiver := NewDiffuseMaterial(types.XYZ(0.5, 0.5, 0.5))

	s := NewScene()

	// Emitter at z=0, normal +Z
	if err := s.AddQuad(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0), emitter); err != nil {
		return nil, err
	}
	// Receiver at z=1, normal -Z
	if err := s.AddQuad(types.XYZ(0, 0, 1), types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), receiver); err != nil {
		return nil, err
	}

	return s, nil
}
