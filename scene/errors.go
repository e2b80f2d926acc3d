package scene

import "errors"

var (
	ErrDegenerateTriangle = errors.New("scene: triangle has zero area or non-finite normal")
	ErrUnknownScene       = errors.New("scene: unknown builtin scene name")
)
