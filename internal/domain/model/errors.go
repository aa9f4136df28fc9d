package model

import "errors"

// Surface bounds in logical pixels. Every coordinate lies within them.
const (
	SurfaceWidth  = 700
	SurfaceHeight = 590
)

// Sentinel kinds shared by the loader, the scene and the renderer.
var (
	ErrUnmappedCategory = errors.New("category has no color mapping")
	ErrUnknownRecord    = errors.New("unknown record")
)
