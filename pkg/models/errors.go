package models

import "errors"

var (
	ErrTooManyVertices   = errors.New("mesh exceeds the maximum vertex count")
	ErrIndexOutOfRange   = errors.New("triangle index out of range")
	ErrEmptyMesh         = errors.New("mesh has no triangles")
	ErrMalformed         = errors.New("malformed statement")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
