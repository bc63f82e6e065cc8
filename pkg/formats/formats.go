// Package formats provides parsers for the asset formats used by the scene.
package formats

// Note: Wavefront OBJ is implemented in obj.go
