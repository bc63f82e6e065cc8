// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms meshes into clip and view space.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader evaluates every light in LightBlock per fragment.
// It must be compiled with NUM_LIGHTS defined.
//
//go:embed lit.frag
var LitFragmentShader string

// MarkerVertexShader is the vertex shader for light marker cubes.
//
//go:embed marker.vert
var MarkerVertexShader string

// MarkerFragmentShader fills a marker with its light's colour.
//
//go:embed marker.frag
var MarkerFragmentShader string
