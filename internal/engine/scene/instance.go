package scene

import (
	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/pkg/math"
)

// Mesh is drawable geometry shared between instances.
type Mesh interface {
	Draw(program uint32)
}

// Instance places a shared mesh in the world with its own material.
type Instance struct {
	Name string
	Mesh Mesh

	Position math.Vec3
	Axis     math.Vec3 // Rotation axis, must be nonzero
	Angle    float32   // Rotation about Axis (radians)
	Scale    float32   // Uniform scale
	Spin     float32   // Angular velocity about Axis (radians/second)

	Material lighting.Material
}

// Model returns translate(position) * rotate(angle, axis) * scale(factor).
func (i *Instance) Model() math.Mat4 {
	translate := math.Translate(i.Position)
	rotate := math.Rotate(i.Angle, i.Axis)
	scale := math.Scale(math.Vec3{X: i.Scale, Y: i.Scale, Z: i.Scale})

	return translate.Mul(rotate).Mul(scale)
}
