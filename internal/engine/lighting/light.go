// Package lighting provides the light source model and the per-fragment
// illumination evaluator shared by the GPU and CPU paths.
package lighting

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lightlab/pkg/math"
)

// Type is the light type code seen by the shading stage.
type Type int32

// Light type codes. Any other value contributes nothing when shaded.
const (
	TypePoint       Type = 1
	TypeSpot        Type = 2
	TypeDirectional Type = 3
)

// String returns the config name of the type.
func (t Type) String() string {
	switch t {
	case TypePoint:
		return "point"
	case TypeSpot:
		return "spot"
	case TypeDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// Attenuation holds the distance falloff coefficients of a positional light.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// ErrInvalidAttenuation is returned for coefficients whose falloff could
// reach zero or go negative.
var ErrInvalidAttenuation = errors.New("attenuation needs a positive constant and non-negative linear and quadratic terms")

// Validate checks that Factor is finite and positive for every distance.
func (a Attenuation) Validate() error {
	if !(a.Constant > 0) || !(a.Linear >= 0) || !(a.Quadratic >= 0) {
		return fmt.Errorf("%w (got %g, %g, %g)", ErrInvalidAttenuation, a.Constant, a.Linear, a.Quadratic)
	}
	return nil
}

// Factor returns 1 / (constant + linear*d + quadratic*d^2).
func (a Attenuation) Factor(dist float32) float32 {
	return 1 / (a.Constant + a.Linear*dist + a.Quadratic*dist*dist)
}

// Light is one of Point, Spot or Directional.
type Light interface {
	// Type returns the shading-stage type code.
	Type() Type
	// Emission returns the RGB intensity.
	Emission() math.Vec3
	// InView returns the light with its position and direction expressed
	// in the camera space defined by view.
	InView(view math.Mat4) Light
	// Source flattens the light into its fixed-layout uniform record.
	Source() Source

	sealed()
}

// Point emits equally in all directions from Position.
type Point struct {
	Position    math.Vec3
	Colour      math.Vec3
	Attenuation Attenuation
}

// Spot emits from Position in a hard-edged cone around Direction.
type Spot struct {
	Position    math.Vec3
	Direction   math.Vec3
	Colour      math.Vec3
	Attenuation Attenuation
	// CosPhi is the cosine of the cone half-angle.
	CosPhi float32
}

// Directional lights every point from the same Direction with no falloff.
type Directional struct {
	Direction math.Vec3
	Colour    math.Vec3
}

func (Point) Type() Type       { return TypePoint }
func (Spot) Type() Type        { return TypeSpot }
func (Directional) Type() Type { return TypeDirectional }

func (l Point) Emission() math.Vec3       { return l.Colour }
func (l Spot) Emission() math.Vec3        { return l.Colour }
func (l Directional) Emission() math.Vec3 { return l.Colour }

// Validate checks the attenuation of positional lights.
func Validate(l Light) error {
	switch l := l.(type) {
	case Point:
		return l.Attenuation.Validate()
	case Spot:
		return l.Attenuation.Validate()
	}
	return nil
}

func (Point) sealed()       {}
func (Spot) sealed()        {}
func (Directional) sealed() {}

// InView transforms the position as a point (w=1).
func (l Point) InView(view math.Mat4) Light {
	l.Position = view.TransformPoint(l.Position)
	return l
}

// InView transforms the position as a point (w=1) and the direction as a
// vector (w=0).
func (l Spot) InView(view math.Mat4) Light {
	l.Position = view.TransformPoint(l.Position)
	l.Direction = view.TransformDirection(l.Direction)
	return l
}

// InView transforms the direction as a vector (w=0).
func (l Directional) InView(view math.Mat4) Light {
	l.Direction = view.TransformDirection(l.Direction)
	return l
}

func (l Point) Source() Source {
	return Source{
		Type:      TypePoint,
		Colour:    l.Colour,
		Position:  l.Position,
		Constant:  l.Attenuation.Constant,
		Linear:    l.Attenuation.Linear,
		Quadratic: l.Attenuation.Quadratic,
	}
}

func (l Spot) Source() Source {
	return Source{
		Type:      TypeSpot,
		Colour:    l.Colour,
		Position:  l.Position,
		Direction: l.Direction.Normalize(),
		Constant:  l.Attenuation.Constant,
		Linear:    l.Attenuation.Linear,
		Quadratic: l.Attenuation.Quadratic,
		CosPhi:    l.CosPhi,
	}
}

func (l Directional) Source() Source {
	return Source{
		Type:      TypeDirectional,
		Colour:    l.Colour,
		Direction: l.Direction.Normalize(),
	}
}

// PositionOf returns the position of a point or spot light.
func PositionOf(l Light) (math.Vec3, bool) {
	switch v := l.(type) {
	case Point:
		return v.Position, true
	case Spot:
		return v.Position, true
	default:
		return math.Vec3{}, false
	}
}
