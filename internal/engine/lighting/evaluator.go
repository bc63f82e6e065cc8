package lighting

import (
	gomath "math"

	"github.com/Faultbox/lightlab/pkg/math"
)

// Material holds the Phong reflection coefficients of a surface.
type Material struct {
	Ka float32 // Ambient
	Kd float32 // Diffuse
	Ks float32 // Specular
	Ns float32 // Specular exponent
}

// Fragment is one shaded point in view space.
type Fragment struct {
	Position math.Vec3
	Normal   math.Vec3
	// Albedo is the diffuse texture sample; it scales ambient and diffuse.
	Albedo math.Vec3
}

// Contribution is the light reflected from one source, split by term.
type Contribution struct {
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3
}

// Sum returns ambient + diffuse + specular.
func (c Contribution) Sum() math.Vec3 {
	return c.Ambient.Add(c.Diffuse).Add(c.Specular)
}

// Shade evaluates the illumination of frag under every source and clamps
// the result to [0, 1]. It is the CPU mirror of lit.frag.
func Shade(frag Fragment, mat Material, sources []Source) math.Vec3 {
	var colour math.Vec3
	for i := range sources {
		colour = colour.Add(Contribute(frag, mat, sources[i]).Sum())
	}
	return colour.Clamp(0, 1)
}

// Contribute evaluates a single source. The eye is the view-space origin.
// Unrecognized types contribute nothing. A spot light outside its cone keeps
// its ambient term only.
func Contribute(frag Fragment, mat Material, s Source) Contribution {
	var (
		l           math.Vec3
		attenuation float32 = 1
		lit                 = true
	)

	switch s.Type {
	case TypePoint, TypeSpot:
		toLight := s.Position.Sub(frag.Position)
		l = toLight.Normalize()
		attenuation = Attenuation{s.Constant, s.Linear, s.Quadratic}.Factor(toLight.Length())
		if s.Type == TypeSpot {
			cosTheta := l.Neg().Dot(s.Direction.Normalize())
			lit = cosTheta >= s.CosPhi
		}
	case TypeDirectional:
		l = s.Direction.Neg().Normalize()
	default:
		return Contribution{}
	}

	var c Contribution
	c.Ambient = s.Colour.Mul(frag.Albedo).Scale(mat.Ka)
	if !lit {
		return c
	}

	n := frag.Normal.Normalize()
	v := frag.Position.Neg().Normalize()

	cosTheta := max(n.Dot(l), 0)
	c.Diffuse = s.Colour.Mul(frag.Albedo).Scale(mat.Kd * cosTheta * attenuation)

	r := l.Neg().Reflect(n)
	cosAlpha := max(r.Dot(v), 0)
	c.Specular = s.Colour.Scale(mat.Ks * pow32(cosAlpha, mat.Ns) * attenuation)

	return c
}

func pow32(x, y float32) float32 {
	return float32(gomath.Pow(float64(x), float64(y)))
}
