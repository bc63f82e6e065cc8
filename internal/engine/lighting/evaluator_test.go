package lighting

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lightlab/pkg/math"
)

const eps = 1e-5

var (
	white   = math.Vec3{X: 1, Y: 1, Z: 1}
	plastic = Material{Ka: 0.2, Kd: 0.7, Ks: 1, Ns: 20}
)

func TestAttenuationFactor(t *testing.T) {
	a := Attenuation{Constant: 2, Linear: 0.1, Quadratic: 0.02}

	assert.Equal(t, float32(0.5), a.Factor(0))
	assert.InDelta(t, 1/(2+0.1*3+0.02*9), a.Factor(3), eps)
	assert.Less(t, a.Factor(1e6), float32(1e-9))

	prev := a.Factor(0)
	for d := float32(1); d < 100; d *= 2 {
		f := a.Factor(d)
		assert.Less(t, f, prev, "attenuation must fall off with distance")
		prev = f
	}
}

func TestAttenuationValidate(t *testing.T) {
	tests := []struct {
		name string
		att  Attenuation
		ok   bool
	}{
		{"reference", Attenuation{Constant: 1, Linear: 0.1, Quadratic: 0.02}, true},
		{"constant only", Attenuation{Constant: 1}, true},
		{"quadratic only", Attenuation{Quadratic: 1}, false},
		{"negative constant", Attenuation{Constant: -1}, false},
		{"negative linear", Attenuation{Constant: 1, Linear: -1}, false},
		{"negative quadratic", Attenuation{Constant: 1, Quadratic: -0.5}, false},
		{"nan constant", Attenuation{Constant: float32(gomath.NaN())}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.att.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidAttenuation)
		})
	}

	assert.ErrorIs(t, Validate(Spot{Attenuation: Attenuation{Linear: 1}}), ErrInvalidAttenuation)
	assert.NoError(t, Validate(Directional{Direction: math.Vec3{Y: -1}}))
}

func TestShadeAtValidLightIsFinite(t *testing.T) {
	frag := Fragment{
		Position: math.Vec3{X: 1, Y: 1, Z: 1},
		Normal:   math.Vec3{X: 0, Y: 1, Z: 0},
		Albedo:   white,
	}
	src := Point{Position: frag.Position, Colour: white, Attenuation: Attenuation{Constant: 1}}.Source()

	c := Shade(frag, plastic, []Source{src})
	for _, v := range []float32{c.X, c.Y, c.Z} {
		assert.False(t, gomath.IsNaN(float64(v)))
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestContributePointClosedForm(t *testing.T) {
	frag := Fragment{
		Position: math.Vec3{X: 0, Y: 0, Z: -4},
		Normal:   math.Vec3{X: 0, Y: 0, Z: 1},
		Albedo:   white,
	}
	src := Point{
		Position:    math.Vec3{X: 2, Y: 2, Z: -2},
		Colour:      white,
		Attenuation: Attenuation{Constant: 1, Linear: 0.1, Quadratic: 0.02},
	}.Source()

	c := Contribute(frag, plastic, src)

	dist := gomath.Sqrt(12)
	att := 1 / (1 + 0.1*dist + 0.02*12)
	want := 0.7 * (2 / dist) * att
	assert.InDelta(t, want, c.Diffuse.X, eps)
	assert.InDelta(t, want, c.Diffuse.Y, eps)
	assert.InDelta(t, want, c.Diffuse.Z, eps)
	assert.Equal(t, math.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, c.Ambient)
}

func TestContributeBackFacingHasNoDiffuse(t *testing.T) {
	frag := Fragment{
		Position: math.Vec3{X: 0, Y: 0, Z: -4},
		Normal:   math.Vec3{X: 0, Y: 0, Z: -1},
		Albedo:   white,
	}
	src := Point{Position: math.Vec3{}, Colour: white, Attenuation: Attenuation{Constant: 1}}.Source()

	c := Contribute(frag, plastic, src)
	assert.Equal(t, math.Vec3{}, c.Diffuse)
}

func TestContributeSpotCutoff(t *testing.T) {
	spot := Spot{
		Position:    math.Vec3{},
		Direction:   math.Vec3{X: 0, Y: 0, Z: -1},
		Colour:      white,
		Attenuation: Attenuation{Constant: 1, Linear: 0.1, Quadratic: 0.02},
		CosPhi:      float32(gomath.Cos(gomath.Pi / 6)),
	}.Source()

	inside := Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -5}, Normal: math.Vec3{X: 0, Y: 0, Z: 1}, Albedo: white}
	c := Contribute(inside, plastic, spot)
	assert.Greater(t, c.Diffuse.X, float32(0))

	// Outside the 30 degree cone at a range of distances
	for _, p := range []math.Vec3{{X: 0.5, Y: 0, Z: -0.5}, {X: 5, Y: 0, Z: -1}, {X: 5, Y: 0, Z: -5}, {X: 50, Y: 0, Z: -10}} {
		outside := Fragment{Position: p, Normal: math.Vec3{X: -1, Y: 0, Z: 0}, Albedo: white}
		c := Contribute(outside, plastic, spot)
		assert.Equal(t, math.Vec3{}, c.Diffuse, "at %v", p)
		assert.Equal(t, math.Vec3{}, c.Specular, "at %v", p)
		assert.Equal(t, math.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, c.Ambient, "at %v", p)
	}
}

func TestContributeDirectionalIgnoresPosition(t *testing.T) {
	src := Directional{Direction: math.Vec3{X: 1, Y: -1, Z: -1}, Colour: math.Vec3{X: 1, Y: 0.5, Z: 0.25}}.Source()
	normal := math.Vec3{X: 0, Y: 1, Z: 0.3}

	base := Contribute(Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -3}, Normal: normal, Albedo: white}, plastic, src)
	for _, p := range []math.Vec3{{X: 10, Y: 2, Z: -20}, {X: -4, Y: -4, Z: -1}, {X: 0.1, Y: 30, Z: -90}} {
		c := Contribute(Fragment{Position: p, Normal: normal, Albedo: white}, plastic, src)
		assert.Equal(t, base.Diffuse, c.Diffuse, "at %v", p)
		assert.Equal(t, base.Ambient, c.Ambient, "at %v", p)
	}

	// Only the orientation of the surface matters
	tilted := Contribute(Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -3}, Normal: math.Vec3{X: 1, Y: 0, Z: 0}, Albedo: white}, plastic, src)
	assert.NotEqual(t, base.Diffuse, tilted.Diffuse)
}

func TestContributeUnknownTypeIsDark(t *testing.T) {
	frag := Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -1}, Normal: math.Vec3{X: 0, Y: 0, Z: 1}, Albedo: white}

	for _, typ := range []Type{0, 4, -1, 99} {
		src := Source{Type: typ, Colour: white, Position: math.Vec3{X: 0, Y: 0, Z: 1}, Constant: 1}
		assert.Equal(t, Contribution{}, Contribute(frag, plastic, src), "type %d", typ)
	}
}

func TestContributeSpecularHighlight(t *testing.T) {
	// Light directly behind the eye reflects straight back into it
	frag := Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -2}, Normal: math.Vec3{X: 0, Y: 0, Z: 1}, Albedo: white}
	src := Directional{Direction: math.Vec3{X: 0, Y: 0, Z: -1}, Colour: white}.Source()

	c := Contribute(frag, plastic, src)
	assert.InDelta(t, 1, c.Specular.X, eps)
	assert.InDelta(t, 0.7, c.Diffuse.X, eps)
}

func TestShadeAlbedoScalesAmbientAndDiffuseOnly(t *testing.T) {
	frag := Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -2}, Normal: math.Vec3{X: 0, Y: 0, Z: 1}, Albedo: math.Vec3{X: 0, Y: 0, Z: 1}}
	src := Directional{Direction: math.Vec3{X: 0, Y: 0, Z: -1}, Colour: white}.Source()
	mat := Material{Ka: 0.1, Kd: 0.3, Ks: 0.2, Ns: 8}

	c := Contribute(frag, mat, src)
	assert.Equal(t, float32(0), c.Ambient.X)
	assert.Equal(t, float32(0), c.Diffuse.X)
	assert.InDelta(t, 0.2, c.Specular.X, eps)
	assert.InDelta(t, 0.6, c.Sum().Z, eps)
}

func TestShadeClampsAndCommutes(t *testing.T) {
	frag := Fragment{Position: math.Vec3{X: 0, Y: 0, Z: -2}, Normal: math.Vec3{X: 0, Y: 0, Z: 1}, Albedo: white}
	sources := []Source{
		Directional{Direction: math.Vec3{X: 0, Y: 0, Z: -1}, Colour: white}.Source(),
		Point{Position: math.Vec3{X: 1, Y: 1, Z: 0}, Colour: math.Vec3{X: 0.2, Y: 0.4, Z: 0.1}, Attenuation: Attenuation{Constant: 1}}.Source(),
		{Type: 42, Colour: white},
	}

	got := Shade(frag, plastic, sources)
	assert.Equal(t, float32(1), got.X)
	assert.LessOrEqual(t, got.Y, float32(1))

	reversed := []Source{sources[2], sources[1], sources[0]}
	assert.Equal(t, got, Shade(frag, plastic, reversed))

	dim := Shade(frag, Material{Ka: 0.01}, sources[1:2])
	assert.InDelta(t, 0.002, dim.X, eps)
	assert.InDelta(t, 0.004, dim.Y, eps)
}
