package config

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightlab/internal/engine/camera"
	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/pkg/math"
)

// Validation errors.
var (
	ErrNoLights           = scene.ErrNoLights
	ErrTooManyLights      = scene.ErrTooManyLights
	ErrZeroAxis           = scene.ErrZeroAxis
	ErrInvalidAttenuation = lighting.ErrInvalidAttenuation
	ErrInvalidPitchLimit  = errors.New("pitch limit must be between 0 and 90 degrees")
	ErrUnknownLightType   = errors.New("unknown light type")
	ErrInvalidCutoff      = errors.New("spot cutoff must be between 0 and 90 degrees")
	ErrZeroDirection      = errors.New("light direction is zero")
	ErrEyeAtTarget        = errors.New("camera eye and target coincide")
	ErrInvalidViewport    = errors.New("width and height must be positive")
	ErrInvalidProjection  = errors.New("invalid projection")
)

// Vec3 is an [x, y, z] triple in YAML.
type Vec3 [3]float32

// Math converts to a math.Vec3.
func (v Vec3) Math() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// IsZero reports whether all components are zero, for omitempty.
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

// UnmarshalYAML accepts a sequence of exactly three numbers.
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var values []float32
	if err := node.Decode(&values); err != nil {
		return err
	}
	if len(values) != 3 {
		return fmt.Errorf("line %d: expected 3 components, got %d", node.Line, len(values))
	}
	copy(v[:], values)
	return nil
}

// MarshalYAML writes the vector as a flow sequence.
func (v Vec3) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range v {
		var item yaml.Node
		if err := item.Encode(c); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &item)
	}
	return node, nil
}

// Validate checks the settings a run cannot start without.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: %w", ErrInvalidViewport)
	}

	if c.Camera.Eye == c.Camera.Target {
		return fmt.Errorf("camera: %w", ErrEyeAtTarget)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("camera: %w: fov %g", ErrInvalidProjection, c.Camera.FOVDegrees)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera: %w: near %g, far %g", ErrInvalidProjection, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.PitchLimitDegrees <= 0 || c.Camera.PitchLimitDegrees >= 90 {
		return fmt.Errorf("camera: %w (got %g)", ErrInvalidPitchLimit, c.Camera.PitchLimitDegrees)
	}

	if len(c.Scene.Lights) == 0 {
		return ErrNoLights
	}
	if len(c.Scene.Lights) > lighting.MaxLights {
		return fmt.Errorf("%w (got %d)", ErrTooManyLights, len(c.Scene.Lights))
	}
	for i, lc := range c.Scene.Lights {
		if _, err := lc.Light(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}

	for i, ic := range c.Scene.Instances {
		if ic.Axis == (Vec3{}) {
			return fmt.Errorf("instance %d: %w", i, ErrZeroAxis)
		}
	}

	return nil
}

// Light converts the config entry into a light source.
func (lc LightConfig) Light() (lighting.Light, error) {
	att := lighting.Attenuation{
		Constant:  lc.Constant,
		Linear:    lc.Linear,
		Quadratic: lc.Quadratic,
	}
	if att == (lighting.Attenuation{}) {
		att.Constant = 1
	}

	typ := strings.ToLower(lc.Type)
	if typ == "point" || typ == "spot" {
		if err := att.Validate(); err != nil {
			return nil, err
		}
	}

	switch typ {
	case "point":
		return lighting.Point{
			Position:    lc.Position.Math(),
			Colour:      lc.Colour.Math(),
			Attenuation: att,
		}, nil

	case "spot":
		if lc.Direction == (Vec3{}) {
			return nil, ErrZeroDirection
		}
		if lc.CutoffDegrees <= 0 || lc.CutoffDegrees > 90 {
			return nil, fmt.Errorf("%w (got %g)", ErrInvalidCutoff, lc.CutoffDegrees)
		}
		return lighting.Spot{
			Position:    lc.Position.Math(),
			Direction:   lc.Direction.Math(),
			Colour:      lc.Colour.Math(),
			Attenuation: att,
			CosPhi:      float32(gomath.Cos(float64(math.Radians(lc.CutoffDegrees)))),
		}, nil

	case "directional":
		if lc.Direction == (Vec3{}) {
			return nil, ErrZeroDirection
		}
		return lighting.Directional{
			Direction: lc.Direction.Math(),
			Colour:    lc.Colour.Math(),
		}, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownLightType, lc.Type)
}

// LightSources converts every configured light.
func (s SceneConfig) LightSources() ([]lighting.Light, error) {
	lights := make([]lighting.Light, 0, len(s.Lights))
	for i, lc := range s.Lights {
		l, err := lc.Light()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		lights = append(lights, l)
	}
	return lights, nil
}

// Instance builds a scene instance drawing mesh.
func (ic InstanceConfig) Instance(index int, mesh scene.Mesh) *scene.Instance {
	name := ic.Name
	if name == "" {
		name = fmt.Sprintf("instance-%d", index)
	}
	return &scene.Instance{
		Name:     name,
		Mesh:     mesh,
		Position: ic.Position.Math(),
		Axis:     ic.Axis.Math(),
		Angle:    math.Radians(ic.AngleDegrees),
		Scale:    ic.Scale,
		Spin:     math.Radians(ic.SpinDegrees),
		Material: lighting.Material{
			Ka: ic.Material.Ka,
			Kd: ic.Material.Kd,
			Ks: ic.Material.Ks,
			Ns: ic.Material.Ns,
		},
	}
}

// NewCamera builds the camera for a width x height viewport.
func (cc CameraConfig) NewCamera(width, height int) *camera.Camera {
	cam := camera.New(cc.Eye.Math(), cc.Target.Math())
	cam.FOV = math.Radians(cc.FOVDegrees)
	cam.Near = cc.Near
	cam.Far = cc.Far
	cam.SetPitchLimit(math.Radians(cc.PitchLimitDegrees))
	cam.SetViewport(width, height)
	cam.CalculateMatrices()
	return cam
}

// Settings returns the scene input and marker settings.
func (c *Config) Settings() scene.Settings {
	return scene.Settings{
		MoveSpeed:        c.Camera.MoveSpeed,
		MouseSensitivity: c.Camera.MouseSensitivity,
		MarkerScale:      c.Scene.MarkerScale,
	}
}

// BuildScene assembles the configured scene. Every instance draws mesh and
// positional lights are marked with marker (nil for no markers).
func (c *Config) BuildScene(mesh, marker scene.Mesh, width, height int) (*scene.Scene, error) {
	lights, err := c.Scene.LightSources()
	if err != nil {
		return nil, err
	}

	instances := make([]*scene.Instance, len(c.Scene.Instances))
	for i, ic := range c.Scene.Instances {
		instances[i] = ic.Instance(i, mesh)
	}

	s, err := scene.New(c.Camera.NewCamera(width, height), lights, instances, c.Settings())
	if err != nil {
		return nil, err
	}
	s.MarkerMesh = marker
	return s, nil
}
